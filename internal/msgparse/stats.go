package msgparse

import (
	"math"
	"sort"
	"time"

	"skyperious/internal/skypedata"
)

// DayBucket is an (hour, author) occurrence counter, as collected for the
// per-author 24-hour histogram.
type DayBucket struct {
	Hour    int
	Author  string
	Count   int
}

// Stats accumulates the statistics collect_message_stats gathers while
// parsing a conversation's messages: timeline histograms, per-author
// counts, emoticon counts, and extracted links.
type Stats struct {
	enabled bool

	hourCounts map[int]map[string]int     // hour -> author -> count
	dayCounts  map[string]map[string]int  // date (YYYY-MM-DD) -> author -> count
	earliest   map[string]struct {
		datetime time.Time
		msgID    int64
	}

	MessagesByAuthor  map[string]int
	CharsByAuthor     map[string]int
	SMSesByAuthor     map[string]int
	SMSCharsByAuthor  map[string]int
	FilesByAuthor     map[string]int
	BytesByAuthor     map[string]int64
	SharesByAuthor    map[string]int
	ShareBytesByAuthor map[string]int64
	CallDurByAuthor   map[string]int64

	EmoticonsByAuthor map[string]map[string]int
	LinksByAuthor     map[string][]string

	SharedMedia map[int64]SharedMediaRef

	CloudWords []string

	minTime, maxTime time.Time
}

// NewStats returns a Stats aggregator, collecting only when enabled is
// true (cheap no-op calls otherwise, matching the `stats=true` parser
// construction flag).
func NewStats(enabled bool) *Stats {
	return &Stats{
		enabled:            enabled,
		hourCounts:         map[int]map[string]int{},
		dayCounts:          map[string]map[string]int{},
		earliest:           map[string]struct{ datetime time.Time; msgID int64 }{},
		MessagesByAuthor:   map[string]int{},
		CharsByAuthor:      map[string]int{},
		SMSesByAuthor:      map[string]int{},
		SMSCharsByAuthor:   map[string]int{},
		FilesByAuthor:      map[string]int{},
		BytesByAuthor:      map[string]int64{},
		SharesByAuthor:     map[string]int{},
		ShareBytesByAuthor: map[string]int64{},
		CallDurByAuthor:    map[string]int64{},
		EmoticonsByAuthor:  map[string]map[string]int{},
		LinksByAuthor:      map[string][]string{},
		SharedMedia:        map[int64]SharedMediaRef{},
	}
}

// Collect folds msg and its rendered DOM into the aggregator.
func (s *Stats) Collect(msg skypedata.Message, rendered *Node) {
	if !s.enabled {
		return
	}
	t := msg.Time()
	author := msg.Author

	s.touchBucket(t, author, msg.ID)

	if s.minTime.IsZero() || t.Before(s.minTime) {
		s.minTime = t
	}
	if t.After(s.maxTime) {
		s.maxTime = t
	}

	if skypedata.MessageTypesMessage[msg.Type] {
		s.MessagesByAuthor[author]++
		s.CharsByAuthor[author] += len(rendered.AllText())
	}
	if msg.Type == skypedata.TypeSMS {
		s.SMSesByAuthor[author]++
		s.SMSCharsByAuthor[author] += len(rendered.AllText())
	}
	if msg.Type == skypedata.TypeFile {
		s.FilesByAuthor[author]++
	}

	if ref, ok := ExtractSharedMedia(rendered); ok {
		s.SharedMedia[msg.ID] = ref
		s.SharesByAuthor[author]++
		s.ShareBytesByAuthor[author] += ref.Filesize
	}

	collectEmoticons(rendered, func(name string) {
		if s.EmoticonsByAuthor[author] == nil {
			s.EmoticonsByAuthor[author] = map[string]int{}
		}
		s.EmoticonsByAuthor[author][name]++
	})
	collectLinks(rendered, func(href string) {
		s.LinksByAuthor[author] = append(s.LinksByAuthor[author], href)
	})

	s.CloudWords = append(s.CloudWords, cloudWordsOf(rendered)...)
}

func (s *Stats) touchBucket(t time.Time, author string, msgID int64) {
	hour := t.Hour()
	if s.hourCounts[hour] == nil {
		s.hourCounts[hour] = map[string]int{}
	}
	s.hourCounts[hour][author]++

	day := t.Format("2006-01-02")
	if s.dayCounts[day] == nil {
		s.dayCounts[day] = map[string]int{}
	}
	s.dayCounts[day][author]++

	key := day
	if cur, ok := s.earliest[key]; !ok || t.Before(cur.datetime) {
		s.earliest[key] = struct {
			datetime time.Time
			msgID    int64
		}{t, msgID}
	}
}

func collectEmoticons(n *Node, fn func(name string)) {
	if n.Tag == "ss" {
		fn(n.Attr("type"))
	}
	for _, c := range n.Children {
		collectEmoticons(c, fn)
	}
}

func collectLinks(n *Node, fn func(href string)) {
	if n.Tag == "a" {
		href := n.Attr("href")
		if href == "" {
			href = n.Text
		}
		fn(href)
	}
	for _, c := range n.Children {
		collectLinks(c, fn)
	}
}

// HistogramBin is one bucket of get_collected_stats's N-bin day histogram.
type HistogramBin struct {
	Start        time.Time
	End          time.Time
	Total        int
	ByAuthor     map[string]int
	EarliestMsgID int64
}

// CollectedStats is the finalized report get_collected_stats returns.
type CollectedStats struct {
	HourHistogram map[int]map[string]int
	DayBins       []HistogramBin
	InfoItems     map[string]any
}

// GetCollectedStats finalizes the aggregator: a per-author 24-hour
// histogram plus an N-bin day histogram spanning the full date range
// (default bin count 10, bin width ceil(days/N)), each bin carrying
// per-author counts and its earliest message id.
func (s *Stats) GetCollectedStats(binCount int) CollectedStats {
	if binCount <= 0 {
		binCount = 10
	}
	out := CollectedStats{HourHistogram: s.hourCounts, InfoItems: map[string]any{}}

	if s.minTime.IsZero() || s.maxTime.IsZero() {
		return out
	}
	totalDays := int(math.Ceil(s.maxTime.Sub(s.minTime).Hours() / 24))
	if totalDays < 1 {
		totalDays = 1
	}
	binWidth := int(math.Ceil(float64(totalDays) / float64(binCount)))
	if binWidth < 1 {
		binWidth = 1
	}

	var days []string
	for d := range s.dayCounts {
		days = append(days, d)
	}
	sort.Strings(days)

	bins := make([]HistogramBin, 0, binCount)
	cursor := s.minTime
	for cursor.Before(s.maxTime) || len(bins) == 0 {
		end := cursor.AddDate(0, 0, binWidth)
		bin := HistogramBin{Start: cursor, End: end, ByAuthor: map[string]int{}}
		for _, day := range days {
			parsed, err := time.Parse("2006-01-02", day)
			if err != nil || parsed.Before(cursor) || !parsed.Before(end) {
				continue
			}
			for author, count := range s.dayCounts[day] {
				bin.ByAuthor[author] += count
				bin.Total += count
			}
			if e, ok := s.earliest[day]; ok && (bin.EarliestMsgID == 0 || e.msgID < bin.EarliestMsgID) {
				bin.EarliestMsgID = e.msgID
			}
		}
		bins = append(bins, bin)
		cursor = end
		if len(bins) >= binCount*2 { // safety valve against pathological spans
			break
		}
	}
	out.DayBins = bins

	totalMessages := 0
	for _, c := range s.MessagesByAuthor {
		totalMessages += c
	}
	totalSMS := 0
	for _, c := range s.SMSesByAuthor {
		totalSMS += c
	}
	totalFiles := 0
	for _, c := range s.FilesByAuthor {
		totalFiles += c
	}
	totalShares := 0
	for _, c := range s.SharesByAuthor {
		totalShares += c
	}
	totalCalls := int64(0)
	for _, c := range s.CallDurByAuthor {
		totalCalls += c
	}

	out.InfoItems["period"] = [2]time.Time{s.minTime, s.maxTime}
	out.InfoItems["messages"] = totalMessages
	out.InfoItems["smses"] = totalSMS
	out.InfoItems["calls"] = totalCalls
	out.InfoItems["files"] = totalFiles
	out.InfoItems["shares"] = totalShares
	if totalDays > 0 {
		out.InfoItems["messages_per_day"] = float64(totalMessages) / float64(totalDays)
	}
	return out
}
