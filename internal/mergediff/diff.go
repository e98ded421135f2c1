package mergediff

import (
	"regexp"
	"sort"
	"time"

	"skyperious/internal/msgparse"
	"skyperious/internal/skypedata"
)

// MatchSlack is the tolerance applied by MatchTime when pairing messages
// across the two sides of a diff, per spec.md §4.4.
const MatchSlack = 3 * time.Minute

// ProgressPostbackInterval is how often (in messages processed) GetChatDiffLeft
// reports progress through its callback.
const ProgressPostbackInterval = 5000

// UIYieldInterval is how often a long-running diff/merge pass should yield
// to a cooperative scheduler, independent of the postback cadence.
const UIYieldInterval = 20000

// ParticipantInfo pairs a participant row with the contact id it resolves
// to, or zero if the identity has no matching Contacts row — the extra bit
// spec.md §4.4 step 1 needs to tell "absent" from "present but contactless."
type ParticipantInfo struct {
	Participant skypedata.Participant
	ContactID   int64
}

// SharedFileDelta is a shared file present on the left and missing (or only
// partially linked) on the right. MsgID2 is the right-side message id the
// file should attach to once copied, or zero for a brand new message.
type SharedFileDelta struct {
	File   skypedata.SharedFile
	MsgID2 int64
}

// ChatDiff is the left-to-right delta for a single chat pair.
type ChatDiff struct {
	MessageIDs   []int64 // left-side message ids missing on the right, timestamp ascending
	Participants []ParticipantInfo
	SharedFiles  []SharedFileDelta
}

// ProgressFunc is invoked at ProgressPostbackInterval message boundaries
// with the number of messages processed so far and the total; returning
// false aborts the remaining comparison, per spec.md §5's cancellation rule.
type ProgressFunc func(index, total int) bool

// DiffParticipants returns the left participants absent on the right, or
// present on the right with no linked contact while the left one has one.
func DiffParticipants(left, right []ParticipantInfo) []ParticipantInfo {
	rightByIdentity := make(map[string]ParticipantInfo, len(right))
	for _, p := range right {
		rightByIdentity[p.Participant.Identity] = p
	}
	var diff []ParticipantInfo
	for _, p := range left {
		r, ok := rightByIdentity[p.Participant.Identity]
		if !ok || (p.ContactID != 0 && r.ContactID == 0) {
			diff = append(diff, p)
		}
	}
	return diff
}

type bucketKey struct {
	authorKey string
	textKey   string
}

type messageRef struct {
	id int64
	at time.Time
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func normalizeWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}

// messageTextKey renders a message through the C3 text formatter with
// default render options: canonical DOM rewrite, quote normalization,
// plain-text render, whitespace-collapsed. Two messages with the same rendered text
// compare equal regardless of incidental body_xml formatting differences.
func messageTextKey(msg skypedata.Message, transfers []skypedata.Transfer) string {
	root := msgparse.ParseBody(msg.BodyXML)
	root = msgparse.Rewrite(root, msg, msgparse.RewriteOptions{Transfers: transfers})
	msgparse.RewriteQuotes(root)
	return normalizeWhitespace(msgparse.RenderText(root, msgparse.RenderOptions{}))
}

// buildRightBuckets assembles every right-side message into
// date -> (authorKey, textKey) -> [(id, datetime)], as spec.md §4.4 step 2
// describes, calling progress every ProgressPostbackInterval messages.
func buildRightBuckets(messages []skypedata.Message, transfers map[int64][]skypedata.Transfer, accountIdentities map[string]bool, progress ProgressFunc, total int, index *int) map[string]map[bucketKey][]messageRef {
	buckets := map[string]map[bucketKey][]messageRef{}
	for _, m := range messages {
		t := m.Time()
		if t.IsZero() {
			continue
		}
		authorKey := ""
		if !accountIdentities[m.Author] {
			authorKey = m.Author
		}
		key := bucketKey{authorKey: authorKey, textKey: messageTextKey(m, transfers[m.ID])}
		dateKey := t.Format("2006-01-02")
		byKey := buckets[dateKey]
		if byKey == nil {
			byKey = map[bucketKey][]messageRef{}
			buckets[dateKey] = byKey
		}
		byKey[key] = append(byKey[key], messageRef{id: m.ID, at: t})

		*index++
		if progress != nil && *index%ProgressPostbackInterval == 0 {
			if !progress(*index, total) {
				break
			}
		}
	}
	return buckets
}

// GetChatDiffLeft compares the left and right sides of a single chat pair
// and returns the delta to apply on the right. sharedFiles1/sharedFiles2
// are the _shared_files_ rows with a readable local copy for that side;
// transfers1 supplies the <files> metadata needed to render file messages
// identically to the renderer used elsewhere.
func GetChatDiffLeft(
	messages1, messages2 []skypedata.Message,
	transfers1, transfers2 map[int64][]skypedata.Transfer,
	participants1, participants2 []ParticipantInfo,
	sharedFiles1, sharedFiles2 map[int64]skypedata.SharedFile,
	accountIdentities map[string]bool,
	progress ProgressFunc,
) ChatDiff {
	diff := ChatDiff{Participants: DiffParticipants(participants1, participants2)}

	total := len(messages1) + len(messages2)
	index := 0

	if len(messages1) == 0 {
		index += len(messages2)
		if progress != nil {
			progress(index, total)
		}
		return diff
	}
	if len(messages2) == 0 {
		var matched []messageRef
		for _, m := range messages1 {
			t := m.Time()
			if t.IsZero() {
				continue
			}
			matched = append(matched, messageRef{id: m.ID, at: t})
		}
		sortByTime(matched)
		for _, m := range matched {
			diff.MessageIDs = append(diff.MessageIDs, m.id)
		}
		for _, f := range sharedFiles1 {
			diff.SharedFiles = append(diff.SharedFiles, SharedFileDelta{File: f})
		}
		index += len(messages1)
		if progress != nil {
			progress(index, total)
		}
		return diff
	}

	buckets := buildRightBuckets(messages2, transfers2, accountIdentities, progress, total, &index)
	right2Files := map[int64]bool{}
	for id := range sharedFiles2 {
		right2Files[id] = true
	}

	var matches []messageRef
	for _, m := range messages1 {
		t := m.Time()
		if t.IsZero() {
			continue
		}
		authorKey := m.Author
		if accountIdentities[m.Author] {
			authorKey = ""
		}
		key := bucketKey{authorKey: authorKey, textKey: messageTextKey(m, transfers1[m.ID])}

		var candidates []messageRef
		for _, deltaDays := range []int{-1, 0, 1} {
			dateKey := t.AddDate(0, 0, deltaDays).Format("2006-01-02")
			candidates = append(candidates, buckets[dateKey][key]...)
		}
		var match *messageRef
		for i := range candidates {
			if MatchTime(t, candidates[i].at, MatchSlack) {
				match = &candidates[i]
				break
			}
		}

		if match == nil {
			matches = append(matches, messageRef{id: m.ID, at: t})
		}
		if f, ok := sharedFiles1[m.ID]; ok {
			if match == nil || !right2Files[match.id] {
				delta := SharedFileDelta{File: f}
				if match != nil {
					delta.MsgID2 = match.id
				}
				diff.SharedFiles = append(diff.SharedFiles, delta)
			}
		}

		index++
		if progress != nil && index%ProgressPostbackInterval == 0 {
			if !progress(index, total) {
				break
			}
		}
	}

	sortByTime(matches)
	for _, m := range matches {
		diff.MessageIDs = append(diff.MessageIDs, m.id)
	}
	return diff
}

func sortByTime(refs []messageRef) {
	sort.Slice(refs, func(i, j int) bool { return refs[i].at.Before(refs[j].at) })
}
