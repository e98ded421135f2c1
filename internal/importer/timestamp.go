package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var arrivalTimeRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})T(\d{2}:\d{2}:\d{2})(?:\.(\d+))?Z$`)

// parseArrivalTime parses an originalarrivaltime value like
// "2020-07-06T17:20:30.609Z", accepting a fractional-seconds suffix of any
// digit count (truncated or zero-padded to milliseconds), and returns
// milliseconds since the Unix epoch.
func parseArrivalTime(value string) (int64, error) {
	m := arrivalTimeRe.FindStringSubmatch(value)
	if m == nil {
		return 0, fmt.Errorf("importer: unrecognized arrival time %q", value)
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", m[1]+" "+m[2], time.UTC)
	if err != nil {
		return 0, err
	}
	ms := t.UnixMilli()
	if frac := m[3]; frac != "" {
		if len(frac) > 3 {
			frac = frac[:3]
		} else {
			frac += strings.Repeat("0", 3-len(frac))
		}
		fracMs, err := strconv.Atoi(frac)
		if err == nil {
			ms += int64(fracMs)
		}
	}
	return ms, nil
}
