package schema

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2/1/2006", // dd/mm/yyyy, as the job boards print it
	"2006-1-2",
	time.RFC3339,
}

// ParseDate parses a day-first slash date, an ISO date or an RFC 3339
// timestamp. Dates without a time are midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// NormalizeDate converts a JSON string date to epoch milliseconds. Numbers,
// unparseable strings and other values are returned unchanged.
func NormalizeDate(raw json.RawMessage) json.RawMessage {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return raw
	}
	t, ok := ParseDate(s)
	if !ok {
		return raw
	}
	return json.RawMessage(strconv.FormatInt(t.UnixMilli(), 10))
}
