package caliper

import "time"

// TimeFormat renders instants as ISO-8601 UTC with millisecond precision.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// FormatTime converts t to UTC and formats it with TimeFormat.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// ParseTime parses an RFC 3339 timestamp, with or without fractional
// seconds, and returns it in UTC.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
