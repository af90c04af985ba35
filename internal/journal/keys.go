// Package journal maps recordings to the on-disk layout: compact timestamp
// keys, year-partitioned audio and transcript paths, and entry enumeration.
package journal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// keyPattern matches a timestamp key stem: MON_DD_HH.MM with an optional
// collision suffix, e.g. AUG_25_14.30 or AUG_25_14.30_2.
var keyPattern = regexp.MustCompile(`^([A-Z]{3})_(\d{2})_(\d{2})\.(\d{2})(?:_(\d+))?$`)

var monthsByAbbrev = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// Key derives the compact timestamp key for t: 3-letter uppercase month,
// 2-digit day, 2-digit hour, 2-digit minute, e.g. AUG_25_14.30.
func Key(t time.Time) string {
	return strings.ToUpper(t.Format("Jan")) + t.Format("_02_15.04")
}

// KeyParts is a parsed timestamp key.
type KeyParts struct {
	Month  time.Month
	Day    int
	Hour   int
	Minute int

	// Seq is 1 for a base key and 2+ when the key carries a collision
	// suffix (second recording in the same minute).
	Seq int
}

// ParseKey parses a filename stem back into its timestamp parts.
func ParseKey(stem string) (KeyParts, error) {
	m := keyPattern.FindStringSubmatch(stem)
	if m == nil {
		return KeyParts{}, fmt.Errorf("invalid entry key %q", stem)
	}

	month, ok := monthsByAbbrev[m[1]]
	if !ok {
		return KeyParts{}, fmt.Errorf("invalid entry key %q: unknown month %q", stem, m[1])
	}

	day, _ := strconv.Atoi(m[2])
	hour, _ := strconv.Atoi(m[3])
	minute, _ := strconv.Atoi(m[4])

	if day < 1 || day > 31 {
		return KeyParts{}, fmt.Errorf("invalid entry key %q: day out of range", stem)
	}
	if hour > 23 {
		return KeyParts{}, fmt.Errorf("invalid entry key %q: hour out of range", stem)
	}
	if minute > 59 {
		return KeyParts{}, fmt.Errorf("invalid entry key %q: minute out of range", stem)
	}

	seq := 1
	if m[5] != "" {
		seq, _ = strconv.Atoi(m[5])
		if seq < 2 {
			return KeyParts{}, fmt.Errorf("invalid entry key %q: bad collision suffix", stem)
		}
	}

	return KeyParts{Month: month, Day: day, Hour: hour, Minute: minute, Seq: seq}, nil
}

// Date reconstructs the key's timestamp in the given year and location,
// second precision and below zeroed.
func (p KeyParts) Date(year int, loc *time.Location) time.Time {
	return time.Date(year, p.Month, p.Day, p.Hour, p.Minute, 0, 0, loc)
}
