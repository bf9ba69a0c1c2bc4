// Package timestr parses the human timeout strings used in keyword arguments:
// "10s", "10", "1.5", "500 ms", "1 min 30 s", "2 minutes".
package timestr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var token = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*([a-z]*)\s*`)

var units = map[string]time.Duration{
	"":             time.Second,
	"ms":           time.Millisecond,
	"millis":       time.Millisecond,
	"millisecond":  time.Millisecond,
	"milliseconds": time.Millisecond,
	"s":            time.Second,
	"sec":          time.Second,
	"secs":         time.Second,
	"second":       time.Second,
	"seconds":      time.Second,
	"m":            time.Minute,
	"min":          time.Minute,
	"mins":         time.Minute,
	"minute":       time.Minute,
	"minutes":      time.Minute,
	"h":            time.Hour,
	"hour":         time.Hour,
	"hours":        time.Hour,
	"d":            24 * time.Hour,
	"day":          24 * time.Hour,
	"days":         24 * time.Hour,
}

func Parse(s string) (time.Duration, error) {
	rest := strings.ToLower(strings.TrimSpace(s))
	if rest == "" {
		return 0, fmt.Errorf("empty time string")
	}
	var total time.Duration
	for rest != "" {
		m := token.FindStringSubmatch(rest)
		if m == nil {
			return 0, fmt.Errorf("invalid time string %q", s)
		}
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid time string %q: %w", s, err)
		}
		unit, ok := units[m[2]]
		if !ok {
			return 0, fmt.Errorf("invalid time unit %q in %q", m[2], s)
		}
		total += time.Duration(n * float64(unit))
		rest = rest[len(m[0]):]
	}
	return total, nil
}

func MustParse(s string) time.Duration {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Format renders d the way Parse accepts it back.
func Format(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%ds", int64(d/time.Second))
	}
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}
