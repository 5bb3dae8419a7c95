// Package schedule implements the recurrence engine: parsing and building
// compact RRULE-like rule strings and computing next occurrences.
//
// The package is pure: no store dependencies, all state arrives as
// arguments. Malformed input is signaled with nil returns, never errors;
// callers treat nil as "no change".
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Frequency is the base cadence of a rule.
type Frequency string

const (
	Daily   Frequency = "DAILY"
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
	Yearly  Frequency = "YEARLY"
)

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Rule is a recurrence descriptor reduced to frequency and interval.
// Interval is always >= 1.
type Rule struct {
	Freq     Frequency `json:"freq"`
	Interval int       `json:"interval"`
}

// ParseRule parses a compact rule string like "FREQ=WEEKLY;INTERVAL=2".
// Keys other than FREQ and INTERVAL are tolerated and ignored. Returns
// nil if the frequency token is missing or unrecognized, or the interval
// is not a positive integer.
func ParseRule(s string) *Rule {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	r := Rule{Interval: 1}
	seenFreq := false

	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "FREQ":
			f := Frequency(strings.ToUpper(value))
			if !f.Valid() {
				return nil
			}
			r.Freq = f
			seenFreq = true
		case "INTERVAL":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return nil
			}
			r.Interval = n
		}
	}

	if !seenFreq {
		return nil
	}
	return &r
}

// BuildRule serializes a rule to its compact string form. The interval
// component is omitted at the default of 1; ParseRule fills it back in,
// so ParseRule(BuildRule(r)) round-trips for every valid rule.
func BuildRule(freq Frequency, interval int) string {
	if interval > 1 {
		return fmt.Sprintf("FREQ=%s;INTERVAL=%d", freq, interval)
	}
	return fmt.Sprintf("FREQ=%s", freq)
}

// String returns the rule's compact string form.
func (r Rule) String() string {
	return BuildRule(r.Freq, r.Interval)
}
