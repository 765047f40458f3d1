// Package timerange validates HH:MM time-of-day values and open/close windows.
package timerange

import (
	"fmt"
	"time"
)

const (
	// Layout is the only accepted time-of-day format: 24-hour, zero padded.
	Layout = "15:04"
	// DateLayout is the calendar date format used for overrides.
	DateLayout = "2006-01-02"
)

// Kind classifies a validation failure.
type Kind int

const (
	KindInvalidFormat Kind = iota + 1
	KindRangeOrder
)

func (k Kind) String() string {
	switch k {
	case KindInvalidFormat:
		return "invalid_format"
	case KindRangeOrder:
		return "range_order"
	default:
		return "unknown"
	}
}

// Error reports which field failed and why.
type Error struct {
	Kind  Kind
	Field string
	Value string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidFormat:
		if e.Field == "date" {
			return fmt.Sprintf("%s must be in YYYY-MM-DD format", e.Field)
		}
		return fmt.Sprintf("%s must be in HH:MM format (00:00-23:59)", e.Field)
	case KindRangeOrder:
		return "opening time must be before closing time"
	default:
		return fmt.Sprintf("%s is invalid", e.Field)
	}
}

// Range is a validated same-day window. Open is inclusive, Close exclusive.
type Range struct {
	Open  string `json:"openTime"`
	Close string `json:"closeTime"`
}

// Contains reports whether hhmm falls inside [Open, Close).
func (r Range) Contains(hhmm string) bool {
	return hhmm >= r.Open && hhmm < r.Close
}

// ValidateTime accepts exactly HH:MM with hours 00-23 and minutes 00-59.
func ValidateTime(s string) error {
	return validateTimeField(s, "time")
}

// ValidateTimeRange checks both ends and their order. Zero-padded HH:MM compares
// lexicographically in chronological order, so string comparison is enough.
func ValidateTimeRange(open, close string) (Range, error) {
	if err := validateTimeField(open, "open_time"); err != nil {
		return Range{}, err
	}
	if err := validateTimeField(close, "close_time"); err != nil {
		return Range{}, err
	}
	if open >= close {
		return Range{}, &Error{Kind: KindRangeOrder, Field: "close_time", Value: close}
	}
	return Range{Open: open, Close: close}, nil
}

// ValidateDate parses a YYYY-MM-DD calendar date.
func ValidateDate(s string) (time.Time, error) {
	if len(s) != len(DateLayout) {
		return time.Time{}, &Error{Kind: KindInvalidFormat, Field: "date", Value: s}
	}
	parsed, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &Error{Kind: KindInvalidFormat, Field: "date", Value: s}
	}
	return parsed, nil
}

func validateTimeField(s, field string) error {
	if len(s) != 5 || s[2] != ':' {
		return &Error{Kind: KindInvalidFormat, Field: field, Value: s}
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return &Error{Kind: KindInvalidFormat, Field: field, Value: s}
		}
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	minutes := int(s[3]-'0')*10 + int(s[4]-'0')
	if hours > 23 || minutes > 59 {
		return &Error{Kind: KindInvalidFormat, Field: field, Value: s}
	}
	return nil
}

// Format12Hour renders an HH:MM value as "7:30 AM". Invalid input is returned unchanged.
func Format12Hour(hhmm string) string {
	parsed, err := time.Parse(Layout, hhmm)
	if err != nil {
		return hhmm
	}
	return parsed.Format("3:04 PM")
}
