// Package dateutils provides date parsing and formatting helpers for
// statement data. US bank exports favor MM/DD/YYYY, so that layout is tried
// before the European day-first variants.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Common date layouts found in statement exports.
const (
	LayoutISO   = "2006-01-02"
	LayoutUS    = "01/02/2006"
	LayoutShort = "1/2/2006"
	LayoutFull  = "2006-01-02 15:04:05"
)

// StatementFormats is the ordered list of layouts tried when parsing a
// statement date. Order matters for ambiguous day/month strings.
var StatementFormats = []string{
	LayoutUS,
	LayoutShort,
	LayoutISO,
	LayoutFull,
	"01-02-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// MonthAbbrevs maps month numbers 1-12 to their short names.
var MonthAbbrevs = map[int]string{
	1: "Jan", 2: "Feb", 3: "Mar", 4: "Apr", 5: "May", 6: "Jun",
	7: "Jul", 8: "Aug", 9: "Sep", 10: "Oct", 11: "Nov", 12: "Dec",
}

// ParseDate attempts to parse a date string using the statement layouts.
func ParseDate(dateStr string) (time.Time, error) {
	cleaned := strings.Join(strings.Fields(dateStr), " ")
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, format := range StatementFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ToISODate formats a time as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(LayoutISO)
}

// MonthAbbrev returns the short month name for a 1-12 month number, or an
// empty string for anything out of range.
func MonthAbbrev(month int) string {
	return MonthAbbrevs[month]
}

// Quarter returns the calendar quarter (1-4) for a date.
func Quarter(date time.Time) int {
	return (int(date.Month())-1)/3 + 1
}
