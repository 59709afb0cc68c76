// ABOUTME: Calendar-recurrence date type for birthdays and anniversaries
// ABOUTME: Tracks month+day with optional year and computes next occurrences
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// CalendarDate is a recurring calendar day: a month and day, with the year
// kept only when known. Birthdays and anniversaries recur every year, so
// comparisons ignore the stored year. Feb 29 is observed on Mar 1 in
// non-leap years.
type CalendarDate struct {
	Month time.Month
	Day   int
	Year  int // 0 when unknown
}

// ParseCalendarDate accepts "2006-01-02" (full date) or "01-02" (month-day).
func ParseCalendarDate(s string) (CalendarDate, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return CalendarDate{Month: t.Month(), Day: t.Day(), Year: t.Year()}, nil
	}
	if t, err := time.Parse("01-02", s); err == nil {
		return CalendarDate{Month: t.Month(), Day: t.Day()}, nil
	}
	return CalendarDate{}, fmt.Errorf("invalid calendar date %q", s)
}

// String renders the wire form: full date when the year is known, month-day
// otherwise.
func (d CalendarDate) String() string {
	if d.Year != 0 {
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
	}
	return fmt.Sprintf("%02d-%02d", int(d.Month), d.Day)
}

func (d CalendarDate) IsZero() bool {
	return d.Month == 0 && d.Day == 0
}

// NextOccurrence returns the next date on or after today that this calendar
// day falls on. Normalization shifts Feb 29 to Mar 1 in non-leap years.
func (d CalendarDate) NextOccurrence(today time.Time) time.Time {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	occ := time.Date(today.Year(), d.Month, d.Day, 0, 0, 0, 0, today.Location())
	if occ.Before(today) {
		occ = time.Date(today.Year()+1, d.Month, d.Day, 0, 0, 0, 0, today.Location())
	}
	return occ
}

// DaysUntil returns the number of days from today to the next occurrence.
// Zero means today. The difference is taken between UTC midnights so a DST
// transition in the caller's location cannot shorten a day.
func (d CalendarDate) DaysUntil(today time.Time) int {
	next := d.NextOccurrence(today)
	from := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// WithinDays reports whether the next occurrence falls within daysAhead
// days of today.
func (d CalendarDate) WithinDays(today time.Time, daysAhead int) bool {
	return d.DaysUntil(today) <= daysAhead
}

func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = CalendarDate{}
		return nil
	}
	parsed, err := ParseCalendarDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
