package availability

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	SlotLayout = "15:04"
)

var slotPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ValidationError describes input rejected at a schedule write boundary.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

// ValidSlot reports whether s is a zero-padded 24-hour "HH:MM" value.
func ValidSlot(s string) bool {
	return slotPattern.MatchString(s)
}

// ValidDate reports whether s is a calendar date in "YYYY-MM-DD" form.
func ValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ValidationError{Msg: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s)}
	}
	return d, nil
}

// ParseWeekday normalizes a weekday name to its canonical lowercase form.
func ParseWeekday(s string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if _, ok := weekdays[name]; !ok {
		return "", ValidationError{Msg: fmt.Sprintf("invalid day of week %q", s)}
	}
	return name, nil
}

// WeekdayOf returns the canonical weekday name of an ISO date.
func WeekdayOf(date string) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return strings.ToLower(d.Weekday().String()), nil
}

// NormalizeSlots validates every slot and returns them deduplicated and sorted. A nil or empty
// input yields an empty, non-nil slice.
func NormalizeSlots(slots []string) ([]string, error) {
	cleaned := make([]string, 0, len(slots))
	for _, s := range slots {
		s = strings.TrimSpace(s)
		if !ValidSlot(s) {
			return nil, ValidationError{Msg: fmt.Sprintf("invalid slot %q, expected HH:MM", s)}
		}
		cleaned = append(cleaned, s)
	}
	return sortedUnique(cleaned), nil
}

// ParseAppointmentTime splits "YYYY-MM-DD HH:MM" into its date and slot parts.
func ParseAppointmentTime(s string) (at time.Time, date, slot string, err error) {
	at, err = time.Parse(DateLayout+" "+SlotLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, "", "", ValidationError{Msg: fmt.Sprintf("invalid time %q, expected YYYY-MM-DD HH:MM", s)}
	}
	return at, at.Format(DateLayout), at.Format(SlotLayout), nil
}
