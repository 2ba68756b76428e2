// internal/domain/cycle/phase.go
package cycle

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted by ParseDate.
const DateLayout = "2006-01-02"

// DeloadEvery is the ISO week period of the training cycle: every 4th week deloads.
const DeloadEvery = 4

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrInvalidWeek = errors.New("invalid ISO week")
)

// Phase is the training-cycle phase of an ISO week.
type Phase string

const (
	PhaseLoad   Phase = "LOAD"
	PhaseDeload Phase = "DELOAD"
)

// DisplayName is the short label shown on the client page.
func (p Phase) DisplayName() string {
	if p == PhaseDeload {
		return "Deload"
	}
	return "Load"
}

// Reminder is the message derived from a date's phase.
type Reminder struct {
	Date    time.Time
	ISOYear int
	ISOWeek int
	Phase   Phase
	Title   string
	Body    string
}

var messages = map[Phase]struct{ title, body string }{
	PhaseDeload: {"Deload next week", "Tomorrow starts your Deload week! Take it easy."},
	PhaseLoad:   {"Load next week", "Tomorrow starts your Load week! Time to push."},
}

// PhaseForWeek classifies an ISO week number.
func PhaseForWeek(week int) (Phase, error) {
	if week < 1 || week > 53 {
		return "", fmt.Errorf("%w: %d", ErrInvalidWeek, week)
	}
	if week%DeloadEvery == 0 {
		return PhaseDeload, nil
	}
	return PhaseLoad, nil
}

// ForDate returns the reminder for the ISO week containing date.
func ForDate(date time.Time) (Reminder, error) {
	if date.IsZero() {
		return Reminder{}, fmt.Errorf("%w: missing date", ErrInvalidDate)
	}
	year, week := date.ISOWeek()
	phase, err := PhaseForWeek(week)
	if err != nil {
		return Reminder{}, err
	}
	msg := messages[phase]
	return Reminder{
		Date:    date,
		ISOYear: year,
		ISOWeek: week,
		Phase:   phase,
		Title:   msg.title,
		Body:    msg.body,
	}, nil
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc (UTC when nil).
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrInvalidDate)
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, use %s", ErrInvalidDate, s, DateLayout)
	}
	return t, nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Tomorrow is the calendar day after now, at midnight in now's location.
func Tomorrow(now time.Time) time.Time {
	return StartOfDay(now).AddDate(0, 0, 1)
}

// WeekStart returns the Monday of the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// Upcoming lists reminders for the Monday of each of the next weeks ISO
// weeks, starting with the week that contains from.
func Upcoming(from time.Time, weeks int) ([]Reminder, error) {
	if from.IsZero() {
		return nil, fmt.Errorf("%w: missing date", ErrInvalidDate)
	}
	if weeks < 1 {
		return nil, fmt.Errorf("weeks must be positive, got %d", weeks)
	}
	start := WeekStart(from)
	out := make([]Reminder, 0, weeks)
	for i := 0; i < weeks; i++ {
		r, err := ForDate(start.AddDate(0, 0, 7*i))
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
