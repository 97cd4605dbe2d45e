package services

import (
	"fmt"
	"time"

	"github.com/yeremiapane/raisin-tracker/models"
)

// DaysPerWeek is the length of a weekly summary.
const DaysPerWeek = 7

// Calendar answers "what day is it" for the service. Now is swappable so
// tests can pin the clock.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

func NewCalendar(loc *time.Location) Calendar {
	return Calendar{Location: loc, Now: time.Now}
}

// Current returns the present instant in the calendar's location.
func (c Calendar) Current() time.Time {
	now := c.Now
	if now == nil {
		now = time.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

// Today is the current date as YYYY-MM-DD.
func (c Calendar) Today() string {
	return c.Current().Format(models.DateLayout)
}

// CurrentWeekStart is the Sunday on or before today, as YYYY-MM-DD.
func (c Calendar) CurrentWeekStart() string {
	return WeekStart(c.Current()).Format(models.DateLayout)
}

// WeekStart returns midnight of the Sunday on or before t, in t's location.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD day. Only that exact layout is accepted.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// WeekDates returns the seven consecutive dates starting at start.
func WeekDates(start string) ([]string, error) {
	t, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	dates := make([]string, DaysPerWeek)
	for i := range dates {
		dates[i] = t.AddDate(0, 0, i).Format(models.DateLayout)
	}
	return dates, nil
}
