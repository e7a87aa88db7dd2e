package markethours

import (
	"fmt"
	"strings"
	"time"
)

// Session is a half-open [open, close) trading window in minutes after local midnight.
type Session struct {
	Open  int
	Close int
}

// Calendar answers whether the exchange is trading at a given instant.
type Calendar struct {
	loc      *time.Location
	sessions []Session
	holidays map[string]struct{}
}

// NewCalendar builds a calendar from "HH:MM-HH:MM" session specs and "YYYY-MM-DD" holidays.
func NewCalendar(loc *time.Location, sessions []string, holidays []string) (*Calendar, error) {
	if loc == nil {
		return nil, fmt.Errorf("location is required")
	}
	if len(sessions) == 0 {
		sessions = []string{"09:00-15:00"}
	}

	c := &Calendar{loc: loc, holidays: make(map[string]struct{}, len(holidays))}
	for _, spec := range sessions {
		s, err := parseSession(spec)
		if err != nil {
			return nil, err
		}
		c.sessions = append(c.sessions, s)
	}
	for _, h := range holidays {
		d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(h), loc)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday %q: %w", h, err)
		}
		c.holidays[d.Format("2006-01-02")] = struct{}{}
	}
	return c, nil
}

func parseSession(spec string) (Session, error) {
	parts := strings.Split(strings.TrimSpace(spec), "-")
	if len(parts) != 2 {
		return Session{}, fmt.Errorf("invalid session %q: want HH:MM-HH:MM", spec)
	}
	open, err := parseClock(parts[0])
	if err != nil {
		return Session{}, fmt.Errorf("invalid session %q: %w", spec, err)
	}
	closing, err := parseClock(parts[1])
	if err != nil {
		return Session{}, fmt.Errorf("invalid session %q: %w", spec, err)
	}
	if closing <= open {
		return Session{}, fmt.Errorf("invalid session %q: close must be after open", spec)
	}
	return Session{Open: open, Close: closing}, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Location returns the exchange timezone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// IsTradingDay reports whether t falls on a weekday that is not a configured holiday.
func (c *Calendar) IsTradingDay(t time.Time) bool {
	local := t.In(c.loc)
	if local.Weekday() == time.Saturday || local.Weekday() == time.Sunday {
		return false
	}
	_, holiday := c.holidays[local.Format("2006-01-02")]
	return !holiday
}

// IsOpen reports whether the market is trading at t.
func (c *Calendar) IsOpen(t time.Time) bool {
	if !c.IsTradingDay(t) {
		return false
	}
	local := t.In(c.loc)
	minute := local.Hour()*60 + local.Minute()
	for _, s := range c.sessions {
		if minute >= s.Open && minute < s.Close {
			return true
		}
	}
	return false
}

// LastOpen returns the start of the latest session that opened at or before t, looking back two weeks.
// It returns the zero time when no session opened in that window.
func (c *Calendar) LastOpen(t time.Time) time.Time {
	local := t.In(c.loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)

	for i := 0; i < 14; i++ {
		d := day.AddDate(0, 0, -i)
		if !c.IsTradingDay(d) {
			continue
		}
		var latest time.Time
		for _, s := range c.sessions {
			open := d.Add(time.Duration(s.Open) * time.Minute)
			if !open.After(local) && open.After(latest) {
				latest = open
			}
		}
		if !latest.IsZero() {
			return latest
		}
	}
	return time.Time{}
}
