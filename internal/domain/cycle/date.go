package cycle

import (
	"strings"
	"time"
)

// DateLayout is the local calendar-date layout used for day keys.
const DateLayout = "2006-01-02"

// StartOfDay returns the first instant of t's local calendar date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return Midnight(y, m, d, t.Location())
}

// Midnight returns the first instant of the date (y, m, d) in loc. Out of
// range days are normalized the way time.Date does. When clocks jump
// forward at midnight the day starts at the transition instead.
func Midnight(y int, m time.Month, d int, loc *time.Location) time.Time {
	res := time.Date(y, m, d, 0, 0, 0, 0, loc)
	ny, nm, nd := time.Date(y, m, d, 12, 0, 0, 0, loc).Date()
	if ry, rm, rd := res.Date(); ry != ny || rm != nm || rd != nd {
		_, end := res.ZoneBounds()
		return end.In(loc)
	}
	return res
}

// NextDay returns the first instant of the calendar day after t.
func NextDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return Midnight(y, m, d+1, t.Location())
}

// PrevDay returns the first instant of the calendar day before t.
func PrevDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return Midnight(y, m, d-1, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// SameDay reports whether a and b share a calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// ParseDate accepts a YYYY-MM-DD local date or an RFC 3339 timestamp.
// Date-only values are interpreted as the start of that day in loc so the
// local day is never shifted by a UTC offset.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		y, m, d := t.Date()
		return Midnight(y, m, d, loc), true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}
