// Package cycle maps calendar dates to semi-monthly pay cycles.
//
// A C1 cycle runs from the 11th to the 25th of a month. A C2 cycle runs from
// the 26th to the 10th of the following month and is keyed off the month it
// starts in. All arithmetic happens in the location of the input time.
package cycle

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Half identifies which half of the month a cycle covers.
type Half string

const (
	FirstHalf  Half = "C1"
	SecondHalf Half = "C2"
)

// Cycle is a derived pay cycle. Start and End are both inclusive.
type Cycle struct {
	ID    string
	Half  Half
	Start time.Time
	End   time.Time
}

// Resolve returns the cycle enclosing t.
func Resolve(t time.Time) Cycle {
	loc := t.Location()
	year, month, day := t.Date()

	switch {
	case day >= 11 && day <= 25:
		return build(year, month, FirstHalf, loc)
	case day >= 26:
		return build(year, month, SecondHalf, loc)
	default:
		prev := time.Date(year, month-1, 1, 12, 0, 0, 0, loc)
		return build(prev.Year(), prev.Month(), SecondHalf, loc)
	}
}

func build(year int, month time.Month, half Half, loc *time.Location) Cycle {
	var start, end time.Time
	if half == FirstHalf {
		start = Midnight(year, month, 11, loc)
		end = endOfDay(time.Date(year, month, 25, 12, 0, 0, 0, loc))
	} else {
		start = Midnight(year, month, 26, loc)
		end = endOfDay(time.Date(year, month+1, 10, 12, 0, 0, 0, loc))
	}
	return Cycle{
		ID:    fmt.Sprintf("%04d-%02d-%s", start.Year(), int(start.Month()), half),
		Half:  half,
		Start: start,
		End:   end,
	}
}

// ParseID rebuilds the cycle named by id in loc.
func ParseID(id string, loc *time.Location) (Cycle, error) {
	parts := strings.Split(strings.TrimSpace(id), "-")
	if len(parts) != 3 {
		return Cycle{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return Cycle{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 || len(parts[1]) != 2 {
		return Cycle{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	half := Half(strings.ToUpper(parts[2]))
	if half != FirstHalf && half != SecondHalf {
		return Cycle{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if loc == nil {
		loc = time.Local
	}
	return build(year, time.Month(month), half, loc), nil
}

// Contains reports whether t falls inside the cycle bounds.
func (c Cycle) Contains(t time.Time) bool {
	t = t.In(c.Start.Location())
	return !t.Before(c.Start) && !t.After(c.End)
}

// Next returns the cycle that starts right after c ends.
func (c Cycle) Next() Cycle {
	return Resolve(NextDay(c.End))
}

// Prev returns the cycle that ends right before c starts.
func (c Cycle) Prev() Cycle {
	return Resolve(PrevDay(c.Start))
}

// Days returns the number of calendar days in the cycle.
func (c Cycle) Days() int {
	n := 0
	for d := c.Start; !d.After(c.End); d = NextDay(d) {
		n++
	}
	return n
}

// Label formats the cycle for display, e.g. "11-25 Jan 2026" or
// "Dec 26 - Jan 10 (2026)". C2 labels carry the year the cycle ends in.
func (c Cycle) Label() string {
	if c.Half == FirstHalf {
		return fmt.Sprintf("11-25 %s %d", c.Start.Format("Jan"), c.Start.Year())
	}
	return fmt.Sprintf("%s 26 - %s 10 (%d)", c.Start.Format("Jan"), c.End.Format("Jan"), c.End.Year())
}
