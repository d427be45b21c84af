package pacing

import (
	"time"

	"github.com/rpggio/folio/internal/domain/cycle"
	"github.com/rpggio/folio/internal/domain/manuscript"
)

// CountCompletions splits the done manuscripts completed inside c into those
// completed before today and those completed today. Dates are compared on
// the local calendar of loc. Records with no usable date are skipped and
// reported in undated.
func CountCompletions(ms []manuscript.Manuscript, c cycle.Cycle, today time.Time, loc *time.Location) (before, onToday, undated int) {
	start := cycle.StartOfDay(today.In(loc))
	for _, m := range ms {
		if !m.Status.Done() {
			continue
		}
		done, ok := m.CompletionDate()
		if !ok {
			undated++
			continue
		}
		done = done.In(loc)
		if !c.Contains(done) {
			continue
		}
		switch {
		case done.Before(start):
			before++
		case cycle.SameDay(done, start, loc):
			onToday++
		}
	}
	return before, onToday, undated
}
