package billing

import (
	"sort"
	"time"

	"github.com/rpggio/folio/internal/domain/cycle"
	"github.com/rpggio/folio/internal/domain/manuscript"
)

// MembershipCycle resolves the cycle a manuscript is billed under: an
// explicit claim, else the cycle of its billed date, else the cycle of its
// completion date.
func MembershipCycle(m manuscript.Manuscript, loc *time.Location) (cycle.Cycle, bool) {
	if m.ClaimedCycleID != "" {
		if c, err := cycle.ParseID(m.ClaimedCycleID, loc); err == nil {
			return c, true
		}
	}
	if m.BilledDate != nil && !m.BilledDate.IsZero() {
		return cycle.Resolve(m.BilledDate.In(loc)), true
	}
	if done, ok := m.CompletionDate(); ok {
		return cycle.Resolve(done.In(loc)), true
	}
	return cycle.Cycle{}, false
}

// CycleFiles returns the done manuscripts that belong to c, in input order.
func CycleFiles(all []manuscript.Manuscript, c cycle.Cycle, loc *time.Location) []manuscript.Manuscript {
	files := make([]manuscript.Manuscript, 0)
	for _, m := range all {
		if !m.Status.Done() {
			continue
		}
		if mc, ok := MembershipCycle(m, loc); ok && mc.ID == c.ID {
			files = append(files, m)
		}
	}
	return files
}

// GroupByCycle counts done manuscripts per cycle, most recent cycle first.
// Records with no resolvable cycle are excluded and counted in skipped.
func GroupByCycle(all []manuscript.Manuscript, loc *time.Location) (counts []CycleCount, skipped int) {
	byID := make(map[string]*CycleCount)
	for _, m := range all {
		if !m.Status.Done() {
			continue
		}
		c, ok := MembershipCycle(m, loc)
		if !ok {
			skipped++
			continue
		}
		cc, exists := byID[c.ID]
		if !exists {
			cc = &CycleCount{Cycle: c}
			byID[c.ID] = cc
		}
		cc.Files++
		if m.Status == manuscript.StatusBilled {
			cc.Billed++
		} else {
			cc.Worked++
		}
	}

	counts = make([]CycleCount, 0, len(byID))
	for _, cc := range byID {
		counts = append(counts, *cc)
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Cycle.ID > counts[j].Cycle.ID
	})
	return counts, skipped
}
