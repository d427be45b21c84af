package billing

import (
	"strings"
	"time"

	"github.com/rpggio/folio/internal/domain/manuscript"
)

// ParsePasted splits newline separated text into trimmed, non-empty codes.
func ParsePasted(text string) []string {
	lines := strings.Split(text, "\n")
	codes := make([]string, 0, len(lines))
	for _, line := range lines {
		if code := strings.TrimSpace(line); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// Reconcile partitions cycleFiles into matched and missing against pasted,
// and classifies every unmatched pasted code by looking it up in all.
// It reads its inputs only, so repeated calls with equal inputs return equal
// results.
func Reconcile(cycleFiles, all []manuscript.Manuscript, pasted []string, loc *time.Location) Result {
	key := manuscript.CodeKey

	type pastedCode struct {
		key     string
		display string
	}
	wanted := make(map[string]bool, len(pasted))
	ordered := make([]pastedCode, 0, len(pasted))
	for _, raw := range pasted {
		display := strings.TrimSpace(raw)
		if display == "" {
			continue
		}
		k := key(display)
		if wanted[k] {
			continue
		}
		wanted[k] = true
		ordered = append(ordered, pastedCode{key: k, display: display})
	}

	res := Result{
		Matched: make([]manuscript.Manuscript, 0),
		Missing: make([]manuscript.Manuscript, 0),
		Extra:   make([]Extra, 0),
	}
	inCycle := make(map[string]bool, len(cycleFiles))
	for _, m := range cycleFiles {
		k := key(m.Code)
		inCycle[k] = true
		if wanted[k] {
			res.Matched = append(res.Matched, m)
		} else {
			res.Missing = append(res.Missing, m)
		}
	}

	tracked := make(map[string]manuscript.Manuscript, len(all))
	for _, m := range all {
		k := key(m.Code)
		if _, dup := tracked[k]; !dup {
			tracked[k] = m
		}
	}

	for _, p := range ordered {
		if inCycle[p.key] {
			continue
		}
		m, ok := tracked[p.key]
		if !ok {
			res.Extra = append(res.Extra, Extra{Code: p.display, Kind: ExtraUnknown})
			continue
		}
		extra := Extra{
			Code:         p.display,
			Kind:         ExtraOtherCycle,
			ManuscriptID: m.ID,
			Status:       m.Status,
		}
		if m.Status.Done() {
			if c, ok := MembershipCycle(m, loc); ok {
				extra.CycleID = c.ID
			}
		}
		res.Extra = append(res.Extra, extra)
	}
	return res
}
