package billing

import (
	"github.com/rpggio/folio/internal/domain/manuscript"
	"github.com/rpggio/folio/internal/domain/settings"
)

// Summarize derives counts and earnings from r. Confirmed earnings cover the
// matched records, projected earnings cover every tracked file.
func Summarize(r Result, rate settings.RateProfile) Summary {
	s := Summary{
		Matched: len(r.Matched),
		Missing: len(r.Missing),
		Tracked: len(r.Matched) + len(r.Missing),
		Rate:    rate,
	}
	for _, m := range r.Matched {
		if m.Status == manuscript.StatusBilled {
			s.Billed++
		}
	}
	s.Unbilled = s.Tracked - s.Billed
	if s.Tracked > 0 {
		s.PercentBilled = float64(s.Billed) / float64(s.Tracked) * 100
	}
	for _, e := range r.Extra {
		switch e.Kind {
		case ExtraOtherCycle:
			s.OtherCycle++
		case ExtraUnknown:
			s.Unknown++
		}
	}

	s.ConfirmedUSD = float64(s.Matched) * rate.USD
	s.ConfirmedPHP = float64(s.Matched) * rate.PHP
	s.ProjectedUSD = float64(s.Tracked) * rate.USD
	s.ProjectedPHP = float64(s.Tracked) * rate.PHP
	return s
}
