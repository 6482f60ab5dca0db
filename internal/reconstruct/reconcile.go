package reconstruct

import (
	"tradejournal/internal/orderhistory"
)

// Reconciliation compares a reconstruction against the broker's positions
// snapshot.
type Reconciliation struct {
	// UntradedSymbols are listed in the snapshot but produced no completed
	// trade, a sign of history that is still open or missing.
	UntradedSymbols []string `json:"untraded_symbols"`
	// UnlistedOpen are symbols left open by the history that the snapshot
	// does not list.
	UnlistedOpen []string `json:"unlisted_open"`
}

func (r Reconciliation) Clean() bool {
	return len(r.UntradedSymbols) == 0 && len(r.UnlistedOpen) == 0
}

func Reconcile(positions []orderhistory.Order, res Result) Reconciliation {
	traded := make(map[string]struct{}, len(res.Trades))
	for _, t := range res.Trades {
		traded[t.Symbol] = struct{}{}
	}
	listed := make(map[string]struct{}, len(positions))
	var out Reconciliation
	for _, p := range positions {
		if _, seen := listed[p.Symbol]; seen {
			continue
		}
		listed[p.Symbol] = struct{}{}
		if _, ok := traded[p.Symbol]; !ok {
			out.UntradedSymbols = append(out.UntradedSymbols, p.Symbol)
		}
	}
	for _, sym := range res.OpenSymbols {
		if _, ok := listed[sym]; !ok {
			out.UnlistedOpen = append(out.UnlistedOpen, sym)
		}
	}
	return out
}
