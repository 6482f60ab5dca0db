// Package reconstruct rebuilds round-trip trades from a broker order history.
//
// The package is pure: it does no I/O, keeps no state between calls and
// reports problems through Result.Errors instead of logging them.
package reconstruct

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"tradejournal/internal/orderhistory"
)

var (
	ErrEmptyInput            = errors.New("reconstruct: empty input")
	ErrMissingEffectivePrice = errors.New("missing effective price")
	ErrIncompleteGroup       = errors.New("incomplete trade group")
)

const (
	DefaultDisplayOffset   = 8 * time.Hour
	DefaultDisplayZoneName = "SGT"
)

// DefaultDisplayZone is a fixed UTC+8 zone with no calendar rules.
func DefaultDisplayZone() *time.Location {
	return DisplayZone(DefaultDisplayZoneName, DefaultDisplayOffset)
}

func DisplayZone(name string, offset time.Duration) *time.Location {
	if name == "" {
		name = fmt.Sprintf("UTC%+d", int(offset.Hours()))
	}
	return time.FixedZone(name, int(offset.Seconds()))
}

type Options struct {
	// IncludeOpen reports groups that never returned to flat as
	// OpenPositions instead of dropping them.
	IncludeOpen bool
	// DisplayZone is applied to trade timestamps. Nil means DefaultDisplayZone.
	DisplayZone *time.Location
	// Workers bounds the per-symbol fan-out. Zero means GOMAXPROCS.
	Workers int
	// SkipRiskLevels leaves StopLoss and PriceTarget unset.
	SkipRiskLevels bool
}

// SymbolError attaches a symbol to a per-trade diagnostic.
type SymbolError struct {
	Symbol string
	Err    error
}

func (e *SymbolError) Error() string { return e.Symbol + ": " + e.Err.Error() }
func (e *SymbolError) Unwrap() error { return e.Err }

type Result struct {
	Trades        []Trade
	OpenPositions []OpenPosition
	// OpenSymbols lists symbols whose position is not flat at the end of the
	// history, whether or not IncludeOpen was set.
	OpenSymbols []string
	// Symbols lists every symbol seen, in first-appearance order.
	Symbols []string
	Errors  []error
}

type symbolResult struct {
	trades []Trade
	open   []OpenPosition
	isOpen bool
	errs   []error
}

// Reconstruct segments, aggregates and annotates trades for every symbol in
// orders. Output follows symbol first-appearance order, then emission order
// within a symbol, so identical input always gives identical output.
func Reconstruct(orders []orderhistory.Order, opts Options) (Result, error) {
	if len(orders) == 0 {
		return Result{}, ErrEmptyInput
	}
	zone := opts.DisplayZone
	if zone == nil {
		zone = DefaultDisplayZone()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	groups := orderhistory.GroupBySymbol(orders)
	slots := make([]symbolResult, len(groups))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range groups {
		i := i
		g.Go(func() error {
			slots[i] = reconstructSymbol(groups[i], zone, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	out := Result{Symbols: make([]string, 0, len(groups))}
	for i, sr := range slots {
		out.Symbols = append(out.Symbols, groups[i].Symbol)
		out.Trades = append(out.Trades, sr.trades...)
		out.OpenPositions = append(out.OpenPositions, sr.open...)
		out.Errors = append(out.Errors, sr.errs...)
		if sr.isOpen {
			out.OpenSymbols = append(out.OpenSymbols, groups[i].Symbol)
		}
	}
	return out, nil
}

func reconstructSymbol(so orderhistory.SymbolOrders, zone *time.Location, opts Options) symbolResult {
	var res symbolResult
	for _, g := range Segment(so.Symbol, so.Orders) {
		if !g.Closed() {
			res.isOpen = true
			if opts.IncludeOpen {
				res.open = append(res.open, openPosition(g, zone))
			}
			continue
		}
		trade, err := Aggregate(g, zone)
		if err != nil {
			res.errs = append(res.errs, &SymbolError{Symbol: so.Symbol, Err: err})
			continue
		}
		if !opts.SkipRiskLevels {
			InferRiskLevels(&trade, so.Orders)
		}
		res.trades = append(res.trades, trade)
	}
	return res
}
