package reconstruct

import (
	"tradejournal/internal/orderhistory"
)

// InferRiskLevels sets StopLoss and PriceTarget from the protective orders
// that lived inside the trade's window. history is the symbol's complete,
// time-ordered order list, cancelled and rejected orders included.
//
// The last opposite-side Stop order gives the stop (stop price, else limit
// price); the last opposite-side Limit order gives the target (limit price,
// else stop price).
func InferRiskLevels(t *Trade, history []orderhistory.Order) {
	if t == nil {
		return
	}
	opposite := t.Side.Opposite()
	t.StopLoss = nil
	t.PriceTarget = nil
	for _, o := range history {
		if o.Symbol != t.Symbol || o.Side != opposite {
			continue
		}
		if o.PlacingTime.Before(t.TimeOfFirstEntry) || o.ClosingTime.After(t.TimeOfLastExit) {
			continue
		}
		switch {
		case o.IsType(orderhistory.TypeStop):
			t.StopLoss = orderhistory.FirstPrice(o.StopPrice, o.LimitPrice)
		case o.IsType(orderhistory.TypeLimit):
			t.PriceTarget = orderhistory.FirstPrice(o.LimitPrice, o.StopPrice)
		}
	}
}
