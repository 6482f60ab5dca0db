package reconstruct

import (
	"github.com/shopspring/decimal"

	"tradejournal/internal/orderhistory"
)

// TradeGroup is one round trip: the orders that opened or added to a
// position and the orders that reduced or closed it.
type TradeGroup struct {
	Symbol      string
	Side        orderhistory.Side
	EntryOrders []orderhistory.Order
	ExitOrders  []orderhistory.Order

	// Remaining is the signed position still open when the group was
	// emitted. It is zero for every group closed by an opposite fill.
	Remaining decimal.Decimal
}

// Closed reports whether the position went back to flat (or flipped).
func (g TradeGroup) Closed() bool {
	return len(g.ExitOrders) > 0 && g.Remaining.IsZero()
}

func (g TradeGroup) EntryQty() decimal.Decimal { return sumQty(g.EntryOrders) }
func (g TradeGroup) ExitQty() decimal.Decimal  { return sumQty(g.ExitOrders) }

func sumQty(orders []orderhistory.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Quantity)
	}
	return total
}

// symbolState is the scan state for one symbol. It is threaded through step
// by value; nothing outside the fold holds a reference to it.
type symbolState struct {
	symbol   string
	position decimal.Decimal
	active   *TradeGroup
	emitted  []TradeGroup
}

func newSymbolState(symbol string) symbolState {
	return symbolState{symbol: symbol, position: decimal.Zero}
}

func (s symbolState) flat() bool {
	return s.position.IsZero()
}

// step applies one order to the state. Orders that are not filled leave the
// state untouched.
func step(st symbolState, o orderhistory.Order) symbolState {
	if !o.Filled() || !o.Quantity.IsPositive() {
		return st
	}
	qty := o.Signed()

	if st.flat() || st.active == nil {
		st.position = qty
		st.active = &TradeGroup{
			Symbol:      st.symbol,
			Side:        o.Side,
			EntryOrders: []orderhistory.Order{o},
		}
		return st
	}

	group := *st.active
	if st.position.Sign() == qty.Sign() {
		st.position = st.position.Add(qty)
		group.EntryOrders = append(group.EntryOrders, o)
		st.active = &group
		return st
	}

	if qty.Abs().LessThan(st.position.Abs()) {
		st.position = st.position.Add(qty)
		group.ExitOrders = append(group.ExitOrders, o)
		st.active = &group
		return st
	}

	remaining := st.position.Add(qty)
	if remaining.IsZero() {
		group.ExitOrders = append(group.ExitOrders, o)
		group.Remaining = decimal.Zero
		st.emitted = append(st.emitted, group)
		st.position = decimal.Zero
		st.active = nil
		return st
	}

	// Flip: the order closes the current position and its excess opens the
	// opposite one at the same price and time.
	group.ExitOrders = append(group.ExitOrders, o.WithQuantity(st.position.Abs()))
	group.Remaining = decimal.Zero
	st.emitted = append(st.emitted, group)

	entry := o.WithQuantity(remaining.Abs())
	entry.Side = orderhistory.SideSell
	if remaining.IsPositive() {
		entry.Side = orderhistory.SideBuy
	}
	st.position = remaining
	st.active = &TradeGroup{
		Symbol:      st.symbol,
		Side:        entry.Side,
		EntryOrders: []orderhistory.Order{entry},
	}
	return st
}

// finish emits the active group, if any, as a still-open group.
func finish(st symbolState) []TradeGroup {
	out := st.emitted
	if st.active != nil && len(st.active.EntryOrders) > 0 {
		group := *st.active
		group.Remaining = st.position
		out = append(out, group)
	}
	return out
}

// Segment partitions one symbol's time-ordered orders into trade groups.
// Closed groups come first in emission order; a final open group, if the
// position never returned to flat, is last.
func Segment(symbol string, orders []orderhistory.Order) []TradeGroup {
	st := newSymbolState(symbol)
	for _, o := range orders {
		st = step(st, o)
	}
	return finish(st)
}
