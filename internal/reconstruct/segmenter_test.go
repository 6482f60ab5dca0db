package reconstruct

import (
	"testing"

	"github.com/shopspring/decimal"

	"tradejournal/internal/orderhistory"
)

func TestSegment_FlatInvariant(t *testing.T) {
	orders := []orderhistory.Order{
		fill("A", orderhistory.SideBuy, "10", "1", 0),
		fill("A", orderhistory.SideBuy, "5", "1", 1),
		fill("A", orderhistory.SideSell, "20", "1", 2),
		fill("A", orderhistory.SideBuy, "2", "1", 3),
		fill("A", orderhistory.SideBuy, "7", "1", 4),
		fill("A", orderhistory.SideSell, "3", "1", 5),
	}
	st := newSymbolState("A")
	net := decimal.Zero
	for _, o := range orders {
		st = step(st, o)
		net = net.Add(o.Signed())
	}
	if !st.position.Equal(net) {
		t.Fatalf("position=%s net=%s", st.position, net)
	}
	groups := finish(st)
	last := groups[len(groups)-1]
	if last.Closed() || !last.Remaining.Equal(net) {
		t.Fatalf("last group closed=%v remaining=%s", last.Closed(), last.Remaining)
	}
}

func TestSegment_Conservation(t *testing.T) {
	orders := []orderhistory.Order{
		fill("A", orderhistory.SideBuy, "10", "1", 0),
		fill("A", orderhistory.SideSell, "4", "1", 1),
		fill("A", orderhistory.SideSell, "9", "1", 2), // flips short 3
		fill("A", orderhistory.SideBuy, "3", "1", 3),  // closes
		fill("A", orderhistory.SideSell, "6", "1", 4), // opens short 6
		fill("A", orderhistory.SideBuy, "10", "1", 5), // flips long 4
		fill("A", orderhistory.SideSell, "4", "1", 6), // closes
	}
	groups := Segment("A", orders)
	if len(groups) != 4 {
		t.Fatalf("groups=%d want 4", len(groups))
	}
	for i, g := range groups {
		if !g.Closed() {
			t.Fatalf("group %d not closed", i)
		}
		if !g.EntryQty().Equal(g.ExitQty()) {
			t.Fatalf("group %d entry=%s exit=%s", i, g.EntryQty(), g.ExitQty())
		}
	}
	wantSides := []orderhistory.Side{orderhistory.SideBuy, orderhistory.SideSell, orderhistory.SideSell, orderhistory.SideBuy}
	for i, s := range wantSides {
		if groups[i].Side != s {
			t.Fatalf("group %d side=%s want %s", i, groups[i].Side, s)
		}
	}
	flipEntry := groups[1].EntryOrders[0]
	if !flipEntry.Quantity.Equal(decimal.NewFromInt(3)) || flipEntry.Side != orderhistory.SideSell {
		t.Fatalf("flip entry qty=%s side=%s", flipEntry.Quantity, flipEntry.Side)
	}
	if !flipEntry.ClosingTime.Equal(orders[2].ClosingTime) {
		t.Fatalf("flip entry lost the original time")
	}
}

func TestSegment_DoesNotMutateInput(t *testing.T) {
	orders := []orderhistory.Order{
		fill("A", orderhistory.SideBuy, "10", "1", 0),
		fill("A", orderhistory.SideSell, "15", "2", 1),
	}
	Segment("A", orders)
	if !orders[1].Quantity.Equal(decimal.NewFromInt(15)) || orders[1].Side != orderhistory.SideSell {
		t.Fatalf("input order modified: %#v", orders[1])
	}
}

func TestSettle(t *testing.T) {
	long := Settle(orderhistory.SideBuy, dec("10"), dec("100"), dec("10"), dec("110"))
	if !long.PnL.Equal(dec("100")) || long.Outcome != OutcomeProfit {
		t.Fatalf("long pnl=%s outcome=%s", long.PnL, long.Outcome)
	}
	short := Settle(orderhistory.SideSell, dec("10"), dec("100"), dec("10"), dec("110"))
	if !short.PnL.Equal(dec("-100")) || short.Outcome != OutcomeLoss {
		t.Fatalf("short pnl=%s outcome=%s", short.PnL, short.Outcome)
	}
	flat := Settle(orderhistory.SideBuy, dec("1"), dec("5"), dec("1"), dec("5"))
	if flat.Outcome != OutcomeLoss {
		t.Fatalf("zero pnl outcome=%s", flat.Outcome)
	}
}

