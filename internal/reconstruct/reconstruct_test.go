package reconstruct

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/orderhistory"
)

var t0 = time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

// fill builds a filled market order closing at t0 plus minutes.
func fill(symbol string, side orderhistory.Side, qty, price string, minutes int) orderhistory.Order {
	ts := t0.Add(time.Duration(minutes) * time.Minute)
	o := orderhistory.Order{
		Symbol:      symbol,
		Side:        side,
		Type:        "Market",
		Status:      orderhistory.StatusFilled,
		Quantity:    dec(qty),
		PlacingTime: ts,
		ClosingTime: ts,
	}
	if price != "" {
		o.FillPrice = decPtr(price)
	}
	return o
}

func cancelled(symbol string, side orderhistory.Side, kind, qty string, stop, limit string, placed, closed int) orderhistory.Order {
	o := orderhistory.Order{
		Symbol:      symbol,
		Side:        side,
		Type:        kind,
		Status:      "Cancelled",
		Quantity:    dec(qty),
		PlacingTime: t0.Add(time.Duration(placed) * time.Minute),
		ClosingTime: t0.Add(time.Duration(closed) * time.Minute),
	}
	if stop != "" {
		o.StopPrice = decPtr(stop)
	}
	if limit != "" {
		o.LimitPrice = decPtr(limit)
	}
	return o
}

func mustReconstruct(t *testing.T, orders []orderhistory.Order, opts Options) Result {
	t.Helper()
	res, err := Reconstruct(orders, opts)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	return res
}

func assertDec(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s=%s want %s", name, got, want)
	}
}

func TestReconstruct_SimpleRoundTrip(t *testing.T) {
	res := mustReconstruct(t, []orderhistory.Order{
		fill("AAPL", orderhistory.SideBuy, "100", "10", 0),
		fill("AAPL", orderhistory.SideSell, "100", "12", 5),
	}, Options{})
	if len(res.Trades) != 1 {
		t.Fatalf("trades=%d want 1", len(res.Trades))
	}
	tr := res.Trades[0]
	if tr.Side != orderhistory.SideBuy || tr.Outcome != OutcomeProfit {
		t.Fatalf("side=%s outcome=%s", tr.Side, tr.Outcome)
	}
	assertDec(t, "entryQty", tr.TotalEntryQty, "100")
	assertDec(t, "avgEntry", tr.AvgEntryPrice, "10")
	assertDec(t, "exitQty", tr.TotalExitQty, "100")
	assertDec(t, "avgExit", tr.AvgExitPrice, "12")
	assertDec(t, "pnl", tr.PnL, "200")
	assertDec(t, "totalBuy", tr.TotalBuy, "1000")
	assertDec(t, "totalSell", tr.TotalSell, "1200")
	if tr.NumEntries != 1 || tr.NumExits != 1 {
		t.Fatalf("entries=%d exits=%d", tr.NumEntries, tr.NumExits)
	}
	if len(res.OpenSymbols) != 0 || len(res.Errors) != 0 {
		t.Fatalf("open=%v errors=%v", res.OpenSymbols, res.Errors)
	}
}

func TestReconstruct_DisplayOffset(t *testing.T) {
	res := mustReconstruct(t, []orderhistory.Order{
		fill("AAPL", orderhistory.SideBuy, "1", "10", 0),
		fill("AAPL", orderhistory.SideSell, "1", "11", 90),
	}, Options{})
	tr := res.Trades[0]
	if !tr.TimeOfFirstEntry.Equal(t0) {
		t.Fatalf("first entry instant changed: %v", tr.TimeOfFirstEntry)
	}
	if got := tr.TimeOfFirstEntry.Format("2006-01-02 15:04"); got != "2024-03-01 22:30" {
		t.Fatalf("display first entry=%s", got)
	}
	if got := tr.TimeOfLastExit.Format("2006-01-02 15:04 MST"); got != "2024-03-02 00:00 SGT" {
		t.Fatalf("display last exit=%s", got)
	}

	res = mustReconstruct(t, []orderhistory.Order{
		fill("AAPL", orderhistory.SideBuy, "1", "10", 0),
		fill("AAPL", orderhistory.SideSell, "1", "11", 90),
	}, Options{DisplayZone: time.UTC})
	if got := res.Trades[0].TimeOfFirstEntry.Format("15:04"); got != "14:30" {
		t.Fatalf("utc display=%s", got)
	}
}

func TestReconstruct_PositionFlip(t *testing.T) {
	orders := []orderhistory.Order{
		fill("AAPL", orderhistory.SideBuy, "100", "10", 0),
		fill("AAPL", orderhistory.SideSell, "150", "12", 5),
	}

	res := mustReconstruct(t, orders, Options{})
	if len(res.Trades) != 1 {
		t.Fatalf("trades=%d want 1", len(res.Trades))
	}
	tr := res.Trades[0]
	if tr.Side != orderhistory.SideBuy {
		t.Fatalf("side=%s", tr.Side)
	}
	assertDec(t, "entryQty", tr.TotalEntryQty, "100")
	assertDec(t, "exitQty", tr.TotalExitQty, "100")
	assertDec(t, "pnl", tr.PnL, "200")
	if len(res.OpenPositions) != 0 {
		t.Fatalf("open positions reported without IncludeOpen")
	}
	if !reflect.DeepEqual(res.OpenSymbols, []string{"AAPL"}) {
		t.Fatalf("openSymbols=%v", res.OpenSymbols)
	}

	res = mustReconstruct(t, orders, Options{IncludeOpen: true})
	if len(res.Trades) != 1 || len(res.OpenPositions) != 1 {
		t.Fatalf("trades=%d open=%d", len(res.Trades), len(res.OpenPositions))
	}
	op := res.OpenPositions[0]
	if op.Side != orderhistory.SideSell || op.NumEntries != 1 || op.NumExits != 0 {
		t.Fatalf("open=%#v", op)
	}
	assertDec(t, "open entryQty", op.TotalEntryQty, "50")
	assertDec(t, "open position", op.Position, "-50")
	assertDec(t, "open avgEntry", op.AvgEntryPrice, "12")
}

func TestReconstruct_FlipThenClose(t *testing.T) {
	res := mustReconstruct(t, []orderhistory.Order{
		fill("AAPL", orderhistory.SideBuy, "100", "10", 0),
		fill("AAPL", orderhistory.SideSell, "150", "12", 5),
		fill("AAPL", orderhistory.SideBuy, "50", "11", 10),
	}, Options{})
	if len(res.Trades) != 2 {
		t.Fatalf("trades=%d want 2", len(res.Trades))
	}
	short := res.Trades[1]
	if short.Side != orderhistory.SideSell {
		t.Fatalf("side=%s", short.Side)
	}
	assertDec(t, "short entryQty", short.TotalEntryQty, "50")
	assertDec(t, "short avgEntry", short.AvgEntryPrice, "12")
	assertDec(t, "short pnl", short.PnL, "50")
	if short.Outcome != OutcomeProfit {
		t.Fatalf("outcome=%s", short.Outcome)
	}
	if len(res.OpenSymbols) != 0 {
		t.Fatalf("openSymbols=%v", res.OpenSymbols)
	}
}

func TestReconstruct_PartialThenFullExit(t *testing.T) {
	res := mustReconstruct(t, []orderhistory.Order{
		fill("AAPL", orderhistory.SideBuy, "100", "10", 0),
		fill("AAPL", orderhistory.SideSell, "40", "11", 5),
		fill("AAPL", orderhistory.SideSell, "60", "12", 10),
	}, Options{})
	if len(res.Trades) != 1 {
		t.Fatalf("trades=%d want 1", len(res.Trades))
	}
	tr := res.Trades[0]
	assertDec(t, "entryQty", tr.TotalEntryQty, "100")
	assertDec(t, "avgEntry", tr.AvgEntryPrice, "10")
	assertDec(t, "exitQty", tr.TotalExitQty, "100")
	assertDec(t, "avgExit", tr.AvgExitPrice, "11.6")
	assertDec(t, "pnl", tr.PnL, "160")
	if tr.Outcome != OutcomeProfit || tr.NumExits != 2 {
		t.Fatalf("outcome=%s exits=%d", tr.Outcome, tr.NumExits)
	}
}

func TestReconstruct_ScaleInShort(t *testing.T) {
	res := mustReconstruct(t, []orderhistory.Order{
		fill("ES", orderhistory.SideSell, "2", "100", 0),
		fill("ES", orderhistory.SideSell, "1", "103", 1),
		fill("ES", orderhistory.SideBuy, "3", "105", 2),
	}, Options{})
	tr := res.Trades[0]
	if tr.Side != orderhistory.SideSell || tr.NumEntries != 2 {
		t.Fatalf("side=%s entries=%d", tr.Side, tr.NumEntries)
	}
	assertDec(t, "avgEntry", tr.AvgEntryPrice, "101")
	assertDec(t, "pnl", tr.PnL, "-12")
	if tr.Outcome != OutcomeLoss {
		t.Fatalf("outcome=%s", tr.Outcome)
	}
}

func TestReconstruct_ExactCloseNeverFlips(t *testing.T) {
	res := mustReconstruct(t, []orderhistory.Order{
		fill("AAPL", orderhistory.SideSell, "10", "50", 0),
		fill("AAPL", orderhistory.SideBuy, "10", "50", 1),
	}, Options{IncludeOpen: true})
	if len(res.Trades) != 1 || len(res.OpenPositions) != 0 || len(res.OpenSymbols) != 0 {
		t.Fatalf("trades=%d open=%d openSymbols=%v", len(res.Trades), len(res.OpenPositions), res.OpenSymbols)
	}
	tr := res.Trades[0]
	assertDec(t, "pnl", tr.PnL, "0")
	if tr.Outcome != OutcomeLoss {
		t.Fatalf("zero pnl outcome=%s want Loss", tr.Outcome)
	}
}

func TestReconstruct_NonFilledOrdersIgnored(t *testing.T) {
	base := []orderhistory.Order{
		fill("AAPL", orderhistory.SideBuy, "100", "10", 0),
		fill("AAPL", orderhistory.SideSell, "40", "11", 5),
		fill("AAPL", orderhistory.SideSell, "60", "12", 10),
	}
	withCancel := []orderhistory.Order{
		base[0],
		cancelled("AAPL", orderhistory.SideSell, "Market", "500", "", "", 1, 2),
		base[1],
		base[2],
	}
	a := mustReconstruct(t, base, Options{})
	b := mustReconstruct(t, withCancel, Options{})
	if len(a.Trades) != len(b.Trades) {
		t.Fatalf("trade count differs: %d vs %d", len(a.Trades), len(b.Trades))
	}
	for i := range a.Trades {
		if !a.Trades[i].PnL.Equal(b.Trades[i].PnL) || a.Trades[i].NumExits != b.Trades[i].NumExits {
			t.Fatalf("trade %d differs", i)
		}
	}
}

func TestReconstruct_Idempotent(t *testing.T) {
	orders := []orderhistory.Order{
		fill("AAPL", orderhistory.SideBuy, "100", "10", 0),
		fill("MSFT", orderhistory.SideSell, "5", "400", 1),
		fill("AAPL", orderhistory.SideSell, "150", "12", 2),
		fill("MSFT", orderhistory.SideBuy, "5", "390", 3),
		fill("TSLA", orderhistory.SideBuy, "3", "200", 4),
		fill("AAPL", orderhistory.SideBuy, "50", "11", 6),
	}
	zone := DefaultDisplayZone()
	a := mustReconstruct(t, orders, Options{IncludeOpen: true, Workers: 1, DisplayZone: zone})
	b := mustReconstruct(t, orders, Options{IncludeOpen: true, Workers: 8, DisplayZone: zone})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("results differ between runs")
	}
	if !reflect.DeepEqual(a.Symbols, []string{"AAPL", "MSFT", "TSLA"}) {
		t.Fatalf("symbols=%v", a.Symbols)
	}
	var got []string
	for _, tr := range a.Trades {
		got = append(got, tr.Symbol+":"+string(tr.Side))
	}
	want := []string{"AAPL:Buy", "AAPL:Sell", "MSFT:Sell"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("trade order=%v want %v", got, want)
	}
}

func TestReconstruct_EmptyInput(t *testing.T) {
	if _, err := Reconstruct(nil, Options{}); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("err=%v want ErrEmptyInput", err)
	}
}

func TestReconstruct_MissingEffectivePrice(t *testing.T) {
	// The unpriced add still counts toward quantity and position, so the
	// 150 sell closes the position exactly instead of flipping.
	res := mustReconstruct(t, []orderhistory.Order{
		fill("AAPL", orderhistory.SideBuy, "100", "10", 0),
		fill("AAPL", orderhistory.SideBuy, "50", "", 1),
		fill("AAPL", orderhistory.SideSell, "150", "12", 2),
	}, Options{})
	if len(res.Trades) != 1 || len(res.OpenSymbols) != 0 {
		t.Fatalf("trades=%d open=%v", len(res.Trades), res.OpenSymbols)
	}
	tr := res.Trades[0]
	assertDec(t, "entryQty", tr.TotalEntryQty, "150")
	assertDec(t, "avgEntry", tr.AvgEntryPrice, "10")
	if tr.UnpricedOrders != 1 || tr.NumEntries != 2 {
		t.Fatalf("unpriced=%d entries=%d", tr.UnpricedOrders, tr.NumEntries)
	}

	res = mustReconstruct(t, []orderhistory.Order{
		fill("AAPL", orderhistory.SideBuy, "100", "", 0),
		fill("AAPL", orderhistory.SideSell, "100", "12", 2),
	}, Options{})
	if len(res.Trades) != 0 || len(res.Errors) != 1 {
		t.Fatalf("trades=%d errors=%d", len(res.Trades), len(res.Errors))
	}
	if !errors.Is(res.Errors[0], ErrMissingEffectivePrice) {
		t.Fatalf("err=%v", res.Errors[0])
	}
	var symErr *SymbolError
	if !errors.As(res.Errors[0], &symErr) || symErr.Symbol != "AAPL" {
		t.Fatalf("expected SymbolError for AAPL, got %v", res.Errors[0])
	}
}

func TestReconstruct_AveragePrecision(t *testing.T) {
	res := mustReconstruct(t, []orderhistory.Order{
		fill("X", orderhistory.SideBuy, "3", "10.1", 0),
		fill("X", orderhistory.SideBuy, "7", "10.37", 1),
		fill("X", orderhistory.SideBuy, "1", "9.99", 2),
		fill("X", orderhistory.SideSell, "11", "11", 3),
	}, Options{})
	tr := res.Trades[0]
	want := dec("3").Mul(dec("10.1")).Add(dec("7").Mul(dec("10.37"))).Add(dec("9.99")).Div(dec("11"))
	diff := tr.AvgEntryPrice.Sub(want).Abs()
	if diff.GreaterThan(want.Mul(dec("1e-9"))) {
		t.Fatalf("avgEntry=%s want %s", tr.AvgEntryPrice, want)
	}
}
