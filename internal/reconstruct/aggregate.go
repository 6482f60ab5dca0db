package reconstruct

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/orderhistory"
)

type Outcome string

const (
	OutcomeProfit Outcome = "Profit"
	OutcomeLoss   Outcome = "Loss"
)

// Trade is a completed round trip. Times are expressed in the display zone.
type Trade struct {
	Symbol string            `json:"symbol"`
	Side   orderhistory.Side `json:"side"`

	TimeOfFirstEntry time.Time       `json:"time_of_first_entry"`
	AvgEntryPrice    decimal.Decimal `json:"avg_entry_price"`
	TotalEntryQty    decimal.Decimal `json:"total_entry_qty"`

	TimeOfLastExit time.Time       `json:"time_of_last_exit"`
	AvgExitPrice   decimal.Decimal `json:"avg_exit_price"`
	TotalExitQty   decimal.Decimal `json:"total_exit_qty"`

	TotalBuy  decimal.Decimal `json:"total_buy"`
	TotalSell decimal.Decimal `json:"total_sell"`
	PnL       decimal.Decimal `json:"pnl"`
	Outcome   Outcome         `json:"outcome"`

	NumEntries int `json:"num_entries"`
	NumExits   int `json:"num_exits"`

	StopLoss    *decimal.Decimal `json:"stop_loss"`
	PriceTarget *decimal.Decimal `json:"price_target"`

	// UnpricedOrders counts filled orders that carried no fill, stop or limit
	// price. They moved the position but are left out of the averages.
	UnpricedOrders int `json:"unpriced_orders"`
}

// OpenPosition is a group whose position never returned to flat.
type OpenPosition struct {
	Symbol           string            `json:"symbol"`
	Side             orderhistory.Side `json:"side"`
	Position         decimal.Decimal   `json:"position"`
	TimeOfFirstEntry time.Time         `json:"time_of_first_entry"`
	AvgEntryPrice    decimal.Decimal   `json:"avg_entry_price"`
	TotalEntryQty    decimal.Decimal   `json:"total_entry_qty"`
	TotalExitQty     decimal.Decimal   `json:"total_exit_qty"`
	NumEntries       int               `json:"num_entries"`
	NumExits         int               `json:"num_exits"`
	UnpricedOrders   int               `json:"unpriced_orders"`
}

// Settlement holds the notional and result figures derived from averages.
type Settlement struct {
	TotalBuy  decimal.Decimal
	TotalSell decimal.Decimal
	PnL       decimal.Decimal
	Outcome   Outcome
}

// Settle computes notionals, pnl and outcome. A zero pnl is a Loss.
func Settle(side orderhistory.Side, entryQty, avgEntry, exitQty, avgExit decimal.Decimal) Settlement {
	buy := entryQty.Mul(avgEntry)
	sell := exitQty.Mul(avgExit)
	pnl := sell.Sub(buy)
	if side == orderhistory.SideSell {
		pnl = buy.Sub(sell)
	}
	outcome := OutcomeLoss
	if pnl.IsPositive() {
		outcome = OutcomeProfit
	}
	return Settlement{TotalBuy: buy, TotalSell: sell, PnL: pnl, Outcome: outcome}
}

type cohort struct {
	qty      decimal.Decimal
	avg      decimal.Decimal
	priced   bool
	unpriced int
	first    time.Time
	last     time.Time
}

func summarize(orders []orderhistory.Order) cohort {
	c := cohort{qty: decimal.Zero, avg: decimal.Zero}
	weighted := decimal.Zero
	pricedQty := decimal.Zero
	for i, o := range orders {
		c.qty = c.qty.Add(o.Quantity)
		if i == 0 || o.ClosingTime.Before(c.first) {
			c.first = o.ClosingTime
		}
		if i == 0 || o.ClosingTime.After(c.last) {
			c.last = o.ClosingTime
		}
		price, ok := o.EffectivePrice()
		if !ok {
			c.unpriced++
			continue
		}
		weighted = weighted.Add(price.Mul(o.Quantity))
		pricedQty = pricedQty.Add(o.Quantity)
	}
	if pricedQty.IsPositive() {
		c.avg = weighted.Div(pricedQty)
		c.priced = true
	}
	return c
}

// Aggregate turns a closed group into a Trade with times shifted into zone.
func Aggregate(g TradeGroup, zone *time.Location) (Trade, error) {
	if len(g.EntryOrders) == 0 || len(g.ExitOrders) == 0 {
		return Trade{}, fmt.Errorf("%s %s group: %w", g.Symbol, g.Side, ErrIncompleteGroup)
	}
	if zone == nil {
		zone = DefaultDisplayZone()
	}
	entry := summarize(g.EntryOrders)
	exit := summarize(g.ExitOrders)
	if !entry.priced || !exit.priced {
		return Trade{}, fmt.Errorf("%s %s group opened %s: %w",
			g.Symbol, g.Side, entry.first.Format(time.RFC3339), ErrMissingEffectivePrice)
	}

	s := Settle(g.Side, entry.qty, entry.avg, exit.qty, exit.avg)
	return Trade{
		Symbol:           g.Symbol,
		Side:             g.Side,
		TimeOfFirstEntry: entry.first.In(zone),
		AvgEntryPrice:    entry.avg,
		TotalEntryQty:    entry.qty,
		TimeOfLastExit:   exit.last.In(zone),
		AvgExitPrice:     exit.avg,
		TotalExitQty:     exit.qty,
		TotalBuy:         s.TotalBuy,
		TotalSell:        s.TotalSell,
		PnL:              s.PnL,
		Outcome:          s.Outcome,
		NumEntries:       len(g.EntryOrders),
		NumExits:         len(g.ExitOrders),
		UnpricedOrders:   entry.unpriced + exit.unpriced,
	}, nil
}

func openPosition(g TradeGroup, zone *time.Location) OpenPosition {
	if zone == nil {
		zone = DefaultDisplayZone()
	}
	entry := summarize(g.EntryOrders)
	exit := summarize(g.ExitOrders)
	return OpenPosition{
		Symbol:           g.Symbol,
		Side:             g.Side,
		Position:         g.Remaining,
		TimeOfFirstEntry: entry.first.In(zone),
		AvgEntryPrice:    entry.avg,
		TotalEntryQty:    entry.qty,
		TotalExitQty:     exit.qty,
		NumEntries:       len(g.EntryOrders),
		NumExits:         len(g.ExitOrders),
		UnpricedOrders:   entry.unpriced + exit.unpriced,
	}
}
