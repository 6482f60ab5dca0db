package orderhistory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

const (
	StatusFilled = "Filled"

	TypeStop  = "Stop"
	TypeLimit = "Limit"
)

// Order is one normalized row of a broker order-history export.
type Order struct {
	// Row is the 1-based data row in the source table.
	Row int

	Symbol   string
	Side     Side
	Type     string
	Status   string
	Quantity decimal.Decimal

	FillPrice  *decimal.Decimal
	StopPrice  *decimal.Decimal
	LimitPrice *decimal.Decimal

	PlacingTime time.Time
	ClosingTime time.Time
}

func (o Order) Filled() bool {
	return strings.EqualFold(o.Status, StatusFilled)
}

func (o Order) IsType(kind string) bool {
	return strings.EqualFold(strings.TrimSpace(o.Type), kind)
}

// Signed returns +quantity for buys and -quantity for sells.
func (o Order) Signed() decimal.Decimal {
	if o.Side == SideSell {
		return o.Quantity.Neg()
	}
	return o.Quantity
}

// EffectivePrice resolves fill, then stop, then limit price.
func (o Order) EffectivePrice() (decimal.Decimal, bool) {
	return firstPrice(o.FillPrice, o.StopPrice, o.LimitPrice)
}

// WithQuantity returns a copy of the order carrying only qty.
func (o Order) WithQuantity(qty decimal.Decimal) Order {
	o.Quantity = qty
	return o
}

func firstPrice(prices ...*decimal.Decimal) (decimal.Decimal, bool) {
	for _, p := range prices {
		if p != nil {
			return *p, true
		}
	}
	return decimal.Zero, false
}

// FirstPrice returns the first non-nil price as a new pointer.
func FirstPrice(prices ...*decimal.Decimal) *decimal.Decimal {
	p, ok := firstPrice(prices...)
	if !ok {
		return nil
	}
	return &p
}
