package orderhistory

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// rawRow mirrors the broker export header. Every cell is read as text and
// converted by normalize so a bad cell rejects one row, not the whole table.
type rawRow struct {
	Symbol      string `csv:"Symbol"`
	Side        string `csv:"Side"`
	Type        string `csv:"Type"`
	Qty         string `csv:"Qty"`
	LimitPrice  string `csv:"Limit Price"`
	StopPrice   string `csv:"Stop Price"`
	FillPrice   string `csv:"Fill Price"`
	Status      string `csv:"Status"`
	PlacingTime string `csv:"Placing Time"`
	ClosingTime string `csv:"Closing Time"`
}

// RowError reports a row that could not be converted into an Order.
type RowError struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
}

// Table is a parsed order-history export.
type Table struct {
	Orders  []Order
	Skipped int
	Errors  []*RowError
}

func (t Table) Empty() bool {
	return len(t.Orders) == 0
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseTable reads a CSV order table. Malformed rows are skipped and
// reported in Table.Errors; only unreadable input fails the call.
func ParseTable(r io.Reader) (Table, error) {
	rows, err := readRows(r)
	if err != nil {
		return Table{}, err
	}
	out := Table{Orders: make([]Order, 0, len(rows))}
	for i, raw := range rows {
		if raw == nil {
			continue
		}
		o, err := normalize(*raw, i+1)
		if err != nil {
			var rowErr *RowError
			if errors.As(err, &rowErr) {
				out.Skipped++
				out.Errors = append(out.Errors, rowErr)
				continue
			}
			return Table{}, err
		}
		out.Orders = append(out.Orders, o)
	}
	return out, nil
}

func readRows(r io.Reader) ([]*rawRow, error) {
	if r == nil {
		return nil, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read order table: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	// Ragged records reach normalize as rows with empty trailing cells.
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	var rows []*rawRow
	if err := gocsv.UnmarshalCSV(cr, &rows); err != nil {
		return nil, fmt.Errorf("parse order table: %w", err)
	}
	return rows, nil
}

func normalize(raw rawRow, row int) (Order, error) {
	o := Order{Row: row}

	o.Symbol = strings.TrimSpace(raw.Symbol)
	if o.Symbol == "" {
		return Order{}, &RowError{Row: row, Field: "Symbol", Reason: "missing"}
	}

	side, ok := parseSide(raw.Side)
	if !ok {
		return Order{}, &RowError{Row: row, Field: "Side", Reason: fmt.Sprintf("invalid value %q", raw.Side)}
	}
	o.Side = side

	qty, err := parseDecimal(raw.Qty)
	if err != nil || qty == nil {
		return Order{}, &RowError{Row: row, Field: "Qty", Reason: "missing or not a number"}
	}
	if !qty.IsPositive() {
		return Order{}, &RowError{Row: row, Field: "Qty", Reason: "must be greater than zero"}
	}
	o.Quantity = *qty

	o.Status = strings.TrimSpace(raw.Status)
	if o.Status == "" {
		return Order{}, &RowError{Row: row, Field: "Status", Reason: "missing"}
	}
	o.Type = strings.TrimSpace(raw.Type)

	if o.FillPrice, err = parseDecimal(raw.FillPrice); err != nil {
		return Order{}, &RowError{Row: row, Field: "Fill Price", Reason: err.Error()}
	}
	if o.StopPrice, err = parseDecimal(raw.StopPrice); err != nil {
		return Order{}, &RowError{Row: row, Field: "Stop Price", Reason: err.Error()}
	}
	if o.LimitPrice, err = parseDecimal(raw.LimitPrice); err != nil {
		return Order{}, &RowError{Row: row, Field: "Limit Price", Reason: err.Error()}
	}

	closing, ok := ParseTime(raw.ClosingTime)
	if !ok {
		return Order{}, &RowError{Row: row, Field: "Closing Time", Reason: "missing or unparseable"}
	}
	o.ClosingTime = closing
	if strings.TrimSpace(raw.PlacingTime) == "" {
		o.PlacingTime = closing
	} else {
		placing, ok := ParseTime(raw.PlacingTime)
		if !ok {
			return Order{}, &RowError{Row: row, Field: "Placing Time", Reason: "unparseable"}
		}
		o.PlacingTime = placing
	}
	return o, nil
}

func parseSide(v string) (Side, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "buy":
		return SideBuy, true
	case "sell":
		return SideSell, true
	default:
		return "", false
	}
}

// parseDecimal returns nil for an empty cell and an error for a cell that is
// present but not numeric.
func parseDecimal(v string) (*decimal.Decimal, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	v = strings.ReplaceAll(v, ",", "")
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", v)
	}
	return &d, nil
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"2006-01-02",
}

// ParseTime parses broker timestamps. Values without an explicit offset are
// taken as UTC.
func ParseTime(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// SymbolOrders is one symbol's slice of the history, ordered by closing time.
type SymbolOrders struct {
	Symbol string
	Orders []Order
}

// GroupBySymbol splits orders per symbol in first-appearance order and
// stable-sorts each symbol by closing time, so equal timestamps keep their
// input order.
func GroupBySymbol(orders []Order) []SymbolOrders {
	index := map[string]int{}
	var out []SymbolOrders
	for _, o := range orders {
		i, ok := index[o.Symbol]
		if !ok {
			i = len(out)
			index[o.Symbol] = i
			out = append(out, SymbolOrders{Symbol: o.Symbol})
		}
		out[i].Orders = append(out[i].Orders, o)
	}
	for i := range out {
		items := out[i].Orders
		sort.SliceStable(items, func(a, b int) bool {
			return items[a].ClosingTime.Before(items[b].ClosingTime)
		})
	}
	return out
}

// ParsePositions reads a positions snapshot. Only Symbol is required; the
// snapshot is used for reconciliation, so other cells are kept when they
// parse and dropped when they do not.
func ParsePositions(r io.Reader) (Table, error) {
	rows, err := readRows(r)
	if err != nil {
		return Table{}, err
	}
	out := Table{Orders: make([]Order, 0, len(rows))}
	for i, raw := range rows {
		if raw == nil {
			continue
		}
		o, err := normalize(*raw, i+1)
		if err == nil {
			out.Orders = append(out.Orders, o)
			continue
		}
		symbol := strings.TrimSpace(raw.Symbol)
		if symbol == "" {
			out.Skipped++
			out.Errors = append(out.Errors, &RowError{Row: i + 1, Field: "Symbol", Reason: "missing"})
			continue
		}
		p := Order{Row: i + 1, Symbol: symbol, Type: strings.TrimSpace(raw.Type), Status: strings.TrimSpace(raw.Status)}
		if side, ok := parseSide(raw.Side); ok {
			p.Side = side
		}
		if qty, qerr := parseDecimal(raw.Qty); qerr == nil && qty != nil {
			p.Quantity = *qty
		}
		p.FillPrice, _ = parseDecimal(raw.FillPrice)
		out.Orders = append(out.Orders, p)
	}
	return out, nil
}
