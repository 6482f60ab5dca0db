package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"tradejournal/internal/orderhistory"
	"tradejournal/internal/output"
	"tradejournal/internal/reconstruct"
)

type reconstructOutput struct {
	Trades         []reconstruct.Trade         `json:"trades"`
	OpenPositions  []reconstruct.OpenPosition  `json:"open_positions,omitempty"`
	OpenSymbols    []string                    `json:"open_symbols,omitempty"`
	Reconciliation *reconstruct.Reconciliation `json:"reconciliation,omitempty"`
	SkippedRows    int                         `json:"skipped_rows"`
	RowErrors      []string                    `json:"row_errors,omitempty"`
	Diagnostics    []string                    `json:"diagnostics,omitempty"`
}

func decString(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

func (o reconstructOutput) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tSIDE\tFIRST ENTRY\tLAST EXIT\tQTY\tAVG ENTRY\tAVG EXIT\tPNL\tOUTCOME\tSTOP\tTARGET")
	for _, t := range o.Trades {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Symbol, t.Side,
			t.TimeOfFirstEntry.Format("2006-01-02 15:04:05"),
			t.TimeOfLastExit.Format("2006-01-02 15:04:05"),
			t.TotalEntryQty, t.AvgEntryPrice.StringFixed(4), t.AvgExitPrice.StringFixed(4),
			t.PnL.StringFixed(2), t.Outcome,
			decString(t.StopLoss), decString(t.PriceTarget),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d trades, %d skipped rows\n", len(o.Trades), o.SkippedRows)
	for _, p := range o.OpenPositions {
		fmt.Fprintf(w, "open: %s %s position=%s since %s\n",
			p.Symbol, p.Side, p.Position, p.TimeOfFirstEntry.Format("2006-01-02 15:04:05"))
	}
	if len(o.OpenSymbols) > 0 {
		fmt.Fprintf(w, "open symbols: %s\n", strings.Join(o.OpenSymbols, ", "))
	}
	if o.Reconciliation != nil && !o.Reconciliation.Clean() {
		if len(o.Reconciliation.UntradedSymbols) > 0 {
			fmt.Fprintf(w, "in positions without trades: %s\n", strings.Join(o.Reconciliation.UntradedSymbols, ", "))
		}
		if len(o.Reconciliation.UnlistedOpen) > 0 {
			fmt.Fprintf(w, "open but not in positions: %s\n", strings.Join(o.Reconciliation.UnlistedOpen, ", "))
		}
	}
	for _, e := range o.RowErrors {
		fmt.Fprintf(w, "row: %s\n", e)
	}
	for _, d := range o.Diagnostics {
		fmt.Fprintf(w, "warn: %s\n", d)
	}
	return nil
}

func reconstructCmd(ctx Context, args []string) error {
	fs := flag.NewFlagSet("tradectl reconstruct", flag.ContinueOnError)
	fs.SetOutput(ctx.Stderr)
	historyPath := fs.String("history", "", "History.csv path")
	positionsPath := fs.String("positions", "", "Positions.csv path (optional, enables reconciliation)")
	includeOpen := fs.Bool("include-open", false, "report positions that never returned to flat")
	offset := fs.Duration("utc-offset", reconstruct.DefaultDisplayOffset, "fixed display offset from UTC")
	zoneName := fs.String("zone-name", "", "display zone label (default SGT for +8h, else UTC±N)")
	skipRisk := fs.Bool("skip-risk", false, "do not infer stop loss and price target")
	workers := fs.Int("workers", 0, "per-symbol workers (0 = GOMAXPROCS)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*historyPath) == "" {
		return errors.New("--history required")
	}

	history, err := readTable(*historyPath, orderhistory.ParseTable)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if history.Empty() {
		return fmt.Errorf("history: %w", reconstruct.ErrEmptyInput)
	}

	name := strings.TrimSpace(*zoneName)
	if name == "" && *offset == reconstruct.DefaultDisplayOffset {
		name = reconstruct.DefaultDisplayZoneName
	}
	res, err := reconstruct.Reconstruct(history.Orders, reconstruct.Options{
		IncludeOpen:    *includeOpen,
		DisplayZone:    reconstruct.DisplayZone(name, *offset),
		Workers:        *workers,
		SkipRiskLevels: *skipRisk,
	})
	if err != nil {
		return err
	}

	out := reconstructOutput{
		Trades:        res.Trades,
		OpenPositions: res.OpenPositions,
		OpenSymbols:   res.OpenSymbols,
		SkippedRows:   history.Skipped,
	}
	if out.Trades == nil {
		out.Trades = []reconstruct.Trade{}
	}
	for _, e := range history.Errors {
		out.RowErrors = append(out.RowErrors, e.Error())
	}
	for _, e := range res.Errors {
		out.Diagnostics = append(out.Diagnostics, e.Error())
	}
	if p := strings.TrimSpace(*positionsPath); p != "" {
		positions, err := readTable(p, orderhistory.ParsePositions)
		if err != nil {
			return fmt.Errorf("positions: %w", err)
		}
		if positions.Empty() {
			return fmt.Errorf("positions: %w", reconstruct.ErrEmptyInput)
		}
		rec := reconstruct.Reconcile(positions.Orders, res)
		out.Reconciliation = &rec
		out.SkippedRows += positions.Skipped
	}
	return writeResult(ctx, out)
}

func readTable(path string, parse func(io.Reader) (orderhistory.Table, error)) (orderhistory.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return orderhistory.Table{}, err
	}
	defer f.Close()
	return parse(f)
}

func writeResult(ctx Context, v any) error {
	w := ctx.Stdout
	if w == nil {
		w = os.Stdout
	}
	return output.Write(w, ctx.Output, v)
}
