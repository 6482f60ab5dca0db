package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"tradejournal/internal/orderhistory"
)

type validateOutput struct {
	File      string                   `json:"file"`
	Kind      string                   `json:"kind"`
	Rows      int                      `json:"rows"`
	Skipped   int                      `json:"skipped"`
	Symbols   int                      `json:"symbols"`
	RowErrors []*orderhistory.RowError `json:"row_errors"`
}

func (o validateOutput) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "%s (%s): %d rows ok, %d skipped, %d symbols\n", o.File, o.Kind, o.Rows, o.Skipped, o.Symbols)
	for _, e := range o.RowErrors {
		fmt.Fprintf(w, "  %s\n", e.Error())
	}
	return nil
}

// ErrInvalidRows is returned after the report is written when any row was
// rejected, so scripts can rely on the exit status.
var ErrInvalidRows = errors.New("export has invalid rows")

func validateCmd(ctx Context, args []string) error {
	fs := flag.NewFlagSet("tradectl validate", flag.ContinueOnError)
	fs.SetOutput(ctx.Stderr)
	file := fs.String("file", "", "export file to check")
	kind := fs.String("kind", "history", "history|positions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*file) == "" {
		return errors.New("--file required")
	}
	parse := orderhistory.ParseTable
	switch strings.ToLower(strings.TrimSpace(*kind)) {
	case "history":
	case "positions":
		parse = orderhistory.ParsePositions
	default:
		return fmt.Errorf("unknown --kind %q (want history|positions)", *kind)
	}
	tbl, err := readTable(*file, parse)
	if err != nil {
		return err
	}
	out := validateOutput{
		File:      *file,
		Kind:      strings.ToLower(strings.TrimSpace(*kind)),
		Rows:      len(tbl.Orders),
		Skipped:   tbl.Skipped,
		Symbols:   len(orderhistory.GroupBySymbol(tbl.Orders)),
		RowErrors: tbl.Errors,
	}
	if out.RowErrors == nil {
		out.RowErrors = []*orderhistory.RowError{}
	}
	if err := writeResult(ctx, out); err != nil {
		return err
	}
	if len(tbl.Errors) > 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRows, len(tbl.Errors))
	}
	return nil
}
