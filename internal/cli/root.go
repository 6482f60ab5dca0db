// Package cli implements tradectl, the offline front end to the
// reconstruction pipeline.
package cli

import (
	"errors"
	"fmt"
	"io"

	"tradejournal/internal/output"
)

type Context struct {
	Output output.Format
	Stdout io.Writer
	Stderr io.Writer
}

func Usage(w io.Writer) {
	fmt.Fprint(w, `tradectl <command> [flags]

Global Flags:
  --output      json|text (default json)

Commands:
  reconstruct  rebuild trades from a History/Positions export pair
  validate     report malformed rows in an export file
`)
}

func Dispatch(ctx Context, args []string) error {
	if len(args) == 0 {
		Usage(ctx.Stderr)
		return errors.New("missing command")
	}
	switch args[0] {
	case "reconstruct":
		return reconstructCmd(ctx, args[1:])
	case "validate":
		return validateCmd(ctx, args[1:])
	case "help", "-h", "--help":
		Usage(ctx.Stdout)
		return nil
	default:
		Usage(ctx.Stderr)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}
