package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"tradejournal/internal/cli"
	"tradejournal/internal/output"
)

func main() {
	_ = godotenv.Load()

	outFmt := flag.String("output", envOr("TJ_OUTPUT", "json"), "Output format: json|text (env: TJ_OUTPUT)")
	flag.Usage = func() { cli.Usage(os.Stderr) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		cli.Usage(os.Stderr)
		os.Exit(2)
	}

	format, err := output.Parse(strings.TrimSpace(*outFmt))
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	ctx := cli.Context{Output: format, Stdout: os.Stdout, Stderr: os.Stderr}
	if err := cli.Dispatch(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
