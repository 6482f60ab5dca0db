package output

import (
	"encoding/json"
	"fmt"
	"io"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// TextWriter is implemented by results that have a human-readable layout.
type TextWriter interface {
	WriteText(w io.Writer) error
}

func Parse(v string) (Format, error) {
	switch Format(v) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json|text)", v)
	}
}

// Write renders v as indented JSON, or through WriteText for the text format
// when v supports it.
func Write(w io.Writer, format Format, v any) error {
	if format == FormatText {
		if tw, ok := v.(TextWriter); ok {
			return tw.WriteText(w)
		}
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
