package output

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

type textual struct{}

func (textual) WriteText(w io.Writer) error {
	_, err := io.WriteString(w, "plain\n")
	return err
}

func TestWriteFormats(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatText, textual{}); err != nil || buf.String() != "plain\n" {
		t.Fatalf("text: err=%v out=%q", err, buf.String())
	}
	buf.Reset()
	if err := Write(&buf, FormatText, map[string]int{"a": 1}); err != nil || !strings.Contains(buf.String(), `"a": 1`) {
		t.Fatalf("fallback: err=%v out=%q", err, buf.String())
	}
	if _, err := Parse("yaml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
