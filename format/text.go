package format

import (
	"bufio"
	"fmt"
	"os"

	"github.com/csllog/csl/logsite"
)

func init() {
	register("string", func() Formatter { return &textFormatter{} })
}

// textFormatter is the default --format: one line per entry, level short
// character, timestamp, source location, then the format template with
// each "{}" replaced by the matching argument.
type textFormatter struct {
	f *os.File
	w *bufio.Writer
}

func (t *textFormatter) Init(outfile string) error {
	if outfile == "" {
		outfile = DefaultOutfile("string")
	}
	f, err := os.Create(outfile)
	if err != nil {
		return fmt.Errorf("format: string: %w", err)
	}
	t.f = f
	t.w = bufio.NewWriter(f)
	return nil
}

func (t *textFormatter) Handle(rec *logsite.Record, id int32, timestamp uint32, values []logsite.Value, msgIndex uint64) error {
	fmt.Fprintf(t.w, "[%c] [%d] %s:%d | ", rec.Level.Short(), timestamp, rec.Filename.String(), rec.Line)

	tmpl := rec.FmtStr.String()
	argIdx := 0
	lastStart := 0
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '{' {
			continue
		}
		// The format stores placeholders as a literal "{}" pair; a
		// malformed template (a stray '{' with no matching '}') falls
		// through to the arg-count mismatch diagnostic below instead of
		// panicking.
		if i+1 >= len(tmpl) || tmpl[i+1] != '}' {
			continue
		}
		t.w.WriteString(tmpl[lastStart:i])
		lastStart = i + 2
		if argIdx < len(values) {
			t.w.WriteString(textValue(values[argIdx]))
		}
		argIdx++
	}
	t.w.WriteString(tmpl[lastStart:])

	if argIdx != int(rec.ArgCount) {
		fmt.Fprintf(os.Stderr, "format: invalid format string for message with id %d\n", id)
	}
	return t.w.WriteByte('\n')
}

func (t *textFormatter) End() error {
	if err := t.w.Flush(); err != nil {
		return err
	}
	return t.f.Close()
}
