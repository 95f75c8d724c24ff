package format

import (
	"bufio"
	"fmt"
	"html"
	"os"

	"github.com/csllog/csl/logsite"
)

func init() {
	register("html", func() Formatter { return &htmlFormatter{} })
}

const htmlHeader = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>csl log</title></head>
<body>
<table border="1">
  <tr>
    <th>idx</th><th>level</th><th>ts</th><th>file</th><th>func</th><th>line</th><th>id</th><th>fmt</th>
`

const htmlArgHeader = "    <th>arg%d</th>"

const htmlFooter = `</table>
</body>
</html>
`

// htmlFormatter writes one <table> row per entry, columns
// idx/level/ts/file/func/line/id/fmt/arg0..arg9 with unused argument
// columns left blank.
type htmlFormatter struct {
	f *os.File
	w *bufio.Writer
}

func (h *htmlFormatter) Init(outfile string) error {
	if outfile == "" {
		outfile = DefaultOutfile("html")
	}
	f, err := os.Create(outfile)
	if err != nil {
		return fmt.Errorf("format: html: %w", err)
	}
	h.f = f
	h.w = bufio.NewWriter(f)
	h.w.WriteString(htmlHeader)
	for i := 0; i < logsite.MaxArgs; i++ {
		fmt.Fprintf(h.w, htmlArgHeader+"\n", i)
	}
	h.w.WriteString("  </tr>\n")
	return nil
}

func (h *htmlFormatter) Handle(rec *logsite.Record, id int32, timestamp uint32, values []logsite.Value, msgIndex uint64) error {
	w := h.w
	w.WriteString("    <tr>\n")
	fmt.Fprintf(w, "        <td>%d</td>\n", msgIndex)
	fmt.Fprintf(w, "        <td>%s</td>\n", rec.Level.String())
	fmt.Fprintf(w, "        <td>%d</td>\n", timestamp)
	fmt.Fprintf(w, "        <td>%s</td>\n", html.EscapeString(rec.Filename.String()))
	fmt.Fprintf(w, "        <td>%s</td>\n", html.EscapeString(rec.Function.String()))
	fmt.Fprintf(w, "        <td>%d</td>\n", rec.Line)
	fmt.Fprintf(w, "        <td>%d</td>\n", id)
	fmt.Fprintf(w, "        <td>%s</td>\n", html.EscapeString(rec.FmtStr.String()))

	for i := 0; i < logsite.MaxArgs; i++ {
		if i >= len(values) {
			w.WriteString("        <td></td>\n")
			continue
		}
		text := textValue(values[i])
		if values[i].Type() == logsite.CString {
			text = html.EscapeString(text)
		}
		fmt.Fprintf(w, "        <td>%s</td>\n", text)
	}
	w.WriteString("    </tr>\n")
	return nil
}

func (h *htmlFormatter) End() error {
	h.w.WriteString(htmlFooter)
	if err := h.w.Flush(); err != nil {
		return err
	}
	return h.f.Close()
}
