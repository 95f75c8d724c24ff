package format

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"

	"github.com/csllog/csl/logsite"
)

func init() {
	register("xml", func() Formatter { return &xmlFormatter{} })
}

// xmlFormatter writes a <log> document with one <message> per entry. Text
// content is escaped via encoding/xml rather than written verbatim.
type xmlFormatter struct {
	f *os.File
	w *bufio.Writer
}

func (x *xmlFormatter) Init(outfile string) error {
	if outfile == "" {
		outfile = DefaultOutfile("xml")
	}
	f, err := os.Create(outfile)
	if err != nil {
		return fmt.Errorf("format: xml: %w", err)
	}
	x.f = f
	x.w = bufio.NewWriter(f)
	x.w.WriteString("<log>\n")
	return nil
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func (x *xmlFormatter) Handle(rec *logsite.Record, id int32, timestamp uint32, values []logsite.Value, msgIndex uint64) error {
	w := x.w
	fmt.Fprintf(w, "  <message>\n")
	fmt.Fprintf(w, "    <fmt_str>%s</fmt_str>\n", xmlEscape(rec.FmtStr.String()))
	fmt.Fprintf(w, "    <id>%d</id>\n", id)
	fmt.Fprintf(w, "    <level numeric=\"%d\">%s</level>\n", int(rec.Level), rec.Level.String())
	fmt.Fprintf(w, "    <timestamp>%d</timestamp>\n", timestamp)
	fmt.Fprintf(w, "    <location>\n")
	fmt.Fprintf(w, "       <filename>%s</filename>\n", xmlEscape(rec.Filename.String()))
	fmt.Fprintf(w, "       <function>%s</function>\n", xmlEscape(rec.Function.String()))
	fmt.Fprintf(w, "       <line>%d</line>\n", rec.Line)
	fmt.Fprintf(w, "    </location>\n")
	fmt.Fprintf(w, "    <args>\n")
	for _, v := range values {
		tag := xmlTag(v.Type())
		text := textValue(v)
		if v.Type() == logsite.CString {
			text = xmlEscape(text)
		}
		fmt.Fprintf(w, "       <%s>%s</%s>\n", tag, text, tag)
	}
	fmt.Fprintf(w, "    </args>\n")
	fmt.Fprintf(w, "  </message>\n")
	return nil
}

func (x *xmlFormatter) End() error {
	x.w.WriteString("</log>\n")
	if err := x.w.Flush(); err != nil {
		return err
	}
	return x.f.Close()
}
