package format

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/csllog/csl/logsite"
)

func init() {
	register("json", func() Formatter { return &jsonFormatter{} })
}

// jsonFormatter writes a single JSON object containing a "messages" array,
// one element per trace entry. It streams: since the trace is a
// forward-only stream of unknown length, it writes the array incrementally
// rather than buffering every message and marshaling the whole document at
// the end.
type jsonFormatter struct {
	f *os.File
	w *bufio.Writer
}

type jsonLevel struct {
	Name    string `json:"name"`
	Numeric int    `json:"numeric"`
}

type jsonLocation struct {
	Filename string `json:"filename"`
	Function string `json:"function"`
	Line     int32  `json:"line"`
}

type jsonMessage struct {
	FmtStr    string            `json:"fmt_str"`
	ID        int32             `json:"id"`
	Timestamp uint32            `json:"timestamp"`
	Level     jsonLevel         `json:"level"`
	Location  jsonLocation      `json:"location"`
	Args      []json.RawMessage `json:"args"`
}

func (j *jsonFormatter) Init(outfile string) error {
	if outfile == "" {
		outfile = DefaultOutfile("json")
	}
	f, err := os.Create(outfile)
	if err != nil {
		return fmt.Errorf("format: json: %w", err)
	}
	j.f = f
	j.w = bufio.NewWriter(f)
	j.w.WriteString("{\n  \"messages\": [\n")
	return nil
}

func (j *jsonFormatter) Handle(rec *logsite.Record, id int32, timestamp uint32, values []logsite.Value, msgIndex uint64) error {
	if msgIndex != 0 {
		j.w.WriteString(",\n")
	}

	args := make([]json.RawMessage, len(values))
	for i, v := range values {
		args[i] = jsonValue(v)
	}

	msg := jsonMessage{
		FmtStr:    rec.FmtStr.String(),
		ID:        id,
		Timestamp: timestamp,
		Level:     jsonLevel{Name: rec.Level.String(), Numeric: int(rec.Level)},
		Location: jsonLocation{
			Filename: rec.Filename.String(),
			Function: rec.Function.String(),
			Line:     rec.Line,
		},
		Args: args,
	}

	b, err := json.MarshalIndent(msg, "    ", "  ")
	if err != nil {
		return fmt.Errorf("format: json: marshaling message %d: %w", id, err)
	}
	j.w.WriteString("    ")
	j.w.Write(b)
	return nil
}

func (j *jsonFormatter) End() error {
	j.w.WriteString("\n  ]\n}\n")
	if err := j.w.Flush(); err != nil {
		return err
	}
	return j.f.Close()
}
