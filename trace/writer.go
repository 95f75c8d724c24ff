package trace

import (
	"bufio"
	"fmt"
	"os"

	"github.com/csllog/csl/logsite"
)

// Writer appends record entries to a trace file. It is the only thing the
// emit package's Logger writes through; Writer itself knows nothing about
// level gating, that lives in emit.
type Writer struct {
	f   *os.File
	buf *bufio.Writer
}

// Create truncates (or creates) the file at path, writes the fixed file
// header, and returns a Writer ready for WriteRecord calls.
func Create(path string, buildID [20]byte) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("trace: opening %s for write: %w", path, err)
	}
	buf := bufio.NewWriter(f)
	if err := WriteHeader(buf, Header{BuildID: buildID}); err != nil {
		f.Close()
		return nil, fmt.Errorf("trace: writing file header: %w", err)
	}
	return &Writer{f: f, buf: buf}, nil
}

// WriteRecord appends one record entry: (id, timestamp, typed values...). All
// writes for one emission happen here, contiguously.
func (w *Writer) WriteRecord(id int32, timestampMs uint32, types []logsite.Type, values []logsite.Value) error {
	if err := writeI32(w.buf, id); err != nil {
		return err
	}
	if err := writeU32(w.buf, timestampMs); err != nil {
		return err
	}
	for i, typ := range types {
		if err := writeValue(w.buf, typ, values[i]); err != nil {
			return fmt.Errorf("trace: writing argument %d: %w", i, err)
		}
	}
	return nil
}

// Flush flushes buffered writes to the underlying file. The emit package
// calls this when a record's level crosses the configured flush threshold.
func (w *Writer) Flush() error {
	return w.buf.Flush()
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
