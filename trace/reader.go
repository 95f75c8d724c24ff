package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/csllog/csl/logsite"
)

// Reader reads a trace file's fixed header followed by its forward-only
// stream of record entries. It has no idea what a record's argument count or
// types are — the caller (the replay package) looks those up by id in the
// image's metadata table and then calls ReadValue once per declared type.
type Reader struct {
	f   *os.File
	buf *bufio.Reader
	hdr Header
}

// Open opens path, validates the fixed file header, and returns a Reader
// positioned at the first record entry.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: opening %s: %w", path, err)
	}
	buf := bufio.NewReader(f)
	hdr, err := ReadHeader(buf)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Reader{f: f, buf: buf, hdr: hdr}, nil
}

// Header returns the trace file's fixed header (for build-id comparison).
func (r *Reader) Header() Header { return r.hdr }

// Close closes the underlying file.
func (r *Reader) Close() error { return r.f.Close() }

// ReadEntry reads one record entry's (id, timestamp) pair. ok is false with
// a nil error at a clean end-of-stream (zero bytes read on the leading field
// means normal termination); ok is false with a non-nil error on a genuine
// short read mid-entry.
func (r *Reader) ReadEntry() (id int32, timestampMs uint32, ok bool, err error) {
	id, n, err := readI32(r.buf)
	if n == 0 {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}
	timestampMs, _, err = readU32(r.buf)
	if err != nil {
		if err == io.EOF {
			err = ErrShortRead
		}
		return 0, 0, false, fmt.Errorf("trace: reading timestamp for entry %d: %w", id, err)
	}
	return id, timestampMs, true, nil
}

// ReadValue reads one argument of the given type, immediately following a
// ReadEntry call or a prior ReadValue for the same record entry.
func (r *Reader) ReadValue(typ logsite.Type) (logsite.Value, error) {
	v, _, err := readValue(r.buf, typ)
	if err != nil {
		return logsite.Value{}, fmt.Errorf("trace: reading %v argument: %w", typ, err)
	}
	return v, nil
}
