// Package emit is the emitter runtime: the hot path that turns a Record plus
// its argument values into bytes in the trace file. It is the Go analogue
// of cs_log.c's csl_log_call/csl_easy_init/csl_easy_end.
//
// The process-wide Logger is not safe for concurrent use: the scheduling
// model is single-threaded. Calling Emit from more than one goroutine
// without external synchronization is undefined behavior; csl does not add
// a mutex around it, keeping the hot path free of synchronization overhead.
package emit

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/csllog/csl/logsite"
	"github.com/csllog/csl/trace"
)

// Logger is one process-wide emitter: a trace file, a gate level, and a
// flush-level threshold.
type Logger struct {
	w          *trace.Writer
	gateLevel  logsite.Level
	flushLevel logsite.Level
}

// global is the process-wide logger state the package-level Init/End/Emit
// functions operate on, mirroring cs_log.c's static GLOBAL_LOGGER.
var global *Logger

// Init opens path for writing (truncating it), writes the trace file header,
// sets the gate level, and sets the flush level to Trace so every record is
// flushed immediately. buildID is embedded in the header for the printer's
// advisory build-id check.
func Init(path string, level logsite.Level, buildID [20]byte) error {
	l, err := NewLogger(path, level, buildID)
	if err != nil {
		return err
	}
	global = l
	return nil
}

// NewLogger is the non-global constructor; Init wraps it for the common
// single-process-global usage pattern.
func NewLogger(path string, level logsite.Level, buildID [20]byte) (*Logger, error) {
	w, err := trace.Create(path, buildID)
	if err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}
	return &Logger{w: w, gateLevel: level, flushLevel: logsite.Trace}, nil
}

// End closes the process-wide trace file. Idempotency is not required:
// calling End twice, or Emit-ing after End, is a caller bug.
func End() error {
	if global == nil {
		return nil
	}
	err := global.w.Close()
	global = nil
	return err
}

// Close closes l's underlying trace file.
func (l *Logger) Close() error {
	return l.w.Close()
}

// Emit is the hot path. It is called through the process-wide
// Logger by the package-level Emit function below; Logger.Emit is exposed
// directly for callers that want an explicit (non-global) Logger.
func (l *Logger) Emit(r *logsite.Record, values []logsite.Value) error {
	if r.Level < l.gateLevel {
		return nil
	}

	id := loggingID(r)
	timestamp := uint32(time.Now().UnixMilli()) // wraps after ~49.7 days

	if err := l.w.WriteRecord(id, timestamp, r.Types[:r.ArgCount], values); err != nil {
		return fmt.Errorf("emit: writing record %d: %w", id, err)
	}

	if r.Level >= l.flushLevel {
		if err := l.w.Flush(); err != nil {
			return fmt.Errorf("emit: flushing after record %d: %w", id, err)
		}
	}
	return nil
}

// Emit calls Emit on the process-wide Logger set up by Init. Calling Emit
// before Init (or after End) panics, since there is no file to write to —
// this mirrors cs_log.c dereferencing a never-opened FILE*, just louder.
func Emit(r *logsite.Record, values []logsite.Value) error {
	if global == nil {
		panic("emit: Emit called before Init (or after End)")
	}
	return global.Emit(r, values)
}

// Log is a thin convenience wrapper that calls Emit on the process-wide
// Logger. It stands in for the emit-site macro/generator a real language
// binding would provide: such a binding would generate one *logsite.Record
// per call site and call Emit directly.
func Log(r *logsite.Record, values ...logsite.Value) error {
	return Emit(r, values)
}

// loggingID computes the signed pointer-difference id for r: if r.ID was
// pre-assigned (never true for a Declare-built Record, but the field exists
// so image-discovered mirrors can carry an id), use it; otherwise take the
// address of r relative to the sentinel's
// address. The record's own ID field is never written back — it stays zero
// in the image, and every emission recomputes the offset fresh.
func loggingID(r *logsite.Record) int32 {
	if r.ID != 0 {
		return r.ID
	}
	return int32(uintptr(unsafe.Pointer(r)) - uintptr(unsafe.Pointer(&logsite.Sentinel)))
}
