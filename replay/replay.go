// Package replay drives the printer's main loop: open an image and a trace,
// check their build ids, and feed every resolved entry to a format.Formatter.
// It is the Go analogue of log_printer.c's main read loop.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/csllog/csl/format"
	"github.com/csllog/csl/image"
	"github.com/csllog/csl/logsite"
	"github.com/csllog/csl/trace"
)

// ErrUnresolvedID is returned when a trace entry's id has no matching
// Record in the image's discovered table: the printer treats this as data
// corruption, not a recoverable condition.
var ErrUnresolvedID = errors.New("replay: trace entry id has no matching emit site in the image")

// ErrBuildIDMismatch is returned by Run only when strict is true; otherwise
// a mismatch is reported to stderr as an advisory warning and replay
// continues.
var ErrBuildIDMismatch = errors.New("replay: trace build id does not match the program image")

// Options configures one replay run.
type Options struct {
	ProgramPath string // --program
	LogPath     string // --log
	Format      string // --format
	Outfile     string // --outfile
	Strict      bool   // --strict: build-id mismatch becomes fatal
	Verbose     bool   // --verbose: log discovery details to stderr
}

// Result summarizes a completed run, for the CLI's closing status line.
type Result struct {
	MessageCount uint64
	Outfile      string
}

// Run executes one full replay: load the program image, discover its
// emit-site table, open the trace, validate build ids, and dispatch every
// entry to the named formatter.
func Run(opts Options) (Result, error) {
	img, err := image.Load(opts.ProgramPath)
	if err != nil {
		return Result{}, err
	}

	entries, err := image.Discover(img)
	if err != nil {
		return Result{}, fmt.Errorf("replay: %w", err)
	}
	if opts.Verbose {
		discoveryLog := log.New(os.Stderr, "replay: ", 0)
		logDiscoveredRecords(discoveryLog, entries, opts.ProgramPath)
	}
	table := image.BuildTable(entries)

	r, err := trace.Open(opts.LogPath)
	if err != nil {
		return Result{}, err
	}
	defer r.Close()

	if err := checkBuildID(img, r.Header(), opts); err != nil {
		return Result{}, err
	}

	fmtr, err := format.New(opts.Format)
	if err != nil {
		return Result{}, fmt.Errorf("replay: %w", err)
	}
	outfile := opts.Outfile
	if outfile == "" {
		outfile = format.DefaultOutfile(opts.Format)
	}
	if err := fmtr.Init(outfile); err != nil {
		return Result{}, err
	}

	count, err := replayEntries(r, table, fmtr)
	if endErr := fmtr.End(); err == nil {
		err = endErr
	}
	if err != nil {
		return Result{}, err
	}

	return Result{MessageCount: count, Outfile: outfile}, nil
}

// logDiscoveredRecords prints one block per non-sentinel discovered record,
// the Go analogue of log_printer.c:build_header_list's per-header loop.
func logDiscoveredRecords(l *log.Logger, entries []image.Entry, programPath string) {
	l.Printf("discovered %d emit-site records in %s", len(entries), programPath)
	for _, e := range entries {
		r := e.Record
		if r.Category == logsite.SentinelCategory {
			continue
		}
		l.Printf("logging header with id %d", r.ID)
		l.Printf("--> fmt_str: %s", r.FmtStr.String())
		l.Printf("--> arg_count: %d", r.ArgCount)
		for i := 0; i < int(r.ArgCount); i++ {
			l.Printf(" \\--> arg[%d]: %s", i, r.Types[i])
		}
		l.Printf("--> filename: %s", r.Filename.String())
		l.Printf("--> function: %s", r.Function.String())
		l.Printf("--> line: %d", r.Line)
		l.Printf("--> level: %s", r.Level)
		l.Printf("--> category: %c", r.Category)
	}
}

func checkBuildID(img *image.Image, hdr trace.Header, opts Options) error {
	if !img.HasBuildID {
		return nil
	}
	var zero [20]byte
	if hdr.BuildID == zero || bytes.Equal(hdr.BuildID[:], img.BuildID[:]) {
		return nil
	}
	msg := fmt.Sprintf("replay: build id mismatch: %s was built as %x, but %s was produced by a run with build id %x",
		opts.ProgramPath, img.BuildID, opts.LogPath, hdr.BuildID)
	if opts.Strict {
		return fmt.Errorf("%w: %s", ErrBuildIDMismatch, msg)
	}
	fmt.Fprintln(os.Stderr, "Warning:", msg)
	return nil
}

// replayEntries is the forward-only loop over the trace's record entries:
// look the id up, read one value per declared argument type in order,
// dispatch to the formatter, and keep going until a clean end-of-stream.
func replayEntries(r *trace.Reader, table *image.Table, fmtr format.Formatter) (uint64, error) {
	var count uint64
	for {
		id, ts, ok, err := r.ReadEntry()
		if err != nil {
			return count, fmt.Errorf("replay: %w", err)
		}
		if !ok {
			return count, nil
		}

		rec, ok := table.Lookup(id)
		if !ok {
			return count, fmt.Errorf("%w (id=%d)", ErrUnresolvedID, id)
		}

		values := make([]logsite.Value, rec.ArgCount)
		for i := 0; i < int(rec.ArgCount); i++ {
			v, err := r.ReadValue(rec.Types[i])
			if err != nil {
				return count, fmt.Errorf("replay: entry id=%d arg %d: %w", id, i, err)
			}
			values[i] = v
		}

		if err := fmtr.Handle(rec, id, ts, values, count); err != nil {
			return count, fmt.Errorf("replay: entry id=%d: %w", id, err)
		}
		count++
	}
}
