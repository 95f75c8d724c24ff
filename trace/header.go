package trace

import (
	"errors"
	"fmt"
	"io"
)

const (
	// Magic is the little-endian file magic "LLSC".
	Magic uint32 = 0x43534c4c
	// Version is the only supported schema version. Extending the type set
	// bumps this and breaks old readers on purpose.
	Version uint32 = 1

	buildIDSize   = 20
	buildIDPad    = 12 // pads the 20-byte build id out to a 32-byte block
	reservedCount = 24

	// HeaderSize is the total on-disk size of the fixed file header, after
	// which record entries begin.
	HeaderSize = 4 + 4 + buildIDSize + buildIDPad + reservedCount
)

// ErrBadMagic and ErrBadVersion are fatal trace-framing errors.
var (
	ErrBadMagic   = errors.New("trace: bad file magic")
	ErrBadVersion = errors.New("trace: unsupported file version")
)

// Header is the fixed preamble of a trace file: magic, version, and the
// build-id of the image that produced it.
type Header struct {
	BuildID [buildIDSize]byte
}

// WriteHeader writes the fixed file header: magic, version, build id
// (zero-padded to 32 bytes), and the reserved block.
func WriteHeader(w io.Writer, h Header) error {
	if err := writeU32(w, Magic); err != nil {
		return err
	}
	if err := writeU32(w, Version); err != nil {
		return err
	}
	if _, err := w.Write(h.BuildID[:]); err != nil {
		return err
	}
	var pad [buildIDPad + reservedCount]byte
	_, err := w.Write(pad[:])
	return err
}

// ReadHeader reads and validates the fixed file header. A magic or version
// mismatch is fatal; it does not compare BuildID against anything, that's
// the replay package's job.
func ReadHeader(r io.Reader) (Header, error) {
	magic, _, err := readU32(r)
	if err != nil {
		return Header{}, fmt.Errorf("trace: reading magic: %w", err)
	}
	if magic != Magic {
		return Header{}, ErrBadMagic
	}
	version, _, err := readU32(r)
	if err != nil {
		return Header{}, fmt.Errorf("trace: reading version: %w", err)
	}
	if version != Version {
		return Header{}, ErrBadVersion
	}
	var h Header
	if _, err := io.ReadFull(r, h.BuildID[:]); err != nil {
		return Header{}, fmt.Errorf("trace: reading build id: %w", err)
	}
	var pad [buildIDPad]byte
	if _, err := io.ReadFull(r, pad[:]); err != nil {
		return Header{}, fmt.Errorf("trace: reading build id padding: %w", err)
	}
	var reserved [reservedCount]byte
	if _, err := io.ReadFull(r, reserved[:]); err != nil {
		return Header{}, fmt.Errorf("trace: reading reserved block: %w", err)
	}
	return h, nil
}
