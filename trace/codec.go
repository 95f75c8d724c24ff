// Package trace implements the binary wire format shared by the emitter and
// the printer: the file header and the forward-only stream of record
// entries. It knows nothing about emit-site metadata; that's the logsite
// package's job, and the image package's for discovery.
package trace

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrShortRead is returned by the read primitives when some, but fewer than
// requested, bytes were available. A read that finds no bytes at all returns
// the underlying EOF instead.
var ErrShortRead = errors.New("trace: short read")

// order is the wire byte order: little-endian throughout.
var order = binary.LittleEndian

// writeU8, writeU32, writeI32 and writeF32 write one fixed-width value with
// no padding.
func writeU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	order.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeI32(w io.Writer, v int32) error {
	return writeU32(w, uint32(v))
}

func writeF32(w io.Writer, v float32) error {
	return writeU32(w, floatBits(v))
}

// writeCString writes a u32 length (including the trailing NUL) followed by
// that many bytes, the last of which is the NUL.
func writeCString(w io.Writer, s string) error {
	if err := writeU32(w, uint32(len(s)+1)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, s); err != nil {
		return err
	}
	return writeU8(w, 0)
}

// readU8, readU32, readI32 and readF32 read one fixed-width value. n reports
// how many bytes were consumed; n == 0 on the leading read of a record entry
// is the unambiguous end-of-stream signal the replay loop relies on.
func readU8(r io.Reader) (v uint8, n int, err error) {
	var buf [1]byte
	n, err = io.ReadFull(r, buf[:])
	if n == 0 {
		return 0, 0, err
	}
	if err != nil {
		return 0, n, ErrShortRead
	}
	return buf[0], n, nil
}

func readU32(r io.Reader) (v uint32, n int, err error) {
	var buf [4]byte
	n, err = io.ReadFull(r, buf[:])
	if n == 0 {
		return 0, 0, err
	}
	if err != nil {
		return 0, n, ErrShortRead
	}
	return order.Uint32(buf[:]), n, nil
}

func readI32(r io.Reader) (v int32, n int, err error) {
	u, n, err := readU32(r)
	return int32(u), n, err
}

func readF32(r io.Reader) (v float32, n int, err error) {
	u, n, err := readU32(r)
	return floatFromBits(u), n, err
}

// readCString reads a u32 length (including the trailing NUL) followed by
// length bytes. If EOF happens before the length prefix is even read, it
// returns an empty result with n == 0 (ordinary end-of-stream); a partial
// read of the body itself is a short read.
func readCString(r io.Reader) (s string, n int, err error) {
	length, ln, err := readU32(r)
	n += ln
	if ln == 0 {
		return "", n, err
	}
	if err != nil {
		return "", n, err
	}
	if length == 0 {
		return "", n, nil
	}
	buf := make([]byte, length)
	bn, err := io.ReadFull(r, buf)
	n += bn
	if err != nil {
		return "", n, ErrShortRead
	}
	// Trim the trailing NUL the length prefix counted.
	if buf[len(buf)-1] == 0 {
		buf = buf[:len(buf)-1]
	}
	return string(buf), n, nil
}
