package image

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/csllog/csl/logsite"
)

// Field offsets and sizes are read off the canonical logsite.Record type at
// package-init time rather than hardcoded, so decoding always matches
// whatever layout this build of the Go compiler actually chose — the same
// layout the emitting binary (built from the same logsite package) used to
// write the bytes we're about to scan.
var (
	offFmtStr   = unsafe.Offsetof(zeroRecord.FmtStr)
	offArgCount = unsafe.Offsetof(zeroRecord.ArgCount)
	offTypes    = unsafe.Offsetof(zeroRecord.Types)
	offFilename = unsafe.Offsetof(zeroRecord.Filename)
	offFunction = unsafe.Offsetof(zeroRecord.Function)
	offLine     = unsafe.Offsetof(zeroRecord.Line)
	offID       = unsafe.Offsetof(zeroRecord.ID)
	offLevel    = unsafe.Offsetof(zeroRecord.Level)
	offCategory = unsafe.Offsetof(zeroRecord.Category)
	recordSize  = int(unsafe.Sizeof(zeroRecord))

	offSVByteCount = unsafe.Offsetof(zeroStringView.ByteCount)
	offSVData      = unsafe.Offsetof(zeroStringView.Data)
)

var (
	zeroRecord     logsite.Record
	zeroStringView logsite.StringView
)

// Entry is one Record recovered from an image, tagged with the byte position
// (relative to the start of the scanned data section) it was found at. That
// position is what id arithmetic is computed from: since both the sentinel
// and every other record live in the same section, the section's own base
// address cancels out of the pointer difference, leaving just a difference
// of in-section positions.
type Entry struct {
	Pos    int
	Record *logsite.Record
}

// Discover scans img's data section for every byte sequence that opens with
// the Record marker, decodes each one field-by-field (never by casting the
// raw bytes directly to a logsite.Record — the real layout has unsafe.Pointer
// fields, and letting the garbage collector see a struct built that way over
// uninitialized-looking bits is exactly the failure mode that field-by-field
// decoding avoids), and returns every candidate plus the id assigned to it.
//
// Candidates whose own Marker bytes don't validate, or whose declared field
// values don't fit inside the image, are silently skipped: a marker-shaped
// byte sequence can occur by coincidence in unrelated static data, the same
// way log_printer.c tolerates scan noise.
func Discover(img *Image) ([]Entry, error) {
	data := img.Data()
	marker := logsite.Marker[:]

	var entries []Entry
	pos := 0
	for {
		idx := bytes.Index(data[pos:], marker)
		if idx < 0 {
			break
		}
		candidate := pos + idx
		rec, ok := decodeRecordAt(img, data, candidate)
		if ok {
			entries = append(entries, Entry{Pos: candidate, Record: rec})
		}
		pos = candidate + 1 // overlapping markers are possible in principle; don't skip MarkerLen
	}

	if err := assignIDs(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// decodeRecordAt attempts to decode one Record starting at byte offset pos
// within data. It returns ok=false (not an error) for anything that doesn't
// look like a well-formed Record, since marker collisions are expected noise.
func decodeRecordAt(img *Image, data []byte, pos int) (*logsite.Record, bool) {
	if pos+recordSize > len(data) {
		return nil, false
	}

	argCount := data[pos+int(offArgCount)]
	if argCount > logsite.MaxArgs {
		return nil, false
	}

	rec := &logsite.Record{}
	copy(rec.Marker[:], data[pos:pos+logsite.MarkerLen])
	rec.ArgCount = argCount

	for i := 0; i < int(argCount); i++ {
		t := logsite.Type(data[pos+int(offTypes)+i])
		rec.Types[i] = t
	}

	var err error
	rec.FmtStr, err = decodeStringView(img, data, pos+int(offFmtStr))
	if err != nil {
		return nil, false
	}
	rec.Filename, err = decodeStringView(img, data, pos+int(offFilename))
	if err != nil {
		return nil, false
	}
	rec.Function, err = decodeStringView(img, data, pos+int(offFunction))
	if err != nil {
		return nil, false
	}

	rec.Line = int32(binary.LittleEndian.Uint32(data[pos+int(offLine):]))
	rec.ID = int32(binary.LittleEndian.Uint32(data[pos+int(offID):]))
	rec.Level = logsite.Level(data[pos+int(offLevel)])
	rec.Category = data[pos+int(offCategory)]

	return rec, true
}

// decodeStringView reads a StringView's raw fields at data[pos:] and
// re-anchors its Data pointer into img.Buf.
//
// This is the fragile half of the design: Data was compiled in as a live,
// real address at emit time. The printer doesn't know
// the emitting process's load bias, so it does the one thing that can work
// without it — treats the raw stored bit pattern as if it were already a
// flat offset into the image file — and that is only true for a
// non-position-independent binary whose virtual addresses happen to equal
// the corresponding file offsets of the section they live in. Nothing here
// attempts to correct for a PIE binary or a mismatched section mapping; an
// out-of-range result becomes a decode error rather than a wild read.
func decodeStringView(img *Image, data []byte, pos int) (logsite.StringView, error) {
	byteCount := binary.LittleEndian.Uint64(data[pos+int(offSVByteCount):])
	if byteCount == 0 {
		return logsite.StringView{}, nil
	}
	rawPtr := binary.LittleEndian.Uint64(data[pos+int(offSVData):])

	start := int(rawPtr)
	end := start + int(byteCount)
	if start < 0 || end < start || end > len(img.Buf) {
		return logsite.StringView{}, fmt.Errorf("image: string view at data+%#x points outside the image (offset %#x, len %d)", pos, rawPtr, byteCount)
	}

	return logsite.StringView{
		ByteCount: byteCount,
		Data:      unsafe.Pointer(&img.Buf[start]),
	}, nil
}

// assignIDs finds the single sentinel entry and sets every entry's Record.ID
// to its position relative to the sentinel's.
func assignIDs(entries []Entry) error {
	sentinelAt := -1
	for i, e := range entries {
		if e.Record.Category == logsite.SentinelCategory {
			if sentinelAt >= 0 {
				return fmt.Errorf("image: more than one sentinel record found in the data section")
			}
			sentinelAt = i
		}
	}
	if sentinelAt < 0 {
		return fmt.Errorf("image: no sentinel record found in the data section")
	}

	sentinelPos := entries[sentinelAt].Pos
	for i := range entries {
		entries[i].Record.ID = int32(entries[i].Pos - sentinelPos)
	}
	return nil
}
