// Package image loads the emitting program's own compiled binary back into
// memory and reconstructs its emit-site metadata table offline: section
// location, marker scan and id assignment, and id→Record lookup. It is
// the printer's half of the process boundary the emitter crosses by
// writing a trace file.
//
// Only ELF-style 64-bit images are supported — a port to another object
// format is a larger redesign, not a parameter — via the standard
// library's debug/elf; no third-party ELF parser was available to reach
// for instead.
package image

import (
	"bytes"
	"debug/elf"
	"fmt"
	"os"
)

const buildIDSize = 20

// Image is the emitting program's binary read flatly into memory, plus the
// two regions the rest of this package cares about.
type Image struct {
	// Buf is the entire file content. String-view pointers recovered during
	// discovery are image-wide offsets into Buf, so the full buffer — not
	// just the data section — has to stay addressable.
	Buf []byte

	// DataOffset and DataSize delimit the section scanned for metadata
	// records.
	DataOffset int64
	DataSize   int64

	// BuildID is the 20-byte GNU build-id note, or the zero value if the
	// image carries none. A missing build id is not fatal; Load proceeds
	// with a warning to stderr.
	BuildID    [buildIDSize]byte
	HasBuildID bool
}

// Load reads path and locates its .data section and .note.gnu.build-id note.
func Load(path string) (*Image, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("image: reading %s: %w", path, err)
	}

	f, err := elf.NewFile(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("image: parsing %s as ELF: %w", path, err)
	}
	defer f.Close()

	img := &Image{Buf: buf}

	data := f.Section(".data")
	if data == nil {
		return nil, fmt.Errorf("image: %s has no .data section", path)
	}
	img.DataOffset = int64(data.Offset)
	img.DataSize = int64(data.Size)

	if note := f.Section(".note.gnu.build-id"); note != nil {
		id, err := parseBuildIDNote(note)
		if err != nil {
			fmt.Fprintf(os.Stderr, "image: warning: malformed build-id note in %s: %v\n", path, err)
		} else {
			img.BuildID = id
			img.HasBuildID = true
		}
	} else {
		fmt.Fprintf(os.Stderr, "image: warning: no build id found in %s, can't verify it produced the log file\n", path)
	}

	return img, nil
}

// Data returns the byte range scanned for metadata records.
func (img *Image) Data() []byte {
	return img.Buf[img.DataOffset : img.DataOffset+img.DataSize]
}

// parseBuildIDNote extracts the build-id bytes from a GNU build-id ELF
// note: name "GNU", type NT_GNU_BUILD_ID, followed by the id bytes.
func parseBuildIDNote(sec *elf.Section) ([buildIDSize]byte, error) {
	// NT_GNU_BUILD_ID; debug/elf does not export this note type.
	const ntGNUBuildID = 3
	var out [buildIDSize]byte

	data, err := sec.Data()
	if err != nil {
		return out, fmt.Errorf("reading note section: %w", err)
	}

	notes, err := parseNotes(data, 4, sec.Entsize)
	if err != nil {
		return out, err
	}
	for _, n := range notes {
		if n.name == "GNU" && n.noteType == ntGNUBuildID {
			if len(n.desc) < buildIDSize {
				return out, fmt.Errorf("build-id note too short (%d bytes)", len(n.desc))
			}
			copy(out[:], n.desc[:buildIDSize])
			return out, nil
		}
	}
	return out, fmt.Errorf("no GNU build-id note found")
}
