package image

import (
	"encoding/binary"
	"fmt"
)

// note is one parsed ELF note: Elf64_Nhdr plus its name and descriptor
// bytes, read field-by-field the way log_printer.c's parse_elf_section does
// rather than via an unsafe struct overlay.
type note struct {
	noteType uint32
	name     string
	desc     []byte
}

// parseNotes walks a SHT_NOTE section's raw bytes. ELF notes pad both the
// name and descriptor to 4-byte alignment regardless of the note's declared
// namesz/descsz.
func parseNotes(data []byte, align int, entsize uint64) ([]note, error) {
	const hdrSize = 12 // namesz, descsz, type: three uint32s
	var out []note

	for len(data) > 0 {
		if len(data) < hdrSize {
			return out, fmt.Errorf("truncated note header")
		}
		nameSz := binary.LittleEndian.Uint32(data[0:4])
		descSz := binary.LittleEndian.Uint32(data[4:8])
		noteType := binary.LittleEndian.Uint32(data[8:12])
		data = data[hdrSize:]

		namePad := align4(int(nameSz))
		if len(data) < namePad {
			return out, fmt.Errorf("truncated note name")
		}
		name := ""
		if nameSz > 0 {
			name = string(data[:nameSz-1]) // nameSz includes the NUL terminator
		}
		data = data[namePad:]

		descPad := align4(int(descSz))
		if len(data) < descPad {
			return out, fmt.Errorf("truncated note descriptor")
		}
		desc := data[:descSz]
		data = data[descPad:]

		out = append(out, note{noteType: noteType, name: name, desc: desc})
	}
	return out, nil
}

func align4(n int) int {
	return (n + 3) &^ 3
}
