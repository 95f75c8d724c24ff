package image

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildNote encodes one Elf64_Nhdr-style entry: namesz/descsz/type header,
// then the NUL-terminated name and the descriptor, each padded to 4 bytes.
func buildNote(name string, typ uint32, desc []byte) []byte {
	nameBytes := append([]byte(name), 0)
	var buf bytes.Buffer
	var hdr [12]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(nameBytes)))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(desc)))
	binary.LittleEndian.PutUint32(hdr[8:12], typ)
	buf.Write(hdr[:])
	buf.Write(nameBytes)
	for buf.Len()%4 != 0 {
		buf.WriteByte(0)
	}
	buf.Write(desc)
	for buf.Len()%4 != 0 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func TestParseNotesSingle(t *testing.T) {
	desc := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}
	data := buildNote("GNU", 3, desc)

	notes, err := parseNotes(data, 4, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 {
		t.Fatalf("got %d notes, want 1", len(notes))
	}
	if notes[0].name != "GNU" {
		t.Errorf("name = %q, want GNU", notes[0].name)
	}
	if notes[0].noteType != 3 {
		t.Errorf("type = %d, want 3", notes[0].noteType)
	}
	if !bytes.Equal(notes[0].desc, desc) {
		t.Errorf("desc = %v, want %v", notes[0].desc, desc)
	}
}

func TestParseNotesMultiple(t *testing.T) {
	var data []byte
	data = append(data, buildNote("GNU", 3, []byte{0xAA})...)
	data = append(data, buildNote("Go", 4, []byte{0xBB, 0xCC, 0xDD})...)

	notes, err := parseNotes(data, 4, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(notes))
	}
	if notes[0].name != "GNU" || notes[1].name != "Go" {
		t.Errorf("names = %q, %q", notes[0].name, notes[1].name)
	}
}

func TestParseNotesTruncatedHeaderErrors(t *testing.T) {
	if _, err := parseNotes([]byte{1, 2, 3}, 4, 0); err == nil {
		t.Fatal("expected an error for a truncated note header")
	}
}

func TestParseNotesFindsGNUBuildID(t *testing.T) {
	id := bytes.Repeat([]byte{0x42}, buildIDSize)
	data := buildNote("GNU", 3 /* NT_GNU_BUILD_ID */, id)

	notes, err := parseNotes(data, 4, 0)
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, n := range notes {
		if n.name == "GNU" && n.noteType == 3 {
			found = true
			if !bytes.Equal(n.desc, id) {
				t.Errorf("desc = %v, want %v", n.desc, id)
			}
		}
	}
	if !found {
		t.Fatal("expected to find the GNU build-id note")
	}
}
