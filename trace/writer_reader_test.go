package trace

import (
	"path/filepath"
	"testing"

	"github.com/csllog/csl/logsite"
)

func TestHeaderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.bin")

	var buildID [20]byte
	for i := range buildID {
		buildID[i] = byte(i)
	}

	w, err := Create(path, buildID)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.Header().BuildID != buildID {
		t.Errorf("BuildID = %v, want %v", r.Header().BuildID, buildID)
	}

	_, _, ok, err := r.ReadEntry()
	if ok || err != nil {
		t.Fatalf("expected clean EOF on empty trace, got ok=%v err=%v", ok, err)
	}
}

func TestRecordEntryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.bin")

	w, err := Create(path, [20]byte{})
	if err != nil {
		t.Fatal(err)
	}

	types := []logsite.Type{logsite.I32, logsite.CString, logsite.F32}
	values := []logsite.Value{logsite.I32Value(1), logsite.CStringValue(""), logsite.F32Value(1.0)}

	if err := w.WriteRecord(42, 1700000000, types, values); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	id, ts, ok, err := r.ReadEntry()
	if err != nil || !ok {
		t.Fatalf("ReadEntry: ok=%v err=%v", ok, err)
	}
	if id != 42 {
		t.Errorf("id = %d, want 42", id)
	}
	if ts != 1700000000 {
		t.Errorf("timestamp = %d, want 1700000000", ts)
	}

	for i, typ := range types {
		v, err := r.ReadValue(typ)
		if err != nil {
			t.Fatalf("ReadValue(%d): %v", i, err)
		}
		if v.Type() != values[i].Type() {
			t.Errorf("arg %d type = %v, want %v", i, v.Type(), values[i].Type())
		}
	}

	_, _, ok, err = r.ReadEntry()
	if ok || err != nil {
		t.Fatalf("expected clean EOF after one entry, got ok=%v err=%v", ok, err)
	}
}

func TestMultipleEntriesShareID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.bin")

	w, err := Create(path, [20]byte{})
	if err != nil {
		t.Fatal(err)
	}
	types := []logsite.Type{logsite.I32}
	for i := int32(0); i < 10; i++ {
		values := []logsite.Value{logsite.I32Value(i)}
		if err := w.WriteRecord(7, uint32(1000+i), types, values); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	var lastTS uint32
	count := 0
	for {
		id, ts, ok, err := r.ReadEntry()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		if id != 7 {
			t.Errorf("entry %d: id = %d, want 7", count, id)
		}
		if ts < lastTS {
			t.Errorf("entry %d: timestamp %d < previous %d", count, ts, lastTS)
		}
		lastTS = ts
		if _, err := r.ReadValue(logsite.I32); err != nil {
			t.Fatal(err)
		}
		count++
	}
	if count != 10 {
		t.Errorf("read %d entries, want 10", count)
	}
}
