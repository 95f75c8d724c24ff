package image

import "github.com/csllog/csl/logsite"

// Table is the id→Record index the printer builds once per image and
// consults once per trace entry.
type Table struct {
	byID map[int32]*logsite.Record
}

// NewTable loads img and discovers its emit-site records in one step.
func NewTable(path string) (*Table, *Image, error) {
	img, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	entries, err := Discover(img)
	if err != nil {
		return nil, nil, err
	}
	return BuildTable(entries), img, nil
}

// BuildTable indexes already-discovered entries by the id assignIDs gave
// them. A linear scan over a handful of entries would work just as well;
// a map keeps printer startup flat no matter how many emit sites the
// program declares.
func BuildTable(entries []Entry) *Table {
	t := &Table{byID: make(map[int32]*logsite.Record, len(entries))}
	for _, e := range entries {
		t.byID[e.Record.ID] = e.Record
	}
	return t
}

// Lookup returns the Record for id, or ok=false if no emit site in the image
// produced it — the signal the replay loop treats as ErrUnresolvedID.
func (t *Table) Lookup(id int32) (*logsite.Record, bool) {
	r, ok := t.byID[id]
	return r, ok
}

// Len reports how many emit-site records the table holds.
func (t *Table) Len() int {
	return len(t.byID)
}
