package logsite

import "testing"

func TestDeclare(t *testing.T) {
	r := Declare(Info, "{}/{}/{}", "example.go", "main", 12, I32, CString, F32)

	if r.Marker != Marker {
		t.Fatalf("marker = %v, want %v", r.Marker, Marker)
	}
	if got, want := r.FmtStr.String(), "{}/{}/{}"; got != want {
		t.Errorf("FmtStr = %q, want %q", got, want)
	}
	if r.ArgCount != 3 {
		t.Errorf("ArgCount = %d, want 3", r.ArgCount)
	}
	if r.Types[0] != I32 || r.Types[1] != CString || r.Types[2] != F32 {
		t.Errorf("Types = %v, want [I32 CString F32]", r.Types[:3])
	}
	if got, want := r.Filename.String(), "example.go"; got != want {
		t.Errorf("Filename = %q, want %q", got, want)
	}
	if got, want := r.Function.String(), "main"; got != want {
		t.Errorf("Function = %q, want %q", got, want)
	}
	if r.Line != 12 {
		t.Errorf("Line = %d, want 12", r.Line)
	}
	if r.ID != 0 {
		t.Errorf("ID = %d, want 0 (unassigned until emit time)", r.ID)
	}
}

func TestDeclareTooManyArgs(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for > MaxArgs types")
		}
	}()
	types := make([]Type, MaxArgs+1)
	Declare(Info, "x", "f.go", "g", 1, types...)
}

func TestSentinelHasMarkerAndCategory(t *testing.T) {
	if Sentinel.Category != SentinelCategory {
		t.Fatalf("Sentinel.Category = %q, want %q", Sentinel.Category, SentinelCategory)
	}
	if Sentinel.Marker != Marker {
		t.Fatalf("Sentinel.Marker = %v, want %v", Sentinel.Marker, Marker)
	}
}

func TestValueRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		typ  Type
	}{
		{"u8", U8Value(200), U8},
		{"u32", U32Value(4_000_000_000), U32},
		{"i32", I32Value(-17), I32},
		{"f32", F32Value(3.5), F32},
		{"cstring", CStringValue("hi"), CString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Type() != tt.typ {
				t.Fatalf("Type() = %v, want %v", tt.v.Type(), tt.typ)
			}
		})
	}

	if got := U8Value(200).AsU8(); got != 200 {
		t.Errorf("AsU8() = %d, want 200", got)
	}
	if got := U32Value(4_000_000_000).AsU32(); got != 4_000_000_000 {
		t.Errorf("AsU32() = %d, want 4000000000", got)
	}
	if got := I32Value(-17).AsI32(); got != -17 {
		t.Errorf("AsI32() = %d, want -17", got)
	}
	if got := F32Value(3.5).AsF32(); got != 3.5 {
		t.Errorf("AsF32() = %v, want 3.5", got)
	}
	if got := CStringValue("hi").AsString(); got != "hi" {
		t.Errorf("AsString() = %q, want %q", got, "hi")
	}
}

func TestLevelOrdering(t *testing.T) {
	levels := []Level{Trace, Debug, Info, Warning, Error, Critical, Fatal}
	for i := 1; i < len(levels); i++ {
		if !(levels[i-1] < levels[i]) {
			t.Fatalf("%v should be < %v", levels[i-1], levels[i])
		}
	}
	if Info.Short() != 'I' {
		t.Errorf("Info.Short() = %q, want 'I'", Info.Short())
	}
	if Info.String() != "INFO" {
		t.Errorf("Info.String() = %q, want INFO", Info.String())
	}
}
