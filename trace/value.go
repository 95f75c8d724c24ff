package trace

import (
	"fmt"
	"io"
	"math"

	"github.com/csllog/csl/logsite"
)

func floatBits(v float32) uint32     { return math.Float32bits(v) }
func floatFromBits(u uint32) float32 { return math.Float32frombits(u) }

// writeValue writes v as dictated by typ. Writing a Value whose tag
// disagrees with typ is a caller bug; csl writes whatever typ says to
// write, reading the value through typ's accessor regardless of its tag.
func writeValue(w io.Writer, typ logsite.Type, v logsite.Value) error {
	switch typ {
	case logsite.U8:
		return writeU8(w, v.AsU8())
	case logsite.U32:
		return writeU32(w, v.AsU32())
	case logsite.I32:
		return writeI32(w, v.AsI32())
	case logsite.F32:
		return writeF32(w, v.AsF32())
	case logsite.CString:
		return writeCString(w, v.AsString())
	default:
		return fmt.Errorf("trace: unknown argument type tag %d", typ)
	}
}

// readValue reads one value of the given type from r.
func readValue(r io.Reader, typ logsite.Type) (logsite.Value, int, error) {
	switch typ {
	case logsite.U8:
		x, n, err := readU8(r)
		return logsite.U8Value(x), n, err
	case logsite.U32:
		x, n, err := readU32(r)
		return logsite.U32Value(x), n, err
	case logsite.I32:
		x, n, err := readI32(r)
		return logsite.I32Value(x), n, err
	case logsite.F32:
		x, n, err := readF32(r)
		return logsite.F32Value(x), n, err
	case logsite.CString:
		x, n, err := readCString(r)
		return logsite.CStringValue(x), n, err
	default:
		return logsite.Value{}, 0, fmt.Errorf("trace: unknown argument type tag %d", typ)
	}
}
