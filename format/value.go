package format

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/csllog/csl/logsite"
)

// textValue renders v the way the string, XML, and HTML formatters all
// render a scalar argument: unsigned and signed integers in decimal, F32
// with six fractional digits (matching the original's "%f"), and CSTRING
// verbatim.
func textValue(v logsite.Value) string {
	switch v.Type() {
	case logsite.U8:
		return strconv.FormatUint(uint64(v.AsU8()), 10)
	case logsite.U32:
		return strconv.FormatUint(uint64(v.AsU32()), 10)
	case logsite.I32:
		return strconv.FormatInt(int64(v.AsI32()), 10)
	case logsite.F32:
		return fmt.Sprintf("%.6f", v.AsF32())
	case logsite.CString:
		return v.AsString()
	default:
		return ""
	}
}

// jsonValue renders v as a JSON literal: a bare number for every numeric
// type (F32 formatted to six fractional digits so "1.0" reads as
// "1.000000", matching the sample output), a properly escaped string for
// CSTRING.
func jsonValue(v logsite.Value) json.RawMessage {
	switch v.Type() {
	case logsite.U8:
		return json.RawMessage(strconv.FormatUint(uint64(v.AsU8()), 10))
	case logsite.U32:
		return json.RawMessage(strconv.FormatUint(uint64(v.AsU32()), 10))
	case logsite.I32:
		return json.RawMessage(strconv.FormatInt(int64(v.AsI32()), 10))
	case logsite.F32:
		return json.RawMessage(fmt.Sprintf("%.6f", v.AsF32()))
	case logsite.CString:
		b, _ := json.Marshal(v.AsString())
		return json.RawMessage(b)
	default:
		return json.RawMessage("null")
	}
}

// xmlTag names the per-argument wrapper element for the XML formatter: one
// of <u8>, <u32>, <i32>, <f32>, or <string> per declared argument type.
func xmlTag(t logsite.Type) string {
	switch t {
	case logsite.U8:
		return "u8"
	case logsite.U32:
		return "u32"
	case logsite.I32:
		return "i32"
	case logsite.F32:
		return "f32"
	case logsite.CString:
		return "string"
	default:
		return "unknown"
	}
}
