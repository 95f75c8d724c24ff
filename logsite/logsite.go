// Package logsite describes the static, process-lifetime-constant metadata
// that pairs with every emit site: its format template, argument types,
// source location, and severity. One Record exists per LOG call in the
// emitting program; the emitter never allocates or mutates it on the hot
// path, and the printer rediscovers it offline by scanning the emitting
// binary's image (see the image package).
package logsite

import (
	"math"
	"unsafe"
)

// MaxArgs is the maximum number of arguments a single emit site may declare.
const MaxArgs = 10

// MarkerLen is the size of the fixed magic sequence that opens every Record.
const MarkerLen = 8

// Marker is the byte sequence a Record begins with, used by the image
// package to locate Records inside a data section by linear scan.
var Marker = [MarkerLen]byte{'[', 'C', '#', 'S', '%', 'L', '*', ']'}

// SentinelCategory marks the one process-wide Record that anchors id
// arithmetic (see Declare and the image package's sentinel discovery).
const SentinelCategory = '~'

// Type tags the dynamic type of one logged argument.
type Type uint8

const (
	U8 Type = iota
	U32
	I32
	F32
	CString
	typeCount
)

func (t Type) String() string {
	switch t {
	case U8:
		return "u8"
	case U32:
		return "u32"
	case I32:
		return "i32"
	case F32:
		return "f32"
	case CString:
		return "cstring"
	default:
		return "invalid"
	}
}

// Level is a total order over severities: Trace < Debug < Info < Warning <
// Error < Critical < Fatal.
type Level uint8

const (
	Trace Level = iota
	Debug
	Info
	Warning
	Error
	Critical
	Fatal
	levelCount
)

var levelNames = [levelCount]string{
	Trace: "TRACE", Debug: "DEBUG", Info: "INFO", Warning: "WARNING",
	Error: "ERROR", Critical: "CRITICAL", Fatal: "FATAL",
}

var levelShort = [levelCount]byte{
	Trace: 'T', Debug: 'D', Info: 'I', Warning: 'W',
	Error: 'E', Critical: 'C', Fatal: 'F',
}

func (l Level) String() string {
	if l < levelCount {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// Short returns the single character used in the text formatter's prefix.
func (l Level) Short() byte {
	if l < levelCount {
		return levelShort[l]
	}
	return '?'
}

// StringView is a length-prefixed view of a string living somewhere in the
// emitting image: a byte count plus a pointer to the first byte. On a live
// emit site, Data points into ordinary Go-owned string storage. After image
// discovery re-anchors it (see the image package), Data points into the
// printer's in-memory copy of the image file.
type StringView struct {
	ByteCount uint64
	Data      unsafe.Pointer
}

// String copies the view's bytes out as a Go string. Safe to call any number
// of times; it never retains Data.
func (v StringView) String() string {
	if v.ByteCount == 0 || v.Data == nil {
		return ""
	}
	return string(unsafe.Slice((*byte)(v.Data), v.ByteCount))
}

func sv(s string) StringView {
	if len(s) == 0 {
		return StringView{}
	}
	return StringView{ByteCount: uint64(len(s)), Data: unsafe.Pointer(unsafe.StringData(s))}
}

// Record is the static description of one emit site: its format string,
// argument types, source location, and severity. A Record is built once, at
// package-init time, by Declare,
// and lives for the entire process lifetime. ID starts at zero ("unassigned")
// and is never written back by Emit; every emission recomputes it from the
// Record's address relative to Sentinel.
type Record struct {
	Marker   [MarkerLen]byte
	FmtStr   StringView
	ArgCount uint8
	Types    [MaxArgs]Type
	Filename StringView
	Function StringView
	Line     int32
	ID       int32
	Level    Level
	Category byte
}

// Sentinel is the process-wide anchor record against which every other
// Record's logging id is computed as a signed pointer difference. Exactly
// one Sentinel exists per image; it is never logged through directly.
var Sentinel = Record{
	Marker:   Marker,
	Category: SentinelCategory,
}

// Declare builds a Record for one emit site. Callers construct exactly one
// Record per call site, in a package-level var, so the compiler places it in
// static storage where the image package's marker scan can find it:
//
//	var greeting = logsite.Declare(logsite.Info, "{}/{}/{}", "main.go", "main", 12,
//	        logsite.I32, logsite.CString, logsite.F32)
//
// Declare is the low-level building block the emit-site macro/generator in a
// full language binding would call; csl's core does not generate call
// sites, it only defines what one looks like.
func Declare(level Level, fmtStr, filename, function string, line int, types ...Type) *Record {
	if len(types) > MaxArgs {
		panic("logsite: too many arguments declared")
	}
	r := &Record{
		Marker:   Marker,
		FmtStr:   sv(fmtStr),
		ArgCount: uint8(len(types)),
		Filename: sv(filename),
		Function: sv(function),
		Line:     int32(line),
		Level:    level,
	}
	copy(r.Types[:], types)
	return r
}

// Value is a tagged union over the five wire types an emit-site argument may
// carry.
type Value struct {
	typ Type
	u64 uint64 // holds U8, U32, I32 (sign-extended via int32), and F32's bits
	str string // holds CString
}

// Type reports which field of Value is meaningful.
func (v Value) Type() Type { return v.typ }

func U8Value(v uint8) Value   { return Value{typ: U8, u64: uint64(v)} }
func U32Value(v uint32) Value { return Value{typ: U32, u64: uint64(v)} }
func I32Value(v int32) Value  { return Value{typ: I32, u64: uint64(uint32(v))} }
func F32Value(v float32) Value {
	return Value{typ: F32, u64: uint64(math.Float32bits(v))}
}
func CStringValue(v string) Value { return Value{typ: CString, str: v} }

// AsU8, AsU32, AsI32, AsF32 and AsString extract the value assuming the
// caller already knows (from the matching Record.Types entry) that this is
// the right accessor. Calling the wrong numeric accessor reinterprets the
// stored bits as that type; a numeric accessor on a CString value, or
// AsString on a numeric one, returns the zero value.
func (v Value) AsU8() uint8    { return uint8(v.u64) }
func (v Value) AsU32() uint32  { return uint32(v.u64) }
func (v Value) AsI32() int32   { return int32(uint32(v.u64)) }
func (v Value) AsF32() float32 { return math.Float32frombits(uint32(v.u64)) }
func (v Value) AsString() string {
	return v.str
}
