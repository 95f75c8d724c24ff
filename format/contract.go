// Package format turns decoded trace entries into one of several output
// sinks: text, JSON, XML, HTML, and (when built with the duckdb tag) an
// embedded SQL database. Exactly one Formatter is active per printer run;
// the replay loop drives it through Init, one Handle call per resolved
// entry, and End.
package format

import (
	"fmt"

	"github.com/csllog/csl/logsite"
)

// Formatter is the contract every output variant implements.
type Formatter interface {
	// Init opens the sink. An empty outfile means "use this format's
	// default name" (DefaultOutfile).
	Init(outfile string) error
	// Handle renders one resolved trace entry. msgIndex is the zero-based
	// position of this entry among all entries handled so far in this run.
	Handle(rec *logsite.Record, id int32, timestamp uint32, values []logsite.Value, msgIndex uint64) error
	// End writes any closing boilerplate and closes the sink.
	End() error
}

// order lists every format name this module defines, in the order
// print_help lists them: the first is the default. A name stays in this
// list even when its formatter isn't registered in the current build (the
// sqlite entry, without the duckdb build tag) so Names can skip it without
// losing the intended ordering of the rest.
var order = []string{"string", "json", "xml", "html", "sqlite"}

type ctor func() Formatter

var registry = map[string]ctor{}

func register(name string, c ctor) {
	if _, exists := registry[name]; exists {
		panic("format: duplicate registration for " + name)
	}
	registry[name] = c
}

// New builds the named Formatter, unopened (call Init before Handle).
func New(name string) (Formatter, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q", name)
	}
	return c(), nil
}

// Names lists the formats available in this build, default first.
func Names() []string {
	var out []string
	for _, n := range order {
		if _, ok := registry[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// DefaultOutfile returns the output filename a formatter uses when the
// caller didn't supply one, matching log_printer.c's init_formatter_*
// defaults (log.txt, log.json, log.xml, log.html, log.db).
func DefaultOutfile(name string) string {
	switch name {
	case "json":
		return "log.json"
	case "xml":
		return "log.xml"
	case "html":
		return "log.html"
	case "sqlite":
		return "log.db"
	default:
		return "log.txt"
	}
}
