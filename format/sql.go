//go:build duckdb

package format

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/csllog/csl/logsite"
)

func init() {
	register("sqlite", func() Formatter { return &sqlFormatter{} })
}

// sqlFormatter mirrors init_formatter_sqlite/handle_message_sqlite, with one
// deliberate deviation: instead of reusing a Record's own Category byte as
// an "already inserted into LogMeta" flag (which permanently reassigns that
// record to the sentinel category, corrupting any later sentinel lookup
// against the same image), it tracks inserted ids in a private set. The
// table names (LogMeta, LogItems) are unchanged; LogItems gives each
// argument a numeric and a text column.
type sqlFormatter struct {
	db       *sql.DB
	inserted map[int32]bool
}

func (s *sqlFormatter) Init(outfile string) error {
	if outfile == "" {
		outfile = DefaultOutfile("sqlite")
	}
	_ = os.Remove(outfile) // DROP TABLE IF EXISTS isn't enough for a fresh embedded db file

	db, err := sql.Open("duckdb", outfile)
	if err != nil {
		return fmt.Errorf("format: sqlite: opening %s: %w", outfile, err)
	}

	stmts := []string{
		`DROP TABLE IF EXISTS LogMeta`,
		`CREATE TABLE LogMeta(LoggingId INTEGER PRIMARY KEY, Level INTEGER, Line INTEGER, Filename TEXT, Function TEXT, Format TEXT)`,
		`DROP TABLE IF EXISTS LogItems`,
		// Each argument gets a numeric column (its canonical numeric binding)
		// and a text column (CSTRING arguments bound as text); exactly one of
		// the pair is non-NULL for a given row, depending on the argument's
		// declared type.
		`CREATE TABLE LogItems(ID INTEGER PRIMARY KEY, LoggingId INTEGER, Timestamp INTEGER,
			arg0 DOUBLE, arg0_text VARCHAR, arg1 DOUBLE, arg1_text VARCHAR,
			arg2 DOUBLE, arg2_text VARCHAR, arg3 DOUBLE, arg3_text VARCHAR,
			arg4 DOUBLE, arg4_text VARCHAR, arg5 DOUBLE, arg5_text VARCHAR,
			arg6 DOUBLE, arg6_text VARCHAR, arg7 DOUBLE, arg7_text VARCHAR,
			arg8 DOUBLE, arg8_text VARCHAR, arg9 DOUBLE, arg9_text VARCHAR)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("format: sqlite: %s: %w", stmt, err)
		}
	}

	s.db = db
	s.inserted = make(map[int32]bool)
	return nil
}

func (s *sqlFormatter) Handle(rec *logsite.Record, id int32, timestamp uint32, values []logsite.Value, msgIndex uint64) error {
	if !s.inserted[id] {
		_, err := s.db.Exec(
			`INSERT INTO LogMeta VALUES(?, ?, ?, ?, ?, ?)`,
			id, int(rec.Level), rec.Line, rec.Filename.String(), rec.Function.String(), rec.FmtStr.String(),
		)
		if err != nil {
			return fmt.Errorf("format: sqlite: inserting LogMeta row for id %d: %w", id, err)
		}
		s.inserted[id] = true
	}

	// Each argument binds into exactly one of its (numeric, text) column
	// pair: CSTRING values bind as text, everything else binds using its
	// canonical numeric representation.
	args := make([]any, 20)
	for i := 0; i < 10; i++ {
		num, text := 2*i, 2*i+1
		if i >= len(values) {
			args[num], args[text] = nil, nil
			continue
		}
		if values[i].Type() == logsite.CString {
			args[num], args[text] = nil, values[i].AsString()
			continue
		}
		v, err := argNumeric(values[i])
		if err != nil {
			return err
		}
		args[num], args[text] = v, nil
	}

	_, err := s.db.Exec(
		`INSERT INTO LogItems VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		append([]any{msgIndex, id, timestamp}, args...)...,
	)
	if err != nil {
		return fmt.Errorf("format: sqlite: inserting LogItems row for id %d: %w", id, err)
	}
	return nil
}

func argNumeric(v logsite.Value) (float64, error) {
	switch v.Type() {
	case logsite.U8:
		return float64(v.AsU8()), nil
	case logsite.U32:
		return float64(v.AsU32()), nil
	case logsite.I32:
		return float64(v.AsI32()), nil
	case logsite.F32:
		return float64(v.AsF32()), nil
	default:
		return 0, fmt.Errorf("format: sqlite: unhandled argument type %v", v.Type())
	}
}

func (s *sqlFormatter) End() error {
	return s.db.Close()
}
