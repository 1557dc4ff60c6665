// Package datarecording persists experiment results, such as stress-run
// reports, into one SQLite database per run.
package datarecording

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/fatih/structs"

	// SQLite is used through database/sql.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder buffers rows in memory and writes them into an SQLite
// database in batches.
type DataRecorder interface {
	// CreateTable declares a table whose columns are the field names of the
	// sample struct. All fields must be scalars.
	CreateTable(name string, sample any)

	// InsertData buffers one row for a table declared with CreateTable.
	InsertData(name string, entry any)

	// ListTables returns the names of the declared tables.
	ListTables() []string

	// Flush writes all buffered rows to the database.
	Flush()

	// Close flushes buffered rows and closes the database.
	Close()
}

// New creates a DataRecorder that writes to <path>.sqlite3. If path is
// empty, a per-run name such as "runid_stress_<xid>" is generated. The
// database file must not already exist. Buffered rows are flushed when the
// process exits through atexit.
//
// Every database carries an exec_info table describing the run that
// produced it. It is completed when the recorder is closed.
func New(path string) DataRecorder {
	if path == "" {
		path = "runid_stress_" + xid.New().String()
	}

	r := &sqliteRecorder{
		path:      path,
		batchSize: 1024,
		tables:    make(map[string]*pendingTable),
	}
	r.open()

	atexit.Register(r.Flush)

	r.execRecorder = newExecRecorder(r)
	r.execRecorder.Start()

	return r
}

type pendingTable struct {
	fields []string
	rows   []any
}

type sqliteRecorder struct {
	db   *sql.DB
	path string

	tables       map[string]*pendingTable
	batchSize    int
	buffered     int
	closed       bool
	execRecorder *execRecorder
}

func (r *sqliteRecorder) open() {
	filename := r.path + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("datarecording: file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	r.db = db
}

func (r *sqliteRecorder) CreateTable(name string, sample any) {
	mustBeFlat(sample)

	fields := structs.Names(sample)
	schema := "CREATE TABLE " + name +
		" (\n\t" + strings.Join(fields, ",\n\t") + "\n);"
	r.mustExec(schema)

	r.tables[name] = &pendingTable{fields: fields}
}

// mustBeFlat rejects samples whose columns would not map to SQLite scalars.
func mustBeFlat(sample any) {
	t := reflect.TypeOf(sample)

	for i := 0; i < t.NumField(); i++ {
		switch t.Field(i).Type.Kind() {
		case reflect.Bool,
			reflect.Int, reflect.Int8, reflect.Int16,
			reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16,
			reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64,
			reflect.String:
		default:
			panic(fmt.Errorf("datarecording: field %s is not a scalar",
				t.Field(i).Name))
		}
	}
}

func (r *sqliteRecorder) InsertData(name string, entry any) {
	table, ok := r.tables[name]
	if !ok {
		panic(fmt.Sprintf("datarecording: table %s was never created", name))
	}

	table.rows = append(table.rows, entry)

	r.buffered++
	if r.buffered >= r.batchSize {
		r.Flush()
	}
}

func (r *sqliteRecorder) ListTables() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func (r *sqliteRecorder) Flush() {
	if r.closed || r.buffered == 0 {
		return
	}

	tx, err := r.db.Begin()
	if err != nil {
		panic(err)
	}

	for name, table := range r.tables {
		if len(table.rows) == 0 {
			continue
		}

		insertRows(tx, name, table)
		table.rows = nil
	}

	if err := tx.Commit(); err != nil {
		panic(err)
	}

	r.buffered = 0
}

func insertRows(tx *sql.Tx, name string, table *pendingTable) {
	placeholders := "(" + strings.Repeat("?, ", len(table.fields)-1) + "?)"

	stmt, err := tx.Prepare("INSERT INTO " + name + " VALUES " + placeholders)
	if err != nil {
		panic(err)
	}
	defer stmt.Close()

	for _, row := range table.rows {
		if _, err := stmt.Exec(structs.Values(row)...); err != nil {
			panic(err)
		}
	}
}

func (r *sqliteRecorder) Close() {
	if r.closed {
		return
	}

	r.execRecorder.End()
	r.Flush()
	r.closed = true

	if err := r.db.Close(); err != nil {
		panic(err)
	}
}

func (r *sqliteRecorder) mustExec(query string) {
	if _, err := r.db.Exec(query); err != nil {
		panic(fmt.Errorf("datarecording: %q failed: %w", query, err))
	}
}
