package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"sort"
)

// QueryParams narrows and pages a table read.
type QueryParams struct {
	// Where holds the WHERE clause without the "WHERE" keyword, with "?"
	// placeholders filled from Args.
	Where string

	// Args holds the arguments for the placeholders in Where.
	Args []any

	// Limit caps the number of rows returned. Zero means no limit.
	Limit int

	// Offset is the number of rows to skip before the first returned one.
	Offset int

	// OrderBy specifies sorting, without the "ORDER BY" keywords.
	OrderBy string
}

// DataReader reads rows recorded by a DataRecorder back into structs.
type DataReader interface {
	// MapTable associates a table with the struct type its rows are scanned
	// into. A table must be mapped before it can be queried.
	MapTable(name string, sample any)

	// ListTables returns the names of the mapped tables.
	ListTables() []string

	// Query reads rows from a mapped table. Rows are returned as pointers to
	// the mapped struct type. The returned count is the total number of
	// matching rows, ignoring Limit and Offset.
	Query(ctx context.Context, name string, params QueryParams) (
		rows []any,
		totalCount int,
		err error,
	)

	// Close closes the database.
	Close() error
}

// NewReader opens an existing database file for reading.
func NewReader(dbFilename string) DataReader {
	db, err := sql.Open("sqlite3", dbFilename)
	if err != nil {
		panic(err)
	}

	return &sqliteReader{
		db:      db,
		typeMap: make(map[string]reflect.Type),
	}
}

// NewReaderWithDB wraps an already opened database.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		db:      db,
		typeMap: make(map[string]reflect.Type),
	}
}

type sqliteReader struct {
	db      *sql.DB
	typeMap map[string]reflect.Type
}

func (r *sqliteReader) MapTable(name string, sample any) {
	r.typeMap[name] = reflect.TypeOf(sample)
}

func (r *sqliteReader) ListTables() []string {
	names := make([]string, 0, len(r.typeMap))
	for name := range r.typeMap {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func (r *sqliteReader) Query(
	ctx context.Context,
	name string,
	params QueryParams,
) ([]any, int, error) {
	structType, ok := r.typeMap[name]
	if !ok {
		return nil, 0, fmt.Errorf("datarecording: table %s is not mapped", name)
	}

	query := "SELECT * FROM " + name

	if params.Where != "" {
		query += " WHERE " + params.Where
	}

	if params.OrderBy != "" {
		query += " ORDER BY " + params.OrderBy
	}

	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", params.Limit)
		if params.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", params.Offset)
		}
	}

	totalCount, err := r.queryTotalCount(ctx, name, params)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, query, params.Args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results, err := scanRows(rows, structType)
	if err != nil {
		return nil, 0, err
	}

	return results, totalCount, nil
}

func (r *sqliteReader) queryTotalCount(
	ctx context.Context,
	name string,
	params QueryParams,
) (int, error) {
	countQuery := "SELECT COUNT(*) FROM " + name

	if params.Where != "" {
		countQuery += " WHERE " + params.Where
	}

	var totalCount int

	err := r.db.QueryRowContext(ctx, countQuery, params.Args...).
		Scan(&totalCount)
	if err != nil {
		return 0, err
	}

	return totalCount, nil
}

// scanRows maps columns to struct fields by name. Columns without a matching
// field are discarded.
func scanRows(rows *sql.Rows, structType reflect.Type) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	fieldIndex := make(map[string]int)
	for i := 0; i < structType.NumField(); i++ {
		fieldIndex[structType.Field(i).Name] = i
	}

	var results []any

	for rows.Next() {
		structPtr := reflect.New(structType)
		structVal := structPtr.Elem()

		targets := make([]any, len(columns))

		for i, column := range columns {
			if idx, ok := fieldIndex[column]; ok {
				targets[i] = structVal.Field(idx).Addr().Interface()
			} else {
				var discard any
				targets[i] = &discard
			}
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		results = append(results, structPtr.Interface())
	}

	return results, rows.Err()
}

func (r *sqliteReader) Close() error {
	return r.db.Close()
}
