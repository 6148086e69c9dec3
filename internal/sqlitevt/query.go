// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build sqlite_vtable

package sqlitevt

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pdiddy/govinfo-table/internal/table"
)

// Open opens an in-memory database on a driver installed by Register. The
// pool is pinned to one connection: every connection to ":memory:" is a
// separate database, and virtual tables live on the connection that
// created them.
func Open(driverName string) (*sql.DB, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// CreateTable declares name as a virtual table over uri using module.
func CreateTable(ctx context.Context, db *sql.DB, name, module, uri string) error {
	if !validModule(module) {
		return fmt.Errorf("invalid module name %q", module)
	}
	stmt := fmt.Sprintf("CREATE VIRTUAL TABLE %s USING %s(%s)", quoteIdent(name), module, quoteLiteral(uri))
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("creating table %s: %w", name, err)
	}
	return nil
}

func validModule(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// Query runs query and returns the result as rows keyed by result column
// name. Text comes back as string, integers as int64, and TIMESTAMP
// columns as time.Time.
func Query(ctx context.Context, db *sql.DB, query string, args ...any) (table.Schema, []table.Row, error) {
	rs, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("running query: %w", err)
	}
	defer rs.Close()

	names, err := rs.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("reading result columns: %w", err)
	}
	schema := make(table.Schema, len(names))
	for i, n := range names {
		schema[i] = table.Column{Name: n, Type: table.TypeString}
	}

	var rows []table.Row
	for rs.Next() {
		vals := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rs.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scanning row: %w", err)
		}
		row := make(table.Row, len(names))
		for i, n := range names {
			if b, ok := vals[i].([]byte); ok {
				vals[i] = string(b)
			}
			row[n] = vals[i]
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading rows: %w", err)
	}
	return schema, rows, nil
}
