// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build sqlite_vtable

// Package sqlitevt exposes table adapters as SQLite virtual tables:
//
//	CREATE VIRTUAL TABLE bills USING govinfo('https://api.govinfo.gov/collections/...');
//	SELECT title FROM bills WHERE last_modified >= '2023-03-01T00:00:00Z';
//
// Every registered family gets a module of the same name. The extra module
// RemoteModule negotiates across all families.
package sqlitevt

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/pdiddy/govinfo-table/internal/httputil"
	"github.com/pdiddy/govinfo-table/internal/table"
)

// RemoteModule is the module name that picks a family by negotiation.
const RemoteModule = "remote"

// Options tunes the registered modules.
type Options struct {
	// Context is passed to adapter fetches. Nil means context.Background.
	Context context.Context

	// Log receives one line per table opened. Nil discards.
	Log io.Writer
}

// Register installs a database/sql driver named driverName whose
// connections carry one module per family in reg plus RemoteModule.
// Like sql.Register it panics when driverName is taken.
func Register(driverName string, reg *table.Registry, opts Options) {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Log == nil {
		opts.Log = io.Discard
	}

	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			for _, name := range reg.Families() {
				if err := conn.CreateModule(name, &module{registry: reg, family: name, opts: opts}); err != nil {
					return fmt.Errorf("creating module %s: %w", name, err)
				}
			}
			if err := conn.CreateModule(RemoteModule, &module{registry: reg, opts: opts}); err != nil {
				return fmt.Errorf("creating module %s: %w", RemoteModule, err)
			}
			return nil
		},
	})
}

// module implements sqlite3.Module. family is empty for RemoteModule.
type module struct {
	registry *table.Registry
	family   string
	opts     Options
}

func (m *module) Create(c *sqlite3.SQLiteConn, args []string) (sqlite3.VTab, error) {
	return m.connect(c, args)
}

func (m *module) Connect(c *sqlite3.SQLiteConn, args []string) (sqlite3.VTab, error) {
	return m.connect(c, args)
}

func (m *module) DestroyModule() {}

// connect runs capability negotiation for the URI argument, opens the
// adapter, and declares its schema.
func (m *module) connect(c *sqlite3.SQLiteConn, args []string) (sqlite3.VTab, error) {
	uri, err := moduleURI(args)
	if err != nil {
		return nil, err
	}

	reg := m.registry
	if m.family != "" {
		f, ok := m.registry.Lookup(m.family)
		if !ok {
			return nil, fmt.Errorf("module %s: family not registered", m.family)
		}
		reg = table.NewRegistry(f)
	}

	adapter, err := reg.Open(uri)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", httputil.RedactURI(uri), err)
	}

	schema := adapter.Columns()
	if err := c.DeclareVTab(declareSQL(schema)); err != nil {
		return nil, fmt.Errorf("declaring virtual table: %w", err)
	}
	fmt.Fprintf(m.opts.Log, "opened %s (%d columns)\n", httputil.RedactURI(uri), len(schema))

	return &vtab{adapter: adapter, schema: schema, ctx: m.opts.Context}, nil
}

// moduleURI extracts the URI from CREATE VIRTUAL TABLE arguments:
// module name, database, table, then the quoted URI.
func moduleURI(args []string) (string, error) {
	if len(args) != 4 {
		return "", fmt.Errorf("expected exactly one URI argument, got %d", max(len(args)-3, 0))
	}
	return unquote(strings.TrimSpace(args[3])), nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		switch q := s[0]; q {
		case '\'', '"':
			if s[len(s)-1] == q {
				inner := s[1 : len(s)-1]
				return strings.ReplaceAll(inner, string([]byte{q, q}), string(q))
			}
		}
	}
	return s
}

// quoteIdent quotes an SQL identifier.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// quoteLiteral quotes an SQL string literal.
func quoteLiteral(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}

func declareSQL(schema table.Schema) string {
	cols := make([]string, len(schema))
	for i, c := range schema {
		cols[i] = quoteIdent(c.Name) + " " + c.Type.SQLType()
	}
	return "CREATE TABLE x (" + strings.Join(cols, ", ") + ")"
}
