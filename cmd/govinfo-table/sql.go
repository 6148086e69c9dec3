// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build sqlite_vtable

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/govinfo-table/internal/render"
	"github.com/pdiddy/govinfo-table/internal/sqlitevt"
)

const sqlDriver = "sqlite3_govinfo"

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run SQLite over GovInfo tables",
	Long: `Sql declares each --table as a SQLite virtual table and runs the query
against an in-memory database:

  govinfo-table sql --table bills='https://api.govinfo.gov/collections/BILLS/2023-03-01T00:00:00Z?offset=0&pageSize=100' \
    "SELECT title, congress FROM bills WHERE last_modified >= '2023-03-05T00:00:00Z' ORDER BY title"

Comparisons on last_modified and date_issued are handed to the adapter as
bounds and re-checked before rows reach SQLite. Everything else, including
ORDER BY, is evaluated by SQLite.`,
	Args: cobra.ExactArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := render.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	tables, _ := cmd.Flags().GetStringArray("table")
	module, _ := cmd.Flags().GetString("module")

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	sqlitevt.Register(sqlDriver, a.registry, sqlitevt.Options{Context: cmd.Context(), Log: a.log})
	db, err := sqlitevt.Open(sqlDriver)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	for _, spec := range tables {
		name, uri, ok := strings.Cut(spec, "=")
		if !ok || name == "" || uri == "" {
			return fmt.Errorf("invalid --table %q: want name=URI", spec)
		}
		uri, err := a.resolveURI(uri)
		if err != nil {
			return err
		}
		if err := sqlitevt.CreateTable(ctx, db, name, module, uri); err != nil {
			return err
		}
	}

	schema, rows, err := sqlitevt.Query(ctx, db, args[0])
	if err != nil {
		return err
	}
	return render.Write(cmd.OutOrStdout(), format, schema, rows)
}

func init() {
	sqlCmd.Flags().StringArray("table", nil, "virtual table as name=URI (repeatable)")
	sqlCmd.Flags().String("module", sqlitevt.RemoteModule, "module used to declare tables: remote negotiates across families")
	sqlCmd.Flags().String("format", "table", "output format: table, json, or yaml")
	rootCmd.AddCommand(sqlCmd)
}
