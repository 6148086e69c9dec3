// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/govinfo-table/internal/render"
	"github.com/pdiddy/govinfo-table/internal/snapshot"
)

var queryCmd = &cobra.Command{
	Use:   "query [uri]",
	Short: "Fetch the rows of a URI",
	Long: `Query fetches one page of rows for the URI and prints them.

Use --save to write the rows to a YAML snapshot and --load to print a saved
snapshot again without calling the API. Snapshots never contain the API key.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := render.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	loadPath, _ := cmd.Flags().GetString("load")
	savePath, _ := cmd.Flags().GetString("save")

	if loadPath != "" {
		if len(args) > 0 {
			return fmt.Errorf("--load and a URI are mutually exclusive")
		}
		f, err := snapshot.Read(loadPath)
		if err != nil {
			return err
		}
		schema, rows, err := f.Table()
		if err != nil {
			return err
		}
		fmt.Fprintf(logWriter(cmd), "loaded %d rows from %s (saved %s)\n", rows.Len(), loadPath, f.Summary.Timestamp.Format("2006-01-02 15:04"))
		return render.Write(cmd.OutOrStdout(), format, schema, rows.Collect())
	}

	if len(args) == 0 {
		return fmt.Errorf("a URI or --load is required")
	}

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	uri, err := a.resolveURI(args[0])
	if err != nil {
		return err
	}
	family, err := a.registry.Find(uri)
	if err != nil {
		return err
	}
	adapter, err := family.Open(uri)
	if err != nil {
		return err
	}

	res, err := adapter.Rows(cmd.Context(), nil, nil)
	if err != nil {
		return err
	}
	schema := adapter.Columns()
	rows := res.Collect()
	if res.Count > len(rows) {
		fmt.Fprintf(a.log, "page holds %d of %d records\n", len(rows), res.Count)
	}

	if savePath != "" {
		snap := snapshot.New(family.Name(), uri, schema, rows, res.Count, res.NextPage)
		if err := snapshot.Write(savePath, snap); err != nil {
			return err
		}
		fmt.Fprintf(a.log, "saved %d rows to %s (id %s)\n", len(rows), savePath, snap.ID)
	}

	return render.Write(cmd.OutOrStdout(), format, schema, rows)
}

func init() {
	queryCmd.Flags().String("format", "table", "output format: table, json, or yaml")
	queryCmd.Flags().String("save", "", "write the fetched rows to a YAML snapshot")
	queryCmd.Flags().String("load", "", "print a saved YAML snapshot instead of fetching")
	rootCmd.AddCommand(queryCmd)
}
