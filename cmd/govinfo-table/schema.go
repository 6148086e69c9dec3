// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/govinfo-table/internal/table"
)

var schemaCmd = &cobra.Command{
	Use:   "schema <uri>",
	Short: "Print the columns a URI exposes",
	Long: `Schema negotiates an adapter for the URI and prints its columns with
type, supported ordering, and filter capabilities. No request is sent to
the API.`,
	Args: cobra.ExactArgs(1),
	RunE: runSchema,
}

func runSchema(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	uri, err := a.resolveURI(args[0])
	if err != nil {
		return err
	}
	adapter, err := a.registry.Open(uri)
	if err != nil {
		return err
	}
	return printSchema(cmd.OutOrStdout(), adapter.Columns())
}

func printSchema(w io.Writer, schema table.Schema) error {
	fmt.Fprintf(w, "%-16s  %-10s  %-10s  %s\n", "Column", "Type", "Order", "Filters")
	fmt.Fprintln(w, strings.Repeat("-", 50))
	for _, c := range schema {
		filters := "-"
		if len(c.Filters) > 0 {
			names := make([]string, len(c.Filters))
			for i, f := range c.Filters {
				names[i] = f.String()
			}
			filters = strings.Join(names, ",")
			if !c.Exact {
				filters += " (inexact)"
			}
		}
		if _, err := fmt.Fprintf(w, "%-16s  %-10s  %-10s  %s\n", c.Name, c.Type, c.Order, filters); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
