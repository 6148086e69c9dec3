// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/govinfo-table/internal/table"
)

var supportsCmd = &cobra.Command{
	Use:   "supports <uri>",
	Short: "Report whether an adapter can serve a URI",
	Long: `Supports runs capability negotiation for the URI and prints the family
that accepts it, or "unsupported". No request is sent to the API.

When the URI has no api_key, the key from --api-key, the config file, the
environment, or .secrets/govinfo-api-key is added before classifying, as
query and sql do. Pass --as-given to classify the URI exactly as written.

An unknown endpoint segment (anything other than collections, packages,
published, or related) is reported as an error, not as unsupported.`,
	Args: cobra.ExactArgs(1),
	RunE: runSupports,
}

func runSupports(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	uri := args[0]
	if asGiven, _ := cmd.Flags().GetBool("as-given"); !asGiven {
		if uri, err = a.resolveURI(uri); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if fast, _ := cmd.Flags().GetBool("fast"); fast {
		for _, name := range a.registry.Families() {
			f, _ := a.registry.Lookup(name)
			c, err := f.ProbeCheap(uri)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\t%s\n", name, c)
		}
		return nil
	}

	f, err := a.registry.Find(uri)
	if errors.Is(err, table.ErrNoAdapter) {
		fmt.Fprintln(out, "unsupported")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "supported by %s\n", f.Name())
	return nil
}

func init() {
	supportsCmd.Flags().Bool("fast", false, "only run the cheap probe and print each family's answer")
	supportsCmd.Flags().Bool("as-given", false, "classify the URI without adding a configured api_key")
	rootCmd.AddCommand(supportsCmd)
}
