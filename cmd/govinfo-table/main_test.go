// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"io"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/govinfo-table/internal/govinfo"
	"github.com/pdiddy/govinfo-table/internal/snapshot"
	"github.com/pdiddy/govinfo-table/internal/table"
)

const fullURI = "https://api.govinfo.gov/collections/BILLS/2018-01-28T20%3A18%3A10Z?offset=0&pageSize=1000&api_key=K"

// execute runs the root command with args. Cobra keeps flag values between
// runs, so callers pass every flag they depend on.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--quiet"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSupportsCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"accepted", []string{"supports", "--as-given=false", "--fast=false", "--api-key=", fullURI}, "supported by govinfo\n"},
		{"missing pageSize", []string{"supports", "--as-given=false", "--fast=false", "--api-key=", "https://api.govinfo.gov/collections/BILLS/2018-01-28T20:18:10Z?offset=0&api_key=K"}, "unsupported\n"},
		{"cheap probe", []string{"supports", "--as-given=false", "--fast=true", "--api-key=", fullURI}, "govinfo\tsupported\n"},
		{"key from flag", []string{"supports", "--as-given=false", "--fast=false", "--api-key=FLAGKEY", "https://api.govinfo.gov/collections/bills/2018-01-28T20:18:10Z?offset=0&pageSize=1"}, "supported by govinfo\n"},
		{"as given ignores flag key", []string{"supports", "--as-given=true", "--fast=false", "--api-key=FLAGKEY", "https://api.govinfo.gov/collections/bills/2018-01-28T20:18:10Z?offset=0&pageSize=1"}, "unsupported\n"},
		{"as given with key in URI", []string{"supports", "--as-given=true", "--fast=false", "--api-key=", fullURI}, "supported by govinfo\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestSupportsCommandConfigError(t *testing.T) {
	_, err := execute(t, "supports", "--as-given=false", "--fast=false", "--api-key=", "https://api.govinfo.gov/Collections?api_key=K")
	require.Error(t, err)
	assert.True(t, govinfo.IsConfigError(err))
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "schema", "--api-key=", fullURI)
	require.NoError(t, err)
	assert.Contains(t, out, "last_modified")
	assert.Contains(t, out, "timestamp")
	assert.Contains(t, out, "range (inexact)")
	assert.Contains(t, out, "congress")
}

func TestQueryCommandLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bills.yaml")
	schema, err := govinfo.Columns(govinfo.EndpointCollections)
	require.NoError(t, err)
	row := table.Row{
		"package_id":    "BILLS-118hr796ih",
		"last_modified": time.Date(2023, 3, 1, 10, 29, 21, 0, time.UTC),
		"package_link":  "https://api.govinfo.gov/packages/BILLS-118hr796ih/summary",
		"doc_class":     "hr",
		"title":         "Supply Chain Mapping and Monitoring Act",
		"congress":      int64(118),
		"date_issued":   "2023-02-02",
	}
	require.NoError(t, snapshot.Write(path, snapshot.New("govinfo", fullURI, schema, []table.Row{row}, 1, "")))

	out, err := execute(t, "query", "--save=", "--format=json", "--load="+path)
	require.NoError(t, err)
	assert.Contains(t, out, `"package_id": "BILLS-118hr796ih"`)
	assert.Contains(t, out, `"congress": 118`)
	assert.Contains(t, out, `"last_modified": "2023-03-01T10:29:21Z"`)

	_, err = execute(t, "query", "--save=", "--format=csv", "--load="+path)
	assert.Error(t, err)

	_, err = execute(t, "query", "--save=", "--format=table", "--load=")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "govinfo-table dev\n", out)
}

func TestWithAPIKey(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		key  string
		want string
	}{
		{"no key configured", "https://api.govinfo.gov/collections", "", "https://api.govinfo.gov/collections"},
		{"URI key wins", "https://api.govinfo.gov/collections?api_key=URI", "CFG", "https://api.govinfo.gov/collections?api_key=URI"},
		{"added when absent", "https://api.govinfo.gov/collections?offset=0", "CFG", "https://api.govinfo.gov/collections?api_key=CFG&offset=0"},
		{"blank URI key replaced", "https://api.govinfo.gov/collections?api_key=", "CFG", "https://api.govinfo.gov/collections?api_key=CFG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := withAPIKey(tt.uri, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithAPIKeyKeepsEscapedPath(t *testing.T) {
	got, err := withAPIKey("https://api.govinfo.gov/collections/BILLS/2018-01-28T20%3A18%3A10Z?offset=0", "K")
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/collections/BILLS/2018-01-28T20%3A18%3A10Z", u.EscapedPath())
	assert.Equal(t, "K", u.Query().Get("api_key"))
}
