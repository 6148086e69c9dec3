// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snapshot saves fetched rows to a YAML file and loads them back,
// so a result can be inspected again without spending API quota.
package snapshot

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/govinfo-table/internal/httputil"
	"github.com/pdiddy/govinfo-table/internal/table"
)

// File is the on-disk representation of one query and its rows.
type File struct {
	ID      string           `yaml:"id"`
	Family  string           `yaml:"family"`
	URI     string           `yaml:"uri"` // api_key redacted
	Columns []Column         `yaml:"columns"`
	Rows    []map[string]any `yaml:"rows"`
	Summary Summary          `yaml:"summary"`
}

// Column stores one schema column by name and type.
type Column struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Summary stores result statistics and a timestamp.
type Summary struct {
	Total     int       `yaml:"total"`
	Count     int       `yaml:"count,omitempty"`
	NextPage  string    `yaml:"next_page,omitempty"`
	Timestamp time.Time `yaml:"timestamp"`
}

// New builds a File for rows fetched from uri. Timestamps are stored as
// TimestampLayout text so the file reads the same as the table output.
func New(family, uri string, schema table.Schema, rows []table.Row, count int, nextPage string) *File {
	f := &File{
		ID:     uuid.NewString(),
		Family: family,
		URI:    httputil.RedactURI(uri),
		Summary: Summary{
			Total:     len(rows),
			Count:     count,
			NextPage:  redactNextPage(nextPage),
			Timestamp: time.Now().UTC(),
		},
	}
	for _, c := range schema {
		f.Columns = append(f.Columns, Column{Name: c.Name, Type: c.Type.String()})
	}
	for _, r := range rows {
		out := make(map[string]any, len(r))
		for k, v := range r {
			if ts, ok := v.(time.Time); ok {
				v = ts.UTC().Format(table.TimestampLayout)
			}
			out[k] = v
		}
		f.Rows = append(f.Rows, out)
	}
	return f
}

func redactNextPage(next string) string {
	if next == "" {
		return ""
	}
	return httputil.RedactURI(next)
}

// Write saves f to path as YAML.
func Write(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Read loads a previously saved snapshot from disk.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if _, err := uuid.Parse(f.ID); err != nil {
		return nil, fmt.Errorf("snapshot %s has invalid id %q: %w", path, f.ID, err)
	}
	return &f, nil
}

// Schema rebuilds the column schema stored in the file.
func (f *File) Schema() (table.Schema, error) {
	schema := make(table.Schema, 0, len(f.Columns))
	for _, c := range f.Columns {
		t, err := table.ParseType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		schema = append(schema, table.Column{Name: c.Name, Type: t})
	}
	return schema, nil
}

// Table returns the stored rows as a cursor, each value coerced back to
// its column type.
func (f *File) Table() (table.Schema, *table.Rows, error) {
	schema, err := f.Schema()
	if err != nil {
		return nil, nil, err
	}

	rows := make([]table.Row, 0, len(f.Rows))
	for i, stored := range f.Rows {
		row := make(table.Row, len(schema))
		for _, c := range schema {
			v, err := c.Type.Coerce(stored[c.Name])
			if err != nil {
				return nil, nil, fmt.Errorf("row %d column %s: %w", i, c.Name, err)
			}
			row[c.Name] = v
		}
		rows = append(rows, row)
	}

	out := table.NewRows(rows)
	out.Count = f.Summary.Count
	out.NextPage = f.Summary.NextPage
	return schema, out, nil
}
