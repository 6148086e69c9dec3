// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes rows as an aligned text table, JSON, or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/govinfo-table/internal/table"
)

// Format selects the output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// maxCellWidth truncates long values such as titles in table output.
const maxCellWidth = 50

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use table, json, or yaml", s)
	}
}

// Write renders rows in the given format.
func Write(w io.Writer, f Format, schema table.Schema, rows []table.Row) error {
	switch f {
	case FormatJSON:
		return JSON(w, schema, rows)
	case FormatYAML:
		return YAML(w, schema, rows)
	default:
		return Table(w, schema, rows)
	}
}

// Text renders a single value the way every format shows it.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		return x.UTC().Format(table.TimestampLayout)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// Table writes an aligned text table followed by a row count.
func Table(w io.Writer, schema table.Schema, rows []table.Row) error {
	names := schema.Names()
	widths := make([]int, len(names))
	for i, n := range names {
		widths[i] = utf8.RuneCountInString(n)
	}

	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(names))
		for i, n := range names {
			s := truncate(Text(row[n]), maxCellWidth)
			cells[r][i] = s
			if l := utf8.RuneCountInString(s); l > widths[i] {
				widths[i] = l
			}
		}
	}

	writeLine := func(values []string) error {
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = v + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(v))
		}
		_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
		return err
	}

	if err := writeLine(names); err != nil {
		return err
	}
	total := 0
	for _, wd := range widths {
		total += wd
	}
	if len(widths) > 1 {
		total += 2 * (len(widths) - 1)
	}
	fmt.Fprintln(w, strings.Repeat("-", total))

	for _, c := range cells {
		if err := writeLine(c); err != nil {
			return err
		}
	}

	noun := "rows"
	if len(rows) == 1 {
		noun = "row"
	}
	_, err := fmt.Fprintf(w, "\n%d %s\n", len(rows), noun)
	return err
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// JSON writes rows as an indented array of objects. Timestamps use the
// table's text layout.
func JSON(w io.Writer, schema table.Schema, rows []table.Row) error {
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		m := make(map[string]any, len(schema))
		for _, c := range schema {
			m[c.Name] = jsonValue(row[c.Name])
		}
		out[i] = m
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func jsonValue(v any) any {
	if ts, ok := v.(time.Time); ok {
		return ts.UTC().Format(table.TimestampLayout)
	}
	return v
}

// YAML writes rows as a sequence of mappings keeping column order.
func YAML(w io.Writer, schema table.Schema, rows []table.Row) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, c := range schema {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: c.Name},
				yamlValue(row[c.Name]),
			)
		}
		doc.Content = append(doc.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(doc)
}

func yamlValue(v any) *yaml.Node {
	switch x := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(x)}
	case time.Time:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: x.UTC().Format(table.TimestampLayout)}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: Text(x)}
	}
}
