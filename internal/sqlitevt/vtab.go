// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build sqlite_vtable

package sqlitevt

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/pdiddy/govinfo-table/internal/table"
)

// op is a comparison SQLite hands to BestIndex that a range column can
// take.
type op string

const (
	opEQ op = "eq"
	opGT op = "gt"
	opGE op = "ge"
	opLT op = "lt"
	opLE op = "le"
)

func rangeOp(o sqlite3.Op) (op, bool) {
	switch o {
	case sqlite3.OpEQ:
		return opEQ, true
	case sqlite3.OpGT:
		return opGT, true
	case sqlite3.OpGE:
		return opGE, true
	case sqlite3.OpLT:
		return opLT, true
	case sqlite3.OpLE:
		return opLE, true
	default:
		return "", false
	}
}

// predicate is one claimed constraint with its value coerced to the
// column type.
type predicate struct {
	column int
	op     op
	value  any
}

func (p predicate) match(v any) bool {
	// SQL comparisons involving NULL are never true.
	if v == nil || p.value == nil {
		return false
	}
	c := table.Compare(v, p.value)
	switch p.op {
	case opEQ:
		return c == 0
	case opGT:
		return c > 0
	case opGE:
		return c >= 0
	case opLT:
		return c < 0
	default:
		return c <= 0
	}
}

type vtab struct {
	adapter table.Adapter
	schema  table.Schema
	ctx     context.Context
}

// BestIndex claims every usable comparison on a range-filterable column.
// SQLite then skips its own check of those constraints, so the cursor
// applies them after the fetch. Ordering is always left to SQLite.
func (v *vtab) BestIndex(cst []sqlite3.InfoConstraint, _ []sqlite3.InfoOrderBy) (*sqlite3.IndexResult, error) {
	used := make([]bool, len(cst))
	var claimed []string
	for i, c := range cst {
		if !c.Usable || c.Column < 0 || c.Column >= len(v.schema) {
			continue
		}
		if !v.schema[c.Column].Filterable(table.FilterRange) {
			continue
		}
		o, ok := rangeOp(c.Op)
		if !ok {
			continue
		}
		used[i] = true
		claimed = append(claimed, fmt.Sprintf("%d:%s", c.Column, o))
	}

	cost := 1000.0
	if len(claimed) > 0 {
		cost = 100
	}
	return &sqlite3.IndexResult{
		Used:           used,
		IdxNum:         len(claimed),
		IdxStr:         strings.Join(claimed, ","),
		AlreadyOrdered: false,
		EstimatedCost:  cost,
		EstimatedRows:  cost,
	}, nil
}

func (v *vtab) Disconnect() error { return nil }
func (v *vtab) Destroy() error    { return nil }

func (v *vtab) Open() (sqlite3.VTabCursor, error) {
	return &cursor{vtab: v}, nil
}

// cursor holds one fetched page. Each Filter call fetches again.
type cursor struct {
	vtab *vtab
	rows []table.Row
	pos  int
}

func (c *cursor) Close() error { return nil }

// Filter decodes the claimed constraints, fetches through the adapter with
// them as bounds, and keeps only the rows that satisfy every predicate.
func (c *cursor) Filter(_ int, idxStr string, vals []any) error {
	preds, err := c.vtab.predicates(idxStr, vals)
	if err != nil {
		return err
	}

	res, err := c.vtab.adapter.Rows(c.vtab.ctx, boundsFor(c.vtab.schema, preds), nil)
	if err != nil {
		return err
	}

	c.rows = c.rows[:0]
	for res.Next() {
		row := res.Row()
		if c.vtab.keep(row, preds) {
			c.rows = append(c.rows, row)
		}
	}
	c.pos = 0
	return nil
}

func (c *cursor) Next() error {
	c.pos++
	return nil
}

func (c *cursor) EOF() bool {
	return c.pos >= len(c.rows)
}

func (c *cursor) Column(ctx *sqlite3.SQLiteContext, col int) error {
	if col < 0 || col >= len(c.vtab.schema) {
		return fmt.Errorf("column index %d out of range", col)
	}
	switch v := c.rows[c.pos][c.vtab.schema[col].Name].(type) {
	case nil:
		ctx.ResultNull()
	case string:
		ctx.ResultText(v)
	case int64:
		ctx.ResultInt64(v)
	case time.Time:
		ctx.ResultText(v.UTC().Format(table.TimestampLayout))
	default:
		ctx.ResultText(fmt.Sprint(v))
	}
	return nil
}

func (c *cursor) Rowid() (int64, error) {
	return int64(c.pos) + 1, nil
}

// predicates pairs the idxStr written by BestIndex with the values SQLite
// supplies in the same order.
func (v *vtab) predicates(idxStr string, vals []any) ([]predicate, error) {
	if idxStr == "" {
		return nil, nil
	}
	parts := strings.Split(idxStr, ",")
	if len(parts) != len(vals) {
		return nil, fmt.Errorf("index plan has %d constraints but %d values", len(parts), len(vals))
	}

	preds := make([]predicate, len(parts))
	for i, p := range parts {
		colStr, opStr, ok := strings.Cut(p, ":")
		if !ok {
			return nil, fmt.Errorf("malformed index plan %q", idxStr)
		}
		col, err := strconv.Atoi(colStr)
		if err != nil || col < 0 || col >= len(v.schema) {
			return nil, fmt.Errorf("malformed index plan %q", idxStr)
		}
		column := v.schema[col]
		value, err := column.Type.Coerce(constraintValue(vals[i]))
		if err != nil {
			return nil, fmt.Errorf("constraint on %s: %w", column.Name, err)
		}
		preds[i] = predicate{column: col, op: op(opStr), value: value}
	}
	return preds, nil
}

// constraintValue maps the empty byte slice the driver passes for SQL
// NULL back to nil.
func constraintValue(v any) any {
	if b, ok := v.([]byte); ok && len(b) == 0 {
		return nil
	}
	return v
}

func (v *vtab) keep(row table.Row, preds []predicate) bool {
	for _, p := range preds {
		if !p.match(row[v.schema[p.column].Name]) {
			return false
		}
	}
	return true
}

// boundsFor folds the predicates into one Range per column, keeping the
// tightest limit on each side. Adapters may ignore it.
func boundsFor(schema table.Schema, preds []predicate) table.Bounds {
	if len(preds) == 0 {
		return nil
	}
	ranges := map[string]table.Range{}
	for _, p := range preds {
		name := schema[p.column].Name
		r := ranges[name]
		if p.value == nil {
			continue
		}
		switch p.op {
		case opEQ:
			r = tightenStart(r, p.value, true)
			r = tightenEnd(r, p.value, true)
		case opGT:
			r = tightenStart(r, p.value, false)
		case opGE:
			r = tightenStart(r, p.value, true)
		case opLT:
			r = tightenEnd(r, p.value, false)
		case opLE:
			r = tightenEnd(r, p.value, true)
		}
		ranges[name] = r
	}

	bounds := table.Bounds{}
	for name, r := range ranges {
		bounds[name] = r
	}
	return bounds
}

func tightenStart(r table.Range, v any, inclusive bool) table.Range {
	if r.Start == nil {
		r.Start, r.IncludeStart = v, inclusive
		return r
	}
	switch c := table.Compare(v, r.Start); {
	case c > 0:
		r.Start, r.IncludeStart = v, inclusive
	case c == 0:
		r.IncludeStart = r.IncludeStart && inclusive
	}
	return r
}

func tightenEnd(r table.Range, v any, inclusive bool) table.Range {
	if r.End == nil {
		r.End, r.IncludeEnd = v, inclusive
		return r
	}
	switch c := table.Compare(v, r.End); {
	case c < 0:
		r.End, r.IncludeEnd = v, inclusive
	case c == 0:
		r.IncludeEnd = r.IncludeEnd && inclusive
	}
	return r
}
