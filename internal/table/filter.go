// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"fmt"
	"strings"
)

// Filter is a bound the host requests on one column.
type Filter interface {
	Kind() FilterKind
	String() string
}

// Range bounds a column from below, above, or both. A nil Start or End
// means that side is open.
type Range struct {
	Start        any
	End          any
	IncludeStart bool
	IncludeEnd   bool
}

// Kind implements Filter.
func (r Range) Kind() FilterKind { return FilterRange }

func (r Range) String() string {
	var parts []string
	if r.Start != nil {
		op := ">"
		if r.IncludeStart {
			op = ">="
		}
		parts = append(parts, fmt.Sprintf("%s %v", op, r.Start))
	}
	if r.End != nil {
		op := "<"
		if r.IncludeEnd {
			op = "<="
		}
		parts = append(parts, fmt.Sprintf("%s %v", op, r.End))
	}
	if len(parts) == 0 {
		return "unbounded"
	}
	return strings.Join(parts, " and ")
}

// Equal matches a single value.
type Equal struct {
	Value any
}

// Kind implements Filter.
func (e Equal) Kind() FilterKind { return FilterEqual }

func (e Equal) String() string { return fmt.Sprintf("= %v", e.Value) }

// Bounds maps column names to the filter requested on them.
type Bounds map[string]Filter

// Direction is a requested sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// OrderBy is one term of a requested ordering.
type OrderBy struct {
	Column    string
	Direction Direction
}
