// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table defines the contract between a tabular query host and the
// adapters that expose remote data as relations: capability answers, column
// descriptors, filter bounds, requested order, and rows.
package table

import "fmt"

// TimestampLayout is the strict UTC layout used for timestamp columns when
// they are rendered as text.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Capability is an adapter's answer to "can you handle this URI?".
// CapabilityUnknown is only valid from a cheap probe; it asks the host to
// follow up with an authoritative probe.
type Capability int

const (
	CapabilityUnknown Capability = iota
	CapabilityUnsupported
	CapabilitySupported
)

func (c Capability) String() string {
	switch c {
	case CapabilityUnsupported:
		return "unsupported"
	case CapabilitySupported:
		return "supported"
	default:
		return "unknown"
	}
}

// CapabilityOf converts an authoritative answer into a Capability.
func CapabilityOf(ok bool) Capability {
	if ok {
		return CapabilitySupported
	}
	return CapabilityUnsupported
}

// Type is the semantic type of a column.
type Type int

const (
	TypeString Type = iota
	TypeInteger
	TypeTimestamp
)

func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeTimestamp:
		return "timestamp"
	default:
		return "string"
	}
}

// ParseType is the inverse of Type.String.
func ParseType(s string) (Type, error) {
	switch s {
	case "string":
		return TypeString, nil
	case "integer":
		return TypeInteger, nil
	case "timestamp":
		return TypeTimestamp, nil
	default:
		return TypeString, fmt.Errorf("unknown column type %q", s)
	}
}

// SQLType returns the declared SQL type used when the column is exposed
// through a SQL host.
func (t Type) SQLType() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

// Order declares which orderings an adapter can produce for a column.
type Order int

const (
	// OrderNone means the column has no natural order.
	OrderNone Order = iota
	// OrderAscending means rows already arrive sorted ascending.
	OrderAscending
	// OrderAny means the adapter accepts any requested order.
	OrderAny
)

func (o Order) String() string {
	switch o {
	case OrderAscending:
		return "ascending"
	case OrderAny:
		return "any"
	default:
		return "none"
	}
}

// FilterKind names a filter capability a column can declare.
type FilterKind int

const (
	// FilterRange allows inequality and between-style bounds.
	FilterRange FilterKind = iota
	// FilterEqual allows equality only.
	FilterEqual
)

func (k FilterKind) String() string {
	if k == FilterEqual {
		return "equal"
	}
	return "range"
}

// Column describes one column of an adapter's relation.
type Column struct {
	Name    string
	Type    Type
	Order   Order
	Filters []FilterKind

	// Exact reports whether the adapter fully enforces the declared
	// filters. When false the host must re-apply them to returned rows.
	Exact bool
}

// Filterable reports whether the column declares the given filter kind.
func (c Column) Filterable(kind FilterKind) bool {
	for _, k := range c.Filters {
		if k == kind {
			return true
		}
	}
	return false
}

// Schema is the ordered column set of a relation.
type Schema []Column

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Lookup returns the column with the given name.
func (s Schema) Lookup(name string) (Column, bool) {
	for _, c := range s {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Validate checks that bounds and order only reference known columns and
// that every bound uses a filter kind the column declares.
func (s Schema) Validate(bounds Bounds, order []OrderBy) error {
	for name, f := range bounds {
		col, ok := s.Lookup(name)
		if !ok {
			return fmt.Errorf("filter on unknown column %q", name)
		}
		if !col.Filterable(f.Kind()) {
			return fmt.Errorf("column %q does not support %s filters", name, f.Kind())
		}
	}
	for _, o := range order {
		col, ok := s.Lookup(o.Column)
		if !ok {
			return fmt.Errorf("order on unknown column %q", o.Column)
		}
		if col.Order == OrderNone {
			return fmt.Errorf("column %q cannot be ordered", o.Column)
		}
	}
	return nil
}
