// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package govinfo

import "github.com/pdiddy/govinfo-table/internal/table"

// collectionsColumns is the fixed relation of the collections endpoint.
// date_issued stays a string: parsing it as a date lost rows downstream and
// the cause is not diagnosed.
var collectionsColumns = table.Schema{
	{Name: "package_id", Type: table.TypeString, Order: table.OrderAny},
	{Name: "last_modified", Type: table.TypeTimestamp, Order: table.OrderAny, Filters: []table.FilterKind{table.FilterRange}},
	{Name: "package_link", Type: table.TypeString, Order: table.OrderAny},
	{Name: "doc_class", Type: table.TypeString, Order: table.OrderAny},
	{Name: "title", Type: table.TypeString, Order: table.OrderAny},
	{Name: "congress", Type: table.TypeInteger, Order: table.OrderAny},
	{Name: "date_issued", Type: table.TypeString, Order: table.OrderAny, Filters: []table.FilterKind{table.FilterRange}},
}

// Columns returns the schema served for an endpoint. It is derived from the
// endpoint alone.
func Columns(e Endpoint) (table.Schema, error) {
	switch e {
	case EndpointCollections:
		out := make(table.Schema, len(collectionsColumns))
		copy(out, collectionsColumns)
		return out, nil
	case EndpointPackages, EndpointPublished, EndpointRelated:
		return nil, &NotImplementedError{Endpoint: e}
	default:
		return nil, &ConfigError{Segment: e.String()}
	}
}
