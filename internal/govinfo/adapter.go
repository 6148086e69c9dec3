// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package govinfo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/govinfo-table/internal/table"
)

// Fetcher performs one blocking GET and returns the response body. The
// transport owns timeouts, retries, and caching.
type Fetcher interface {
	Get(ctx context.Context, rawURL string, params url.Values) ([]byte, error)
}

// Options tunes how an Adapter reaches the API.
type Options struct {
	// BaseURL replaces scheme://authority from the URI when building the
	// request, e.g. to point at a test server. Empty keeps the URI's own.
	BaseURL string
}

// Metadata describes the parameters an Adapter was built from. It never
// carries the API key.
type Metadata struct {
	Endpoint   string `json:"endpoint" yaml:"endpoint"`
	Collection string `json:"collection" yaml:"collection"`
	StartDate  string `json:"start_date" yaml:"start_date"`
	EndDate    string `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Offset     string `json:"offset" yaml:"offset"`
	PageSize   string `json:"page_size" yaml:"page_size"`
}

// Adapter serves the collections relation for one URI. All fields are set
// by NewAdapter and never change.
type Adapter struct {
	fetcher Fetcher

	baseURL  string
	apiKey   string
	endpoint Endpoint

	collection string
	startDate  string
	endDate    string // empty when open-ended
	offset     string
	pageSize   string

	columns table.Schema
}

// NewAdapter parses uri again and captures what the fetch needs. The URI
// is expected to have passed classification; the checks here only guard
// against direct misuse.
func NewAdapter(uri string, fetcher Fetcher, opts Options) (*Adapter, error) {
	q, err := ParseCapabilityQuery(uri)
	if err != nil {
		return nil, err
	}

	endpoint, err := ParseEndpoint(q.Segment(0))
	if err != nil {
		return nil, err
	}
	if endpoint != EndpointCollections {
		return nil, &NotImplementedError{Endpoint: endpoint}
	}
	if len(q.Segments) < 3 {
		return nil, fmt.Errorf("govinfo: collections URI needs collection and start date")
	}
	for _, key := range []string{"api_key", "offset", "pageSize"} {
		if !q.Has(key) {
			return nil, fmt.Errorf("govinfo: URI missing %s parameter", key)
		}
	}

	columns, err := Columns(endpoint)
	if err != nil {
		return nil, err
	}

	base := opts.BaseURL
	if base == "" {
		base = q.Scheme + "://" + q.Authority
	}

	return &Adapter{
		fetcher:    fetcher,
		baseURL:    strings.TrimSuffix(base, "/"),
		apiKey:     q.First("api_key"),
		endpoint:   endpoint,
		collection: q.Segments[1],
		startDate:  q.Segments[2],
		endDate:    q.Segment(3),
		offset:     q.First("offset"),
		pageSize:   q.First("pageSize"),
		columns:    columns,
	}, nil
}

// Columns returns the relation's schema.
func (a *Adapter) Columns() table.Schema {
	return a.columns
}

// Metadata returns the instance parameters.
func (a *Adapter) Metadata() Metadata {
	return Metadata{
		Endpoint:   a.endpoint.String(),
		Collection: a.collection,
		StartDate:  a.startDate,
		EndDate:    a.endDate,
		Offset:     a.offset,
		PageSize:   a.pageSize,
	}
}

// RequestURL returns the URL Rows will fetch, without query parameters.
// The trailing slash is kept when there is no end date.
func (a *Adapter) RequestURL() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		a.baseURL,
		a.endpoint,
		url.PathEscape(a.collection),
		url.PathEscape(a.startDate),
		url.PathEscape(a.endDate),
	)
}

func (a *Adapter) params() url.Values {
	return url.Values{
		"offset":   {a.offset},
		"pageSize": {a.pageSize},
		"api_key":  {a.apiKey},
	}
}

// Rows performs one GET for the page named by the URI and decodes it.
// bounds and order are accepted but not pushed down; every column is
// declared inexact so the host filters and sorts.
func (a *Adapter) Rows(ctx context.Context, bounds table.Bounds, order []table.OrderBy) (*table.Rows, error) {
	if err := a.columns.Validate(bounds, order); err != nil {
		return nil, err
	}

	body, err := a.fetcher.Get(ctx, a.RequestURL(), a.params())
	if err != nil {
		return nil, fmt.Errorf("fetching %s %s: %w", a.endpoint, a.collection, err)
	}
	return decodeCollections(body)
}
