// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package govinfo

import "github.com/pdiddy/govinfo-table/internal/table"

// Family plugs the GovInfo adapter into a table.Registry.
type Family struct {
	Classifier
	Fetcher Fetcher
	Options Options
}

// NewFamily returns a Family that accepts URIs for host and fetches
// through f.
func NewFamily(host string, f Fetcher, opts Options) *Family {
	return &Family{Classifier: Classifier{Host: host}, Fetcher: f, Options: opts}
}

// Name returns the family identifier used as the SQLite module name.
func (f *Family) Name() string { return "govinfo" }

// Open builds an adapter for uri. Classification is not cached; the URI is
// parsed again.
func (f *Family) Open(uri string) (table.Adapter, error) {
	return NewAdapter(uri, f.Fetcher, f.Options)
}

var _ table.Family = (*Family)(nil)
