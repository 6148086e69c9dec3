// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNoAdapter is returned when no registered family accepts a URI.
var ErrNoAdapter = errors.New("no adapter supports this table")

// Adapter serves one relation for one query session.
type Adapter interface {
	// Columns returns the relation's schema. It never touches the network.
	Columns() Schema

	// Rows fetches the relation. Bounds and order are requests; columns
	// declared inexact may return rows outside the bounds and in any order.
	Rows(ctx context.Context, bounds Bounds, order []OrderBy) (*Rows, error)
}

// Family is an adapter factory that takes part in capability negotiation.
type Family interface {
	// Name identifies the family, e.g. "govinfo".
	Name() string

	// ProbeCheap answers without network access. It may return
	// CapabilityUnknown to ask for an authoritative probe.
	ProbeCheap(uri string) (Capability, error)

	// ProbeAuthoritative gives the final answer.
	ProbeAuthoritative(uri string) (bool, error)

	// Open parses the URI again and builds an adapter for it.
	Open(uri string) (Adapter, error)
}

// Registry holds adapter families in registration order.
type Registry struct {
	mu       sync.RWMutex
	families []Family
}

// NewRegistry creates a registry holding the given families.
func NewRegistry(families ...Family) *Registry {
	r := &Registry{}
	for _, f := range families {
		r.Register(f)
	}
	return r
}

// Register adds a family. Panics if a family with the same name exists.
func (r *Registry) Register(f Family) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.families {
		if existing.Name() == f.Name() {
			panic(fmt.Sprintf("adapter family already registered: %s", f.Name()))
		}
	}
	r.families = append(r.families, f)
}

// Families returns the registered family names in order.
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.families))
	for i, f := range r.families {
		names[i] = f.Name()
	}
	return names
}

// Lookup returns the family registered under name.
func (r *Registry) Lookup(name string) (Family, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.families {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// Find negotiates which family serves uri. Every family is probed cheaply
// first and the first one answering supported wins. Families that answered
// unknown are then probed authoritatively in order. A probe error aborts
// the negotiation and is returned as is.
func (r *Registry) Find(uri string) (Family, error) {
	r.mu.RLock()
	families := append([]Family(nil), r.families...)
	r.mu.RUnlock()

	var candidates []Family
	for _, f := range families {
		c, err := f.ProbeCheap(uri)
		if err != nil {
			return nil, err
		}
		switch c {
		case CapabilitySupported:
			return f, nil
		case CapabilityUnknown:
			candidates = append(candidates, f)
		}
	}

	for _, f := range candidates {
		ok, err := f.ProbeAuthoritative(uri)
		if err != nil {
			return nil, err
		}
		if ok {
			return f, nil
		}
	}

	// The URI is left out of the error: it usually carries an API key.
	return nil, ErrNoAdapter
}

// Open negotiates a family for uri and opens an adapter with it.
func (r *Registry) Open(uri string) (Adapter, error) {
	f, err := r.Find(uri)
	if err != nil {
		return nil, err
	}
	return f.Open(uri)
}
