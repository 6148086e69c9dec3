// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package govinfo

import "github.com/pdiddy/govinfo-table/internal/table"

// DefaultHost is the authority every accepted URI must carry.
const DefaultHost = "api.govinfo.gov"

// Classifier decides whether a URI belongs to the GovInfo adapter. It never
// touches the network.
type Classifier struct {
	// Host is the required URI authority. Empty means DefaultHost.
	Host string
}

func (c Classifier) host() string {
	if c.Host == "" {
		return DefaultHost
	}
	return c.Host
}

// ProbeCheap is the first call of the capability handshake. All rules are
// offline, so it already answers supported or unsupported; it never
// returns CapabilityUnknown today.
func (c Classifier) ProbeCheap(uri string) (table.Capability, error) {
	ok, err := c.classify(uri)
	if err != nil {
		return table.CapabilityUnknown, err
	}
	return table.CapabilityOf(ok), nil
}

// ProbeAuthoritative is the second, final call of the handshake.
func (c Classifier) ProbeAuthoritative(uri string) (bool, error) {
	return c.classify(uri)
}

// Classify answers both calls of the handshake through one entry point:
// fast selects the cheap probe.
func (c Classifier) Classify(uri string, fast bool) (table.Capability, error) {
	if fast {
		return c.ProbeCheap(uri)
	}
	ok, err := c.ProbeAuthoritative(uri)
	if err != nil {
		return table.CapabilityUnknown, err
	}
	return table.CapabilityOf(ok), nil
}

// classify applies the rules in order: endpoint selection (fatal when the
// segment is unknown), the endpoint's own rule, then authority and api_key.
// The endpoint is resolved before the authority check, so an unknown first
// segment is an error even for foreign hosts.
func (c Classifier) classify(uri string) (bool, error) {
	q, err := ParseCapabilityQuery(uri)
	if err != nil {
		return false, nil
	}

	endpoint, err := ParseEndpoint(q.Segment(0))
	if err != nil {
		return false, err
	}

	supported, err := endpoint.Supports(q)
	if err != nil {
		return false, err
	}

	return q.Authority == c.host() && supported && q.Has("api_key"), nil
}
