// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package govinfo

import (
	"regexp"
	"strings"
)

// Endpoint is one of the four top-level GovInfo resource families. The set
// is closed: ParseEndpoint rejects anything else.
type Endpoint int

const (
	EndpointCollections Endpoint = iota + 1
	EndpointPackages
	EndpointPublished
	EndpointRelated
)

func (e Endpoint) String() string {
	switch e {
	case EndpointCollections:
		return "collections"
	case EndpointPackages:
		return "packages"
	case EndpointPublished:
		return "published"
	case EndpointRelated:
		return "related"
	default:
		return "unknown"
	}
}

// ParseEndpoint maps a path segment to its Endpoint. The match is exact and
// case-sensitive; any other value is a *ConfigError.
func ParseEndpoint(segment string) (Endpoint, error) {
	switch segment {
	case "collections":
		return EndpointCollections, nil
	case "packages":
		return EndpointPackages, nil
	case "published":
		return EndpointPublished, nil
	case "related":
		return EndpointRelated, nil
	default:
		return 0, &ConfigError{Segment: segment}
	}
}

// rule decides whether an endpoint can serve a parsed URI.
type rule func(q CapabilityQuery) (bool, error)

// rules holds exactly one acceptance rule per endpoint.
var rules = map[Endpoint]rule{
	EndpointCollections: supportsCollections,
	EndpointPackages:    notImplemented(EndpointPackages),
	EndpointPublished:   notImplemented(EndpointPublished),
	EndpointRelated:     notImplemented(EndpointRelated),
}

// Supports applies the endpoint's acceptance rule to q.
func (e Endpoint) Supports(q CapabilityQuery) (bool, error) {
	r, ok := rules[e]
	if !ok {
		return false, &ConfigError{Segment: e.String()}
	}
	return r(q)
}

func notImplemented(e Endpoint) rule {
	return func(CapabilityQuery) (bool, error) {
		return false, &NotImplementedError{Endpoint: e}
	}
}

// SupportedCollections lists the collection codes this adapter serves,
// lower-cased.
var SupportedCollections = []string{"bills"}

// datePattern is the strict UTC timestamp GovInfo uses in paths and in
// lastModified: no fractional seconds, literal Z.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)

// ValidDate reports whether s is a strict GovInfo timestamp.
func ValidDate(s string) bool {
	return datePattern.MatchString(s)
}

func supportedCollection(name string) bool {
	name = strings.ToLower(name)
	for _, c := range SupportedCollections {
		if c == name {
			return true
		}
	}
	return false
}

// supportsCollections accepts
// /collections/<collection>/<startDate>[/<endDate>]?offset=..&pageSize=..
func supportsCollections(q CapabilityQuery) (bool, error) {
	if len(q.Segments) < 3 || len(q.Segments) > 4 {
		return false, nil
	}

	if !supportedCollection(q.Segments[1]) {
		return false, nil
	}
	if !ValidDate(q.Segments[2]) {
		return false, nil
	}
	if len(q.Segments) == 4 && !ValidDate(q.Segments[3]) {
		return false, nil
	}

	return q.Has("offset") && q.Has("pageSize"), nil
}
