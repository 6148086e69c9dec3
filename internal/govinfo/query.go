// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package govinfo

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// CapabilityQuery is the parsed form of a candidate URI. It is built fresh
// for every classification and never modified afterwards.
type CapabilityQuery struct {
	Scheme    string
	Authority string

	// Segments holds the path segments after the leading slash: endpoint,
	// collection, start date, end date. Only the two date segments are
	// percent-decoded; the rest are kept as written.
	Segments []string

	// Params maps each query key to all of its non-empty values.
	Params url.Values
}

// dateSegments are the indexes of Segments that are percent-decoded.
var dateSegments = map[int]bool{2: true, 3: true}

// ParseCapabilityQuery splits uri into authority, path segments, and query
// parameters. Malformed escapes are kept literally rather than rejected,
// and blank parameter values are dropped, so "offset=" counts as no offset
// at all. Only a URI with control characters or an unbalanced IPv6
// bracket fails to parse.
func ParseCapabilityQuery(uri string) (CapabilityQuery, error) {
	for _, r := range uri {
		if r < 0x20 || r == 0x7f {
			return CapabilityQuery{}, fmt.Errorf("parsing URI: invalid control character %q", r)
		}
	}

	rest, _, _ := strings.Cut(uri, "#")
	rest, rawQuery, _ := strings.Cut(rest, "?")

	var scheme string
	if i := strings.IndexByte(rest, ':'); i > 0 && validScheme(rest[:i]) {
		scheme, rest = strings.ToLower(rest[:i]), rest[i+1:]
	}

	var authority, path string
	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		end := strings.IndexByte(rest, '/')
		if end < 0 {
			end = len(rest)
		}
		authority, path = rest[:end], rest[end:]
		if strings.Count(authority, "[") != strings.Count(authority, "]") {
			return CapabilityQuery{}, fmt.Errorf("parsing URI: invalid IPv6 authority %q", authority)
		}
	} else {
		path = rest
	}

	var segments []string
	if path != "" && path != "/" {
		for i, seg := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
			if dateSegments[i] {
				seg = unescape(seg, false)
			}
			segments = append(segments, seg)
		}
	}

	return CapabilityQuery{
		Scheme:    scheme,
		Authority: authority,
		Segments:  segments,
		Params:    parseParams(rawQuery),
	}, nil
}

// parseParams splits a query string on '&'. Pairs without '=' and pairs
// with an empty value are skipped; keys and values are unescaped with '+'
// read as a space.
func parseParams(raw string) url.Values {
	params := url.Values{}
	for _, pair := range strings.Split(raw, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || value == "" {
			continue
		}
		params.Add(unescape(key, true), unescape(value, true))
	}
	return params
}

// unescape decodes every well-formed %XX sequence in s and leaves malformed
// ones as written. Invalid UTF-8 in the result is replaced with U+FFFD.
func unescape(s string, plus bool) string {
	if plus {
		s = strings.ReplaceAll(s, "+", " ")
	}
	if !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	out := b.String()
	if !utf8.ValidString(out) {
		out = strings.ToValidUTF8(out, "\uFFFD")
	}
	return out
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func validScheme(s string) bool {
	for i, r := range s {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && ('0' <= r && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// Segment returns the i-th path segment, or "" when the path is shorter.
func (q CapabilityQuery) Segment(i int) string {
	if i < len(q.Segments) {
		return q.Segments[i]
	}
	return ""
}

// Has reports whether the query string carries a non-empty value for key.
func (q CapabilityQuery) Has(key string) bool {
	return len(q.Params[key]) > 0
}

// First returns the first value for key; repeated keys beyond the first
// are ignored.
func (q CapabilityQuery) First(key string) string {
	return q.Params.Get(key)
}
