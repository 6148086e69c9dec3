// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package govinfo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pdiddy/govinfo-table/internal/table"
)

var (
	errMissingField = errors.New("missing from record")
	errNotString    = errors.New("not a string")
	errBadTimestamp = errors.New("not a YYYY-MM-DDTHH:MM:SSZ timestamp")
	errNotInteger   = errors.New("not an integer")
)

// GovInfo collections JSON structures.
type collectionsResponse struct {
	Count    int                          `json:"count"`
	NextPage string                       `json:"nextPage"`
	Packages []map[string]json.RawMessage `json:"packages"`
}

// recordFields lists the remote keys every package record must carry, in
// column order.
var recordFields = []struct {
	remote string
	column string
	decode func(json.RawMessage) (any, error)
}{
	{"packageId", "package_id", decodeRequiredString},
	{"lastModified", "last_modified", decodeTimestamp},
	{"packageLink", "package_link", decodeString},
	{"docClass", "doc_class", decodeString},
	{"title", "title", decodeString},
	{"congress", "congress", decodeInteger},
	{"dateIssued", "date_issued", decodeString},
}

// decodeCollections maps a collections response body to rows. The first
// malformed record fails the whole page; no partial result is returned.
func decodeCollections(body []byte) (*table.Rows, error) {
	var resp collectionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing GovInfo response: %w", err)
	}

	rows := make([]table.Row, 0, len(resp.Packages))
	for i, record := range resp.Packages {
		row, err := decodeRecord(i, record)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	out := table.NewRows(rows)
	out.Count = resp.Count
	out.NextPage = resp.NextPage
	return out, nil
}

func decodeRecord(index int, record map[string]json.RawMessage) (table.Row, error) {
	row := make(table.Row, len(recordFields))
	for _, f := range recordFields {
		raw, ok := record[f.remote]
		if !ok {
			return nil, &ParseError{Index: index, Field: f.remote, Err: errMissingField}
		}
		v, err := f.decode(raw)
		if err != nil {
			return nil, &ParseError{Index: index, Field: f.remote, Value: string(raw), Err: err}
		}
		row[f.column] = v
	}
	return row, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeString passes JSON null through as a nil value.
func decodeString(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errNotString
	}
	return s, nil
}

func decodeRequiredString(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, errNotString
	}
	return decodeString(raw)
}

// decodeTimestamp strict-parses lastModified to a UTC time. time.Parse
// tolerates fractional seconds the layout does not mention, so the shape is
// checked first.
func decodeTimestamp(raw json.RawMessage) (any, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || !ValidDate(s) {
		return nil, errBadTimestamp
	}
	t, err := time.Parse(table.TimestampLayout, s)
	if err != nil {
		return nil, errBadTimestamp
	}
	return t.UTC(), nil
}

// decodeInteger accepts congress as a JSON number or a numeric string.
func decodeInteger(raw json.RawMessage) (any, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errNotInteger
		}
		return n, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil || isNull(raw) {
		return nil, errNotInteger
	}
	v, err := n.Int64()
	if err != nil {
		return nil, errNotInteger
	}
	return v, nil
}
