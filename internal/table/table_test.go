// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFamily answers probes from fixed values and counts calls.
type fakeFamily struct {
	name          string
	cheap         Capability
	authoritative bool
	err           error

	cheapCalls int
	authCalls  int
}

func (f *fakeFamily) Name() string { return f.name }

func (f *fakeFamily) ProbeCheap(string) (Capability, error) {
	f.cheapCalls++
	return f.cheap, f.err
}

func (f *fakeFamily) ProbeAuthoritative(string) (bool, error) {
	f.authCalls++
	return f.authoritative, f.err
}

func (f *fakeFamily) Open(string) (Adapter, error) { return nil, nil }

func TestRegistryFind(t *testing.T) {
	tests := []struct {
		name     string
		families []*fakeFamily
		want     string
		wantErr  error
	}{
		{
			name: "cheap probe decides",
			families: []*fakeFamily{
				{name: "a", cheap: CapabilityUnsupported},
				{name: "b", cheap: CapabilitySupported},
			},
			want: "b",
		},
		{
			name: "unknown falls through to authoritative probe",
			families: []*fakeFamily{
				{name: "a", cheap: CapabilityUnknown, authoritative: true},
			},
			want: "a",
		},
		{
			name: "cheap supported beats earlier unknown",
			families: []*fakeFamily{
				{name: "a", cheap: CapabilityUnknown, authoritative: true},
				{name: "b", cheap: CapabilitySupported},
			},
			want: "b",
		},
		{
			name: "nobody supports",
			families: []*fakeFamily{
				{name: "a", cheap: CapabilityUnsupported},
				{name: "b", cheap: CapabilityUnknown, authoritative: false},
			},
			wantErr: ErrNoAdapter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			for _, f := range tt.families {
				reg.Register(f)
			}

			got, err := reg.Find("dummy://")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name())
		})
	}
}

func TestRegistryFindOnlyProbesUnknownAuthoritatively(t *testing.T) {
	no := &fakeFamily{name: "no", cheap: CapabilityUnsupported, authoritative: true}
	maybe := &fakeFamily{name: "maybe", cheap: CapabilityUnknown, authoritative: true}

	got, err := NewRegistry(no, maybe).Find("dummy://")
	require.NoError(t, err)
	assert.Equal(t, "maybe", got.Name())
	assert.Equal(t, 0, no.authCalls)
	assert.Equal(t, 1, maybe.authCalls)
}

func TestRegistryFindPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	later := &fakeFamily{name: "later", cheap: CapabilitySupported}
	reg := NewRegistry(&fakeFamily{name: "broken", err: boom}, later)

	_, err := reg.Find("dummy://")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, later.cheapCalls)
}

func TestRegistryRegisterDuplicatePanics(t *testing.T) {
	reg := NewRegistry(&fakeFamily{name: "a"})
	assert.Panics(t, func() { reg.Register(&fakeFamily{name: "a"}) })
	assert.Equal(t, []string{"a"}, reg.Families())
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry(&fakeFamily{name: "a"}, &fakeFamily{name: "b"})
	assert.Equal(t, []string{"a", "b"}, reg.Families())

	f, ok := reg.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "b", f.Name())

	_, ok = reg.Lookup("c")
	assert.False(t, ok)
}

func TestRowsCursor(t *testing.T) {
	rows := NewRows([]Row{{"n": int64(1)}, {"n": int64(2)}})
	assert.Equal(t, 2, rows.Len())

	require.True(t, rows.Next())
	assert.Equal(t, int64(1), rows.Row()["n"])
	require.True(t, rows.Next())
	assert.Equal(t, int64(2), rows.Row()["n"])
	assert.False(t, rows.Next())
	assert.False(t, rows.Next(), "cursor is not restartable")
	assert.Empty(t, rows.Collect())
}

func TestRowsEmpty(t *testing.T) {
	rows := NewRows(nil)
	assert.False(t, rows.Next())
	assert.Equal(t, 0, rows.Len())
}

func TestSchemaValidate(t *testing.T) {
	schema := Schema{
		{Name: "id", Type: TypeString, Order: OrderAny},
		{Name: "when", Type: TypeTimestamp, Order: OrderAny, Filters: []FilterKind{FilterRange}},
		{Name: "blob", Type: TypeString, Order: OrderNone},
	}

	tests := []struct {
		name    string
		bounds  Bounds
		order   []OrderBy
		wantErr string
	}{
		{name: "no requests"},
		{name: "range on range column", bounds: Bounds{"when": Range{Start: "x", IncludeStart: true}}},
		{name: "equal on range-only column", bounds: Bounds{"when": Equal{Value: "x"}}, wantErr: "does not support equal"},
		{name: "filter on unfilterable column", bounds: Bounds{"id": Range{End: "x"}}, wantErr: "does not support range"},
		{name: "unknown filter column", bounds: Bounds{"nope": Range{}}, wantErr: "unknown column"},
		{name: "order on orderable column", order: []OrderBy{{Column: "id", Direction: Descending}}},
		{name: "order on unorderable column", order: []OrderBy{{Column: "blob"}}, wantErr: "cannot be ordered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Validate(tt.bounds, tt.order)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
	assert.Equal(t, []string{"id", "when", "blob"}, schema.Names())
}

func TestRangeString(t *testing.T) {
	assert.Equal(t, ">= a and < b", Range{Start: "a", End: "b", IncludeStart: true}.String())
	assert.Equal(t, "<= b", Range{End: "b", IncludeEnd: true}.String())
	assert.Equal(t, "unbounded", Range{}.String())
}
