// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build sqlite_vtable

package sqlitevt

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/govinfo-table/internal/govinfo"
	"github.com/pdiddy/govinfo-table/internal/httputil"
	"github.com/pdiddy/govinfo-table/internal/table"
	"github.com/pdiddy/govinfo-table/pkg/types"
)

const testDriver = "sqlite3_govinfo_test"

const billsJSON = `{
  "count": 2,
  "packages": [
    {
      "packageId": "BILLS-118hr796ih",
      "lastModified": "2023-03-01T10:29:21Z",
      "packageLink": "https://api.govinfo.gov/packages/BILLS-118hr796ih/summary",
      "docClass": "hr",
      "title": "Supply Chain Mapping and Monitoring Act",
      "congress": "118",
      "dateIssued": "2023-02-02"
    },
    {
      "packageId": "BILLS-117s5ih",
      "lastModified": "2022-12-01T00:00:00Z",
      "packageLink": "https://api.govinfo.gov/packages/BILLS-117s5ih/summary",
      "docClass": "s",
      "title": "An Older Bill",
      "congress": 117,
      "dateIssued": "2022-11-30"
    }
  ]
}`

const billsURI = "https://api.govinfo.gov/collections/bills/2022-01-01T00%3A00%3A00Z?offset=0&pageSize=100&api_key=SECRET"

// recorder is a second family that captures the bounds it is asked for.
type recorder struct {
	mu     sync.Mutex
	bounds []table.Bounds
}

func (r *recorder) Name() string { return "recorder" }

func (r *recorder) ProbeCheap(uri string) (table.Capability, error) {
	if strings.HasPrefix(uri, "test://") {
		return table.CapabilityUnknown, nil
	}
	return table.CapabilityUnsupported, nil
}

func (r *recorder) ProbeAuthoritative(uri string) (bool, error) {
	return strings.HasPrefix(uri, "test://"), nil
}

func (r *recorder) Open(string) (table.Adapter, error) { return r, nil }

func (r *recorder) Columns() table.Schema {
	return table.Schema{
		{Name: "n", Type: table.TypeInteger, Order: table.OrderAny, Filters: []table.FilterKind{table.FilterRange}},
		{Name: "label", Type: table.TypeString, Order: table.OrderAny},
	}
}

func (r *recorder) Rows(_ context.Context, bounds table.Bounds, _ []table.OrderBy) (*table.Rows, error) {
	r.mu.Lock()
	r.bounds = append(r.bounds, bounds)
	r.mu.Unlock()

	var rows []table.Row
	for i := int64(1); i <= 5; i++ {
		rows = append(rows, table.Row{"n": i, "label": strings.Repeat("x", int(i))})
	}
	return table.NewRows(rows), nil
}

func (r *recorder) last() table.Bounds {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bounds[len(r.bounds)-1]
}

var rec = &recorder{}

func TestMain(m *testing.M) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "SECRET" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(billsJSON))
	}))

	client := httputil.NewClientWith(ts.Client(), types.HTTPConfig{}, nil, nil)
	reg := table.NewRegistry(
		govinfo.NewFamily("", client, govinfo.Options{BaseURL: ts.URL}),
		rec,
	)
	Register(testDriver, reg, Options{})

	code := m.Run()
	ts.Close()
	os.Exit(code)
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(testDriver)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSelectAll(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	require.NoError(t, CreateTable(ctx, db, "bills", "govinfo", billsURI))

	schema, rows, err := Query(ctx, db, `SELECT * FROM bills ORDER BY package_id`)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"package_id", "last_modified", "package_link", "doc_class", "title", "congress", "date_issued",
	}, schema.Names())
	require.Len(t, rows, 2)

	assert.Equal(t, "BILLS-117s5ih", rows[0]["package_id"])
	assert.Equal(t, int64(117), rows[0]["congress"])

	hr := rows[1]
	assert.Equal(t, "BILLS-118hr796ih", hr["package_id"])
	assert.Equal(t, int64(118), hr["congress"])
	assert.Equal(t, "2023-02-02", hr["date_issued"])
	lm, ok := hr["last_modified"].(time.Time)
	require.True(t, ok, "TIMESTAMP column scans as time.Time, got %T", hr["last_modified"])
	assert.True(t, lm.Equal(time.Date(2023, 3, 1, 10, 29, 21, 0, time.UTC)))
}

func TestWhereOnTimestampIsEnforced(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	require.NoError(t, CreateTable(ctx, db, "bills", "govinfo", billsURI))

	_, rows, err := Query(ctx, db, `SELECT package_id FROM bills WHERE last_modified >= ?`, "2023-01-01T00:00:00Z")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "BILLS-118hr796ih", rows[0]["package_id"])

	_, rows, err = Query(ctx, db, `SELECT package_id FROM bills WHERE last_modified < '2023-01-01' AND date_issued = '2022-11-30'`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "BILLS-117s5ih", rows[0]["package_id"])
}

func TestWhereOnOtherColumnsLeftToSQLite(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	require.NoError(t, CreateTable(ctx, db, "bills", "govinfo", billsURI))

	_, rows, err := Query(ctx, db, `SELECT title FROM bills WHERE congress > 117 AND doc_class = 'hr'`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Supply Chain Mapping and Monitoring Act", rows[0]["title"])
}

func TestOrderByIsDoneBySQLite(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	require.NoError(t, CreateTable(ctx, db, "bills", "govinfo", billsURI))

	_, rows, err := Query(ctx, db, `SELECT congress FROM bills ORDER BY congress ASC`)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(117), rows[0]["congress"])
	assert.Equal(t, int64(118), rows[1]["congress"])
}

func TestRejectedURIs(t *testing.T) {
	tests := []struct {
		name    string
		module  string
		uri     string
		wantMsg string
	}{
		{"missing pageSize", "govinfo", "https://api.govinfo.gov/collections/bills/2022-01-01T00:00:00Z?offset=0&api_key=SECRET", table.ErrNoAdapter.Error()},
		{"unknown endpoint", "govinfo", "https://api.govinfo.gov/search?api_key=SECRET", "unknown endpoint"},
		{"not implemented", "govinfo", "https://api.govinfo.gov/packages/X/summary?api_key=SECRET", "not implemented"},
		{"recorder URI on govinfo module", "govinfo", "test://numbers", "names no endpoint"},
		{"remote with no endpoint segment", RemoteModule, "test://numbers", "names no endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openDB(t)
			err := CreateTable(context.Background(), db, "t", tt.module, tt.uri)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.NotContains(t, err.Error(), "SECRET")
		})
	}
}

func TestRemoteModuleNegotiates(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	// The govinfo family sees an unrelated host with a known endpoint and
	// declines, leaving the recorder to answer authoritatively.
	require.NoError(t, CreateTable(ctx, db, "nums", RemoteModule, "test://numbers/collections"))
	require.NoError(t, CreateTable(ctx, db, "bills", RemoteModule, billsURI))

	_, rows, err := Query(ctx, db, `SELECT count(*) AS n FROM bills`)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows[0]["n"])

	_, rows, err = Query(ctx, db, `SELECT n FROM nums WHERE n > 1 AND n <= 4 AND n >= 2 ORDER BY n DESC`)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(4), rows[0]["n"])
	assert.Equal(t, int64(2), rows[2]["n"])

	got, ok := rec.last()["n"].(table.Range)
	require.True(t, ok)
	assert.Equal(t, int64(2), got.Start)
	assert.True(t, got.IncludeStart)
	assert.Equal(t, int64(4), got.End)
	assert.True(t, got.IncludeEnd)
}

func TestEqualityOnRangeColumn(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	require.NoError(t, CreateTable(ctx, db, "nums", "recorder", "test://numbers"))

	_, rows, err := Query(ctx, db, `SELECT label FROM nums WHERE n = 3`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "xxx", rows[0]["label"])

	for _, q := range []string{
		`SELECT label FROM nums WHERE n = NULL`,
		`SELECT label FROM nums WHERE n > NULL`,
		`SELECT label FROM nums WHERE n <= NULL`,
	} {
		_, rows, err = Query(ctx, db, q)
		require.NoError(t, err, q)
		assert.Empty(t, rows, q)
	}
}

func TestNullConstraintOnGovInfoColumns(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	require.NoError(t, CreateTable(ctx, db, "bills", "govinfo", billsURI))

	for _, q := range []string{
		`SELECT package_id FROM bills WHERE last_modified = NULL`,
		`SELECT package_id FROM bills WHERE last_modified > NULL`,
		`SELECT package_id FROM bills WHERE date_issued = NULL`,
		`SELECT package_id FROM bills WHERE date_issued < NULL`,
	} {
		_, rows, err := Query(ctx, db, q)
		require.NoError(t, err, q)
		assert.Empty(t, rows, q)
	}
}

func TestConstraintValue(t *testing.T) {
	assert.Nil(t, constraintValue([]byte{}))
	assert.Nil(t, constraintValue([]byte(nil)))
	assert.Equal(t, "", constraintValue(""))
	assert.Equal(t, int64(3), constraintValue(int64(3)))
	assert.Equal(t, []byte("x"), constraintValue([]byte("x")))
}

func TestCreateTableRejectsBadModule(t *testing.T) {
	db := openDB(t)
	err := CreateTable(context.Background(), db, "t", "gov info", billsURI)
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "a'b", unquote(`'a''b'`))
	assert.Equal(t, `x"y`, unquote(`"x""y"`))
	assert.Equal(t, "bare", unquote("bare"))
	assert.Equal(t, `"we""ird"`, quoteIdent(`we"ird`))
	assert.Equal(t, `CREATE TABLE x ("n" INTEGER, "label" TEXT)`, declareSQL(rec.Columns()))

	_, err := moduleURI([]string{"govinfo", "main", "t"})
	assert.Error(t, err)
}
