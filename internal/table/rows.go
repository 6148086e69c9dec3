// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

// Row maps column names to typed scalars: string, int64, time.Time, or nil.
type Row map[string]any

// Rows is a forward-only cursor over rows an adapter has already fetched
// and decoded. It cannot be rewound; ask the adapter again for a fresh fetch.
type Rows struct {
	rows []Row
	pos  int

	// Count is the total number of records the remote reports for the
	// query, which may exceed the rows in this page. Zero when unknown.
	Count int

	// NextPage is the remote's link to the following page, if any.
	NextPage string
}

// NewRows wraps decoded rows in a cursor.
func NewRows(rows []Row) *Rows {
	return &Rows{rows: rows, pos: -1}
}

// Next advances to the next row and reports whether one exists.
func (r *Rows) Next() bool {
	if r.pos+1 >= len(r.rows) {
		r.pos = len(r.rows)
		return false
	}
	r.pos++
	return true
}

// Row returns the current row. It must only be called after Next
// returned true.
func (r *Rows) Row() Row {
	return r.rows[r.pos]
}

// Len returns the number of rows the cursor was built with.
func (r *Rows) Len() int {
	return len(r.rows)
}

// Collect drains the remaining rows into a slice.
func (r *Rows) Collect() []Row {
	var out []Row
	for r.Next() {
		out = append(out, r.Row())
	}
	return out
}
