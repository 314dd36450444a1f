package tabular

// Row is a fixed-width mapping from column name to scalar value.
type Row = map[string]any

// Result is a fully materialized query result: an ordered column list
// plus the rows read from the cursor. A zero-row Result is valid.
type Result struct {
	Columns []string
	Rows    []Row
}

// NewResult creates an empty result with the given column order.
func NewResult(columns []string) *Result {
	return &Result{
		Columns: columns,
		Rows:    []Row{},
	}
}

// Append adds a row to the result.
func (r *Result) Append(row Row) {
	r.Rows = append(r.Rows, row)
}

// Len returns the number of rows.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Empty reports whether the result has zero rows.
func (r *Result) Empty() bool {
	return r.Len() == 0
}
