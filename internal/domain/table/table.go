package table

import (
	"strconv"
	"strings"
)

// Record maps a column name to its cell. Absent keys read as missing.
type Record map[string]Value

// Get returns the cell for column, or missing when the column is absent.
func (r Record) Get(column string) Value {
	if r == nil {
		return Value{}
	}
	return r[column]
}

// Table is an ordered, immutable collection of employee records.
// Columns are not fixed: callers check for presence with Has.
type Table struct {
	columns []string
	index   map[string]int
	rows    []Record
}

// New builds a table. Column names are trimmed of surrounding whitespace
// and names that collide after trimming become name.1, name.2, ...; row keys
// are re-keyed to the final names. A raw name listed twice keeps its cells
// under the first occurrence.
func New(columns []string, rows []Record) *Table {
	t := &Table{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
		rows:    make([]Record, len(rows)),
	}
	rename := make(map[string]string)
	seen := make(map[string]bool, len(columns))
	for i, c := range columns {
		base := strings.TrimSpace(c)
		name := base
		for n := 1; t.Has(name); n++ {
			name = base + "." + strconv.Itoa(n)
		}
		t.columns[i] = name
		t.index[name] = i
		if !seen[c] {
			seen[c] = true
			if name != c {
				rename[c] = name
			}
		}
	}
	for i, r := range rows {
		rec := make(Record, len(r))
		for k, v := range r {
			if to, ok := rename[k]; ok {
				k = to
			}
			if _, known := t.index[k]; known {
				rec[k] = v
			}
		}
		t.rows[i] = rec
	}
	return t
}

// Empty returns a table with no columns and no rows.
func Empty() *Table { return New(nil, nil) }

// Len returns the number of records.
func (t *Table) Len() int { return len(t.rows) }

// IsEmpty reports whether the table has no records.
func (t *Table) IsEmpty() bool { return len(t.rows) == 0 }

// Columns returns a copy of the ordered column names.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Has reports whether column is present.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Row returns a copy of the i-th record.
func (t *Table) Row(i int) Record {
	out := make(Record, len(t.rows[i]))
	for k, v := range t.rows[i] {
		out[k] = v
	}
	return out
}

// Value returns the cell at row i, column. Absent columns read as missing.
func (t *Table) Value(i int, column string) Value {
	return t.rows[i][column]
}

// Column returns the cells of column in row order, or nil when absent.
func (t *Table) Column(column string) []Value {
	if !t.Has(column) {
		return nil
	}
	out := make([]Value, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[column]
	}
	return out
}

// IsNumeric reports whether column exists and every non-missing cell is a
// number. A column with no observed values counts as numeric.
func (t *Table) IsNumeric(column string) bool {
	if !t.Has(column) {
		return false
	}
	for _, r := range t.rows {
		if r[column].Kind() == KindText {
			return false
		}
	}
	return true
}

// Floats returns the observed numeric cells of column, skipping missing
// and textual ones.
func (t *Table) Floats(column string) []float64 {
	var out []float64
	for _, r := range t.rows {
		if f, ok := r[column].Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// WithColumn returns a copy of t in which column holds values. An existing
// column is replaced in place; a new one is appended. values must have one
// entry per row.
func (t *Table) WithColumn(column string, values []Value) *Table {
	column = strings.TrimSpace(column)
	cols := t.Columns()
	if !t.Has(column) {
		cols = append(cols, column)
	}
	rows := make([]Record, len(t.rows))
	for i, r := range t.rows {
		rec := make(Record, len(r)+1)
		for k, v := range r {
			rec[k] = v
		}
		if i < len(values) {
			rec[column] = values[i]
		} else {
			rec[column] = Value{}
		}
		rows[i] = rec
	}
	return New(cols, rows)
}

// Select returns a new table holding only the given row indices, in order.
func (t *Table) Select(indices []int) *Table {
	rows := make([]Record, 0, len(indices))
	for _, i := range indices {
		rows = append(rows, t.rows[i])
	}
	return New(t.columns, rows)
}
