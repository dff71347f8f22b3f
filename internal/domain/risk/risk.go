// Package risk computes attrition rates grouped by a categorical dimension.
package risk

import (
	"sort"

	"github.com/okian/attrition/internal/domain/features"
	"github.com/okian/attrition/internal/domain/table"
)

// Grouping dimensions used by the dashboard.
const (
	DepartmentColumn = "Department"
	JobRoleColumn    = "JobRole"
)

// NotAvailable is the top key when no group could be computed.
const NotAvailable = "N/A"

// Row is the attrition summary of one group.
type Row struct {
	Key      string  `json:"key"`
	Total    int     `json:"total"`
	Attrited int     `json:"attrited"`
	Rate     float64 `json:"rate"`
}

// Result holds the groups of one dimension, in first-occurrence order, and
// the key of the highest-rate group.
type Result struct {
	Dimension string `json:"dimension"`
	Rows      []Row  `json:"rows"`
	Top       string `json:"top"`
}

// Available reports whether any group was computed.
func (r Result) Available() bool { return len(r.Rows) > 0 }

// ByDimension groups t by dimension and computes each group's attrition
// rate from flagColumn. Rows with a missing dimension or flag are skipped.
// When either column is absent the result is empty with Top = N/A.
//
// Ties for the highest rate go to the group seen first in row order.
func ByDimension(t *table.Table, flagColumn, dimension string) Result {
	res := Result{Dimension: dimension, Rows: []Row{}, Top: NotAvailable}
	if !t.Has(dimension) || !t.Has(flagColumn) {
		return res
	}

	type acc struct {
		total, attrited int
	}
	index := make(map[string]int)
	var accs []acc
	for i := 0; i < t.Len(); i++ {
		key := t.Value(i, dimension)
		flag := t.Value(i, flagColumn)
		if key.IsMissing() || flag.IsMissing() {
			continue
		}
		pos, seen := index[key.String()]
		if !seen {
			pos = len(accs)
			index[key.String()] = pos
			accs = append(accs, acc{})
			res.Rows = append(res.Rows, Row{Key: key.String()})
		}
		accs[pos].total++
		if features.IsTruthy(flag) {
			accs[pos].attrited++
		}
	}

	best := -1
	for i, a := range accs {
		row := &res.Rows[i]
		row.Total = a.total
		row.Attrited = a.attrited
		row.Rate = 100 * float64(a.attrited) / float64(a.total)
		if best < 0 || row.Rate > res.Rows[best].Rate {
			best = i
		}
	}
	if best >= 0 {
		res.Top = res.Rows[best].Key
	}
	return res
}

// Top returns up to n rows ordered by descending rate. Equal rates keep
// their first-occurrence order.
func Top(rows []Row, n int) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rate > out[j].Rate })
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
