// Package insights computes the secondary dashboard panels: role pay
// bands, the numeric correlation matrix, the overtime breakdown and
// age-bucket risk.
package insights

import (
	"math"
	"sort"

	"github.com/okian/attrition/internal/domain/features"
	"github.com/okian/attrition/internal/domain/kpi"
	"github.com/okian/attrition/internal/domain/risk"
	"github.com/okian/attrition/internal/domain/table"
	"gonum.org/v1/gonum/stat"
)

// RoleBand is the pay and attrition profile of one job role.
type RoleBand struct {
	Role      string     `json:"role"`
	AvgIncome kpi.Metric `json:"avg_income"`
	Rate      float64    `json:"rate"`
	Count     int        `json:"count"`
}

// Correlations is a symmetric Pearson matrix over numeric columns.
// Pairs without enough variation are not available.
type Correlations struct {
	Columns []string       `json:"columns"`
	Values  [][]kpi.Metric `json:"values"`
}

// CrossCell counts the rows sharing one overtime and attrition answer.
type CrossCell struct {
	OverTime  string `json:"overtime"`
	Attrition string `json:"attrition"`
	Count     int    `json:"count"`
}

// Report bundles every panel. Panels whose columns are absent are empty.
type Report struct {
	RoleBands    []RoleBand   `json:"role_bands"`
	Correlations Correlations `json:"correlations"`
	Overtime     []CrossCell  `json:"overtime"`
	AgeRisk      []risk.Row   `json:"age_risk"`
}

// Compute builds all panels for a derived table.
func Compute(t *table.Table) Report {
	return Report{
		RoleBands:    RoleBands(t),
		Correlations: Correlate(t),
		Overtime:     OvertimeBreakdown(t),
		AgeRisk:      AgeRisk(t),
	}
}

// RoleBands returns one band per job role, highest attrition rate first.
// Needs JobRole and the attrition flag; income is N/A when MonthlyIncome
// is absent or non-numeric.
func RoleBands(t *table.Table) []RoleBand {
	out := []RoleBand{}
	if !t.Has(risk.JobRoleColumn) || !t.Has(features.FlagColumn) {
		return out
	}
	grouped := risk.ByDimension(t, features.FlagColumn, risk.JobRoleColumn)
	incomes := make(map[string][]float64, len(grouped.Rows))
	if t.IsNumeric(kpi.MonthlyIncomeColumn) {
		for i := 0; i < t.Len(); i++ {
			if f, ok := t.Value(i, kpi.MonthlyIncomeColumn).Float(); ok {
				role := t.Value(i, risk.JobRoleColumn)
				if !role.IsMissing() {
					incomes[role.String()] = append(incomes[role.String()], f)
				}
			}
		}
	}
	for _, row := range risk.Top(grouped.Rows, -1) {
		band := RoleBand{Role: row.Key, Rate: kpi.Round1(row.Rate), Count: row.Total, AvgIncome: kpi.Unavailable()}
		if values := incomes[row.Key]; len(values) > 0 {
			band.AvgIncome = kpi.Available(math.Round(stat.Mean(values, nil)))
		}
		out = append(out, band)
	}
	return out
}

// Correlate computes pairwise Pearson correlations between the numeric
// columns, using the rows where both values are present.
func Correlate(t *table.Table) Correlations {
	var cols []string
	for _, c := range t.Columns() {
		if t.IsNumeric(c) && len(t.Floats(c)) > 0 {
			cols = append(cols, c)
		}
	}
	res := Correlations{Columns: cols, Values: make([][]kpi.Metric, len(cols))}
	if cols == nil {
		res.Columns = []string{}
	}
	for i := range cols {
		res.Values[i] = make([]kpi.Metric, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			m := pearson(t, cols[i], cols[j])
			res.Values[i][j] = m
			res.Values[j][i] = m
		}
	}
	return res
}

func pearson(t *table.Table, a, b string) kpi.Metric {
	var xs, ys []float64
	for i := 0; i < t.Len(); i++ {
		x, okx := t.Value(i, a).Float()
		y, oky := t.Value(i, b).Float()
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return kpi.Unavailable()
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return kpi.Unavailable()
	}
	return kpi.Available(math.Round(r*1000) / 1000)
}

// OvertimeBreakdown counts rows per (OverTime, Attrition) answer pair,
// ordered by both keys. Rows missing either answer are skipped.
func OvertimeBreakdown(t *table.Table) []CrossCell {
	out := []CrossCell{}
	if !t.Has(kpi.OverTimeColumn) || !t.Has(features.AttritionColumn) {
		return out
	}
	type pair struct{ overtime, attrition string }
	counts := make(map[pair]int)
	for i := 0; i < t.Len(); i++ {
		ot, at := t.Value(i, kpi.OverTimeColumn), t.Value(i, features.AttritionColumn)
		if ot.IsMissing() || at.IsMissing() {
			continue
		}
		counts[pair{ot.String(), at.String()}]++
	}
	for p, n := range counts {
		out = append(out, CrossCell{OverTime: p.overtime, Attrition: p.attrition, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OverTime != out[j].OverTime {
			return out[i].OverTime < out[j].OverTime
		}
		return out[i].Attrition < out[j].Attrition
	})
	return out
}

// AgeRisk is the attrition rate per age bucket, youngest band first.
func AgeRisk(t *table.Table) []risk.Row {
	grouped := risk.ByDimension(t, features.FlagColumn, features.AgeBucketColumn)
	order := map[string]int{
		features.Bucket18To25: 0,
		features.Bucket26To35: 1,
		features.Bucket36To45: 2,
		features.Bucket46To55: 3,
		features.Bucket55Plus: 4,
	}
	rows := grouped.Rows
	sort.SliceStable(rows, func(i, j int) bool { return order[rows[i].Key] < order[rows[j].Key] })
	return rows
}
