// Package kpi computes the dashboard's scalar summary statistics.
package kpi

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/okian/attrition/internal/domain/features"
	"github.com/okian/attrition/internal/domain/table"
	"gonum.org/v1/gonum/stat"
)

// Source columns for the mean-based KPIs.
const (
	MonthlyIncomeColumn  = "MonthlyIncome"
	YearsAtCompanyColumn = "YearsAtCompany"
	OverTimeColumn       = "OverTime"
)

// NotAvailable is the rendering of a KPI that could not be computed.
const NotAvailable = "N/A"

// Metric is a KPI that is either a computed value or not available.
type Metric struct {
	value     float64
	available bool
}

// Available wraps a computed value. A non-finite value is not available.
func Available(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Unavailable()
	}
	return Metric{value: v, available: true}
}

// Unavailable is the "not available" metric.
func Unavailable() Metric { return Metric{} }

// Value returns the metric and whether it was computed.
func (m Metric) Value() (float64, bool) { return m.value, m.available }

// IsAvailable reports whether the metric holds a value.
func (m Metric) IsAvailable() bool { return m.available }

// String renders the value, or N/A.
func (m Metric) String() string {
	if !m.available {
		return NotAvailable
	}
	return strconv.FormatFloat(m.value, 'f', -1, 64)
}

// MarshalJSON encodes a number, or the string "N/A".
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.available {
		return json.Marshal(NotAvailable)
	}
	return json.Marshal(m.value)
}

// Summary is the fixed record of dashboard statistics.
type Summary struct {
	Total             int     `json:"total"`
	AttritionCount    int     `json:"attrition_count"`
	AttritionRate     float64 `json:"attrition_rate"`
	AvgAge            Metric  `json:"avg_age"`
	AvgMonthlyIncome  Metric  `json:"avg_monthly_income"`
	AvgYearsAtCompany Metric  `json:"avg_years_at_company"`
	OvertimeShare     Metric  `json:"overtime_share"`
}

// Compute summarises t. It never fails and never modifies t.
func Compute(t *table.Table) Summary {
	s := Summary{Total: t.Len()}
	if t.Has(features.FlagColumn) {
		for _, v := range t.Column(features.FlagColumn) {
			if features.IsTruthy(v) {
				s.AttritionCount++
			}
		}
	}
	s.AttritionRate = Percent(s.AttritionCount, s.Total)

	s.AvgAge = mean(t, features.AgeColumn, Round1)
	s.AvgMonthlyIncome = mean(t, MonthlyIncomeColumn, math.Floor)
	s.AvgYearsAtCompany = mean(t, YearsAtCompanyColumn, Round1)
	s.OvertimeShare = overtimeShare(t)
	return s
}

// Percent returns round1(100 * part / whole), or 0 when whole is 0.
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return Round1(100 * float64(part) / float64(whole))
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// mean averages the observed values of a numeric column. Absent, textual
// or fully missing columns are not available.
func mean(t *table.Table, column string, round func(float64) float64) Metric {
	if !t.IsNumeric(column) {
		return Unavailable()
	}
	values := t.Floats(column)
	if len(values) == 0 {
		return Unavailable()
	}
	return Available(round(stat.Mean(values, nil)))
}

func overtimeShare(t *table.Table) Metric {
	if !t.Has(OverTimeColumn) || t.IsEmpty() {
		return Unavailable()
	}
	var yes int
	for _, v := range t.Column(OverTimeColumn) {
		if features.IsTruthy(v) {
			yes++
		}
	}
	return Available(Percent(yes, t.Len()))
}
