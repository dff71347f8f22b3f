package kpi_test

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/okian/attrition/internal/domain/features"
	"github.com/okian/attrition/internal/domain/kpi"
	"github.com/okian/attrition/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func employees(n, left int) *table.Table {
	cols := []string{"EmployeeNumber", "Attrition", "Age", "MonthlyIncome", "YearsAtCompany"}
	rows := make([]table.Record, n)
	for i := range rows {
		answer := "No"
		if i < left {
			answer = "Yes"
		}
		rows[i] = table.Record{
			"EmployeeNumber": table.Number(float64(i + 1)),
			"Attrition":      table.Text(answer),
			"Age":            table.Number(float64(25 + i%10)),
			"MonthlyIncome":  table.Number(float64(3000 + 7*i)),
			"YearsAtCompany": table.Number(float64(i % 5)),
		}
	}
	return table.New(cols, rows)
}

func TestCompute(t *testing.T) {
	Convey("Given 20 employees of whom 5 left", t, func() {
		s := kpi.Compute(features.Derive(employees(20, 5)))

		Convey("Then count and rate should match", func() {
			So(s.Total, ShouldEqual, 20)
			So(s.AttritionCount, ShouldEqual, 5)
			So(s.AttritionRate, ShouldEqual, 25.0)
		})

		Convey("Then the averages should be rounded as documented", func() {
			age, ok := s.AvgAge.Value()
			So(ok, ShouldBeTrue)
			So(age, ShouldEqual, 29.5)

			income, ok := s.AvgMonthlyIncome.Value()
			So(ok, ShouldBeTrue)
			So(income, ShouldEqual, 3066) // mean 3066.5 floored

			years, ok := s.AvgYearsAtCompany.Value()
			So(ok, ShouldBeTrue)
			So(years, ShouldEqual, 2.0)
		})

		Convey("Then overtime share should be unavailable without the column", func() {
			So(s.OvertimeShare.IsAvailable(), ShouldBeFalse)
		})
	})

	Convey("Given rates that need rounding", t, func() {
		s := kpi.Compute(features.Derive(employees(3, 1)))
		So(s.AttritionRate, ShouldEqual, 33.3)
	})

	Convey("Given a table without an Attrition column", t, func() {
		tbl := table.New([]string{"Age"}, []table.Record{
			{"Age": table.Number(30)},
			{"Age": table.Number(40)},
		})

		Convey("When the flag column has been derived", func() {
			s := kpi.Compute(features.Derive(tbl))
			So(s.AttritionCount, ShouldEqual, 0)
			So(s.AttritionRate, ShouldEqual, 0)
		})

		Convey("When no flag column exists at all", func() {
			s := kpi.Compute(tbl)
			So(s.AttritionCount, ShouldEqual, 0)
			So(s.AttritionRate, ShouldEqual, 0)
		})
	})

	Convey("Given an empty table", t, func() {
		s := kpi.Compute(features.Derive(table.Empty()))

		Convey("Then everything should be zero or not available", func() {
			So(s.Total, ShouldEqual, 0)
			So(s.AttritionCount, ShouldEqual, 0)
			So(s.AttritionRate, ShouldEqual, 0)
			So(s.AvgAge.IsAvailable(), ShouldBeFalse)
			So(s.AvgMonthlyIncome.IsAvailable(), ShouldBeFalse)
			So(s.AvgYearsAtCompany.IsAvailable(), ShouldBeFalse)
		})
	})

	Convey("Given source columns that are missing, empty or textual", t, func() {
		tbl := table.New([]string{"Age", "MonthlyIncome", "OverTime"}, []table.Record{
			{"Age": table.Missing(), "MonthlyIncome": table.Text("high"), "OverTime": table.Text("Yes")},
			{"Age": table.Missing(), "MonthlyIncome": table.Number(100), "OverTime": table.Text("No")},
			{"Age": table.Missing(), "MonthlyIncome": table.Number(200), "OverTime": table.Text("No")},
		})
		s := kpi.Compute(tbl)

		Convey("Then those averages should be N/A", func() {
			So(s.AvgAge.String(), ShouldEqual, kpi.NotAvailable)
			So(s.AvgMonthlyIncome.String(), ShouldEqual, kpi.NotAvailable)
			So(s.AvgYearsAtCompany.String(), ShouldEqual, kpi.NotAvailable)
		})

		Convey("Then the overtime share should still be computed", func() {
			share, ok := s.OvertimeShare.Value()
			So(ok, ShouldBeTrue)
			So(share, ShouldEqual, 33.3)
		})
	})

	Convey("Given the attrition rate property over many sizes", t, func() {
		for total := 1; total <= 30; total += 7 {
			for left := 0; left <= total; left += 3 {
				s := kpi.Compute(features.Derive(employees(total, left)))
				So(s.AttritionCount, ShouldEqual, left)
				So(s.AttritionRate, ShouldEqual, kpi.Round1(100*float64(left)/float64(total)))
			}
		}
	})
}

func TestNonFiniteInput(t *testing.T) {
	Convey("Given an infinite age cell and incomes whose sum overflows", t, func() {
		csv := "Age,MonthlyIncome,YearsAtCompany\n30,1.7e308,2\ninf,1.7e308,4\n"
		tbl, err := table.Read(strings.NewReader(csv))
		So(err, ShouldBeNil)
		s := kpi.Compute(features.Derive(tbl))

		Convey("Then the infinite cell should be skipped", func() {
			age, ok := s.AvgAge.Value()
			So(ok, ShouldBeTrue)
			So(age, ShouldEqual, 30)
		})

		Convey("Then an overflowing mean should be N/A", func() {
			So(s.AvgMonthlyIncome.IsAvailable(), ShouldBeFalse)
		})

		Convey("Then the summary should still encode", func() {
			data, err := json.Marshal(s)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"avg_years_at_company":3`)
		})
	})

	Convey("Given non-finite values wrapped directly", t, func() {
		So(kpi.Available(math.Inf(1)).IsAvailable(), ShouldBeFalse)
		So(kpi.Available(math.NaN()).String(), ShouldEqual, kpi.NotAvailable)
	})
}

func TestMetricJSON(t *testing.T) {
	Convey("Given a summary", t, func() {
		s := kpi.Summary{Total: 2, AvgAge: kpi.Available(31.5), AvgMonthlyIncome: kpi.Unavailable()}

		Convey("Then unavailable metrics should encode as N/A", func() {
			data, err := json.Marshal(s)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"avg_age":31.5`)
			So(string(data), ShouldContainSubstring, fmt.Sprintf(`"avg_monthly_income":%q`, kpi.NotAvailable))
		})
	})
}
