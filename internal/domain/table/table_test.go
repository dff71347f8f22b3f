package table_test

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/attrition/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleCSV = ` Age ,Attrition,Department,MonthlyIncome
41,Yes,Sales,5993
49,No,Research & Development,5130
,Yes,"Sales, North",
37,NA,Human Resources,2090
`

func TestRead(t *testing.T) {
	Convey("Given a well formed CSV with padded headers", t, func() {
		tbl, err := table.Read(strings.NewReader(sampleCSV))

		Convey("Then it should parse without error", func() {
			So(err, ShouldBeNil)
			So(tbl.Len(), ShouldEqual, 4)
		})

		Convey("And column names should be trimmed", func() {
			So(tbl.Columns(), ShouldResemble, []string{"Age", "Attrition", "Department", "MonthlyIncome"})
			So(tbl.Has("Age"), ShouldBeTrue)
			So(tbl.Has(" Age "), ShouldBeFalse)
		})

		Convey("And numbers, text and missing cells should be typed", func() {
			age, ok := tbl.Value(0, "Age").Float()
			So(ok, ShouldBeTrue)
			So(age, ShouldEqual, 41)
			So(tbl.Value(2, "Age").IsMissing(), ShouldBeTrue)
			So(tbl.Value(3, "Attrition").IsMissing(), ShouldBeTrue)
			So(tbl.Value(2, "Department").String(), ShouldEqual, "Sales, North")
			So(tbl.Value(0, "Department").Kind(), ShouldEqual, table.KindText)
		})

		Convey("And numeric columns should be detected", func() {
			So(tbl.IsNumeric("Age"), ShouldBeTrue)
			So(tbl.IsNumeric("MonthlyIncome"), ShouldBeTrue)
			So(tbl.IsNumeric("Department"), ShouldBeFalse)
			So(tbl.IsNumeric("Missing"), ShouldBeFalse)
			So(tbl.Floats("Age"), ShouldResemble, []float64{41, 49, 37})
		})
	})

	Convey("Given a CSV with duplicate and blank headers", t, func() {
		tbl, err := table.Read(strings.NewReader("A,A,,A\n1,2,3,4\n"))

		Convey("Then names should be disambiguated", func() {
			So(err, ShouldBeNil)
			So(tbl.Columns(), ShouldResemble, []string{"A", "A.1", "Unnamed: 2", "A.2"})
		})
	})

	Convey("Given a CSV with a byte order mark", t, func() {
		tbl, err := table.Read(strings.NewReader("\ufeffAge,Attrition\n30,No\n"))

		Convey("Then the first header should be clean", func() {
			So(err, ShouldBeNil)
			So(tbl.Has("Age"), ShouldBeTrue)
		})
	})

	Convey("Given short rows", t, func() {
		tbl, err := table.Read(strings.NewReader("A,B,C\n1\n"))

		Convey("Then the missing fields should be padded", func() {
			So(err, ShouldBeNil)
			So(tbl.Value(0, "B").IsMissing(), ShouldBeTrue)
			So(tbl.Value(0, "C").IsMissing(), ShouldBeTrue)
		})
	})

	Convey("Given malformed input", t, func() {
		Convey("When a row is wider than the header", func() {
			_, err := table.Read(strings.NewReader("A,B\n1,2,3\n"))
			So(errors.Is(err, table.ErrMalformed), ShouldBeTrue)
		})

		Convey("When quotes are unbalanced", func() {
			_, err := table.Read(strings.NewReader("A,B\n\"1,2\n"))
			So(errors.Is(err, table.ErrMalformed), ShouldBeTrue)
		})

		Convey("When the input is empty", func() {
			_, err := table.Read(strings.NewReader(""))
			So(errors.Is(err, table.ErrNoHeader), ShouldBeTrue)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given the non-failing loader", t, func() {
		Convey("When the input is malformed", func() {
			tbl := table.Load(strings.NewReader("A,B\n1,2,3\n"))

			Convey("Then it should return an empty table", func() {
				So(tbl, ShouldNotBeNil)
				So(tbl.IsEmpty(), ShouldBeTrue)
				So(tbl.Columns(), ShouldBeEmpty)
			})
		})

		Convey("When the file does not exist", func() {
			tbl := table.LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
			So(tbl.IsEmpty(), ShouldBeTrue)
		})

		Convey("When the file exists", func() {
			path := filepath.Join(t.TempDir(), "employees.csv")
			So(os.WriteFile(path, []byte(sampleCSV), 0o600), ShouldBeNil)
			tbl := table.LoadFile(path)
			So(tbl.Len(), ShouldEqual, 4)
		})
	})
}

func TestExportRoundTrip(t *testing.T) {
	Convey("Given a loaded table", t, func() {
		tbl, err := table.Read(strings.NewReader(sampleCSV))
		So(err, ShouldBeNil)

		Convey("When exporting and reading it back", func() {
			var buf bytes.Buffer
			So(table.Export(&buf, tbl), ShouldBeNil)
			back, err := table.Read(&buf)
			So(err, ShouldBeNil)

			Convey("Then every cell should be reproduced", func() {
				So(back.Columns(), ShouldResemble, tbl.Columns())
				So(back.Len(), ShouldEqual, tbl.Len())
				for i := 0; i < tbl.Len(); i++ {
					So(back.Row(i), ShouldResemble, tbl.Row(i))
				}
			})
		})

		Convey("When a field holds the delimiter, a quote and a newline", func() {
			withText := tbl.WithColumn("Note", []table.Value{
				table.Text(`said "hi", left`),
				table.Text("line one\nline two"),
				table.Missing(),
				table.Text("plain"),
			})
			var buf bytes.Buffer
			So(table.Export(&buf, withText), ShouldBeNil)

			Convey("Then it should be quoted and survive a reload", func() {
				So(buf.String(), ShouldContainSubstring, `"said ""hi"", left"`)
				back, err := table.Read(&buf)
				So(err, ShouldBeNil)
				So(back.Value(0, "Note").String(), ShouldEqual, `said "hi", left`)
				So(back.Value(1, "Note").String(), ShouldEqual, "line one\nline two")
				So(back.Value(2, "Note").IsMissing(), ShouldBeTrue)
			})
		})
	})
}

func TestWithColumn(t *testing.T) {
	Convey("Given a table", t, func() {
		tbl := table.New([]string{"A"}, []table.Record{
			{"A": table.Number(1)},
			{"A": table.Number(2)},
		})

		Convey("When adding a column", func() {
			out := tbl.WithColumn("B", []table.Value{table.Text("x"), table.Text("y")})

			Convey("Then the original should be untouched", func() {
				So(tbl.Has("B"), ShouldBeFalse)
				So(out.Columns(), ShouldResemble, []string{"A", "B"})
				So(out.Value(1, "B").String(), ShouldEqual, "y")
			})
		})

		Convey("When replacing a column", func() {
			out := tbl.WithColumn("A", []table.Value{table.Number(7), table.Missing()})

			Convey("Then its position should be kept", func() {
				So(out.Columns(), ShouldResemble, []string{"A"})
				So(out.Value(0, "A").String(), ShouldEqual, "7")
				So(out.Value(1, "A").IsMissing(), ShouldBeTrue)
				So(tbl.Value(0, "A").String(), ShouldEqual, "1")
			})
		})

		Convey("When selecting rows", func() {
			out := tbl.Select([]int{1})
			So(out.Len(), ShouldEqual, 1)
			So(out.Value(0, "A").String(), ShouldEqual, "2")
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given raw fields", t, func() {
		So(table.Parse("3.50").String(), ShouldEqual, "3.5")
		So(table.Parse(" 12 ").Kind(), ShouldEqual, table.KindNumber)
		So(table.Parse("NaN").IsMissing(), ShouldBeTrue)
		So(table.Parse("null").IsMissing(), ShouldBeTrue)
		So(table.Parse("0x1p3").Kind(), ShouldEqual, table.KindText)
		So(table.Parse("Yes").String(), ShouldEqual, "Yes")
	})

	Convey("Given infinite spellings", t, func() {
		for _, raw := range []string{"inf", "-inf", "+Inf", "Infinity", "-Infinity"} {
			So(table.Parse(raw).IsMissing(), ShouldBeTrue)
		}
		So(table.Number(math.Inf(1)).IsMissing(), ShouldBeTrue)
		So(table.Number(math.Inf(-1)).IsMissing(), ShouldBeTrue)
	})
}

func TestNewColumnNames(t *testing.T) {
	Convey("Given columns that collide once trimmed", t, func() {
		tbl := table.New([]string{"A ", "A", "B"}, []table.Record{
			{"A ": table.Number(1), "A": table.Number(2), "B": table.Text("x")},
		})

		Convey("Then every column should keep a distinct name", func() {
			So(tbl.Columns(), ShouldResemble, []string{"A", "A.1", "B"})
			So(tbl.Has("A.1"), ShouldBeTrue)
		})

		Convey("And each cell should stay with its own column", func() {
			So(tbl.Value(0, "A").String(), ShouldEqual, "1")
			So(tbl.Value(0, "A.1").String(), ShouldEqual, "2")
			So(tbl.Value(0, "B").String(), ShouldEqual, "x")
		})
	})
}
