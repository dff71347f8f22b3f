package predictor_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/okian/attrition/internal/domain/features"
	"github.com/okian/attrition/internal/domain/predictor"
	"github.com/okian/attrition/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

// workforce builds n employees where overtime drives most of the attrition.
func workforce(n int) *table.Table {
	cols := []string{"Age", "MonthlyIncome", "OverTime", "Department", "Attrition"}
	rows := make([]table.Record, n)
	for i := range rows {
		overtime := i%3 == 0
		left := (overtime && i%9 != 0) || i == 7 || i == 17
		rows[i] = table.Record{
			"Age":           table.Number(float64(25 + i%20)),
			"MonthlyIncome": table.Number(float64(2000 + 100*i)),
			"OverTime":      table.Text(yesNo(overtime)),
			"Department":    table.Text("Sales"),
			"Attrition":     table.Text(yesNo(left)),
		}
	}
	return features.Derive(table.New(cols, rows))
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func TestFit(t *testing.T) {
	Convey("Given fifty employees", t, func() {
		tbl := workforce(50)
		p := predictor.New()
		So(p.State(), ShouldEqual, predictor.Unbuilt)

		rep, err := p.Fit(tbl)

		Convey("Then the model should be fitted on the present candidates", func() {
			So(err, ShouldBeNil)
			So(p.State(), ShouldEqual, predictor.Fitted)
			So(rep.Features, ShouldResemble, []string{"Age", "MonthlyIncome", "OverTime"})
			So(rep.Numeric, ShouldResemble, []string{"Age", "MonthlyIncome"})
			So(rep.Categorical, ShouldResemble, []string{"OverTime"})
			So(p.Features(), ShouldResemble, rep.Features)
		})

		Convey("Then the rows should be split 80/20 by class", func() {
			So(rep.Holdout, ShouldBeTrue)
			So(rep.TrainRows, ShouldEqual, 40)
			So(rep.EvalRows, ShouldEqual, 10)
			So(rep.Accuracy, ShouldBeBetweenOrEqual, 0, 1)
			So(rep.Converged, ShouldBeTrue)
			So(rep.Iterations, ShouldBeGreaterThan, 0)
		})

		Convey("Then overtime should raise the predicted risk", func() {
			base := table.Record{"Age": table.Number(30), "MonthlyIncome": table.Number(4000)}
			yes := table.Record{"OverTime": table.Text("Yes")}
			no := table.Record{"OverTime": table.Text("No")}
			for k, v := range base {
				yes[k], no[k] = v, v
			}
			py, err := p.Predict(yes)
			So(err, ShouldBeNil)
			pn, err := p.Predict(no)
			So(err, ShouldBeNil)
			So(py.Probability, ShouldBeGreaterThan, pn.Probability)
			So(py.Percent, ShouldBeBetweenOrEqual, 0, 100)
		})

		Convey("Then the form should describe every selected feature", func() {
			form := p.Form()
			So(len(form), ShouldEqual, 3)
			So(form[0].Name, ShouldEqual, "Age")
			So(form[0].Numeric, ShouldBeTrue)
			So(form[0].Default, ShouldEqual, 33.0)
			So(form[2].Name, ShouldEqual, "OverTime")
			So(form[2].Numeric, ShouldBeFalse)
			So(form[2].Options, ShouldResemble, []string{"No", "Yes"})
			So(form[2].Default, ShouldEqual, "No")
		})

		Convey("Then the report should be retrievable", func() {
			got, ok := p.Report()
			So(ok, ShouldBeTrue)
			So(got, ShouldResemble, rep)
		})

		Convey("When fitting again with the same seed", func() {
			_, again, err := predictor.Build(tbl)
			So(err, ShouldBeNil)
			So(again, ShouldResemble, rep)
		})
	})

	Convey("Given only eight employees with both classes", t, func() {
		p, rep, err := predictor.Build(workforce(8))

		Convey("Then training and evaluation should use the same rows", func() {
			So(err, ShouldBeNil)
			So(rep.Holdout, ShouldBeFalse)
			So(rep.TrainRows, ShouldEqual, 8)
			So(rep.EvalRows, ShouldEqual, 8)
		})

		Convey("Then a new input should still get a probability", func() {
			pred, err := p.Predict(table.Record{"Age": table.Number(41), "OverTime": table.Text("Yes")})
			So(err, ShouldBeNil)
			So(pred.Probability, ShouldBeBetweenOrEqual, 0, 1)
		})
	})

	Convey("Given a table without any candidate column", t, func() {
		tbl := features.Derive(table.New([]string{"Department", "Attrition"}, []table.Record{
			{"Department": table.Text("Sales"), "Attrition": table.Text("Yes")},
			{"Department": table.Text("HR"), "Attrition": table.Text("No")},
		}))
		p, _, err := predictor.Build(tbl)

		Convey("Then it should report insufficient features and stay unbuilt", func() {
			So(errors.Is(err, predictor.ErrInsufficientFeatures), ShouldBeTrue)
			So(p.State(), ShouldEqual, predictor.Unbuilt)
			_, err := p.Predict(table.Record{})
			So(errors.Is(err, predictor.ErrNotFitted), ShouldBeTrue)
		})
	})

	Convey("Given a single attrition class", t, func() {
		rows := make([]table.Record, 12)
		for i := range rows {
			rows[i] = table.Record{"Age": table.Number(float64(30 + i)), "Attrition": table.Text("No")}
		}
		_, _, err := predictor.Build(features.Derive(table.New([]string{"Age", "Attrition"}, rows)))
		So(errors.Is(err, predictor.ErrTrainingFailed), ShouldBeTrue)
	})

	Convey("Given an empty table with candidate columns", t, func() {
		_, _, err := predictor.Build(table.New([]string{"Age"}, nil))
		So(errors.Is(err, predictor.ErrTrainingFailed), ShouldBeTrue)
	})

	Convey("Given a fitted predictor", t, func() {
		p, _, err := predictor.Build(workforce(30))
		So(err, ShouldBeNil)

		Convey("When refitting on an unusable table", func() {
			_, err := p.Fit(table.New([]string{"Department"}, nil))

			Convey("Then the previous model should be gone", func() {
				So(errors.Is(err, predictor.ErrInsufficientFeatures), ShouldBeTrue)
				So(p.State(), ShouldEqual, predictor.Unbuilt)
				So(p.Form(), ShouldBeEmpty)
				_, ok := p.Report()
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a holdout fraction too small to keep a row of either class", t, func() {
		p, rep, err := predictor.Build(workforce(12), predictor.WithTestFraction(0.04), predictor.WithMinSplitRows(2))

		Convey("Then it should score on the training rows instead", func() {
			So(err, ShouldBeNil)
			So(rep.Holdout, ShouldBeFalse)
			So(rep.EvalRows, ShouldEqual, 12)
			So(rep.TrainRows, ShouldEqual, 12)
			So(rep.Accuracy, ShouldBeBetweenOrEqual, 0, 1)
			So(p.State(), ShouldEqual, predictor.Fitted)
		})

		Convey("Then the report should encode", func() {
			_, err := json.Marshal(rep)
			So(err, ShouldBeNil)
		})
	})

	Convey("Given invalid options", t, func() {
		_, _, err := predictor.Build(workforce(20), predictor.WithRegularization(0))
		So(errors.Is(err, predictor.ErrInvalidOption), ShouldBeTrue)

		_, _, err = predictor.Build(workforce(20), predictor.WithTestFraction(1))
		So(errors.Is(err, predictor.ErrInvalidOption), ShouldBeTrue)
	})
}

func TestPredict(t *testing.T) {
	Convey("Given a fitted predictor", t, func() {
		p, _, err := predictor.Build(workforce(40))
		So(err, ShouldBeNil)

		Convey("Then an unseen category should still predict", func() {
			pred, err := p.Predict(table.Record{"OverTime": table.Text("Sometimes")})
			So(err, ShouldBeNil)
			So(pred.Probability, ShouldBeBetweenOrEqual, 0, 1)
		})

		Convey("Then missing and omitted values should be imputed the same way", func() {
			omitted, err := p.Predict(table.Record{"OverTime": table.Text("No")})
			So(err, ShouldBeNil)
			missing, err := p.Predict(table.Record{"OverTime": table.Text("No"), "Age": table.Missing()})
			So(err, ShouldBeNil)
			So(missing, ShouldResemble, omitted)
		})

		Convey("Then numbers given as text should parse", func() {
			asText, err := p.Predict(table.Record{"Age": table.Text(" 35 ")})
			So(err, ShouldBeNil)
			asNumber, err := p.Predict(table.Record{"Age": table.Number(35)})
			So(err, ShouldBeNil)
			So(asText, ShouldResemble, asNumber)
		})

		Convey("Then non-numeric text for a numeric feature should be rejected", func() {
			_, err := p.Predict(table.Record{"Age": table.Text("old")})
			So(errors.Is(err, predictor.ErrInvalidValue), ShouldBeTrue)
		})

		Convey("Then an infinite spelling should be imputed like a missing value", func() {
			inf, err := p.Predict(table.Record{"OverTime": table.Text("No"), "Age": table.Text("Infinity")})
			So(err, ShouldBeNil)
			omitted, err := p.Predict(table.Record{"OverTime": table.Text("No")})
			So(err, ShouldBeNil)
			So(inf, ShouldResemble, omitted)
		})

		Convey("Then extreme magnitudes should never give a non-finite probability", func() {
			for _, rec := range []table.Record{
				{"Age": table.Number(1.7e308), "MonthlyIncome": table.Number(-1.7e308)},
				{"Age": table.Number(-1.7e308), "MonthlyIncome": table.Number(1.7e308)},
				{"Age": table.Number(1.7e308), "MonthlyIncome": table.Number(1.7e308)},
			} {
				pred, err := p.Predict(rec)
				if err != nil {
					So(errors.Is(err, predictor.ErrInvalidValue), ShouldBeTrue)
					continue
				}
				So(math.IsNaN(pred.Probability), ShouldBeFalse)
				So(pred.Probability, ShouldBeBetweenOrEqual, 0, 1)
			}
		})

		Convey("Then columns outside the selected features should be rejected", func() {
			_, err := p.Predict(table.Record{"Department": table.Text("Sales")})
			So(errors.Is(err, predictor.ErrUnknownFeature), ShouldBeTrue)
		})
	})

	Convey("Given an unbuilt predictor", t, func() {
		_, err := predictor.New().Predict(table.Record{})
		So(errors.Is(err, predictor.ErrNotFitted), ShouldBeTrue)
	})
}
