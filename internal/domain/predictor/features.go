package predictor

import "github.com/okian/attrition/internal/domain/table"

// Candidates are the feature columns the model may use, in vector order.
var Candidates = []string{
	"Age",
	"MonthlyIncome",
	"YearsAtCompany",
	"DistanceFromHome",
	"JobSatisfaction",
	"OverTime",
}

// selection is the subset of candidates present in a table, split by kind.
type selection struct {
	all         []string
	numeric     []string
	categorical []string
}

func selectFeatures(t *table.Table) selection {
	var s selection
	for _, name := range Candidates {
		if !t.Has(name) {
			continue
		}
		s.all = append(s.all, name)
		if t.IsNumeric(name) {
			s.numeric = append(s.numeric, name)
		} else {
			s.categorical = append(s.categorical, name)
		}
	}
	return s
}

func (s selection) contains(name string) bool {
	for _, f := range s.all {
		if f == name {
			return true
		}
	}
	return false
}
