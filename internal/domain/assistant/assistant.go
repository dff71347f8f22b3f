// Package assistant answers the dashboard's keyword questions.
package assistant

import (
	"strings"

	"github.com/okian/attrition/internal/domain/features"
	"github.com/okian/attrition/internal/domain/insights"
	"github.com/okian/attrition/internal/domain/kpi"
	"github.com/okian/attrition/internal/domain/risk"
	"github.com/okian/attrition/internal/domain/table"
)

// Intent is the recognised kind of question.
type Intent string

const (
	IntentHighRiskJob  Intent = "high_risk_job"
	IntentHighRiskDept Intent = "high_risk_dept"
	IntentOvertime     Intent = "overtime"
	IntentUnknown      Intent = "unknown"
)

// TopN is how many groups a high-risk answer lists.
const TopN = 6

// Hint is returned for questions no keyword matches.
const Hint = "Try: 'high risk job', 'high risk dept', 'overtime'"

// Answer is the reply to one question. Exactly one of Groups or Overtime is
// set when the data is available; otherwise Message explains why not.
type Answer struct {
	Intent   Intent               `json:"intent"`
	Groups   []risk.Row           `json:"groups,omitempty"`
	Overtime []insights.CrossCell `json:"overtime,omitempty"`
	Message  string               `json:"message,omitempty"`
}

var keywords = []struct {
	phrase string
	intent Intent
}{
	{"high risk job", IntentHighRiskJob},
	{"high risk dept", IntentHighRiskDept},
	{"overtime", IntentOvertime},
}

// Classify maps a free-text question to an intent. Matching is a case
// insensitive substring test, first keyword wins.
func Classify(question string) Intent {
	q := strings.ToLower(question)
	for _, k := range keywords {
		if strings.Contains(q, k.phrase) {
			return k.intent
		}
	}
	return IntentUnknown
}

// Ask answers question against a derived table.
func Ask(t *table.Table, question string) Answer {
	intent := Classify(question)
	ans := Answer{Intent: intent}
	switch intent {
	case IntentHighRiskJob:
		ans.Groups, ans.Message = topGroups(t, risk.JobRoleColumn, "JobRole data missing")
	case IntentHighRiskDept:
		ans.Groups, ans.Message = topGroups(t, risk.DepartmentColumn, "Department data missing")
	case IntentOvertime:
		if !t.Has(kpi.OverTimeColumn) {
			ans.Message = "OverTime missing"
			break
		}
		ans.Overtime = insights.OvertimeBreakdown(t)
	default:
		ans.Message = Hint
	}
	return ans
}

func topGroups(t *table.Table, dimension, missing string) ([]risk.Row, string) {
	res := risk.ByDimension(t, features.FlagColumn, dimension)
	if !res.Available() {
		return nil, missing
	}
	rows := risk.Top(res.Rows, TopN)
	for i := range rows {
		rows[i].Rate = kpi.Round1(rows[i].Rate)
	}
	return rows, ""
}
