// Package types contains the response shapes shared by the service and API layers.
package types

import (
	"time"

	"github.com/okian/attrition/internal/domain/kpi"
	"github.com/okian/attrition/internal/domain/predictor"
	"github.com/okian/attrition/internal/domain/risk"
)

// SessionInfo describes an opened session and its dataset.
type SessionInfo struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Dataset   string    `json:"dataset"`
	Rows      int       `json:"rows"`
	Columns   []string  `json:"columns"`
	Empty     bool      `json:"empty"`
	CreatedAt time.Time `json:"created_at"`
}

// Overview is the landing view: KPIs plus department and job role risk.
type Overview struct {
	Session    string      `json:"session"`
	KPIs       kpi.Summary `json:"kpis"`
	Department risk.Result `json:"department"`
	JobRole    risk.Result `json:"job_role"`
}

// PredictorInfo is the outcome of a predictor build.
type PredictorInfo struct {
	State  string                `json:"state"`
	Report predictor.Report      `json:"report"`
	Form   []predictor.FormField `json:"form"`
}
