package service

import (
	"context"
	"io"

	"github.com/okian/attrition/internal/domain/assistant"
	"github.com/okian/attrition/internal/domain/features"
	"github.com/okian/attrition/internal/domain/insights"
	"github.com/okian/attrition/internal/domain/kpi"
	"github.com/okian/attrition/internal/domain/risk"
	"github.com/okian/attrition/internal/domain/table"
	"github.com/okian/attrition/internal/domain/types"
	"github.com/okian/attrition/pkg/logger"
	"github.com/okian/attrition/pkg/metrics"
)

// Overview computes the KPI strip plus department and job role risk.
func (s *Service) Overview(ctx context.Context, id string) (types.Overview, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return types.Overview{}, err
	}

	var out types.Overview
	sess.Do(func() {
		out = types.Overview{
			Session:    sess.ID,
			KPIs:       kpi.Compute(sess.Table),
			Department: risk.ByDimension(sess.Table, features.FlagColumn, risk.DepartmentColumn),
			JobRole:    risk.ByDimension(sess.Table, features.FlagColumn, risk.JobRoleColumn),
		}
	})
	return out, nil
}

// Risk groups attrition by dimension. An empty dimension means job role.
func (s *Service) Risk(ctx context.Context, id, dimension string) (risk.Result, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return risk.Result{}, err
	}
	if dimension == "" {
		dimension = risk.JobRoleColumn
	}

	var out risk.Result
	sess.Do(func() {
		out = risk.ByDimension(sess.Table, features.FlagColumn, dimension)
	})
	return out, nil
}

// Insights computes the deeper analysis views.
func (s *Service) Insights(ctx context.Context, id string) (insights.Report, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return insights.Report{}, err
	}

	var out insights.Report
	sess.Do(func() {
		out = insights.Compute(sess.Table)
	})
	return out, nil
}

// Ask answers a keyword question about the session's dataset.
func (s *Service) Ask(ctx context.Context, id, question string) (assistant.Answer, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return assistant.Answer{}, err
	}

	var out assistant.Answer
	sess.Do(func() {
		out = assistant.Ask(sess.Table, question)
	})
	metrics.RecordAssistantQuestion(string(out.Intent))
	s.logger.Debug(ctx, "assistant question",
		logger.String("session_id", id),
		logger.String("intent", string(out.Intent)),
	)
	return out, nil
}

// Export writes the session's derived table as CSV.
func (s *Service) Export(ctx context.Context, id string, w io.Writer) error {
	sess, err := s.session(ctx, id)
	if err != nil {
		return err
	}

	sess.Do(func() {
		err = table.Export(w, sess.Table)
	})
	if err != nil {
		metrics.RecordErrorByComponent("service", "export")
		s.logger.Error(ctx, "export failed", logger.String("session_id", id), logger.Error(err))
	}
	return err
}
