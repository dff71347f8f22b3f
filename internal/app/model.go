package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/attrition/internal/domain/predictor"
	"github.com/okian/attrition/internal/domain/table"
	"github.com/okian/attrition/internal/domain/types"
	"github.com/okian/attrition/pkg/logger"
	"github.com/okian/attrition/pkg/metrics"
)

// BuildPredictor fits a fresh predictor on the session's dataset. The
// previous predictor is replaced even when the build fails, so a failed
// build leaves the session unbuilt.
func (s *Service) BuildPredictor(ctx context.Context, id string) (types.PredictorInfo, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return types.PredictorInfo{}, err
	}

	var (
		p    *predictor.Predictor
		rep  predictor.Report
		took time.Duration
	)
	sess.Do(func() {
		start := time.Now()
		p, rep, err = predictor.Build(sess.Table, s.predictorOpts...)
		took = time.Since(start)
		sess.SetPredictor(p)
	})
	metrics.RecordTrainingLatency(float64(took.Microseconds()) / 1000)

	if err != nil {
		outcome := "failed"
		if errors.Is(err, predictor.ErrInsufficientFeatures) {
			outcome = "insufficient_features"
		}
		metrics.RecordPredictorBuild(outcome)
		metrics.RecordErrorByComponent("predictor", outcome)
		s.logger.Warn(ctx, "predictor build failed",
			logger.String("session_id", id),
			logger.Duration("took", took),
			logger.Error(err),
		)
		return types.PredictorInfo{State: p.State().String()}, err
	}

	metrics.RecordPredictorBuild("ok")
	metrics.UpdateHoldoutAccuracy(rep.Accuracy)
	s.logger.Info(ctx, "predictor built",
		logger.String("session_id", id),
		logger.Any("features", rep.Features),
		logger.Int("train_rows", rep.TrainRows),
		logger.Int("eval_rows", rep.EvalRows),
		logger.Float64("accuracy", rep.Accuracy),
		logger.Bool("converged", rep.Converged),
		logger.Duration("took", took),
	)
	return types.PredictorInfo{
		State:  p.State().String(),
		Report: rep,
		Form:   p.Form(),
	}, nil
}

// Predict scores one employee with the session's predictor.
func (s *Service) Predict(ctx context.Context, id string, rec table.Record) (predictor.Prediction, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return predictor.Prediction{}, err
	}

	var out predictor.Prediction
	sess.Do(func() {
		p := sess.Predictor()
		if p == nil {
			err = predictor.ErrNotFitted
			return
		}
		out, err = p.Predict(rec)
	})
	if err != nil {
		return predictor.Prediction{}, err
	}

	metrics.RecordPrediction(out.Probability)
	return out, nil
}

// RecordOf converts decoded JSON values into a record. Strings go through
// the same parsing as CSV fields; null is missing; booleans become Yes/No.
func RecordOf(fields map[string]any) (table.Record, error) {
	rec := make(table.Record, len(fields))
	for k, v := range fields {
		switch x := v.(type) {
		case nil:
			rec[k] = table.Missing()
		case float64:
			rec[k] = table.Number(x)
		case int:
			rec[k] = table.Number(float64(x))
		case string:
			rec[k] = table.Parse(x)
		case bool:
			if x {
				rec[k] = table.Text("Yes")
			} else {
				rec[k] = table.Text("No")
			}
		default:
			return nil, fmt.Errorf("%w: field %q has unsupported type %T", ErrInvalidInput, k, v)
		}
	}
	return rec, nil
}
