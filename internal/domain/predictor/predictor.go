// Package predictor fits and serves the attrition probability model: a
// preprocessing stage (median or mode imputation, standard scaling, one-hot
// encoding) followed by an L2-regularised logistic regression.
//
// A Predictor is not safe for concurrent use; callers serialise access.
package predictor

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/attrition/internal/domain/features"
	"github.com/okian/attrition/internal/domain/table"
)

// State is the lifecycle of a Predictor.
type State int

const (
	Unbuilt State = iota
	Fitted
)

func (s State) String() string {
	switch s {
	case Fitted:
		return "fitted"
	default:
		return "unbuilt"
	}
}

// Prediction is the model output for one employee.
type Prediction struct {
	Probability float64 `json:"probability"`
	Percent     float64 `json:"percent"`
}

// Report summarises the last successful Fit.
type Report struct {
	Features    []string `json:"features"`
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
	TrainRows   int      `json:"train_rows"`
	EvalRows    int      `json:"eval_rows"`
	// Holdout is false when the model was evaluated on its own training rows.
	Holdout    bool    `json:"holdout"`
	Accuracy   float64 `json:"accuracy"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
}

// FormField describes one input of the prediction form.
type FormField struct {
	Name    string   `json:"name"`
	Numeric bool     `json:"numeric"`
	Default any      `json:"default"`
	Options []string `json:"options,omitempty"`
}

// Predictor holds one fitted pipeline.
type Predictor struct {
	c            float64
	maxIter      int
	tol          float64
	seed         int64
	testFraction float64
	minSplitRows int

	state  State
	sel    selection
	prep   *preprocessor
	model  *logistic
	report Report
	form   []FormField
}

// New returns an unbuilt Predictor.
func New(opts ...Option) *Predictor {
	p := &Predictor{
		c:            DefaultRegularization,
		maxIter:      DefaultMaxIterations,
		tol:          DefaultTolerance,
		seed:         DefaultSeed,
		testFraction: DefaultTestFraction,
		minSplitRows: DefaultMinSplitRows,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Build creates a Predictor and fits it on t.
func Build(t *table.Table, opts ...Option) (*Predictor, Report, error) {
	p := New(opts...)
	rep, err := p.Fit(t)
	return p, rep, err
}

// State returns the current lifecycle state.
func (p *Predictor) State() State { return p.state }

// Features returns the selected feature columns of the fitted model.
func (p *Predictor) Features() []string {
	out := make([]string, len(p.sel.all))
	copy(out, p.sel.all)
	return out
}

// Report returns the summary of the last successful Fit.
func (p *Predictor) Report() (Report, bool) {
	return p.report, p.state == Fitted
}

// Form describes the prediction inputs: numeric fields default to the
// column median, categorical fields offer the sorted distinct values.
func (p *Predictor) Form() []FormField {
	out := make([]FormField, len(p.form))
	copy(out, p.form)
	return out
}

// Fit trains the pipeline on t, replacing any previous model. On failure
// the predictor is left unbuilt.
func (p *Predictor) Fit(t *table.Table) (rep Report, err error) {
	p.reset()
	if err := p.Validate(); err != nil {
		return Report{}, err
	}
	defer func() {
		if r := recover(); r != nil {
			p.reset()
			rep, err = Report{}, fmt.Errorf("%w: %v", ErrTrainingFailed, r)
		}
	}()

	sel := selectFeatures(t)
	if len(sel.all) == 0 {
		return Report{}, fmt.Errorf("%w: none of %v present", ErrInsufficientFeatures, Candidates)
	}
	if t.IsEmpty() {
		return Report{}, fmt.Errorf("%w: %v", ErrTrainingFailed, errNoRows)
	}

	labels := features.Flags(t)
	train, eval := allRows(t.Len()), allRows(t.Len())
	holdout := false
	if hasBothClasses(labels, train) && t.Len() >= p.minSplitRows {
		train, eval = stratifiedSplit(labels, p.testFraction, p.seed)
		holdout = true
		if len(eval) == 0 {
			// both classes rounded their holdout share down to nothing
			train, eval = allRows(t.Len()), allRows(t.Len())
			holdout = false
		}
	}
	if !hasBothClasses(labels, train) {
		return Report{}, fmt.Errorf("%w: %v", ErrTrainingFailed, errSingleClass)
	}

	prep := fitPreprocessor(t, train, sel.numeric, sel.categorical)
	x := make([][]float64, len(train))
	y := make([]bool, len(train))
	for k, i := range train {
		row := i
		vec, err := prep.encode(func(name string) table.Value { return t.Value(row, name) })
		if err != nil {
			return Report{}, fmt.Errorf("%w: %v", ErrTrainingFailed, err)
		}
		x[k] = vec
		y[k] = labels[i]
	}
	model, err := fitLogistic(x, y, p.c, p.maxIter, p.tol)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrTrainingFailed, err)
	}

	var correct int
	for _, i := range eval {
		row := i
		vec, err := prep.encode(func(name string) table.Value { return t.Value(row, name) })
		if err != nil {
			return Report{}, fmt.Errorf("%w: %v", ErrTrainingFailed, err)
		}
		if (model.probability(vec) >= 0.5) == labels[i] {
			correct++
		}
	}

	p.sel = sel
	p.prep = prep
	p.model = model
	p.form = buildForm(t, sel)
	p.report = Report{
		Features:    append([]string(nil), sel.all...),
		Numeric:     append([]string(nil), sel.numeric...),
		Categorical: append([]string(nil), sel.categorical...),
		TrainRows:   len(train),
		EvalRows:    len(eval),
		Holdout:     holdout,
		Accuracy:    float64(correct) / float64(len(eval)),
		Iterations:  model.iterations,
		Converged:   model.converged,
	}
	p.state = Fitted
	return p.report, nil
}

// Predict returns the attrition probability for rec. rec may only name
// selected features; omitted or missing values are imputed and unseen
// categories encode as all zeros.
func (p *Predictor) Predict(rec table.Record) (Prediction, error) {
	if p.state != Fitted {
		return Prediction{}, ErrNotFitted
	}
	names := make([]string, 0, len(rec))
	for name := range rec {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !p.sel.contains(name) {
			return Prediction{}, fmt.Errorf("%w: %s", ErrUnknownFeature, name)
		}
	}

	vec, err := p.prep.encode(rec.Get)
	if err != nil {
		return Prediction{}, err
	}
	prob := p.model.probability(vec)
	if math.IsNaN(prob) {
		return Prediction{}, fmt.Errorf("%w: record is out of range", ErrInvalidValue)
	}
	return Prediction{Probability: prob, Percent: math.Round(prob*1000) / 10}, nil
}

func (p *Predictor) reset() {
	p.state = Unbuilt
	p.sel = selection{}
	p.prep = nil
	p.model = nil
	p.report = Report{}
	p.form = nil
}

func buildForm(t *table.Table, sel selection) []FormField {
	out := make([]FormField, 0, len(sel.all))
	for _, name := range sel.all {
		if t.IsNumeric(name) {
			out = append(out, FormField{Name: name, Numeric: true, Default: median(t.Floats(name))})
			continue
		}
		opts := distinct(t.Column(name))
		field := FormField{Name: name, Options: opts}
		if len(opts) > 0 {
			field.Default = opts[0]
		}
		out = append(out, field)
	}
	return out
}
