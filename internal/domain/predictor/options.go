package predictor

import "fmt"

const (
	DefaultRegularization = 1.0
	DefaultMaxIterations  = 500
	DefaultTolerance      = 1e-6
	DefaultSeed           = 42
	DefaultTestFraction   = 0.2
	DefaultMinSplitRows   = 10
)

// Option configures a Predictor.
type Option func(*Predictor)

// WithRegularization sets the inverse L2 strength C.
func WithRegularization(c float64) Option {
	return func(p *Predictor) {
		p.c = c
	}
}

// WithMaxIterations caps the Newton iterations.
func WithMaxIterations(n int) Option {
	return func(p *Predictor) {
		p.maxIter = n
	}
}

// WithTolerance sets the relative gradient norm at which fitting stops.
func WithTolerance(tol float64) Option {
	return func(p *Predictor) {
		p.tol = tol
	}
}

// WithSeed sets the split seed.
func WithSeed(seed int64) Option {
	return func(p *Predictor) {
		p.seed = seed
	}
}

// WithTestFraction sets the share of rows held out for evaluation.
func WithTestFraction(f float64) Option {
	return func(p *Predictor) {
		p.testFraction = f
	}
}

// WithMinSplitRows sets the smallest table that gets a holdout split.
func WithMinSplitRows(n int) Option {
	return func(p *Predictor) {
		p.minSplitRows = n
	}
}

// Validate checks the configured options.
func (p *Predictor) Validate() error {
	switch {
	case p.c <= 0:
		return fmt.Errorf("%w: regularization must be positive, got %v", ErrInvalidOption, p.c)
	case p.maxIter <= 0:
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidOption, p.maxIter)
	case p.tol <= 0:
		return fmt.Errorf("%w: tolerance must be positive, got %v", ErrInvalidOption, p.tol)
	case p.testFraction <= 0 || p.testFraction >= 1:
		return fmt.Errorf("%w: test fraction must be in (0,1), got %v", ErrInvalidOption, p.testFraction)
	case p.minSplitRows < 2:
		return fmt.Errorf("%w: min split rows must be at least 2, got %d", ErrInvalidOption, p.minSplitRows)
	}
	return nil
}
