package predictor

import "errors"

var (
	// ErrInsufficientFeatures is returned when the table has none of the candidate feature columns.
	ErrInsufficientFeatures = errors.New("insufficient features")
	// ErrTrainingFailed wraps any failure while fitting the pipeline.
	ErrTrainingFailed = errors.New("training failed")
	// ErrNotFitted is returned by Predict before a successful Fit.
	ErrNotFitted = errors.New("predictor not fitted")
	// ErrUnknownFeature is returned when a prediction input names a column outside the selected features.
	ErrUnknownFeature = errors.New("unknown feature")
	// ErrInvalidValue is returned when a numeric feature is given a value that does not parse.
	ErrInvalidValue = errors.New("invalid feature value")
	// ErrInvalidOption is returned by Validate for out of range options.
	ErrInvalidOption = errors.New("invalid predictor option")
)

var (
	errNoRows      = errors.New("no training rows")
	errSingleClass = errors.New("target has a single class")
	errSingular    = errors.New("hessian is not positive definite")
	errNonFinite   = errors.New("non-finite objective")
)
