package datagen

import "errors"

// Sentinel kinds for generator errors.
var (
	ErrInvalidConfig = errors.New("invalid generator config")
	ErrSmoke         = errors.New("smoke run failed")
)
