package table

import "errors"

// Sentinel kinds for table codec errors.
var (
	ErrNoHeader  = errors.New("csv has no header row")
	ErrMalformed = errors.New("malformed csv")
	ErrExport    = errors.New("csv export failed")
)
