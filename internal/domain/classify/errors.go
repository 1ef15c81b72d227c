package classify

import "errors"

// Sentinel kinds for classification errors.
var (
	// ErrUnrecognizedSchema marks a file matching none of the known
	// classification rules. The whole request is rejected rather than
	// partially processed.
	ErrUnrecognizedSchema = errors.New("unrecognized schema")

	// ErrMissingTipsSource marks a batch with no tips file. At least one
	// recognized tips file is a hard precondition of every analysis.
	ErrMissingTipsSource = errors.New("a tips file is required")
)
