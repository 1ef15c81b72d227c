package sampledata

import "errors"

// ErrInvalidConfig marks a generation request with impossible parameters.
var ErrInvalidConfig = errors.New("invalid sample data config")
