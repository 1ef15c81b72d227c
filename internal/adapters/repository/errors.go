package repository

import "errors"

// ErrStoreClosed marks an operation attempted after Close.
var ErrStoreClosed = errors.New("history store is closed")
