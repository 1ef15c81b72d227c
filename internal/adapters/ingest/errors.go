package ingest

import "errors"

// ErrEmptyFile marks an upload with no header row.
var ErrEmptyFile = errors.New("file is empty")
