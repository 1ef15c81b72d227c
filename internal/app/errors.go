package service

import "errors"

// ErrUploadTooLarge marks a batch whose combined file size exceeds the
// configured cap.
var ErrUploadTooLarge = errors.New("upload exceeds the size limit")

// ErrInvalidLimit marks a negative history limit.
var ErrInvalidLimit = errors.New("limit must not be negative")
