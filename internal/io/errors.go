package ioutils

import (
	"errors"
	"fmt"
)

// ErrPermissionDenied is returned (wrapped) when a source image cannot be
// read because access was refused.
var ErrPermissionDenied = errors.New("permission denied")

// CopyError reports a failed copy of one source into the image store.
//
// Err is either the unreadable-source or unwritable-destination error.
// Use errors.Is(err, ErrPermissionDenied) to tell refused access apart.
type CopyError struct {
	Source string
	Err    error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy %s: %v", e.Source, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}
