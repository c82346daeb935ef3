// Package ioutils provides file system utilities for facematch.
//
// This package contains functions for:
//   - File copying
//   - Filename sanitization
//   - Directory creation
//
// All functions that accept a context.Context respect cancellation,
// though file operations themselves may not be interruptible.
package ioutils

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

var (
	invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots     = regexp.MustCompile(`\.+$`)
	runsOfSpace      = regexp.MustCompile(`\s+`)
)

// CopyFile copies a file from source to destination.
//
// The destination file is created with mode 0644 if it doesn't exist,
// or truncated if it does. The source file must exist and be readable.
//
// Returns ErrPermissionDenied (wrapped) when the source cannot be read
// because of its permissions.
//
// Example:
//
//	err := CopyFile(ctx, "/path/to/source.jpg", "/path/to/dest.jpg")
func CopyFile(ctx context.Context, src, dst string) error {
	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := copyInto(ctx, src, destFile); err != nil {
		destFile.Close()
		return err
	}
	return destFile.Close()
}

// copyInto streams src into an already opened destination.
func copyInto(ctx context.Context, src string, dst io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sourceFile, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return errors.Join(ErrPermissionDenied, err)
		}
		return err
	}
	defer sourceFile.Close()

	_, err = io.Copy(dst, sourceFile)
	return err
}

// RemoveFile deletes a single file.
//
// Unlike os.RemoveAll, a missing file is reported as an error: callers
// only remove paths they believe exist.
func RemoveFile(path string) error {
	return os.Remove(path)
}

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Trip: Day 1/2") // Returns "Trip_ Day 1_2"
func SanitizeFileName(name string) string {
	name = invalidNameChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = runsOfSpace.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
