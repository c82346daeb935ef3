// Package ioutils provides the local image store and the file system and
// image helpers around it.
//
// This package contains:
//   - ImageStore, which copies picked images into the app-owned directory
//   - RenderablePath, which turns stored paths into renderer input
//   - File copying, removal and directory creation
//   - Filename sanitization for cross-platform compatibility
//   - ImageService, which downscales images for upload
//
// # Image Store
//
//	store := ioutils.NewImageStore(dir, 4, logger)
//
//	// Copy one picked image
//	target, err := store.Store(ctx, "file:///sdcard/DCIM/me.jpg")
//
//	// Copy many, order preserved
//	paths, err := store.StoreAll(ctx, uris)
//
//	// Delete
//	err = store.RemoveAll(paths)
//
// # Errors
//
// Store failures are *CopyError. Refused access additionally matches
// ErrPermissionDenied:
//
//	var cerr *ioutils.CopyError
//	if errors.As(err, &cerr) && errors.Is(err, ioutils.ErrPermissionDenied) {
//	    // ask the user for access
//	}
//
// # Renderable Paths
//
//	ioutils.RenderablePath(ioutils.PlatformFileURI, "/data/1-a.jpg") // "file:///data/1-a.jpg"
package ioutils
