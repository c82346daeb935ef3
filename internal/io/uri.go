package ioutils

import "strings"

// FileScheme is the URI prefix some renderers need in front of local paths.
const FileScheme = "file://"

// Platform selects how local image paths are handed to a renderer.
type Platform int

const (
	// PlatformNative renders raw filesystem paths.
	PlatformNative Platform = iota

	// PlatformFileURI needs local paths as file:// URIs.
	PlatformFileURI
)

// ParsePlatform maps a config value to a Platform. Unknown values fall
// back to PlatformNative.
func ParsePlatform(s string) Platform {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "file_uri", "file-uri", "android":
		return PlatformFileURI
	default:
		return PlatformNative
	}
}

// String returns the config spelling of the platform.
func (p Platform) String() string {
	if p == PlatformFileURI {
		return "file_uri"
	}
	return "native"
}

// RenderablePath converts a stored path to the form the platform renders.
//
// For PlatformFileURI every leading file:// is stripped and exactly one
// is added back; PlatformNative returns the path unchanged. Applying it
// twice gives the same result as applying it once.
//
// Example:
//
//	RenderablePath(PlatformFileURI, "/data/images/1-a.jpg")         // "file:///data/images/1-a.jpg"
//	RenderablePath(PlatformFileURI, "file:///data/images/1-a.jpg")  // unchanged
func RenderablePath(p Platform, path string) string {
	if p != PlatformFileURI {
		return path
	}
	for strings.HasPrefix(path, FileScheme) {
		path = strings.TrimPrefix(path, FileScheme)
	}
	return FileScheme + path
}
