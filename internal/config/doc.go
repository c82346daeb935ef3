// Package config provides configuration management for facematch.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Conversion to match.Config and the render platform for other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Posts to http://127.0.0.1:5000/verify
//	// Stores images in ~/.facematch/images
//	// Keeps albums in ~/.facematch/store.json
//
// # Loading from File
//
// The format follows the extension: .yaml and .yml are YAML, anything
// else is JSON.
//
//	settings, err := config.Load("/path/to/config.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.Endpoint = "http://10.0.2.2:5000/verify"
//	err := settings.Save("/path/to/config.yaml")
//
// # Configuration Options
//
// Settings includes options for:
//   - Match server endpoint, timeout and user agent
//   - Upload downscaling
//   - Image directory and album store backend
//   - Path rendering platform
//   - Log level and destination
package config
