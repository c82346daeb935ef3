// Package model defines the core data structures used throughout
// facematch.
//
// # StoredImage
//
// StoredImage is a path inside the app-owned image directory. Only the
// image store creates them; every other package treats them as opaque.
//
// # Album
//
// Album is a named match set persisted by the album store:
//
//	album := model.NewAlbum("Beach trip", target, result.Matches)
//	shown, more := album.Preview(3)
//
// # Submission and MatchResult
//
// Submission assigns each comparison image a positional synthetic name
// for the duration of one remote call:
//
//	sub := model.NewSubmission(target, comparisons)
//	path, ok := sub.Lookup("comparison_0.jpg")
//
// MatchResult holds the remapped matches and non-matches.
package model
