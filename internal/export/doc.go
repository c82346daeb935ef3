// Package export copies saved albums into ordinary folders.
//
// An exported album is a directory named after the album holding the
// target image, the matches in album order and a JSON manifest:
//
//	Beach trip/
//	  target.jpg
//	  match_01.jpg
//	  match_02.jpg
//	  album.json
//
// The manifest records the album name, ID, creation and export times and
// the stored path each file was copied from.
package export
