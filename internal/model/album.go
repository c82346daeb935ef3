package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// StoredImage is the path of an image file inside the app-owned image
// directory.
//
// A StoredImage is only ever produced by the local image store's copy
// operation; raw picker or camera URIs are never StoredImages.
type StoredImage string

// String returns the path.
func (s StoredImage) String() string {
	return string(s)
}

// Album is a named, persisted match set.
//
// Album contains everything needed to show a saved match later:
//   - Name, the unique key within an album store
//   - TargetImage, the stored copy of the photo that was searched for
//   - Matches, the stored comparison images the server matched
//   - CreatedAt and ID, stamped once when the album is created
//
// The JSON field names are the on-disk format of the album list and must
// not change.
//
// Example:
//
//	album := NewAlbum("Beach trip", target, result.Matches)
//	// album.ID = "3f0c..." and album.CreatedAt = now
type Album struct {
	// Name is the album name. Unique within a store, compared exactly
	// (case-sensitive).
	Name string `json:"name"`

	// Matches are the stored images the server reported as matches,
	// in server order.
	Matches []StoredImage `json:"matches"`

	// TargetImage is the stored copy of the target photo.
	TargetImage StoredImage `json:"targetImage"`

	// CreatedAt is when the album was saved.
	CreatedAt time.Time `json:"createdAt"`

	// ID is a random identifier. Albums written by older clients may
	// carry an empty ID.
	ID string `json:"id"`
}

// NewAlbum creates an Album stamped with the current time and a fresh ID.
//
// The name is trimmed of surrounding whitespace; the matches slice is
// copied so later changes by the caller do not leak into the album.
func NewAlbum(name string, target StoredImage, matches []StoredImage) *Album {
	return &Album{
		Name:        strings.TrimSpace(name),
		Matches:     append([]StoredImage(nil), matches...),
		TargetImage: target,
		CreatedAt:   time.Now().UTC(),
		ID:          uuid.NewString(),
	}
}

// Images returns the target image followed by every match.
func (a *Album) Images() []StoredImage {
	images := make([]StoredImage, 0, len(a.Matches)+1)
	if a.TargetImage != "" {
		images = append(images, a.TargetImage)
	}
	return append(images, a.Matches...)
}

// Preview returns at most n matches for a thumbnail strip and the number
// of matches left out.
//
// Example:
//
//	shown, more := album.Preview(3)
//	// 5 matches -> 3 shown, more = 2 ("+2 more")
func (a *Album) Preview(n int) (shown []StoredImage, more int) {
	if n < 0 {
		n = 0
	}
	if len(a.Matches) <= n {
		return a.Matches, 0
	}
	return a.Matches[:n], len(a.Matches) - n
}
