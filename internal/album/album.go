package album

import (
	"context"
	"errors"
	"fmt"

	"github.com/handiism/facematch/internal/model"
)

// Repository persists albums.
//
// Both implementations keep insertion order and enforce exact,
// case-sensitive name uniqueness.
type Repository interface {
	// List returns every album in insertion order.
	List(ctx context.Context) ([]model.Album, error)

	// Append adds album. A name already in use fails with
	// *DuplicateNameError and changes nothing.
	Append(ctx context.Context, album *model.Album) error

	// RemoveByName deletes the album called name; absent names are a no-op.
	RemoveByName(ctx context.Context, name string) error

	// ClearAll removes every album.
	ClearAll(ctx context.Context) error
}

var (
	_ Repository = (*Store)(nil)
	_ Repository = (*RecordStore)(nil)
)

// ErrNotFound is returned by Find for an unknown album name.
var ErrNotFound = errors.New("album not found")

// DuplicateNameError reports an Append whose name is already taken.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("an album named %q already exists", e.Name)
}

// Find returns the album called name from repo.
func Find(ctx context.Context, repo Repository, name string) (*model.Album, error) {
	albums, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range albums {
		if albums[i].Name == name {
			return &albums[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}
