package album

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/handiism/facematch/internal/kv"
	"github.com/handiism/facematch/internal/model"
	"go.uber.org/zap"
)

// Key is the key-value key holding the JSON album list.
const Key = "albums"

// Store keeps the whole album list as one JSON array under Key.
//
// Every operation reads or writes the complete list. Mutations inside one
// process are serialized; writers in other processes sharing the same
// key-value store can still overwrite each other.
//
// Example:
//
//	store := album.NewStore(kvStore, logger)
//	err := store.Append(ctx, model.NewAlbum("Beach", target, matches))
//	var dup *album.DuplicateNameError
//	if errors.As(err, &dup) {
//	    // pick another name
//	}
type Store struct {
	kv     kv.Store
	logger *zap.Logger
	mu     sync.Mutex
}

// NewStore creates an album Store on top of a key-value store.
func NewStore(store kv.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: store, logger: logger}
}

// List returns every album.
//
// A missing key yields an empty list. So does a value that cannot be
// parsed: the failure is logged, not returned.
func (s *Store) List(ctx context.Context) ([]model.Album, error) {
	return s.read(ctx)
}

// Append adds album to the end of the list.
func (s *Store) Append(ctx context.Context, album *model.Album) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	albums, err := s.read(ctx)
	if err != nil {
		return err
	}
	for _, a := range albums {
		if a.Name == album.Name {
			return &DuplicateNameError{Name: album.Name}
		}
	}

	if err := s.write(ctx, append(albums, *album)); err != nil {
		return err
	}
	s.logger.Info("Saved album", zap.String("name", album.Name), zap.Int("matches", len(album.Matches)))
	return nil
}

// RemoveByName drops the album called name and rewrites the list.
func (s *Store) RemoveByName(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	albums, err := s.read(ctx)
	if err != nil {
		return err
	}

	kept := make([]model.Album, 0, len(albums))
	for _, a := range albums {
		if a.Name != name {
			kept = append(kept, a)
		}
	}

	if err := s.write(ctx, kept); err != nil {
		return err
	}
	if len(kept) != len(albums) {
		s.logger.Info("Deleted album", zap.String("name", name))
	}
	return nil
}

// ClearAll wipes the underlying key-value store: albums and every other
// key kept there.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("Cleared all stored data")
	return nil
}

func (s *Store) read(ctx context.Context) ([]model.Album, error) {
	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []model.Album{}, nil
	}

	var albums []model.Album
	if err := json.Unmarshal([]byte(raw), &albums); err != nil {
		s.logger.Warn("Album list is unreadable, treating as empty", zap.Error(err))
		return []model.Album{}, nil
	}
	if albums == nil {
		albums = []model.Album{}
	}
	return albums, nil
}

func (s *Store) write(ctx context.Context, albums []model.Album) error {
	data, err := json.Marshal(albums)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, Key, string(data))
}
