package album

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/handiism/facematch/internal/kv"
	"github.com/handiism/facematch/internal/model"
	"go.uber.org/zap"
)

// RecordStore keeps one SQLite row per album, keyed by name.
//
// Unlike Store, each mutation touches a single record, and the UNIQUE
// name constraint is enforced by the database, so concurrent writers
// cannot lose each other's albums.
type RecordStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRecordStore opens (or creates) the album database at path.
// Use ":memory:" for a throwaway store.
func NewRecordStore(path string, logger *zap.Logger) (*RecordStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := kv.OpenSQLite(path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS albums (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		id TEXT NOT NULL DEFAULT '',
		target_image TEXT NOT NULL,
		matches TEXT NOT NULL,
		created_at TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create albums table: %w", err)
	}

	return &RecordStore{db: db, logger: logger}, nil
}

// List returns every album in insertion order.
func (s *RecordStore) List(ctx context.Context) ([]model.Album, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, id, target_image, matches, created_at FROM albums ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	albums := []model.Album{}
	for rows.Next() {
		var (
			a         model.Album
			target    string
			matches   string
			createdAt string
		)
		if err := rows.Scan(&a.Name, &a.ID, &target, &matches, &createdAt); err != nil {
			return nil, err
		}
		a.TargetImage = model.StoredImage(target)
		if err := json.Unmarshal([]byte(matches), &a.Matches); err != nil {
			s.logger.Warn("Skipping unreadable album", zap.String("name", a.Name), zap.Error(err))
			continue
		}
		a.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

// Append inserts album.
func (s *RecordStore) Append(ctx context.Context, album *model.Album) error {
	matches, err := json.Marshal(album.Matches)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO albums (name, id, target_image, matches, created_at) VALUES (?, ?, ?, ?, ?)`,
		album.Name, album.ID, string(album.TargetImage), string(matches),
		album.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return &DuplicateNameError{Name: album.Name}
		}
		return err
	}

	s.logger.Info("Saved album", zap.String("name", album.Name), zap.Int("matches", len(album.Matches)))
	return nil
}

// RemoveByName deletes the album called name.
func (s *RecordStore) RemoveByName(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM albums WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.logger.Info("Deleted album", zap.String("name", name))
	}
	return nil
}

// ClearAll deletes every album.
func (s *RecordStore) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM albums`)
	return err
}

// Close closes the database.
func (s *RecordStore) Close() error {
	return s.db.Close()
}
