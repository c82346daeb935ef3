package facematch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync/atomic"

	"github.com/handiism/facematch/internal/album"
	"github.com/handiism/facematch/internal/export"
	ioutils "github.com/handiism/facematch/internal/io"
	"github.com/handiism/facematch/internal/kv"
	"github.com/handiism/facematch/internal/match"
	"github.com/handiism/facematch/internal/model"
	"go.uber.org/zap"
)

var (
	// ErrEmptyAlbumName is returned by SaveAlbum for a blank name.
	ErrEmptyAlbumName = errors.New("album name is empty")

	// ErrNoMatches is returned by SaveAlbum when there is nothing to save.
	ErrNoMatches = errors.New("no matches to save")
)

// Matcher submits a target and comparisons to the match server.
type Matcher interface {
	SubmitWithProgress(ctx context.Context, target model.StoredImage, comparisons []model.StoredImage, onProgress func(sent, total int64)) (*model.MatchResult, error)
}

var _ Matcher = (*match.Client)(nil)

// Outcome is the result of one Match call.
type Outcome struct {
	// Target is the stored copy of the target image.
	Target model.StoredImage

	// Comparisons are the stored copies of the comparison images, in the
	// order they were picked.
	Comparisons []model.StoredImage

	// Result splits Comparisons into matches and non-matches.
	Result *model.MatchResult
}

// Deps are the components a Manager coordinates.
type Deps struct {
	Images   *ioutils.ImageStore
	Matcher  Matcher
	Albums   album.Repository
	KV       kv.Store
	Platform ioutils.Platform
	Logger   *zap.Logger
}

// Manager coordinates the match flow and the album library.
//
// Manager ties the image store, the match client and the album repository
// together the way a UI uses them: copy picked images into the store,
// submit them, then save the matches as an album.
//
// Example:
//
//	m := NewManager(deps, func(e ProgressEvent) { fmt.Println(e.Message) })
//	outcome, err := m.Match(ctx, "/sdcard/me.jpg", []string{"/sdcard/a.jpg", "/sdcard/b.jpg"})
//	if err == nil && len(outcome.Result.Matches) > 0 {
//	    _, err = m.SaveAlbum(ctx, "Beach trip", outcome)
//	}
type Manager struct {
	images   *ioutils.ImageStore
	matcher  Matcher
	albums   album.Repository
	kv       kv.Store
	platform ioutils.Platform
	exporter *export.Exporter
	logger   *zap.Logger

	sentBytes  int64
	totalBytes int64

	onProgress func(ProgressEvent)
	closers    []func() error
}

// NewManager creates a new Manager.
func NewManager(deps Deps, onProgress func(ProgressEvent)) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		images:     deps.Images,
		matcher:    deps.Matcher,
		albums:     deps.Albums,
		kv:         deps.KV,
		platform:   deps.Platform,
		exporter:   export.NewExporter(),
		logger:     logger,
		onProgress: onProgress,
	}
}

// Match copies the target and comparison images into the image store and
// asks the server which comparisons show the target's face.
//
// Fewer than model.MinComparisons comparisons fail with
// match.ErrTooFewComparisons before anything is copied. Copy failures are
// *ioutils.CopyError; server failures are *match.ServerError. Images that
// were already copied when a later step fails stay in the store until
// Prune.
func (m *Manager) Match(ctx context.Context, targetURI string, comparisonURIs []string) (*Outcome, error) {
	if len(comparisonURIs) < model.MinComparisons {
		return nil, match.ErrTooFewComparisons
	}

	m.progress(ProgressEvent{Message: "Copying target image", Level: LevelVerbose})
	target, err := m.images.Store(ctx, targetURI)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error copying target: %v", err), Level: LevelError})
		return nil, err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Copying %d comparison images", len(comparisonURIs)), Level: LevelVerbose})
	comparisons, err := m.images.StoreAll(ctx, comparisonURIs)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error copying comparisons: %v", err), Level: LevelError})
		return nil, err
	}

	atomic.StoreInt64(&m.sentBytes, 0)
	atomic.StoreInt64(&m.totalBytes, 0)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Uploading %d images", len(comparisons)+1), Level: LevelInfo})

	result, err := m.matcher.SubmitWithProgress(ctx, target, comparisons, func(sent, total int64) {
		atomic.StoreInt64(&m.sentBytes, sent)
		atomic.StoreInt64(&m.totalBytes, total)
	})
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Match failed: %v", err), Level: LevelError})
		return nil, err
	}

	m.logger.Info("Match finished",
		zap.String("target", target.String()),
		zap.Int("matches", len(result.Matches)),
		zap.Int("non_matches", len(result.NonMatches)))
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Found %d matches and %d non-matches", len(result.Matches), len(result.NonMatches)),
		Level:   LevelSuccess,
	})

	return &Outcome{Target: target, Comparisons: comparisons, Result: result}, nil
}

// UploadProgress returns the bytes sent and the total of the current or
// last upload.
func (m *Manager) UploadProgress() (sent, total int64) {
	return atomic.LoadInt64(&m.sentBytes), atomic.LoadInt64(&m.totalBytes)
}

// SaveAlbum stores outcome's matches as an album called name.
//
// The name is trimmed first. A blank name fails with ErrEmptyAlbumName,
// an outcome without matches with ErrNoMatches, and a taken name with
// *album.DuplicateNameError.
func (m *Manager) SaveAlbum(ctx context.Context, name string, outcome *Outcome) (*model.Album, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyAlbumName
	}
	if outcome == nil || outcome.Result == nil || len(outcome.Result.Matches) == 0 {
		return nil, ErrNoMatches
	}

	a := model.NewAlbum(name, outcome.Target, outcome.Result.Matches)
	if err := m.albums.Append(ctx, a); err != nil {
		return nil, err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Saved album %q", a.Name), Level: LevelSuccess})
	return a, nil
}

// Albums returns every saved album in the order they were saved.
func (m *Manager) Albums(ctx context.Context) ([]model.Album, error) {
	return m.albums.List(ctx)
}

// Album returns the album called name, or album.ErrNotFound.
func (m *Manager) Album(ctx context.Context, name string) (*model.Album, error) {
	return album.Find(ctx, m.albums, name)
}

// DeleteAlbum removes the album called name. Unknown names are a no-op.
//
// With purge set, the album's images are also deleted from the image
// store unless another album still uses them.
func (m *Manager) DeleteAlbum(ctx context.Context, name string, purge bool) error {
	var images []model.StoredImage
	if purge {
		a, err := m.Album(ctx, name)
		switch {
		case errors.Is(err, album.ErrNotFound):
		case err != nil:
			return err
		default:
			images = a.Images()
		}
	}

	if err := m.albums.RemoveByName(ctx, name); err != nil {
		return err
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Deleted album %q", name), Level: LevelInfo})

	if len(images) == 0 {
		return nil
	}

	used, err := m.referenced(ctx)
	if err != nil {
		return err
	}
	var orphans []model.StoredImage
	for _, img := range images {
		if !used[img] && m.images.Contains(img) {
			orphans = append(orphans, img)
		}
	}
	if err := m.images.RemoveAll(orphans); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ClearAll deletes every album and every other value in the key-value
// store. Image files are left in place; use Prune to remove them.
func (m *Manager) ClearAll(ctx context.Context) error {
	if err := m.albums.ClearAll(ctx); err != nil {
		return err
	}
	if m.kv != nil {
		if err := m.kv.Clear(ctx); err != nil {
			return err
		}
	}
	m.progress(ProgressEvent{Message: "Cleared all data", Level: LevelSuccess})
	return nil
}

// Prune deletes stored images no album refers to and returns how many
// were removed.
func (m *Manager) Prune(ctx context.Context) (int, error) {
	used, err := m.referenced(ctx)
	if err != nil {
		return 0, err
	}

	stored, err := m.images.List()
	if err != nil {
		return 0, err
	}

	var orphans []model.StoredImage
	for _, img := range stored {
		if !used[img] {
			orphans = append(orphans, img)
		}
	}
	if err := m.images.RemoveAll(orphans); err != nil {
		return 0, err
	}

	m.logger.Info("Pruned image store", zap.Int("removed", len(orphans)), zap.Int("kept", len(stored)-len(orphans)))
	m.progress(ProgressEvent{Message: fmt.Sprintf("Removed %d unused images", len(orphans)), Level: LevelInfo})
	return len(orphans), nil
}

// Export copies the album called name into parent/<name>/ and returns the
// directory written.
func (m *Manager) Export(ctx context.Context, name, parent string) (string, error) {
	a, err := m.Album(ctx, name)
	if err != nil {
		return "", err
	}
	dir, err := m.exporter.Export(ctx, a, parent)
	if err != nil {
		return "", err
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Exported %q to %s", a.Name, dir), Level: LevelSuccess})
	return dir, nil
}

// RenderablePath returns img in the form the configured platform renders.
func (m *Manager) RenderablePath(img model.StoredImage) string {
	return ioutils.RenderablePath(m.platform, img.String())
}

// Preference returns a UI preference from the key-value store.
func (m *Manager) Preference(ctx context.Context, key string) (string, bool) {
	if m.kv == nil {
		return "", false
	}
	value, ok, err := m.kv.Get(ctx, key)
	if err != nil {
		m.logger.Warn("Failed to read preference", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return value, ok
}

// SetPreference stores a UI preference in the key-value store.
func (m *Manager) SetPreference(ctx context.Context, key, value string) error {
	if m.kv == nil {
		return nil
	}
	return m.kv.Set(ctx, key, value)
}

// Close releases the stores opened by Open.
func (m *Manager) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i]())
	}
	return errors.Join(errs...)
}

func (m *Manager) referenced(ctx context.Context) (map[model.StoredImage]bool, error) {
	albums, err := m.albums.List(ctx)
	if err != nil {
		return nil, err
	}
	used := make(map[model.StoredImage]bool)
	for i := range albums {
		for _, img := range albums[i].Images() {
			used[img] = true
		}
	}
	return used, nil
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
