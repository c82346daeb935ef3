package ioutils

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/handiism/facematch/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxNameAttempts bounds how many fresh names Store draws when the
// generated destination already exists.
const maxNameAttempts = 8

// ImageStore copies externally supplied images into one app-owned
// directory and hands back StoredImage paths.
//
// Destination names are "{unixMillis}-{token}.jpg". The file is created
// exclusively, so a name that is already taken is never overwritten; a
// new token is drawn instead.
//
// Example:
//
//	store := NewImageStore("/home/me/.facematch/images", 4, logger)
//	target, err := store.Store(ctx, "file:///sdcard/DCIM/me.jpg")
//	comparisons, err := store.StoreAll(ctx, pickedURIs)
type ImageStore struct {
	dir         string
	concurrency int
	logger      *zap.Logger

	now   func() time.Time
	token func() string
}

// NewImageStore creates an ImageStore rooted at dir.
//
// concurrency limits parallel copies in StoreAll; values below 1 mean 1.
// The directory is created lazily on the first Store.
func NewImageStore(dir string, concurrency int, logger *zap.Logger) *ImageStore {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageStore{
		dir:         dir,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
		token:       randomToken,
	}
}

// Dir returns the directory images are stored in.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Store copies one source image into the store and returns its new path.
//
// sourceURI is a plain file path or a file:// URI. Any other scheme fails.
// Failures are returned as *CopyError; a source that could not be opened
// for lack of permission also matches ErrPermissionDenied.
func (s *ImageStore) Store(ctx context.Context, sourceURI string) (model.StoredImage, error) {
	src, err := sourcePath(sourceURI)
	if err != nil {
		return "", &CopyError{Source: sourceURI, Err: err}
	}

	if err := EnsureDir(s.dir); err != nil {
		return "", &CopyError{Source: sourceURI, Err: err}
	}

	dst, file, err := s.create()
	if err != nil {
		return "", &CopyError{Source: sourceURI, Err: err}
	}

	if err := copyInto(ctx, src, file); err != nil {
		file.Close()
		os.Remove(dst)
		return "", &CopyError{Source: sourceURI, Err: err}
	}
	if err := file.Close(); err != nil {
		os.Remove(dst)
		return "", &CopyError{Source: sourceURI, Err: err}
	}

	s.logger.Debug("Stored image", zap.String("source", sourceURI), zap.String("path", dst))
	return model.StoredImage(dst), nil
}

// StoreAll copies every source into the store.
//
// Copies run concurrently, but the returned paths are in input order. If
// any copy fails the whole batch fails with that error; images that were
// already copied stay on disk.
func (s *ImageStore) StoreAll(ctx context.Context, sourceURIs []string) ([]model.StoredImage, error) {
	paths := make([]model.StoredImage, len(sourceURIs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, uri := range sourceURIs {
		g.Go(func() error {
			p, err := s.Store(ctx, uri)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Warn("Batch store failed", zap.Int("count", len(sourceURIs)), zap.Error(err))
		return nil, err
	}
	return paths, nil
}

// Remove deletes one stored image. A missing file is an error.
func (s *ImageStore) Remove(path model.StoredImage) error {
	if err := RemoveFile(string(path)); err != nil {
		return fmt.Errorf("remove image: %w", err)
	}
	s.logger.Debug("Removed image", zap.String("path", string(path)))
	return nil
}

// RemoveAll deletes every given image. All removals are attempted; the
// first failure is returned.
func (s *ImageStore) RemoveAll(paths []model.StoredImage) error {
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, p := range paths {
		g.Go(func() error {
			return s.Remove(p)
		})
	}
	return g.Wait()
}

// List returns every file currently in the store directory, sorted by
// name. A store that was never written to is empty.
func (s *ImageStore) List() ([]model.StoredImage, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var images []model.StoredImage
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		images = append(images, model.StoredImage(filepath.Join(s.dir, e.Name())))
	}
	return images, nil
}

// Contains reports whether path points into the store directory.
func (s *ImageStore) Contains(path model.StoredImage) bool {
	rel, err := filepath.Rel(s.dir, string(path))
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..") && !strings.ContainsRune(rel, filepath.Separator)
}

// create opens a new, previously nonexistent destination file.
func (s *ImageStore) create() (string, *os.File, error) {
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := fmt.Sprintf("%d-%s.jpg", s.now().UnixMilli(), s.token())
		path := filepath.Join(s.dir, name)

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			s.logger.Debug("Image name taken, drawing another", zap.String("name", name))
			continue
		}
		if err != nil {
			return "", nil, err
		}
		return path, file, nil
	}
	return "", nil, fmt.Errorf("no free image name after %d attempts", maxNameAttempts)
}

// sourcePath turns a picker URI into a local path.
func sourcePath(uri string) (string, error) {
	if strings.HasPrefix(uri, FileScheme) {
		u, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return u.Path, nil
	}
	if i := strings.Index(uri, "://"); i > 0 {
		return "", fmt.Errorf("unsupported source scheme %q", uri[:i])
	}
	if uri == "" {
		return "", errors.New("empty source")
	}
	return uri, nil
}

// randomToken returns a short base-36 string.
func randomToken() string {
	t := strconv.FormatUint(rand.Uint64(), 36)
	if len(t) > 8 {
		t = t[:8]
	}
	return t
}
