package ioutils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/handiism/facematch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storedName = regexp.MustCompile(`^\d+-[0-9a-z]+\.jpg$`)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func readStored(t *testing.T, p model.StoredImage) string {
	t.Helper()
	data, err := os.ReadFile(string(p))
	require.NoError(t, err)
	return string(data)
}

func TestImageStore_Store(t *testing.T) {
	src := writeSource(t, t.TempDir(), "picked.png", "picked bytes")
	dir := filepath.Join(t.TempDir(), "nested", "images")
	store := NewImageStore(dir, 2, nil)

	p, err := store.Store(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(string(p)))
	assert.Regexp(t, storedName, filepath.Base(string(p)))
	assert.Equal(t, "picked bytes", readStored(t, p))
	assert.True(t, store.Contains(p))
}

func TestImageStore_StoreFileURI(t *testing.T) {
	src := writeSource(t, t.TempDir(), "my_photo.jpg", "uri bytes")
	store := NewImageStore(t.TempDir(), 1, nil)

	p, err := store.Store(context.Background(), "file://"+filepath.ToSlash(src))
	require.NoError(t, err)
	assert.Equal(t, "uri bytes", readStored(t, p))
}

func TestImageStore_RenderablePathResolves(t *testing.T) {
	src := writeSource(t, t.TempDir(), "a.jpg", "same bytes")
	store := NewImageStore(t.TempDir(), 1, nil)

	p, err := store.Store(context.Background(), src)
	require.NoError(t, err)

	for _, platform := range []Platform{PlatformNative, PlatformFileURI} {
		local, err := sourcePath(RenderablePath(platform, string(p)))
		require.NoError(t, err)
		data, err := os.ReadFile(local)
		require.NoError(t, err)
		assert.Equal(t, "same bytes", string(data), "platform %v", platform)
	}
}

func TestImageStore_StoreAllKeepsOrder(t *testing.T) {
	srcDir := t.TempDir()
	var sources []string
	for i := 0; i < 12; i++ {
		sources = append(sources, writeSource(t, srcDir, fmt.Sprintf("s%02d.jpg", i), fmt.Sprintf("content-%d", i)))
	}
	store := NewImageStore(t.TempDir(), 4, nil)

	paths, err := store.StoreAll(context.Background(), sources)
	require.NoError(t, err)
	require.Len(t, paths, len(sources))

	seen := make(map[model.StoredImage]bool)
	for i, p := range paths {
		assert.Equal(t, fmt.Sprintf("content-%d", i), readStored(t, p))
		assert.False(t, seen[p], "duplicate path %s", p)
		seen[p] = true
	}
}

func TestImageStore_StoreAllFailsBatch(t *testing.T) {
	srcDir := t.TempDir()
	good := writeSource(t, srcDir, "good.jpg", "ok")
	missing := filepath.Join(srcDir, "missing.jpg")
	store := NewImageStore(t.TempDir(), 1, nil)

	paths, err := store.StoreAll(context.Background(), []string{good, missing})
	require.Error(t, err)
	assert.Nil(t, paths)

	var cerr *CopyError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, missing, cerr.Source)
}

func TestImageStore_UnsupportedScheme(t *testing.T) {
	store := NewImageStore(t.TempDir(), 1, nil)

	_, err := store.Store(context.Background(), "content://media/external/images/1")
	var cerr *CopyError
	require.True(t, errors.As(err, &cerr))
}

func TestImageStore_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}
	src := writeSource(t, t.TempDir(), "locked.jpg", "secret")
	require.NoError(t, os.Chmod(src, 0))
	store := NewImageStore(t.TempDir(), 1, nil)

	_, err := store.Store(context.Background(), src)
	require.ErrorIs(t, err, ErrPermissionDenied)

	leftovers, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestImageStore_NameCollisionDrawsNewToken(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir, 1, nil)
	store.now = func() time.Time { return time.UnixMilli(1700000000000) }
	tokens := []string{"taken", "taken", "free"}
	store.token = func() string {
		tok := tokens[0]
		tokens = tokens[1:]
		return tok
	}
	existing := filepath.Join(dir, "1700000000000-taken.jpg")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0644))

	p, err := store.Store(context.Background(), writeSource(t, t.TempDir(), "n.jpg", "new"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "1700000000000-free.jpg"), string(p))
	assert.Equal(t, "old", readStored(t, model.StoredImage(existing)))
}

func TestImageStore_Remove(t *testing.T) {
	store := NewImageStore(t.TempDir(), 2, nil)
	srcDir := t.TempDir()
	a, err := store.Store(context.Background(), writeSource(t, srcDir, "a.jpg", "a"))
	require.NoError(t, err)
	b, err := store.Store(context.Background(), writeSource(t, srcDir, "b.jpg", "b"))
	require.NoError(t, err)

	require.NoError(t, store.RemoveAll([]model.StoredImage{a, b}))

	left, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, left)

	assert.Error(t, store.Remove(a), "removing a missing file must fail")
	assert.Error(t, store.RemoveAll([]model.StoredImage{b}))
}

func TestImageStore_ListEmptyDir(t *testing.T) {
	store := NewImageStore(filepath.Join(t.TempDir(), "never-created"), 1, nil)
	images, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestImageStore_Contains(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir, 1, nil)

	assert.True(t, store.Contains(model.StoredImage(filepath.Join(dir, "1-a.jpg"))))
	assert.False(t, store.Contains(model.StoredImage(filepath.Join(dir, "sub", "1-a.jpg"))))
	assert.False(t, store.Contains(model.StoredImage(filepath.Join(filepath.Dir(dir), "1-a.jpg"))))
	assert.False(t, store.Contains(model.StoredImage(dir)))
}
