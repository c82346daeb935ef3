package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/facematch/internal/album"
	"github.com/handiism/facematch/internal/facematch"
	ioutils "github.com/handiism/facematch/internal/io"
	"github.com/handiism/facematch/internal/kv"
	"github.com/handiism/facematch/internal/match"
	"github.com/handiism/facematch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMatcher struct{}

func (stubMatcher) SubmitWithProgress(_ context.Context, _ model.StoredImage, comparisons []model.StoredImage, _ func(sent, total int64)) (*model.MatchResult, error) {
	return &model.MatchResult{Matches: comparisons[:1], NonMatches: comparisons[1:]}, nil
}

func newTestModel(t *testing.T) (Model, *facematch.Manager) {
	t.Helper()
	dir := t.TempDir()
	store, err := kv.NewFileStore(filepath.Join(dir, "store.json"))
	require.NoError(t, err)

	manager := facematch.NewManager(facematch.Deps{
		Images:  ioutils.NewImageStore(filepath.Join(dir, "images"), 1, nil),
		Matcher: stubMatcher{},
		Albums:  album.NewStore(store, nil),
		KV:      store,
	}, nil)
	return NewModel(manager, nil), manager
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func pickFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte(n), 0644))
		paths = append(paths, p)
	}
	return paths
}

func TestModel_RemoveLastComparison(t *testing.T) {
	m, _ := newTestModel(t)
	m.state = StatePickComparisons
	m.target = "/pics/me.jpg"
	m.comparisons = []string{"/pics/a.jpg", "/pics/b.jpg"}

	m, _ = update(t, m, key("x"))
	assert.Equal(t, []string{"/pics/a.jpg"}, m.comparisons)

	m, _ = update(t, m, key("x"))
	m, _ = update(t, m, key("x"))
	assert.Empty(t, m.comparisons)
}

func TestModel_MatchNeedsTwoComparisons(t *testing.T) {
	m, _ := newTestModel(t)
	m.state = StatePickComparisons
	m.target = "/pics/me.jpg"
	m.comparisons = []string{"/pics/a.jpg"}

	m, cmd := update(t, m, key("m"))
	assert.Nil(t, cmd)
	assert.Equal(t, StatePickComparisons, m.State())
	assert.Contains(t, m.notice, "at least 2")
}

func TestModel_AddComparisonSkipsDuplicates(t *testing.T) {
	m, _ := newTestModel(t)
	m.target = "/pics/me.jpg"

	m.addComparison("/pics/a.jpg")
	m.addComparison("/pics/a.jpg")
	m.addComparison("/pics/me.jpg")
	assert.Equal(t, []string{"/pics/a.jpg"}, m.comparisons)
}

func TestModel_MatchAndSave(t *testing.T) {
	m, manager := newTestModel(t)
	files := pickFiles(t, "me.jpg", "a.jpg", "b.jpg")
	m.state = StatePickComparisons
	m.target = files[0]
	m.comparisons = files[1:]

	m, cmd := update(t, m, key("m"))
	require.NotNil(t, cmd)
	assert.Equal(t, StateMatching, m.State())

	done := m.startMatch()()
	m, _ = update(t, m, done)
	require.Equal(t, StateResults, m.State())
	assert.Contains(t, m.View(), "Matches: 1")

	m, _ = update(t, m, key("s"))
	require.Equal(t, StateSaveAlbum, m.State())

	m, _ = update(t, m, m.saveAlbum("Beach")())
	assert.Equal(t, StateResults, m.State())
	assert.True(t, m.saved)

	albums, err := manager.Albums(context.Background())
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, "Beach", albums[0].Name)

	// A second save under the same name stays in the dialog.
	m.state = StateSaveAlbum
	m, _ = update(t, m, m.saveAlbum("Beach")())
	assert.Equal(t, StateSaveAlbum, m.State())
	assert.Contains(t, m.notice, "already exists")
}

func TestModel_MatchErrorShowsServerMessage(t *testing.T) {
	m, _ := newTestModel(t)
	m.state = StateMatching

	m, _ = update(t, m, MatchDoneMsg{Err: &match.ServerError{StatusCode: 400, Message: "No face detected in target image"}})
	assert.Equal(t, StateError, m.State())
	assert.Contains(t, m.View(), "No face detected in target image")
}

func TestModel_MatchCancelled(t *testing.T) {
	m, _ := newTestModel(t)
	m.state = StateMatching

	m, _ = update(t, m, MatchDoneMsg{Err: context.Canceled})
	assert.Equal(t, StatePickComparisons, m.State())
}

func TestModel_LibraryClearAll(t *testing.T) {
	ctx := context.Background()
	m, manager := newTestModel(t)
	files := pickFiles(t, "me.jpg", "a.jpg", "b.jpg")
	outcome, err := manager.Match(ctx, files[0], files[1:])
	require.NoError(t, err)
	_, err = manager.SaveAlbum(ctx, "Beach", outcome)
	require.NoError(t, err)
	require.NoError(t, manager.SetPreference(ctx, LastDirKey, t.TempDir()))

	m, cmd := update(t, m, key("a"))
	require.Equal(t, StateLibrary, m.State())
	m, _ = update(t, m, cmd())
	require.Len(t, m.albums, 1)
	assert.Contains(t, m.View(), "Beach")

	m, _ = update(t, m, key("c"))
	require.Equal(t, StateConfirmClear, m.State())

	m, cmd = update(t, m, key("y"))
	m, _ = update(t, m, cmd())
	assert.Equal(t, StateLibrary, m.State())

	albums, err := manager.Albums(ctx)
	require.NoError(t, err)
	assert.Empty(t, albums)
	_, ok := manager.Preference(ctx, LastDirKey)
	assert.False(t, ok)
}

func TestModel_LibraryDeleteCancel(t *testing.T) {
	m, _ := newTestModel(t)
	m.state = StateLibrary
	m.albums = []model.Album{{Name: "Beach"}}

	m, _ = update(t, m, key("d"))
	require.Equal(t, StateConfirmDelete, m.State())
	assert.Contains(t, m.View(), `Delete album "Beach"?`)

	m, _ = update(t, m, key("n"))
	assert.Equal(t, StateLibrary, m.State())
}

func TestModel_LibraryPreview(t *testing.T) {
	m, _ := newTestModel(t)
	m.state = StateLibrary
	m.albums = []model.Album{{
		Name:    "Party",
		Matches: []model.StoredImage{"/i/1.jpg", "/i/2.jpg", "/i/3.jpg", "/i/4.jpg", "/i/5.jpg"},
	}}

	view := m.View()
	assert.Contains(t, view, "1.jpg, 2.jpg, 3.jpg")
	assert.Contains(t, view, "+2 more")
	assert.NotContains(t, view, "4.jpg")
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"too few", match.ErrTooFewComparisons, "Pick at least 2 comparison images"},
		{"permission", &ioutils.CopyError{Source: "/x.jpg", Err: errors.Join(ioutils.ErrPermissionDenied, os.ErrPermission)}, "Permission to read the picked image was denied"},
		{"server", &match.ServerError{StatusCode: 500}, "server error (HTTP 500)"},
		{"other", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeError(tt.err); got != tt.want {
				t.Errorf("describeError() = %q, want %q", got, tt.want)
			}
		})
	}
}
