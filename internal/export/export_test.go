package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/handiism/facematch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedFile(t *testing.T, dir, name, content string) model.StoredImage {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return model.StoredImage(path)
}

func TestMatchFileName(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "match_01.jpg"},
		{8, "match_09.jpg"},
		{9, "match_10.jpg"},
		{99, "match_100.jpg"},
	}

	for _, tt := range tests {
		if got := MatchFileName(tt.index); got != tt.want {
			t.Errorf("MatchFileName(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestDirName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Beach trip", "Beach trip"},
		{"separators", "Trip: Day 1/2", "Trip_ Day 1_2"},
		{"dots only", "..", "album"},
		{"empty", "", "album"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DirName(tt.input); got != tt.want {
				t.Errorf("DirName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExporter_Export(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	album := model.NewAlbum("Beach: day 1", storedFile(t, src, "1-t.jpg", "target"), []model.StoredImage{
		storedFile(t, src, "2-a.jpg", "first"),
		storedFile(t, src, "3-b.jpg", "second"),
	})

	exporter := NewExporter()
	exported := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	exporter.now = func() time.Time { return exported }

	dir, err := exporter.Export(context.Background(), album, out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "Beach_ day 1"), dir)

	for name, want := range map[string]string{
		"target.jpg":   "target",
		"match_01.jpg": "first",
		"match_02.jpg": "second",
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, want, string(data), name)
	}

	data, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	require.NoError(t, err)
	var got Manifest
	require.NoError(t, json.Unmarshal(data, &got))

	want := Manifest{
		Name:       album.Name,
		ID:         album.ID,
		CreatedAt:  album.CreatedAt,
		ExportedAt: exported,
		Target:     "target.jpg",
		Matches:    []string{"match_01.jpg", "match_02.jpg"},
		Sources: map[string]string{
			"target.jpg":   string(album.TargetImage),
			"match_01.jpg": string(album.Matches[0]),
			"match_02.jpg": string(album.Matches[1]),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestExporter_MissingImage(t *testing.T) {
	src := t.TempDir()
	album := model.NewAlbum("Gone", storedFile(t, src, "t.jpg", "t"), []model.StoredImage{
		model.StoredImage(filepath.Join(src, "deleted.jpg")),
	})

	_, err := NewExporter().Export(context.Background(), album, t.TempDir())
	assert.Error(t, err)
}
