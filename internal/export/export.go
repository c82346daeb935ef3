package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	ioutils "github.com/handiism/facematch/internal/io"
	"github.com/handiism/facematch/internal/model"
)

const (
	// ManifestFileName is the manifest written next to the exported images.
	ManifestFileName = "album.json"

	// TargetFileName is the exported copy of the target image.
	TargetFileName = "target.jpg"
)

// Manifest describes an exported album.
//
// Image fields hold file names relative to the export directory; Sources
// maps each of them back to the stored path it was copied from.
type Manifest struct {
	Name       string            `json:"name"`
	ID         string            `json:"id,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	ExportedAt time.Time         `json:"exportedAt"`
	Target     string            `json:"target,omitempty"`
	Matches    []string          `json:"matches"`
	Sources    map[string]string `json:"sources"`
}

// MatchFileName returns the exported name of the i-th match (0-based):
// match_01.jpg, match_02.jpg, ...
func MatchFileName(i int) string {
	return fmt.Sprintf("match_%02d.jpg", i+1)
}

// DirName returns the folder an album is exported into under a parent
// directory. Characters that are invalid in file names are replaced.
func DirName(albumName string) string {
	name := ioutils.SanitizeFileName(albumName)
	if name == "" {
		name = "album"
	}
	return name
}

// Exporter copies saved albums out of the image store into plain folders.
//
// Example:
//
//	exporter := NewExporter()
//	dir, err := exporter.Export(ctx, album, "/home/me/Pictures")
//	// dir = "/home/me/Pictures/Beach trip"
//	//   target.jpg
//	//   match_01.jpg
//	//   match_02.jpg
//	//   album.json
type Exporter struct {
	now func() time.Time
}

// NewExporter creates a new Exporter.
func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

// Export writes album into parent/<album name>/ and returns that directory.
//
// Existing files with the same names are overwritten, so exporting an
// album twice refreshes the folder.
func (e *Exporter) Export(ctx context.Context, album *model.Album, parent string) (string, error) {
	dir := filepath.Join(parent, DirName(album.Name))
	if err := ioutils.EnsureDir(dir); err != nil {
		return "", err
	}

	manifest := Manifest{
		Name:       album.Name,
		ID:         album.ID,
		CreatedAt:  album.CreatedAt,
		ExportedAt: e.now().UTC(),
		Matches:    make([]string, 0, len(album.Matches)),
		Sources:    make(map[string]string, len(album.Matches)+1),
	}

	if album.TargetImage != "" {
		if err := ioutils.CopyFile(ctx, string(album.TargetImage), filepath.Join(dir, TargetFileName)); err != nil {
			return "", fmt.Errorf("export target: %w", err)
		}
		manifest.Target = TargetFileName
		manifest.Sources[TargetFileName] = string(album.TargetImage)
	}

	for i, match := range album.Matches {
		name := MatchFileName(i)
		if err := ioutils.CopyFile(ctx, string(match), filepath.Join(dir, name)); err != nil {
			return "", fmt.Errorf("export %s: %w", name, err)
		}
		manifest.Matches = append(manifest.Matches, name)
		manifest.Sources[name] = string(match)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), data, 0644); err != nil {
		return "", err
	}

	return dir, nil
}
