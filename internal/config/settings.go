package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/handiism/facematch/internal/http"
	ioutils "github.com/handiism/facematch/internal/io"
	"github.com/handiism/facematch/internal/match"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	// BackendFile keeps the album list as JSON under one key of a JSON
	// file key-value store.
	BackendFile = "file"

	// BackendSQLite keeps the album list as JSON under one key of an
	// SQLite key-value store.
	BackendSQLite = "sqlite"

	// BackendRecords keeps one SQLite row per album.
	BackendRecords = "records"
)

// Settings holds all configuration options.
type Settings struct {
	// Server settings
	Endpoint       string `json:"endpoint" yaml:"endpoint"`
	RequestTimeout int    `json:"request_timeout" yaml:"request_timeout"` // seconds, 0 = none
	UserAgent      string `json:"user_agent" yaml:"user_agent"`

	// Upload settings
	HighQuality   bool `json:"high_quality" yaml:"high_quality"`
	UploadMaxSize int  `json:"upload_max_size" yaml:"upload_max_size"`

	// Storage settings
	ImagesDir           string `json:"images_dir" yaml:"images_dir"`
	StorePath           string `json:"store_path" yaml:"store_path"`
	StoreBackend        string `json:"store_backend" yaml:"store_backend"` // file, sqlite, records
	MaxConcurrentCopies int    `json:"max_concurrent_copies" yaml:"max_concurrent_copies"`

	// Display settings
	Platform string `json:"platform" yaml:"platform"` // native, file_uri

	// Logging settings
	LogLevel string `json:"log_level" yaml:"log_level"`
	LogFile  string `json:"log_file" yaml:"log_file"`
}

// BaseDir returns the default directory for facematch data, ~/.facematch.
func BaseDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".facematch")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(BaseDir(), "config.yaml")
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	base := BaseDir()
	return &Settings{
		Endpoint:       "http://127.0.0.1:5000/verify",
		RequestTimeout: 0,
		UserAgent:      http.DefaultUserAgent,

		HighQuality:   true,
		UploadMaxSize: 1024,

		ImagesDir:           filepath.Join(base, "images"),
		StorePath:           filepath.Join(base, "store.json"),
		StoreBackend:        BackendFile,
		MaxConcurrentCopies: 4,

		Platform: ioutils.PlatformNative.String(),

		LogLevel: "info",
	}
}

// Load reads settings from a JSON or YAML file, chosen by extension.
// A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, err
	}

	settings.expandHome()
	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ToClientConfig converts settings to the match client configuration.
func (s *Settings) ToClientConfig() match.Config {
	cfg := match.Config{Endpoint: s.Endpoint}
	if !s.HighQuality {
		cfg.MaxUploadSize = s.UploadMaxSize
	}
	return cfg
}

// Timeout returns RequestTimeout as a duration.
func (s *Settings) Timeout() time.Duration {
	if s.RequestTimeout <= 0 {
		return 0
	}
	return time.Duration(s.RequestTimeout) * time.Second
}

// RenderPlatform returns how stored paths are handed to renderers.
func (s *Settings) RenderPlatform() ioutils.Platform {
	return ioutils.ParsePlatform(s.Platform)
}

// AlbumDBPath is the database file used by the records backend, next to
// StorePath.
func (s *Settings) AlbumDBPath() string {
	return filepath.Join(filepath.Dir(s.StorePath), "albums.db")
}

func (s *Settings) expandHome() {
	s.ImagesDir = expandHome(s.ImagesDir)
	s.StorePath = expandHome(s.StorePath)
	s.LogFile = expandHome(s.LogFile)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
