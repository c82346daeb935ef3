package facematch

import (
	"fmt"

	"github.com/handiism/facematch/internal/album"
	"github.com/handiism/facematch/internal/config"
	"github.com/handiism/facematch/internal/http"
	ioutils "github.com/handiism/facematch/internal/io"
	"github.com/handiism/facematch/internal/kv"
	"github.com/handiism/facematch/internal/match"
	"go.uber.org/zap"
)

// Open builds a Manager from settings, opening the configured stores.
// Call Close when done.
func Open(settings *config.Settings, logger *zap.Logger, onProgress func(ProgressEvent)) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	kvBackend := kv.BackendFile
	if settings.StoreBackend == config.BackendSQLite {
		kvBackend = kv.BackendSQLite
	}
	store, err := kv.Open(kvBackend, settings.StorePath)
	if err != nil {
		return nil, err
	}

	closers := []func() error{store.Close}
	var albums album.Repository
	switch settings.StoreBackend {
	case config.BackendRecords:
		records, err := album.NewRecordStore(settings.AlbumDBPath(), logger.Named("album"))
		if err != nil {
			store.Close()
			return nil, err
		}
		closers = append(closers, records.Close)
		albums = records
	case config.BackendFile, config.BackendSQLite, "":
		albums = album.NewStore(store, logger.Named("album"))
	default:
		store.Close()
		return nil, fmt.Errorf("%w: %q", kv.ErrUnknownBackend, settings.StoreBackend)
	}

	httpClient := http.NewClient(settings.UserAgent, settings.Timeout())
	m := NewManager(Deps{
		Images:   ioutils.NewImageStore(settings.ImagesDir, settings.MaxConcurrentCopies, logger.Named("images")),
		Matcher:  match.NewClient(httpClient, settings.ToClientConfig(), logger.Named("match")),
		Albums:   albums,
		KV:       store,
		Platform: settings.RenderPlatform(),
		Logger:   logger,
	}, onProgress)
	m.closers = closers

	logger.Debug("Opened facematch",
		zap.String("endpoint", settings.Endpoint),
		zap.String("images_dir", settings.ImagesDir),
		zap.String("store_backend", settings.StoreBackend))
	return m, nil
}
