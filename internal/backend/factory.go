package backend

import (
	"fmt"
	"log/slog"

	"github.com/Cuutu/brasil2026/internal/store"
	"github.com/Cuutu/brasil2026/internal/store/sqlite"
)

// Factory creates store backends based on configuration.
type Factory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateStore builds the store named by the config.
func (f *Factory) CreateStore(config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteStore(config)
	case NoneBackend:
		f.logger.Warn("No datastore configured, collections will report unavailable")
		return &Result{Store: store.Unconfigured{}}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *Factory) createSQLiteStore(config Config) (*Result, error) {
	s, err := sqlite.New(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &Result{
		Store:   s,
		Cleanup: s.Close,
	}, nil
}
