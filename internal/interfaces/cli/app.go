package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/wyg1997/CommandAPI/config"
	"github.com/wyg1997/CommandAPI/internal/domain"
	"github.com/wyg1997/CommandAPI/internal/infrastructure/platform/feishu"
	"github.com/wyg1997/CommandAPI/internal/infrastructure/repository"
	"github.com/wyg1997/CommandAPI/pkg/logger"
)

// loadConfig loads and validates configuration, then applies the log level and format.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.IsValid(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.SetLogLevel(cfg.Log.Level)
	logger.SetFormat(cfg.Log.Format)
	return cfg, nil
}

// openRepository builds the configured command store. The returned closer
// releases it.
func openRepository(ctx context.Context, cfg config.StorageConfig) (domain.CommandRepository, io.Closer, error) {
	switch cfg.Driver {
	case config.StorageDriverSQLite:
		repo, err := repository.OpenSQLiteCommandRepository(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite command repository: %w", err)
		}
		return repo, repo, nil
	case config.StorageDriverMemory:
		return repository.NewMemoryCommandRepository(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}

// newNotifier returns a Feishu notifier when configured, otherwise a no-op.
func newNotifier(cfg *config.FeishuConfig) domain.CommandNotifier {
	if !cfg.Enabled() {
		return domain.NopNotifier{}
	}
	return feishu.NewNotifier(feishu.NewFeishuService(cfg), cfg.NotifyChatID)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
