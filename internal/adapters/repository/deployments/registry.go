package deployments

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// Open returns the registry selected by registry.backend. The cleanup
// function releases the sqlite handle and is a no-op for the json backend.
func Open(ctx context.Context, cfg *config.RuntimeConfig, log *slog.Logger) (usecase.DeploymentRepository, func(), error) {
	switch cfg.Registry.Backend {
	case config.RegistryBackendSQLite:
		repo, err := NewSQLiteRepository(ctx, filepath.Join(cfg.DataDir, SQLiteFile), log)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	case config.RegistryBackendJSON, "":
		repo, err := NewFileRepository(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown registry backend %q", cfg.Registry.Backend)
	}
}
