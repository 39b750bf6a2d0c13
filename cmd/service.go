package cmd

import (
	"context"
	"fmt"

	"roster-sync/core/config"
	"roster-sync/core/metrics"
	"roster-sync/core/storage"
	"roster-sync/feature/roster"
	"roster-sync/feature/roster/repository"
	"roster-sync/feature/roster/source"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newService wires the synchronization service shared by start and sync.
// Storage is only contacted when archiving is enabled.
func newService(ctx context.Context, cfg *config.Config, logg *zap.Logger, db *gorm.DB, rec *metrics.Recorder) (*roster.Service, error) {
	opts := []roster.Option{
		roster.WithRoleFilter(cfg.Source.RoleFilter),
		roster.WithMetrics(rec),
	}

	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, err
		}
		opts = append(opts, roster.WithArchive(roster.NewArchive(client, cfg.Storage.Bucket)))
		logg.Info("Snapshot archiving enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	return roster.NewService(source.NewClient(cfg.Source, nil), repository.New(db), logg, opts...), nil
}
