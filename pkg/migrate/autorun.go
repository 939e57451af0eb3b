package migrate

import (
	"context"
	"fmt"

	"github.com/sitecms/sitecms-backend/pkg/config"
	"github.com/sitecms/sitecms-backend/pkg/db"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"github.com/sitecms/sitecms-backend/pkg/logger"
)

// MaybeRunDev brings the schema up to date at startup, only in dev with
// SITECMS_AUTO_MIGRATE on. SQLite is migrated from the gorm models; Postgres
// runs the embedded goose migrations.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	if logg == nil {
		logg = logger.Nop()
	}
	dialect := client.Dialect()
	ctx = logg.WithFields(ctx, logger.Fields{"env": cfg.App.Env, "driver": dialect})

	if dialect == config.DBDriverSQLite {
		if err := client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto-migrating models: %w", err)
		}
		logg.Info(logg.WithField(ctx, "tables", len(models.All())), "migrate.models_synced")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	applied, err := Run(ctx, sqlDB, EmbeddedDir, "up")
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "applied", applied), "migrate.goose_up")
	return nil
}
