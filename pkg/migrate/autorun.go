package migrate

import (
	"context"
	"fmt"

	"github.com/vitalfit/vitalfit-backend/pkg/config"
	"github.com/vitalfit/vitalfit-backend/pkg/db"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations on boot when the auto-migrate flag
// is enabled. Intended for dev environments; production runs cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg == nil || client == nil {
		return fmt.Errorf("config and db client are required")
	}
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("getting sql db handle: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "auto-migrate enabled, applying pending migrations")
	}
	return Up(ctx, sqlDB, cfg.DB.Driver, DefaultDir)
}
