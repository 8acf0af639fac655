package nakama

import (
	"context"
	"database/sql"

	"constellation/internal/catalog"
	"constellation/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, the match handler and hooks for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("InitModule: Could not load game config, using defaults: %v", err)
	}
	cfg := config.GetGameConfig().WithEnv(envFromContext(ctx))

	cat, err := catalog.Default()
	if err != nil {
		return err
	}
	if err := cat.Validate(catalog.Limits{CanvasSize: cfg.CanvasSize, PickRadius: cfg.PickRadius}); err != nil {
		logger.Error("InitModule: Catalog is invalid for the configured pick radius: %v", err)
		return err
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameConstellation, NewMatch); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	logger.Info("Constellation Go module loaded with %d constellations.", cat.Len())
	return nil
}
