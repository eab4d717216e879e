package service

import (
	"context"
	"fmt"

	"postboard/app/config"
	"postboard/app/repositories"
)

// openStore opens the post store selected by cfg.
func openStore(ctx context.Context, cfg *config.Config) (repositories.Store, error) {
	switch cfg.Store {
	case config.StoreBadger:
		db, err := repositories.OpenBadger(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return repositories.NewBadgerStore(db), nil
	case config.StorePostgres:
		pool, err := repositories.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return repositories.NewPostgresStore(pool), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStore, cfg.Store)
	}
}
