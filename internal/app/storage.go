package app

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/football-elo/internal/config"
	"github.com/riskibarqy/football-elo/internal/domain/match"
	"github.com/riskibarqy/football-elo/internal/domain/player"
	cacherepo "github.com/riskibarqy/football-elo/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/football-elo/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/football-elo/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/football-elo/internal/platform/cache"
	"github.com/riskibarqy/football-elo/internal/platform/logging"
)

type repositories struct {
	players player.Repository
	matches match.Repository
	close   func() error
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger, now func() time.Time) (repositories, error) {
	var repos repositories

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return repositories{}, err
		}
		repos = repositories{
			players: postgres.NewPlayerRepository(db),
			matches: postgres.NewMatchRepository(db),
			close:   db.Close,
		}
	case config.StorageMemory, "":
		var seed []player.Player
		if cfg.SeedDemoPlayers {
			seed = memory.SeedPlayers(now().UTC())
		}
		store := memory.NewStore(seed)
		repos = repositories{
			players: memory.NewPlayerRepository(store),
			matches: memory.NewMatchRepository(store),
			close:   func() error { return nil },
		}
	default:
		return repositories{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	if cfg.CacheEnabled {
		store := cache.NewStore(cfg.CacheTTL)
		repos.players = cacherepo.NewPlayerRepository(repos.players, store)
		repos.matches = cacherepo.NewMatchRepository(repos.matches, store)
	}

	logger.Info("storage ready",
		"driver", cfg.StorageDriver,
		"cache_enabled", cfg.CacheEnabled,
		"demo_players", cfg.SeedDemoPlayers && cfg.StorageDriver != config.StoragePostgres,
	)

	return repos, nil
}
