package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/football-elo/internal/config"
	"github.com/riskibarqy/football-elo/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/football-elo/internal/platform/id"
	"github.com/riskibarqy/football-elo/internal/platform/logging"
	"github.com/riskibarqy/football-elo/internal/usecase"
)

const (
	playerIDPrefix = "pl_"
	matchIDPrefix  = "m_"
)

// NewHTTPServer assembles storage, services and the router. The returned
// cleanup releases storage resources and must be called after shutdown.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, err := openRepositories(ctx, cfg, logger, time.Now)
	if err != nil {
		return nil, nil, err
	}

	playerSvc := usecase.NewPlayerService(repos.players, idgen.NewNanoIDGenerator(playerIDPrefix), logger)
	matchSvc := usecase.NewMatchService(repos.players, repos.matches, idgen.NewNanoIDGenerator(matchIDPrefix), logger)
	statsSvc := usecase.NewStatsService(repos.players, repos.matches)

	handler := httpapi.NewHandler(playerSvc, matchSvc, statsSvc, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterOptions{
		ServiceName:        cfg.ServiceName,
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, repos.close, nil
}
