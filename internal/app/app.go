// Package app assembles the service: storage, the NBA stats client, use case
// services, and the HTTP router, all driven by config.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/courtcap/fantasy-nba/external/nbastats"
	"github.com/courtcap/fantasy-nba/internal/config"
	"github.com/courtcap/fantasy-nba/internal/domain/league"
	"github.com/courtcap/fantasy-nba/internal/domain/player"
	"github.com/courtcap/fantasy-nba/internal/domain/playerscore"
	"github.com/courtcap/fantasy-nba/internal/domain/roster"
	"github.com/courtcap/fantasy-nba/internal/domain/salary"
	"github.com/courtcap/fantasy-nba/internal/domain/scoring"
	"github.com/courtcap/fantasy-nba/internal/domain/teamscore"
	cacherepo "github.com/courtcap/fantasy-nba/internal/infrastructure/repository/cache"
	"github.com/courtcap/fantasy-nba/internal/infrastructure/repository/memory"
	"github.com/courtcap/fantasy-nba/internal/infrastructure/repository/postgres"
	"github.com/courtcap/fantasy-nba/internal/interfaces/httpapi"
	basecache "github.com/courtcap/fantasy-nba/internal/platform/cache"
	idgen "github.com/courtcap/fantasy-nba/internal/platform/id"
	"github.com/courtcap/fantasy-nba/internal/platform/logging"
	"github.com/courtcap/fantasy-nba/internal/platform/resilience"
	"github.com/courtcap/fantasy-nba/internal/usecase"
)

type repositories struct {
	leagues      league.Repository
	players      player.Repository
	teams        roster.TeamRepository
	entries      roster.EntryRepository
	transfers    roster.TransferRepository
	playerScores playerscore.Repository
	teamScores   teamscore.Repository
}

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *slog.Logger, applog *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if applog == nil {
		applog = logging.Default()
	}

	repos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.leagues = cacherepo.NewLeagueRepository(repos.leagues, store)
		repos.players = cacherepo.NewPlayerRepository(repos.players, store)
	}

	statsClient := nbastats.NewClient(nbastats.ClientConfig{
		BaseURL:    cfg.NBAStatsBaseURL,
		Timeout:    cfg.NBAStatsTimeout,
		MaxRetries: cfg.NBAStatsMaxRetries,
		Logger:     applog,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.NBAStatsCircuitEnabled,
			FailureThreshold: cfg.NBAStatsCircuitFailureCount,
			OpenTimeout:      cfg.NBAStatsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.NBAStatsCircuitHalfOpenMaxReq,
		},
	})

	rules := roster.Rules{
		SlotCount:           roster.DefaultRules().SlotCount,
		CapMax:              cfg.SalaryCapMax,
		MaxTransfersPerWeek: cfg.MaxTransfersPerWeek,
		CooldownDays:        cfg.TransferCooldownDays,
	}
	salaryParams := salary.Params{
		Min:          cfg.SalaryMin,
		Max:          cfg.SalaryMax,
		MinGames:     cfg.MinGamesForSalaryUpdate,
		WindowDays:   cfg.SalaryWindowDays,
		HistoryGames: cfg.SalaryHistoryGames,
	}
	ids := idgen.NewUUIDGenerator()

	leagueSvc := usecase.NewLeagueService(repos.leagues)
	rosterSvc := usecase.NewRosterService(
		repos.leagues,
		repos.players,
		repos.teams,
		repos.entries,
		repos.transfers,
		rules,
		ids,
		logger,
	)
	ingestionSvc := usecase.NewIngestionService(
		statsClient,
		repos.players,
		repos.playerScores,
		scoring.DefaultWeights(),
		cfg.InitialPlayerSalary,
		ids,
		applog,
	)
	salarySvc := usecase.NewSalaryService(
		repos.players,
		repos.playerScores,
		salaryParams,
		cfg.SalaryBatchWorkers,
		logger,
	)
	aggregationSvc := usecase.NewAggregationService(
		repos.leagues,
		repos.teams,
		repos.entries,
		repos.playerScores,
		repos.teamScores,
		cfg.LeaderboardWindowDays,
		cfg.AggregationWorkers,
		applog,
	)

	handler := httpapi.NewHandler(leagueSvc, rosterSvc, ingestionSvc, salarySvc, aggregationSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (repositories, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return repositories{}, err
		}
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
		}
		logger.InfoContext(ctx, "storage ready", "backend", cfg.Storage, "database", dbNameFromURL(cfg.DBURL))
		return repositories{
			leagues:      postgres.NewLeagueRepository(db),
			players:      postgres.NewPlayerRepository(db),
			teams:        postgres.NewTeamRepository(db),
			entries:      postgres.NewRosterEntryRepository(db),
			transfers:    postgres.NewTransferRepository(db),
			playerScores: postgres.NewPlayerScoreRepository(db),
			teamScores:   postgres.NewTeamScoreRepository(db),
		}, nil
	default:
		teamRepo := memory.NewTeamRepository(nil)
		logger.InfoContext(ctx, "storage ready", "backend", cfg.Storage)
		return repositories{
			leagues:      memory.NewLeagueRepository(memory.SeedLeagues()),
			players:      memory.NewPlayerRepository(memory.SeedPlayers()),
			teams:        teamRepo,
			entries:      memory.NewRosterEntryRepository(teamRepo),
			transfers:    memory.NewTransferRepository(),
			playerScores: memory.NewPlayerScoreRepository(),
			teamScores:   memory.NewTeamScoreRepository(),
		}, nil
	}
}

func openDatabase(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
