package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_StorageValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults to memory", func(t *testing.T) {
		t.Setenv("APP_STORAGE", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.Storage != StorageMemory {
			t.Fatalf("expected default storage %q, got %q", StorageMemory, cfg.Storage)
		}
	})

	t.Run("rejects unknown backend", func(t *testing.T) {
		t.Setenv("APP_STORAGE", "redis")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown APP_STORAGE")
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "fantasy-nba-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "fantasy-nba-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_ProviderConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("NBA_STATS_TIMEOUT", "")
		t.Setenv("NBA_STATS_MAX_RETRIES", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.NBAStatsTimeout != 20*time.Second {
			t.Fatalf("unexpected default provider timeout: %s", cfg.NBAStatsTimeout)
		}
		if cfg.NBAStatsMaxRetries != 3 {
			t.Fatalf("unexpected default provider retries: %d", cfg.NBAStatsMaxRetries)
		}
		if !cfg.NBAStatsCircuitEnabled {
			t.Fatalf("expected circuit breaker enabled by default")
		}
	})

	t.Run("rejects zero retries", func(t *testing.T) {
		t.Setenv("NBA_STATS_MAX_RETRIES", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for NBA_STATS_MAX_RETRIES=0")
		}
	})
}

func TestLoad_GameConstantValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SalaryCapMax != 60_000_000 {
			t.Fatalf("unexpected salary cap: %d", cfg.SalaryCapMax)
		}
		if cfg.SalaryMin != 2_000_000 || cfg.SalaryMax != 18_000_000 {
			t.Fatalf("unexpected salary bounds: [%d, %d]", cfg.SalaryMin, cfg.SalaryMax)
		}
		if cfg.MaxTransfersPerWeek != 2 || cfg.TransferCooldownDays != 7 {
			t.Fatalf("unexpected transfer rules: %d/%d", cfg.MaxTransfersPerWeek, cfg.TransferCooldownDays)
		}
		if cfg.SalaryWindowDays != 20 || cfg.SalaryHistoryGames != 15 || cfg.MinGamesForSalaryUpdate != 5 {
			t.Fatalf("unexpected salary window config: %d/%d/%d",
				cfg.SalaryWindowDays, cfg.SalaryHistoryGames, cfg.MinGamesForSalaryUpdate)
		}
		if cfg.LeaderboardWindowDays != 7 {
			t.Fatalf("unexpected leaderboard window: %d", cfg.LeaderboardWindowDays)
		}
	})

	t.Run("salary bounds must be ordered", func(t *testing.T) {
		t.Setenv("SALARY_MIN", "20000000")
		t.Setenv("SALARY_MAX", "18000000")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when SALARY_MIN > SALARY_MAX")
		}
	})

	t.Run("initial salary must fit inside bounds", func(t *testing.T) {
		t.Setenv("INITIAL_PLAYER_SALARY", "1000000")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for INITIAL_PLAYER_SALARY below SALARY_MIN")
		}
	})

	t.Run("history games must cover the minimum", func(t *testing.T) {
		t.Setenv("SALARY_HISTORY_GAMES", "3")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for SALARY_HISTORY_GAMES below MIN_GAMES_FOR_SALARY_UPDATE")
		}
	})
}
