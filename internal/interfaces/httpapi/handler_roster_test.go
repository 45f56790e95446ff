package httpapi

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/courtcap/fantasy-nba/internal/domain/roster"
	"github.com/courtcap/fantasy-nba/internal/infrastructure/repository/memory"
	idgen "github.com/courtcap/fantasy-nba/internal/platform/id"
	"github.com/courtcap/fantasy-nba/internal/platform/logging"
	"github.com/courtcap/fantasy-nba/internal/usecase"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues())
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	teamRepo := memory.NewTeamRepository(nil)
	entryRepo := memory.NewRosterEntryRepository(teamRepo)
	transferRepo := memory.NewTransferRepository()
	scoreRepo := memory.NewPlayerScoreRepository()
	teamScoreRepo := memory.NewTeamScoreRepository()

	rosterService := usecase.NewRosterService(
		leagueRepo, playerRepo, teamRepo, entryRepo, transferRepo,
		roster.DefaultRules(), idgen.NewUUIDGenerator(), logger,
	)
	aggregationService := usecase.NewAggregationService(
		leagueRepo, teamRepo, entryRepo, scoreRepo, teamScoreRepo, 7, 4, logging.NewNop(),
	)

	handler := NewHandler(
		usecase.NewLeagueService(leagueRepo),
		rosterService,
		nil,
		nil,
		aggregationService,
		logger,
	)

	return NewRouter(handler, logger, []string{"*"}, "job-token")
}

func doRequest(t *testing.T, router http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return envelope.Data
}

func TestRouter_TeamLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/teams", "user-1",
		fmt.Sprintf(`{"league_id":%q,"name":"Warriors Fan Club"}`, memory.LeagueIDGlobal))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create team: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	team := decodeData(t, rec)
	teamID, _ := team["id"].(string)
	if teamID == "" {
		t.Fatalf("expected team id in response, got %v", team)
	}
	if status, _ := team["status"].(string); status != "CONSTRUCTION" {
		t.Fatalf("expected CONSTRUCTION status, got %q", status)
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/teams/"+teamID+"/roster/players", "user-1",
		`{"player_id":"pg-curry","slot":"PG"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add player: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/teams/"+teamID+"/roster", "user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get roster: expected 200, got %d", rec.Code)
	}
	view := decodeData(t, rec)
	if capUsed, _ := view["cap_used"].(float64); capUsed != 16_500_000 {
		t.Fatalf("expected cap_used 16500000, got %v", view["cap_used"])
	}

	rec = doRequest(t, router, http.MethodDelete, "/v1/teams/"+teamID+"/roster/players/pg-curry", "user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("drop player: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	transfer := decodeData(t, rec)
	if kind, _ := transfer["type"].(string); kind != "DROP" {
		t.Fatalf("expected DROP transfer, got %v", transfer)
	}
}

func TestRouter_RosterErrorsMapToStatuses(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/teams", "user-1",
		fmt.Sprintf(`{"league_id":%q,"name":"Errors FC"}`, memory.LeagueIDGlobal))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create team: expected 201, got %d", rec.Code)
	}
	teamID, _ := decodeData(t, rec)["id"].(string)

	t.Run("identity required", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/v1/teams/"+teamID+"/roster", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("foreign team is forbidden", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/v1/teams/"+teamID+"/roster", "someone-else", "")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("slot mismatch is a bad request", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/teams/"+teamID+"/roster/players", "user-1",
			`{"player_id":"c-jokic","slot":"PG"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown slot fails validation", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/teams/"+teamID+"/roster/players", "user-1",
			`{"player_id":"pg-curry","slot":"GK"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing player is not found", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/teams/"+teamID+"/roster/players", "user-1",
			`{"player_id":"no-such-player","slot":"PG"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestRouter_PublicAndInternalRoutes(t *testing.T) {
	router := newTestRouter(t)

	t.Run("leagues are public", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/v1/leagues", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var envelope struct {
			Data []leagueDTO `json:"data"`
		}
		if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal leagues: %v", err)
		}
		if len(envelope.Data) != 2 {
			t.Fatalf("expected 2 seeded leagues, got %d", len(envelope.Data))
		}
	})

	t.Run("leaderboard for unknown league is 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/v1/leagues/no-such-league/leaderboard", "", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("job route requires token", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/aggregate-team-scores", "",
			`{"date":"2026-02-09"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("job route with token runs", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/aggregate-team-scores",
			strings.NewReader(`{"date":"2026-02-09"}`))
		req.Header.Set("X-Internal-Job-Token", "job-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
		}
	})
}
