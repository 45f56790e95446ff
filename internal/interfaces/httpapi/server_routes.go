package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/leaderboard", handler.GetLeaderboard)
}

func registerManagerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("POST /v1/teams", RequireUser(http.HandlerFunc(handler.CreateTeam)))
	mux.Handle("GET /v1/teams/{teamID}/roster", RequireUser(http.HandlerFunc(handler.GetRoster)))
	mux.Handle("POST /v1/teams/{teamID}/roster/players", RequireUser(http.HandlerFunc(handler.AddPlayerToRoster)))
	mux.Handle("DELETE /v1/teams/{teamID}/roster/players/{playerID}", RequireUser(http.HandlerFunc(handler.DropPlayerFromRoster)))
	mux.Handle("GET /v1/teams/{teamID}/available-players", RequireUser(http.HandlerFunc(handler.ListAvailablePlayers)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/ingest-game", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunIngestGameJob)))
	mux.Handle("POST /v1/internal/jobs/ingest-date", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunIngestDateJob)))
	mux.Handle("POST /v1/internal/jobs/sync-players", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncPlayersJob)))
	mux.Handle("POST /v1/internal/jobs/recalculate-salaries", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRecalculateSalariesJob)))
	mux.Handle("POST /v1/internal/jobs/aggregate-team-scores", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunAggregateTeamScoresJob)))
}
