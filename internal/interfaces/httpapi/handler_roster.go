package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/courtcap/fantasy-nba/internal/domain/player"
	"github.com/courtcap/fantasy-nba/internal/domain/roster"
	"github.com/courtcap/fantasy-nba/internal/usecase"
)

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: user is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createTeamRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	team, err := h.rosterService.CreateTeam(ctx, userID, req.LeagueID, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "create team failed", "user_id", userID, "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(team))
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoster")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: user is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	view, err := h.rosterService.GetRoster(ctx, userID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get roster failed", "user_id", userID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterViewToDTO(view))
}

func (h *Handler) AddPlayerToRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPlayerToRoster")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: user is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")

	var req addPlayerRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entry, err := h.rosterService.AddPlayer(ctx, userID, teamID, req.PlayerID, roster.Slot(req.Slot))
	if err != nil {
		h.logger.WarnContext(ctx, "add player failed",
			"user_id", userID, "team_id", teamID, "player_id", req.PlayerID, "slot", req.Slot, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]any{
		"team_id":               entry.TeamID,
		"player_id":             entry.PlayerID,
		"slot":                  string(entry.Slot),
		"salary_at_acquisition": entry.SalaryAtAcquisition,
		"acquired_at":           entry.AcquiredAt,
	})
}

func (h *Handler) DropPlayerFromRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DropPlayerFromRoster")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: user is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	playerID := r.PathValue("playerID")

	transfer, err := h.rosterService.DropPlayer(ctx, userID, teamID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "drop player failed",
			"user_id", userID, "team_id", teamID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transferToDTO(transfer))
}

func (h *Handler) ListAvailablePlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAvailablePlayers")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: user is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	filter, err := availabilityFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.rosterService.ListAvailablePlayers(ctx, userID, teamID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list available players failed", "user_id", userID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]availablePlayerDTO, 0, len(players))
	for _, item := range players {
		items = append(items, availablePlayerToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func availabilityFilterFromQuery(r *http.Request) (usecase.AvailablePlayerFilter, error) {
	filter := usecase.AvailablePlayerFilter{
		TeamCode:     strings.TrimSpace(r.URL.Query().Get("team_code")),
		NameContains: strings.TrimSpace(r.URL.Query().Get("name")),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("position")); raw != "" {
		pos := player.Position(strings.ToUpper(raw))
		if !player.ValidPosition(pos) {
			return usecase.AvailablePlayerFilter{}, fmt.Errorf("%w: unknown position %q", usecase.ErrInvalidInput, raw)
		}
		filter.Position = &pos
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("max_salary")); raw != "" {
		maxSalary, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || maxSalary < 0 {
			return usecase.AvailablePlayerFilter{}, fmt.Errorf("%w: invalid max_salary %q", usecase.ErrInvalidInput, raw)
		}
		filter.MaxSalary = &maxSalary
	}

	return filter, nil
}
