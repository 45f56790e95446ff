package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/courtcap/fantasy-nba/internal/usecase"
)

type Handler struct {
	leagueService      *usecase.LeagueService
	rosterService      *usecase.RosterService
	ingestionService   *usecase.IngestionService
	salaryService      *usecase.SalaryService
	aggregationService *usecase.AggregationService
	logger             *slog.Logger
	validator          *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	rosterService *usecase.RosterService,
	ingestionService *usecase.IngestionService,
	salaryService *usecase.SalaryService,
	aggregationService *usecase.AggregationService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		leagueService:      leagueService,
		rosterService:      rosterService,
		ingestionService:   ingestionService,
		salaryService:      salaryService,
		aggregationService: aggregationService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
