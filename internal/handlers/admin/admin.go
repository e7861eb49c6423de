package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mealvault/mealvault/internal/domain"
	consistencyservice "github.com/mealvault/mealvault/internal/service/consistencyservice"
	"github.com/mealvault/mealvault/pkg/auth"
	"github.com/mealvault/mealvault/pkg/utils"
)

type Service interface {
	RequireAdmin(ctx context.Context, openID string) (*domain.User, error)
	FullCheck(ctx context.Context) (*domain.ConsistencyReport, error)
	FixBalance(ctx context.Context, actorID int, targetOpenID string) (*consistencyservice.FixResult, error)
}

type AdminHandler struct {
	consistencyService Service
}

func New(consistencyService Service) *AdminHandler {
	return &AdminHandler{
		consistencyService: consistencyService,
	}
}

func (h *AdminHandler) ConsistencyCheck(w http.ResponseWriter, r *http.Request) {
	openID := r.Context().Value(auth.OpenIDKey).(string)

	if _, err := h.consistencyService.RequireAdmin(r.Context(), openID); err != nil {
		respondAdminError(w, err)
		return
	}

	report, err := h.consistencyService.FullCheck(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, report)
}

func (h *AdminHandler) FixBalance(w http.ResponseWriter, r *http.Request) {
	openID := r.Context().Value(auth.OpenIDKey).(string)
	targetOpenID := chi.URLParam(r, "openID")

	actor, err := h.consistencyService.RequireAdmin(r.Context(), openID)
	if err != nil {
		respondAdminError(w, err)
		return
	}

	result, err := h.consistencyService.FixBalance(r.Context(), actor.ID, targetOpenID)
	if err != nil {
		respondAdminError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

func respondAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, consistencyservice.ErrUserNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, consistencyservice.ErrPermissionDenied):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
