package balance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mealvault/mealvault/internal/domain"
	"github.com/mealvault/mealvault/internal/dto"
	balanceservice "github.com/mealvault/mealvault/internal/service/balanceservice"
	"github.com/mealvault/mealvault/pkg/auth"
	"github.com/mealvault/mealvault/pkg/utils"
)

type Service interface {
	GetBalance(ctx context.Context, openID string) (*balanceservice.Balance, error)
	UpdateProfile(ctx context.Context, openID, nickname string) (*balanceservice.Balance, error)
	Recharge(ctx context.Context, actorOpenID, targetOpenID string, amountCents int64, remark string) (*balanceservice.Balance, error)
	Adjust(ctx context.Context, actorOpenID, targetOpenID string, amountCents int64, remark string) (*balanceservice.Balance, error)
	Transactions(ctx context.Context, openID string, limit int) ([]domain.LedgerEntry, error)
}

type BalanceHandler struct {
	balanceService Service
}

func New(balanceService Service) *BalanceHandler {
	return &BalanceHandler{
		balanceService: balanceService,
	}
}

func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	openID := r.Context().Value(auth.OpenIDKey).(string)

	balance, err := h.balanceService.GetBalance(r.Context(), openID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, balanceToDTO(balance))
}

func (h *BalanceHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	openID := r.Context().Value(auth.OpenIDKey).(string)

	var req dto.ProfileRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	balance, err := h.balanceService.UpdateProfile(r.Context(), openID, req.Nickname)
	if err != nil {
		respondBalanceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, balanceToDTO(balance))
}

func (h *BalanceHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	openID := r.Context().Value(auth.OpenIDKey).(string)

	entries, err := h.balanceService.Transactions(r.Context(), openID, 0)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(entries) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}

	var response []dto.TransactionResponseDTO
	for _, entry := range entries {
		response = append(response, dto.TransactionResponseDTO{
			ID:          entry.ID,
			Type:        entry.Type,
			AmountCents: entry.AmountCents,
			RefType:     entry.RefType,
			RefID:       entry.RefID,
			Remark:      entry.Remark,
			CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *BalanceHandler) Recharge(w http.ResponseWriter, r *http.Request) {
	actorOpenID := r.Context().Value(auth.OpenIDKey).(string)
	targetOpenID := chi.URLParam(r, "openID")

	var req dto.RechargeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	balance, err := h.balanceService.Recharge(r.Context(), actorOpenID, targetOpenID, req.AmountCents, req.Remark)
	if err != nil {
		respondBalanceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, balanceToDTO(balance))
}

func (h *BalanceHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	actorOpenID := r.Context().Value(auth.OpenIDKey).(string)
	targetOpenID := chi.URLParam(r, "openID")

	var req dto.AdjustRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	balance, err := h.balanceService.Adjust(r.Context(), actorOpenID, targetOpenID, req.AmountCents, req.Remark)
	if err != nil {
		respondBalanceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, balanceToDTO(balance))
}

func balanceToDTO(balance *balanceservice.Balance) dto.BalanceResponseDTO {
	return dto.BalanceResponseDTO{
		UserID:       balance.UserID,
		OpenID:       balance.OpenID,
		Nickname:     balance.Nickname,
		BalanceCents: balance.BalanceCents,
	}
}

func respondBalanceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, balanceservice.ErrInvalidAmount),
		errors.Is(err, balanceservice.ErrZeroAdjustment),
		errors.Is(err, balanceservice.ErrInvalidNickname):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, balanceservice.ErrUserNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, balanceservice.ErrPermissionDenied):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
