package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mealvault/mealvault/internal/domain"
	"github.com/mealvault/mealvault/internal/dto"
	"github.com/mealvault/mealvault/internal/pg"
	orderservice "github.com/mealvault/mealvault/internal/service/orderservice"
	"github.com/mealvault/mealvault/pkg/auth"
	"github.com/mealvault/mealvault/pkg/utils"
)

type Service interface {
	Submit(ctx context.Context, openID string, mealID, qty int, optionIDs []string) (*orderservice.Receipt, error)
	Modify(ctx context.Context, openID string, orderID, qty int, optionIDs []string) (*orderservice.Receipt, error)
	Cancel(ctx context.Context, openID string, orderID int) (*orderservice.Receipt, error)
	ListForUser(ctx context.Context, openID string) ([]domain.Order, error)
}

type OrderHandler struct {
	orderService Service
}

func New(orderService Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	openID := r.Context().Value(auth.OpenIDKey).(string)

	var req dto.SubmitOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := h.orderService.Submit(r.Context(), openID, req.MealID, req.Qty, req.OptionIDs)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.OrderReceiptResponseDTO{
		OrderID:      receipt.OrderID,
		AmountCents:  receipt.AmountCents,
		BalanceCents: receipt.BalanceCents,
	})
}

func (h *OrderHandler) ModifyOrder(w http.ResponseWriter, r *http.Request) {
	openID := r.Context().Value(auth.OpenIDKey).(string)

	orderID, err := strconv.Atoi(chi.URLParam(r, "orderID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	var req dto.ModifyOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := h.orderService.Modify(r.Context(), openID, orderID, req.Qty, req.OptionIDs)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.OrderReceiptResponseDTO{
		OrderID:      receipt.OrderID,
		AmountCents:  receipt.AmountCents,
		BalanceCents: receipt.BalanceCents,
	})
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	openID := r.Context().Value(auth.OpenIDKey).(string)

	orderID, err := strconv.Atoi(chi.URLParam(r, "orderID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	receipt, err := h.orderService.Cancel(r.Context(), openID, orderID)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.OrderReceiptResponseDTO{
		OrderID:      receipt.OrderID,
		AmountCents:  receipt.AmountCents,
		BalanceCents: receipt.BalanceCents,
	})
}

func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	openID := r.Context().Value(auth.OpenIDKey).(string)

	orders, err := h.orderService.ListForUser(r.Context(), openID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(orders) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}

	var response []dto.GetOrdersResponseDTO
	for _, order := range orders {
		response = append(response, dto.GetOrdersResponseDTO{
			ID:          order.ID,
			MealID:      order.MealID,
			Qty:         order.Qty,
			OptionIDs:   order.OptionIDs,
			AmountCents: order.AmountCents,
			Status:      order.Status,
			CreatedAt:   order.CreatedAt.Format(time.RFC3339),
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func respondOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orderservice.ErrInvalidQuantity),
		errors.Is(err, orderservice.ErrUnknownOption):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, orderservice.ErrMealNotFound),
		errors.Is(err, orderservice.ErrOrderNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orderservice.ErrPermissionDenied):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, orderservice.ErrMealNotAvailable),
		errors.Is(err, orderservice.ErrDuplicateOrder),
		errors.Is(err, orderservice.ErrCapacityExceeded),
		errors.Is(err, orderservice.ErrOrderNotActive),
		errors.Is(err, pg.ErrConcurrencyConflict):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
