package meals

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
	mealservice "github.com/mealvault/mealvault/internal/service/mealservice"
	"github.com/mealvault/mealvault/pkg/auth"
	"github.com/mealvault/mealvault/pkg/utils"
)

const dateLayout = "2006-01-02"

type Service interface {
	Create(ctx context.Context, openID string, fields mealservice.MealFields) (*domain.Meal, error)
	Update(ctx context.Context, openID string, mealID int, fields mealservice.MealFields) (*domain.Meal, error)
	Lock(ctx context.Context, openID string, mealID int) (*mealservice.StatusResult, error)
	Unlock(ctx context.Context, openID string, mealID int) (*mealservice.StatusResult, error)
	Complete(ctx context.Context, openID string, mealID int) (*mealservice.StatusResult, error)
	Cancel(ctx context.Context, openID string, mealID int) (*mealservice.StatusResult, error)
	Repost(ctx context.Context, openID string, mealID int, fields mealservice.MealFields) (*mealservice.StatusResult, error)
	Get(ctx context.Context, mealID int) (*domain.Meal, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Meal, error)
}

type MealHandler struct {
	mealService Service
}

func New(mealService Service) *MealHandler {
	return &MealHandler{
		mealService: mealService,
	}
}

func (h *MealHandler) ListMeals(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	meals, err := h.mealService.ListByDateRange(r.Context(), from, to)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.MealResponseDTO, 0, len(meals))
	for _, meal := range meals {
		response = append(response, mealToDTO(&meal))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *MealHandler) GetMeal(w http.ResponseWriter, r *http.Request) {
	mealID, err := strconv.Atoi(chi.URLParam(r, "mealID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid meal id")
		return
	}

	meal, err := h.mealService.Get(r.Context(), mealID)
	if err != nil {
		respondMealError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, mealToDTO(meal))
}

func (h *MealHandler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	openID := r.Context().Value(auth.OpenIDKey).(string)

	fields, err := decodeMealFields(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	meal, err := h.mealService.Create(r.Context(), openID, fields)
	if err != nil {
		respondMealError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, mealToDTO(meal))
}

func (h *MealHandler) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	openID := r.Context().Value(auth.OpenIDKey).(string)

	mealID, err := strconv.Atoi(chi.URLParam(r, "mealID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid meal id")
		return
	}
	fields, err := decodeMealFields(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	meal, err := h.mealService.Update(r.Context(), openID, mealID, fields)
	if err != nil {
		respondMealError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, mealToDTO(meal))
}

// Transition handles lock, unlock, complete, cancel and repost; the
// action comes from the route.
func (h *MealHandler) Transition(w http.ResponseWriter, r *http.Request) {
	openID := r.Context().Value(auth.OpenIDKey).(string)

	mealID, err := strconv.Atoi(chi.URLParam(r, "mealID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid meal id")
		return
	}

	var result *mealservice.StatusResult
	switch action := chi.URLParam(r, "action"); action {
	case "lock":
		result, err = h.mealService.Lock(r.Context(), openID, mealID)
	case "unlock":
		result, err = h.mealService.Unlock(r.Context(), openID, mealID)
	case "complete":
		result, err = h.mealService.Complete(r.Context(), openID, mealID)
	case "cancel":
		result, err = h.mealService.Cancel(r.Context(), openID, mealID)
	case "repost":
		fields, ferr := decodeMealFields(r)
		if ferr != nil {
			utils.RespondWithError(w, http.StatusBadRequest, ferr.Error())
			return
		}
		result, err = h.mealService.Repost(r.Context(), openID, mealID, fields)
	default:
		utils.RespondWithError(w, http.StatusNotFound, "Unknown action")
		return
	}
	if err != nil {
		respondMealError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.MealStatusResponseDTO{
		MealID: result.MealID,
		Status: result.Status,
	})
}

func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from, to := now, now.AddDate(0, 0, 7)

	var err error
	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = time.Parse(dateLayout, v); err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid from date")
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if to, err = time.Parse(dateLayout, v); err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid to date")
		}
	}
	return from, to, nil
}

func decodeMealFields(r *http.Request) (mealservice.MealFields, error) {
	var req dto.MealRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return mealservice.MealFields{}, errors.New("invalid request body")
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return mealservice.MealFields{}, errors.New("invalid date")
	}

	options := make([]domain.MealOption, 0, len(req.Options))
	for _, opt := range req.Options {
		options = append(options, domain.MealOption{
			ID:         opt.ID,
			Name:       opt.Name,
			PriceCents: opt.PriceCents,
		})
	}
	return mealservice.MealFields{
		Date:           date,
		Slot:           req.Slot,
		Title:          req.Title,
		Description:    req.Description,
		BasePriceCents: req.BasePriceCents,
		Capacity:       req.Capacity,
		PerUserLimit:   req.PerUserLimit,
		Options:        options,
	}, nil
}

func mealToDTO(meal *domain.Meal) dto.MealResponseDTO {
	options := make([]dto.MealOptionDTO, 0, len(meal.Options))
	for _, opt := range meal.Options {
		options = append(options, dto.MealOptionDTO{
			ID:         opt.ID,
			Name:       opt.Name,
			PriceCents: opt.PriceCents,
		})
	}
	remaining := meal.Capacity - meal.OrderedQty
	if remaining < 0 {
		remaining = 0
	}
	return dto.MealResponseDTO{
		ID:             meal.ID,
		Date:           meal.Date.Format(dateLayout),
		Slot:           meal.Slot,
		Title:          meal.Title,
		Description:    meal.Description,
		BasePriceCents: meal.BasePriceCents,
		Capacity:       meal.Capacity,
		PerUserLimit:   meal.PerUserLimit,
		Options:        options,
		Status:         meal.Status,
		OrderedQty:     meal.OrderedQty,
		RemainingQty:   remaining,
	}
}

func respondMealError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mealservice.ErrInvalidSlot):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, mealservice.ErrMealNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, mealservice.ErrPermissionDenied):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, mealservice.ErrMealExists),
		errors.Is(err, mealservice.ErrTerminalState),
		errors.Is(err, mealservice.ErrInvalidTransition),
		errors.Is(err, mealservice.ErrMealNotEditable),
		errors.Is(err, pg.ErrConcurrencyConflict):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
