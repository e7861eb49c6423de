package mealservice

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mealvault/mealvault/internal/domain"
	"github.com/mealvault/mealvault/internal/events"
	"github.com/mealvault/mealvault/internal/pg"
)

type UserRepo interface {
	GetOrCreate(ctx context.Context, openID string) (*domain.User, error)
	FindByID(ctx context.Context, userID int) (*domain.User, error)
	IsAdmin(ctx context.Context, userID int) (bool, error)
}

type MealRepo interface {
	Create(ctx context.Context, meal *domain.Meal) error
	FindByID(ctx context.Context, mealID int) (*domain.Meal, error)
	FindByDateSlot(ctx context.Context, date time.Time, slot string) (*domain.Meal, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Meal, error)
	UpdateStatus(ctx context.Context, mealID int, status string) error
	UpdateFields(ctx context.Context, meal *domain.Meal) error
	Republish(ctx context.Context, meal *domain.Meal) error
}

type OrderRepo interface {
	ListActiveByMeal(ctx context.Context, mealID int) ([]domain.Order, error)
	MarkCanceled(ctx context.Context, orderID int) error
	SetLockedByMeal(ctx context.Context, mealID int, locked bool) error
}

type Ledger interface {
	Append(ctx context.Context, entry *domain.LedgerEntry) (int64, error)
}

type AuditLog interface {
	Record(ctx context.Context, rec *domain.AuditRecord) error
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any)
}

var (
	ErrMealNotFound      = errors.New("meal not found")
	ErrMealExists        = errors.New("meal exists for date and slot")
	ErrInvalidSlot       = errors.New("slot must be lunch or dinner")
	ErrTerminalState     = errors.New("meal is in a terminal state")
	ErrInvalidTransition = errors.New("invalid meal state transition")
	ErrMealNotEditable   = errors.New("meal not editable in current state")
	ErrPermissionDenied  = errors.New("permission denied")
)

// MealFields carries the admin-editable terms of a meal.
type MealFields struct {
	Date           time.Time
	Slot           string
	Title          string
	Description    string
	BasePriceCents int64
	Capacity       int
	PerUserLimit   int
	Options        []domain.MealOption
}

type StatusResult struct {
	MealID int    `json:"meal_id"`
	Status string `json:"status"`
}

var allowedTransitions = map[string][]string{
	domain.MealPublished: {domain.MealLocked, domain.MealCanceled},
	domain.MealLocked:    {domain.MealPublished, domain.MealCompleted, domain.MealCanceled},
}

func validateTransition(current, target string) error {
	if domain.MealTerminal(current) {
		return ErrTerminalState
	}
	for _, t := range allowedTransitions[current] {
		if t == target {
			return nil
		}
	}
	return ErrInvalidTransition
}

// Service owns the meal state machine and the cascading cancel-and-refund
// across a meal's orders.
type Service struct {
	userRepo  UserRepo
	mealRepo  MealRepo
	orderRepo OrderRepo
	ledger    Ledger
	audit     AuditLog
	txManager pg.TXManager
	publisher Publisher
}

func New(userRepo UserRepo, mealRepo MealRepo, orderRepo OrderRepo, ledger Ledger,
	audit AuditLog, txManager pg.TXManager, publisher Publisher) *Service {
	return &Service{
		userRepo:  userRepo,
		mealRepo:  mealRepo,
		orderRepo: orderRepo,
		ledger:    ledger,
		audit:     audit,
		txManager: txManager,
		publisher: publisher,
	}
}

// Create publishes a meal for a (date, slot) pair. A previously canceled
// meal for the same pair is republished under the new terms, keeping its
// identity; any other occupant rejects the create.
func (s *Service) Create(ctx context.Context, openID string, fields MealFields) (*domain.Meal, error) {
	admin, err := s.requireAdmin(ctx, openID)
	if err != nil {
		return nil, err
	}
	if fields.Slot != domain.SlotLunch && fields.Slot != domain.SlotDinner {
		return nil, ErrInvalidSlot
	}

	var meal *domain.Meal
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		existing, err := s.mealRepo.FindByDateSlot(ctx, fields.Date, fields.Slot)
		if err != nil {
			return err
		}
		switch {
		case existing == nil:
			meal = fieldsToMeal(fields)
			meal.Status = domain.MealPublished
			meal.CreatedBy = admin.ID
			if err := s.mealRepo.Create(ctx, meal); err != nil {
				if pg.IsUniqueViolation(err, "meals_date_slot_key") {
					return ErrMealExists
				}
				return err
			}
		case existing.Status == domain.MealCanceled:
			meal = fieldsToMeal(fields)
			meal.ID = existing.ID
			meal.Status = domain.MealPublished
			meal.CreatedBy = existing.CreatedBy
			if err := s.mealRepo.Republish(ctx, meal); err != nil {
				return err
			}
		default:
			return ErrMealExists
		}

		return s.recordMealAction(ctx, "meal_publish", admin.ID, meal, nil)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TopicMealLifecycle, strconv.Itoa(meal.ID), events.MealLifecyclePayload{
		MealID:   meal.ID,
		ToStatus: domain.MealPublished,
	})
	return meal, nil
}

// Update applies a safe edit to a published meal. It never touches
// existing orders; term changes that invalidate them go through Repost.
func (s *Service) Update(ctx context.Context, openID string, mealID int, fields MealFields) (*domain.Meal, error) {
	admin, err := s.requireAdmin(ctx, openID)
	if err != nil {
		return nil, err
	}

	var meal *domain.Meal
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		current, err := s.loadMeal(ctx, mealID)
		if err != nil {
			return err
		}
		if current.Status != domain.MealPublished {
			return ErrMealNotEditable
		}

		meal = fieldsToMeal(fields)
		meal.ID = current.ID
		meal.Date = current.Date
		meal.Slot = current.Slot
		meal.Status = current.Status
		meal.CreatedBy = current.CreatedBy
		if err := s.mealRepo.UpdateFields(ctx, meal); err != nil {
			return err
		}
		return s.recordMealAction(ctx, "meal_edit", admin.ID, meal, nil)
	})
	if err != nil {
		return nil, err
	}
	return meal, nil
}

// Lock freezes a published meal: active orders get a lock timestamp and
// no further submissions or edits are admitted.
func (s *Service) Lock(ctx context.Context, openID string, mealID int) (*StatusResult, error) {
	return s.transition(ctx, openID, mealID, domain.MealLocked, "meal_lock", func(ctx context.Context, meal *domain.Meal) error {
		return s.orderRepo.SetLockedByMeal(ctx, meal.ID, true)
	})
}

// Unlock returns a locked meal to published and clears order lock stamps.
func (s *Service) Unlock(ctx context.Context, openID string, mealID int) (*StatusResult, error) {
	return s.transition(ctx, openID, mealID, domain.MealPublished, "meal_unlock", func(ctx context.Context, meal *domain.Meal) error {
		return s.orderRepo.SetLockedByMeal(ctx, meal.ID, false)
	})
}

// Complete finalizes a locked meal. Terminal; orders are untouched.
func (s *Service) Complete(ctx context.Context, openID string, mealID int) (*StatusResult, error) {
	return s.transition(ctx, openID, mealID, domain.MealCompleted, "meal_complete", nil)
}

// Cancel voids a meal and refunds every active order in the same
// transaction as the state change: exactly one refund ledger entry per
// order, one audit record per affected user, one meal-level summary.
func (s *Service) Cancel(ctx context.Context, openID string, mealID int) (*StatusResult, error) {
	admin, err := s.requireAdmin(ctx, openID)
	if err != nil {
		return nil, err
	}

	var fromStatus string
	var affected int
	err = s.txManager.BeginSerializable(ctx, func(ctx context.Context) error {
		meal, err := s.loadMeal(ctx, mealID)
		if err != nil {
			return err
		}
		if err := validateTransition(meal.Status, domain.MealCanceled); err != nil {
			return err
		}
		fromStatus = meal.Status

		affected, err = s.cascadeRefunds(ctx, admin.ID, meal, "meal canceled", "meal_cancel")
		if err != nil {
			return err
		}
		return s.mealRepo.UpdateStatus(ctx, meal.ID, domain.MealCanceled)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TopicMealLifecycle, strconv.Itoa(mealID), events.MealLifecyclePayload{
		MealID:     mealID,
		FromStatus: fromStatus,
		ToStatus:   domain.MealCanceled,
		Orders:     affected,
	})
	return &StatusResult{MealID: mealID, Status: domain.MealCanceled}, nil
}

// Repost rewrites a published meal's terms and cancels-and-refunds every
// existing active order, since the terms they were admitted under no
// longer hold. The meal stays published for fresh orders.
func (s *Service) Repost(ctx context.Context, openID string, mealID int, fields MealFields) (*StatusResult, error) {
	admin, err := s.requireAdmin(ctx, openID)
	if err != nil {
		return nil, err
	}

	var affected int
	err = s.txManager.BeginSerializable(ctx, func(ctx context.Context) error {
		current, err := s.loadMeal(ctx, mealID)
		if err != nil {
			return err
		}
		if domain.MealTerminal(current.Status) {
			return ErrTerminalState
		}
		if current.Status != domain.MealPublished {
			return ErrInvalidTransition
		}

		meal := fieldsToMeal(fields)
		meal.ID = current.ID
		meal.Date = current.Date
		meal.Slot = current.Slot
		meal.CreatedBy = current.CreatedBy
		if err := s.mealRepo.UpdateFields(ctx, meal); err != nil {
			return err
		}

		affected, err = s.cascadeRefunds(ctx, admin.ID, current, "meal repost", "meal_repost")
		if err != nil {
			return err
		}
		return s.recordMealAction(ctx, "meal_publish", admin.ID, meal, nil)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TopicMealLifecycle, strconv.Itoa(mealID), events.MealLifecyclePayload{
		MealID:     mealID,
		FromStatus: domain.MealPublished,
		ToStatus:   domain.MealPublished,
		Orders:     affected,
	})
	return &StatusResult{MealID: mealID, Status: domain.MealPublished}, nil
}

func (s *Service) Get(ctx context.Context, mealID int) (*domain.Meal, error) {
	meal, err := s.mealRepo.FindByID(ctx, mealID)
	if err != nil {
		return nil, err
	}
	if meal == nil {
		return nil, ErrMealNotFound
	}
	return meal, nil
}

func (s *Service) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Meal, error) {
	meals, err := s.mealRepo.ListByDateRange(ctx, from, to)
	if err != nil {
		zap.L().Error("failed to list meals", zap.Error(err))
		return nil, err
	}
	return meals, nil
}

// transition runs a simple (non-cascading-refund) state change plus an
// optional in-transaction side effect on the meal's orders.
func (s *Service) transition(ctx context.Context, openID string, mealID int, target, action string,
	sideEffect func(ctx context.Context, meal *domain.Meal) error) (*StatusResult, error) {
	admin, err := s.requireAdmin(ctx, openID)
	if err != nil {
		return nil, err
	}

	var fromStatus string
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		meal, err := s.loadMeal(ctx, mealID)
		if err != nil {
			return err
		}
		if err := validateTransition(meal.Status, target); err != nil {
			return err
		}
		fromStatus = meal.Status

		if err := s.mealRepo.UpdateStatus(ctx, meal.ID, target); err != nil {
			return err
		}
		if sideEffect != nil {
			if err := sideEffect(ctx, meal); err != nil {
				return err
			}
		}
		return s.recordMealAction(ctx, action, admin.ID, meal, nil)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TopicMealLifecycle, strconv.Itoa(mealID), events.MealLifecyclePayload{
		MealID:     mealID,
		FromStatus: fromStatus,
		ToStatus:   target,
	})
	return &StatusResult{MealID: mealID, Status: target}, nil
}

type affectedUser struct {
	UserID   int    `json:"user_id"`
	Nickname string `json:"nickname"`
	OpenID   string `json:"open_id"`
}

// cascadeRefunds cancels every active order of the meal, appending one
// refund ledger entry and crediting the owner's balance per order, and
// writes one audit record per affected user plus a summary record. Must
// run inside the caller's transaction.
func (s *Service) cascadeRefunds(ctx context.Context, actorID int, meal *domain.Meal,
	remark, summaryAction string) (int, error) {
	orders, err := s.orderRepo.ListActiveByMeal(ctx, meal.ID)
	if err != nil {
		return 0, err
	}

	affected := make([]affectedUser, 0, len(orders))
	for _, order := range orders {
		if err := s.orderRepo.MarkCanceled(ctx, order.ID); err != nil {
			return 0, err
		}
		balance, err := s.ledger.Append(ctx, &domain.LedgerEntry{
			UserID:      order.UserID,
			Type:        domain.LedgerRefund,
			AmountCents: order.AmountCents,
			RefType:     domain.RefTypeOrder,
			RefID:       order.ID,
			Remark:      remark,
		})
		if err != nil {
			return 0, err
		}

		user, err := s.userRepo.FindByID(ctx, order.UserID)
		if err != nil {
			return 0, err
		}
		entry := affectedUser{UserID: order.UserID}
		if user != nil {
			entry.Nickname = user.Nickname
			entry.OpenID = user.OpenID
		}
		affected = append(affected, entry)

		detail, _ := json.Marshal(map[string]any{
			"order_id":             order.ID,
			"meal_id":              meal.ID,
			"date":                 meal.Date.Format("2006-01-02"),
			"slot":                 meal.Slot,
			"title":                meal.Title,
			"amount_cents":         order.AmountCents,
			"balance_before_cents": balance - order.AmountCents,
			"balance_after_cents":  balance,
		})
		err = s.audit.Record(ctx, &domain.AuditRecord{
			UserID:  order.UserID,
			ActorID: actorID,
			Action:  "order_cancel",
			Detail:  detail,
		})
		if err != nil {
			return 0, err
		}
	}

	err = s.recordMealAction(ctx, summaryAction, actorID, meal, map[string]any{
		"affected_count": len(affected),
		"affected_users": affected,
	})
	if err != nil {
		return 0, err
	}
	return len(affected), nil
}

func (s *Service) loadMeal(ctx context.Context, mealID int) (*domain.Meal, error) {
	meal, err := s.mealRepo.FindByID(ctx, mealID)
	if err != nil {
		return nil, err
	}
	if meal == nil {
		return nil, ErrMealNotFound
	}
	return meal, nil
}

func (s *Service) requireAdmin(ctx context.Context, openID string) (*domain.User, error) {
	user, err := s.userRepo.GetOrCreate(ctx, openID)
	if err != nil {
		return nil, err
	}
	isAdmin, err := s.userRepo.IsAdmin(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, ErrPermissionDenied
	}
	return user, nil
}

func (s *Service) recordMealAction(ctx context.Context, action string, actorID int,
	meal *domain.Meal, extra map[string]any) error {
	payload := map[string]any{
		"meal_id": meal.ID,
		"date":    meal.Date.Format("2006-01-02"),
		"slot":    meal.Slot,
		"title":   meal.Title,
	}
	for k, v := range extra {
		payload[k] = v
	}
	detail, _ := json.Marshal(payload)
	return s.audit.Record(ctx, &domain.AuditRecord{
		ActorID: actorID,
		Action:  action,
		Detail:  detail,
	})
}

func fieldsToMeal(fields MealFields) *domain.Meal {
	perUser := fields.PerUserLimit
	if perUser < 1 {
		perUser = 1
	}
	return &domain.Meal{
		Date:           fields.Date,
		Slot:           fields.Slot,
		Title:          fields.Title,
		Description:    fields.Description,
		BasePriceCents: fields.BasePriceCents,
		Capacity:       fields.Capacity,
		PerUserLimit:   perUser,
		Options:        fields.Options,
	}
}
