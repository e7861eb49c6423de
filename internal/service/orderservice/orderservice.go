package orderservice

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/mealvault/mealvault/internal/domain"
	"github.com/mealvault/mealvault/internal/events"
	"github.com/mealvault/mealvault/internal/pg"
)

type UserRepo interface {
	GetOrCreate(ctx context.Context, openID string) (*domain.User, error)
	GetBalance(ctx context.Context, userID int) (int64, error)
}

type MealRepo interface {
	FindByID(ctx context.Context, mealID int) (*domain.Meal, error)
}

type OrderRepo interface {
	Insert(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, orderID int) (*domain.Order, error)
	FindActiveByUserMeal(ctx context.Context, userID, mealID int) (*domain.Order, error)
	SumActiveQty(ctx context.Context, mealID int) (int, error)
	ListByUser(ctx context.Context, userID int) ([]domain.Order, error)
	MarkCanceled(ctx context.Context, orderID int) error
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
	ErrInvalidQuantity  = errors.New("invalid order quantity")
	ErrUnknownOption    = errors.New("unknown meal option")
	ErrMealNotFound     = errors.New("meal not found")
	ErrMealNotAvailable = errors.New("meal not available for ordering")
	ErrDuplicateOrder   = errors.New("active order already exists for meal")
	ErrCapacityExceeded = errors.New("meal capacity exceeded")
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderNotActive   = errors.New("order not active")
	ErrPermissionDenied = errors.New("permission denied")
)

// Receipt is the caller-facing result of an admission decision.
type Receipt struct {
	OrderID      int   `json:"order_id"`
	AmountCents  int64 `json:"amount_cents"`
	BalanceCents int64 `json:"balance_cents"`
}

// Service is the only writer path that combines meal-state checks with
// ledger debits and refunds.
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

// Submit admits a new order: capacity and duplicate checks, order insert,
// debit ledger entry and balance decrement run as one serializable
// transaction. Overdraft is allowed; the returned balance may be negative.
// A write conflict surfaces as pg.ErrConcurrencyConflict and is not
// retried here.
func (s *Service) Submit(ctx context.Context, openID string, mealID, qty int, optionIDs []string) (*Receipt, error) {
	user, err := s.userRepo.GetOrCreate(ctx, openID)
	if err != nil {
		return nil, err
	}

	var receipt *Receipt
	var payload events.OrderAcceptedPayload
	err = s.txManager.BeginSerializable(ctx, func(ctx context.Context) error {
		meal, err := s.loadPublishedMeal(ctx, mealID)
		if err != nil {
			return err
		}

		existing, err := s.orderRepo.FindActiveByUserMeal(ctx, user.ID, meal.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicateOrder
		}

		receipt, err = s.admit(ctx, user, meal, qty, optionIDs, "order create debit")
		if err != nil {
			return err
		}
		payload = events.OrderAcceptedPayload{
			OrderID:      receipt.OrderID,
			UserID:       user.ID,
			MealID:       meal.ID,
			Qty:          qty,
			AmountCents:  receipt.AmountCents,
			BalanceCents: receipt.BalanceCents,
		}
		return nil
	})
	if err != nil {
		return nil, s.mapStoreError(err)
	}

	s.publisher.Publish(ctx, events.TopicOrderAccepted, strconv.Itoa(receipt.OrderID), payload)
	return receipt, nil
}

// Modify cancels the existing order and admits a replacement in one
// atomic unit: a failure anywhere rolls back both halves, leaving the
// original order intact.
func (s *Service) Modify(ctx context.Context, openID string, orderID, qty int, optionIDs []string) (*Receipt, error) {
	user, err := s.userRepo.GetOrCreate(ctx, openID)
	if err != nil {
		return nil, err
	}

	var receipt *Receipt
	err = s.txManager.BeginSerializable(ctx, func(ctx context.Context) error {
		order, err := s.loadOwnedActiveOrder(ctx, user.ID, orderID)
		if err != nil {
			return err
		}
		meal, err := s.loadPublishedMeal(ctx, order.MealID)
		if err != nil {
			return err
		}

		// Refund half: the old order leaves the books entirely before
		// the replacement is admitted.
		if err := s.orderRepo.MarkCanceled(ctx, order.ID); err != nil {
			return err
		}
		_, err = s.ledger.Append(ctx, &domain.LedgerEntry{
			UserID:      user.ID,
			Type:        domain.LedgerRefund,
			AmountCents: order.AmountCents,
			RefType:     domain.RefTypeOrder,
			RefID:       order.ID,
			Remark:      "order update refund",
		})
		if err != nil {
			return err
		}

		receipt, err = s.admit(ctx, user, meal, qty, optionIDs, "order update debit")
		if err != nil {
			return err
		}

		detail, _ := json.Marshal(map[string]any{
			"old_order_id": order.ID,
			"new_order_id": receipt.OrderID,
			"meal_id":      meal.ID,
			"qty":          qty,
			"amount_cents": receipt.AmountCents,
		})
		return s.audit.Record(ctx, &domain.AuditRecord{
			UserID:  user.ID,
			ActorID: user.ID,
			Action:  "order_modify",
			Detail:  detail,
		})
	})
	if err != nil {
		return nil, s.mapStoreError(err)
	}
	return receipt, nil
}

// Cancel marks an active order canceled and refunds its full amount.
// Canceling twice fails with ErrOrderNotActive and changes nothing.
func (s *Service) Cancel(ctx context.Context, openID string, orderID int) (*Receipt, error) {
	user, err := s.userRepo.GetOrCreate(ctx, openID)
	if err != nil {
		return nil, err
	}

	var receipt *Receipt
	var payload events.OrderCanceledPayload
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		order, err := s.loadOwnedActiveOrder(ctx, user.ID, orderID)
		if err != nil {
			return err
		}
		meal, err := s.loadPublishedMeal(ctx, order.MealID)
		if err != nil {
			return err
		}

		balanceBefore, err := s.userRepo.GetBalance(ctx, user.ID)
		if err != nil {
			return err
		}

		if err := s.orderRepo.MarkCanceled(ctx, order.ID); err != nil {
			return err
		}
		balance, err := s.ledger.Append(ctx, &domain.LedgerEntry{
			UserID:      user.ID,
			Type:        domain.LedgerRefund,
			AmountCents: order.AmountCents,
			RefType:     domain.RefTypeOrder,
			RefID:       order.ID,
			Remark:      "order cancel refund",
		})
		if err != nil {
			return err
		}

		detail, _ := json.Marshal(map[string]any{
			"order_id":             order.ID,
			"meal_id":              meal.ID,
			"amount_cents":         order.AmountCents,
			"balance_before_cents": balanceBefore,
			"balance_after_cents":  balance,
		})
		if err := s.audit.Record(ctx, &domain.AuditRecord{
			UserID:  user.ID,
			ActorID: user.ID,
			Action:  "order_cancel",
			Detail:  detail,
		}); err != nil {
			return err
		}

		receipt = &Receipt{OrderID: order.ID, AmountCents: order.AmountCents, BalanceCents: balance}
		payload = events.OrderCanceledPayload{
			OrderID:     order.ID,
			UserID:      user.ID,
			MealID:      meal.ID,
			AmountCents: order.AmountCents,
			Reason:      "user cancel",
		}
		return nil
	})
	if err != nil {
		return nil, s.mapStoreError(err)
	}

	s.publisher.Publish(ctx, events.TopicOrderCanceled, strconv.Itoa(receipt.OrderID), payload)
	return receipt, nil
}

func (s *Service) ListForUser(ctx context.Context, openID string) ([]domain.Order, error) {
	user, err := s.userRepo.GetOrCreate(ctx, openID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.ListByUser(ctx, user.ID)
	if err != nil {
		zap.L().Error("failed to list orders", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

// admit runs the capacity check, inserts the order and debits the user.
// The caller must already hold the transaction and have verified the meal
// is published.
func (s *Service) admit(ctx context.Context, user *domain.User, meal *domain.Meal,
	qty int, optionIDs []string, remark string) (*Receipt, error) {
	if qty < 1 || qty > meal.PerUserLimit {
		return nil, ErrInvalidQuantity
	}

	amount, selected, err := ComputeAmount(meal, qty, optionIDs)
	if err != nil {
		return nil, err
	}

	taken, err := s.orderRepo.SumActiveQty(ctx, meal.ID)
	if err != nil {
		return nil, err
	}
	if taken+qty > meal.Capacity {
		return nil, ErrCapacityExceeded
	}

	balanceBefore, err := s.userRepo.GetBalance(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:      user.ID,
		MealID:      meal.ID,
		Qty:         qty,
		OptionIDs:   optionIDs,
		AmountCents: amount,
		Status:      domain.OrderActive,
	}
	if err := s.orderRepo.Insert(ctx, order); err != nil {
		return nil, err
	}

	balance, err := s.ledger.Append(ctx, &domain.LedgerEntry{
		UserID:      user.ID,
		Type:        domain.LedgerDebit,
		AmountCents: -amount,
		RefType:     domain.RefTypeOrder,
		RefID:       order.ID,
		Remark:      remark,
	})
	if err != nil {
		return nil, err
	}

	detail, _ := json.Marshal(map[string]any{
		"meal_id":              meal.ID,
		"date":                 meal.Date.Format("2006-01-02"),
		"slot":                 meal.Slot,
		"title":                meal.Title,
		"qty":                  qty,
		"selected_options":     selected,
		"amount_cents":         amount,
		"balance_before_cents": balanceBefore,
		"balance_after_cents":  balance,
	})
	err = s.audit.Record(ctx, &domain.AuditRecord{
		UserID:  user.ID,
		ActorID: user.ID,
		Action:  "order_create",
		Detail:  detail,
	})
	if err != nil {
		return nil, err
	}

	return &Receipt{OrderID: order.ID, AmountCents: amount, BalanceCents: balance}, nil
}

func (s *Service) loadPublishedMeal(ctx context.Context, mealID int) (*domain.Meal, error) {
	meal, err := s.mealRepo.FindByID(ctx, mealID)
	if err != nil {
		return nil, err
	}
	if meal == nil {
		return nil, ErrMealNotFound
	}
	if meal.Status != domain.MealPublished {
		return nil, ErrMealNotAvailable
	}
	return meal, nil
}

func (s *Service) loadOwnedActiveOrder(ctx context.Context, userID, orderID int) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrPermissionDenied
	}
	if order.Status != domain.OrderActive {
		return nil, ErrOrderNotActive
	}
	return order, nil
}

// mapStoreError translates constraint-level failures into their business
// meaning. The unique partial index on active orders backs the duplicate
// check when two admissions race past the read side.
func (s *Service) mapStoreError(err error) error {
	if pg.IsUniqueViolation(err, "orders_user_meal_active_key") {
		return ErrDuplicateOrder
	}
	return err
}

// ComputeAmount prices an order: base price times quantity plus the
// signed delta of every selected option. Unknown option ids reject the
// order before any write happens.
func ComputeAmount(meal *domain.Meal, qty int, optionIDs []string) (int64, []domain.MealOption, error) {
	byID := make(map[string]domain.MealOption, len(meal.Options))
	for _, opt := range meal.Options {
		byID[opt.ID] = opt
	}

	var optionsTotal int64
	selected := make([]domain.MealOption, 0, len(optionIDs))
	for _, id := range optionIDs {
		opt, ok := byID[id]
		if !ok {
			return 0, nil, ErrUnknownOption
		}
		optionsTotal += opt.PriceCents
		selected = append(selected, opt)
	}

	return meal.BasePriceCents*int64(qty) + optionsTotal, selected, nil
}
