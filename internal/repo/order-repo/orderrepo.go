package orderrepo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/mealvault/mealvault/internal/domain"
	"github.com/mealvault/mealvault/internal/pg"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

const orderColumns = `id, user_id, meal_id, qty, options_json, amount_cents, status, locked_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	var optionsJSON []byte
	err := row.Scan(&order.ID, &order.UserID, &order.MealID, &order.Qty, &optionsJSON,
		&order.AmountCents, &order.Status, &order.LockedAt, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(optionsJSON) > 0 {
		if err := json.Unmarshal(optionsJSON, &order.OptionIDs); err != nil {
			return nil, err
		}
	}
	return &order, nil
}

func (r *Repository) Insert(ctx context.Context, order *domain.Order) error {
	query := `
        INSERT INTO orders (user_id, meal_id, qty, options_json, amount_cents, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `
	optionIDs := order.OptionIDs
	if optionIDs == nil {
		optionIDs = []string{}
	}
	optionsJSON, err := json.Marshal(optionIDs)
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx, query,
		order.UserID, order.MealID, order.Qty, optionsJSON, order.AmountCents, order.Status).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		zap.L().Error("can't insert order", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, orderID int) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(ctx, query, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find order", zap.Error(err))
		return nil, err
	}
	return order, nil
}

func (r *Repository) FindActiveByUserMeal(ctx context.Context, userID, mealID int) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 AND meal_id = $2 AND status = 'active'`
	order, err := scanOrder(r.db.QueryRow(ctx, query, userID, mealID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find active order", zap.Error(err))
		return nil, err
	}
	return order, nil
}

// SumActiveQty returns the total quantity committed against a meal.
func (r *Repository) SumActiveQty(ctx context.Context, mealID int) (int, error) {
	query := `
        SELECT COALESCE(SUM(qty), 0)
        FROM orders
        WHERE meal_id = $1 AND status = 'active'
    `
	var total int
	if err := r.db.QueryRow(ctx, query, mealID).Scan(&total); err != nil {
		zap.L().Error("can't sum active order qty", zap.Error(err))
		return 0, err
	}
	return total, nil
}

func (r *Repository) ListActiveByMeal(ctx context.Context, mealID int) ([]domain.Order, error) {
	query := `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE meal_id = $1 AND status = 'active'
        ORDER BY id
    `
	return r.list(ctx, query, mealID)
}

func (r *Repository) ListByUser(ctx context.Context, userID int) ([]domain.Order, error) {
	query := `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
    `
	return r.list(ctx, query, userID)
}

func (r *Repository) list(ctx context.Context, query string, arg any) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		zap.L().Error("can't list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			zap.L().Error("can't scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// MarkCanceled transitions an active order to its terminal state. It
// reports pgx.ErrNoRows when the order is missing or already canceled.
func (r *Repository) MarkCanceled(ctx context.Context, orderID int) error {
	query := `
        UPDATE orders
        SET status = 'canceled', updated_at = now()
        WHERE id = $1 AND status = 'active'
    `
	ct, err := r.db.Exec(ctx, query, orderID)
	if err != nil {
		zap.L().Error("can't cancel order", zap.Error(err))
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetLockedByMeal stamps or clears the lock timestamp on every active
// order of a meal.
func (r *Repository) SetLockedByMeal(ctx context.Context, mealID int, locked bool) error {
	query := `
        UPDATE orders
        SET locked_at = CASE WHEN $1 THEN now() ELSE NULL END, updated_at = now()
        WHERE meal_id = $2 AND status = 'active'
    `
	if _, err := r.db.Exec(ctx, query, locked, mealID); err != nil {
		zap.L().Error("can't update order locks", zap.Error(err))
		return err
	}
	return nil
}
