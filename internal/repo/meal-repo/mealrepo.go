package mealrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

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

const mealColumns = `
        m.id, m.date, m.slot, m.title, m.description, m.base_price_cents,
        m.capacity, m.per_user_limit, m.options_json, m.status,
        COALESCE(m.created_by, 0), m.created_at, m.updated_at`

func scanMeal(row pgx.Row, withQty bool) (*domain.Meal, error) {
	var meal domain.Meal
	var optionsJSON []byte
	dest := []any{
		&meal.ID, &meal.Date, &meal.Slot, &meal.Title, &meal.Description, &meal.BasePriceCents,
		&meal.Capacity, &meal.PerUserLimit, &optionsJSON, &meal.Status,
		&meal.CreatedBy, &meal.CreatedAt, &meal.UpdatedAt,
	}
	if withQty {
		dest = append(dest, &meal.OrderedQty)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	// Options are decoded exactly once, here at the store boundary.
	if len(optionsJSON) > 0 {
		if err := json.Unmarshal(optionsJSON, &meal.Options); err != nil {
			zap.L().Error("can't decode meal options", zap.Error(err), zap.Int("meal_id", meal.ID))
			return nil, err
		}
	}
	return &meal, nil
}

func (r *Repository) Create(ctx context.Context, meal *domain.Meal) error {
	query := `
        INSERT INTO meals (date, slot, title, description, base_price_cents,
                           capacity, per_user_limit, options_json, status, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, 0))
        RETURNING id, created_at, updated_at
    `
	optionsJSON, err := json.Marshal(meal.Options)
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx, query,
		meal.Date, meal.Slot, meal.Title, meal.Description, meal.BasePriceCents,
		meal.Capacity, meal.PerUserLimit, optionsJSON, meal.Status, meal.CreatedBy).
		Scan(&meal.ID, &meal.CreatedAt, &meal.UpdatedAt)
	if err != nil {
		zap.L().Error("can't create meal", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, mealID int) (*domain.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals m WHERE m.id = $1`
	meal, err := scanMeal(r.db.QueryRow(ctx, query, mealID), false)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find meal", zap.Error(err))
		return nil, err
	}
	return meal, nil
}

func (r *Repository) FindByDateSlot(ctx context.Context, date time.Time, slot string) (*domain.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals m WHERE m.date = $1 AND m.slot = $2`
	meal, err := scanMeal(r.db.QueryRow(ctx, query, date, slot), false)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find meal by date and slot", zap.Error(err))
		return nil, err
	}
	return meal, nil
}

func (r *Repository) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Meal, error) {
	query := `
        SELECT ` + mealColumns + `,
               COALESCE(SUM(o.qty) FILTER (WHERE o.status = 'active'), 0)::int AS ordered_qty
        FROM meals m
        LEFT JOIN orders o ON o.meal_id = m.id
        WHERE m.date >= $1 AND m.date <= $2
        GROUP BY m.id
        ORDER BY m.date, m.slot
    `
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		zap.L().Error("can't list meals", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var meals []domain.Meal
	for rows.Next() {
		meal, err := scanMeal(rows, true)
		if err != nil {
			zap.L().Error("can't scan meal row", zap.Error(err))
			return nil, err
		}
		meals = append(meals, *meal)
	}
	return meals, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, mealID int, status string) error {
	query := `
        UPDATE meals
        SET status = $1, updated_at = now()
        WHERE id = $2
    `
	ct, err := r.db.Exec(ctx, query, status, mealID)
	if err != nil {
		zap.L().Error("can't update meal status", zap.Error(err))
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateFields rewrites the mutable terms of a meal, keeping its identity
// and status.
func (r *Repository) UpdateFields(ctx context.Context, meal *domain.Meal) error {
	query := `
        UPDATE meals
        SET title = $1, description = $2, base_price_cents = $3,
            options_json = $4, capacity = $5, per_user_limit = $6, updated_at = now()
        WHERE id = $7
    `
	optionsJSON, err := json.Marshal(meal.Options)
	if err != nil {
		return err
	}
	ct, err := r.db.Exec(ctx, query,
		meal.Title, meal.Description, meal.BasePriceCents,
		optionsJSON, meal.Capacity, meal.PerUserLimit, meal.ID)
	if err != nil {
		zap.L().Error("can't update meal", zap.Error(err))
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Republish reuses a canceled meal row for a fresh publication under new
// terms.
func (r *Repository) Republish(ctx context.Context, meal *domain.Meal) error {
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := r.UpdateFields(ctx, meal); err != nil {
			return err
		}
		return r.UpdateStatus(ctx, meal.ID, domain.MealPublished)
	})
}
