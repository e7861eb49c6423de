package mealrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/mealvault/mealvault/internal/domain"
	"github.com/mealvault/mealvault/internal/pg"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	mockTxManager := pg.NewMockTXManager(ctrl)

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	defer mockDB.Close()
	defer ctrl.Finish()

	return repo, mockDB, mockTxManager
}

var mealRowColumns = []string{
	"id", "date", "slot", "title", "description", "base_price_cents",
	"capacity", "per_user_limit", "options_json", "status",
	"created_by", "created_at", "updated_at",
}

func mealRow(now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(mealRowColumns).
		AddRow(42, now, domain.SlotLunch, "Braised pork rice", "", int64(1300),
			30, 2, []byte(`[{"id":"extra-rice","name":"Extra rice","price_cents":200}]`),
			domain.MealPublished, 9, now, now)
}

func TestRepository_Create(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()

	query := regexp.QuoteMeta(`INSERT INTO meals (date, slot, title, description, base_price_cents, capacity, per_user_limit, options_json, status, created_by) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, 0)) RETURNING id, created_at, updated_at`)

	t.Run("successful insert", func(t *testing.T) {
		meal := &domain.Meal{
			Date:           now,
			Slot:           domain.SlotLunch,
			Title:          "Braised pork rice",
			BasePriceCents: 1300,
			Capacity:       30,
			PerUserLimit:   2,
			Options:        []domain.MealOption{{ID: "extra-rice", Name: "Extra rice", PriceCents: 200}},
			Status:         domain.MealPublished,
			CreatedBy:      9,
		}
		mock.ExpectQuery(query).
			WithArgs(meal.Date, meal.Slot, meal.Title, meal.Description, meal.BasePriceCents,
				meal.Capacity, meal.PerUserLimit,
				[]byte(`[{"id":"extra-rice","name":"Extra rice","price_cents":200}]`),
				meal.Status, meal.CreatedBy).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(42, now, now))

		err := repo.Create(context.Background(), meal)
		assert.NoError(t, err)
		assert.Equal(t, 42, meal.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure", func(t *testing.T) {
		meal := &domain.Meal{Slot: domain.SlotDinner, Status: domain.MealPublished}
		mock.ExpectQuery(query).
			WithArgs(meal.Date, meal.Slot, meal.Title, meal.Description, meal.BasePriceCents,
				meal.Capacity, meal.PerUserLimit, []byte(`null`), meal.Status, meal.CreatedBy).
			WillReturnError(errors.New("insert failed"))

		err := repo.Create(context.Background(), meal)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()

	query := `SELECT (.+) FROM meals m WHERE m.id = \$1`

	t.Run("meal found with decoded options", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(42).WillReturnRows(mealRow(now))

		meal, err := repo.FindByID(context.Background(), 42)
		assert.NoError(t, err)
		assert.Equal(t, 42, meal.ID)
		assert.Equal(t, domain.MealPublished, meal.Status)
		assert.Equal(t, []domain.MealOption{{ID: "extra-rice", Name: "Extra rice", PriceCents: 200}}, meal.Options)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("meal not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(99).WillReturnRows(pgxmock.NewRows(mealRowColumns))

		meal, err := repo.FindByID(context.Background(), 99)
		assert.NoError(t, err)
		assert.Nil(t, meal)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_FindByDateSlot(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	query := `SELECT (.+) FROM meals m WHERE m.date = \$1 AND m.slot = \$2`

	mock.ExpectQuery(query).WithArgs(date, domain.SlotLunch).WillReturnRows(mealRow(now))

	meal, err := repo.FindByDateSlot(context.Background(), date, domain.SlotLunch)
	assert.NoError(t, err)
	assert.Equal(t, 42, meal.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByDateRange(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	query := `SELECT (.+) FROM meals m LEFT JOIN orders o ON o.meal_id = m.id WHERE (.+) GROUP BY m.id ORDER BY m.date, m.slot`

	t.Run("aggregated ordered qty", func(t *testing.T) {
		rows := pgxmock.NewRows(append(mealRowColumns, "ordered_qty")).
			AddRow(42, from, domain.SlotLunch, "Braised pork rice", "", int64(1300),
				30, 2, []byte(`[]`), domain.MealPublished, 9, now, now, 12).
			AddRow(43, from, domain.SlotDinner, "Beef noodles", "", int64(1500),
				20, 2, []byte(`[]`), domain.MealLocked, 9, now, now, 20)
		mock.ExpectQuery(query).WithArgs(from, to).WillReturnRows(rows)

		meals, err := repo.ListByDateRange(context.Background(), from, to)
		assert.NoError(t, err)
		assert.Len(t, meals, 2)
		assert.Equal(t, 12, meals[0].OrderedQty)
		assert.Equal(t, 20, meals[1].OrderedQty)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(from, to).WillReturnError(errors.New("query failed"))

		meals, err := repo.ListByDateRange(context.Background(), from, to)
		assert.Error(t, err)
		assert.Nil(t, meals)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock, _ := NewMock(t)

	query := regexp.QuoteMeta(`UPDATE meals SET status = $1, updated_at = now() WHERE id = $2`)

	t.Run("status updated", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(domain.MealLocked, 42).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateStatus(context.Background(), 42, domain.MealLocked)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown meal", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(domain.MealLocked, 99).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateStatus(context.Background(), 99, domain.MealLocked)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Republish(t *testing.T) {
	repo, mock, txm := NewMock(t)
	txm.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) },
	)

	updateSQL := regexp.QuoteMeta(`UPDATE meals SET title = $1, description = $2, base_price_cents = $3, options_json = $4, capacity = $5, per_user_limit = $6, updated_at = now() WHERE id = $7`)
	statusSQL := regexp.QuoteMeta(`UPDATE meals SET status = $1, updated_at = now() WHERE id = $2`)

	meal := &domain.Meal{
		ID:             42,
		Title:          "Braised pork rice",
		BasePriceCents: 1400,
		Capacity:       30,
		PerUserLimit:   2,
	}
	mock.ExpectExec(updateSQL).
		WithArgs(meal.Title, meal.Description, meal.BasePriceCents,
			[]byte(`null`), meal.Capacity, meal.PerUserLimit, meal.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(statusSQL).
		WithArgs(domain.MealPublished, 42).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Republish(context.Background(), meal)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
