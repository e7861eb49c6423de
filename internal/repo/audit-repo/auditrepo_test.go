package auditrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"github.com/mealvault/mealvault/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Record(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`INSERT INTO audit_log (user_id, actor_id, action, detail_json) VALUES (NULLIF($1, 0), NULLIF($2, 0), $3, $4)`)

	t.Run("record with detail", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(1, 9, "balance_recharge", []byte(`{"amount_cents":5000}`)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Record(context.Background(), &domain.AuditRecord{
			UserID:  1,
			ActorID: 9,
			Action:  "balance_recharge",
			Detail:  []byte(`{"amount_cents":5000}`),
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty detail defaults to empty object", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(0, 9, "consistency_check", []byte(`{}`)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Record(context.Background(), &domain.AuditRecord{
			ActorID: 9,
			Action:  "consistency_check",
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(1, 9, "meal_publish", []byte(`{}`)).
			WillReturnError(errors.New("insert failed"))

		err := repo.Record(context.Background(), &domain.AuditRecord{
			UserID: 1, ActorID: 9, Action: "meal_publish",
		})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_BalanceMismatches(t *testing.T) {
	repo, mock := NewMock(t)

	query := `SELECT u.id, u.open_id, u.nickname, u.balance_cents, (.+) FROM users u LEFT JOIN ledger l ON l.user_id = u.id (.+)`

	t.Run("mismatch found", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "open_id", "nickname", "balance_cents", "ledger_cents"}).
			AddRow(1, "wx-a1b2c3", "alice", int64(500), int64(300))
		mock.ExpectQuery(query).WillReturnRows(rows)

		out, err := repo.BalanceMismatches(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, []domain.BalanceMismatch{
			{UserID: 1, OpenID: "wx-a1b2c3", Nickname: "alice", BalanceCents: 500, LedgerCents: 300},
		}, out)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("all consistent", func(t *testing.T) {
		mock.ExpectQuery(query).
			WillReturnRows(pgxmock.NewRows([]string{"id", "open_id", "nickname", "balance_cents", "ledger_cents"}))

		out, err := repo.BalanceMismatches(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, out)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_OrphanedOrders(t *testing.T) {
	repo, mock := NewMock(t)

	rows := pgxmock.NewRows([]string{"id", "user_id", "meal_id", "missing"}).
		AddRow(7, 1, 42, "meal").
		AddRow(8, 99, 43, "user")
	mock.ExpectQuery(`SELECT o.id, o.user_id, o.meal_id, 'meal' AS missing (.+) UNION ALL (.+)`).
		WillReturnRows(rows)

	out, err := repo.OrphanedOrders(context.Background())
	assert.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, "meal", out[0].Missing)
	assert.Equal(t, "user", out[1].Missing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DuplicateActiveOrders(t *testing.T) {
	repo, mock := NewMock(t)

	rows := pgxmock.NewRows([]string{"user_id", "meal_id", "count"}).AddRow(1, 42, 2)
	mock.ExpectQuery(`SELECT user_id, meal_id, COUNT\(\*\) FROM orders WHERE status = 'active' (.+)`).
		WillReturnRows(rows)

	out, err := repo.DuplicateActiveOrders(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []domain.DuplicateActiveOrders{{UserID: 1, MealID: 42, Count: 2}}, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CapacityOverruns(t *testing.T) {
	repo, mock := NewMock(t)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"id", "date", "slot", "capacity", "ordered_qty"}).
		AddRow(42, date, domain.SlotLunch, 30, 32)
	mock.ExpectQuery(`SELECT m.id, m.date, m.slot, m.capacity, (.+) FROM meals m (.+)`).
		WillReturnRows(rows)

	out, err := repo.CapacityOverruns(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []domain.CapacityOverrun{
		{MealID: 42, Date: date, Slot: domain.SlotLunch, Capacity: 30, OrderedQty: 32},
	}, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MissingDebits(t *testing.T) {
	repo, mock := NewMock(t)

	rows := pgxmock.NewRows([]string{"id", "user_id", "amount_cents"}).AddRow(7, 1, int64(1500))
	mock.ExpectQuery(`SELECT o.id, o.user_id, o.amount_cents FROM orders o LEFT JOIN ledger l (.+)`).
		WillReturnRows(rows)

	out, err := repo.MissingDebits(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []domain.MissingDebit{{OrderID: 7, UserID: 1, AmountCents: 1500}}, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_NegativeBalances(t *testing.T) {
	repo, mock := NewMock(t)

	rows := pgxmock.NewRows([]string{"id", "open_id", "nickname", "balance_cents"}).
		AddRow(1, "wx-a1b2c3", "alice", int64(-1200))
	mock.ExpectQuery(`SELECT id, open_id, nickname, balance_cents FROM users WHERE balance_cents < 0 (.+)`).
		WithArgs(50).
		WillReturnRows(rows)

	out, err := repo.NegativeBalances(context.Background(), 50)
	assert.NoError(t, err)
	assert.Equal(t, int64(-1200), out[0].BalanceCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Statistics(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\), COUNT\(\*\) FILTER \(WHERE is_admin\), (.+) FROM users`).
		WillReturnRows(pgxmock.NewRows([]string{"total", "admins", "sum", "min", "max"}).
			AddRow(25, 2, int64(120000), int64(-1200), int64(25000)))
	mock.ExpectQuery(`SELECT COUNT\(\*\), (.+) FROM meals`).
		WillReturnRows(pgxmock.NewRows([]string{"total", "published", "locked", "completed", "canceled"}).
			AddRow(40, 5, 2, 30, 3))
	mock.ExpectQuery(`SELECT COUNT\(\*\), (.+) FROM orders`).
		WillReturnRows(pgxmock.NewRows([]string{"total", "active", "canceled", "amount"}).
			AddRow(300, 80, 20, int64(420000)))
	mock.ExpectQuery(`SELECT COUNT\(\*\), (.+) FROM ledger`).
		WillReturnRows(pgxmock.NewRows([]string{"total", "credits", "debits"}).
			AddRow(600, int64(500000), int64(420000)))

	stats, err := repo.Statistics(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 25, stats.Users.Total)
	assert.Equal(t, 5, stats.Meals.Published)
	assert.Equal(t, 80, stats.Orders.Active)
	assert.Equal(t, int64(420000), stats.Ledger.TotalDebits)
	assert.NoError(t, mock.ExpectationsWereMet())
}
