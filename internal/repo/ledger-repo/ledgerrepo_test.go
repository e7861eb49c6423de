package ledgerrepo

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

func TestRepository_Append(t *testing.T) {
	repo, mock, txm := NewMock(t)
	txm.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) },
	).AnyTimes()

	insertSQL := regexp.QuoteMeta(`INSERT INTO ledger (user_id, type, amount_cents, ref_type, ref_id, remark) VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, 0), $6) RETURNING id, created_at`)
	balanceSQL := regexp.QuoteMeta(`UPDATE users SET balance_cents = balance_cents + $1 WHERE id = $2 RETURNING balance_cents`)

	t.Run("debit moves balance by stored amount", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(insertSQL).
			WithArgs(1, domain.LedgerDebit, int64(-1500), domain.RefTypeOrder, 101, "order create debit").
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(311, now))
		mock.ExpectQuery(balanceSQL).
			WithArgs(int64(-1500), 1).
			WillReturnRows(pgxmock.NewRows([]string{"balance_cents"}).AddRow(int64(500)))

		entry := &domain.LedgerEntry{
			UserID:      1,
			Type:        domain.LedgerDebit,
			AmountCents: -1500,
			RefType:     domain.RefTypeOrder,
			RefID:       101,
			Remark:      "order create debit",
		}
		balance, err := repo.Append(context.Background(), entry)
		assert.NoError(t, err)
		assert.Equal(t, int64(500), balance)
		assert.Equal(t, 311, entry.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure aborts without balance update", func(t *testing.T) {
		mock.ExpectQuery(insertSQL).
			WithArgs(1, domain.LedgerRecharge, int64(5000), "", 0, "").
			WillReturnError(errors.New("database error"))

		_, err := repo.Append(context.Background(), &domain.LedgerEntry{
			UserID:      1,
			Type:        domain.LedgerRecharge,
			AmountCents: 5000,
		})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_SumByUser(t *testing.T) {
	repo, mock, _ := NewMock(t)
	query := regexp.QuoteMeta(`SELECT COALESCE(SUM(amount_cents), 0) FROM ledger WHERE user_id = $1`)

	mock.ExpectQuery(query).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(-200)))

	sum, err := repo.SumByUser(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(-200), sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByUser(t *testing.T) {
	repo, mock, _ := NewMock(t)
	query := regexp.QuoteMeta(`SELECT id, user_id, type, amount_cents, COALESCE(ref_type, ''), COALESCE(ref_id, 0), remark, created_at FROM ledger WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`)

	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "user_id", "type", "amount_cents", "ref_type", "ref_id", "remark", "created_at"}).
		AddRow(312, 1, domain.LedgerRefund, int64(1500), domain.RefTypeOrder, 101, "order cancel refund", now).
		AddRow(311, 1, domain.LedgerDebit, int64(-1500), domain.RefTypeOrder, 101, "order create debit", now)
	mock.ExpectQuery(query).WithArgs(1, 100).WillReturnRows(rows)

	entries, err := repo.ListByUser(context.Background(), 1, 100)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, int64(1500), entries[0].AmountCents)
	assert.Equal(t, domain.LedgerDebit, entries[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
