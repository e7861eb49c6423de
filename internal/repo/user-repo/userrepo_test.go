package userrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

const findByOpenIDSQL = `SELECT id, open_id, nickname, is_admin, balance_cents, created_at FROM users WHERE open_id = $1`

func TestRepository_GetOrCreate(t *testing.T) {
	repo, mock := NewMock(t)
	insertSQL := regexp.QuoteMeta(`INSERT INTO users (open_id) VALUES ($1) ON CONFLICT (open_id) DO NOTHING`)

	t.Run("provisions then resolves", func(t *testing.T) {
		now := time.Now()
		mock.ExpectExec(insertSQL).
			WithArgs("wx-1").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectQuery(regexp.QuoteMeta(findByOpenIDSQL)).
			WithArgs("wx-1").
			WillReturnRows(pgxmock.NewRows([]string{"id", "open_id", "nickname", "is_admin", "balance_cents", "created_at"}).
				AddRow(1, "wx-1", "", false, int64(0), now))

		user, err := repo.GetOrCreate(context.Background(), "wx-1")
		assert.NoError(t, err)
		assert.Equal(t, 1, user.ID)
		assert.Equal(t, "wx-1", user.OpenID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing user is found, not duplicated", func(t *testing.T) {
		now := time.Now()
		mock.ExpectExec(insertSQL).
			WithArgs("wx-1").
			WillReturnResult(pgxmock.NewResult("INSERT", 0))
		mock.ExpectQuery(regexp.QuoteMeta(findByOpenIDSQL)).
			WithArgs("wx-1").
			WillReturnRows(pgxmock.NewRows([]string{"id", "open_id", "nickname", "is_admin", "balance_cents", "created_at"}).
				AddRow(1, "wx-1", "alice", false, int64(500), now))

		user, err := repo.GetOrCreate(context.Background(), "wx-1")
		assert.NoError(t, err)
		assert.Equal(t, int64(500), user.BalanceCents)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_FindByOpenID(t *testing.T) {
	repo, mock := NewMock(t)

	t.Run("missing user returns nil", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(findByOpenIDSQL)).
			WithArgs("wx-unknown").
			WillReturnError(pgx.ErrNoRows)

		user, err := repo.FindByOpenID(context.Background(), "wx-unknown")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(findByOpenIDSQL)).
			WithArgs("wx-1").
			WillReturnError(errors.New("database error"))

		_, err := repo.FindByOpenID(context.Background(), "wx-1")
		assert.Error(t, err)
	})
}

func TestRepository_IsAdmin(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`SELECT is_admin FROM users WHERE id = $1`)

	mock.ExpectQuery(query).
		WithArgs(9).
		WillReturnRows(pgxmock.NewRows([]string{"is_admin"}).AddRow(true))
	isAdmin, err := repo.IsAdmin(context.Background(), 9)
	assert.NoError(t, err)
	assert.True(t, isAdmin)

	mock.ExpectQuery(query).
		WithArgs(99).
		WillReturnError(pgx.ErrNoRows)
	isAdmin, err = repo.IsAdmin(context.Background(), 99)
	assert.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestRepository_UpdateNickname(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`UPDATE users SET nickname = $1 WHERE id = $2`)

	t.Run("updates row", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("alice", 1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.UpdateNickname(context.Background(), 1, "alice"))
	})

	t.Run("missing user", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("alice", 99).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateNickname(context.Background(), 99, "alice")
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})
}

func TestRepository_SetBalance(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`UPDATE users SET balance_cents = $1 WHERE id = $2`)

	t.Run("updates row", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(int64(300), 1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.SetBalance(context.Background(), 1, 300))
	})

	t.Run("missing user", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(int64(300), 99).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.SetBalance(context.Background(), 99, 300)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})
}
