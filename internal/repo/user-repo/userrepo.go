package userrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/mealvault/mealvault/internal/domain"
	"github.com/mealvault/mealvault/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

// GetOrCreate resolves an external open id to a user row, provisioning
// one on first sight. The insert is idempotent and safe under races.
func (r *Repository) GetOrCreate(ctx context.Context, openID string) (*domain.User, error) {
	insert := `
        INSERT INTO users (open_id)
        VALUES ($1)
        ON CONFLICT (open_id) DO NOTHING
    `
	if _, err := r.db.Exec(ctx, insert, openID); err != nil {
		zap.L().Error("can't provision user", zap.Error(err))
		return nil, err
	}
	return r.FindByOpenID(ctx, openID)
}

func (r *Repository) FindByOpenID(ctx context.Context, openID string) (*domain.User, error) {
	query := `
        SELECT id, open_id, nickname, is_admin, balance_cents, created_at
        FROM users
        WHERE open_id = $1
    `
	var user domain.User
	err := r.db.QueryRow(ctx, query, openID).
		Scan(&user.ID, &user.OpenID, &user.Nickname, &user.IsAdmin, &user.BalanceCents, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find user by open id", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindByID(ctx context.Context, userID int) (*domain.User, error) {
	query := `
        SELECT id, open_id, nickname, is_admin, balance_cents, created_at
        FROM users
        WHERE id = $1
    `
	var user domain.User
	err := r.db.QueryRow(ctx, query, userID).
		Scan(&user.ID, &user.OpenID, &user.Nickname, &user.IsAdmin, &user.BalanceCents, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *Repository) IsAdmin(ctx context.Context, userID int) (bool, error) {
	var isAdmin bool
	err := r.db.QueryRow(ctx, `SELECT is_admin FROM users WHERE id = $1`, userID).Scan(&isAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		zap.L().Error("can't check admin flag", zap.Error(err))
		return false, err
	}
	return isAdmin, nil
}

func (r *Repository) GetBalance(ctx context.Context, userID int) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `SELECT balance_cents FROM users WHERE id = $1`, userID).Scan(&balance)
	if err != nil {
		zap.L().Error("can't read cached balance", zap.Error(err))
		return 0, err
	}
	return balance, nil
}

func (r *Repository) UpdateNickname(ctx context.Context, userID int, nickname string) error {
	ct, err := r.db.Exec(ctx, `UPDATE users SET nickname = $1 WHERE id = $2`, nickname, userID)
	if err != nil {
		zap.L().Error("can't update nickname", zap.Error(err))
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetBalance overwrites the cached balance. Only the consistency repair
// path uses this; every ordinary mutation goes through the ledger.
func (r *Repository) SetBalance(ctx context.Context, userID int, balanceCents int64) error {
	ct, err := r.db.Exec(ctx, `UPDATE users SET balance_cents = $1 WHERE id = $2`, balanceCents, userID)
	if err != nil {
		zap.L().Error("can't set balance", zap.Error(err))
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
