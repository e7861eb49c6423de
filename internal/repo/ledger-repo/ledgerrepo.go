package ledgerrepo

import (
	"context"

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

// Append writes one immutable ledger entry and moves the user's cached
// balance by the entry's signed amount. It composes into the caller's
// transaction when one is open and returns the balance after the move.
func (r *Repository) Append(ctx context.Context, entry *domain.LedgerEntry) (int64, error) {
	insertQuery := `
        INSERT INTO ledger (user_id, type, amount_cents, ref_type, ref_id, remark)
        VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, 0), $6)
        RETURNING id, created_at
    `
	balanceQuery := `
        UPDATE users
        SET balance_cents = balance_cents + $1
        WHERE id = $2
        RETURNING balance_cents
    `
	var balance int64
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		row := r.db.QueryRow(ctx, insertQuery,
			entry.UserID, entry.Type, entry.AmountCents, entry.RefType, entry.RefID, entry.Remark)
		if err := row.Scan(&entry.ID, &entry.CreatedAt); err != nil {
			zap.L().Error("can't append ledger entry", zap.Error(err))
			return err
		}
		if err := r.db.QueryRow(ctx, balanceQuery, entry.AmountCents, entry.UserID).Scan(&balance); err != nil {
			zap.L().Error("can't apply ledger amount to balance", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// SumByUser returns the signed sum of all ledger entries for a user.
func (r *Repository) SumByUser(ctx context.Context, userID int) (int64, error) {
	query := `
        SELECT COALESCE(SUM(amount_cents), 0)
        FROM ledger
        WHERE user_id = $1
    `
	var sum int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		zap.L().Error("can't sum ledger entries", zap.Error(err))
		return 0, err
	}
	return sum, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int, limit int) ([]domain.LedgerEntry, error) {
	query := `
        SELECT id, user_id, type, amount_cents, COALESCE(ref_type, ''), COALESCE(ref_id, 0), remark, created_at
        FROM ledger
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		zap.L().Error("can't list ledger entries", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		err := rows.Scan(&e.ID, &e.UserID, &e.Type, &e.AmountCents, &e.RefType, &e.RefID, &e.Remark, &e.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan ledger row", zap.Error(err))
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
