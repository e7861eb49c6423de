package auditrepo

import (
	"context"

	"go.uber.org/zap"

	"github.com/mealvault/mealvault/internal/domain"
	"github.com/mealvault/mealvault/internal/pg"
)

// Repository owns the append-only audit log and the read-only queries
// backing the consistency checks. None of the check queries run on the
// request hot path.
type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Record(ctx context.Context, rec *domain.AuditRecord) error {
	query := `
        INSERT INTO audit_log (user_id, actor_id, action, detail_json)
        VALUES (NULLIF($1, 0), NULLIF($2, 0), $3, $4)
    `
	detail := rec.Detail
	if len(detail) == 0 {
		detail = []byte(`{}`)
	}
	if _, err := r.db.Exec(ctx, query, rec.UserID, rec.ActorID, rec.Action, detail); err != nil {
		zap.L().Error("can't write audit record", zap.Error(err))
		return err
	}
	return nil
}

// BalanceMismatches lists users whose cached balance disagrees with the
// signed sum of their ledger entries.
func (r *Repository) BalanceMismatches(ctx context.Context) ([]domain.BalanceMismatch, error) {
	query := `
        SELECT u.id, u.open_id, u.nickname, u.balance_cents,
               COALESCE(SUM(l.amount_cents), 0) AS ledger_cents
        FROM users u
        LEFT JOIN ledger l ON l.user_id = u.id
        GROUP BY u.id, u.open_id, u.nickname, u.balance_cents
        HAVING u.balance_cents <> COALESCE(SUM(l.amount_cents), 0)
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BalanceMismatch
	for rows.Next() {
		var m domain.BalanceMismatch
		if err := rows.Scan(&m.UserID, &m.OpenID, &m.Nickname, &m.BalanceCents, &m.LedgerCents); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repository) OrphanedOrders(ctx context.Context) ([]domain.OrphanedOrder, error) {
	query := `
        SELECT o.id, o.user_id, o.meal_id, 'meal' AS missing
        FROM orders o
        LEFT JOIN meals m ON m.id = o.meal_id
        WHERE m.id IS NULL
        UNION ALL
        SELECT o.id, o.user_id, o.meal_id, 'user' AS missing
        FROM orders o
        LEFT JOIN users u ON u.id = o.user_id
        WHERE u.id IS NULL
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OrphanedOrder
	for rows.Next() {
		var o domain.OrphanedOrder
		if err := rows.Scan(&o.OrderID, &o.UserID, &o.MealID, &o.Missing); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repository) DuplicateActiveOrders(ctx context.Context) ([]domain.DuplicateActiveOrders, error) {
	query := `
        SELECT user_id, meal_id, COUNT(*)
        FROM orders
        WHERE status = 'active'
        GROUP BY user_id, meal_id
        HAVING COUNT(*) > 1
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DuplicateActiveOrders
	for rows.Next() {
		var d domain.DuplicateActiveOrders
		if err := rows.Scan(&d.UserID, &d.MealID, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repository) CapacityOverruns(ctx context.Context) ([]domain.CapacityOverrun, error) {
	query := `
        SELECT m.id, m.date, m.slot, m.capacity, COALESCE(SUM(o.qty), 0)::int AS ordered_qty
        FROM meals m
        LEFT JOIN orders o ON o.meal_id = m.id AND o.status = 'active'
        GROUP BY m.id, m.date, m.slot, m.capacity
        HAVING COALESCE(SUM(o.qty), 0) > m.capacity
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CapacityOverrun
	for rows.Next() {
		var c domain.CapacityOverrun
		if err := rows.Scan(&c.MealID, &c.Date, &c.Slot, &c.Capacity, &c.OrderedQty); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MissingDebits lists active orders with no matching debit ledger entry.
func (r *Repository) MissingDebits(ctx context.Context) ([]domain.MissingDebit, error) {
	query := `
        SELECT o.id, o.user_id, o.amount_cents
        FROM orders o
        LEFT JOIN ledger l ON l.ref_type = 'order' AND l.ref_id = o.id AND l.type = 'debit'
        WHERE o.status = 'active' AND l.id IS NULL
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MissingDebit
	for rows.Next() {
		var m domain.MissingDebit
		if err := rows.Scan(&m.OrderID, &m.UserID, &m.AmountCents); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repository) OrphanedLedgerRefs(ctx context.Context) ([]domain.OrphanedLedgerRef, error) {
	query := `
        SELECT l.id, l.ref_type, l.ref_id
        FROM ledger l
        LEFT JOIN orders o ON l.ref_type = 'order' AND l.ref_id = o.id
        LEFT JOIN meals m ON l.ref_type = 'meal' AND l.ref_id = m.id
        WHERE l.ref_type IN ('order', 'meal')
          AND l.ref_id IS NOT NULL
          AND o.id IS NULL
          AND m.id IS NULL
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OrphanedLedgerRef
	for rows.Next() {
		var o domain.OrphanedLedgerRef
		if err := rows.Scan(&o.LedgerID, &o.RefType, &o.RefID); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repository) NegativeBalances(ctx context.Context, limit int) ([]domain.NegativeBalance, error) {
	query := `
        SELECT id, open_id, nickname, balance_cents
        FROM users
        WHERE balance_cents < 0
        ORDER BY balance_cents ASC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.NegativeBalance
	for rows.Next() {
		var n domain.NegativeBalance
		if err := rows.Scan(&n.UserID, &n.OpenID, &n.Nickname, &n.BalanceCents); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// StalePublishedMeals lists meals still published well past their date.
func (r *Repository) StalePublishedMeals(ctx context.Context, limit int) ([]domain.StaleMeal, error) {
	query := `
        SELECT id, date, slot, created_at
        FROM meals
        WHERE status = 'published' AND date < CURRENT_DATE - INTERVAL '7 days'
        ORDER BY date ASC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StaleMeal
	for rows.Next() {
		var s domain.StaleMeal
		if err := rows.Scan(&s.MealID, &s.Date, &s.Slot, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) Statistics(ctx context.Context) (*domain.Statistics, error) {
	var stats domain.Statistics

	userQuery := `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE is_admin),
               COALESCE(SUM(balance_cents), 0),
               COALESCE(MIN(balance_cents), 0),
               COALESCE(MAX(balance_cents), 0)
        FROM users
    `
	err := r.db.QueryRow(ctx, userQuery).Scan(
		&stats.Users.Total, &stats.Users.Admins, &stats.Users.TotalBalance,
		&stats.Users.MinBalanceCents, &stats.Users.MaxBalanceCents)
	if err != nil {
		return nil, err
	}

	mealQuery := `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status = 'published'),
               COUNT(*) FILTER (WHERE status = 'locked'),
               COUNT(*) FILTER (WHERE status = 'completed'),
               COUNT(*) FILTER (WHERE status = 'canceled')
        FROM meals
    `
	err = r.db.QueryRow(ctx, mealQuery).Scan(
		&stats.Meals.Total, &stats.Meals.Published, &stats.Meals.Locked,
		&stats.Meals.Completed, &stats.Meals.Canceled)
	if err != nil {
		return nil, err
	}

	orderQuery := `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status = 'active'),
               COUNT(*) FILTER (WHERE status = 'canceled'),
               COALESCE(SUM(amount_cents), 0)
        FROM orders
    `
	err = r.db.QueryRow(ctx, orderQuery).Scan(
		&stats.Orders.Total, &stats.Orders.Active, &stats.Orders.Canceled, &stats.Orders.TotalAmount)
	if err != nil {
		return nil, err
	}

	ledgerQuery := `
        SELECT COUNT(*),
               COALESCE(SUM(amount_cents) FILTER (WHERE amount_cents > 0), 0),
               COALESCE(SUM(ABS(amount_cents)) FILTER (WHERE amount_cents < 0), 0)
        FROM ledger
    `
	err = r.db.QueryRow(ctx, ledgerQuery).Scan(
		&stats.Ledger.TotalEntries, &stats.Ledger.TotalCredits, &stats.Ledger.TotalDebits)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
