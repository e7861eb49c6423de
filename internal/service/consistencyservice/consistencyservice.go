package consistencyservice

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mealvault/mealvault/internal/domain"
	"github.com/mealvault/mealvault/internal/pg"
)

type UserRepo interface {
	GetOrCreate(ctx context.Context, openID string) (*domain.User, error)
	FindByOpenID(ctx context.Context, openID string) (*domain.User, error)
	IsAdmin(ctx context.Context, userID int) (bool, error)
	GetBalance(ctx context.Context, userID int) (int64, error)
	SetBalance(ctx context.Context, userID int, balanceCents int64) error
}

type Ledger interface {
	SumByUser(ctx context.Context, userID int) (int64, error)
}

type AuditRepo interface {
	Record(ctx context.Context, rec *domain.AuditRecord) error
	BalanceMismatches(ctx context.Context) ([]domain.BalanceMismatch, error)
	OrphanedOrders(ctx context.Context) ([]domain.OrphanedOrder, error)
	DuplicateActiveOrders(ctx context.Context) ([]domain.DuplicateActiveOrders, error)
	CapacityOverruns(ctx context.Context) ([]domain.CapacityOverrun, error)
	MissingDebits(ctx context.Context) ([]domain.MissingDebit, error)
	OrphanedLedgerRefs(ctx context.Context) ([]domain.OrphanedLedgerRef, error)
	NegativeBalances(ctx context.Context, limit int) ([]domain.NegativeBalance, error)
	StalePublishedMeals(ctx context.Context, limit int) ([]domain.StaleMeal, error)
	Statistics(ctx context.Context) (*domain.Statistics, error)
}

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPermissionDenied = errors.New("permission denied")
)

const warningRowLimit = 50

// Service runs the full consistency sweep and the balance repair. The
// sweep is read-only; FixBalance is the only write path and it trusts
// the ledger as the source of truth.
type Service struct {
	userRepo  UserRepo
	ledger    Ledger
	auditRepo AuditRepo
	txManager pg.TXManager
}

func New(userRepo UserRepo, ledger Ledger, auditRepo AuditRepo, txManager pg.TXManager) *Service {
	return &Service{userRepo: userRepo, ledger: ledger, auditRepo: auditRepo, txManager: txManager}
}

// FullCheck runs every invariant check plus the warning heuristics and
// the aggregate statistics, in parallel, and returns the combined
// report. Admin only. The sweep itself never mutates anything; only the
// summary audit record is written.
func (s *Service) FullCheck(ctx context.Context) (*domain.ConsistencyReport, error) {
	var (
		mu       sync.Mutex
		issues   []domain.ConsistencyIssue
		warnings []domain.ConsistencyIssue
		stats    *domain.Statistics
	)
	addIssues := func(batch []domain.ConsistencyIssue) {
		mu.Lock()
		defer mu.Unlock()
		for _, issue := range batch {
			if issue.Severity == domain.SeverityWarning {
				warnings = append(warnings, issue)
			} else {
				issues = append(issues, issue)
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		batch, err := s.checkBalances(gctx)
		if err != nil {
			return err
		}
		addIssues(batch)
		return nil
	})
	g.Go(func() error {
		batch, err := s.checkOrders(gctx)
		if err != nil {
			return err
		}
		addIssues(batch)
		return nil
	})
	g.Go(func() error {
		batch, err := s.checkLedger(gctx)
		if err != nil {
			return err
		}
		addIssues(batch)
		return nil
	})
	g.Go(func() error {
		batch, err := s.checkWarnings(gctx)
		if err != nil {
			return err
		}
		addIssues(batch)
		return nil
	})
	g.Go(func() error {
		var err error
		stats, err = s.auditRepo.Statistics(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		zap.L().Error("consistency check failed", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	status := "ok"
	if len(issues) > 0 {
		status = "issues_found"
	}
	report := &domain.ConsistencyReport{
		Issues:     issues,
		Warnings:   warnings,
		Statistics: *stats,
		Summary: domain.ConsistencySummary{
			TotalIssues:   len(issues),
			TotalWarnings: len(warnings),
			Status:        status,
			CheckedAt:     now,
		},
	}

	detail, _ := json.Marshal(map[string]any{
		"total_issues":   len(issues),
		"total_warnings": len(warnings),
		"status":         status,
	})
	err := s.auditRepo.Record(ctx, &domain.AuditRecord{
		Action: "consistency_check",
		Detail: detail,
	})
	if err != nil {
		zap.L().Warn("failed to record consistency check", zap.Error(err))
	}
	return report, nil
}

type FixResult struct {
	UserID         int   `json:"user_id"`
	OldBalance     int64 `json:"old_balance_cents"`
	LedgerBalance  int64 `json:"ledger_balance_cents"`
	AdjustmentMade int64 `json:"adjustment_cents"`
}

// FixBalance recomputes one user's balance from the ledger and, if the
// cached value drifted, overwrites it with the ledger sum. The repair
// touches only the cached column; it never writes ledger entries.
func (s *Service) FixBalance(ctx context.Context, actorID int, targetOpenID string) (*FixResult, error) {
	var result *FixResult
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		target, err := s.userRepo.FindByOpenID(ctx, targetOpenID)
		if err != nil {
			return err
		}
		if target == nil {
			return ErrUserNotFound
		}

		cached, err := s.userRepo.GetBalance(ctx, target.ID)
		if err != nil {
			return err
		}
		ledgerSum, err := s.ledger.SumByUser(ctx, target.ID)
		if err != nil {
			return err
		}

		result = &FixResult{
			UserID:        target.ID,
			OldBalance:    cached,
			LedgerBalance: ledgerSum,
		}
		if cached == ledgerSum {
			return nil
		}
		result.AdjustmentMade = ledgerSum - cached

		if err := s.userRepo.SetBalance(ctx, target.ID, ledgerSum); err != nil {
			return err
		}
		detail, _ := json.Marshal(map[string]any{
			"old_balance_cents":    cached,
			"ledger_balance_cents": ledgerSum,
			"adjustment_cents":     ledgerSum - cached,
		})
		return s.auditRepo.Record(ctx, &domain.AuditRecord{
			UserID:  target.ID,
			ActorID: actorID,
			Action:  "consistency_fix",
			Detail:  detail,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RequireAdmin resolves the caller and rejects non-admins. Handlers gate
// the consistency endpoints through it.
func (s *Service) RequireAdmin(ctx context.Context, openID string) (*domain.User, error) {
	user, err := s.userRepo.GetOrCreate(ctx, openID)
	if err != nil {
		return nil, err
	}
	isAdmin, err := s.userRepo.IsAdmin(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, ErrPermissionDenied
	}
	return user, nil
}

func (s *Service) checkBalances(ctx context.Context) ([]domain.ConsistencyIssue, error) {
	rows, err := s.auditRepo.BalanceMismatches(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	issues := make([]domain.ConsistencyIssue, 0, len(rows))
	for _, row := range rows {
		issues = append(issues, domain.ConsistencyIssue{
			Type:        "balance_mismatch",
			Description: "cached balance differs from ledger sum",
			Details: map[string]any{
				"user_id":          row.UserID,
				"open_id":          row.OpenID,
				"nickname":         row.Nickname,
				"balance_cents":    row.BalanceCents,
				"ledger_cents":     row.LedgerCents,
				"difference_cents": row.BalanceCents - row.LedgerCents,
			},
			Severity:  domain.SeverityError,
			Timestamp: now,
		})
	}
	return issues, nil
}

func (s *Service) checkOrders(ctx context.Context) ([]domain.ConsistencyIssue, error) {
	now := time.Now()
	var issues []domain.ConsistencyIssue

	orphans, err := s.auditRepo.OrphanedOrders(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range orphans {
		issues = append(issues, domain.ConsistencyIssue{
			Type:        "orphaned_order",
			Description: "order references a missing " + row.Missing,
			Details: map[string]any{
				"order_id": row.OrderID,
				"user_id":  row.UserID,
				"meal_id":  row.MealID,
				"missing":  row.Missing,
			},
			Severity:  domain.SeverityError,
			Timestamp: now,
		})
	}

	dups, err := s.auditRepo.DuplicateActiveOrders(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range dups {
		issues = append(issues, domain.ConsistencyIssue{
			Type:        "duplicate_active_orders",
			Description: "user holds more than one active order for the same meal",
			Details: map[string]any{
				"user_id": row.UserID,
				"meal_id": row.MealID,
				"count":   row.Count,
			},
			Severity:  domain.SeverityError,
			Timestamp: now,
		})
	}

	overruns, err := s.auditRepo.CapacityOverruns(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range overruns {
		issues = append(issues, domain.ConsistencyIssue{
			Type:        "capacity_overrun",
			Description: "active order quantity exceeds meal capacity",
			Details: map[string]any{
				"meal_id":     row.MealID,
				"date":        row.Date.Format("2006-01-02"),
				"slot":        row.Slot,
				"capacity":    row.Capacity,
				"ordered_qty": row.OrderedQty,
			},
			Severity:  domain.SeverityError,
			Timestamp: now,
		})
	}
	return issues, nil
}

func (s *Service) checkLedger(ctx context.Context) ([]domain.ConsistencyIssue, error) {
	now := time.Now()
	var issues []domain.ConsistencyIssue

	missing, err := s.auditRepo.MissingDebits(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range missing {
		issues = append(issues, domain.ConsistencyIssue{
			Type:        "missing_debit",
			Description: "active order has no matching debit ledger entry",
			Details: map[string]any{
				"order_id":     row.OrderID,
				"user_id":      row.UserID,
				"amount_cents": row.AmountCents,
			},
			Severity:  domain.SeverityError,
			Timestamp: now,
		})
	}

	orphans, err := s.auditRepo.OrphanedLedgerRefs(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range orphans {
		issues = append(issues, domain.ConsistencyIssue{
			Type:        "orphaned_ledger_ref",
			Description: "ledger entry references a missing " + row.RefType,
			Details: map[string]any{
				"ledger_id": row.LedgerID,
				"ref_type":  row.RefType,
				"ref_id":    row.RefID,
			},
			Severity:  domain.SeverityWarning,
			Timestamp: now,
		})
	}
	return issues, nil
}

func (s *Service) checkWarnings(ctx context.Context) ([]domain.ConsistencyIssue, error) {
	now := time.Now()
	var issues []domain.ConsistencyIssue

	negatives, err := s.auditRepo.NegativeBalances(ctx, warningRowLimit)
	if err != nil {
		return nil, err
	}
	for _, row := range negatives {
		issues = append(issues, domain.ConsistencyIssue{
			Type:        "negative_balance",
			Description: "user balance is negative",
			Details: map[string]any{
				"user_id":       row.UserID,
				"open_id":       row.OpenID,
				"nickname":      row.Nickname,
				"balance_cents": row.BalanceCents,
			},
			Severity:  domain.SeverityWarning,
			Timestamp: now,
		})
	}

	stale, err := s.auditRepo.StalePublishedMeals(ctx, warningRowLimit)
	if err != nil {
		return nil, err
	}
	for _, row := range stale {
		issues = append(issues, domain.ConsistencyIssue{
			Type:        "stale_published_meal",
			Description: "meal is still published long past its date",
			Details: map[string]any{
				"meal_id": row.MealID,
				"date":    row.Date.Format("2006-01-02"),
				"slot":    row.Slot,
			},
			Severity:  domain.SeverityWarning,
			Timestamp: now,
		})
	}
	return issues, nil
}
