package balanceservice

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/mealvault/mealvault/internal/domain"
	"github.com/mealvault/mealvault/internal/pg"
)

type UserRepo interface {
	GetOrCreate(ctx context.Context, openID string) (*domain.User, error)
	FindByOpenID(ctx context.Context, openID string) (*domain.User, error)
	IsAdmin(ctx context.Context, userID int) (bool, error)
	UpdateNickname(ctx context.Context, userID int, nickname string) error
}

type Ledger interface {
	Append(ctx context.Context, entry *domain.LedgerEntry) (int64, error)
	ListByUser(ctx context.Context, userID int, limit int) ([]domain.LedgerEntry, error)
}

type AuditLog interface {
	Record(ctx context.Context, rec *domain.AuditRecord) error
}

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrZeroAdjustment   = errors.New("adjustment amount must be non-zero")
	ErrInvalidNickname  = errors.New("nickname must be between 1 and 100 characters")
	ErrPermissionDenied = errors.New("permission denied")
)

const (
	defaultTransactionsLimit = 100
	maxNicknameLength        = 100
)

// Service exposes balance reads and the admin-only credit operations.
// Every balance movement goes through the ledger; the service never
// writes the cached balance directly.
type Service struct {
	userRepo  UserRepo
	ledger    Ledger
	audit     AuditLog
	txManager pg.TXManager
}

func New(userRepo UserRepo, ledger Ledger, audit AuditLog, txManager pg.TXManager) *Service {
	return &Service{userRepo: userRepo, ledger: ledger, audit: audit, txManager: txManager}
}

type Balance struct {
	UserID       int    `json:"user_id"`
	OpenID       string `json:"open_id"`
	Nickname     string `json:"nickname"`
	BalanceCents int64  `json:"balance_cents"`
}

func (s *Service) GetBalance(ctx context.Context, openID string) (*Balance, error) {
	user, err := s.userRepo.GetOrCreate(ctx, openID)
	if err != nil {
		return nil, err
	}
	return &Balance{
		UserID:       user.ID,
		OpenID:       user.OpenID,
		Nickname:     user.Nickname,
		BalanceCents: user.BalanceCents,
	}, nil
}

// UpdateProfile sets the caller's own nickname.
func (s *Service) UpdateProfile(ctx context.Context, openID, nickname string) (*Balance, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" || utf8.RuneCountInString(nickname) > maxNicknameLength {
		return nil, ErrInvalidNickname
	}
	user, err := s.userRepo.GetOrCreate(ctx, openID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateNickname(ctx, user.ID, nickname); err != nil {
		return nil, err
	}
	return &Balance{
		UserID:       user.ID,
		OpenID:       user.OpenID,
		Nickname:     nickname,
		BalanceCents: user.BalanceCents,
	}, nil
}

// Recharge credits a user's account. Admin only; the amount is strictly
// positive and lands in the ledger as a recharge entry.
func (s *Service) Recharge(ctx context.Context, actorOpenID, targetOpenID string, amountCents int64, remark string) (*Balance, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	actor, err := s.requireAdmin(ctx, actorOpenID)
	if err != nil {
		return nil, err
	}

	var result *Balance
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		target, err := s.userRepo.FindByOpenID(ctx, targetOpenID)
		if err != nil {
			return err
		}
		if target == nil {
			return ErrUserNotFound
		}

		balance, err := s.ledger.Append(ctx, &domain.LedgerEntry{
			UserID:      target.ID,
			Type:        domain.LedgerRecharge,
			AmountCents: amountCents,
			RefType:     domain.RefTypeManual,
			Remark:      remark,
		})
		if err != nil {
			return err
		}

		detail, _ := json.Marshal(map[string]any{
			"amount_cents":         amountCents,
			"balance_before_cents": balance - amountCents,
			"balance_after_cents":  balance,
			"remark":               remark,
		})
		err = s.audit.Record(ctx, &domain.AuditRecord{
			UserID:  target.ID,
			ActorID: actor.ID,
			Action:  "balance_recharge",
			Detail:  detail,
		})
		if err != nil {
			return err
		}

		result = &Balance{
			UserID:       target.ID,
			OpenID:       target.OpenID,
			Nickname:     target.Nickname,
			BalanceCents: balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Adjust applies a signed manual correction to a user's balance. Admin
// only. Unlike Recharge the amount may be negative; zero is rejected.
func (s *Service) Adjust(ctx context.Context, actorOpenID, targetOpenID string, amountCents int64, remark string) (*Balance, error) {
	if amountCents == 0 {
		return nil, ErrZeroAdjustment
	}
	actor, err := s.requireAdmin(ctx, actorOpenID)
	if err != nil {
		return nil, err
	}

	var result *Balance
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		target, err := s.userRepo.FindByOpenID(ctx, targetOpenID)
		if err != nil {
			return err
		}
		if target == nil {
			return ErrUserNotFound
		}

		balance, err := s.ledger.Append(ctx, &domain.LedgerEntry{
			UserID:      target.ID,
			Type:        domain.LedgerAdjust,
			AmountCents: amountCents,
			RefType:     domain.RefTypeManual,
			Remark:      remark,
		})
		if err != nil {
			return err
		}

		detail, _ := json.Marshal(map[string]any{
			"amount_cents":         amountCents,
			"balance_before_cents": balance - amountCents,
			"balance_after_cents":  balance,
			"remark":               remark,
		})
		err = s.audit.Record(ctx, &domain.AuditRecord{
			UserID:  target.ID,
			ActorID: actor.ID,
			Action:  "balance_adjust",
			Detail:  detail,
		})
		if err != nil {
			return err
		}

		result = &Balance{
			UserID:       target.ID,
			OpenID:       target.OpenID,
			Nickname:     target.Nickname,
			BalanceCents: balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Transactions returns the user's ledger entries, newest first.
func (s *Service) Transactions(ctx context.Context, openID string, limit int) ([]domain.LedgerEntry, error) {
	user, err := s.userRepo.GetOrCreate(ctx, openID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTransactionsLimit
	}
	return s.ledger.ListByUser(ctx, user.ID, limit)
}

func (s *Service) requireAdmin(ctx context.Context, openID string) (*domain.User, error) {
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
