package balanceservice

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/mealvault/mealvault/internal/domain"
	"github.com/mealvault/mealvault/internal/pg"
)

type mocks struct {
	user   *MockUserRepo
	ledger *MockLedger
	audit  *MockAuditLog
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		user:   NewMockUserRepo(ctrl),
		ledger: NewMockLedger(ctrl),
		audit:  NewMockAuditLog(ctrl),
	}
	txm := pg.NewMockTXManager(ctrl)
	txm.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) },
	).AnyTimes()
	service := New(m.user, m.ledger, m.audit, txm)
	return service, m
}

var admin = &domain.User{ID: 9, OpenID: "wx-admin", IsAdmin: true}

func expectAdmin(m *mocks) {
	m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-admin").Return(admin, nil)
	m.user.EXPECT().IsAdmin(gomock.Any(), 9).Return(true, nil)
}

func TestGetBalance(t *testing.T) {
	service, m := NewMock(t)
	m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").
		Return(&domain.User{ID: 1, OpenID: "wx-1", Nickname: "alice", BalanceCents: -200}, nil)

	balance, err := service.GetBalance(context.Background(), "wx-1")
	assert.NoError(t, err)
	assert.Equal(t, &Balance{UserID: 1, OpenID: "wx-1", Nickname: "alice", BalanceCents: -200}, balance)
}

func TestRecharge(t *testing.T) {
	tests := []struct {
		name          string
		amount        int64
		prepareMock   func(m *mocks)
		expected      *Balance
		expectedError error
	}{
		{
			name:   "credits target through the ledger",
			amount: 5000,
			prepareMock: func(m *mocks) {
				expectAdmin(m)
				m.user.EXPECT().FindByOpenID(gomock.Any(), "wx-1").
					Return(&domain.User{ID: 1, OpenID: "wx-1", Nickname: "alice"}, nil)
				m.ledger.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, entry *domain.LedgerEntry) (int64, error) {
						assert.Equal(t, domain.LedgerRecharge, entry.Type)
						assert.Equal(t, int64(5000), entry.AmountCents)
						assert.Equal(t, domain.RefTypeManual, entry.RefType)
						return 5000, nil
					})
				m.audit.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, rec *domain.AuditRecord) error {
						assert.Equal(t, "balance_recharge", rec.Action)
						assert.Equal(t, 9, rec.ActorID)
						return nil
					})
			},
			expected: &Balance{UserID: 1, OpenID: "wx-1", Nickname: "alice", BalanceCents: 5000},
		},
		{
			name:          "rejects non-positive amount",
			amount:        0,
			prepareMock:   func(m *mocks) {},
			expectedError: ErrInvalidAmount,
		},
		{
			name:   "rejects unknown target",
			amount: 100,
			prepareMock: func(m *mocks) {
				expectAdmin(m)
				m.user.EXPECT().FindByOpenID(gomock.Any(), "wx-1").Return(nil, nil)
			},
			expectedError: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			balance, err := service.Recharge(context.Background(), "wx-admin", "wx-1", tt.amount, "top-up")
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, balance)
		})
	}
}

func TestAdjust(t *testing.T) {
	t.Run("applies signed correction", func(t *testing.T) {
		service, m := NewMock(t)
		expectAdmin(m)
		m.user.EXPECT().FindByOpenID(gomock.Any(), "wx-1").
			Return(&domain.User{ID: 1, OpenID: "wx-1"}, nil)
		m.ledger.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, entry *domain.LedgerEntry) (int64, error) {
				assert.Equal(t, domain.LedgerAdjust, entry.Type)
				assert.Equal(t, int64(-300), entry.AmountCents)
				return 700, nil
			})
		m.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

		balance, err := service.Adjust(context.Background(), "wx-admin", "wx-1", -300, "correction")
		assert.NoError(t, err)
		assert.Equal(t, int64(700), balance.BalanceCents)
	})

	t.Run("rejects zero adjustment", func(t *testing.T) {
		service, _ := NewMock(t)
		_, err := service.Adjust(context.Background(), "wx-admin", "wx-1", 0, "noop")
		assert.ErrorIs(t, err, ErrZeroAdjustment)
	})

	t.Run("rejects non-admin actor", func(t *testing.T) {
		service, m := NewMock(t)
		user := &domain.User{ID: 1, OpenID: "wx-1"}
		m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").Return(user, nil)
		m.user.EXPECT().IsAdmin(gomock.Any(), 1).Return(false, nil)

		_, err := service.Adjust(context.Background(), "wx-1", "wx-2", 100, "")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestTransactions(t *testing.T) {
	service, m := NewMock(t)
	m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").
		Return(&domain.User{ID: 1, OpenID: "wx-1"}, nil)
	m.ledger.EXPECT().ListByUser(gomock.Any(), 1, defaultTransactionsLimit).
		Return([]domain.LedgerEntry{{ID: 311, Type: domain.LedgerDebit, AmountCents: -1500}}, nil)

	entries, err := service.Transactions(context.Background(), "wx-1", 0)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, int64(-1500), entries[0].AmountCents)
}

func TestUpdateProfile(t *testing.T) {
	tests := []struct {
		name          string
		nickname      string
		prepareMock   func(m *mocks)
		expected      *Balance
		expectedError error
	}{
		{
			name:     "stores trimmed nickname",
			nickname: "  alice  ",
			prepareMock: func(m *mocks) {
				m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").
					Return(&domain.User{ID: 1, OpenID: "wx-1", Nickname: "old", BalanceCents: 300}, nil)
				m.user.EXPECT().UpdateNickname(gomock.Any(), 1, "alice").Return(nil)
			},
			expected: &Balance{UserID: 1, OpenID: "wx-1", Nickname: "alice", BalanceCents: 300},
		},
		{
			name:          "rejects empty nickname",
			nickname:      "   ",
			prepareMock:   func(m *mocks) {},
			expectedError: ErrInvalidNickname,
		},
		{
			name:          "rejects nickname over the length cap",
			nickname:      strings.Repeat("ы", maxNicknameLength+1),
			prepareMock:   func(m *mocks) {},
			expectedError: ErrInvalidNickname,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			balance, err := service.UpdateProfile(context.Background(), "wx-1", tt.nickname)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, balance)
		})
	}
}
