package orderservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/mealvault/mealvault/internal/domain"
	"github.com/mealvault/mealvault/internal/pg"
)

type mocks struct {
	user   *MockUserRepo
	meal   *MockMealRepo
	order  *MockOrderRepo
	ledger *MockLedger
	audit  *MockAuditLog
	pub    *MockPublisher
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		user:   NewMockUserRepo(ctrl),
		meal:   NewMockMealRepo(ctrl),
		order:  NewMockOrderRepo(ctrl),
		ledger: NewMockLedger(ctrl),
		audit:  NewMockAuditLog(ctrl),
		pub:    NewMockPublisher(ctrl),
	}
	txm := pg.NewMockTXManager(ctrl)
	txm.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) },
	).AnyTimes()
	txm.EXPECT().BeginSerializable(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) },
	).AnyTimes()
	service := New(m.user, m.meal, m.order, m.ledger, m.audit, txm, m.pub)
	return service, m
}

func publishedMeal() *domain.Meal {
	return &domain.Meal{
		ID:             42,
		Slot:           domain.SlotLunch,
		Title:          "Beef noodles",
		BasePriceCents: 1300,
		Capacity:       30,
		PerUserLimit:   2,
		Options: []domain.MealOption{
			{ID: "extra-rice", Name: "Extra rice", PriceCents: 200},
			{ID: "no-cilantro", Name: "No cilantro", PriceCents: 0},
		},
		Status: domain.MealPublished,
	}
}

func TestSubmit(t *testing.T) {
	user := &domain.User{ID: 1, OpenID: "wx-1"}

	tests := []struct {
		name            string
		qty             int
		optionIDs       []string
		prepareMock     func(m *mocks)
		expectedReceipt *Receipt
		expectedError   error
	}{
		{
			name:      "admits order and debits balance",
			qty:       1,
			optionIDs: []string{"extra-rice"},
			prepareMock: func(m *mocks) {
				m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").Return(user, nil)
				m.meal.EXPECT().FindByID(gomock.Any(), 42).Return(publishedMeal(), nil)
				m.order.EXPECT().FindActiveByUserMeal(gomock.Any(), 1, 42).Return(nil, nil)
				m.order.EXPECT().SumActiveQty(gomock.Any(), 42).Return(10, nil)
				m.user.EXPECT().GetBalance(gomock.Any(), 1).Return(int64(2000), nil)
				m.order.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, order *domain.Order) error {
						assert.Equal(t, int64(1500), order.AmountCents)
						order.ID = 101
						return nil
					})
				m.ledger.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, entry *domain.LedgerEntry) (int64, error) {
						assert.Equal(t, domain.LedgerDebit, entry.Type)
						assert.Equal(t, int64(-1500), entry.AmountCents)
						assert.Equal(t, 101, entry.RefID)
						return 500, nil
					})
				m.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
				m.pub.EXPECT().Publish(gomock.Any(), gomock.Any(), "101", gomock.Any())
			},
			expectedReceipt: &Receipt{OrderID: 101, AmountCents: 1500, BalanceCents: 500},
		},
		{
			name:      "allows overdraft",
			qty:       1,
			optionIDs: nil,
			prepareMock: func(m *mocks) {
				m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").Return(user, nil)
				m.meal.EXPECT().FindByID(gomock.Any(), 42).Return(publishedMeal(), nil)
				m.order.EXPECT().FindActiveByUserMeal(gomock.Any(), 1, 42).Return(nil, nil)
				m.order.EXPECT().SumActiveQty(gomock.Any(), 42).Return(0, nil)
				m.user.EXPECT().GetBalance(gomock.Any(), 1).Return(int64(100), nil)
				m.order.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, order *domain.Order) error {
						order.ID = 102
						return nil
					})
				m.ledger.EXPECT().Append(gomock.Any(), gomock.Any()).Return(int64(-1200), nil)
				m.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
				m.pub.EXPECT().Publish(gomock.Any(), gomock.Any(), "102", gomock.Any())
			},
			expectedReceipt: &Receipt{OrderID: 102, AmountCents: 1300, BalanceCents: -1200},
		},
		{
			name: "rejects duplicate active order",
			qty:  1,
			prepareMock: func(m *mocks) {
				m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").Return(user, nil)
				m.meal.EXPECT().FindByID(gomock.Any(), 42).Return(publishedMeal(), nil)
				m.order.EXPECT().FindActiveByUserMeal(gomock.Any(), 1, 42).Return(&domain.Order{ID: 90}, nil)
			},
			expectedError: ErrDuplicateOrder,
		},
		{
			name: "rejects unknown meal",
			qty:  1,
			prepareMock: func(m *mocks) {
				m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").Return(user, nil)
				m.meal.EXPECT().FindByID(gomock.Any(), 42).Return(nil, nil)
			},
			expectedError: ErrMealNotFound,
		},
		{
			name: "rejects locked meal",
			qty:  1,
			prepareMock: func(m *mocks) {
				locked := publishedMeal()
				locked.Status = domain.MealLocked
				m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").Return(user, nil)
				m.meal.EXPECT().FindByID(gomock.Any(), 42).Return(locked, nil)
			},
			expectedError: ErrMealNotAvailable,
		},
		{
			name: "rejects order past capacity",
			qty:  2,
			prepareMock: func(m *mocks) {
				m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").Return(user, nil)
				m.meal.EXPECT().FindByID(gomock.Any(), 42).Return(publishedMeal(), nil)
				m.order.EXPECT().FindActiveByUserMeal(gomock.Any(), 1, 42).Return(nil, nil)
				m.order.EXPECT().SumActiveQty(gomock.Any(), 42).Return(29, nil)
			},
			expectedError: ErrCapacityExceeded,
		},
		{
			name: "rejects qty above per user limit",
			qty:  3,
			prepareMock: func(m *mocks) {
				m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").Return(user, nil)
				m.meal.EXPECT().FindByID(gomock.Any(), 42).Return(publishedMeal(), nil)
				m.order.EXPECT().FindActiveByUserMeal(gomock.Any(), 1, 42).Return(nil, nil)
			},
			expectedError: ErrInvalidQuantity,
		},
		{
			name:      "rejects unknown option",
			qty:       1,
			optionIDs: []string{"truffle"},
			prepareMock: func(m *mocks) {
				m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").Return(user, nil)
				m.meal.EXPECT().FindByID(gomock.Any(), 42).Return(publishedMeal(), nil)
				m.order.EXPECT().FindActiveByUserMeal(gomock.Any(), 1, 42).Return(nil, nil)
			},
			expectedError: ErrUnknownOption,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			receipt, err := service.Submit(context.Background(), "wx-1", 42, tt.qty, tt.optionIDs)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, receipt)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedReceipt, receipt)
		})
	}
}

func TestModify(t *testing.T) {
	user := &domain.User{ID: 1, OpenID: "wx-1"}
	activeOrder := func() *domain.Order {
		return &domain.Order{ID: 101, UserID: 1, MealID: 42, Qty: 1, AmountCents: 1300, Status: domain.OrderActive}
	}

	t.Run("replaces order atomically", func(t *testing.T) {
		service, m := NewMock(t)
		m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").Return(user, nil)
		m.order.EXPECT().FindByID(gomock.Any(), 101).Return(activeOrder(), nil)
		m.meal.EXPECT().FindByID(gomock.Any(), 42).Return(publishedMeal(), nil)
		m.order.EXPECT().MarkCanceled(gomock.Any(), 101).Return(nil)
		refund := m.ledger.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, entry *domain.LedgerEntry) (int64, error) {
				assert.Equal(t, domain.LedgerRefund, entry.Type)
				assert.Equal(t, int64(1300), entry.AmountCents)
				return 1300, nil
			})
		m.order.EXPECT().SumActiveQty(gomock.Any(), 42).Return(5, nil)
		m.user.EXPECT().GetBalance(gomock.Any(), 1).Return(int64(1300), nil)
		m.order.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, order *domain.Order) error {
				order.ID = 110
				return nil
			})
		m.ledger.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, entry *domain.LedgerEntry) (int64, error) {
				assert.Equal(t, domain.LedgerDebit, entry.Type)
				assert.Equal(t, int64(-3000), entry.AmountCents)
				return -1700, nil
			}).After(refund)
		m.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		receipt, err := service.Modify(context.Background(), "wx-1", 101, 2, []string{"extra-rice", "extra-rice"})
		assert.NoError(t, err)
		assert.Equal(t, &Receipt{OrderID: 110, AmountCents: 3000, BalanceCents: -1700}, receipt)
	})

	t.Run("keeps original order when meal is locked", func(t *testing.T) {
		service, m := NewMock(t)
		locked := publishedMeal()
		locked.Status = domain.MealLocked
		m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").Return(user, nil)
		m.order.EXPECT().FindByID(gomock.Any(), 101).Return(activeOrder(), nil)
		m.meal.EXPECT().FindByID(gomock.Any(), 42).Return(locked, nil)

		receipt, err := service.Modify(context.Background(), "wx-1", 101, 2, nil)
		assert.ErrorIs(t, err, ErrMealNotAvailable)
		assert.Nil(t, receipt)
	})

	t.Run("rejects foreign order", func(t *testing.T) {
		service, m := NewMock(t)
		other := activeOrder()
		other.UserID = 2
		m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").Return(user, nil)
		m.order.EXPECT().FindByID(gomock.Any(), 101).Return(other, nil)

		_, err := service.Modify(context.Background(), "wx-1", 101, 2, nil)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestCancel(t *testing.T) {
	user := &domain.User{ID: 1, OpenID: "wx-1"}

	t.Run("refunds full amount", func(t *testing.T) {
		service, m := NewMock(t)
		order := &domain.Order{ID: 101, UserID: 1, MealID: 42, AmountCents: 1500, Status: domain.OrderActive}
		m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").Return(user, nil)
		m.order.EXPECT().FindByID(gomock.Any(), 101).Return(order, nil)
		m.meal.EXPECT().FindByID(gomock.Any(), 42).Return(publishedMeal(), nil)
		m.user.EXPECT().GetBalance(gomock.Any(), 1).Return(int64(500), nil)
		m.order.EXPECT().MarkCanceled(gomock.Any(), 101).Return(nil)
		m.ledger.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, entry *domain.LedgerEntry) (int64, error) {
				assert.Equal(t, domain.LedgerRefund, entry.Type)
				assert.Equal(t, int64(1500), entry.AmountCents)
				return 2000, nil
			})
		m.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
		m.pub.EXPECT().Publish(gomock.Any(), gomock.Any(), "101", gomock.Any())

		receipt, err := service.Cancel(context.Background(), "wx-1", 101)
		assert.NoError(t, err)
		assert.Equal(t, &Receipt{OrderID: 101, AmountCents: 1500, BalanceCents: 2000}, receipt)
	})

	t.Run("second cancel changes nothing", func(t *testing.T) {
		service, m := NewMock(t)
		canceled := &domain.Order{ID: 101, UserID: 1, MealID: 42, Status: domain.OrderCanceled}
		m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").Return(user, nil)
		m.order.EXPECT().FindByID(gomock.Any(), 101).Return(canceled, nil)

		_, err := service.Cancel(context.Background(), "wx-1", 101)
		assert.ErrorIs(t, err, ErrOrderNotActive)
	})

	t.Run("unknown order", func(t *testing.T) {
		service, m := NewMock(t)
		m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").Return(user, nil)
		m.order.EXPECT().FindByID(gomock.Any(), 101).Return(nil, nil)

		_, err := service.Cancel(context.Background(), "wx-1", 101)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestComputeAmount(t *testing.T) {
	meal := publishedMeal()

	tests := []struct {
		name           string
		qty            int
		optionIDs      []string
		expectedAmount int64
		expectedError  error
	}{
		{name: "base price only", qty: 2, expectedAmount: 2600},
		{name: "options added once, not per qty", qty: 2, optionIDs: []string{"extra-rice"}, expectedAmount: 2800},
		{name: "repeated option counted twice", qty: 1, optionIDs: []string{"extra-rice", "extra-rice"}, expectedAmount: 1700},
		{name: "zero-priced option", qty: 1, optionIDs: []string{"no-cilantro"}, expectedAmount: 1300},
		{name: "unknown option", qty: 1, optionIDs: []string{"truffle"}, expectedError: ErrUnknownOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, _, err := ComputeAmount(meal, tt.qty, tt.optionIDs)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedAmount, amount)
		})
	}
}

func TestListForUser(t *testing.T) {
	service, m := NewMock(t)
	user := &domain.User{ID: 1, OpenID: "wx-1"}
	m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").Return(user, nil)
	m.order.EXPECT().ListByUser(gomock.Any(), 1).Return([]domain.Order{{ID: 101}, {ID: 90}}, nil)

	orders, err := service.ListForUser(context.Background(), "wx-1")
	assert.NoError(t, err)
	assert.Len(t, orders, 2)

	m.user.EXPECT().GetOrCreate(gomock.Any(), "wx-1").Return(nil, errors.New("some error"))
	_, err = service.ListForUser(context.Background(), "wx-1")
	assert.Error(t, err)
}
