package service

import (
	"github.com/mealvault/mealvault/internal/events"
	"github.com/mealvault/mealvault/internal/handlers/admin"
	"github.com/mealvault/mealvault/internal/handlers/balance"
	"github.com/mealvault/mealvault/internal/handlers/meals"
	"github.com/mealvault/mealvault/internal/handlers/orders"
	"github.com/mealvault/mealvault/internal/pg"
	"github.com/mealvault/mealvault/internal/repo"
	balanceservice "github.com/mealvault/mealvault/internal/service/balanceservice"
	consistencyservice "github.com/mealvault/mealvault/internal/service/consistencyservice"
	mealservice "github.com/mealvault/mealvault/internal/service/mealservice"
	orderservice "github.com/mealvault/mealvault/internal/service/orderservice"
)

type Services struct {
	OrderService       orders.Service
	MealService        meals.Service
	BalanceService     balance.Service
	ConsistencyService admin.Service
}

func New(repo *repo.Repositories, txManager pg.TXManager, publisher events.Publisher) *Services {
	orderService := orderservice.New(repo.UserRepo, repo.MealRepo, repo.OrderRepo,
		repo.LedgerRepo, repo.AuditRepo, txManager, publisher)
	mealService := mealservice.New(repo.UserRepo, repo.MealRepo, repo.OrderRepo,
		repo.LedgerRepo, repo.AuditRepo, txManager, publisher)
	balanceService := balanceservice.New(repo.UserRepo, repo.LedgerRepo, repo.AuditRepo, txManager)
	consistencyService := consistencyservice.New(repo.UserRepo, repo.LedgerRepo, repo.AuditRepo, txManager)

	return &Services{
		OrderService:       orderService,
		MealService:        mealService,
		BalanceService:     balanceService,
		ConsistencyService: consistencyService,
	}
}
