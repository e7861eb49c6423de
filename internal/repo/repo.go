package repo

import (
	"github.com/mealvault/mealvault/internal/pg"
	auditrepo "github.com/mealvault/mealvault/internal/repo/audit-repo"
	ledgerrepo "github.com/mealvault/mealvault/internal/repo/ledger-repo"
	mealrepo "github.com/mealvault/mealvault/internal/repo/meal-repo"
	orderrepo "github.com/mealvault/mealvault/internal/repo/order-repo"
	userrepo "github.com/mealvault/mealvault/internal/repo/user-repo"
)

type Repositories struct {
	UserRepo   *userrepo.Repository
	MealRepo   *mealrepo.Repository
	OrderRepo  *orderrepo.Repository
	LedgerRepo *ledgerrepo.Repository
	AuditRepo  *auditrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	userRepo := userrepo.New(conn)
	mealRepo := mealrepo.New(conn, txManager)
	orderRepo := orderrepo.New(conn, txManager)
	ledgerRepo := ledgerrepo.New(conn, txManager)
	auditRepo := auditrepo.New(conn)

	return &Repositories{
		UserRepo:   userRepo,
		MealRepo:   mealRepo,
		OrderRepo:  orderRepo,
		LedgerRepo: ledgerRepo,
		AuditRepo:  auditRepo,
	}
}
