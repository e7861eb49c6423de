package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	adminhandlers "github.com/mealvault/mealvault/internal/handlers/admin"
	balancehandlers "github.com/mealvault/mealvault/internal/handlers/balance"
	mealhandlers "github.com/mealvault/mealvault/internal/handlers/meals"
	ordershandlers "github.com/mealvault/mealvault/internal/handlers/orders"
	"github.com/mealvault/mealvault/internal/service"
	"github.com/mealvault/mealvault/pkg/auth"
)

type OrderHandler interface {
	SubmitOrder(w http.ResponseWriter, r *http.Request)
	ModifyOrder(w http.ResponseWriter, r *http.Request)
	CancelOrder(w http.ResponseWriter, r *http.Request)
	GetOrders(w http.ResponseWriter, r *http.Request)
}

type MealHandler interface {
	ListMeals(w http.ResponseWriter, r *http.Request)
	GetMeal(w http.ResponseWriter, r *http.Request)
	CreateMeal(w http.ResponseWriter, r *http.Request)
	UpdateMeal(w http.ResponseWriter, r *http.Request)
	Transition(w http.ResponseWriter, r *http.Request)
}

type BalanceHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
	Recharge(w http.ResponseWriter, r *http.Request)
	Adjust(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	ConsistencyCheck(w http.ResponseWriter, r *http.Request)
	FixBalance(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	OrderHandler   OrderHandler
	MealHandler    MealHandler
	BalanceHandler BalanceHandler
	AdminHandler   AdminHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		OrderHandler:   ordershandlers.New(s.OrderService),
		MealHandler:    mealhandlers.New(s.MealService),
		BalanceHandler: balancehandlers.New(s.BalanceService),
		AdminHandler:   adminhandlers.New(s.ConsistencyService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Route("/meals", func(r chi.Router) {
				r.Get("/", h.MealHandler.ListMeals)
				r.Get("/{mealID}", h.MealHandler.GetMeal)
			})
			r.Route("/orders", func(r chi.Router) {
				r.Post("/", h.OrderHandler.SubmitOrder)
				r.Get("/", h.OrderHandler.GetOrders)
				r.Patch("/{orderID}", h.OrderHandler.ModifyOrder)
				r.Delete("/{orderID}", h.OrderHandler.CancelOrder)
			})
			r.Put("/users/me", h.BalanceHandler.UpdateProfile)
			r.Route("/balance", func(r chi.Router) {
				r.Get("/", h.BalanceHandler.GetBalance)
				r.Get("/transactions", h.BalanceHandler.GetTransactions)
			})
			r.Route("/admin", func(r chi.Router) {
				r.Route("/meals", func(r chi.Router) {
					r.Post("/", h.MealHandler.CreateMeal)
					r.Put("/{mealID}", h.MealHandler.UpdateMeal)
					r.Post("/{mealID}/{action}", h.MealHandler.Transition)
				})
				r.Route("/users/{openID}", func(r chi.Router) {
					r.Post("/recharge", h.BalanceHandler.Recharge)
					r.Post("/adjust", h.BalanceHandler.Adjust)
				})
				r.Route("/consistency", func(r chi.Router) {
					r.Post("/check", h.AdminHandler.ConsistencyCheck)
					r.Post("/users/{openID}/fix-balance", h.AdminHandler.FixBalance)
				})
			})
		})
	})

	return r
}
