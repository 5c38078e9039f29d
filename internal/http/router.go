package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/kitty/internal/http/auth"
	"github.com/MrJamesThe3rd/kitty/internal/http/budget"
	"github.com/MrJamesThe3rd/kitty/internal/http/category"
	"github.com/MrJamesThe3rd/kitty/internal/http/ledger"
	"github.com/MrJamesThe3rd/kitty/internal/http/member"
	"github.com/MrJamesThe3rd/kitty/internal/http/transaction"
	"github.com/MrJamesThe3rd/kitty/internal/membership"
)

type Config struct {
	JWTSecret      []byte
	AllowedOrigins []string
	// Roles backs the per-ledger role checks.
	Roles auth.RoleSource
}

func New(
	cfg Config,
	ledgersV1 *ledger.Handler,
	categoriesV1 *category.Handler,
	budgetsV1 *budget.Handler,
	membersV1 *member.Handler,
	transactionsV1 *transaction.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Use(auth.Middleware(cfg.JWTSecret))

		r.Route("/categories", categoriesV1.Routes)

		r.Route("/ledgers", func(r chi.Router) {
			ledgersV1.Routes(r)

			r.Route("/{ledgerID}", func(r chi.Router) {
				r.Use(auth.RequireRole(cfg.Roles, membership.RoleViewer))

				ledgersV1.LedgerRoutes(r)
				r.Route("/categories", categoriesV1.LedgerRoutes)
				r.Route("/budgets", budgetsV1.Routes)
				r.Route("/members", membersV1.Routes)
				r.Route("/transactions", transactionsV1.Routes)
			})
		})
	})

	return router
}
