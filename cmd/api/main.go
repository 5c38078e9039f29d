package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/kitty/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/kitty/internal/budget/store"
	"github.com/MrJamesThe3rd/kitty/internal/category"
	categoryStore "github.com/MrJamesThe3rd/kitty/internal/category/store"
	"github.com/MrJamesThe3rd/kitty/internal/config"
	"github.com/MrJamesThe3rd/kitty/internal/database"
	kittyHttp "github.com/MrJamesThe3rd/kitty/internal/http"
	budgetHandler "github.com/MrJamesThe3rd/kitty/internal/http/budget"
	categoryHandler "github.com/MrJamesThe3rd/kitty/internal/http/category"
	ledgerHandler "github.com/MrJamesThe3rd/kitty/internal/http/ledger"
	memberHandler "github.com/MrJamesThe3rd/kitty/internal/http/member"
	txHandler "github.com/MrJamesThe3rd/kitty/internal/http/transaction"
	"github.com/MrJamesThe3rd/kitty/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/kitty/internal/ledger/store"
	"github.com/MrJamesThe3rd/kitty/internal/membership"
	membershipStore "github.com/MrJamesThe3rd/kitty/internal/membership/store"
	"github.com/MrJamesThe3rd/kitty/internal/period"
	"github.com/MrJamesThe3rd/kitty/internal/transaction"
	txStore "github.com/MrJamesThe3rd/kitty/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := database.New(ctx, cfg.ConnectionString(), database.Options{MaxOpenConns: cfg.DB.MaxOpenConns})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db, cfg.DB.Name); err != nil {
			return err
		}
	}

	periods := period.NewResolver(period.WithLocation(loc))

	var (
		ledgerService      = ledger.NewService(ledgerStore.New(db))
		categoryService    = category.NewService(categoryStore.New(db))
		membershipService  = membership.NewService(membershipStore.New(db))
		budgetService      = budget.NewService(budgetStore.New(db), periods)
		transactionService = transaction.NewService(txStore.New(db), budgetService, periods)
	)

	router := kittyHttp.New(
		kittyHttp.Config{
			JWTSecret:      []byte(cfg.Auth.JWTSecret),
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Roles:          membershipService,
		},
		ledgerHandler.NewHandler(ledgerService, membershipService),
		categoryHandler.NewHandler(categoryService),
		budgetHandler.NewHandler(budgetService, membershipService),
		memberHandler.NewHandler(membershipService),
		txHandler.NewHandler(transactionService, membershipService),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "timezone", loc.String())

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
