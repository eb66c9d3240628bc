package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/punchamoorthee/ledgerview/internal/api"
	"github.com/punchamoorthee/ledgerview/internal/config"
	"github.com/punchamoorthee/ledgerview/internal/domain"
	"github.com/punchamoorthee/ledgerview/internal/logging"
	"github.com/punchamoorthee/ledgerview/internal/service"
	"github.com/punchamoorthee/ledgerview/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logging.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed, err := loadSeed(ctx, cfg.Database, log)
	if err != nil {
		log.Error("load seed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if orphans := seed.Orphans(); len(orphans) > 0 {
		log.Warn("seed has transactions without an account", slog.Int("count", len(orphans)))
	}

	// Initialize Layers
	accounts := store.NewRepository(log, seed.Accounts)
	txs := store.NewRepository(log, seed.Transactions)
	ledger := service.NewLedgerService(log, accounts, txs,
		store.NewSequence(store.NextID(seed.Accounts)),
		store.NewSequence(store.NextID(seed.Transactions)),
		store.NewLocker(),
	)
	handler := api.NewHandler(log,
		service.NewAccountService(log, accounts, txs, ledger),
		service.NewTransactionService(log, accounts, txs),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler, log, cfg.Auth.Permissions()),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.Int("accounts", accounts.Len()),
			slog.Int("transactions", txs.Len()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

func loadSeed(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (store.Seed, error) {
	if !cfg.SeedFromDB {
		log.Info("seeding from fixtures", slog.Int64("public_user_id", domain.PublicUserID))
		return store.FixtureSeed(), nil
	}

	src, err := store.NewPostgresSource(ctx, cfg.DSN)
	if err != nil {
		return store.Seed{}, err
	}
	defer src.Close()

	log.Info("seeding from database")
	return src.LoadSeed(ctx)
}
