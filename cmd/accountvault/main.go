package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/accountvault/internal/adapter/driven/registry"
	sqliteadapter "github.com/ericfisherdev/accountvault/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/accountvault/internal/adapter/driving/http"
	"github.com/ericfisherdev/accountvault/internal/application"
	"github.com/ericfisherdev/accountvault/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on bad env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"secret_backend", cfg.SecretBackend,
		"serialize_secret_writes", cfg.SerializeSecretWrites,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	version, err := sqliteadapter.SchemaVersion(db.Writer)
	if err != nil {
		return err
	}
	slog.Info("migrations complete", "schema_version", version)

	// 5. Resolve the secret backend. A misconfigured backend is fatal.
	reg, err := registry.New(cfg, db)
	if err != nil {
		return err
	}
	slog.Info("secret backend ready", "type", reg.Type())

	// 6. Wire adapters and services.
	accountStore := sqliteadapter.NewAccountRepo(db)
	accountTypeStore := sqliteadapter.NewAccountTypeRepo(db)
	namespaceStore := sqliteadapter.NewNamespaceRepo(db)

	var opts []application.AccountServiceOption
	if cfg.SerializeSecretWrites {
		opts = append(opts, application.WithSecretLocking())
	}
	accountSvc := application.NewAccountService(accountStore, reg.AccountStorage(), slog.Default(), opts...)
	healthSvc := application.NewHealthService(db, reg.AccountStorage())

	// 7. Create HTTP handler with middleware applied.
	apiHandler := httphandler.NewHandler(accountSvc, accountTypeStore, namespaceStore, healthSvc, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 9. Graceful shutdown with 10s drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
