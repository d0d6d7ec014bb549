package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/accountvault/internal/adapter/driven/registry"
	"github.com/ericfisherdev/accountvault/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/accountvault/internal/application"
	"github.com/ericfisherdev/accountvault/internal/config"
	"github.com/ericfisherdev/accountvault/internal/domain/model"
	"github.com/ericfisherdev/accountvault/internal/domain/port/driven"
)

// commandTimeout bounds a single CLI invocation's store calls.
const commandTimeout = 30 * time.Second

// session holds the services one command needs.
type session struct {
	accounts     *application.AccountService
	accountTypes driven.AccountTypeStore
	namespaces   driven.NamespaceStore
	close        func() error
}

// openSession builds a session from the environment. Tests replace it.
var openSession = func(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := sqlite.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	if err := sqlite.RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	reg, err := registry.New(cfg, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	// Log only warnings and above to keep command output clean.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var opts []application.AccountServiceOption
	if cfg.SerializeSecretWrites {
		opts = append(opts, application.WithSecretLocking())
	}

	return &session{
		accounts:     application.NewAccountService(sqlite.NewAccountRepo(db), reg.AccountStorage(), logger, opts...),
		accountTypes: sqlite.NewAccountTypeRepo(db),
		namespaces:   sqlite.NewNamespaceRepo(db),
		close:        db.Close,
	}, nil
}

// withSession opens a session scoped to the --org flag, runs fn and closes
// the session.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()
	ctx = model.WithOrg(ctx, orgID)

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.close() }()

	return fn(ctx, s)
}
