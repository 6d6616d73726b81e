// Package server wires configuration, storage, services and transports into a
// runnable TaskKeeper process and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/rest"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/taskkeeper/internal/server/grpc"
)

// runner is a transport that serves until its context is cancelled.
type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	servers []runner
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(c.LogLevel)

	dialect, err := dbx.ParseDialect(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := dbx.Open(ctx, dialect, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, dialect, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, dialect dbx.Dialect, db *sql.DB) (*App, error) {

	rm := repomanager.NewSQLRepositoryManager(dialect, logger)
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	hasher, err := auth.NewPasswordHasher(c.PasswordCost)
	if err != nil {
		return nil, err
	}

	secret := c.SecretKey
	if secret == "" {
		secret, err = common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("secret generation error: %w", err)
		}
		logger.Warn(ctx, "no signing secret configured, using a random one; tokens will not survive a restart")
	}

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret:           secret,
		KeyID:            c.KeyID,
		VerificationKeys: c.VerificationKeys,
		Validity:         c.AccessTokenValidityDuration,
		Leeway:           c.TokenLeeway,
	})
	if err != nil {
		return nil, err
	}

	var exporter services.Exporter
	if c.ExportEnabled() {
		exporter = services.NewS3Exporter(c)
		logger.Info(ctx, "task export enabled", "bucket", c.S3Bucket)
	}

	us := services.NewUserService(db, rm, hasher, tokens, logger)
	ts := services.NewTaskService(db, rm, exporter, logger)

	servers := []runner{
		rest.NewServer(c.EndpointAddrHTTP, logger, rest.NewHandler(us, ts, tokens, db)),
	}
	if c.EndpointAddrGRPC != "" {
		servers = append(servers, gs.NewGRPCServer(c.EndpointAddrGRPC, logger, db))
	}

	return &App{config: c, logger: logger, db: db, servers: servers}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves every transport until a signal arrives, ctx is cancelled or one
// of them fails, then closes the store.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range app.servers {
		g.Go(func() error {
			return s.Run(gctx)
		})
	}

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server error", "error", err)
	}

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close error", "error", cerr)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
