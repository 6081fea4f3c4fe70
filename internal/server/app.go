// Package server initializes and runs the main application server. It loads
// configuration, opens the database and applies migrations, wires services,
// and starts the HTTP server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rmaksimov/videotube/internal/logging"
	"github.com/rmaksimov/videotube/internal/server/auth"
	"github.com/rmaksimov/videotube/internal/server/config"
	"github.com/rmaksimov/videotube/internal/server/httpapi"
	"github.com/rmaksimov/videotube/internal/server/repositories/repomanager"
	"github.com/rmaksimov/videotube/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	codec := auth.NewCodec(
		[]byte(c.AccessTokenSecret), c.AccessTokenValidityDuration,
		[]byte(c.RefreshTokenSecret), c.RefreshTokenValidityDuration,
	)

	sessions := services.NewSessionService(db, rm, codec)
	users := services.NewUserService(db, rm)
	media := services.NewMediaService(c)

	srv := httpapi.NewServer(c.EndpointAddr, logger, codec, sessions, users, media)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
