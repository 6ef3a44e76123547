package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/hexmines/internal/config"
	"github.com/vancomm/hexmines/internal/database"
	"github.com/vancomm/hexmines/internal/handlers"
	"github.com/vancomm/hexmines/internal/middleware"
	"github.com/vancomm/hexmines/internal/repository"
	"github.com/vancomm/hexmines/internal/sessions"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	log        *logrus.Logger
	router     *http.ServeMux
	db         *pgxpool.Pool
	sessions   *sessions.Registry
	migrations fs.FS

	// inserts of ended games still running
	pending sync.WaitGroup
}

func New(log *logrus.Logger, migrations fs.FS) *App {
	router := http.NewServeMux()

	app := &App{
		log:        log,
		router:     router,
		migrations: migrations,
	}

	return app
}

// reapInterval is how often idle sessions are looked for.
func reapInterval(ttl time.Duration) time.Duration {
	return min(max(ttl/4, time.Second), time.Minute)
}

func (a *App) connect(ctx context.Context) (*repository.Queries, error) {
	db, migrator, err := database.ConnectAndMigrate(ctx, a.migrations)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to db: %w", err)
	}
	if version, dirty, err := migrator.Version(); err == nil {
		a.log.WithFields(logrus.Fields{
			"version": version,
			"dirty":   dirty,
		}).Info("database migrated")
	}
	migrator.Close()

	a.db = db
	return repository.New(db), nil
}

func (a *App) Start(ctx context.Context) error {
	defaults, err := config.NewGame()
	if err != nil {
		return err
	}
	ttl, err := config.SessionTTL()
	if err != nil {
		return err
	}
	ws, err := config.NewWebSocket()
	if err != nil {
		return err
	}

	var records handlers.RecordStore
	opts := []sessions.Option{sessions.WithLogger(a.log)}
	if config.HasDatabase() {
		repo, err := a.connect(ctx)
		if err != nil {
			return err
		}
		defer a.db.Close()
		records = repo
		opts = append(opts, sessions.WithOnEnd(a.recordEnded(repo)))
	} else {
		a.log.Warn("no database configured, records are disabled")
	}
	a.sessions = sessions.NewRegistry(opts...)

	a.loadRoutes(*defaults, ws, records)

	var handler http.Handler = middleware.Wrap(
		a.router,
		middleware.Logging(a.log),
		middleware.Cors(config.CorsOrigins()),
	)
	if base := config.BasePath(); base != "" {
		handler = http.StripPrefix(base, handler)
	}
	server := &http.Server{
		Addr:    config.Addr(),
		Handler: handler,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.WithField("addr", server.Addr).Info("server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(ctx)
	})
	g.Go(func() error {
		return a.sessions.Run(gCtx, ttl, reapInterval(ttl))
	})

	err = g.Wait()
	a.pending.Wait()
	a.log.Info("server stopped")
	return err
}
