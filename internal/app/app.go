package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	config *config.Config
	logger *logrus.Logger
	router *http.ServeMux
	store  *session.Store
	jwt    *config.JWT
	ws     *config.WebSocket
}

func New(cfg *config.Config, logger *logrus.Logger) (*App, error) {
	jwt, err := config.NewJWT(cfg.JWT)
	if err != nil {
		return nil, err
	}

	app := &App{
		config: cfg,
		logger: logger,
		router: http.NewServeMux(),
		store:  session.NewStore(cfg.Game.IdleTimeout, logger),
		jwt:    jwt,
		ws:     config.NewWebSocket(),
	}
	app.loadRoutes()

	return app, nil
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Auth(a.logger, a.jwt),
		middleware.Cors(),
		middleware.Logging(a.logger),
	)
}

// Start serves until ctx is cancelled, then shuts the server down
// gracefully.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    a.config.Addr,
		Handler: a.Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Infof("ready to serve @ %s", a.config.Addr)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sCtx)
	})
	g.Go(func() error {
		return a.store.Run(gCtx, a.config.Game.SweepPeriod)
	})

	return g.Wait()
}
