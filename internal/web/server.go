package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gduverger/instapack/internal/batch"
	"github.com/gduverger/instapack/internal/config"
	"github.com/gduverger/instapack/internal/credentials"
	"github.com/gduverger/instapack/internal/packager"
	"github.com/gduverger/instapack/internal/repositories/history"
	"github.com/gduverger/instapack/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In
	LC fx.Lifecycle

	Retriever   *batch.Retriever
	Packager    *packager.Packager
	Credentials *credentials.Chain
	HistoryRepo history.Repository
	Logger      logger.Logger
	Config      *config.Config
}

// Server is the web front-end: a single form posting a list of links and
// getting back one ZIP.
type Server struct {
	Retriever   *batch.Retriever
	Packager    *packager.Packager
	Credentials *credentials.Chain
	HistoryRepo history.Repository
	Logger      logger.Logger
	Config      *config.Config

	srv *http.Server
}

func New(opts Opts) *Server {
	if opts.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		Retriever:   opts.Retriever,
		Packager:    opts.Packager,
		Credentials: opts.Credentials,
		HistoryRepo: opts.HistoryRepo,
		Logger:      opts.Logger.WithComponent("Web"),
		Config:      opts.Config,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	s.registerRoutes(engine)

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Config.App.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Logger.Info("Starting web server", "addr", s.srv.Addr)
			go func() {
				if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.Logger.Error("Web server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.srv.Shutdown(ctx)
		},
	})

	return s
}
