package app

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"

	"github.com/gduverger/instapack/internal/batch"
	"github.com/gduverger/instapack/internal/command"
	"github.com/gduverger/instapack/internal/command/commandimpl"
	"github.com/gduverger/instapack/internal/config"
	"github.com/gduverger/instapack/internal/credentials"
	"github.com/gduverger/instapack/internal/instagram"
	"github.com/gduverger/instapack/internal/instagram/instagramimpl"
	"github.com/gduverger/instapack/internal/janitor"
	_ "github.com/gduverger/instapack/internal/migrations"
	"github.com/gduverger/instapack/internal/packager"
	"github.com/gduverger/instapack/internal/pgx"
	"github.com/gduverger/instapack/internal/ratelimit"
	"github.com/gduverger/instapack/internal/repositories/history"
	"github.com/gduverger/instapack/internal/resolver"
	"github.com/gduverger/instapack/internal/resolver/resolverimpl"
	"github.com/gduverger/instapack/internal/telegram"
	"github.com/gduverger/instapack/internal/telegram/telegramimpl"
	"github.com/gduverger/instapack/internal/web"
	"github.com/gduverger/instapack/pkg/logger"
)

// Common wires everything both entrypoints share: config, logging, the
// persistence layer and the retrieval pipeline.
var Common = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
	),
	credentials.Module,
	history.Module,
	fx.Provide(
		fx.Annotate(
			instagramimpl.New,
			fx.As(new(instagram.Client)),
		),
		fx.Annotate(
			resolverimpl.New,
			fx.As(new(resolver.Client)),
		),
		batch.New,
		packager.New,
		janitor.New,
	),
	fx.Invoke(migrate),
	fx.Invoke(scheduleJanitor),
)

// Bot adds the Telegram front-end on top of Common.
var Bot = fx.Options(
	Common,
	fx.Provide(
		fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
		),
		fx.Annotate(
			commandimpl.New,
			fx.As(new(command.Client)),
		),
		func() ratelimit.Limiter {
			return ratelimit.NewInMemoryLimiter(1, 10*time.Second, 3)
		},
	),
	fx.Invoke(runBot),
)

// Web adds the HTTP front-end on top of Common.
var Web = fx.Options(
	Common,
	fx.Provide(web.New),
	fx.Invoke(func(*web.Server) {}),
)

func migrate(cfg *config.Config, log logger.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	// Migrations are registered in code, goose only needs a dialect and a
	// database handle.
	if err := goose.Up(db, "."); err != nil {
		return err
	}
	log.Info("Database migrations applied")
	return nil
}

func scheduleJanitor(lc fx.Lifecycle, j *janitor.Janitor, log logger.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := j.Schedule(ctx); err != nil {
				log.Error("Failed to schedule history cleanup", "error", err)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func runBot(lc fx.Lifecycle, log logger.Logger, cmdClient command.Client) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := cmdClient.HandleUpdates(ctx); err != nil {
					log.Error("Update loop stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
