package commandimpl

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gduverger/instapack/internal/batch"
	"github.com/gduverger/instapack/internal/command"
	"github.com/gduverger/instapack/internal/config"
	"github.com/gduverger/instapack/internal/credentials"
	"github.com/gduverger/instapack/internal/packager"
	"github.com/gduverger/instapack/internal/ratelimit"
	"github.com/gduverger/instapack/internal/repositories/history"
	"github.com/gduverger/instapack/internal/telegram"
	"github.com/gduverger/instapack/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Telegram    telegram.Client
	Retriever   *batch.Retriever
	Packager    *packager.Packager
	Credentials *credentials.Chain
	HistoryRepo history.Repository
	Limiter     ratelimit.Limiter
	Logger      logger.Logger
	Config      *config.Config
}

type CommandImpl struct {
	Telegram    telegram.Client
	Retriever   *batch.Retriever
	Packager    *packager.Packager
	Credentials *credentials.Chain
	HistoryRepo history.Repository
	Limiter     ratelimit.Limiter
	Logger      logger.Logger
	Config      *config.Config
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		Telegram:    opts.Telegram,
		Retriever:   opts.Retriever,
		Packager:    opts.Packager,
		Credentials: opts.Credentials,
		HistoryRepo: opts.HistoryRepo,
		Limiter:     opts.Limiter,
		Logger:      opts.Logger.WithComponent("Command"),
		Config:      opts.Config,
	}
}

var _ command.Client = (*CommandImpl)(nil)

func (c *CommandImpl) HandleUpdates(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := c.Telegram.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			c.Telegram.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			c.handleMessage(ctx, update)
		}
	}
}

func (c *CommandImpl) handleMessage(ctx context.Context, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start", "help":
			c.handleHelp(chatID)
		case "status":
			c.handleStatus(ctx, chatID)
		default:
			c.Telegram.SendMessage(chatID, "Commande inconnue. Utilise /help.")
		}
		return
	}

	c.handleBatch(ctx, chatID, update.Message.Text)
}
