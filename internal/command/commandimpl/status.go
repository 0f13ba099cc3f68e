package commandimpl

import (
	"context"
	"fmt"
	"strings"

	"github.com/gduverger/instapack/internal/credentials"
	"github.com/gduverger/instapack/internal/domain"
	"github.com/gduverger/instapack/pkg/formatter"
)

func (c *CommandImpl) handleStatus(ctx context.Context, chatID int64) {
	counts, err := c.HistoryRepo.CountByStatus(ctx, chatID)
	if err != nil {
		c.Logger.Warn("Failed to load history counters", "chat_id", chatID, "error", err)
		counts = map[string]int64{}
	}

	connection := "anonyme"
	if c.Credentials.Scope() != credentials.AnonymousScope {
		connection = "OK"
	}

	ua := c.Config.Instagram.UserAgent
	if len(ua) > 60 {
		ua = ua[:60] + "..."
	}

	var sb strings.Builder
	sb.WriteString("Statut bot\n")
	sb.WriteString(fmt.Sprintf("• Connexion IG: %s\n", connection))
	sb.WriteString(fmt.Sprintf("• UA: %s\n", ua))
	sb.WriteString(fmt.Sprintf("• Throttle: %.1fs (+%.1fs jitter)\n", c.Config.Downloader.ThrottleSeconds, c.Config.Downloader.JitterSeconds))
	sb.WriteString(fmt.Sprintf("• Limite ZIP: %s\n", formatter.FormatBytes(c.Config.Telegram.ZipLimitBytes)))
	sb.WriteString(fmt.Sprintf("• Posts récupérés: %d\n", counts[domain.RetrievalStatusOK]))
	sb.WriteString(fmt.Sprintf("• Échecs: %d", counts[domain.RetrievalStatusFailed]))

	c.Telegram.SendMessage(chatID, sb.String())
}
