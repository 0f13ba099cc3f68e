package commandimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/gduverger/instapack/internal/batch"
	"github.com/gduverger/instapack/internal/domain"
	"github.com/gduverger/instapack/internal/packager"
	"github.com/gduverger/instapack/internal/shortcode"
	"github.com/gduverger/instapack/pkg/formatter"
	"github.com/gduverger/instapack/pkg/sanitize"
	"github.com/google/uuid"
)

const (
	actionTyping         = "typing"
	actionUploadDocument = "upload_document"
)

// handleBatch treats a plain text message as a list of post links: resolve
// each one (rate-paced), then deliver one archive per post, falling back to
// individual files when an archive exceeds the Telegram size limit.
func (c *CommandImpl) handleBatch(ctx context.Context, chatID int64, text string) {
	if !c.Limiter.Allow(chatID) {
		c.Telegram.SendMessage(chatID, "⏳ Doucement ! Attends quelques secondes avant de renvoyer des liens.")
		return
	}

	urls := shortcode.SplitList(text)
	if len(urls) == 0 {
		c.Telegram.SendMessage(chatID, "Ajoute au moins un lien de publication Instagram.")
		return
	}

	batchID := uuid.NewString()
	c.Logger.Info("Starting batch", "batch_id", batchID, "chat_id", chatID, "urls", len(urls))

	progressID, _ := c.Telegram.SendMessage(chatID, fmt.Sprintf("🧾 %d lien(s) détecté(s). Je m'en occupe…", len(urls)))
	c.Telegram.SendChatAction(chatID, actionTyping)

	// Remember which input URL produced which shortcode so history rows can
	// reference the original link.
	urlByShortcode := make(map[string]string, len(urls))
	for _, u := range urls {
		if sc, err := shortcode.Extract(u); err == nil {
			if _, ok := urlByShortcode[sc]; !ok {
				urlByShortcode[sc] = u
			}
		}
	}

	result := c.Retriever.RetrieveAll(ctx, urls, batch.Options{
		BatchID:            batchID,
		MinDelay:           time.Duration(c.Config.Downloader.ThrottleSeconds * float64(time.Second)),
		MaxJitter:          time.Duration(c.Config.Downloader.JitterSeconds * float64(time.Second)),
		MaxAttemptsPerPost: c.Config.Downloader.MaxAttempts,
	})

	for _, failure := range result.Failures {
		c.Telegram.SendMessage(chatID, fmt.Sprintf("❌ %s\n%s", failure.URL, rewriteGuidance(failure.Reason)))
		c.recordOutcome(ctx, domain.Retrieval{
			BatchID: batchID,
			ChatID:  chatID,
			URL:     failure.URL,
			Status:  domain.RetrievalStatusFailed,
			Reason:  failure.Reason,
		})
	}

	sent := 0
	for _, bundle := range result.Bundles {
		if c.deliverBundle(ctx, chatID, bundle) {
			sent++
		}
		c.recordOutcome(ctx, domain.Retrieval{
			BatchID:    batchID,
			ChatID:     chatID,
			URL:        urlByShortcode[bundle.Shortcode],
			Shortcode:  bundle.Shortcode,
			Status:     domain.RetrievalStatusOK,
			MediaCount: len(bundle.Media),
		})
	}

	summary := fmt.Sprintf("✅ Terminé • %d post(s) envoyé(s), %d en échec.", sent, len(result.Failures))
	if progressID == 0 || c.Telegram.EditMessageText(chatID, progressID, summary) != nil {
		c.Telegram.SendMessage(chatID, summary)
	}
}

// deliverBundle packages one post and sends it, honoring the archive size
// threshold. Returns true when at least the archive or one file went out.
func (c *CommandImpl) deliverBundle(ctx context.Context, chatID int64, bundle *domain.PostBundle) bool {
	c.Telegram.SendChatAction(chatID, actionUploadDocument)

	bundles := []*domain.PostBundle{bundle}
	zipBytes, err := c.Packager.Pack(ctx, bundles)
	if err != nil {
		c.Logger.Error("Packaging failed", "shortcode", bundle.Shortcode, "error", err)
		// The cached source URLs may have expired; force a fresh resolution
		// next time this post is requested.
		c.Retriever.Resolver.Invalidate(bundle.Shortcode)
		c.Telegram.SendMessage(chatID, fmt.Sprintf("❌ Impossible de préparer l'archive pour %s.", bundle.Shortcode))
		return false
	}

	caption := fmt.Sprintf("%s • %d média(s)", bundle.Shortcode, len(bundle.Media))

	if int64(len(zipBytes)) <= c.Config.Telegram.ZipLimitBytes {
		if err := c.Telegram.SendDocument(chatID, packager.ArchiveName(bundles), zipBytes, caption); err != nil {
			c.Telegram.SendMessage(chatID, fmt.Sprintf("❌ Envoi du ZIP impossible pour %s.", bundle.Shortcode))
			return false
		}
		return true
	}

	// Archive too large for the bot API: fall back to one document per file.
	c.Telegram.SendMessage(chatID, fmt.Sprintf("📦 ZIP trop volumineux (%s) pour %s, envoi des fichiers individuellement…",
		formatter.FormatBytes(int64(len(zipBytes))), bundle.Shortcode))

	base := sanitize.Filename(bundle.Caption, 0)
	sent := 0
	for i, item := range bundle.Media {
		data, ext, err := c.Packager.DownloadAsset(ctx, item)
		if err != nil {
			c.Telegram.SendMessage(chatID, fmt.Sprintf("❌ Erreur pour un média de %s.", bundle.Shortcode))
			continue
		}
		c.Telegram.SendChatAction(chatID, actionUploadDocument)
		filename := fmt.Sprintf("%s_%02d%s", base, i+1, ext)
		if err := c.Telegram.SendDocument(chatID, filename, data, ""); err == nil {
			sent++
		}
	}

	c.Telegram.SendMessage(chatID, fmt.Sprintf("✅ %s • %d/%d fichier(s) envoyés.", bundle.Shortcode, sent, len(bundle.Media)))
	if sent == 0 {
		c.Retriever.Resolver.Invalidate(bundle.Shortcode)
	}
	return sent > 0
}

func (c *CommandImpl) recordOutcome(ctx context.Context, retrieval domain.Retrieval) {
	if err := c.HistoryRepo.Record(ctx, retrieval); err != nil {
		c.Logger.Warn("Failed to record retrieval history", "error", err)
	}
}
