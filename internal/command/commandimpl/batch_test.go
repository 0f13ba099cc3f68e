package commandimpl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gduverger/instapack/internal/batch"
	"github.com/gduverger/instapack/internal/config"
	"github.com/gduverger/instapack/internal/credentials"
	"github.com/gduverger/instapack/internal/domain"
	"github.com/gduverger/instapack/internal/packager"
	"github.com/gduverger/instapack/internal/ratelimit"
	"github.com/gduverger/instapack/pkg/errors"
	"github.com/gduverger/instapack/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentDoc struct {
	filename string
	caption  string
	size     int
}

type fakeTelegram struct {
	messages  []string
	documents []sentDoc
	edits     []string
}

func (f *fakeTelegram) GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	ch := make(chan tgbotapi.Update)
	close(ch)
	return ch
}

func (f *fakeTelegram) StopReceivingUpdates() {}

func (f *fakeTelegram) SendMessage(chatID int64, text string) (int, error) {
	f.messages = append(f.messages, text)
	return len(f.messages), nil
}

func (f *fakeTelegram) EditMessageText(chatID int64, messageID int, newText string) error {
	f.edits = append(f.edits, newText)
	return nil
}

func (f *fakeTelegram) SendChatAction(chatID int64, action string) {}

func (f *fakeTelegram) SendDocument(chatID int64, filename string, data []byte, caption string) error {
	f.documents = append(f.documents, sentDoc{filename: filename, caption: caption, size: len(data)})
	return nil
}

type fakeResolver struct {
	assetURL string
}

func (f *fakeResolver) Resolve(ctx context.Context, shortcode string, maxAttempts int) (*domain.PostBundle, error) {
	if shortcode == "BAD" {
		return nil, errors.ErrNoMedia
	}
	return &domain.PostBundle{
		Shortcode: shortcode,
		Caption:   "légende",
		Media: []domain.MediaItem{
			{Kind: domain.MediaKindPhoto, SourceURL: f.assetURL},
			{Kind: domain.MediaKindPhoto, SourceURL: f.assetURL},
		},
	}, nil
}

func (f *fakeResolver) Invalidate(string) {}

type memoryHistory struct {
	rows []domain.Retrieval
}

func (m *memoryHistory) Record(ctx context.Context, r domain.Retrieval) error {
	m.rows = append(m.rows, r)
	return nil
}

func (m *memoryHistory) GetByBatchID(ctx context.Context, batchID string) ([]*domain.Retrieval, error) {
	return nil, nil
}

func (m *memoryHistory) CountByStatus(ctx context.Context, chatID int64) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (m *memoryHistory) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	return 0, nil
}

func newTestCommand(t *testing.T, zipLimit int64) (*CommandImpl, *fakeTelegram, *memoryHistory) {
	t.Helper()

	assets := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	t.Cleanup(assets.Close)

	log := logger.New(logger.Opts{})
	chain := credentials.NewChain()
	cfg := &config.Config{}
	cfg.Telegram.ZipLimitBytes = zipLimit
	cfg.Downloader.MaxAttempts = 1

	tg := &fakeTelegram{}
	hist := &memoryHistory{}

	cmd := &CommandImpl{
		Telegram: tg,
		Retriever: batch.New(batch.Opts{
			Resolver: &fakeResolver{assetURL: assets.URL + "/a.jpg"},
			Logger:   log,
		}),
		Packager: packager.New(packager.Opts{
			Config:      cfg,
			Logger:      log,
			Credentials: chain,
		}),
		Credentials: chain,
		HistoryRepo: hist,
		Limiter:     ratelimit.NewInMemoryLimiter(1, time.Hour, 10),
		Logger:      log,
		Config:      cfg,
	}
	return cmd, tg, hist
}

func TestHandleBatchDeliversArchive(t *testing.T) {
	cmd, tg, hist := newTestCommand(t, 1<<20)

	cmd.handleBatch(context.Background(), 7, "https://www.instagram.com/p/AAA/")

	require.Len(t, tg.documents, 1)
	assert.Equal(t, "AAA_legende.zip", tg.documents[0].filename)
	assert.Contains(t, tg.documents[0].caption, "AAA")
	assert.Contains(t, tg.documents[0].caption, "2 média(s)")

	require.Len(t, hist.rows, 1)
	assert.Equal(t, domain.RetrievalStatusOK, hist.rows[0].Status)
	assert.Equal(t, 2, hist.rows[0].MediaCount)
	assert.Equal(t, int64(7), hist.rows[0].ChatID)

	require.NotEmpty(t, tg.edits)
	assert.Contains(t, tg.edits[len(tg.edits)-1], "1 post(s) envoyé(s)")
}

func TestHandleBatchOversizedArchiveFallsBackToFiles(t *testing.T) {
	cmd, tg, _ := newTestCommand(t, 1)

	cmd.handleBatch(context.Background(), 7, "https://www.instagram.com/p/AAA/")

	require.Len(t, tg.documents, 2)
	assert.Equal(t, "legende_01.jpg", tg.documents[0].filename)
	assert.Equal(t, "legende_02.jpg", tg.documents[1].filename)
}

func TestHandleBatchRecordsFailures(t *testing.T) {
	cmd, tg, hist := newTestCommand(t, 1<<20)

	cmd.handleBatch(context.Background(), 7, "https://www.instagram.com/p/BAD/")

	assert.Empty(t, tg.documents)
	require.Len(t, hist.rows, 1)
	assert.Equal(t, domain.RetrievalStatusFailed, hist.rows[0].Status)
	assert.Contains(t, hist.rows[0].Reason, "no media found")
}

func TestHandleBatchRateLimited(t *testing.T) {
	cmd, tg, _ := newTestCommand(t, 1<<20)
	cmd.Limiter = ratelimit.NewInMemoryLimiter(1, time.Hour, 1)

	cmd.handleBatch(context.Background(), 7, "https://www.instagram.com/p/AAA/")
	before := len(tg.documents)

	cmd.handleBatch(context.Background(), 7, "https://www.instagram.com/p/BBB/")

	assert.Equal(t, before, len(tg.documents))
	assert.Contains(t, tg.messages[len(tg.messages)-1], "Doucement")
}

func TestHandleBatchNoLinks(t *testing.T) {
	cmd, tg, hist := newTestCommand(t, 1<<20)

	cmd.handleBatch(context.Background(), 7, "   ")

	assert.Empty(t, tg.documents)
	assert.Empty(t, hist.rows)
	require.NotEmpty(t, tg.messages)
	assert.Contains(t, tg.messages[len(tg.messages)-1], "au moins un lien")
}
