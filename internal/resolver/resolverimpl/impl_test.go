package resolverimpl

import (
	"context"
	"testing"
	"time"

	"github.com/gduverger/instapack/internal/credentials"
	"github.com/gduverger/instapack/internal/domain"
	"github.com/gduverger/instapack/internal/instagram"
	"github.com/gduverger/instapack/pkg/errors"
	"github.com/gduverger/instapack/pkg/logger"
	"github.com/gduverger/instapack/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInstagram struct {
	posts    map[string]*instagram.PostRecord
	errs     []error
	calls    int
	pageHTML string
	pageErr  error
}

func (f *fakeInstagram) GetPost(ctx context.Context, shortcode string) (*instagram.PostRecord, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	rec, ok := f.posts[shortcode]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return rec, nil
}

func (f *fakeInstagram) GetPostPage(ctx context.Context, shortcode string) (string, error) {
	return f.pageHTML, f.pageErr
}

func newTestResolver(ig instagram.Client) *ResolverImpl {
	return &ResolverImpl{
		Instagram:   ig,
		Credentials: credentials.NewChain(),
		Logger:      logger.New(logger.Opts{}),
		Retry: retry.Config{
			InitialInterval:     10 * time.Millisecond,
			MaxInterval:         100 * time.Millisecond,
			Multiplier:          1.6,
			RandomizationFactor: 0,
		},
		cache: newBundleCache(),
	}
}

func photoRecord(shortcode, caption string) *instagram.PostRecord {
	return &instagram.PostRecord{
		Shortcode:     shortcode,
		Caption:       caption,
		OwnerUsername: "someone",
		MediaNode:     instagram.MediaNode{DisplayURL: "https://cdn/" + shortcode + ".jpg"},
	}
}

func TestResolveSingleAsset(t *testing.T) {
	ig := &fakeInstagram{posts: map[string]*instagram.PostRecord{
		"AAA": photoRecord("AAA", "ma légende"),
	}}
	r := newTestResolver(ig)

	bundle, err := r.Resolve(context.Background(), "AAA", 1)
	require.NoError(t, err)
	assert.Equal(t, "AAA", bundle.Shortcode)
	assert.Equal(t, "ma légende", bundle.Caption)
	assert.Equal(t, "someone", bundle.Username)
	require.Len(t, bundle.Media, 1)
	assert.Equal(t, domain.MediaKindPhoto, bundle.Media[0].Kind)
}

func TestResolveCarouselTakesPriority(t *testing.T) {
	rec := photoRecord("BBB", "carousel")
	rec.SidecarChildren = []instagram.MediaNode{
		{DisplayURL: "https://cdn/child1.jpg"},
		{IsVideo: true, VideoURL: "https://cdn/child2.mp4"},
		{DisplayURL: "https://cdn/child3.jpg"},
	}
	ig := &fakeInstagram{posts: map[string]*instagram.PostRecord{"BBB": rec}}
	r := newTestResolver(ig)

	bundle, err := r.Resolve(context.Background(), "BBB", 1)
	require.NoError(t, err)
	require.Len(t, bundle.Media, 3)
	assert.Equal(t, "https://cdn/child1.jpg", bundle.Media[0].SourceURL)
	assert.Equal(t, domain.MediaKindVideo, bundle.Media[1].Kind)
	assert.Equal(t, "https://cdn/child3.jpg", bundle.Media[2].SourceURL)
}

func TestResolvePageMarkupFallback(t *testing.T) {
	ig := &fakeInstagram{
		posts: map[string]*instagram.PostRecord{
			"CCC": {Shortcode: "CCC", Caption: "reel"},
		},
		pageHTML: `<html><head>
			<meta property="og:image" content="https://cdn/poster.jpg">
			<meta property="og:video" content="https://cdn/reel.mp4">
		</head></html>`,
	}
	r := newTestResolver(ig)

	bundle, err := r.Resolve(context.Background(), "CCC", 1)
	require.NoError(t, err)
	require.Len(t, bundle.Media, 1)
	assert.Equal(t, domain.MediaKindVideo, bundle.Media[0].Kind)
	assert.Equal(t, "https://cdn/reel.mp4", bundle.Media[0].SourceURL)
}

func TestResolvePageMarkupImageFallback(t *testing.T) {
	ig := &fakeInstagram{
		posts: map[string]*instagram.PostRecord{
			"DDD": {Shortcode: "DDD"},
		},
		pageHTML: `<html><head><meta property="og:image" content="https://cdn/only.jpg"></head></html>`,
	}
	r := newTestResolver(ig)

	bundle, err := r.Resolve(context.Background(), "DDD", 1)
	require.NoError(t, err)
	require.Len(t, bundle.Media, 1)
	assert.Equal(t, domain.MediaKindPhoto, bundle.Media[0].Kind)
}

func TestResolveNoMedia(t *testing.T) {
	ig := &fakeInstagram{
		posts:    map[string]*instagram.PostRecord{"EEE": {Shortcode: "EEE"}},
		pageHTML: "<html><head></head></html>",
	}
	r := newTestResolver(ig)

	_, err := r.Resolve(context.Background(), "EEE", 3)
	assert.ErrorIs(t, err, errors.ErrNoMedia)
	assert.Equal(t, 1, ig.calls, "an empty post is permanent, no retries expected")
}

func TestResolveRetriesTransientErrors(t *testing.T) {
	ig := &fakeInstagram{
		posts: map[string]*instagram.PostRecord{"FFF": photoRecord("FFF", "x")},
		errs:  []error{errors.ErrRateLimited, errors.ErrTryAgain},
	}
	r := newTestResolver(ig)

	bundle, err := r.Resolve(context.Background(), "FFF", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, ig.calls)
	assert.Equal(t, "FFF", bundle.Shortcode)
}

// recordingLogger captures the structured args of Warn calls so a test can
// inspect what the retry loop reported.
type recordingLogger struct {
	logger.Logger
	warnArgs [][]any
}

func (l *recordingLogger) Warn(msg string, args ...any) {
	l.warnArgs = append(l.warnArgs, args)
	l.Logger.Warn(msg, args...)
}

func (l *recordingLogger) WithComponent(name string) logger.Logger {
	return l
}

func (l *recordingLogger) waitsBeforeRetry(t *testing.T) []time.Duration {
	t.Helper()
	var waits []time.Duration
	for _, args := range l.warnArgs {
		for i := 0; i+1 < len(args); i += 2 {
			if args[i] == "next_attempt_in" {
				d, err := time.ParseDuration(args[i+1].(string))
				require.NoError(t, err)
				waits = append(waits, d)
			}
		}
	}
	return waits
}

func TestResolveBackoffDelaysGrow(t *testing.T) {
	ig := &fakeInstagram{
		posts: map[string]*instagram.PostRecord{"LLL": photoRecord("LLL", "x")},
		errs:  []error{errors.ErrRateLimited, errors.ErrRateLimited},
	}
	r := newTestResolver(ig)
	log := &recordingLogger{Logger: logger.New(logger.Opts{})}
	r.Logger = log

	_, err := r.Resolve(context.Background(), "LLL", 3)
	require.NoError(t, err)
	require.Equal(t, 3, ig.calls)

	waits := log.waitsBeforeRetry(t)
	require.Len(t, waits, 2, "one wait per failed attempt")
	assert.Equal(t, 10*time.Millisecond, waits[0])
	assert.Greater(t, waits[1], waits[0])
	assert.InDelta(t, 1.6, float64(waits[1])/float64(waits[0]), 0.01)
}

func TestResolveAttemptBudgetExhausted(t *testing.T) {
	ig := &fakeInstagram{
		posts: map[string]*instagram.PostRecord{"GGG": photoRecord("GGG", "x")},
		errs:  []error{errors.ErrRateLimited, errors.ErrRateLimited, errors.ErrRateLimited},
	}
	r := newTestResolver(ig)

	_, err := r.Resolve(context.Background(), "GGG", 3)
	assert.ErrorIs(t, err, errors.ErrRateLimited)
	assert.Equal(t, 3, ig.calls)
}

func TestResolvePermanentErrorNotRetried(t *testing.T) {
	ig := &fakeInstagram{}
	r := newTestResolver(ig)

	_, err := r.Resolve(context.Background(), "HHH", 3)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Equal(t, 1, ig.calls)
}

func TestResolveMemoizes(t *testing.T) {
	ig := &fakeInstagram{posts: map[string]*instagram.PostRecord{"III": photoRecord("III", "x")}}
	r := newTestResolver(ig)

	first, err := r.Resolve(context.Background(), "III", 1)
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), "III", 1)
	require.NoError(t, err)

	assert.Equal(t, 1, ig.calls)
	assert.Same(t, first, second)
}

func TestInvalidateDropsCacheEntry(t *testing.T) {
	ig := &fakeInstagram{posts: map[string]*instagram.PostRecord{"JJJ": photoRecord("JJJ", "x")}}
	r := newTestResolver(ig)

	_, err := r.Resolve(context.Background(), "JJJ", 1)
	require.NoError(t, err)

	r.Invalidate("JJJ")

	_, err = r.Resolve(context.Background(), "JJJ", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, ig.calls)
}

func TestResolveDifferentAttemptBudgetsCacheSeparately(t *testing.T) {
	ig := &fakeInstagram{posts: map[string]*instagram.PostRecord{"KKK": photoRecord("KKK", "x")}}
	r := newTestResolver(ig)

	_, err := r.Resolve(context.Background(), "KKK", 1)
	require.NoError(t, err)
	_, err = r.Resolve(context.Background(), "KKK", 2)
	require.NoError(t, err)

	assert.Equal(t, 2, ig.calls)
}
