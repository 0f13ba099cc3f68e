package batch

import (
	"context"
	"math/rand"
	"time"

	"github.com/gduverger/instapack/internal/domain"
	"github.com/gduverger/instapack/internal/resolver"
	"github.com/gduverger/instapack/internal/shortcode"
	"github.com/gduverger/instapack/pkg/logger"
	"go.uber.org/fx"
)

// Options configures one batch run.
type Options struct {
	// BatchID tags log lines and history rows for this run.
	BatchID string
	// MinDelay is the minimum pause between upstream requests. A random
	// jitter up to MaxJitter is added on top. No delay before the first
	// request.
	MinDelay  time.Duration
	MaxJitter time.Duration
	// MaxAttemptsPerPost is the resolver's attempt budget per post.
	MaxAttemptsPerPost int
}

// Result is the full accounting of a batch: every input URL ends up in
// exactly one of the two lists, both in input order.
type Result struct {
	Bundles  []*domain.PostBundle
	Failures []domain.FailedURL
}

type Opts struct {
	fx.In

	Resolver resolver.Client
	Logger   logger.Logger
}

// Retriever processes URL batches sequentially, pacing requests to stay
// under upstream throttling thresholds. It never lets one bad link abort
// the rest of the batch.
type Retriever struct {
	Resolver resolver.Client
	Logger   logger.Logger

	sleep func(ctx context.Context, d time.Duration)
}

func New(opts Opts) *Retriever {
	return &Retriever{
		Resolver: opts.Resolver,
		Logger:   opts.Logger.WithComponent("Batch"),
		sleep:    sleepContext,
	}
}

func (r *Retriever) RetrieveAll(ctx context.Context, urls []string, opts Options) Result {
	var result Result
	requested := 0

	for _, url := range urls {
		sc, err := shortcode.Extract(url)
		if err != nil {
			result.Failures = append(result.Failures, domain.FailedURL{URL: url, Reason: err.Error()})
			continue
		}

		if requested > 0 {
			r.sleep(ctx, r.pacingDelay(opts))
		}
		requested++

		if ctx.Err() != nil {
			result.Failures = append(result.Failures, domain.FailedURL{URL: url, Reason: ctx.Err().Error()})
			continue
		}

		bundle, err := r.Resolver.Resolve(ctx, sc, opts.MaxAttemptsPerPost)
		if err != nil {
			r.Logger.Warn("Post resolution failed", "batch_id", opts.BatchID, "url", url, "error", err)
			result.Failures = append(result.Failures, domain.FailedURL{URL: url, Reason: err.Error()})
			continue
		}
		result.Bundles = append(result.Bundles, bundle)
	}

	r.Logger.Info("Batch finished",
		"batch_id", opts.BatchID,
		"urls", len(urls),
		"resolved", len(result.Bundles),
		"failed", len(result.Failures),
	)
	return result
}

func (r *Retriever) pacingDelay(opts Options) time.Duration {
	delay := opts.MinDelay
	if opts.MaxJitter > 0 {
		delay += time.Duration(rand.Int63n(int64(opts.MaxJitter)))
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
