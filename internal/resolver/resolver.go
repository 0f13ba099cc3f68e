package resolver

import (
	"context"

	"github.com/gduverger/instapack/internal/domain"
)

// Client resolves a post shortcode into a ready-to-download bundle.
//
// Resolve retries transient upstream failures (rate limiting, temporary
// auth errors, checkpoints) with exponential backoff up to maxAttempts,
// and fails with ErrNoMedia when every extraction strategy comes up empty.
// Results are memoized per (shortcode, credential scope, attempt budget);
// Invalidate drops all cached entries for a shortcode.
type Client interface {
	Resolve(ctx context.Context, shortcode string, maxAttempts int) (*domain.PostBundle, error)
	Invalidate(shortcode string)
}
