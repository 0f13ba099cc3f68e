package instagram

import (
	"context"
)

// Client is the narrow contract against the upstream content source. Given a
// shortcode it returns the raw post record, or fails with one of the
// pkg/errors sentinels (rate-limited, unauthorized, checkpoint, not-found).
// GetPostPage is the degraded path: the public page markup, used to scrape
// open-graph tags when the structured record yields no media.
type Client interface {
	GetPost(ctx context.Context, shortcode string) (*PostRecord, error)
	GetPostPage(ctx context.Context, shortcode string) (string, error)
}
