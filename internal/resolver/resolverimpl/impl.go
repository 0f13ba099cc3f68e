package resolverimpl

import (
	"context"
	"fmt"

	"github.com/gduverger/instapack/internal/credentials"
	"github.com/gduverger/instapack/internal/domain"
	"github.com/gduverger/instapack/internal/instagram"
	"github.com/gduverger/instapack/internal/resolver"
	"github.com/gduverger/instapack/pkg/errors"
	"github.com/gduverger/instapack/pkg/logger"
	"github.com/gduverger/instapack/pkg/retry"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Instagram   instagram.Client
	Credentials *credentials.Chain
	Logger      logger.Logger
}

type ResolverImpl struct {
	Instagram   instagram.Client
	Credentials *credentials.Chain
	Logger      logger.Logger
	Retry       retry.Config

	cache *bundleCache
}

func New(opts Opts) *ResolverImpl {
	return &ResolverImpl{
		Instagram:   opts.Instagram,
		Credentials: opts.Credentials,
		Logger:      opts.Logger.WithComponent("Resolver"),
		Retry:       retry.DefaultConfig(),
		cache:       newBundleCache(),
	}
}

var _ resolver.Client = (*ResolverImpl)(nil)

func (r *ResolverImpl) Resolve(ctx context.Context, shortcode string, maxAttempts int) (*domain.PostBundle, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	key := cacheKey(shortcode, r.Credentials.Scope(), maxAttempts)
	if bundle, ok := r.cache.get(key); ok {
		r.Logger.Debug("Resolved from cache", "shortcode", shortcode)
		return bundle, nil
	}

	cfg := r.Retry
	cfg.MaxRetries = uint64(maxAttempts - 1)

	var bundle *domain.PostBundle
	operation := func() error {
		b, err := r.resolveOnce(ctx, shortcode)
		if err != nil {
			if errors.IsTransient(err) {
				return err
			}
			return retry.Permanent(err)
		}
		bundle = b
		return nil
	}

	if err := retry.Do(ctx, r.Logger, "ResolvePost", operation, cfg); err != nil {
		return nil, fmt.Errorf("resolve post %s: %w", shortcode, err)
	}

	r.cache.put(key, bundle)
	return bundle, nil
}

// Invalidate drops every cached bundle for the shortcode, across all
// credential scopes and attempt budgets.
func (r *ResolverImpl) Invalidate(shortcode string) {
	r.cache.invalidate(shortcode)
}

func (r *ResolverImpl) resolveOnce(ctx context.Context, shortcode string) (*domain.PostBundle, error) {
	rec, err := r.Instagram.GetPost(ctx, shortcode)
	if err != nil {
		return nil, err
	}

	media := r.extractMedia(ctx, shortcode, rec)
	if len(media) == 0 {
		return nil, fmt.Errorf("%w: %s", errors.ErrNoMedia, shortcode)
	}

	r.Logger.Info("Resolved post", "shortcode", shortcode, "media", len(media))

	return &domain.PostBundle{
		Shortcode: shortcode,
		Username:  rec.OwnerUsername,
		Caption:   rec.Caption,
		Media:     media,
	}, nil
}
