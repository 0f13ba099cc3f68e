package resolverimpl

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gduverger/instapack/internal/domain"
)

// bundleCache memoizes resolved bundles per (shortcode, credential scope,
// attempt budget). Eviction is caller-controlled via invalidate; there is
// no implicit lifetime.
type bundleCache struct {
	mu      sync.Mutex
	entries map[string]*domain.PostBundle
}

func newBundleCache() *bundleCache {
	return &bundleCache{entries: make(map[string]*domain.PostBundle)}
}

func cacheKey(shortcode, scope string, maxAttempts int) string {
	return fmt.Sprintf("%s|%s|%d", shortcode, scope, maxAttempts)
}

func (c *bundleCache) get(key string) (*domain.PostBundle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bundle, ok := c.entries[key]
	return bundle, ok
}

func (c *bundleCache) put(key string, bundle *domain.PostBundle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = bundle
}

func (c *bundleCache) invalidate(shortcode string) {
	prefix := shortcode + "|"
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}
