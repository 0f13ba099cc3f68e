package shortcode

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gduverger/instapack/pkg/errors"
)

// The three path markers a shareable post URL can carry. The marker may
// appear anywhere in the path, so links with a leading user-handle segment
// are accepted too.
var markerRe = regexp.MustCompile(`/(?:p|reel|tv)/([A-Za-z0-9_-]+)`)

var splitRe = regexp.MustCompile(`[,\s;]+`)

// Extract derives the post shortcode from a shareable URL. The query string
// and fragment are ignored. Returns ErrInvalidURL when no post marker is
// present.
func Extract(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", errors.ErrInvalidURL
	}

	trimmed = strings.SplitN(trimmed, "?", 2)[0]
	trimmed = strings.SplitN(trimmed, "#", 2)[0]

	m := markerRe.FindStringSubmatch(trimmed)
	if m == nil {
		return "", fmt.Errorf("%w: %s", errors.ErrInvalidURL, rawURL)
	}
	return m[1], nil
}

// SplitList breaks a pasted blob of links into individual URLs, splitting on
// whitespace, commas and semicolons, de-duplicating while preserving input
// order.
func SplitList(text string) []string {
	raw := splitRe.Split(strings.TrimSpace(text), -1)

	seen := make(map[string]bool, len(raw))
	urls := make([]string, 0, len(raw))
	for _, u := range raw {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls
}
