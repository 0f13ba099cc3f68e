package resolverimpl

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gduverger/instapack/internal/domain"
	"github.com/gduverger/instapack/internal/instagram"
	"github.com/gduverger/instapack/internal/rendition"
)

// extractMedia tries the three extraction strategies in fixed priority
// order and returns the first non-empty result: the carousel children, the
// post treated as a single asset, then the open-graph tags of the public
// page.
func (r *ResolverImpl) extractMedia(ctx context.Context, shortcode string, rec *instagram.PostRecord) []domain.MediaItem {
	if media := fromCarousel(rec); len(media) > 0 {
		return media
	}
	if item, ok := rendition.FromNode(rec.MediaNode); ok {
		return []domain.MediaItem{item}
	}
	return r.fromPageMarkup(ctx, shortcode)
}

func fromCarousel(rec *instagram.PostRecord) []domain.MediaItem {
	var media []domain.MediaItem
	for _, child := range rec.SidecarChildren {
		if item, ok := rendition.FromNode(child); ok {
			media = append(media, item)
		}
	}
	return media
}

// fromPageMarkup is the degraded fallback, seen mainly for short-form video
// posts whose structured record comes back empty: fetch the public page and
// take the first open-graph video or image tag.
func (r *ResolverImpl) fromPageMarkup(ctx context.Context, shortcode string) []domain.MediaItem {
	html, err := r.Instagram.GetPostPage(ctx, shortcode)
	if err != nil {
		r.Logger.Warn("Page markup fallback failed", "shortcode", shortcode, "error", err)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		r.Logger.Warn("Could not parse page markup", "shortcode", shortcode, "error", err)
		return nil
	}

	for _, sel := range []string{`meta[property="og:video"]`, `meta[property="og:video:secure_url"]`} {
		if url, ok := doc.Find(sel).First().Attr("content"); ok && url != "" {
			return []domain.MediaItem{{Kind: domain.MediaKindVideo, SourceURL: url}}
		}
	}
	if url, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok && url != "" {
		return []domain.MediaItem{{Kind: domain.MediaKindPhoto, SourceURL: url}}
	}
	return nil
}
