package packager

import (
	"strings"

	"github.com/gduverger/instapack/internal/domain"
)

// ExtFromContentType infers a file extension from the response's declared
// content type, falling back to the kind's default when nothing matches.
func ExtFromContentType(contentType, fallback string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "png"):
		return ".png"
	case strings.Contains(ct, "webp"):
		return ".webp"
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return ".jpg"
	case strings.Contains(ct, "gif"):
		return ".gif"
	case strings.Contains(ct, "mp4"):
		return ".mp4"
	case strings.Contains(ct, "quicktime"), strings.Contains(ct, "mov"):
		return ".mov"
	case strings.Contains(ct, "webm"):
		return ".webm"
	default:
		return fallback
	}
}

func defaultExt(kind domain.MediaKind) string {
	if kind == domain.MediaKindVideo {
		return ".mp4"
	}
	return ".jpg"
}
