package rendition

import (
	"github.com/gduverger/instapack/internal/domain"
	"github.com/gduverger/instapack/internal/instagram"
)

// BestPhotoURL picks the highest-fidelity photo rendition: the resource
// maximizing (width, height) lexicographically, falling back to the direct
// display URL when no variant list is present. Returns "" when the node
// carries no usable photo source.
func BestPhotoURL(n instagram.MediaNode) string {
	resources := n.DisplayResources
	if len(resources) == 0 {
		resources = n.ThumbnailResources
	}

	var best *instagram.Resource
	for i := range resources {
		r := &resources[i]
		if best == nil || betterResolution(r.ConfigWidth, r.ConfigHeight, best.ConfigWidth, best.ConfigHeight) {
			best = r
		}
	}
	if best != nil && best.Src != "" {
		return best.Src
	}
	return n.DisplayURL
}

// BestVideoURL picks the video rendition maximizing (width, height, bitrate)
// lexicographically, falling back to the direct video URL.
func BestVideoURL(n instagram.MediaNode) string {
	versions := n.VideoVersions
	if len(versions) == 0 {
		versions = n.VideoResources
	}
	if len(versions) == 0 {
		return n.VideoURL
	}

	var best *instagram.VideoVersion
	for i := range versions {
		v := &versions[i]
		if best == nil || betterVideo(v, best) {
			best = v
		}
	}

	url := best.URL
	if url == "" {
		url = best.Src
	}
	if url == "" {
		return n.VideoURL
	}
	return url
}

// FromNode routes a media node to the photo or video selector based on its
// video flag. The second return is false when no source URL could be found.
func FromNode(n instagram.MediaNode) (domain.MediaItem, bool) {
	if n.IsVideo {
		if url := BestVideoURL(n); url != "" {
			return domain.MediaItem{Kind: domain.MediaKindVideo, SourceURL: url}, true
		}
		return domain.MediaItem{}, false
	}
	if url := BestPhotoURL(n); url != "" {
		return domain.MediaItem{Kind: domain.MediaKindPhoto, SourceURL: url}, true
	}
	return domain.MediaItem{}, false
}

func betterResolution(w, h, bestW, bestH int) bool {
	if w != bestW {
		return w > bestW
	}
	return h > bestH
}

func betterVideo(v, best *instagram.VideoVersion) bool {
	if v.Width != best.Width {
		return v.Width > best.Width
	}
	if v.Height != best.Height {
		return v.Height > best.Height
	}
	return v.Bitrate > best.Bitrate
}
