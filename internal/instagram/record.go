package instagram

import "encoding/json"

// Resource is one resolution rendition of a photo asset.
type Resource struct {
	Src          string `json:"src"`
	ConfigWidth  int    `json:"config_width"`
	ConfigHeight int    `json:"config_height"`
}

// VideoVersion is one encoded rendition of a video asset. The upstream
// schema uses either "url" or "src" depending on the surface.
type VideoVersion struct {
	URL     string `json:"url"`
	Src     string `json:"src"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Bitrate int    `json:"bitrate"`
}

// MediaNode is the per-asset slice of the upstream record. Every field is
// optional; absent lists stay nil and absent numbers stay zero.
type MediaNode struct {
	IsVideo            bool           `json:"is_video"`
	DisplayURL         string         `json:"display_url"`
	VideoURL           string         `json:"video_url"`
	DisplayResources   []Resource     `json:"display_resources"`
	ThumbnailResources []Resource     `json:"thumbnail_resources"`
	VideoVersions      []VideoVersion `json:"video_versions"`
	VideoResources     []VideoVersion `json:"video_resources"`
}

// PostRecord is the full post-level record: the post's own media node plus
// caption, owner and, for carousels, the ordered child nodes.
type PostRecord struct {
	MediaNode

	Shortcode       string
	Caption         string
	OwnerUsername   string
	SidecarChildren []MediaNode
}

// rawPost mirrors the upstream web JSON shape just enough to pull out what
// the pipeline needs.
type rawPost struct {
	Graphql struct {
		ShortcodeMedia rawShortcodeMedia `json:"shortcode_media"`
	} `json:"graphql"`
	// Some upstream states return the media object at the top level.
	Items []rawShortcodeMedia `json:"items"`
}

type rawShortcodeMedia struct {
	MediaNode

	Shortcode          string `json:"shortcode"`
	EdgeMediaToCaption struct {
		Edges []struct {
			Node struct {
				Text string `json:"text"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"edge_media_to_caption"`
	Owner struct {
		Username string `json:"username"`
	} `json:"owner"`
	EdgeSidecarToChildren struct {
		Edges []struct {
			Node MediaNode `json:"node"`
		} `json:"edges"`
	} `json:"edge_sidecar_to_children"`
}

// ParsePostRecord decodes the upstream JSON body into a PostRecord. Partial
// or unexpected payloads produce a record with empty fields rather than an
// error; the caller decides whether the result is usable.
func ParsePostRecord(body []byte) (*PostRecord, error) {
	var raw rawPost
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	media := raw.Graphql.ShortcodeMedia
	if media.Shortcode == "" && len(raw.Items) > 0 {
		media = raw.Items[0]
	}

	rec := &PostRecord{
		MediaNode:     media.MediaNode,
		Shortcode:     media.Shortcode,
		OwnerUsername: media.Owner.Username,
	}
	if edges := media.EdgeMediaToCaption.Edges; len(edges) > 0 {
		rec.Caption = edges[0].Node.Text
	}
	for _, edge := range media.EdgeSidecarToChildren.Edges {
		rec.SidecarChildren = append(rec.SidecarChildren, edge.Node)
	}
	return rec, nil
}
