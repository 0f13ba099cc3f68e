package domain

// MediaKind distinguishes the two asset types a post can carry.
type MediaKind string

const (
	MediaKindPhoto MediaKind = "photo"
	MediaKindVideo MediaKind = "video"
)

// MediaItem is one resolved, ready-to-fetch asset. Order within a post is
// significant and drives the file index suffixes in the archive.
type MediaItem struct {
	Kind      MediaKind
	SourceURL string
}

// PostBundle is the result of resolving a single post. It is only ever
// constructed with at least one media item; an empty media list is a
// resolution failure, not a valid bundle.
type PostBundle struct {
	Shortcode string
	Username  string
	Caption   string
	Media     []MediaItem
}
