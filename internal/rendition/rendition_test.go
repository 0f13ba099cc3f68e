package rendition

import (
	"testing"

	"github.com/gduverger/instapack/internal/domain"
	"github.com/gduverger/instapack/internal/instagram"
	"github.com/stretchr/testify/assert"
)

func TestBestPhotoURL(t *testing.T) {
	n := instagram.MediaNode{
		DisplayURL: "https://cdn/display.jpg",
		DisplayResources: []instagram.Resource{
			{Src: "https://cdn/small.jpg", ConfigWidth: 100, ConfigHeight: 100},
			{Src: "https://cdn/large.jpg", ConfigWidth: 400, ConfigHeight: 300},
			{Src: "https://cdn/medium.jpg", ConfigWidth: 200, ConfigHeight: 200},
		},
	}
	assert.Equal(t, "https://cdn/large.jpg", BestPhotoURL(n))
}

func TestBestPhotoURLHeightBreaksWidthTie(t *testing.T) {
	n := instagram.MediaNode{
		DisplayResources: []instagram.Resource{
			{Src: "https://cdn/a.jpg", ConfigWidth: 400, ConfigHeight: 300},
			{Src: "https://cdn/b.jpg", ConfigWidth: 400, ConfigHeight: 500},
		},
	}
	assert.Equal(t, "https://cdn/b.jpg", BestPhotoURL(n))
}

func TestBestPhotoURLThumbnailFallback(t *testing.T) {
	n := instagram.MediaNode{
		DisplayURL: "https://cdn/display.jpg",
		ThumbnailResources: []instagram.Resource{
			{Src: "https://cdn/thumb.jpg", ConfigWidth: 640, ConfigHeight: 640},
		},
	}
	assert.Equal(t, "https://cdn/thumb.jpg", BestPhotoURL(n))
}

func TestBestPhotoURLDisplayFallback(t *testing.T) {
	n := instagram.MediaNode{DisplayURL: "https://cdn/display.jpg"}
	assert.Equal(t, "https://cdn/display.jpg", BestPhotoURL(n))

	assert.Equal(t, "", BestPhotoURL(instagram.MediaNode{}))
}

func TestBestVideoURL(t *testing.T) {
	n := instagram.MediaNode{
		VideoURL: "https://cdn/fallback.mp4",
		VideoVersions: []instagram.VideoVersion{
			{URL: "https://cdn/720.mp4", Width: 720, Height: 1280, Bitrate: 2_000_000},
			{URL: "https://cdn/1080.mp4", Width: 1080, Height: 1920, Bitrate: 4_000_000},
		},
	}
	assert.Equal(t, "https://cdn/1080.mp4", BestVideoURL(n))
}

func TestBestVideoURLBitrateBreaksTie(t *testing.T) {
	n := instagram.MediaNode{
		VideoVersions: []instagram.VideoVersion{
			{URL: "https://cdn/low.mp4", Width: 720, Height: 1280, Bitrate: 1_000_000},
			{URL: "https://cdn/high.mp4", Width: 720, Height: 1280, Bitrate: 3_000_000},
		},
	}
	assert.Equal(t, "https://cdn/high.mp4", BestVideoURL(n))
}

func TestBestVideoURLSrcField(t *testing.T) {
	// Older payloads carry the address in src instead of url.
	n := instagram.MediaNode{
		VideoResources: []instagram.VideoVersion{
			{Src: "https://cdn/legacy.mp4", Width: 480, Height: 854},
		},
	}
	assert.Equal(t, "https://cdn/legacy.mp4", BestVideoURL(n))
}

func TestBestVideoURLDirectFallback(t *testing.T) {
	n := instagram.MediaNode{VideoURL: "https://cdn/video.mp4"}
	assert.Equal(t, "https://cdn/video.mp4", BestVideoURL(n))
}

func TestFromNode(t *testing.T) {
	photo, ok := FromNode(instagram.MediaNode{DisplayURL: "https://cdn/p.jpg"})
	assert.True(t, ok)
	assert.Equal(t, domain.MediaKindPhoto, photo.Kind)
	assert.Equal(t, "https://cdn/p.jpg", photo.SourceURL)

	video, ok := FromNode(instagram.MediaNode{IsVideo: true, VideoURL: "https://cdn/v.mp4"})
	assert.True(t, ok)
	assert.Equal(t, domain.MediaKindVideo, video.Kind)

	_, ok = FromNode(instagram.MediaNode{})
	assert.False(t, ok)

	_, ok = FromNode(instagram.MediaNode{IsVideo: true})
	assert.False(t, ok)
}
