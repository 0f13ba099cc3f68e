package packager

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gduverger/instapack/internal/config"
	"github.com/gduverger/instapack/internal/credentials"
	"github.com/gduverger/instapack/internal/domain"
	"github.com/gduverger/instapack/pkg/errors"
	"github.com/gduverger/instapack/pkg/logger"
	"github.com/gduverger/instapack/pkg/sanitize"
	"go.uber.org/fx"
)

const (
	downloadAttempts = 3
	downloadBackoff  = 700 * time.Millisecond

	folderCaptionLen = 40
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Opts struct {
	fx.In

	Config      *config.Config
	Logger      logger.Logger
	Credentials *credentials.Chain
}

// Packager downloads every media item of the given bundles and writes them
// into a single deflate-compressed archive with deterministic,
// collision-free paths.
type Packager struct {
	HTTP        httpDoer
	Config      *config.Config
	Logger      logger.Logger
	Credentials *credentials.Chain

	sleep func(ctx context.Context, d time.Duration) bool
}

func New(opts Opts) *Packager {
	return &Packager{
		HTTP:        &http.Client{Timeout: 30 * time.Second},
		Config:      opts.Config,
		Logger:      opts.Logger.WithComponent("Packager"),
		Credentials: opts.Credentials,
		sleep:       sleepContext,
	}
}

// Pack assembles the archive. A failed asset download becomes a placeholder
// text entry at its index; it never aborts the remaining assets.
func (p *Packager) Pack(ctx context.Context, bundles []*domain.PostBundle) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, bundle := range bundles {
		folder := fmt.Sprintf("%s_%s", bundle.Shortcode, sanitize.Filename(bundle.Caption, folderCaptionLen))
		base := sanitize.Filename(bundle.Caption, 0)

		for i, item := range bundle.Media {
			idx := i + 1

			data, contentType, err := p.fetchAsset(ctx, item.SourceURL)
			if err != nil {
				p.Logger.Warn("Asset download failed, writing placeholder",
					"shortcode", bundle.Shortcode, "index", idx, "error", err)
				name := fmt.Sprintf("%s/ERREUR_%02d.txt", folder, idx)
				if werr := writeEntry(zw, name, []byte(fmt.Sprintf("Impossible de telecharger %s\n%v", item.SourceURL, err))); werr != nil {
					return nil, werr
				}
				continue
			}

			ext := ExtFromContentType(contentType, defaultExt(item.Kind))
			name := fmt.Sprintf("%s/%s_%02d%s", folder, base, idx, ext)
			if err := writeEntry(zw, name, data); err != nil {
				return nil, err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// DownloadAsset fetches a single media item and returns its bytes with the
// inferred extension. Used by the per-file delivery fallback when an
// archive would exceed the transport size limit.
func (p *Packager) DownloadAsset(ctx context.Context, item domain.MediaItem) ([]byte, string, error) {
	data, contentType, err := p.fetchAsset(ctx, item.SourceURL)
	if err != nil {
		return nil, "", err
	}
	return data, ExtFromContentType(contentType, defaultExt(item.Kind)), nil
}

// ArchiveName suggests a download filename for the packed archive.
func ArchiveName(bundles []*domain.PostBundle) string {
	if len(bundles) == 1 {
		b := bundles[0]
		return fmt.Sprintf("%s_%s.zip", b.Shortcode, sanitize.Filename(b.Caption, folderCaptionLen))
	}
	return "instagram_medias_batch.zip"
}

func (p *Packager) fetchAsset(ctx context.Context, url string) ([]byte, string, error) {
	var lastErr error

	for attempt := 1; attempt <= downloadAttempts; attempt++ {
		if attempt > 1 {
			if !p.sleep(ctx, downloadBackoff*time.Duration(attempt-1)) {
				break
			}
		}

		data, contentType, err := p.fetchOnce(ctx, url)
		if err == nil {
			return data, contentType, nil
		}
		lastErr = err
	}

	return nil, "", fmt.Errorf("%w after %d attempts: %v", errors.ErrDownloadFailed, downloadAttempts, lastErr)
}

func (p *Packager) fetchOnce(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	// The upstream CDN rejects non-browser user agents.
	req.Header.Set("User-Agent", p.Config.Instagram.UserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "fr,en;q=0.9")
	if session := p.Credentials.Resolve(); session != "" {
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: session})
	}

	resp, err := p.HTTP.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create archive entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write archive entry %s: %w", name, err)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
