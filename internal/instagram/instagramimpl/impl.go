package instagramimpl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gduverger/instapack/internal/config"
	"github.com/gduverger/instapack/internal/credentials"
	"github.com/gduverger/instapack/internal/instagram"
	"github.com/gduverger/instapack/pkg/logger"
	"go.uber.org/fx"
)

const baseURL = "https://www.instagram.com"

type Opts struct {
	fx.In

	Config      *config.Config
	Logger      logger.Logger
	Credentials *credentials.Chain
}

type HTTPImpl struct {
	http        *http.Client
	config      *config.Config
	logger      logger.Logger
	credentials *credentials.Chain
}

func New(opts Opts) *HTTPImpl {
	return &HTTPImpl{
		http:        &http.Client{Timeout: 30 * time.Second},
		config:      opts.Config,
		logger:      opts.Logger.WithComponent("InstagramClient"),
		credentials: opts.Credentials,
	}
}

var _ instagram.Client = (*HTTPImpl)(nil)

// GetPost queries the public web endpoint for the structured post record.
func (c *HTTPImpl) GetPost(ctx context.Context, shortcode string) (*instagram.PostRecord, error) {
	url := fmt.Sprintf("%s/p/%s/?__a=1&__d=dis", baseURL, shortcode)

	body, status, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, classifyStatus(status, body)
	}

	rec, err := instagram.ParsePostRecord(body)
	if err != nil {
		// A 200 with an unparseable body is usually a challenge or rate
		// limit page, so look for the known signatures before giving up.
		if classified := classifyBody(body); classified != nil {
			return nil, classified
		}
		return nil, fmt.Errorf("decode post record: %w", err)
	}
	if rec.Shortcode == "" {
		rec.Shortcode = shortcode
	}

	c.logger.Debug("Fetched post record", "shortcode", shortcode, "children", len(rec.SidecarChildren))
	return rec, nil
}

// GetPostPage fetches the public HTML page for the post, used by the
// degraded open-graph extraction path.
func (c *HTTPImpl) GetPostPage(ctx context.Context, shortcode string) (string, error) {
	url := fmt.Sprintf("%s/p/%s/", baseURL, shortcode)

	body, status, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", classifyStatus(status, body)
	}
	return string(body), nil
}

func (c *HTTPImpl) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.Instagram.UserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "fr,en;q=0.9")
	req.Header.Set("Referer", baseURL+"/")

	if session := c.credentials.Resolve(); session != "" {
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: session})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, classifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
