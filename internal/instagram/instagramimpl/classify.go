package instagramimpl

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gduverger/instapack/pkg/errors"
)

// classifyStatus maps an HTTP status to the pipeline error taxonomy. Status
// codes are the primary signal; the body is consulted only to refine
// ambiguous cases.
func classifyStatus(status int, body []byte) error {
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: HTTP 429", errors.ErrRateLimited)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if err := classifyBody(body); err != nil {
			return err
		}
		return fmt.Errorf("%w: HTTP %d", errors.ErrUnauthorized, status)
	case status == http.StatusNotFound || status == http.StatusGone:
		return fmt.Errorf("%w: HTTP %d", errors.ErrNotFound, status)
	case status >= 500:
		return fmt.Errorf("%w: HTTP %d", errors.ErrTryAgain, status)
	default:
		return fmt.Errorf("unexpected upstream status %d", status)
	}
}

// classifyBody recognizes the textual failure signatures the upstream
// sometimes serves inside a 200 or 403 response. Returns nil when nothing
// matches.
func classifyBody(body []byte) error {
	text := strings.ToLower(string(body))
	switch {
	case strings.Contains(text, "checkpoint_required") || strings.Contains(text, "checkpoint required"):
		return errors.ErrCheckpointRequired
	case strings.Contains(text, "please wait a few minutes") || strings.Contains(text, "rate limit"):
		return errors.ErrRateLimited
	case strings.Contains(text, "login_required") || strings.Contains(text, "login required"):
		return errors.ErrUnauthorized
	case strings.Contains(text, "try again"):
		return errors.ErrTryAgain
	default:
		return nil
	}
}

// classifyTransport treats network-level failures (timeouts, resets) as
// retryable: they carry the same "try again" semantics as an upstream 5xx.
func classifyTransport(err error) error {
	return fmt.Errorf("%w: %v", errors.ErrTryAgain, err)
}
