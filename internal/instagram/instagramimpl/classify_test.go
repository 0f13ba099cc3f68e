package instagramimpl

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/gduverger/instapack/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"too many requests", http.StatusTooManyRequests, "", errors.ErrRateLimited},
		{"unauthorized", http.StatusUnauthorized, "", errors.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, "", errors.ErrUnauthorized},
		{"forbidden with checkpoint body", http.StatusForbidden, `{"message":"checkpoint_required"}`, errors.ErrCheckpointRequired},
		{"not found", http.StatusNotFound, "", errors.ErrNotFound},
		{"gone", http.StatusGone, "", errors.ErrNotFound},
		{"server error", http.StatusInternalServerError, "", errors.ErrTryAgain},
		{"bad gateway", http.StatusBadGateway, "", errors.ErrTryAgain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyStatus(tt.status, []byte(tt.body))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClassifyStatusUnexpected(t *testing.T) {
	err := classifyStatus(http.StatusTeapot, nil)
	assert.Error(t, err)
	assert.False(t, errors.IsTransient(err))
}

func TestClassifyBody(t *testing.T) {
	tests := []struct {
		body string
		want error
	}{
		{`{"message":"checkpoint_required"}`, errors.ErrCheckpointRequired},
		{`Please wait a few minutes before you try again.`, errors.ErrRateLimited},
		{`{"message":"rate limit exceeded"}`, errors.ErrRateLimited},
		{`{"message":"login_required"}`, errors.ErrUnauthorized},
		{`Oops, an error occurred. Please try again later.`, errors.ErrTryAgain},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, classifyBody([]byte(tt.body)), tt.want, "body: %s", tt.body)
	}

	assert.NoError(t, classifyBody([]byte(`{"graphql":{}}`)))
}

func TestClassifyTransport(t *testing.T) {
	err := classifyTransport(stderrors.New("connection reset by peer"))
	assert.ErrorIs(t, err, errors.ErrTryAgain)
	assert.True(t, errors.IsTransient(err))
}
