package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrap(ErrRateLimited, "fetching post")
	assert.True(t, Is(err, ErrRateLimited))
	assert.Equal(t, "fetching post: rate limited by upstream", err.Error())

	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestWrapWithCode(t *testing.T) {
	err := WrapWithCode(ErrNotFound, "IG404", "resolving post")
	assert.Equal(t, "IG404", GetCode(err))
	assert.True(t, IsNotFound(err))

	assert.Equal(t, "", GetCode(fmt.Errorf("plain")))
}

func TestIsTransient(t *testing.T) {
	transient := []error{
		ErrRateLimited,
		ErrUnauthorized,
		ErrCheckpointRequired,
		ErrTryAgain,
		fmt.Errorf("wrapped: %w", ErrRateLimited),
	}
	for _, err := range transient {
		assert.True(t, IsTransient(err), "expected transient: %v", err)
	}

	terminal := []error{
		ErrInvalidURL,
		ErrNoMedia,
		ErrNotFound,
		ErrDownloadFailed,
		fmt.Errorf("plain failure"),
	}
	for _, err := range terminal {
		assert.False(t, IsTransient(err), "expected terminal: %v", err)
	}
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsRateLimited(fmt.Errorf("op: %w", ErrRateLimited)))
	assert.True(t, IsNoMedia(fmt.Errorf("op: %w", ErrNoMedia)))
	assert.False(t, IsNotFound(ErrNoMedia))
}
