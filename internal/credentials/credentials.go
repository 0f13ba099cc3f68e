package credentials

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// AnonymousScope is the cache isolation key used when no credential is
// available.
const AnonymousScope = "anonymous"

// Provider supplies an optional opaque session token. An empty value with a
// nil error means "this source has nothing"; the chain moves on.
type Provider interface {
	Name() string
	SessionID() (string, error)
}

// Static returns a fixed value, typically one supplied interactively or read
// from configuration.
type Static struct {
	Source string
	Value  string
}

func (s Static) Name() string { return s.Source }

func (s Static) SessionID() (string, error) {
	return strings.TrimSpace(s.Value), nil
}

// Keyring reads the session token from the OS keyring.
type Keyring struct {
	Service string
	User    string
}

func (k Keyring) Name() string { return "keyring" }

func (k Keyring) SessionID() (string, error) {
	v, err := keyring.Get(k.Service, k.User)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(v), nil
}

// Env reads the session token from an environment variable.
type Env struct {
	Key string
}

func (e Env) Name() string { return "env:" + e.Key }

func (e Env) SessionID() (string, error) {
	return strings.TrimSpace(os.Getenv(e.Key)), nil
}

// Chain is an explicit ordered list of providers. The first provider that
// yields a non-empty value wins; provider errors skip to the next source.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Resolve returns the session token, or "" for anonymous access.
func (c *Chain) Resolve() string {
	for _, p := range c.providers {
		v, err := p.SessionID()
		if err != nil {
			continue
		}
		if v != "" {
			return v
		}
	}
	return ""
}

// Scope returns a short stable hash of the resolved credential, used as an
// isolation key so two users' cached results never mix.
func (c *Chain) Scope() string {
	session := c.Resolve()
	if session == "" {
		return AnonymousScope
	}
	sum := sha256.Sum256([]byte(session))
	return hex.EncodeToString(sum[:4])
}
