package credentials

import (
	"github.com/gduverger/instapack/internal/config"
	"go.uber.org/fx"
)

// NewChainFromConfig builds the default precedence list: the configured
// value first, then the OS keyring, then the raw environment fallback.
func NewChainFromConfig(cfg *config.Config) *Chain {
	return NewChain(
		Static{Source: "config", Value: cfg.Instagram.SessionID},
		Keyring{Service: cfg.Instagram.KeyringService, User: "sessionid"},
		Env{Key: "IG_SESSION_ID"},
	)
}

var Module = fx.Options(
	fx.Provide(NewChainFromConfig),
)
