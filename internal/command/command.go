package command

import "context"

// Client runs the Telegram update loop until the context is cancelled.
type Client interface {
	HandleUpdates(ctx context.Context) error
}
