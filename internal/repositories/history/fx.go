package history

import (
	"go.uber.org/fx"
)

var Module = fx.Module("history_repository",
	fx.Provide(
		fx.Annotate(
			NewPgx,
			fx.As(new(Repository)),
		),
	),
)
