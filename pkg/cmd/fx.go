package cmd

import "go.uber.org/fx"

var Module = fx.Module("cli",
	fx.Provide(
		fx.Annotate(execCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(plan, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(status, fx.ResultTags(`group:"commands"`)),
	),
	fx.Invoke(Run),
)
