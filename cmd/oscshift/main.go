package main

import (
	"context"
	"os"

	"github.com/oscshift/oscshift/pkg/cmd"
	"github.com/oscshift/oscshift/pkg/config"
	"go.uber.org/fx"
)

// NB: These are set by GoReleaser during a build.
var (
	version string
	commit  string
	date    string
)

func main() {
	fx.New(
		fx.NopLogger,
		fx.Supply(os.Args),
		fx.Supply(&cmd.Version{Version: version, Commit: commit, Timestamp: date}),
		fx.Provide(context.Background),
		config.Module,
		cmd.Module,
	).Run()
}
