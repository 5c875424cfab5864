package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/oscshift/oscshift/pkg/config"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run creates and executes the main oscshift CLI application with the given
// version and command-line arguments.
//
// The application runs schema changes against a live MySQL database,
// routing ALTER TABLE statements through pt-online-schema-change so they
// don't hold long table locks, and executing everything else directly.
//
// Global Flags:
//   - --dir, -d: Project directory (defaults to current directory)
//
// The application automatically detects oscshift projects by looking for
// oscshift.yaml in the specified directory.
func Run(p Params) {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", p.Version.Timestamp)
	}

	app := &cli.Command{
		Name:  "oscshift",
		Usage: "Run ALTER TABLE statements through pt-online-schema-change",
		Description: `oscshift is a CLI tool that applies schema changes to a live MySQL
database without long table locks by routing ALTER TABLE statements through
pt-online-schema-change. All other statements execute directly against the
database.`,
		Version: p.Version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "the project directory",
				Value:       ".",
				DefaultText: "Current directory",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := os.Chdir(cmd.String("dir")); err != nil {
				return ctx, err
			}

			return ctx, nil
		},
		Commands: p.Commands,
	}

	p.Lifecycle.Append(fx.StartHook(func() {
		if err := app.Run(p.Ctx, p.Args); err != nil {
			slog.Error("Error running command", "err", err)
			_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
		}

		_ = p.Shutdowner.Shutdown(fx.ExitCode(0))
	}))
}

func requireConfig(cfg *config.Config) func(context.Context, *cli.Command) (context.Context, error) {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		if cfg == nil {
			return ctx, errors.New("oscshift.yaml not found")
		}

		return ctx, nil
	}
}
