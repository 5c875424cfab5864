package cmd

import (
	"context"
	"fmt"

	"github.com/oscshift/oscshift/pkg/config"
	"github.com/oscshift/oscshift/pkg/dispatch"
	"github.com/oscshift/oscshift/pkg/engine"
	"github.com/oscshift/oscshift/pkg/logging"
	"github.com/oscshift/oscshift/pkg/runner"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type planParams struct {
	fx.In

	Config *config.Config
}

// plan creates the plan command: a dry run of the online schema change.
//
// The tool is invoked with --dry-run instead of --execute, so it creates
// and drops the shadow table without copying rows or swapping anything.
// Output is always streamed verbosely, including the exact sanitized
// command line.
//
// Example usage:
//
//	oscshift plan -s "ALTER TABLE users ADD COLUMN age INT"
func plan(p planParams) *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Preview an online schema change without executing it",
		Description: `Run the online-schema-change tool in dry-run mode for a statement.

The generated command line (with credentials masked) and every line of the
tool's output are streamed so the change can be reviewed before running
'oscshift exec'. Statements that would not route through the tool are
reported and left untouched.`,
		Before: requireConfig(p.Config),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "statement",
				Aliases: []string{"s"},
				Usage:   "the DDL statement to plan (reads stdin when omitted)",
			},
			&cli.StringFlag{
				Name:    "table",
				Aliases: []string{"t"},
				Usage:   "the target table (defaults to the table named in the statement)",
			},
			&cli.StringFlag{
				Name:    "password",
				Usage:   "database password (overrides config)",
				Sources: cli.EnvVars("OSCSHIFT_PASSWORD", "MYSQL_PWD"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runPlan(ctx, cmd, p)
		},
	}
}

func runPlan(ctx context.Context, cmd *cli.Command, p planParams) error {
	statement, err := readStatement(cmd)
	if err != nil {
		return err
	}

	if dispatch.For(statement) == dispatch.DirectRoute {
		fmt.Fprintln(cmd.Writer, "Statement routes direct; it would execute over the normal connection.")
		return nil
	}

	details, err := connectionDetails(p.Config, cmd.String("password"))
	if err != nil {
		return err
	}

	opts := p.Config.Options()
	opts.DryRun = true

	log := logging.NewLogger(cmd.Writer, true)

	eng := engine.New(engine.Config{
		Details: details,
		Runner: runner.New(runner.Config{
			Logger:    log,
			Sanitizer: logging.NewSanitizer(details.Password),
		}),
		Options: opts,
	})

	result, err := eng.Execute(ctx, engine.Statement{SQL: statement, Table: cmd.String("table")})
	return reportResult(log, result, err)
}
