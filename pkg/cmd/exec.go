package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oscshift/oscshift/pkg/config"
	"github.com/oscshift/oscshift/pkg/dispatch"
	"github.com/oscshift/oscshift/pkg/engine"
	"github.com/oscshift/oscshift/pkg/logging"
	"github.com/oscshift/oscshift/pkg/mysql"
	"github.com/oscshift/oscshift/pkg/runner"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type execParams struct {
	fx.In

	Config *config.Config
}

// execCmd creates the exec command for running a single DDL statement.
//
// ALTER TABLE statements are routed through pt-online-schema-change; all
// other statements execute directly against the configured database.
//
// Example usage:
//
//	# Run an online schema change
//	oscshift exec -s "ALTER TABLE users ADD COLUMN age INT"
//
//	# Pipe the statement in
//	echo "CREATE INDEX idx_age ON users (age)" | oscshift exec
//
//	# Validate without copying any rows
//	oscshift exec --dry-run -s "ALTER TABLE users DROP COLUMN legacy"
func execCmd(p execParams) *cli.Command {
	return &cli.Command{
		Name:  "exec",
		Usage: "Execute a DDL statement, routing ALTER TABLE through the online-schema-change tool",
		Description: `Execute a single DDL statement against the configured database.

Statements beginning with ALTER TABLE are rewritten into a
pt-online-schema-change invocation and supervised to completion, with the
tool's output streamed, classified, and scrubbed of credentials. Everything
else executes directly over the normal connection.

The statement is read from --statement or from stdin.`,
		Before: requireConfig(p.Config),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "statement",
				Aliases: []string{"s"},
				Usage:   "the DDL statement to execute (reads stdin when omitted)",
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
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "stream every classified tool output line",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "ask the tool to validate the change without altering data",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runExec(ctx, cmd, p)
		},
	}
}

func runExec(ctx context.Context, cmd *cli.Command, p execParams) error {
	statement, err := readStatement(cmd)
	if err != nil {
		return err
	}

	details, err := connectionDetails(p.Config, cmd.String("password"))
	if err != nil {
		return err
	}

	route := dispatch.For(statement)
	dryRun := cmd.Bool("dry-run")
	verbose := cmd.Bool("verbose") || p.Config.Tool.Verbose

	slog.Info("Executing statement",
		"route", route.String(),
		"database", details.Database,
		"dry_run", dryRun,
	)

	if route == dispatch.DirectRoute && dryRun {
		fmt.Fprintln(cmd.Writer, "Statement routes direct; nothing to do for a dry run.")
		return nil
	}

	opts := p.Config.Options()
	opts.DryRun = dryRun

	var db engine.Database
	if route == dispatch.DirectRoute {
		client, err := mysql.NewClient(details)
		if err != nil {
			return errors.Wrap(err, "failed to create database client")
		}
		defer func() { _ = client.Close() }()
		db = client
	}

	log := logging.NewLogger(cmd.Writer, verbose)

	eng := engine.New(engine.Config{
		Details:  details,
		Database: db,
		Runner: runner.New(runner.Config{
			Logger:    log,
			Sanitizer: logging.NewSanitizer(details.Password),
		}),
		Options: opts,
	})

	result, err := eng.Execute(ctx, engine.Statement{SQL: statement, Table: cmd.String("table")})
	return reportResult(log, result, err)
}
