package cmd

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/oscshift/oscshift/pkg/config"
	"github.com/oscshift/oscshift/pkg/mysql"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type statusParams struct {
	fx.In

	Config *config.Config
}

// status creates the status command: a structural preflight that verifies
// the tool binary is resolvable and the database is reachable. It makes no
// schema changes.
//
// Example usage:
//
//	oscshift status
func status(p statusParams) *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Verify the tool binary and database connectivity",
		Before: requireConfig(p.Config),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "password",
				Usage:   "database password (overrides config)",
				Sources: cli.EnvVars("OSCSHIFT_PASSWORD", "MYSQL_PWD"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runStatus(ctx, cmd, p)
		},
	}
}

func runStatus(ctx context.Context, cmd *cli.Command, p statusParams) error {
	failed := false

	if path, err := exec.LookPath(p.Config.Tool.Binary); err != nil {
		fmt.Fprintf(cmd.Writer, "❌ %s not found in PATH\n", p.Config.Tool.Binary)
		failed = true
	} else {
		fmt.Fprintf(cmd.Writer, "✅ %s resolved to %s\n", p.Config.Tool.Binary, path)
	}

	details, err := connectionDetails(p.Config, cmd.String("password"))
	if err != nil {
		fmt.Fprintf(cmd.Writer, "❌ Connection configuration invalid: %v\n", err)
		return errors.Wrap(err, "preflight failed")
	}
	fmt.Fprintf(cmd.Writer, "✅ Connection configuration valid (database %s)\n", details.Database)

	client, err := mysql.NewClient(details)
	if err != nil {
		fmt.Fprintf(cmd.Writer, "❌ Failed to create database client: %v\n", err)
		return errors.Wrap(err, "preflight failed")
	}
	defer func() { _ = client.Close() }()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx); err != nil {
		fmt.Fprintf(cmd.Writer, "❌ Database unreachable: %v\n", err)
		failed = true
	} else {
		fmt.Fprintln(cmd.Writer, "✅ Database reachable")
	}

	if failed {
		return errors.New("preflight failed")
	}

	return nil
}
