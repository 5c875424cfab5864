package cmd

import (
	"io"
	"strings"

	"github.com/oscshift/oscshift/pkg/config"
	"github.com/oscshift/oscshift/pkg/connection"
	"github.com/oscshift/oscshift/pkg/engine"
	"github.com/oscshift/oscshift/pkg/logging"
	"github.com/oscshift/oscshift/pkg/runner"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

// connectionDetails builds normalized connection details from the project
// config, applying the password override from flags/environment when set.
func connectionDetails(cfg *config.Config, passwordOverride string) (*connection.Details, error) {
	m := cfg.ConnectionMap()
	if passwordOverride != "" {
		m["password"] = passwordOverride
	}

	return connection.Build(m)
}

// readStatement returns the statement from the --statement flag, falling
// back to stdin so callers can pipe DDL in.
func readStatement(cmd *cli.Command) (string, error) {
	statement := strings.TrimSpace(cmd.String("statement"))
	if statement != "" {
		return statement, nil
	}

	data, err := io.ReadAll(cmd.Reader)
	if err != nil {
		return "", errors.Wrap(err, "failed to read statement from stdin")
	}

	statement = strings.TrimSpace(string(data))
	if statement == "" {
		return "", errors.New("no statement provided; pass --statement or pipe DDL on stdin")
	}

	return statement, nil
}

// reportResult renders the outcome of one engine execution through the
// logger's summary level, so the verdict is emitted even when the logger is
// not verbose. The returned error is the original execution error, so the
// process exits nonzero on failure.
func reportResult(log *logging.Logger, result *runner.ExecutionResult, err error) error {
	var (
		toolErr   *engine.ToolError
		cancelled *engine.CancelledError
	)

	switch {
	case err == nil && result == nil:
		log.Summaryf("✅ Statement executed directly")
		return nil

	case err == nil:
		log.Summaryf("✅ Schema change completed in %v", result.Duration)
		return nil

	case errors.As(err, &cancelled):
		log.Summaryf("⚠️  Schema change cancelled before completion")
		return err

	case errors.As(err, &toolErr):
		log.Summaryf("❌ Schema change failed (exit status %d)", toolErr.ExitCode)
		if toolErr.Message != "" {
			log.Summaryf("   Error: %s", toolErr.Message)
		}
		if len(toolErr.Tail) > 0 {
			log.Summaryf("   Recent tool output:")
			for _, line := range toolErr.Tail {
				log.Summaryf("     %s", line)
			}
		}
		return err

	default:
		return err
	}
}
