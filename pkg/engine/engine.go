package engine

import (
	"context"
	"fmt"

	"github.com/oscshift/oscshift/pkg/command"
	"github.com/oscshift/oscshift/pkg/connection"
	"github.com/oscshift/oscshift/pkg/dispatch"
	"github.com/oscshift/oscshift/pkg/runner"
	"github.com/pkg/errors"
)

type (
	// Database is the direct execution path for statements the dispatcher
	// does not route through the online-schema-change tool.
	Database interface {
		Exec(ctx context.Context, statement string) error
	}

	// Statement is one unit of work handed to the engine: the DDL text and
	// an optional target table. When Table is empty the table is taken from
	// the statement itself.
	Statement struct {
		SQL   string
		Table string
	}

	// Engine routes statements between the external online-schema-change
	// tool and direct database execution.
	//
	// The engine holds no shared mutable state across invocations; the
	// connection details and every generated command are value objects
	// scoped to one call. It does not serialize concurrent calls for the
	// same table; that is the surrounding migration orchestration's job.
	Engine struct {
		details *connection.Details
		db      Database
		runner  *runner.Runner
		options command.Options
	}

	// Config contains configuration options for creating a new Engine.
	Config struct {
		// Details are the normalized connection parameters
		Details *connection.Details

		// Database is the direct execution path; may be nil when only
		// engine-routed statements will be executed
		Database Database

		// Runner supervises the external tool
		Runner *runner.Runner

		// Options are the resolved tool options, fixed at configuration
		// time
		Options command.Options
	}

	// ToolError reports that the external tool ran but failed: it exited
	// nonzero and/or emitted an error-classified line. The sanitized
	// diagnostic tail is carried so an operator can see exactly what the
	// tool reported. Schema changes are not safely idempotent, so the
	// engine never auto-retries.
	ToolError struct {
		Message  string
		ExitCode int
		Tail     []string
	}

	// CancelledError reports that the caller cancelled the run before the
	// tool finished. It is distinct from ToolError so callers can tell
	// "the operation didn't finish" from "the operation failed."
	CancelledError struct{}
)

func (e *ToolError) Error() string {
	if e.Message != "" {
		return "schema change failed: " + e.Message
	}
	return fmt.Sprintf("schema change failed with exit status %d", e.ExitCode)
}

func (e *CancelledError) Error() string {
	return "schema change cancelled"
}

// New creates a new Engine with the provided configuration.
func New(config Config) *Engine {
	return &Engine{
		details: config.Details,
		db:      config.Database,
		runner:  config.Runner,
		options: config.Options,
	}
}

// Execute routes and executes a single statement.
//
// ALTER TABLE statements are built into a tool invocation and supervised by
// the runner; the returned ExecutionResult carries the exit code, the first
// error message, and the diagnostic tail. All other statements execute
// directly through the configured Database and return a nil result.
//
// Errors follow the taxonomy: *command.BuildError for inputs inconsistent
// with routing, *runner.SpawnError when the tool cannot be started,
// *ToolError when the tool ran and failed, *CancelledError when the caller
// cancelled. The result (when non-nil) is returned alongside the error so
// the diagnostic tail is always available.
func (e *Engine) Execute(ctx context.Context, stmt Statement) (*runner.ExecutionResult, error) {
	if dispatch.For(stmt.SQL) == dispatch.EngineRoute {
		return e.executeOnline(ctx, stmt)
	}
	return nil, e.executeDirect(ctx, stmt)
}

func (e *Engine) executeOnline(ctx context.Context, stmt Statement) (*runner.ExecutionResult, error) {
	cmd, err := command.Generate(e.details, stmt.Table, stmt.SQL, e.options)
	if err != nil {
		return nil, err
	}

	result, err := e.runner.Run(ctx, cmd)
	if err != nil {
		return nil, err
	}

	switch result.Status {
	case runner.StatusCancelled:
		return result, &CancelledError{}
	case runner.StatusFailed:
		return result, &ToolError{
			Message:  result.ErrorMessage,
			ExitCode: result.ExitCode,
			Tail:     result.Tail,
		}
	default:
		return result, nil
	}
}

func (e *Engine) executeDirect(ctx context.Context, stmt Statement) error {
	if e.db == nil {
		return errors.New("no database configured for direct execution")
	}
	return e.db.Exec(ctx, stmt.SQL)
}
