package command

import (
	"strconv"
	"strings"

	"github.com/oscshift/oscshift/pkg/connection"
	"github.com/oscshift/oscshift/pkg/consts"
	"github.com/oscshift/oscshift/pkg/parser"
)

type (
	// Command is a fully built invocation of the external tool: the binary
	// path, an ordered argument vector, and an optional environment overlay.
	//
	// Commands are deterministic: identical connection details, table and
	// statement always yield byte-identical argument vectors. Each flag
	// value is its own argv token, so no token boundary can be altered by
	// statement content.
	Command struct {
		// Path is the binary to invoke
		Path string

		// Args is the ordered argument vector, excluding the binary itself
		Args []string

		// Env is an optional environment overlay appended to the parent
		// environment (KEY=value entries)
		Env []string
	}

	// Options carries the tool-specific settings recognized by the
	// generator. All capability decisions (which flags the tool run gets)
	// are resolved into Options once at configuration time, never probed at
	// runtime.
	Options struct {
		// Binary overrides the tool binary (default pt-online-schema-change)
		Binary string

		// DryRun passes --dry-run instead of --execute
		DryRun bool

		// ChunkSize sets --chunk-size when positive
		ChunkSize int

		// MaxLoad sets --max-load when non-empty (e.g. "Threads_running=25")
		MaxLoad string

		// CriticalLoad sets --critical-load when non-empty
		CriticalLoad string

		// AlterForeignKeysMethod sets --alter-foreign-keys-method when
		// non-empty
		AlterForeignKeysMethod string

		// ExtraArgs are appended verbatim, in the order supplied
		ExtraArgs []string

		// Env is carried through to the command's environment overlay
		Env []string
	}

	// BuildError reports statement or table inputs that are inconsistent
	// with routing assumptions. It fails fast and is never retried.
	BuildError struct {
		Reason string
	}
)

func (e *BuildError) Error() string {
	return "cannot build tool command: " + e.Reason
}

// Generate builds the external tool's invocation from connection details,
// the target table, and the statement text.
//
// The argument vector is emitted in a fixed order: connection flags
// (host/port or socket, user, password), the execute-mode flag, the alter
// clause, the D=<database>,t=<table> target, then any configured extra
// flags. The fixed order makes the output byte-identical for equal inputs.
//
// The statement is re-parsed as a defensive double-check against
// misrouting: an empty statement, or one that is not an ALTER TABLE, fails
// with a *BuildError. When table is empty the table name parsed from the
// statement is used; when both are present they must agree.
func Generate(details *connection.Details, table, statement string, opts Options) (*Command, error) {
	if strings.TrimSpace(statement) == "" {
		return nil, &BuildError{Reason: "statement is empty"}
	}

	alter, err := parser.ParseAlter(statement)
	if err != nil {
		return nil, &BuildError{Reason: err.Error()}
	}

	if table == "" {
		table = alter.Table
	} else if !strings.EqualFold(table, alter.Table) && !strings.EqualFold(table, alter.QualifiedTable()) {
		return nil, &BuildError{Reason: "statement alters " + alter.QualifiedTable() + ", not " + table}
	}

	database := details.Database
	if alter.Database != "" {
		database = alter.Database
	}

	binary := opts.Binary
	if binary == "" {
		binary = consts.DefaultBinary
	}

	args := make([]string, 0, 16)

	// Connection flags, fixed order.
	if details.Host != "" {
		args = append(args, "--host", details.Host, "--port", strconv.Itoa(details.Port))
	}
	if details.Socket != "" {
		args = append(args, "--socket", details.Socket)
	}
	args = append(args, "--user", details.Username)
	if details.Password != "" {
		args = append(args, "--password", details.Password)
	}

	// Execute mode.
	if opts.DryRun {
		args = append(args, "--dry-run")
	} else {
		args = append(args, "--execute")
	}

	// The alter clause is a single argv token; the tool receives it
	// atomically regardless of its content.
	args = append(args, "--alter", alter.Clause)

	// Target table in the tool's DSN syntax.
	args = append(args, "D="+dsnEscape(database)+",t="+dsnEscape(alter.Table))

	// Configured tool options.
	if opts.ChunkSize > 0 {
		args = append(args, "--chunk-size", strconv.Itoa(opts.ChunkSize))
	}
	if opts.MaxLoad != "" {
		args = append(args, "--max-load", opts.MaxLoad)
	}
	if opts.CriticalLoad != "" {
		args = append(args, "--critical-load", opts.CriticalLoad)
	}
	if opts.AlterForeignKeysMethod != "" {
		args = append(args, "--alter-foreign-keys-method", opts.AlterForeignKeysMethod)
	}
	args = append(args, opts.ExtraArgs...)

	return &Command{Path: binary, Args: args, Env: opts.Env}, nil
}

// String renders the command for display, shell-quoting tokens that need
// it. The result still contains the raw password and must pass through the
// sanitizer before being logged.
func (c *Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, shellQuote(c.Path))
	for _, arg := range c.Args {
		parts = append(parts, shellQuote(arg))
	}
	return strings.Join(parts, " ")
}

// dsnEscape escapes the characters the tool's DSN parser treats specially.
func dsnEscape(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, ",", `\,`)
}

func shellQuote(token string) string {
	if token != "" && !strings.ContainsAny(token, " \t\n\"'`$&|;<>()*?[]#~%{}\\") {
		return token
	}
	return "'" + strings.ReplaceAll(token, "'", `'\''`) + "'"
}
