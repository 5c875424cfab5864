package command_test

import (
	"strings"
	"testing"

	"github.com/oscshift/oscshift/pkg/command"
	"github.com/oscshift/oscshift/pkg/connection"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
)

func testDetails(t *testing.T) *connection.Details {
	t.Helper()

	details, err := connection.Build(map[string]any{
		"host":     "db.example.com",
		"port":     3306,
		"username": "deploy",
		"password": "sekret",
		"database": "app",
	})
	require.NoError(t, err)
	return details
}

func TestGenerate(t *testing.T) {
	opts := command.Options{
		ChunkSize: 1000,
		MaxLoad:   "Threads_running=25",
		ExtraArgs: []string{"--no-swap-tables"},
	}

	t.Run("matches the golden argument vector", func(t *testing.T) {
		cmd, err := command.Generate(testDetails(t), "", "ALTER TABLE users ADD COLUMN age INT NOT NULL DEFAULT 0", opts)
		require.NoError(t, err)

		assert.Equal(t, "pt-online-schema-change", cmd.Path)
		golden.Assert(t, strings.Join(cmd.Args, "\n")+"\n", "alter_users.golden")
	})

	t.Run("is deterministic", func(t *testing.T) {
		first, err := command.Generate(testDetails(t), "users", "ALTER TABLE users ADD COLUMN age INT", opts)
		require.NoError(t, err)

		second, err := command.Generate(testDetails(t), "users", "ALTER TABLE users ADD COLUMN age INT", opts)
		require.NoError(t, err)

		assert.Equal(t, first.Args, second.Args)
	})

	t.Run("dry run swaps the execute flag", func(t *testing.T) {
		cmd, err := command.Generate(testDetails(t), "", "ALTER TABLE users ADD COLUMN age INT", command.Options{DryRun: true})
		require.NoError(t, err)

		assert.Contains(t, cmd.Args, "--dry-run")
		assert.NotContains(t, cmd.Args, "--execute")
	})

	t.Run("uses the socket when configured", func(t *testing.T) {
		details, err := connection.Build(map[string]any{
			"socket":   "/var/run/mysqld/mysqld.sock",
			"database": "app",
		})
		require.NoError(t, err)

		cmd, err := command.Generate(details, "", "ALTER TABLE users ADD COLUMN age INT", command.Options{})
		require.NoError(t, err)

		assert.Equal(t, []string{"--socket", "/var/run/mysqld/mysqld.sock"}, cmd.Args[:2])
		assert.NotContains(t, cmd.Args, "--host")
	})

	t.Run("omits the password flag when empty", func(t *testing.T) {
		details, err := connection.Build(map[string]any{
			"host":     "localhost",
			"database": "app",
		})
		require.NoError(t, err)

		cmd, err := command.Generate(details, "", "ALTER TABLE users ADD COLUMN age INT", command.Options{})
		require.NoError(t, err)
		assert.NotContains(t, cmd.Args, "--password")
	})

	t.Run("schema qualifier in the statement overrides the configured database", func(t *testing.T) {
		cmd, err := command.Generate(testDetails(t), "", "ALTER TABLE `reporting`.`events` ADD COLUMN a INT", command.Options{})
		require.NoError(t, err)
		assert.Contains(t, cmd.Args, "D=reporting,t=events")
	})

	t.Run("the alter clause is a single token", func(t *testing.T) {
		cmd, err := command.Generate(testDetails(t), "", "ALTER TABLE users ADD COLUMN note VARCHAR(255) DEFAULT 'a, b; c'", command.Options{})
		require.NoError(t, err)

		i := indexOf(cmd.Args, "--alter")
		require.GreaterOrEqual(t, i, 0)
		assert.Equal(t, "ADD COLUMN note VARCHAR(255) DEFAULT 'a, b; c'", cmd.Args[i+1])
	})

	t.Run("extra args keep their supplied order", func(t *testing.T) {
		cmd, err := command.Generate(testDetails(t), "", "ALTER TABLE users ADD COLUMN a INT", command.Options{
			ExtraArgs: []string{"--recursion-method", "dsn=t=percona.checksums", "--no-check-replication-filters"},
		})
		require.NoError(t, err)

		n := len(cmd.Args)
		assert.Equal(t, []string{"--recursion-method", "dsn=t=percona.checksums", "--no-check-replication-filters"}, cmd.Args[n-3:])
	})

	t.Run("rejects an empty statement", func(t *testing.T) {
		_, err := command.Generate(testDetails(t), "users", "   ", command.Options{})
		requireBuildError(t, err)
	})

	t.Run("rejects statements the dispatcher would not route", func(t *testing.T) {
		_, err := command.Generate(testDetails(t), "users", "DROP TABLE users", command.Options{})
		requireBuildError(t, err)
	})

	t.Run("rejects a table mismatch", func(t *testing.T) {
		_, err := command.Generate(testDetails(t), "orders", "ALTER TABLE users ADD COLUMN a INT", command.Options{})
		requireBuildError(t, err)
	})

	t.Run("accepts a case-insensitive table match", func(t *testing.T) {
		_, err := command.Generate(testDetails(t), "USERS", "ALTER TABLE users ADD COLUMN a INT", command.Options{})
		require.NoError(t, err)
	})

	t.Run("escapes DSN metacharacters in identifiers", func(t *testing.T) {
		cmd, err := command.Generate(testDetails(t), "", "ALTER TABLE `odd,name` ADD COLUMN a INT", command.Options{})
		require.NoError(t, err)
		assert.Contains(t, cmd.Args, `D=app,t=odd\,name`)
	})
}

func TestCommandString(t *testing.T) {
	cmd, err := command.Generate(testDetails(t), "", "ALTER TABLE users ADD COLUMN age INT", command.Options{})
	require.NoError(t, err)

	rendered := cmd.String()
	assert.True(t, strings.HasPrefix(rendered, "pt-online-schema-change --host db.example.com"))
	assert.Contains(t, rendered, "--alter 'ADD COLUMN age INT'")

	// The rendered command still carries the raw password; sanitizing it
	// before logging is the runner's job.
	assert.Contains(t, rendered, "sekret")
}

func requireBuildError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)

	var buildErr *command.BuildError
	require.True(t, errors.As(err, &buildErr))
}

func indexOf(args []string, want string) int {
	for i, arg := range args {
		if arg == want {
			return i
		}
	}
	return -1
}
