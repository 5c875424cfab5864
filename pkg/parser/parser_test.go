package parser_test

import (
	"testing"

	"github.com/oscshift/oscshift/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlter(t *testing.T) {
	t.Run("parses a plain statement", func(t *testing.T) {
		alter, err := parser.ParseAlter("ALTER TABLE users ADD COLUMN age INT")
		require.NoError(t, err)

		assert.Empty(t, alter.Database)
		assert.Equal(t, "users", alter.Table)
		assert.Equal(t, "ADD COLUMN age INT", alter.Clause)
		assert.Equal(t, "users", alter.QualifiedTable())
	})

	t.Run("is case-insensitive on keywords", func(t *testing.T) {
		alter, err := parser.ParseAlter("alter table x drop column y")
		require.NoError(t, err)

		assert.Equal(t, "x", alter.Table)
		assert.Equal(t, "drop column y", alter.Clause)
	})

	t.Run("unquotes backticked identifiers", func(t *testing.T) {
		alter, err := parser.ParseAlter("ALTER TABLE `users` ADD INDEX idx_age (age)")
		require.NoError(t, err)
		assert.Equal(t, "users", alter.Table)
	})

	t.Run("handles schema-qualified names", func(t *testing.T) {
		alter, err := parser.ParseAlter("ALTER TABLE `app`.`users` DROP COLUMN legacy")
		require.NoError(t, err)

		assert.Equal(t, "app", alter.Database)
		assert.Equal(t, "users", alter.Table)
		assert.Equal(t, "app.users", alter.QualifiedTable())
	})

	t.Run("unescapes doubled backticks", func(t *testing.T) {
		alter, err := parser.ParseAlter("ALTER TABLE `odd``name` ADD COLUMN a INT")
		require.NoError(t, err)
		assert.Equal(t, "odd`name", alter.Table)
	})

	t.Run("preserves clause spacing", func(t *testing.T) {
		alter, err := parser.ParseAlter("ALTER TABLE t ADD COLUMN  a   INT")
		require.NoError(t, err)
		assert.Equal(t, "ADD COLUMN  a   INT", alter.Clause)
	})

	t.Run("strips a trailing semicolon", func(t *testing.T) {
		alter, err := parser.ParseAlter("ALTER TABLE t ADD COLUMN a INT;")
		require.NoError(t, err)
		assert.Equal(t, "ADD COLUMN a INT", alter.Clause)
	})

	t.Run("tolerates leading whitespace and comments", func(t *testing.T) {
		alter, err := parser.ParseAlter("  -- widen the name column\n  ALTER TABLE users MODIFY name VARCHAR(255)")
		require.NoError(t, err)

		assert.Equal(t, "users", alter.Table)
		assert.Equal(t, "MODIFY name VARCHAR(255)", alter.Clause)
	})

	t.Run("rejects an empty statement", func(t *testing.T) {
		_, err := parser.ParseAlter("   ")
		require.Error(t, err)
		assert.ErrorContains(t, err, "empty")
	})

	t.Run("rejects non-ALTER statements", func(t *testing.T) {
		_, err := parser.ParseAlter("SELECT 1")
		require.Error(t, err)
		assert.ErrorContains(t, err, "ALTER TABLE")
	})

	t.Run("rejects ALTER without a table name", func(t *testing.T) {
		_, err := parser.ParseAlter("ALTER TABLE")
		require.Error(t, err)
		assert.ErrorContains(t, err, "table name")
	})

	t.Run("rejects a missing alter clause", func(t *testing.T) {
		_, err := parser.ParseAlter("ALTER TABLE users")
		require.Error(t, err)
		assert.ErrorContains(t, err, "clause")
	})
}
