package classify_test

import (
	"testing"

	"github.com/oscshift/oscshift/pkg/classify"
	"github.com/stretchr/testify/assert"
)

func TestLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want classify.Class
	}{
		{"mysql error", "ERROR 1062 (23000): Duplicate entry 'x' for key 'PRIMARY'", classify.ClassError},
		{"embedded mysql error number", "2024-01-01T00:00:00 ERROR 1205 (HY000): Lock wait timeout exceeded", classify.ClassError},
		{"errno suffix", "Cannot create table (errno: 150)", classify.ClassError},
		{"tool failure preamble", "Error altering `app`.`users`: lost connection", classify.ClassError},
		{"copy failure preamble", "Error copying rows from `app`.`users` to `app`.`_users_new`", classify.ClassError},
		{"not altered", "`app`.`users` was not altered.", classify.ClassError},
		{"progress with percent", "Copying `app`.`users`:  28% 01:15 remain", classify.ClassProgress},
		{"bare percent", "  45% 00:30 remain", classify.ClassProgress},
		{"copied rows", "Copied 10000 rows in 4.21s", classify.ClassCopyStat},
		{"rows copied", "2000-01-01 10000 rows copied so far", classify.ClassCopyStat},
		{"warning preamble", "Warning: --no-drop-old-table was specified", classify.ClassWarning},
		{"skipping", "Skipping foreign key checks", classify.ClassWarning},
		{"plain chatter is info", "Creating new table...", classify.ClassInfo},
		{"copying without percent is info", "Copying 10000 rows...", classify.ClassInfo},
		{"altering preamble is info", "Altering `app`.`users`...", classify.ClassInfo},
		{"empty line is info", "", classify.ClassInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify.Line(tt.line))
		})
	}
}

// A line that looks like both an error and a progress report must classify
// as an error: rules are evaluated top to bottom, first match wins.
func TestLineFirstMatchWins(t *testing.T) {
	assert.Equal(t, classify.ClassError, classify.Line("ERROR 2013 (HY000): Copying `a`.`b`: 28% 01:15 remain"))
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "info", classify.ClassInfo.String())
	assert.Equal(t, "progress", classify.ClassProgress.String())
	assert.Equal(t, "copy-stat", classify.ClassCopyStat.String())
	assert.Equal(t, "warning", classify.ClassWarning.String())
	assert.Equal(t, "error", classify.ClassError.String())
}
