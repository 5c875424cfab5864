package logging_test

import (
	"testing"

	"github.com/oscshift/oscshift/pkg/logging"
	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	t.Run("removes every occurrence of the secret", func(t *testing.T) {
		s := logging.NewSanitizer("hunter2")
		out := s.Sanitize("--password hunter2 retrying with hunter2")

		assert.NotContains(t, out, "hunter2")
		assert.Equal(t, "--password [FILTERED] retrying with [FILTERED]", out)
	})

	t.Run("is idempotent", func(t *testing.T) {
		s := logging.NewSanitizer("hunter2")
		once := s.Sanitize("password=hunter2")

		assert.Equal(t, once, s.Sanitize(once))
	})

	t.Run("secret that is a substring of the mask token", func(t *testing.T) {
		s := logging.NewSanitizer("FILTER")
		out := s.Sanitize("password is FILTER here")

		assert.NotContains(t, out, "FILTER")
		assert.Equal(t, out, s.Sanitize(out))
	})

	t.Run("secret equal to the mask token", func(t *testing.T) {
		s := logging.NewSanitizer("[FILTERED]")
		out := s.Sanitize("leaked [FILTERED] token")

		assert.NotContains(t, out, "[FILTERED]")
		assert.Equal(t, out, s.Sanitize(out))
	})

	t.Run("empty secret is a no-op", func(t *testing.T) {
		s := logging.NewSanitizer("")
		assert.Equal(t, "nothing to hide", s.Sanitize("nothing to hide"))
	})

	t.Run("text without the secret is unchanged", func(t *testing.T) {
		s := logging.NewSanitizer("hunter2")
		assert.Equal(t, "Copied 10000 rows", s.Sanitize("Copied 10000 rows"))
	})
}
