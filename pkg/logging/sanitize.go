package logging

import (
	"strings"

	"github.com/oscshift/oscshift/pkg/consts"
)

// Sanitizer removes credential material from text before it is logged.
//
// A Sanitizer is bound to a single secret (the connection password for the
// current invocation). Sanitized output never contains the secret, so
// sanitizing already-sanitized text is a no-op.
type Sanitizer struct {
	secret string
}

// NewSanitizer creates a Sanitizer for the given secret. An empty secret
// yields a no-op sanitizer.
func NewSanitizer(secret string) Sanitizer {
	return Sanitizer{secret: secret}
}

// Sanitize replaces every occurrence of the secret in text with the mask
// token. It must be applied to the generated command line before it is ever
// echoed, and to every output line before it reaches the logger.
func (s Sanitizer) Sanitize(text string) string {
	if s.secret == "" {
		return text
	}

	out := strings.ReplaceAll(text, s.secret, consts.MaskToken)

	// Replacement can leave the secret behind when it is a substring of
	// the mask token, or when a replacement boundary splices one together.
	// Strip those occurrences outright; each pass shrinks the string, so
	// this terminates, and the output never contains the secret.
	for strings.Contains(out, s.secret) {
		out = strings.ReplaceAll(out, s.secret, "")
	}

	return out
}
