package logging

import (
	"fmt"
	"io"
	"sync"

	"github.com/oscshift/oscshift/pkg/classify"
)

// Logger is an ordered, streaming sink for sanitized, classified output
// lines. Lines are written as they arrive, never buffered until process
// completion, so operators can follow a long-running schema change live.
//
// The logger decides presentation only, never success or failure. When not
// verbose, only warning and error lines (and summaries) are emitted; when
// verbose, every classified line is emitted.
//
// Emit is safe for concurrent use; the two stream consumers of a running
// tool write through the same logger.
type Logger struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

// NewLogger creates a Logger writing to w.
func NewLogger(w io.Writer, verbose bool) *Logger {
	return &Logger{w: w, verbose: verbose}
}

// Emit writes a single sanitized line under its classification. Lines
// flagged verboseOnly are dropped unless the logger is verbose; otherwise
// non-verbose loggers emit only warning and error lines.
func (l *Logger) Emit(line string, class classify.Class, verboseOnly bool) {
	if verboseOnly && !l.verbose {
		return
	}
	if !l.verbose && class != classify.ClassWarning && class != classify.ClassError {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "[%s] %s\n", class, line)
}

// Summaryf writes a summary-level line. Summaries are emitted regardless of
// verbosity. The caller is responsible for sanitizing any interpolated
// values.
func (l *Logger) Summaryf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, format+"\n", args...)
}
