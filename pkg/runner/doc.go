// Package runner supervises the external online-schema-change tool as a
// child process.
//
// The runner owns the full lifecycle of one tool invocation: spawning,
// concurrent consumption of stdout and stderr, per-line classification and
// credential sanitization, failure-marker tracking, and the combination of
// exit code and error markers into a single ExecutionResult. The run is
// synchronous from the caller's point of view; cancellation is the caller's
// responsibility via context.
package runner
