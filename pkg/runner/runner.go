package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/oscshift/oscshift/pkg/classify"
	"github.com/oscshift/oscshift/pkg/command"
	"github.com/oscshift/oscshift/pkg/consts"
	"github.com/oscshift/oscshift/pkg/logging"
	"golang.org/x/sync/errgroup"
)

type (
	// Runner supervises the external online-schema-change tool as a child
	// process: it spawns the tool, streams and classifies its output, and
	// converts exit status plus detected error markers into a single
	// ExecutionResult.
	//
	// A Runner holds no state across invocations and is safe to reuse. It
	// does not serialize concurrent calls for the same table; callers must
	// guarantee at most one in-flight schema change per table, since the
	// tool assumes exclusive access to the table it rewrites.
	Runner struct {
		logger    *logging.Logger
		sanitizer logging.Sanitizer
		tailSize  int
	}

	// Config contains configuration options for creating a new Runner.
	Config struct {
		// Logger receives every sanitized, classified output line
		Logger *logging.Logger

		// Sanitizer scrubs credentials from the echoed command line and
		// from every output line
		Sanitizer logging.Sanitizer

		// TailSize bounds the diagnostic tail (default 50 lines)
		TailSize int
	}

	// ExecutionResult is the single outcome of one tool run. It is created
	// once, at process completion, and owned by the caller after return.
	ExecutionResult struct {
		// Status is the overall outcome
		Status Status

		// ExitCode is the tool's exit code (-1 when the process was killed)
		ExitCode int

		// ErrorMessage is the sanitized text of the first error-classified
		// line, or a synthesized message when the tool exited nonzero
		// without one. Empty on success.
		ErrorMessage string

		// Tail is the bounded tail of recent sanitized output lines,
		// retained for failure diagnostics
		Tail []string

		// Duration is how long the tool ran
		Duration time.Duration
	}

	// Status represents the outcome of a tool run.
	Status string

	// SpawnError reports that the tool process could not be started at all
	// (missing binary, permission denied). It is immediately fatal and
	// never retried.
	SpawnError struct {
		Path string
		Err  error
	}
)

const (
	// StatusSuccess indicates the tool exited zero with no error-classified
	// output line
	StatusSuccess Status = "success"

	// StatusFailed indicates a nonzero exit and/or an error-classified line
	StatusFailed Status = "failed"

	// StatusCancelled indicates the caller cancelled the run before the
	// tool finished
	StatusCancelled Status = "cancelled"
)

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Success reports whether the run completed successfully: exit code zero
// and no error-classified line observed.
func (r *ExecutionResult) Success() bool {
	return r.Status == StatusSuccess
}

// New creates a new Runner with the provided configuration.
//
// Example usage:
//
//	run := runner.New(runner.Config{
//		Logger:    logging.NewLogger(os.Stdout, verbose),
//		Sanitizer: logging.NewSanitizer(details.Password),
//	})
//
//	result, err := run.Run(ctx, cmd)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !result.Success() {
//		fmt.Println(result.ErrorMessage)
//	}
func New(config Config) *Runner {
	tailSize := config.TailSize
	if tailSize <= 0 {
		tailSize = consts.TailSize
	}

	return &Runner{
		logger:    config.Logger,
		sanitizer: config.Sanitizer,
		tailSize:  tailSize,
	}
}

// Run spawns the tool and blocks until it terminates or ctx is cancelled.
//
// Stdout and stderr are consumed by two independent goroutines so that
// neither pipe can back-pressure and stall the other. Both consumers are
// joined before Run returns; no consumer outlives the call. Lines within
// one stream preserve arrival order; interleaving between the two streams
// is best-effort and not globally ordered.
//
// Cancelling ctx kills the child process, unblocks both consumers, and
// makes Run return a StatusCancelled result rather than blocking. There is
// no implicit timeout; cancellation policy belongs to the caller.
//
// A non-nil error is returned only when the process could not be spawned
// (*SpawnError). Every post-spawn outcome, including tool failure and
// cancellation, is reported through the ExecutionResult.
func (r *Runner) Run(ctx context.Context, cmd *command.Command) (*ExecutionResult, error) {
	proc := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	if len(cmd.Env) > 0 {
		proc.Env = append(os.Environ(), cmd.Env...)
	}

	// Unblock Wait shortly after a kill even if a grandchild still holds
	// the pipes open.
	proc.WaitDelay = 5 * time.Second

	stdout, err := proc.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Path: cmd.Path, Err: err}
	}

	stderr, err := proc.StderrPipe()
	if err != nil {
		return nil, &SpawnError{Path: cmd.Path, Err: err}
	}

	r.logger.Emit(r.sanitizer.Sanitize(cmd.String()), classify.ClassInfo, true)

	started := time.Now()
	if err := proc.Start(); err != nil {
		return nil, &SpawnError{Path: cmd.Path, Err: err}
	}

	state := &supervision{tailSize: r.tailSize}

	var g errgroup.Group
	g.Go(func() error { return r.consume(ctx, stdout, state) })
	g.Go(func() error { return r.consume(ctx, stderr, state) })

	// Consumers must finish before Wait, which closes the pipes.
	_ = g.Wait()

	waitErr := proc.Wait()
	duration := time.Since(started)
	exitCode := proc.ProcessState.ExitCode()

	marker, message, tail := state.snapshot()

	if ctx.Err() != nil {
		return &ExecutionResult{
			Status:       StatusCancelled,
			ExitCode:     exitCode,
			ErrorMessage: "schema change cancelled before completion",
			Tail:         tail,
			Duration:     duration,
		}, nil
	}

	if waitErr == nil && !marker {
		return &ExecutionResult{
			Status:   StatusSuccess,
			ExitCode: exitCode,
			Tail:     tail,
			Duration: duration,
		}, nil
	}

	if message == "" {
		if exitCode > 0 {
			message = fmt.Sprintf("tool exited with status %d without an explicit error line", exitCode)
		} else if waitErr != nil {
			message = r.sanitizer.Sanitize(waitErr.Error())
		}
	}

	return &ExecutionResult{
		Status:       StatusFailed,
		ExitCode:     exitCode,
		ErrorMessage: message,
		Tail:         tail,
		Duration:     duration,
	}, nil
}

// consume reads one line-oriented stream, classifying, sanitizing, and
// logging each line as it arrives, and folding it into the supervision
// state.
func (r *Runner) consume(ctx context.Context, stream io.Reader, state *supervision) error {
	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		class := classify.Line(line)
		sanitized := r.sanitizer.Sanitize(line)

		state.observe(sanitized, class)
		r.logger.Emit(sanitized, class, false)
	}

	// A read error after cancellation is just the pipe being torn down.
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		r.logger.Emit(fmt.Sprintf("error reading tool output: %v", err), classify.ClassWarning, false)
	}

	return nil
}

// supervision accumulates the failure marker, the first error message, and
// the bounded output tail across both stream consumers.
type supervision struct {
	mu       sync.Mutex
	tailSize int
	tail     []string
	marker   bool
	errMsg   string
}

func (s *supervision) observe(sanitized string, class classify.Class) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tail) == s.tailSize {
		copy(s.tail, s.tail[1:])
		s.tail = s.tail[:s.tailSize-1]
	}
	s.tail = append(s.tail, sanitized)

	// First error wins; later error lines are still logged but do not
	// overwrite the recorded root cause.
	if class == classify.ClassError && !s.marker {
		s.marker = true
		s.errMsg = sanitized
	}
}

func (s *supervision) snapshot() (bool, string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tail := make([]string, len(s.tail))
	copy(tail, s.tail)
	return s.marker, s.errMsg, tail
}
