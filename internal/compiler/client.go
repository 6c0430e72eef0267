package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"wcpack/internal/logging"
	"wcpack/internal/services"
)

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger sets the sink that receives relayed compiler output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithArgs replaces the default compiler arguments.
func WithArgs(args ...string) Option {
	return func(c *Client) {
		if len(args) > 0 {
			c.args = append([]string(nil), args...)
		}
	}
}

// WithTimeout kills runs that exceed timeout. Zero disables the limit.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// WithStderrTail sets how many trailing stderr lines a Result keeps.
func WithStderrTail(lines int) Option {
	return func(c *Client) {
		if lines >= 0 {
			c.tailLines = lines
		}
	}
}

// WithWorkDir pins the working directory instead of reading it at Build time.
func WithWorkDir(dir string) Option {
	return func(c *Client) {
		c.workDir = strings.TrimSpace(dir)
	}
}

// DefaultArgs requests a build plus documentation generation.
var DefaultArgs = []string{"build", "--docs"}

// Client launches the component compiler.
type Client struct {
	runtime   string
	script    string
	args      []string
	timeout   time.Duration
	tailLines int
	workDir   string
	exec      Executor
	logger    *slog.Logger
}

// New constructs a compiler client that runs script through runtime. An
// empty runtime executes script directly.
func New(runtime, script string, opts ...Option) (*Client, error) {
	runtime = strings.TrimSpace(runtime)
	script = strings.TrimSpace(script)
	if runtime == "" && script == "" {
		return nil, errors.New("compiler runtime or script required")
	}
	client := &Client{
		runtime:   runtime,
		script:    script,
		args:      append([]string(nil), DefaultArgs...),
		tailLines: 20,
		exec:      commandExecutor{},
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "compiler")
	return client, nil
}

// Command resolves the invocation for dir.
func (c *Client) Command(dir string) Command {
	if c.runtime == "" {
		return Command{Binary: c.script, Args: append([]string(nil), c.args...), Dir: dir}
	}
	args := make([]string, 0, len(c.args)+1)
	if c.script != "" {
		args = append(args, c.script)
	}
	args = append(args, c.args...)
	return Command{Binary: c.runtime, Args: args, Dir: dir}
}

// Build starts the compiler in the background and returns immediately. Spawn
// failures and non-zero exits are logged and recorded on the returned Run;
// nothing is raised synchronously.
func (c *Client) Build(ctx context.Context) *Run {
	run := &Run{id: uuid.NewString(), done: make(chan struct{})}
	ctx = services.WithRunID(ctx, run.id)
	logger := logging.WithContext(ctx, c.logger)

	dir := c.workDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			run.finish(Result{
				RunID:    run.id,
				ExitCode: -1,
				Err:      fmt.Errorf("%w: resolve working directory: %w", ErrSpawn, err),
			}, logger)
			return run
		}
		dir = wd
	}
	cmd := c.Command(dir)

	go c.execute(ctx, run, cmd, logger)
	return run
}

func (c *Client) execute(ctx context.Context, run *Run, cmd Command, logger *slog.Logger) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	logger.Info("compiler starting",
		logging.String("binary", cmd.Binary),
		logging.String("args", strings.Join(cmd.Args, " ")),
		logging.String("dir", cmd.Dir),
	)

	tail := newLineTail(c.tailLines)
	start := time.Now()
	err := c.exec.Run(ctx, cmd, func(stream Stream, line string) {
		if stream == StreamStderr {
			tail.add(line)
			logger.Error(line, logging.String(logging.FieldStream, string(stream)))
			return
		}
		logger.Info(line, logging.String(logging.FieldStream, string(stream)))
	})

	result := Result{
		RunID:      run.id,
		Command:    append([]string{cmd.Binary}, cmd.Args...),
		Dir:        cmd.Dir,
		Duration:   time.Since(start),
		StderrTail: tail.lines(),
		Err:        err,
	}
	result.ExitCode, result.Signal = exitStatus(err)
	if err != nil && ctx.Err() != nil && !errors.Is(err, ErrSpawn) {
		result.Err = fmt.Errorf("%w: %w", ctx.Err(), err)
	}
	run.finish(result, logger)
}

// Run is a handle to a compiler process started by Build.
type Run struct {
	id     string
	done   chan struct{}
	once   sync.Once
	result Result
}

// ID returns the run identifier used in logs.
func (r *Run) ID() string { return r.id }

// Done is closed once the compiler exits or fails to start.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run completes and returns its result.
func (r *Run) Wait() Result {
	<-r.done
	return r.result
}

func (r *Run) finish(result Result, logger *slog.Logger) {
	r.once.Do(func() {
		r.result = result
		logResult(logger, result)
		close(r.done)
	})
}

func logResult(logger *slog.Logger, result Result) {
	attrs := []logging.Attr{
		logging.Int("exit_code", result.ExitCode),
		logging.Duration("duration", result.Duration),
	}
	switch {
	case result.SpawnFailed():
		logger.Error("compiler failed to start",
			logging.Args(append(attrs, logging.Error(result.Err), logging.String(logging.FieldEventType, "compiler_spawn_failed"))...)...)
	case !result.Success():
		if result.Signal != "" {
			attrs = append(attrs, logging.String("signal", result.Signal))
		}
		attrs = append(attrs, logging.Error(result.Err), logging.String(logging.FieldEventType, "compiler_failed"))
		logger.Error("compiler exited with failure", logging.Args(attrs...)...)
	default:
		logger.Info("compiler closed", logging.Args(attrs...)...)
	}
}

// Result describes a finished compiler run.
type Result struct {
	RunID      string
	Command    []string
	Dir        string
	ExitCode   int
	Signal     string
	Duration   time.Duration
	StderrTail []string
	Err        error
}

// Success reports a clean zero exit.
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// SpawnFailed reports that the process never started.
func (r Result) SpawnFailed() bool {
	return errors.Is(r.Err, ErrSpawn)
}

// AsError converts a failed result into an error tagged ErrExternalTool.
func (r Result) AsError() error {
	if r.Success() {
		return nil
	}
	message := fmt.Sprintf("exit code %d", r.ExitCode)
	if r.Signal != "" {
		message = "killed by " + r.Signal
	}
	if r.SpawnFailed() {
		message = "failed to start"
	}
	if len(r.StderrTail) > 0 {
		message += "; stderr: " + r.StderrTail[len(r.StderrTail)-1]
	}
	return services.Wrap(services.ErrExternalTool, "compiler", "build", message, r.Err)
}

func exitStatus(err error) (int, string) {
	if err == nil {
		return 0, ""
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), signalName(exitErr)
	}
	return -1, ""
}

type lineTail struct {
	mu    sync.Mutex
	limit int
	buf   []string
}

func newLineTail(limit int) *lineTail {
	return &lineTail{limit: limit}
}

func (t *lineTail) add(line string) {
	if t.limit <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.buf) == t.limit {
		copy(t.buf, t.buf[1:])
		t.buf = t.buf[:t.limit-1]
	}
	t.buf = append(t.buf, line)
}

func (t *lineTail) lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.buf) == 0 {
		return nil
	}
	return append([]string(nil), t.buf...)
}
