// Package executor runs external commands with output capture,
// console redirection and per-command environment variables.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
)

// Result holds the output and error from a command execution
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error

	// Truncated is set when CaptureLimit discarded output from either stream.
	Truncated bool
}

// Executor defines the interface for running a fixed program with varying arguments
type Executor interface {
	// Program returns the program this executor runs
	Program() string

	// Execute runs the program with args and the given options
	Execute(ctx context.Context, args []string, opts ...Option) (*Result, error)
}

// Options configures command execution behavior
type Options struct {
	// Output handling
	CaptureStdout     bool
	CaptureStderr     bool
	RedirectToConsole bool

	// CaptureLimit keeps only the last CaptureLimit bytes of each captured
	// stream. Zero captures everything.
	CaptureLimit int

	// Working directory
	WorkingDir string

	// Environment variables (appended to the current process env, which is never modified)
	Env map[string]string

	// Custom stdout/stderr writers
	StdoutWriter io.Writer
	StderrWriter io.Writer
}

// Option is a function that modifies Options
type Option func(*Options)

// DefaultOptions returns default execution options
func DefaultOptions() *Options {
	return &Options{
		CaptureStdout:     true,
		CaptureStderr:     true,
		RedirectToConsole: false,
		Env:               make(map[string]string),
	}
}

// CommandExecutor runs a single program invocation
type CommandExecutor struct {
	program string
	args    []string
	options *Options
}

// New creates a new CommandExecutor
func New(program string, args ...string) *CommandExecutor {
	return &CommandExecutor{
		program: program,
		args:    args,
		options: DefaultOptions(),
	}
}

// WrappedExecutor provides a clean interface for a specific program
type WrappedExecutor struct {
	program string
	options *Options
}

var _ Executor = (*WrappedExecutor)(nil)

// NewWrappedExecutor creates an executor for a specific program
func NewWrappedExecutor(program string) *WrappedExecutor {
	return &WrappedExecutor{
		program: program,
		options: DefaultOptions(),
	}
}

// Program implements Executor.
func (w *WrappedExecutor) Program() string {
	return w.program
}

// Command creates a new executor for the wrapped program with specific arguments
func (w *WrappedExecutor) Command(args ...string) *CommandExecutor {
	return &CommandExecutor{
		program: w.program,
		args:    args,
		options: w.options,
	}
}

// Execute implements Executor.
func (w *WrappedExecutor) Execute(
	ctx context.Context,
	args []string,
	opts ...Option,
) (*Result, error) {
	result, err := w.Command(args...).Execute(ctx, opts...)
	if err != nil {
		return result, fmt.Errorf("failed to execute %s with args %v: %w", w.program, args, err)
	}
	return result, nil
}

// LookPath resolves the wrapped program the way exec.Command would.
func (w *WrappedExecutor) LookPath() (string, error) {
	path, err := exec.LookPath(w.program)
	if err != nil {
		return "", fmt.Errorf("program %q not found: %w", w.program, err)
	}
	return path, nil
}

// Execute runs the command
func (c *CommandExecutor) Execute(ctx context.Context, opts ...Option) (*Result, error) {
	options := c.mergeOptions(opts...)

	cmd := exec.CommandContext(ctx, c.program, c.args...)
	c.setupCommand(cmd, options)
	stdoutBuf, stderrBuf := c.setupOutputCapture(cmd, options)

	err := cmd.Run()

	result := c.createResult(stdoutBuf, stderrBuf, err)
	if err != nil {
		return result, fmt.Errorf("command execution failed: %w", err)
	}
	return result, nil
}

// setupCommand configures the exec.Cmd with working directory and environment
func (c *CommandExecutor) setupCommand(cmd *exec.Cmd, options *Options) {
	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}

	if len(options.Env) > 0 {
		keys := make([]string, 0, len(options.Env))
		for k := range options.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		cmd.Env = os.Environ()
		for _, k := range keys {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, options.Env[k]))
		}
	}
}

// setupOutputCapture configures stdout and stderr writers for the command
func (c *CommandExecutor) setupOutputCapture(
	cmd *exec.Cmd,
	options *Options,
) (*tailBuffer, *tailBuffer) {
	stdoutBuf := &tailBuffer{limit: options.CaptureLimit}
	stderrBuf := &tailBuffer{limit: options.CaptureLimit}

	stdoutWriters := []io.Writer{}
	if options.CaptureStdout {
		stdoutWriters = append(stdoutWriters, stdoutBuf)
	}
	if options.RedirectToConsole {
		stdoutWriters = append(stdoutWriters, os.Stdout)
	}
	if options.StdoutWriter != nil {
		stdoutWriters = append(stdoutWriters, options.StdoutWriter)
	}
	if len(stdoutWriters) > 0 {
		cmd.Stdout = io.MultiWriter(stdoutWriters...)
	}

	stderrWriters := []io.Writer{}
	if options.CaptureStderr {
		stderrWriters = append(stderrWriters, stderrBuf)
	}
	if options.RedirectToConsole {
		stderrWriters = append(stderrWriters, os.Stderr)
	}
	if options.StderrWriter != nil {
		stderrWriters = append(stderrWriters, options.StderrWriter)
	}
	if len(stderrWriters) > 0 {
		cmd.Stderr = io.MultiWriter(stderrWriters...)
	}

	return stdoutBuf, stderrBuf
}

// createResult creates a Result from command execution and error
func (c *CommandExecutor) createResult(stdoutBuf, stderrBuf *tailBuffer, err error) *Result {
	result := &Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
		Err:    err,

		Truncated: stdoutBuf.Truncated() || stderrBuf.Truncated(),
	}

	var exitErr *exec.ExitError
	switch {
	case err != nil && errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	case err == nil:
		result.ExitCode = 0
	default:
		result.ExitCode = -1
	}

	return result
}

func (c *CommandExecutor) mergeOptions(opts ...Option) *Options {
	merged := *c.options
	merged.Env = make(map[string]string, len(c.options.Env))
	for k, v := range c.options.Env {
		merged.Env[k] = v
	}

	for _, opt := range opts {
		opt(&merged)
	}

	return &merged
}

// Option functions for fluent configuration

// WithCapture configures output capture
func WithCapture(stdout, stderr bool) Option {
	return func(o *Options) {
		o.CaptureStdout = stdout
		o.CaptureStderr = stderr
	}
}

// WithCaptureLimit bounds each captured stream to its last n bytes.
func WithCaptureLimit(n int) Option {
	return func(o *Options) {
		o.CaptureLimit = n
	}
}

// WithConsoleRedirect enables/disables console output
func WithConsoleRedirect(redirect bool) Option {
	return func(o *Options) {
		o.RedirectToConsole = redirect
	}
}

// WithWorkingDir sets the working directory
func WithWorkingDir(dir string) Option {
	return func(o *Options) {
		o.WorkingDir = dir
	}
}

// WithEnv adds environment variables
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string)
		}
		for k, v := range env {
			o.Env[k] = v
		}
	}
}

// WithEnvVar adds a single environment variable
func WithEnvVar(key, value string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string)
		}
		o.Env[key] = value
	}
}

// WithStdoutWriter sets a custom stdout writer
func WithStdoutWriter(w io.Writer) Option {
	return func(o *Options) {
		o.StdoutWriter = w
	}
}

// WithStderrWriter sets a custom stderr writer
func WithStderrWriter(w io.Writer) Option {
	return func(o *Options) {
		o.StderrWriter = w
	}
}

// Convenience functions for common patterns

// SilentMode captures output without console redirect
func SilentMode() Option {
	return func(o *Options) {
		o.CaptureStdout = true
		o.CaptureStderr = true
		o.RedirectToConsole = false
	}
}
