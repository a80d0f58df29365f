package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ferrors "github.com/input-output-hk/catalyst-forge-libs/sitedeploy/errors"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/executor"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/fs"
)

// SettingsFile selects blogc make mode when present at the snapshot root.
const SettingsFile = "settings.ini"

// stderrTailBytes bounds the stderr excerpt carried by build errors.
const stderrTailBytes = 2048

// Builder produces the static site for a snapshot.
type Builder interface {
	Name() string
	Build(ctx context.Context, root string) error
}

// Config holds what both builders pass to the build tool.
type Config struct {
	// BlogcPath is exported to the build as BLOGC.
	BlogcPath string
	// OutputDir is exported to the build as OUTPUT_DIR.
	OutputDir string
	// Debug enables verbose tool output.
	Debug bool
}

// env returns the variables added to every build invocation. The blogc
// directory is prepended to PATH so Makefiles can call blogc directly.
func (c Config) env() map[string]string {
	env := map[string]string{
		"BLOGC":      c.BlogcPath,
		"OUTPUT_DIR": c.OutputDir,
	}
	if dir := filepath.Dir(c.BlogcPath); c.BlogcPath != "" && dir != "." {
		env["PATH"] = dir + string(os.PathListSeparator) + os.Getenv("PATH")
	}
	return env
}

// lookPather is implemented by executors that can resolve their program.
type lookPather interface {
	LookPath() (string, error)
}

// run resolves and executes the tool, converting failures into build errors.
func run(
	ctx context.Context,
	name string,
	exec executor.Executor,
	logger *slog.Logger,
	args []string,
	opts ...executor.Option,
) error {
	op := "build " + name

	if lp, ok := exec.(lookPather); ok {
		if _, err := lp.LookPath(); err != nil {
			return ferrors.Wrap(ferrors.CodeBuildFailed, op, err)
		}
	}

	logger.Info("running build tool", "builder", name, "program", exec.Program(), "args", args)
	result, err := exec.Execute(ctx, args, opts...)
	if err == nil {
		logger.Info("build finished", "builder", name)
		return nil
	}

	if result == nil {
		return ferrors.Wrap(ferrors.CodeBuildFailed, op, err)
	}

	logger.Error("build failed", "builder", name, "exit_code", result.ExitCode)
	return ferrors.Wrap(ferrors.CodeBuildFailed, op, &ToolError{
		ExitCode: result.ExitCode,
		Stderr:   stderrTail(result),
		Err:      err,
	})
}

// ToolError is a non-zero exit or launch failure of the build tool.
type ToolError struct {
	ExitCode int
	// Stderr is the end of the tool's captured error output, if any.
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("failed to run the build tool (exit code %d): %v", e.ExitCode, e.Err)
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

func stderrTail(result *executor.Result) string {
	t := tail(result.Stderr, stderrTailBytes)
	if result.Truncated && t != "" && !strings.HasPrefix(t, "...") {
		t = "..." + t
	}
	return t
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

// Select returns blogc when settings.ini exists at root, make otherwise.
func Select(filesystem fs.Filesystem, root string, blogc, fallback Builder) (Builder, error) {
	ok, err := filesystem.Exists(filepath.Join(root, SettingsFile))
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeInternal, "select builder", err)
	}
	if ok {
		return blogc, nil
	}
	return fallback, nil
}
