package build

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/executor"
)

// BlogcBuilder runs "blogc -m" against the snapshot's settings.ini.
type BlogcBuilder struct {
	exec   executor.Executor
	cfg    Config
	logger *slog.Logger
}

var _ Builder = (*BlogcBuilder)(nil)

// NewBlogcBuilder creates a BlogcBuilder. exec runs the blogc binary.
func NewBlogcBuilder(exec executor.Executor, cfg Config, logger *slog.Logger) *BlogcBuilder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BlogcBuilder{exec: exec, cfg: cfg, logger: logger}
}

// Name implements Builder.
func (b *BlogcBuilder) Name() string {
	return "blogc"
}

// Build implements Builder. Tool output goes straight to the log stream.
func (b *BlogcBuilder) Build(ctx context.Context, root string) error {
	args := []string{"-m", "-f", filepath.Join(root, SettingsFile), "all"}
	if b.cfg.Debug {
		args = append(args, "-V")
	}
	return run(ctx, b.Name(), b.exec, b.logger, args,
		executor.WithWorkingDir(root),
		executor.WithEnv(b.cfg.env()),
		executor.WithCapture(false, true),
		executor.WithCaptureLimit(stderrTailBytes),
		executor.WithConsoleRedirect(true),
	)
}
