package build

import (
	"context"
	"log/slog"

	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/executor"
)

// MakeBuilder runs "make -C root" for snapshots without settings.ini.
type MakeBuilder struct {
	exec   executor.Executor
	cfg    Config
	logger *slog.Logger
}

var _ Builder = (*MakeBuilder)(nil)

// NewMakeBuilder creates a MakeBuilder. exec runs the make binary.
func NewMakeBuilder(exec executor.Executor, cfg Config, logger *slog.Logger) *MakeBuilder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MakeBuilder{exec: exec, cfg: cfg, logger: logger}
}

// Name implements Builder.
func (m *MakeBuilder) Name() string {
	return "make"
}

// Build implements Builder. Output is captured and dropped unless debugging.
func (m *MakeBuilder) Build(ctx context.Context, root string) error {
	opts := []executor.Option{
		executor.WithEnv(m.cfg.env()),
		executor.SilentMode(),
		executor.WithCaptureLimit(stderrTailBytes),
	}
	if m.cfg.Debug {
		opts = append(opts, executor.WithConsoleRedirect(true))
	}
	return run(ctx, m.Name(), m.exec, m.logger, []string{"-C", root}, opts...)
}
