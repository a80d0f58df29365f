package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/internal/sync/executor"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/internal/sync/planner"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/internal/sync/scanner"
)

// Manager coordinates the three phases of sync operations:
// 1. Inventory Building: Scan local filesystem and remote S3
// 2. Change Detection: Compare files and determine operations
// 3. Execution: Apply uploads then deletions
type Manager struct {
	scanner  *scanner.Scanner
	planner  *planner.Planner
	executor *executor.Executor
	logger   *slog.Logger
}

// NewManager creates a new sync manager with the provided components.
func NewManager(
	sc *scanner.Scanner,
	pl *planner.Planner,
	ex *executor.Executor,
	logger *slog.Logger,
) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		scanner:  sc,
		planner:  pl,
		executor: ex,
		logger:   logger,
	}
}

// Sync executes a complete sync operation following the three-phase approach.
// A failed execution returns the partial result alongside the error.
func (sm *Manager) Sync(ctx context.Context, config *Config) (*Result, error) {
	startTime := time.Now()

	// Phase 1: Inventory Building
	remoteObjects, err := sm.scanner.ScanRemote(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to scan remote bucket: %w", err)
	}

	localFiles, err := sm.scanner.ScanLocal(ctx, config.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to scan local directory: %w", err)
	}

	// Phase 2: Change Detection and Planning
	plan, err := sm.planner.Plan(ctx, localFiles, remoteObjects)
	if err != nil {
		return nil, fmt.Errorf("failed to plan operations: %w", err)
	}

	sm.logger.Info("sync planned",
		"bucket", config.Bucket,
		"uploads", len(plan.Uploads),
		"deletes", len(plan.Deletes),
		"skipped", plan.Skipped,
		"dry_run", config.DryRun,
	)

	if config.DryRun {
		result := &Result{Skipped: plan.Skipped}
		for _, op := range plan.Uploads {
			sm.logger.Info("would upload", "key", op.Key, "reason", op.Reason)
			result.Uploaded = append(result.Uploaded, op.Key)
		}
		for _, op := range plan.Deletes {
			sm.logger.Info("would delete", "key", op.Key)
			result.Deleted = append(result.Deleted, op.Key)
		}
		result.Duration = time.Since(startTime)
		return result, nil
	}

	// Phase 3: Execution
	execResult, err := sm.executor.Execute(ctx, &executor.Config{
		Bucket:       config.Bucket,
		ContentTypes: config.ContentTypes,
	}, plan)

	result := &Result{
		Uploaded:      execResult.Uploaded,
		Deleted:       execResult.Deleted,
		Skipped:       plan.Skipped,
		BytesUploaded: execResult.BytesUploaded,
		Duration:      time.Since(startTime),
	}
	if err != nil {
		return result, fmt.Errorf("failed to execute operations: %w", err)
	}

	return result, nil
}
