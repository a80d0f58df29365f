package s3

import (
	"context"

	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/errors"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/internal/sync/comparator"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/internal/sync/executor"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/internal/sync/planner"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/internal/sync/scanner"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/internal/sync/sync"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/s3types"
)

// Sync makes bucket match the files under localPath.
//
// The sync operation follows a three-phase approach:
// 1. Inventory: list the bucket and walk the local directory
// 2. Planning: upload new or changed keys, delete keys with no local file
// 3. Execution: uploads, then deletions, stopping at the first failure
//
// A settings bucket override (WithSyncSettings) replaces bucket. On failure
// the returned result, when non-nil, lists the operations that completed.
//
// Errors:
//   - ErrInvalidInput: If localPath or the effective bucket is empty
//   - ErrAccessDenied: If credentials lack required permissions
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - ErrPartialDelete: If a batch delete reported per-key failures
//   - File system errors for local path access
//
// Example:
//
//	result, err := client.Sync(ctx, "/tmp/site/_build_lambda", "www.example.org",
//	    s3.WithSyncSettings(siteSettings),
//	)
//	if err != nil {
//	    return fmt.Errorf("sync failed: %w", err)
//	}
//	fmt.Printf("Uploaded %d, deleted %d\n", len(result.Uploaded), len(result.Deleted))
func (c *Client) Sync(
	ctx context.Context,
	localPath, bucket string,
	opts ...s3types.SyncOption,
) (*s3types.SyncResult, error) {
	cfg := &s3types.SyncOptionConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.BucketOverride != "" {
		c.logger.Debug("bucket overridden by settings", "from", bucket, "to", cfg.BucketOverride)
		bucket = cfg.BucketOverride
	}

	if localPath == "" {
		return nil, errors.NewValidationError("localPath cannot be empty")
	}
	if bucket == "" {
		return nil, errors.NewValidationError("bucket cannot be empty")
	}

	logger := c.logger.With("bucket", bucket)

	manager := sync.NewManager(
		scanner.NewScanner(c.s3Client, c.fs, logger),
		planner.NewPlanner(comparator.NewChecksumComparator(c.s3Client, c.fs, bucket, c.hashFunc), logger),
		executor.NewExecutor(c.s3Client, c.fs, logger),
		logger,
	)

	result, err := manager.Sync(ctx, &sync.Config{
		LocalPath:    localPath,
		Bucket:       bucket,
		ContentTypes: cfg.ContentTypes,
		DryRun:       cfg.DryRun,
	})

	var out *s3types.SyncResult
	if result != nil {
		out = &s3types.SyncResult{
			Bucket:        bucket,
			Uploaded:      result.Uploaded,
			Deleted:       result.Deleted,
			Skipped:       result.Skipped,
			BytesUploaded: result.BytesUploaded,
			DryRun:        cfg.DryRun,
			Duration:      result.Duration,
		}
	}

	if err != nil {
		return out, errors.NewBucketError("sync", bucket, err)
	}

	logger.Info("sync complete",
		"uploaded", len(out.Uploaded),
		"deleted", len(out.Deleted),
		"skipped", out.Skipped,
		"duration", out.Duration,
	)
	return out, nil
}
