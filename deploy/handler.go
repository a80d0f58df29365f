package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aws/aws-lambda-go/events"

	s3 "github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/s3types"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/build"
	ferrors "github.com/input-output-hk/catalyst-forge-libs/sitedeploy/errors"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/fs"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/settings"
)

// Fetcher retrieves a repository snapshot and returns its root directory.
type Fetcher interface {
	Fetch(ctx context.Context, fullName string) (string, error)
}

// Syncer mirrors a local directory into a bucket.
type Syncer interface {
	Sync(ctx context.Context, localPath, bucket string, opts ...s3types.SyncOption) (*s3types.SyncResult, error)
}

// BuilderSelector picks the builder for a snapshot root.
type BuilderSelector func(root string) (build.Builder, error)

// Config holds the handler settings.
type Config struct {
	// PrimaryRef is the only ref that triggers a deployment, e.g. "refs/heads/master".
	PrimaryRef string
	// OutputDir is the build output directory relative to the snapshot root.
	OutputDir string
}

// Handler runs the deployment pipeline for push notifications.
type Handler struct {
	cfg           Config
	fetcher       Fetcher
	selectBuilder BuilderSelector
	syncer        Syncer
	fs            fs.Filesystem
	logger        *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(
	cfg Config,
	fetcher Fetcher,
	selectBuilder BuilderSelector,
	syncer Syncer,
	filesystem fs.Filesystem,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		cfg:           cfg,
		fetcher:       fetcher,
		selectBuilder: selectBuilder,
		syncer:        syncer,
		fs:            filesystem,
		logger:        logger,
	}
}

// Handle processes an SNS event carrying a GitHub push notification.
// Only the first record is processed.
func (h *Handler) Handle(ctx context.Context, event events.SNSEvent) error {
	if len(event.Records) == 0 {
		return ferrors.New(ferrors.CodeInvalidInput, "handle", "event has no records")
	}
	if len(event.Records) > 1 {
		h.logger.Warn("event has multiple records, processing only the first",
			"records", len(event.Records),
			"message_id", event.Records[0].SNS.MessageID)
	}

	push, err := ParsePushEvent(event.Records[0].SNS.Message)
	if err != nil {
		return err
	}

	logger := h.logger.With(
		"repository", push.Repository.FullName,
		"ref", push.Ref,
		"commit", push.After)

	if push.Ref != h.cfg.PrimaryRef {
		logger.Info("ignoring push to non-primary ref", "primary_ref", h.cfg.PrimaryRef)
		return nil
	}

	return h.deploy(ctx, push, logger)
}

func (h *Handler) deploy(ctx context.Context, push *PushEvent, logger *slog.Logger) error {
	start := time.Now()

	if push.Repository.FullName == "" {
		return ferrors.New(ferrors.CodeInvalidInput, "handle", "push payload has no repository.full_name")
	}

	logger.Info("deployment started")

	root, err := h.fetcher.Fetch(ctx, push.Repository.FullName)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", push.Repository.FullName, err)
	}

	builder, err := h.selectBuilder(root)
	if err != nil {
		return fmt.Errorf("select builder: %w", err)
	}
	logger.Info("building site", "builder", builder.Name(), "root", root)
	if err := builder.Build(ctx, root); err != nil {
		return fmt.Errorf("build: %w", err)
	}

	siteSettings, err := settings.Load(h.fs, filepath.Join(root, settings.FileName))
	if err != nil {
		return ferrors.Wrap(ferrors.CodeInvalidInput, "load settings", err)
	}

	outputDir := filepath.Join(root, h.cfg.OutputDir)
	bucket := siteSettings.BucketOr(push.Repository.Name)
	result, err := h.syncer.Sync(ctx, outputDir, bucket, s3.WithSyncSettings(siteSettings))
	if err != nil {
		return fmt.Errorf("sync %s: %w", bucket, err)
	}

	logger.Info("deployment complete",
		"bucket", result.Bucket,
		"uploaded", len(result.Uploaded),
		"deleted", len(result.Deleted),
		"skipped", result.Skipped,
		"duration", time.Since(start))
	return nil
}
