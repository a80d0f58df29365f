package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	s3errors "github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/errors"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/internal/sync/planner"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/fs"
)

// MaxDeleteBatch is the largest number of keys S3 accepts per DeleteObjects call.
const MaxDeleteBatch = 1000

// Executor applies planned operations one at a time.
type Executor struct {
	s3Client   s3api.S3API
	filesystem fs.Filesystem
	logger     *slog.Logger
}

// NewExecutor creates a new executor.
func NewExecutor(s3Client s3api.S3API, filesystem fs.Filesystem, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{
		s3Client:   s3Client,
		filesystem: filesystem,
		logger:     logger,
	}
}

// Config holds per-run execution settings.
type Config struct {
	Bucket string

	// ContentTypes maps on-disk relative paths to explicit content types
	ContentTypes map[string]string
}

// Result records what was written. On error it reflects the operations that
// completed before the failure.
type Result struct {
	Uploaded      []string
	Deleted       []string
	BytesUploaded int64
}

// Execute runs all uploads, then all deletions. The first failure stops the run.
func (e *Executor) Execute(ctx context.Context, config *Config, plan *planner.Plan) (*Result, error) {
	result := &Result{}

	for _, op := range plan.Uploads {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := e.uploadFile(ctx, config, op, result); err != nil {
			return result, err
		}
	}

	for i := 0; i < len(plan.Deletes); i += MaxDeleteBatch {
		end := min(i+MaxDeleteBatch, len(plan.Deletes))
		if err := e.executeDeleteBatch(ctx, config, plan.Deletes[i:end], result); err != nil {
			return result, err
		}
	}

	return result, nil
}

// uploadFile uploads a single file to S3.
func (e *Executor) uploadFile(
	ctx context.Context,
	config *Config,
	op *planner.Operation,
	result *Result,
) error {
	data, err := e.filesystem.ReadFile(op.LocalPath)
	if err != nil {
		return s3errors.NewObjectError("put", config.Bucket, op.Key,
			fmt.Errorf("failed to read %s: %w", op.LocalPath, err))
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(config.Bucket),
		Key:           aws.String(op.Key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}

	contentType := ContentType(op.RelPath, config.ContentTypes)
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := e.s3Client.PutObject(ctx, input); err != nil {
		return s3errors.NewObjectError("put", config.Bucket, op.Key, err)
	}

	e.logger.Info("uploaded object",
		"bucket", config.Bucket,
		"key", op.Key,
		"content_type", contentType,
		"reason", op.Reason,
	)

	result.Uploaded = append(result.Uploaded, op.Key)
	result.BytesUploaded += int64(len(data))
	return nil
}

// executeDeleteBatch executes a single batch of delete operations.
func (e *Executor) executeDeleteBatch(
	ctx context.Context,
	config *Config,
	operations []*planner.Operation,
	result *Result,
) error {
	objects := make([]types.ObjectIdentifier, 0, len(operations))
	for _, op := range operations {
		objects = append(objects, types.ObjectIdentifier{
			Key: aws.String(op.Key),
		})
	}

	output, err := e.s3Client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(config.Bucket),
		Delete: &types.Delete{
			Objects: objects,
		},
	})
	if err != nil {
		return s3errors.NewBucketError("delete", config.Bucket, err)
	}

	failed := make(map[string]bool, len(output.Errors))
	var errs []error
	for _, deleteError := range output.Errors {
		key := aws.ToString(deleteError.Key)
		failed[key] = true
		errs = append(errs, s3errors.NewObjectError("delete", config.Bucket, key,
			fmt.Errorf("%w: %s: %s",
				s3errors.ErrPartialDelete,
				aws.ToString(deleteError.Code),
				aws.ToString(deleteError.Message),
			)))
	}

	for _, op := range operations {
		if failed[op.Key] {
			continue
		}
		e.logger.Info("deleted object", "bucket", config.Bucket, "key", op.Key)
		result.Deleted = append(result.Deleted, op.Key)
	}

	return errors.Join(errs...)
}
