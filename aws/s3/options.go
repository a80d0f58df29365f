package s3

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/s3types"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/fs"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/settings"
)

// WithRegion sets the AWS region for S3 operations.
// If not specified, uses the region from the loaded AWS configuration.
func WithRegion(region string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Region = region
	}
}

// WithForcePathStyle forces the use of path-style URLs instead of virtual-hosted style.
// This is required for S3-compatible services that don't support virtual hosting.
func WithForcePathStyle(forcePathStyle bool) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
func WithAWSConfig(config *aws.Config) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.CustomAWSConfig = config
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services or local testing with LocalStack.
func WithEndpoint(endpoint string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithFilesystem sets the filesystem local files are read from.
// Defaults to the OS filesystem.
func WithFilesystem(filesystem fs.Filesystem) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithLogger sets the logger used for sync progress.
func WithLogger(logger *slog.Logger) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Logger = logger
	}
}

// WithHashFunc sets the digest used to compare local and remote content.
// Defaults to BLAKE3.
func WithHashFunc(hashFunc s3types.HashFunc) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.HashFunc = hashFunc
	}
}

// Sync options

// WithSyncDryRun enables dry-run mode for sync operations.
// In dry-run mode, operations are planned and logged but not executed.
func WithSyncDryRun(dryRun bool) s3types.SyncOption {
	return func(c *s3types.SyncOptionConfig) {
		c.DryRun = dryRun
	}
}

// WithSyncSettings applies repository settings: the bucket override and
// per-path content types.
func WithSyncSettings(s *settings.Settings) s3types.SyncOption {
	return func(c *s3types.SyncOptionConfig) {
		if s == nil {
			return
		}
		c.BucketOverride = s.Bucket
		c.ContentTypes = s.ContentTypes
	}
}

// WithSyncContentTypes sets explicit content types keyed by relative path.
func WithSyncContentTypes(contentTypes map[string]string) s3types.SyncOption {
	return func(c *s3types.SyncOptionConfig) {
		c.ContentTypes = contentTypes
	}
}
