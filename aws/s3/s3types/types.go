// Package s3types provides shared type definitions for the S3 module.
package s3types

import (
	"hash"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/fs"
)

// HashFunc constructs the digest used for content comparison.
type HashFunc func() hash.Hash

// LocalFile represents a file in the local output directory during sync operations.
type LocalFile struct {
	// Key is the normalized destination key
	Key string

	// RelPath is the slash-separated path relative to the scan root, before normalization
	RelPath string

	// Path is the full local file path
	Path string

	// Size is the file size in bytes
	Size int64
}

// RemoteFile represents an S3 object during sync operations.
type RemoteFile struct {
	// Key is the S3 object key
	Key string

	// Size is the object size in bytes
	Size int64

	// ETag is the S3 entity tag
	ETag string
}

// SyncResult contains the result of a sync operation.
type SyncResult struct {
	// Bucket is the bucket that was synchronized, after any settings override
	Bucket string

	// Uploaded lists the keys written, in execution order
	Uploaded []string

	// Deleted lists the keys removed, in execution order
	Deleted []string

	// Skipped is the number of files whose content already matched
	Skipped int

	// BytesUploaded is the total bytes uploaded
	BytesUploaded int64

	// DryRun reports whether the plan was only computed
	DryRun bool

	// Duration is how long the sync operation took
	Duration time.Duration
}

// ClientConfig holds configuration for the S3 client.
type ClientConfig struct {
	Region          string
	Endpoint        string
	ForcePathStyle  bool
	CustomAWSConfig *aws.Config
	Filesystem      fs.Filesystem
	Logger          *slog.Logger
	HashFunc        HashFunc
}

// SyncOptionConfig holds configuration for sync operations via functional options.
type SyncOptionConfig struct {
	DryRun bool

	// BucketOverride replaces the bucket argument when non-empty
	BucketOverride string

	// ContentTypes maps on-disk relative paths to explicit content types
	ContentTypes map[string]string
}

type (
	// Option is a functional option for configuring the S3 client.
	Option func(*ClientConfig)

	// SyncOption is a functional option for configuring S3 sync operations.
	SyncOption func(*SyncOptionConfig)
)
