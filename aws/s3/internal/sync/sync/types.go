package sync

import (
	"time"
)

// Config holds configuration for a sync operation.
type Config struct {
	// LocalPath is the local directory to sync from
	LocalPath string

	// Bucket is the S3 bucket to sync to
	Bucket string

	// ContentTypes maps on-disk relative paths to explicit content types
	ContentTypes map[string]string

	// DryRun determines if this should be a dry run (no actual changes)
	DryRun bool
}

// Result contains the results of a sync operation.
type Result struct {
	// Uploaded lists keys written (or that would be written on a dry run)
	Uploaded []string

	// Deleted lists keys removed (or that would be removed on a dry run)
	Deleted []string

	// Skipped is the number of files whose content already matched
	Skipped int

	// BytesUploaded is the total bytes uploaded
	BytesUploaded int64

	// Duration is how long the sync operation took
	Duration time.Duration
}
