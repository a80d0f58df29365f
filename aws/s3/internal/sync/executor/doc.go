// Package executor applies a sync plan against the bucket, uploads first
// and deletions second, stopping at the first failure.
package executor
