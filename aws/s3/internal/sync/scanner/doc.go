// Package scanner walks the local output directory and lists the bucket.
package scanner
