// Package naming maps local output paths onto bucket keys.
package naming

import "strings"

// IndexFile is the single index document name the bucket website serves.
const IndexFile = "index.html"

// IndexKey collapses a final segment of the form "index.<ext>" onto
// "index.html". Any other path is returned unchanged.
func IndexKey(p string) string {
	segments := strings.Split(p, "/")
	last := segments[len(segments)-1]

	parts := strings.Split(last, ".")
	if len(parts) != 2 || parts[0] != "index" {
		return p
	}

	segments[len(segments)-1] = IndexFile
	return strings.Join(segments, "/")
}
