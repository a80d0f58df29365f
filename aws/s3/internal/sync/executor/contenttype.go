package executor

import (
	"mime"
	"path"
)

// ContentType resolves the content type for an upload. An explicit override
// keyed by the on-disk relative path wins; otherwise the type is inferred from
// the extension. An empty result means no content type is sent.
func ContentType(relPath string, overrides map[string]string) string {
	if ct, ok := overrides[relPath]; ok {
		return ct
	}
	return mime.TypeByExtension(path.Ext(relPath))
}
