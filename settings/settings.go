// Package settings loads the optional s3.json file shipped at the root of a
// site repository.
package settings

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"

	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/fs"
)

// FileName is the settings file looked up at the snapshot root.
const FileName = "s3.json"

// Settings are per-repository deployment overrides.
type Settings struct {
	// Bucket replaces the destination bucket when non-empty.
	Bucket string `json:"bucket"`

	// ContentTypes maps output-relative paths to explicit content types.
	ContentTypes map[string]string `json:"content-type"`
}

// Load reads settings from path. A missing file yields empty settings.
// Comments and trailing commas are accepted.
func Load(filesystem fs.Filesystem, path string) (*Settings, error) {
	exists, err := filesystem.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("failed to check settings file %s: %w", path, err)
	}
	if !exists {
		return &Settings{}, nil
	}

	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	var s Settings
	if err := json.Unmarshal(jsonc.ToJSON(data), &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	return &s, nil
}

// ContentType returns the override for relPath, if any.
func (s *Settings) ContentType(relPath string) (string, bool) {
	if s == nil {
		return "", false
	}
	ct, ok := s.ContentTypes[relPath]
	return ct, ok
}

// BucketOr returns the bucket override, or fallback when none is set.
func (s *Settings) BucketOr(fallback string) string {
	if s == nil || s.Bucket == "" {
		return fallback
	}
	return s.Bucket
}
