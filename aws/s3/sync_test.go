package s3

import (
	"bytes"
	"context"
	"crypto/sha1"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/errors"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/internal/testutil"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/fs"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/fs/billy"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/settings"
)

func newTestClient(t *testing.T, bucket *testutil.FakeBucket, files map[string]string) (*Client, fs.Filesystem) {
	t.Helper()

	filesystem := billy.NewInMemoryFS()
	for name, content := range files {
		require.NoError(t, filesystem.WriteFile("/out/"+name, []byte(content), 0o644))
	}

	return NewWithClient(bucket, WithFilesystem(filesystem)), filesystem
}

func TestClient_Sync(t *testing.T) {
	ctx := context.Background()

	t.Run("built index pages land on index.html", func(t *testing.T) {
		bucket := testutil.NewFakeBucket("site")
		client, _ := newTestClient(t, bucket, map[string]string{"a.html": "A", "index.md": "I"})

		result, err := client.Sync(ctx, "/out", "site")
		require.NoError(t, err)

		assert.Equal(t, []string{"a.html", "index.html"}, result.Uploaded)
		assert.Equal(t, []string{"a.html", "index.html"}, bucket.Keys())
		assert.Equal(t, "site", result.Bucket)
	})

	t.Run("upload, delete and skip partition", func(t *testing.T) {
		bucket := testutil.NewFakeBucket("site")
		bucket.Seed(map[string]string{"old.html": "old", "a.html": "same"})
		client, _ := newTestClient(t, bucket, map[string]string{"a.html": "same", "b.html": "new"})

		result, err := client.Sync(ctx, "/out", "site")
		require.NoError(t, err)

		assert.Equal(t, []string{"b.html"}, result.Uploaded)
		assert.Equal(t, []string{"old.html"}, result.Deleted)
		assert.Equal(t, 1, result.Skipped)
	})

	t.Run("idempotent", func(t *testing.T) {
		bucket := testutil.NewFakeBucket("site")
		client, filesystem := newTestClient(t, bucket, map[string]string{
			"index.html": "home", "about/index.md": "about", "x.js": "js",
		})

		_, err := client.Sync(ctx, "/out", "site")
		require.NoError(t, err)

		bucket.ResetCounters()
		result, err := client.Sync(ctx, "/out", "site")
		require.NoError(t, err)
		assert.Empty(t, result.Uploaded)
		assert.Empty(t, result.Deleted)
		assert.Zero(t, bucket.Puts+bucket.Deletes)

		require.NoError(t, filesystem.WriteFile("/out/x.js", []byte("jz"), 0o644))
		result, err = client.Sync(ctx, "/out", "site")
		require.NoError(t, err)
		assert.Equal(t, []string{"x.js"}, result.Uploaded, "same size, different content")
	})

	t.Run("settings override bucket and content types", func(t *testing.T) {
		bucket := testutil.NewFakeBucket("www.example.org")
		client, _ := newTestClient(t, bucket, map[string]string{
			"feed":         "<rss/>",
			"page.html":    "<p/>",
			"data.unknown": "?",
		})

		s := &settings.Settings{
			Bucket:       "www.example.org",
			ContentTypes: map[string]string{"feed": "application/rss+xml", "page.html": "text/plain"},
		}

		result, err := client.Sync(ctx, "/out", "repo-name", WithSyncSettings(s))
		require.NoError(t, err)
		assert.Equal(t, "www.example.org", result.Bucket)

		feed, _ := bucket.Object("feed")
		assert.Equal(t, "application/rss+xml", aws.ToString(feed.ContentType))

		page, _ := bucket.Object("page.html")
		assert.Equal(t, "text/plain", aws.ToString(page.ContentType))

		unknown, _ := bucket.Object("data.unknown")
		assert.Nil(t, unknown.ContentType)
	})

	t.Run("override is keyed by the on-disk path of a normalized file", func(t *testing.T) {
		bucket := testutil.NewFakeBucket("site")
		client, _ := newTestClient(t, bucket, map[string]string{
			"index.md":       "# home",
			"docs/index.zzq": "# docs",
		})

		s := &settings.Settings{
			ContentTypes: map[string]string{
				"index.md":   "text/html; charset=utf-8",
				"index.html": "application/octet-stream",
			},
		}

		result, err := client.Sync(ctx, "/out", "site", WithSyncSettings(s))
		require.NoError(t, err)
		assert.Equal(t, []string{"docs/index.html", "index.html"}, result.Uploaded)

		home, ok := bucket.Object("index.html")
		require.True(t, ok)
		assert.Equal(t, "text/html; charset=utf-8", aws.ToString(home.ContentType))

		docs, ok := bucket.Object("docs/index.html")
		require.True(t, ok)
		assert.Nil(t, docs.ContentType, "docs/index.zzq has no override and no registered type")
	})

	t.Run("symlinked directory in output", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "out")
		require.NoError(t, os.MkdirAll(filepath.Join(out, "real"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(out, "real", "a.html"), []byte("a"), 0o644))
		require.NoError(t, os.Symlink("real", filepath.Join(out, "alias")))

		bucket := testutil.NewFakeBucket("site")
		client := NewWithClient(bucket, WithFilesystem(billy.NewOSFS()))

		result, err := client.Sync(ctx, out, "site")
		require.NoError(t, err)
		assert.Equal(t, []string{"real/a.html"}, result.Uploaded)
		assert.Equal(t, []string{"real/a.html"}, bucket.Keys())
	})

	t.Run("content type from extension", func(t *testing.T) {
		bucket := testutil.NewFakeBucket("site")
		client, _ := newTestClient(t, bucket, map[string]string{"style.css": "body{}"})

		_, err := client.Sync(ctx, "/out", "site", WithSyncContentTypes(nil))
		require.NoError(t, err)

		obj, _ := bucket.Object("style.css")
		assert.True(t, strings.HasPrefix(aws.ToString(obj.ContentType), "text/css"))
	})

	t.Run("dry run", func(t *testing.T) {
		bucket := testutil.NewFakeBucket("site")
		bucket.Seed(map[string]string{"old.html": "o"})
		client, _ := newTestClient(t, bucket, map[string]string{"new.html": "n"})

		result, err := client.Sync(ctx, "/out", "site", WithSyncDryRun(true))
		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.Equal(t, []string{"new.html"}, result.Uploaded)
		assert.Equal(t, []string{"old.html"}, bucket.Keys())
	})

	t.Run("custom hash", func(t *testing.T) {
		bucket := testutil.NewFakeBucket("site")
		bucket.Seed(map[string]string{"a.html": "A"})

		filesystem := billy.NewInMemoryFS()
		require.NoError(t, filesystem.WriteFile("/out/a.html", []byte("A"), 0o644))
		client := NewWithClient(bucket, WithFilesystem(filesystem), WithHashFunc(sha1.New))

		result, err := client.Sync(ctx, "/out", "site")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Skipped)
	})
}

func TestClient_SyncErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty inputs", func(t *testing.T) {
		client, _ := newTestClient(t, testutil.NewFakeBucket("site"), nil)

		_, err := client.Sync(ctx, "", "site")
		assert.True(t, errors.IsInvalidInput(err))

		_, err = client.Sync(ctx, "/out", "")
		assert.True(t, errors.IsInvalidInput(err))
	})

	t.Run("missing bucket is classified", func(t *testing.T) {
		client, _ := newTestClient(t, testutil.NewFakeBucket("site"), map[string]string{"a.html": "A"})

		_, err := client.Sync(ctx, "/out", "other")
		require.Error(t, err)
		assert.True(t, errors.IsBucketNotFound(err))
	})
}

func TestClient_SyncLogsProgress(t *testing.T) {
	var logs bytes.Buffer
	bucket := testutil.NewFakeBucket("site")
	bucket.Seed(map[string]string{"gone.html": "g"})

	filesystem := billy.NewInMemoryFS()
	require.NoError(t, filesystem.WriteFile("/out/a.html", []byte("A"), 0o644))

	client := NewWithClient(bucket,
		WithFilesystem(filesystem),
		WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))),
	)

	_, err := client.Sync(context.Background(), "/out", "site")
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, `"msg":"uploaded object"`)
	assert.Contains(t, out, `"key":"a.html"`)
	assert.Contains(t, out, `"msg":"deleted object"`)
	assert.Contains(t, out, `"key":"gone.html"`)
}
