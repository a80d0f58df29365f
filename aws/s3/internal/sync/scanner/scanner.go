package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/internal/sync/naming"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/s3types"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/fs"
)

// Scanner handles scanning operations for both local filesystem and remote S3.
type Scanner struct {
	s3Client   s3api.S3API
	filesystem fs.Filesystem
	logger     *slog.Logger
}

// NewScanner creates a new scanner with the provided S3 client and filesystem.
func NewScanner(s3Client s3api.S3API, filesystem fs.Filesystem, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{
		s3Client:   s3Client,
		filesystem: filesystem,
		logger:     logger,
	}
}

// ScanLocal walks localPath and returns every file in lexical walk order,
// each carrying its normalized destination key. Symlinks to files count as
// files; symlinks to directories and broken symlinks are skipped.
func (s *Scanner) ScanLocal(ctx context.Context, localPath string) ([]*s3types.LocalFile, error) {
	var files []*s3types.LocalFile

	err := s.filesystem.Walk(localPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Walk reports links unresolved. Linked directories are not descended
		// into and linked files are uploaded with the target's content.
		if info.Mode()&os.ModeSymlink != 0 {
			target, statErr := s.filesystem.Stat(path)
			if statErr != nil {
				s.logger.Warn("skipping broken symlink", "path", path, "error", statErr)
				return nil
			}
			if target.IsDir() {
				s.logger.Debug("skipping symlink to directory", "path", path)
				return nil
			}
			info = target
		}

		relPath, err := filepath.Rel(localPath, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		files = append(files, &s3types.LocalFile{
			Key:     naming.IndexKey(relPath),
			RelPath: relPath,
			Path:    path,
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", localPath, err)
	}

	s.logger.Debug("scanned local directory", "path", localPath, "files", len(files))
	return files, nil
}

// ScanRemote lists every object in bucket. Keys ending in "/" are directory
// placeholders and are left out.
func (s *Scanner) ScanRemote(ctx context.Context, bucket string) ([]*s3types.RemoteFile, error) {
	var objects []*s3types.RemoteFile
	var continuationToken *string

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during S3 listing: %w", ctx.Err())
		default:
		}

		input := &s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			ContinuationToken: continuationToken,
			MaxKeys:           aws.Int32(1000),
		}

		result, err := s.s3Client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in bucket %s: %w", bucket, err)
		}

		for _, obj := range result.Contents {
			key := aws.ToString(obj.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}

			remoteFile := &s3types.RemoteFile{
				Key:  key,
				Size: aws.ToInt64(obj.Size),
			}
			if obj.ETag != nil {
				remoteFile.ETag = strings.Trim(*obj.ETag, `"`)
			}

			objects = append(objects, remoteFile)
		}

		if !aws.ToBool(result.IsTruncated) {
			break
		}

		continuationToken = result.NextContinuationToken
	}

	s.logger.Debug("listed bucket", "bucket", bucket, "objects", len(objects))
	return objects, nil
}
