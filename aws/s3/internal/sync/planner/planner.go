package planner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/internal/sync/comparator"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/s3types"
)

// Planner creates operation plans for sync operations.
type Planner struct {
	comparator comparator.Comparator
	logger     *slog.Logger
}

// NewPlanner creates a new planner with the given comparator.
func NewPlanner(comp comparator.Comparator, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Planner{
		comparator: comp,
		logger:     logger,
	}
}

// Operation represents a planned sync operation.
type Operation struct {
	// Type of operation (upload, delete)
	Type OperationType

	// Key is the destination object key
	Key string

	// LocalPath is the local file path (for uploads)
	LocalPath string

	// RelPath is the un-normalized relative path (for uploads)
	RelPath string

	// Size is the file/object size in bytes
	Size int64

	// Reason describes why this operation was planned
	Reason string
}

// OperationType defines the type of sync operation.
type OperationType string

const (
	// OperationUpload indicates a file needs to be uploaded
	OperationUpload OperationType = "upload"

	// OperationDelete indicates a remote file needs to be deleted
	OperationDelete OperationType = "delete"
)

// Plan is the outcome of reconciling the two inventories.
type Plan struct {
	// Uploads are sorted by key
	Uploads []*Operation

	// Deletes are sorted by key
	Deletes []*Operation

	// Skipped counts keys present on both sides with equal content
	Skipped int
}

// Empty reports whether the plan changes nothing.
func (p *Plan) Empty() bool {
	return len(p.Uploads) == 0 && len(p.Deletes) == 0
}

// Plan creates an execution plan from local files and remote objects.
//
// Local files are expected in walk order. When two files normalize to the
// same key the later one wins and the earlier one is reported at WARN.
func (p *Planner) Plan(
	ctx context.Context,
	localFiles []*s3types.LocalFile,
	remoteObjects []*s3types.RemoteFile,
) (*Plan, error) {
	localMap := p.buildLocalMap(localFiles)
	remoteMap := buildRemoteMap(remoteObjects)

	plan := &Plan{}

	for _, key := range sortedKeys(localMap) {
		localFile := localMap[key]
		remoteFile, exists := remoteMap[key]

		if !exists {
			plan.Uploads = append(plan.Uploads, uploadOp(localFile, "new file"))
			continue
		}

		changed, err := p.comparator.HasChanged(ctx, localFile, remoteFile)
		if err != nil {
			return nil, fmt.Errorf("failed to compare %s: %w", key, err)
		}

		if changed {
			plan.Uploads = append(plan.Uploads, uploadOp(localFile, "modified"))
		} else {
			plan.Skipped++
		}
	}

	for _, key := range sortedKeys(remoteMap) {
		if _, exists := localMap[key]; exists {
			continue
		}
		remoteFile := remoteMap[key]
		plan.Deletes = append(plan.Deletes, &Operation{
			Type:   OperationDelete,
			Key:    remoteFile.Key,
			Size:   remoteFile.Size,
			Reason: "extra remote file",
		})
	}

	return plan, nil
}

// buildLocalMap indexes local files by normalized key.
func (p *Planner) buildLocalMap(files []*s3types.LocalFile) map[string]*s3types.LocalFile {
	localMap := make(map[string]*s3types.LocalFile, len(files))

	for _, file := range files {
		if prev, ok := localMap[file.Key]; ok {
			p.logger.Warn("local files normalize to the same key",
				"key", file.Key,
				"kept", file.RelPath,
				"dropped", prev.RelPath,
			)
		}
		localMap[file.Key] = file
	}

	return localMap
}

func buildRemoteMap(objects []*s3types.RemoteFile) map[string]*s3types.RemoteFile {
	remoteMap := make(map[string]*s3types.RemoteFile, len(objects))
	for _, obj := range objects {
		remoteMap[obj.Key] = obj
	}
	return remoteMap
}

func uploadOp(localFile *s3types.LocalFile, reason string) *Operation {
	return &Operation{
		Type:      OperationUpload,
		Key:       localFile.Key,
		LocalPath: localFile.Path,
		RelPath:   localFile.RelPath,
		Size:      localFile.Size,
		Reason:    reason,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
