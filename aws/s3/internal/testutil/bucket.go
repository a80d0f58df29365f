package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/internal/s3api"
)

// StoredObject is an object held by FakeBucket.
type StoredObject struct {
	Body        []byte
	ContentType *string
}

// FakeBucket is an in-memory, single-bucket S3API. Listing is paginated by
// PageSize so callers exercise continuation tokens.
type FakeBucket struct {
	Name     string
	PageSize int

	mu      sync.Mutex
	objects map[string]StoredObject

	Puts    int
	Gets    int
	Deletes int
}

// NewFakeBucket creates an empty bucket.
func NewFakeBucket(name string) *FakeBucket {
	return &FakeBucket{
		Name:     name,
		PageSize: 2,
		objects:  make(map[string]StoredObject),
	}
}

// Seed stores objects directly, bypassing the call counters.
func (b *FakeBucket) Seed(objects map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, v := range objects {
		b.objects[k] = StoredObject{Body: []byte(v)}
	}
}

// Object returns a stored object.
func (b *FakeBucket) Object(key string) (StoredObject, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	obj, ok := b.objects[key]
	return obj, ok
}

// Keys returns the stored keys in sorted order.
func (b *FakeBucket) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sortedKeys()
}

// ResetCounters zeroes the call counters.
func (b *FakeBucket) ResetCounters() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Puts, b.Gets, b.Deletes = 0, 0, 0
}

func (b *FakeBucket) sortedKeys() []string {
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *FakeBucket) check(bucket *string) error {
	if aws.ToString(bucket) != b.Name {
		return &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "The specified bucket does not exist"}
	}
	return nil
}

// PutObject implements s3api.S3API.
func (b *FakeBucket) PutObject(
	_ context.Context,
	params *s3.PutObjectInput,
	_ ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	if err := b.check(params.Bucket); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.Puts++
	b.objects[aws.ToString(params.Key)] = StoredObject{Body: body, ContentType: params.ContentType}
	return &s3.PutObjectOutput{}, nil
}

// GetObject implements s3api.S3API.
func (b *FakeBucket) GetObject(
	_ context.Context,
	params *s3.GetObjectInput,
	_ ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	if err := b.check(params.Bucket); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.Gets++
	obj, ok := b.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(obj.Body)),
		ContentLength: aws.Int64(int64(len(obj.Body))),
		ContentType:   obj.ContentType,
	}, nil
}

// DeleteObjects implements s3api.S3API.
func (b *FakeBucket) DeleteObjects(
	_ context.Context,
	params *s3.DeleteObjectsInput,
	_ ...func(*s3.Options),
) (*s3.DeleteObjectsOutput, error) {
	if err := b.check(params.Bucket); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.Deletes++
	out := &s3.DeleteObjectsOutput{}
	for _, id := range params.Delete.Objects {
		delete(b.objects, aws.ToString(id.Key))
		out.Deleted = append(out.Deleted, types.DeletedObject{Key: id.Key})
	}
	return out, nil
}

// ListObjectsV2 implements s3api.S3API.
func (b *FakeBucket) ListObjectsV2(
	_ context.Context,
	params *s3.ListObjectsV2Input,
	_ ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	if err := b.check(params.Bucket); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	keys := b.sortedKeys()
	start := 0
	if token := aws.ToString(params.ContinuationToken); token != "" {
		n, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("bad continuation token %q", token)
		}
		start = n
	}

	pageSize := b.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}
	end := min(start+pageSize, len(keys))
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{
			Key:  aws.String(k),
			Size: aws.Int64(int64(len(b.objects[k].Body))),
			ETag: aws.String(`"fake"`),
		})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

var _ s3api.S3API = (*FakeBucket)(nil)
