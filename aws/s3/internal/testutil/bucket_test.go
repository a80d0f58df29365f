package testutil

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeBucket(t *testing.T) {
	ctx := context.Background()
	b := NewFakeBucket("site")
	b.Seed(map[string]string{"a": "1", "b": "2", "c": "3"})

	t.Run("paginated listing", func(t *testing.T) {
		var keys []string
		var token *string
		pages := 0
		for {
			out, err := b.ListObjectsV2(ctx, &s3.ListObjectsV2Input{Bucket: aws.String("site"), ContinuationToken: token})
			require.NoError(t, err)
			pages++
			for _, o := range out.Contents {
				keys = append(keys, *o.Key)
			}
			if !aws.ToBool(out.IsTruncated) {
				break
			}
			token = out.NextContinuationToken
		}
		assert.Equal(t, []string{"a", "b", "c"}, keys)
		assert.Equal(t, 2, pages)
	})

	t.Run("put get delete", func(t *testing.T) {
		_, err := b.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String("site"),
			Key:         aws.String("d"),
			Body:        strings.NewReader("4"),
			ContentType: aws.String("text/plain"),
		})
		require.NoError(t, err)

		out, err := b.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String("site"), Key: aws.String("d")})
		require.NoError(t, err)
		body, _ := io.ReadAll(out.Body)
		assert.Equal(t, "4", string(body))

		_, err = b.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String("site"),
			Delete: &types.Delete{Objects: []types.ObjectIdentifier{{Key: aws.String("d")}}},
		})
		require.NoError(t, err)
		_, ok := b.Object("d")
		assert.False(t, ok)
	})

	t.Run("unknown bucket", func(t *testing.T) {
		_, err := b.ListObjectsV2(ctx, &s3.ListObjectsV2Input{Bucket: aws.String("other")})
		assert.Error(t, err)
	})
}
