package planner

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/s3types"
)

// stubComparator reports keys listed in changed as modified.
type stubComparator struct {
	changed map[string]bool
	err     error
	calls   []string
}

func (s *stubComparator) HasChanged(
	_ context.Context,
	local *s3types.LocalFile,
	_ *s3types.RemoteFile,
) (bool, error) {
	s.calls = append(s.calls, local.Key)
	if s.err != nil {
		return false, s.err
	}
	return s.changed[local.Key], nil
}

func local(rel, key string) *s3types.LocalFile {
	return &s3types.LocalFile{Key: key, RelPath: rel, Path: "/out/" + rel, Size: 1}
}

func remote(key string) *s3types.RemoteFile {
	return &s3types.RemoteFile{Key: key, Size: 1}
}

func keys(ops []*Operation) []string {
	out := make([]string, 0, len(ops))
	for _, op := range ops {
		out = append(out, op.Key)
	}
	return out
}

func TestPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("upload new, delete stale, skip identical", func(t *testing.T) {
		comp := &stubComparator{}
		p := NewPlanner(comp, nil)

		plan, err := p.Plan(ctx,
			[]*s3types.LocalFile{local("a.html", "a.html"), local("b.html", "b.html")},
			[]*s3types.RemoteFile{remote("old.html"), remote("a.html")},
		)
		require.NoError(t, err)

		assert.Equal(t, []string{"b.html"}, keys(plan.Uploads))
		assert.Equal(t, []string{"old.html"}, keys(plan.Deletes))
		assert.Equal(t, 1, plan.Skipped)
		assert.Equal(t, []string{"a.html"}, comp.calls, "only keys on both sides are compared")
		assert.Equal(t, "new file", plan.Uploads[0].Reason)
	})

	t.Run("modified content is uploaded", func(t *testing.T) {
		p := NewPlanner(&stubComparator{changed: map[string]bool{"a.html": true}}, nil)

		plan, err := p.Plan(ctx,
			[]*s3types.LocalFile{local("a.html", "a.html")},
			[]*s3types.RemoteFile{remote("a.html")},
		)
		require.NoError(t, err)

		require.Len(t, plan.Uploads, 1)
		assert.Equal(t, "modified", plan.Uploads[0].Reason)
		assert.Empty(t, plan.Deletes)
		assert.Zero(t, plan.Skipped)
	})

	t.Run("nothing to do", func(t *testing.T) {
		p := NewPlanner(&stubComparator{}, nil)

		plan, err := p.Plan(ctx,
			[]*s3types.LocalFile{local("a.html", "a.html")},
			[]*s3types.RemoteFile{remote("a.html")},
		)
		require.NoError(t, err)
		assert.True(t, plan.Empty())
	})

	t.Run("empty local deletes everything", func(t *testing.T) {
		p := NewPlanner(&stubComparator{}, nil)

		plan, err := p.Plan(ctx, nil, []*s3types.RemoteFile{remote("z.html"), remote("a.html")})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.html", "z.html"}, keys(plan.Deletes))
	})

	t.Run("comparator error aborts", func(t *testing.T) {
		p := NewPlanner(&stubComparator{err: errors.New("get failed")}, nil)

		_, err := p.Plan(ctx,
			[]*s3types.LocalFile{local("a.html", "a.html")},
			[]*s3types.RemoteFile{remote("a.html")},
		)
		assert.ErrorContains(t, err, "get failed")
	})
}

func TestPlan_CollisionLastWins(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	p := NewPlanner(&stubComparator{}, logger)

	plan, err := p.Plan(context.Background(),
		[]*s3types.LocalFile{local("index.htm", "index.html"), local("index.md", "index.html")},
		nil,
	)
	require.NoError(t, err)

	require.Len(t, plan.Uploads, 1)
	assert.Equal(t, "index.md", plan.Uploads[0].RelPath)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "dropped=index.htm")
}
