// Copyright 2025 Galley Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *PostStore {
	t.Helper()

	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "galley.db"))
	require.NoError(t, err, "failed to open store")
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Seed(ctx))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	posts, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 5)

	titles := make([]string, 0, len(posts))
	for _, p := range posts {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{
		"First Post",
		"Learning FastAPI",
		"Python Tips",
		"Web Development",
		"API Design Best Practices",
	}, titles)

	assert.Equal(t, "John Doe", posts[0].Author)
	assert.Equal(t, "This is the first blog post", posts[0].Content)
	assert.False(t, posts[0].CreatedAt.IsZero())
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Seed(ctx))
	require.NoError(t, s.Seed(ctx))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}

func TestSeedLeavesExistingPostsAlone(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Create(ctx, &Post{Title: "Hand-written", Author: "Op", Content: "..."}))
	require.NoError(t, s.Seed(ctx))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "a non-empty store should not be seeded")
}

func TestListOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Seed(ctx))

	page, err := s.List(ctx, 0, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "API Design Best Practices", page[0].Title)
	assert.Equal(t, "Web Development", page[1].Title)
	assert.Equal(t, "Python Tips", page[2].Title)

	rest, err := s.List(ctx, 3, 3)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "Learning FastAPI", rest[0].Title)
	assert.Equal(t, "First Post", rest[1].Title)

	empty, err := s.List(ctx, 10, 3)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Seed(ctx))

	p, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "First Post", p.Title)
	assert.Equal(t, "John Doe", p.Author)

	_, err = s.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created := Post{
		Title:     "Deploying Galley",
		Content:   "Point it at a template directory and go",
		Author:    "Ada Lovelace",
		CreatedAt: time.Date(2025, time.June, 1, 12, 30, 0, 0, time.UTC),
	}
	require.NoError(t, s.Create(ctx, &created))
	assert.EqualValues(t, 1, created.ID)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Content, got.Content)
	assert.Equal(t, created.Author, got.Author)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt), "CreatedAt should survive a round trip")
}

func TestCreateDefaultsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := Post{Title: "Untimed", Content: "...", Author: "Op"}
	require.NoError(t, s.Create(ctx, &p))

	assert.False(t, p.CreatedAt.IsZero())
	assert.WithinDuration(t, time.Now(), p.CreatedAt, time.Minute)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Seed(ctx))

	require.NoError(t, s.Delete(ctx, 2))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	_, err = s.Get(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, 2), ErrNotFound)
}

func TestOpenRejectsBadPath(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "galley.db"))
	assert.Error(t, err)
}
