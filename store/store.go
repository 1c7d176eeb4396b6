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

// Package store persists posts in an embedded SQLite database. The pure-Go
// driver is the default; build with the sqlite_cgo tag to use the cgo driver
// instead.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a post id does not exist.
var ErrNotFound = errors.New("post not found")

// Post is a published entry.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// PostStore reads and writes posts. All methods are safe for concurrent use;
// the underlying pool serializes access to the database file.
type PostStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS posts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL,
	author     TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts (created_at DESC);
`

// Open opens (creating if needed) the database at path and prepares the
// schema. Use ":memory:" for an ephemeral store.
func Open(ctx context.Context, path string) (*PostStore, error) {
	db, err := openDriver(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %q", path)
	}

	// SQLite allows a single writer; a one-connection pool avoids busy
	// errors under concurrent requests and keeps :memory: databases on a
	// single connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to ping database %q", path)
	}

	s := &PostStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *PostStore) Close() error {
	return s.db.Close()
}

func (s *PostStore) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to initialize schema")
	}
	return nil
}

// seedPosts are the entries installed into an empty store so a fresh server
// has content to render.
var seedPosts = []Post{
	{Title: "First Post", Content: "This is the first blog post", Author: "John Doe"},
	{Title: "Learning FastAPI", Content: "FastAPI is a modern Python web framework", Author: "Jane Smith"},
	{Title: "Python Tips", Content: "Some useful Python programming tips", Author: "Mike Johnson"},
	{Title: "Web Development", Content: "Building scalable web applications", Author: "Sarah Williams"},
	{Title: "API Design Best Practices", Content: "How to design clean and effective APIs", Author: "Tom Brown"},
}

var seedBase = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

// Seed installs the sample posts when the store is empty. Seeding an already
// populated store is a no-op, so it is safe to run on every start.
func (s *PostStore) Seed(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin seed transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var n int64
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return errors.Wrap(err, "failed to count posts")
	}
	if n > 0 {
		return nil
	}

	for i, p := range seedPosts {
		createdAt := seedBase.AddDate(0, 0, 7*i)
		_, err := tx.ExecContext(ctx,
			`INSERT INTO posts (title, content, author, created_at) VALUES (?, ?, ?, ?)`,
			p.Title, p.Content, p.Author, createdAt.Format(time.RFC3339),
		)
		if err != nil {
			return errors.Wrapf(err, "failed to seed post %q", p.Title)
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit seed transaction")
}

// List returns up to limit posts, newest first, skipping offset posts.
func (s *PostStore) List(ctx context.Context, offset, limit int) ([]*Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, author, created_at FROM posts
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list posts")
	}
	return collectPosts(rows)
}

// All returns every post in publication order (oldest first).
func (s *PostStore) All(ctx context.Context) ([]*Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, author, created_at FROM posts ORDER BY id ASC`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list posts")
	}
	return collectPosts(rows)
}

// Count returns the number of stored posts.
func (s *PostStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "failed to count posts")
	}
	return n, nil
}

// Get returns the post with the given id or ErrNotFound.
func (s *PostStore) Get(ctx context.Context, id int64) (*Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, author, created_at FROM posts WHERE id = ?`, id,
	)

	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get post %d", id)
	}
	return p, nil
}

// Create inserts a post and fills in its ID. A zero CreatedAt is set to the
// current time. Timestamps are stored at second precision.
func (s *PostStore) Create(ctx context.Context, p *Post) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.CreatedAt = p.CreatedAt.Truncate(time.Second)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (title, content, author, created_at) VALUES (?, ?, ?, ?)`,
		p.Title, p.Content, p.Author, p.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return errors.Wrapf(err, "failed to create post %q", p.Title)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "failed to read new post id")
	}
	p.ID = id
	return nil
}

// Delete removes the post with the given id, returning ErrNotFound when it
// does not exist.
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "failed to delete post %d", id)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row scanner) (*Post, error) {
	var p Post
	var createdAt string
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Author, &createdAt); err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid created_at for post %d", p.ID)
	}
	p.CreatedAt = t
	return &p, nil
}

func collectPosts(rows *sql.Rows) ([]*Post, error) {
	defer func() {
		_ = rows.Close()
	}()

	var posts []*Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan post")
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read posts")
	}
	return posts, nil
}
