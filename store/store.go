// Package store keeps posts in SQLite and serves them as a content source.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/inkwell-blog/inkwell/content"
)

// Store wraps a SQLite database holding posts and their blocks.
//
// The pass-through flag of the detail operations restricts results to published
// posts when true.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	// WAL lets readers proceed while an import writes; busy_timeout makes writers
	// wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: pragmas: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    cover_url TEXT NOT NULL DEFAULT '',
    cover_width INTEGER NOT NULL DEFAULT 0,
    cover_height INTEGER NOT NULL DEFAULT 0,
    date TEXT NOT NULL,
    tags TEXT NOT NULL DEFAULT '',
    published INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS blocks (
    post_slug TEXT NOT NULL,
    position INTEGER NOT NULL,
    block_id TEXT NOT NULL DEFAULT '',
    kind TEXT NOT NULL,
    text TEXT NOT NULL DEFAULT '',
    level INTEGER NOT NULL DEFAULT 0,
    language TEXT NOT NULL DEFAULT '',
    url TEXT NOT NULL DEFAULT '',
    caption TEXT NOT NULL DEFAULT '',
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (post_slug, position)
);
`)
	return err
}

const postColumns = `slug, id, title, description, cover_url, cover_width, cover_height, date, tags`

// ListPosts returns all published posts ordered by date descending.
func (s *Store) ListPosts(ctx context.Context) ([]content.PostInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts WHERE published = 1 ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list posts: %w", err)
	}
	defer rows.Close()

	var posts []content.PostInfo
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list posts: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPostInfo returns a single post's metadata by slug.
func (s *Store) GetPostInfo(ctx context.Context, slug string, flag bool) (*content.PostInfo, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = ?`
	if flag {
		query += ` AND published = 1`
	}
	p, err := scanPost(s.db.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, content.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get post %s: %w", slug, err)
	}
	return &p, nil
}

// GetPostContent returns a post's blocks in position order.
func (s *Store) GetPostContent(ctx context.Context, slug string, flag bool) ([]content.Block, error) {
	if _, err := s.GetPostInfo(ctx, slug, flag); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT block_id, kind, text, level, language, url, caption, width, height FROM blocks WHERE post_slug = ? ORDER BY position`, slug)
	if err != nil {
		return nil, fmt.Errorf("store: get blocks %s: %w", slug, err)
	}
	defer rows.Close()

	var blocks []content.Block
	for rows.Next() {
		var b content.Block
		var kind string
		if err := rows.Scan(&b.ID, &kind, &b.Text, &b.Level, &b.Language, &b.URL, &b.Caption, &b.Width, &b.Height); err != nil {
			return nil, fmt.Errorf("store: get blocks %s: %w", slug, err)
		}
		b.Kind = content.BlockKind(kind)
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// SavePost upserts a post and replaces its blocks in one transaction.
func (s *Store) SavePost(ctx context.Context, p content.Post, published bool) error {
	if strings.TrimSpace(p.Slug) == "" {
		return errors.New("store: save post: slug is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: save post: %w", err)
	}
	defer tx.Rollback()

	pub := 0
	if published {
		pub = 1
	}
	date := ""
	if !p.Date.IsZero() {
		date = p.Date.UTC().Format(time.RFC3339)
	}
	id := p.ID
	if id == "" {
		id = p.Slug
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO posts (`+postColumns+`, published) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, id, p.Title, p.Description, p.Cover.URL, p.Cover.Width, p.Cover.Height, date, joinTags(p.Tags), pub); err != nil {
		return fmt.Errorf("store: save post %s: %w", p.Slug, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM blocks WHERE post_slug = ?`, p.Slug); err != nil {
		return fmt.Errorf("store: save post %s: %w", p.Slug, err)
	}
	for i, b := range p.Blocks {
		if _, err := tx.ExecContext(ctx, `INSERT INTO blocks (post_slug, position, block_id, kind, text, level, language, url, caption, width, height) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Slug, i, b.ID, string(b.Kind), b.Text, b.Level, b.Language, b.URL, b.Caption, b.Width, b.Height); err != nil {
			return fmt.Errorf("store: save block %d of %s: %w", i, p.Slug, err)
		}
	}
	return tx.Commit()
}

// DeletePost removes a post and its blocks.
func (s *Store) DeletePost(ctx context.Context, slug string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: delete post: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM blocks WHERE post_slug = ?`, slug); err != nil {
		return fmt.Errorf("store: delete post %s: %w", slug, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE slug = ?`, slug); err != nil {
		return fmt.Errorf("store: delete post %s: %w", slug, err)
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (content.PostInfo, error) {
	var p content.PostInfo
	var date, tags string
	if err := row.Scan(&p.Slug, &p.ID, &p.Title, &p.Description, &p.Cover.URL, &p.Cover.Width, &p.Cover.Height, &date, &tags); err != nil {
		return content.PostInfo{}, err
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		p.Date = t
	}
	p.Tags = ParseTags(tags)
	return p, nil
}

func joinTags(tags []string) string {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			normalized = append(normalized, t)
		}
	}
	if len(normalized) == 0 {
		return ""
	}
	return "," + strings.Join(normalized, ",") + ","
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

var _ content.Source = (*Store)(nil)
