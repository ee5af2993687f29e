// Package files serves posts from a directory of markdown files with YAML front matter.
package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/inkwell-blog/inkwell/content"
)

// Source reads <dir>/<slug>.md on every call; caching is left to the caller.
//
// Posts marked `draft: true` are only visible to the detail operations when the
// pass-through flag is false, which lets a local preview render unpublished work.
type Source struct {
	dir string
}

type frontMatter struct {
	ID          string        `yaml:"id"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Date        string        `yaml:"date"`
	Tags        []string      `yaml:"tags"`
	Cover       content.Cover `yaml:"cover"`
	Draft       bool          `yaml:"draft"`
}

type document struct {
	info  content.PostInfo
	draft bool
	body  string
}

// New returns a Source rooted at dir.
func New(dir string) (*Source, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("files: content directory is required")
	}
	st, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("files: %s is not a directory", dir)
	}
	return &Source{dir: dir}, nil
}

// ListPosts returns published posts ordered by date descending.
func (s *Source) ListPosts(ctx context.Context) ([]content.PostInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("files: list posts: %w", err)
	}
	var posts []content.PostInfo
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		slug := strings.TrimSuffix(e.Name(), ".md")
		doc, err := s.read(slug)
		if err != nil {
			return nil, err
		}
		if doc.draft {
			continue
		}
		posts = append(posts, doc.info)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
	return posts, nil
}

// Walk calls fn for every post in the directory, drafts included, in file name order.
func (s *Source) Walk(ctx context.Context, fn func(post content.Post, draft bool) error) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("files: walk: %w", err)
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		doc, err := s.read(strings.TrimSuffix(e.Name(), ".md"))
		if err != nil {
			return err
		}
		if err := fn(content.Post{PostInfo: doc.info, Blocks: ParseBlocks(doc.body)}, doc.draft); err != nil {
			return err
		}
	}
	return nil
}

// GetPostInfo returns the front matter of one post.
func (s *Source) GetPostInfo(ctx context.Context, slug string, flag bool) (*content.PostInfo, error) {
	doc, err := s.lookup(slug, flag)
	if err != nil {
		return nil, err
	}
	return &doc.info, nil
}

// GetPostContent returns the body of one post split into blocks.
func (s *Source) GetPostContent(ctx context.Context, slug string, flag bool) ([]content.Block, error) {
	doc, err := s.lookup(slug, flag)
	if err != nil {
		return nil, err
	}
	return ParseBlocks(doc.body), nil
}

func (s *Source) lookup(slug string, flag bool) (document, error) {
	slug = content.CleanSlug(slug)
	if slug == "" {
		return document{}, content.ErrNotFound
	}
	doc, err := s.read(slug)
	if err != nil {
		return document{}, err
	}
	if doc.draft && flag {
		return document{}, content.ErrNotFound
	}
	return doc, nil
}

func (s *Source) read(slug string) (document, error) {
	file := filepath.Join(s.dir, slug+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return document{}, content.ErrNotFound
		}
		return document{}, fmt.Errorf("files: read %s: %w", file, err)
	}
	fm, body := splitFrontMatter(string(data))
	var front frontMatter
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return document{}, fmt.Errorf("files: parse front matter %s: %w", file, err)
		}
	}
	info := content.PostInfo{
		ID:          firstNonEmpty(strings.TrimSpace(front.ID), slug),
		Slug:        slug,
		Title:       firstNonEmpty(strings.TrimSpace(front.Title), prettifySlug(slug)),
		Description: strings.TrimSpace(front.Description),
		Cover:       front.Cover,
		Date:        parseDate(front.Date),
		Tags:        front.Tags,
	}
	return document{info: info, draft: front.Draft, body: body}, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func prettifySlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

var _ content.Source = (*Source)(nil)
