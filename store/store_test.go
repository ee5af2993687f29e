package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/inkwell-blog/inkwell/content"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "test_blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePost(slug string, date time.Time) content.Post {
	return content.Post{
		PostInfo: content.PostInfo{
			ID:          "id-" + slug,
			Slug:        slug,
			Title:       "Title " + slug,
			Description: "About " + slug,
			Cover:       content.Cover{URL: "/public/" + slug + ".jpg", Width: 800, Height: 600},
			Date:        date,
			Tags:        []string{"Go", " Testing "},
		},
		Blocks: []content.Block{
			{Kind: content.BlockHeading, Level: 2, Text: "Intro"},
			{Kind: content.BlockParagraph, Text: "Hello **world**"},
			{Kind: content.BlockCode, Language: "go", Text: "package main"},
		},
	}
}

func TestSaveAndGetPost(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	post := samplePost("test-post", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	if err := s.SavePost(ctx, post, true); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	got, err := s.GetPostInfo(ctx, "test-post", true)
	if err != nil {
		t.Fatalf("GetPostInfo failed: %v", err)
	}
	if got.ID != "id-test-post" {
		t.Errorf("ID = %q, want %q", got.ID, "id-test-post")
	}
	if got.Title != post.Title {
		t.Errorf("Title = %q, want %q", got.Title, post.Title)
	}
	if got.Cover != post.Cover {
		t.Errorf("Cover = %+v, want %+v", got.Cover, post.Cover)
	}
	if !got.Date.Equal(post.Date) {
		t.Errorf("Date = %v, want %v", got.Date, post.Date)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "testing" {
		t.Errorf("Tags = %v, want [go testing]", got.Tags)
	}

	blocks, err := s.GetPostContent(ctx, "test-post", true)
	if err != nil {
		t.Fatalf("GetPostContent failed: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("len(blocks) = %d, want 3", len(blocks))
	}
	if blocks[0].Kind != content.BlockHeading || blocks[0].Level != 2 {
		t.Errorf("blocks[0] = %+v", blocks[0])
	}
	if blocks[2].Language != "go" {
		t.Errorf("blocks[2].Language = %q, want go", blocks[2].Language)
	}
}

func TestSavePostReplacesBlocks(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	post := samplePost("update-test", time.Now())
	if err := s.SavePost(ctx, post, true); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	post.Title = "Updated Title"
	post.Blocks = post.Blocks[:1]
	if err := s.SavePost(ctx, post, true); err != nil {
		t.Fatalf("SavePost update failed: %v", err)
	}
	got, _ := s.GetPostInfo(ctx, "update-test", true)
	if got.Title != "Updated Title" {
		t.Errorf("Title = %q, want %q", got.Title, "Updated Title")
	}
	blocks, _ := s.GetPostContent(ctx, "update-test", true)
	if len(blocks) != 1 {
		t.Errorf("len(blocks) = %d, want 1", len(blocks))
	}
}

func TestListPostsPublishedOnlyByDate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	s.SavePost(ctx, samplePost("old", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)), true)
	s.SavePost(ctx, samplePost("new", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), true)
	s.SavePost(ctx, samplePost("draft", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)), false)

	posts, err := s.ListPosts(ctx)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	if posts[0].Slug != "new" || posts[1].Slug != "old" {
		t.Errorf("order = %s, %s; want new, old", posts[0].Slug, posts[1].Slug)
	}
}

func TestDraftVisibilityFollowsFlag(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	s.SavePost(ctx, samplePost("draft", time.Now()), false)

	if _, err := s.GetPostInfo(ctx, "draft", true); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("flag=true err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetPostContent(ctx, "draft", false); err != nil {
		t.Errorf("flag=false err = %v", err)
	}
}

func TestDeletePost(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	s.SavePost(ctx, samplePost("gone", time.Now()), true)
	if err := s.DeletePost(ctx, "gone"); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetPostContent(ctx, "gone", true); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSavePostRequiresSlug(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SavePost(context.Background(), content.Post{}, true); err == nil {
		t.Error("expected error for empty slug")
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{",go,web,", 2},
		{"", 0},
		{",,", 0},
		{",single,", 1},
	}
	for _, tt := range tests {
		if got := ParseTags(tt.input); len(got) != tt.expected {
			t.Errorf("ParseTags(%q) = %v, want %d tags", tt.input, got, tt.expected)
		}
	}
}
