package files

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/inkwell-blog/inkwell/content"
)

func writePost(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func setupSource(t *testing.T) *Source {
	t.Helper()
	dir := t.TempDir()
	writePost(t, dir, "older-post.md", "---\ntitle: Older\ndate: 2024-01-01\n---\nOld body.\n")
	writePost(t, dir, "newer-post.md", `---
id: abc123
title: Newer
description: Fresh words
date: 2024-06-01
tags: [go, web]
cover:
  url: /public/covers/newer.jpg
  width: 1200
  height: 630
---
# Heading

First line
continues here.

- one
- two
`)
	writePost(t, dir, "draft-post.md", "---\ntitle: Draft\ndraft: true\n---\nWIP\n")
	writePost(t, dir, "notes.txt", "ignored")
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestListPostsOrderedAndDraftsHidden(t *testing.T) {
	s := setupSource(t)
	posts, err := s.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	if posts[0].Slug != "newer-post" || posts[1].Slug != "older-post" {
		t.Errorf("order = %s, %s; want newer-post, older-post", posts[0].Slug, posts[1].Slug)
	}
}

func TestGetPostInfoReadsFrontMatter(t *testing.T) {
	s := setupSource(t)
	info, err := s.GetPostInfo(context.Background(), "newer-post", true)
	if err != nil {
		t.Fatalf("GetPostInfo failed: %v", err)
	}
	if info.ID != "abc123" || info.Title != "Newer" || info.Description != "Fresh words" {
		t.Errorf("info = %+v", info)
	}
	if info.Cover.URL != "/public/covers/newer.jpg" || info.Cover.Width != 1200 {
		t.Errorf("Cover = %+v", info.Cover)
	}
	if len(info.Tags) != 2 {
		t.Errorf("Tags = %v, want [go web]", info.Tags)
	}
}

func TestGetPostInfoDefaultsTitleFromSlug(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "plain-note.md", "Just text.\n")
	s, _ := New(dir)
	info, err := s.GetPostInfo(context.Background(), "plain-note", true)
	if err != nil {
		t.Fatalf("GetPostInfo failed: %v", err)
	}
	if info.Title != "Plain Note" {
		t.Errorf("Title = %q, want %q", info.Title, "Plain Note")
	}
	if info.ID != "plain-note" {
		t.Errorf("ID = %q, want slug", info.ID)
	}
}

func TestDraftVisibilityFollowsFlag(t *testing.T) {
	s := setupSource(t)
	if _, err := s.GetPostInfo(context.Background(), "draft-post", true); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("draft with flag=true: err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetPostInfo(context.Background(), "draft-post", false); err != nil {
		t.Errorf("draft with flag=false: err = %v", err)
	}
}

func TestGetPostContentMissing(t *testing.T) {
	s := setupSource(t)
	if _, err := s.GetPostContent(context.Background(), "nope", true); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestParseBlocks(t *testing.T) {
	md := "# Title\n\nPara one\nstill one.\n\n> quoted\n> more\n\n```go\nfmt.Println(1)\n```\n\n![A cat](/public/cat.png){640x480}\n\n1. first\n2. second\n\n---\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"
	blocks := ParseBlocks(md)
	want := []content.BlockKind{
		content.BlockHeading,
		content.BlockParagraph,
		content.BlockQuote,
		content.BlockCode,
		content.BlockImage,
		content.BlockNumbered,
		content.BlockNumbered,
		content.BlockDivider,
		content.BlockMarkdown,
	}
	if len(blocks) != len(want) {
		t.Fatalf("len(blocks) = %d, want %d: %+v", len(blocks), len(want), blocks)
	}
	for i, k := range want {
		if blocks[i].Kind != k {
			t.Errorf("blocks[%d].Kind = %s, want %s", i, blocks[i].Kind, k)
		}
	}
	if blocks[0].Level != 1 || blocks[0].Text != "Title" {
		t.Errorf("heading = %+v", blocks[0])
	}
	if blocks[1].Text != "Para one still one." {
		t.Errorf("paragraph = %q", blocks[1].Text)
	}
	if blocks[2].Text != "quoted more" {
		t.Errorf("quote = %q", blocks[2].Text)
	}
	if blocks[3].Language != "go" || blocks[3].Text != "fmt.Println(1)" {
		t.Errorf("code = %+v", blocks[3])
	}
	if blocks[4].URL != "/public/cat.png" || blocks[4].Caption != "A cat" || blocks[4].Width != 640 || blocks[4].Height != 480 {
		t.Errorf("image = %+v", blocks[4])
	}
}

func TestWalkIncludesDrafts(t *testing.T) {
	src := setupSource(t)
	drafts := map[string]bool{}
	err := src.Walk(context.Background(), func(p content.Post, draft bool) error {
		drafts[p.Slug] = draft
		if len(p.Blocks) == 0 {
			t.Errorf("post %s walked without blocks", p.Slug)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(drafts) != 3 || !drafts["draft-post"] || drafts["newer-post"] {
		t.Errorf("walked %v", drafts)
	}
}
