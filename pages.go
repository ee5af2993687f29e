package inkwell

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inkwell-blog/inkwell/content"
	"github.com/inkwell-blog/inkwell/views"
)

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta = views.PageMeta

// LoadPost fetches a post's metadata and body concurrently. Either side missing,
// empty or failing yields ErrNotFound; the first failure cancels the other fetch.
func (a *App) LoadPost(ctx context.Context, slug string) (content.Post, error) {
	slug = content.CleanSlug(slug)
	if slug == "" {
		return content.Post{}, ErrNotFound
	}
	flag := a.Config.Content.FlagValue()

	var (
		info   *content.PostInfo
		blocks []content.Block
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := a.Content.GetPostInfo(gctx, slug, flag)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrNotFound
		}
		info = p
		return nil
	})
	g.Go(func() error {
		b, err := a.Content.GetPostContent(gctx, slug, flag)
		if err != nil {
			return err
		}
		if len(b) == 0 {
			return ErrNotFound
		}
		blocks = b
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrNotFound) {
			return content.Post{}, fmt.Errorf("inkwell: post %q: %w", slug, err)
		}
		a.Logger.Warn("post fetch failed", zap.String("slug", slug), zap.Error(err))
		return content.Post{}, errors.Join(ErrNotFound, err)
	}
	return content.Post{PostInfo: *info, Blocks: blocks}, nil
}

// StaticParams returns the slug of every listed post. A feed that is missing
// yields an empty list.
func (a *App) StaticParams(ctx context.Context) ([]string, error) {
	posts, err := a.Content.ListPosts(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}
	slugs := make([]string, 0, len(posts))
	for _, p := range posts {
		if p.Slug != "" {
			slugs = append(slugs, p.Slug)
		}
	}
	return slugs, nil
}

// GenerateMetadata returns the title and description for a post page. A post that
// cannot be fetched yields the zero value.
func (a *App) GenerateMetadata(ctx context.Context, slug string) PageMeta {
	slug = content.CleanSlug(slug)
	if slug == "" {
		return PageMeta{}
	}
	info, err := a.Content.GetPostInfo(ctx, slug, a.Config.Content.FlagValue())
	if err != nil || info == nil {
		return PageMeta{}
	}
	return a.postMeta(*info)
}

func (a *App) postMeta(info content.PostInfo) PageMeta {
	return PageMeta{
		Title:       info.Title,
		Description: info.Description,
		URL:         views.PostURL(a.site, info.Slug),
		OGType:      "article",
		Image:       info.Cover.URL,
		JSONLD:      views.BlogPostingJsonLD(a.site, info),
	}
}

func (a *App) feedMeta() PageMeta {
	return PageMeta{
		Title:       a.Config.Name,
		Description: a.Config.Description,
		URL:         BuildURL(a.Config.URL, "feedlist"),
		OGType:      "website",
		JSONLD:      views.WebsiteJsonLD(a.site),
	}
}
