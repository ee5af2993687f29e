package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/inkwell-blog/inkwell/content"
	"github.com/inkwell-blog/inkwell/markdown"
	"github.com/inkwell-blog/inkwell/ui"
)

// PostPage renders the detail page body: cover, title, content, a back link and the
// comment thread.
func PostPage(site Site, post content.Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if src := markdown.SafeURL(post.Cover.URL); src != "" {
			h.render(ctx, coverImage(post.PostInfo, src, false))
		}
		h.printf(`<h1 class="my-6 self-start text-4xl">%s</h1>`, esc(post.Title))
		h.render(templ.WithChildren(ctx, Blocks(post.Blocks)), ui.Article("w-full"))
		h.render(ctx, GoBack("self-start"))
		h.render(ctx, Comments(site.Comments))
		return h.err
	})
}

// GoBack links to the feed; sheet.js turns it into a history step when possible.
func GoBack(class string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<a href="/feedlist/" class="%s" data-go-back>`, esc(ui.Merge("inline-flex items-center gap-1 text-neutral-600 hover:underline dark:text-neutral-400", class)))
		h.render(ctx, ui.Icon("i-carbon-arrow-left h-4 w-4"))
		h.raw(`Go back</a>`)
		return h.err
	})
}

// Comments embeds the Giscus discussion thread. It renders nothing when unconfigured.
func Comments(cfg Giscus) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if cfg.Repo == "" {
			return nil
		}
		mapping := cfg.Mapping
		if mapping == "" {
			mapping = "pathname"
		}
		lang := cfg.Lang
		if lang == "" {
			lang = "en"
		}
		h := &htmlWriter{w: w}
		h.raw(`<section class="giscus w-full" id="comments"></section>`)
		h.printf(`<script src="https://giscus.app/client.js" data-repo="%s" data-repo-id="%s" data-category="%s" data-category-id="%s" data-mapping="%s" data-reactions-enabled="1" data-emit-metadata="0" data-input-position="top" data-theme="preferred_color_scheme" data-lang="%s" data-loading="lazy" crossorigin="anonymous" async></script>`,
			esc(cfg.Repo), esc(cfg.RepoID), esc(cfg.Category), esc(cfg.CategoryID), esc(mapping), esc(lang))
		return h.err
	})
}
