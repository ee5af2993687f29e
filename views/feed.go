package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/inkwell-blog/inkwell/content"
	"github.com/inkwell-blog/inkwell/markdown"
)

// FeedLoadingText is shown while the feed list is still being fetched.
const FeedLoadingText = "Loading my feed list..."

// FeedLoading is the placeholder rendered before the feed arrives.
func FeedLoading() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div>`+FeedLoadingText+`</div>`)
		return err
	})
}

// FeedList renders the post cards in the order given.
func FeedList(posts []content.PostInfo) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<ul class="flex w-full flex-col gap-8" data-feed-list>`)
		for _, p := range posts {
			h.render(ctx, feedCard(p))
		}
		h.raw(`</ul>`)
		return h.err
	})
}

func feedCard(p content.PostInfo) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<li><a href="%s" class="group flex flex-col gap-3">`, esc(p.Link()))
		if src := markdown.SafeURL(p.Cover.URL); src != "" {
			h.render(ctx, coverImage(p, src, true))
		}
		h.printf(`<h2 class="text-2xl font-semibold group-hover:underline">%s</h2>`, esc(p.Title))
		if p.Description != "" {
			h.printf(`<p class="text-neutral-600 dark:text-neutral-400">%s</p>`, esc(p.Description))
		}
		if d := FormatDate(p.Date); d != "" {
			h.printf(`<time datetime="%s" class="text-sm text-neutral-500">%s</time>`, p.Date.Format("2006-01-02"), esc(d))
		}
		h.raw(`</a></li>`)
		return h.err
	})
}

// coverImage renders a post cover. The view-transition name pairs the feed card
// with the detail page header.
func coverImage(p content.PostInfo, src string, lazy bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<img class="h-auto w-full rounded-lg" src="%s" alt="post cover"`, esc(src))
		if p.Cover.Width > 0 && p.Cover.Height > 0 {
			h.printf(` width="%d" height="%d"`, p.Cover.Width, p.Cover.Height)
		}
		if lazy {
			h.raw(` loading="lazy" decoding="async"`)
		}
		h.printf(` style="view-transition-name: post-cover-%s">`, esc(cssIdent(p.ID)))
		return h.err
	})
}

func cssIdent(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_' {
			out = append(out, c)
		}
	}
	return string(out)
}

// Suspense streams fallback, flushes it to the client, then renders what resolve
// returns into a template that replaces the fallback in place.
func Suspense(id string, fallback templ.Component, resolve func(context.Context) templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<div id="%s" class="w-full" data-suspense>`, esc(id))
		h.render(ctx, fallback)
		h.raw(`</div>`)
		h.flush()
		if h.err != nil {
			return h.err
		}
		resolved := resolve(ctx)
		h.printf(`<template id="%s-content">`, esc(id))
		h.render(ctx, resolved)
		h.raw(`</template>`)
		h.printf(`<script>(function(){var s=document.getElementById(%q),t=document.getElementById(%q);if(s&&t){s.replaceWith(t.content.cloneNode(true));t.remove()}})()</script>`,
			cssIdent(id), cssIdent(id)+"-content")
		h.flush()
		return h.err
	})
}

// InlineError is rendered in place of streamed content that failed to load.
func InlineError(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<p class="text-red-600 dark:text-red-400" role="alert">%s</p>`, esc(message))
		return h.err
	})
}
