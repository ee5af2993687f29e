package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/inkwell-blog/inkwell/ui"
)

// Layout is the document frame shared by every page: head metadata, the header with
// the navigation sheet and the appearance switch, and the main column. Page content
// comes from templ.WithChildren.
func Layout(site Site, meta PageMeta, chrome Chrome) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		children := templ.GetChildren(ctx)
		ctx = ui.WithPortalTarget(templ.ClearChildren(ctx))
		h := &htmlWriter{w: w}

		h.raw(`<!DOCTYPE html>`)
		if chrome.Theme == ui.ThemeDark {
			h.raw(`<html lang="en" class="dark">`)
		} else {
			h.raw(`<html lang="en">`)
		}
		h.render(ctx, head(site, meta, chrome))
		h.raw(`<body class="min-h-screen bg-white text-neutral-900 antialiased dark:bg-neutral-900 dark:text-neutral-100">`)
		h.render(ctx, header(site, chrome))
		h.raw(`<main class="mx-auto flex max-w-3xl flex-col items-center gap-6 px-4 py-8">`)
		h.render(ctx, children)
		h.raw(`</main>`)
		h.render(ctx, ui.PortalOutlet())
		h.raw(`</body></html>`)
		return h.err
	})
}

func head(site Site, meta PageMeta, chrome Chrome) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		title := site.Name
		if meta.Title != "" && meta.Title != site.Name {
			title = meta.Title + " | " + site.Name
		}
		description := meta.Description
		if description == "" {
			description = site.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		h.raw(`<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.printf(`<title>%s</title>`, esc(title))
		if description != "" {
			h.printf(`<meta name="description" content="%s">`, esc(description))
		}
		if meta.URL != "" {
			h.printf(`<link rel="canonical" href="%s">`, esc(meta.URL))
			h.printf(`<meta property="og:url" content="%s">`, esc(meta.URL))
		}
		h.printf(`<meta property="og:type" content="%s">`, esc(ogType))
		h.printf(`<meta property="og:title" content="%s">`, esc(title))
		h.printf(`<meta property="og:site_name" content="%s">`, esc(site.Name))
		if description != "" {
			h.printf(`<meta property="og:description" content="%s">`, esc(description))
		}
		if meta.Image != "" {
			h.printf(`<meta property="og:image" content="%s">`, esc(absoluteURL(site, meta.Image)))
		}
		if chrome.CSRFToken != "" {
			h.printf(`<meta name="csrf-token" content="%s">`, esc(chrome.CSRFToken))
		}
		h.raw(`<link rel="icon" href="/favicon.svg" type="image/svg+xml">`)
		h.printf(`<link rel="alternate" type="application/rss+xml" title="%s" href="/feed.xml">`, esc(site.Name))
		h.raw(`<link rel="stylesheet" href="/public/site.css">`)
		h.raw(`<script src="/public/theme.js" defer></script><script src="/public/sheet.js" defer></script>`)
		if meta.JSONLD != "" {
			h.printf(`<script type="application/ld+json">%s</script>`, meta.JSONLD)
		}
		h.raw(`</head>`)
		return h.err
	})
}

func header(site Site, chrome Chrome) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		path := chrome.Path
		if path == "" {
			path = "/feedlist/"
		}
		h.raw(`<header class="sticky top-0 z-40 flex w-full items-center justify-between border-b border-neutral-200 bg-white/80 px-4 py-3 backdrop-blur dark:border-neutral-800 dark:bg-neutral-900/80">`)
		h.printf(`<a href="/feedlist/" class="text-lg font-semibold">%s</a>`, esc(site.Name))
		h.raw(`<div class="flex items-center gap-2">`)
		h.render(ctx, ui.ThemeSwitch(ui.NewAppearanceSwitch(nil), ui.ThemeSwitchProps{
			Action:    "/theme/",
			CSRFField: "_csrf",
			CSRFToken: chrome.CSRFToken,
		}))
		h.printf(`<a href="%s" class="inline-flex h-8 w-8 items-center justify-center rounded-md hover:bg-neutral-100 dark:hover:bg-neutral-800" data-sheet-open="menu">`, esc(MenuHref(path)))
		h.render(ctx, ui.Icon("i-carbon-menu h-5 w-5"))
		h.raw(`<span class="sr-only">Open menu</span></a></div></header>`)

		menu := ui.Sheet(ui.SheetProps{
			ID:        "menu",
			Open:      chrome.MenuOpen,
			Position:  ui.PositionRight,
			Size:      ui.SizeSM,
			CloseHref: path,
			Title:     "Menu",
		})
		h.render(templ.WithChildren(ctx, navLinks()), menu)
		return h.err
	})
}

func navLinks() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<nav class="mt-8 flex flex-col gap-4 text-lg">`)
		h.raw(`<a href="/feedlist/" class="hover:underline">Posts</a>`)
		h.raw(`<a href="/feed.xml" class="hover:underline">RSS</a>`)
		h.raw(`</nav>`)
		return h.err
	})
}
