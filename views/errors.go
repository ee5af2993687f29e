package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// NotFound is the body of the 404 page.
func NotFound() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="flex flex-col items-center gap-4 py-16 text-center" data-status="404">`)
		h.raw(`<h1 class="text-4xl font-semibold">Page not found</h1>`)
		h.raw(`<p class="text-neutral-600 dark:text-neutral-400">The page you are looking for does not exist or has been moved.</p>`)
		h.render(ctx, GoBack(""))
		h.raw(`</section>`)
		return h.err
	})
}

// ServerError is the body of the 5xx page.
func ServerError() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="flex flex-col items-center gap-4 py-16 text-center" data-status="500">`)
		h.raw(`<h1 class="text-4xl font-semibold">Something went wrong</h1>`)
		h.raw(`<p class="text-neutral-600 dark:text-neutral-400">Please try again in a moment.</p>`)
		h.raw(`</section>`)
		return h.err
	})
}
