package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/inkwell-blog/inkwell/content"
	"github.com/inkwell-blog/inkwell/markdown"
)

// Blocks renders a post body. Consecutive list items are grouped into one list;
// unknown block kinds are skipped.
func Blocks(blocks []content.Block) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		var list content.BlockKind
		closeList := func() {
			switch list {
			case content.BlockBulleted:
				h.raw(`</ul>`)
			case content.BlockNumbered:
				h.raw(`</ol>`)
			}
			list = ""
		}
		for _, b := range blocks {
			if list != "" && b.Kind != list {
				closeList()
			}
			switch b.Kind {
			case content.BlockParagraph:
				if strings.TrimSpace(b.Text) == "" {
					continue
				}
				h.printf(`<p>%s</p>`, markdown.Inline(b.Text))
			case content.BlockHeading:
				level := headingLevel(b.Level)
				h.printf(`<h%d%s>%s</h%d>`, level, blockID(b), markdown.Inline(b.Text), level)
			case content.BlockQuote:
				h.printf(`<blockquote><p>%s</p></blockquote>`, markdown.Inline(b.Text))
			case content.BlockCode:
				h.raw(`<pre><code`)
				if b.Language != "" {
					h.printf(` class="language-%s"`, esc(b.Language))
				}
				h.printf(`>%s</code></pre>`, esc(b.Text))
			case content.BlockImage:
				h.render(ctx, figure(b))
			case content.BlockBulleted, content.BlockNumbered:
				if list == "" {
					list = b.Kind
					if list == content.BlockBulleted {
						h.raw(`<ul>`)
					} else {
						h.raw(`<ol>`)
					}
				}
				h.printf(`<li>%s</li>`, markdown.Inline(b.Text))
			case content.BlockDivider:
				h.raw(`<hr>`)
			case content.BlockMarkdown:
				h.render(ctx, markdown.Markdown(b.Text))
			}
		}
		closeList()
		return h.err
	})
}

// headingLevel shifts block headings below the page title, which is the only h1.
func headingLevel(level int) int {
	switch {
	case level < 1:
		return 2
	case level > 5:
		return 6
	}
	return level + 1
}

func blockID(b content.Block) string {
	if b.ID == "" {
		return ""
	}
	return ` id="` + esc(b.ID) + `"`
}

func figure(b content.Block) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		src := markdown.SafeURL(b.URL)
		if src == "" {
			return nil
		}
		h := &htmlWriter{w: w}
		h.printf(`<figure><img src="%s" alt="%s" loading="lazy" decoding="async"`, esc(src), esc(b.Caption))
		if b.Width > 0 && b.Height > 0 {
			h.printf(` width="%d" height="%d"`, b.Width, b.Height)
		}
		h.raw(`>`)
		if b.Caption != "" {
			h.printf(`<figcaption>%s</figcaption>`, markdown.Inline(b.Caption))
		}
		h.raw(`</figure>`)
		return h.err
	})
}
