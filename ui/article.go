package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

const proseClass = "flex flex-col gap-4 relative prose prose-neutral dark:prose-invert " +
	"prose-h1:my-0 prose-h2:my-0 prose-h3:my-0 prose-h4:my-0 prose-h5:my-0 prose-h6:my-0 " +
	"prose-ul:my-0 prose-ol:my-0 prose-p:my-0 " +
	"prose-a:no-underline prose-a:border-dotted prose-a:border-b-2 prose-a:pb-[3px] hover:prose-a:border-solid"

// Article wraps rendered post content in the typography styles. Children come from
// templ.WithChildren; class is merged over the defaults.
func Article(class string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<article class="%s">`, templ.EscapeString(Merge(proseClass, class))); err != nil {
			return err
		}
		if err := templ.GetChildren(ctx).Render(templ.ClearChildren(ctx), w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</article>`)
		return err
	})
}
