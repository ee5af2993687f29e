package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Icon renders a decorative icon-font glyph such as "i-carbon-sun".
func Icon(class string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<span class="%s" aria-hidden="true"></span>`, templ.EscapeString(Merge("inline-block", class)))
		return err
	})
}
