package inkwell

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/inkwell-blog/inkwell/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response())
}

// page wraps body in the site layout for the current request.
func (a *App) page(c echo.Context, meta views.PageMeta, body templ.Component) templ.Component {
	return a.document(meta, a.chrome(c), body)
}

func (a *App) document(meta views.PageMeta, chrome views.Chrome, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return views.Layout(a.site, meta, chrome).Render(templ.WithChildren(ctx, body), w)
	})
}

func (a *App) chrome(c echo.Context) views.Chrome {
	return views.Chrome{
		Path:      c.Request().URL.Path,
		MenuOpen:  c.QueryParam("menu") == "open",
		Theme:     storedTheme(c),
		CSRFToken: CsrfToken(c),
	}
}
