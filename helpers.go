package inkwell

import (
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// backTarget returns the same-site path the request came from, or the feed.
func backTarget(c echo.Context) string {
	ref, err := url.Parse(c.Request().Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return "/feedlist/"
	}
	if ref.Host != "" && ref.Host != c.Request().Host {
		return "/feedlist/"
	}
	q := ref.Query()
	q.Del("menu")
	if enc := q.Encode(); enc != "" {
		return ref.Path + "?" + enc
	}
	return ref.Path
}

// serveAsset serves name from the user's static dir, falling back to the
// embedded default.
func (a *App) serveAsset(c echo.Context, name string) error {
	p := filepath.Join(a.staticDir, name)
	if _, err := os.Stat(p); err == nil {
		return c.File(p)
	}
	data, err := fs.ReadFile(EmbeddedAssets, "embedded/"+name)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	return c.Blob(http.StatusOK, contentType(name), data)
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".svg":
		return "image/svg+xml"
	case ".txt":
		return echo.MIMETextPlainCharsetUTF8
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return echo.MIMEApplicationJavaScriptCharsetUTF8
	}
	return echo.MIMEOctetStream
}
