package inkwell

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/inkwell-blog/inkwell/content"
	"github.com/inkwell-blog/inkwell/logging"
	"github.com/inkwell-blog/inkwell/views"
)

type feedResult struct {
	posts []content.PostInfo
	err   error
}

// handleFeedList renders the feed. When the feed arrives within the fallback delay
// the page is rendered whole; otherwise the placeholder is streamed first and the
// list follows in the same response.
func (a *App) handleFeedList(c echo.Context) error {
	ctx := c.Request().Context()
	done := make(chan feedResult, 1)
	go func() {
		posts, err := a.Content.ListPosts(ctx)
		done <- feedResult{posts: posts, err: err}
	}()

	timer := time.NewTimer(a.Config.FallbackDelay)
	defer timer.Stop()
	select {
	case res := <-done:
		if err := feedError(res); err != nil {
			return err
		}
		return Render(c, a.page(c, a.feedMeta(), views.FeedList(res.posts)))
	case <-timer.C:
	}

	logger := logging.FromContext(ctx)
	deferred := views.Suspense("feed", views.FeedLoading(), func(ctx context.Context) templ.Component {
		var res feedResult
		select {
		case res = <-done:
		case <-ctx.Done():
			res.err = ctx.Err()
		}
		if err := feedError(res); err != nil {
			logger.Error("feed fetch failed after placeholder", zap.Error(err))
			if errors.Is(err, ErrNotFound) {
				return views.InlineError("No posts yet.")
			}
			return views.InlineError("The feed could not be loaded.")
		}
		return views.FeedList(res.posts)
	})
	return Render(c, a.page(c, a.feedMeta(), deferred))
}

func feedError(res feedResult) error {
	if res.err != nil {
		return res.err
	}
	if len(res.posts) == 0 {
		return ErrNotFound
	}
	return nil
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	post, err := a.LoadPost(ctx, slug)
	if err != nil {
		return err
	}
	return Render(c, a.page(c, a.postMeta(post.PostInfo), views.PostPage(a.site, post)))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.listForFeeds(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.listForFeeds(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

// listForFeeds treats a missing feed as empty so that XML endpoints stay valid.
func (a *App) listForFeeds(ctx context.Context) ([]content.PostInfo, error) {
	posts, err := a.Content.ListPosts(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return posts, err
}

func handleRootRedirect(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/feedlist/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return a.serveAsset(c, "favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	p := filepath.Join(a.staticDir, "robots.txt")
	if _, err := os.Stat(p); err == nil {
		return c.File(p)
	}
	return c.String(http.StatusOK, "User-agent: *\nAllow: /\nSitemap: "+strings.TrimSuffix(a.Config.URL, "/")+"/sitemap.xml\n")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if errors.Is(err, ErrNotFound) {
		_ = RenderStatus(c, http.StatusNotFound, a.page(c, PageMeta{Title: "Not found"}, views.NotFound()))
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.page(c, PageMeta{Title: "Not found"}, views.NotFound()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", zap.Error(err), zap.String("uri", c.Request().RequestURI))
		_ = RenderStatus(c, code, a.page(c, PageMeta{Title: "Error"}, views.ServerError()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
