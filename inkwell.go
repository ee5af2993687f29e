// Package inkwell is a personal blog server built with Go, Echo, and templ.
// It renders a feed list and post detail pages from a headless content source,
// with RSS, a sitemap, static export and a persisted light/dark preference.
package inkwell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/inkwell-blog/inkwell/cache"
	"github.com/inkwell-blog/inkwell/content"
	"github.com/inkwell-blog/inkwell/content/files"
	"github.com/inkwell-blog/inkwell/content/remote"
	"github.com/inkwell-blog/inkwell/logging"
	"github.com/inkwell-blog/inkwell/store"
	"github.com/inkwell-blog/inkwell/views"
)

// ErrNotFound is returned when a requested post or feed does not exist.
var ErrNotFound = content.ErrNotFound

// App is the central inkwell application. It wires together the content source,
// cache, handlers, middleware and views.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Logger  *zap.Logger
	Content *PostCache

	source       content.Source
	cache        cache.Cache
	closers      []io.Closer
	customRoutes []func(*App)
	staticDir    string
	now          func() time.Time
	site         views.Site
	ready        bool
}

// New creates a new inkwell App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
		now:       time.Now,
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	a.site = cfg.site()
	return a
}

// Init builds the logger, content source, cache, middleware and routes. It is
// safe to call more than once; Start and Export call it.
func (a *App) Init(ctx context.Context) error {
	if a.ready {
		return nil
	}
	if a.Logger == nil {
		logger, err := logging.New(a.Config.LogLevel)
		if err != nil {
			return fmt.Errorf("inkwell: init logger: %w", err)
		}
		a.Logger = logger
	}
	if a.source == nil {
		src, err := a.openSource()
		if err != nil {
			return err
		}
		a.source = src
	}
	if a.cache == nil {
		c, err := a.openCache(ctx)
		if err != nil {
			return err
		}
		a.cache = c
	}
	a.closers = append(a.closers, a.cache)
	a.Content = NewPostCache(newCoverSizer(a.source, a.staticDir), a.cache, a.Config.Revalidate, a.Logger)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

func (a *App) openSource() (content.Source, error) {
	cfg := a.Config.Content
	switch cfg.Source {
	case SourceRemote:
		c, err := remote.New(cfg.BaseURL,
			remote.WithToken(cfg.Token),
			remote.WithTimeout(cfg.Timeout),
			remote.WithFlagParam(cfg.FlagParam),
		)
		if err != nil {
			return nil, fmt.Errorf("inkwell: init remote source: %w", err)
		}
		return c, nil
	case SourceSQLite:
		st, err := store.Open(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("inkwell: init store: %w", err)
		}
		a.closers = append(a.closers, st)
		return st, nil
	default:
		src, err := files.New(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("inkwell: init files source: %w", err)
		}
		return src, nil
	}
}

func (a *App) openCache(ctx context.Context) (cache.Cache, error) {
	if a.Config.Cache.RedisAddr == "" {
		return cache.NewMemory(cache.WithClock(a.now)), nil
	}
	r, err := cache.NewRedis(ctx, cache.RedisOptions{
		Addr:     a.Config.Cache.RedisAddr,
		Password: a.Config.Cache.RedisPassword,
		DB:       a.Config.Cache.RedisDB,
		Prefix:   a.Config.Cache.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("inkwell: init redis cache: %w", err)
	}
	return r, nil
}

// Start initializes the app and serves HTTP until ctx is cancelled, then shuts
// the server down gracefully.
func (a *App) Start(ctx context.Context) error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("inkwell: SessionSecret is required")
	}
	if err := a.Init(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("listening", zap.String("addr", a.Config.Addr), zap.String("source", a.Config.Content.Source))
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("inkwell: shutdown: %w", err)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets are served under /public/ and fall through to the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	for _, name := range embeddedNames() {
		e.GET("/public/"+name, echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	}

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", handleRootRedirect)
	e.GET("/feedlist/", a.handleFeedList)
	e.GET("/post/:slug/", a.handlePost)
	e.POST("/theme/", a.handleTheme)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return errors.Join(errs...)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("inkwell: required environment variable %s is not set", key)
	}
	return v
}
