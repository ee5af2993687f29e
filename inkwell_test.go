package inkwell

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/inkwell-blog/inkwell/content"
	"github.com/inkwell-blog/inkwell/content/remote"
)

type fakeSource struct {
	mu      sync.Mutex
	posts   []content.PostInfo
	infos   map[string]*content.PostInfo
	blocks  map[string][]content.Block
	listErr error
	infoErr error
	bodyErr error
	delay   time.Duration

	listCalls  int
	infoCalls  int
	blockCalls int
	lastFlag   bool
}

func newFakeSource() *fakeSource {
	hello := content.PostInfo{
		ID:          "p1",
		Slug:        "hello",
		Title:       "Hello World",
		Description: "A first post",
		Cover:       content.Cover{URL: "https://cdn.example.com/hello.webp", Width: 1200, Height: 630},
		Date:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Tags:        []string{"go"},
	}
	second := content.PostInfo{ID: "p2", Slug: "second", Title: "Second Post", Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)}
	return &fakeSource{
		posts: []content.PostInfo{hello, second},
		infos: map[string]*content.PostInfo{"hello": &hello, "second": &second},
		blocks: map[string][]content.Block{
			"hello": {{Kind: content.BlockParagraph, Text: "Welcome to the **blog**."}},
		},
	}
}

func (f *fakeSource) ListPosts(ctx context.Context) ([]content.PostInfo, error) {
	f.mu.Lock()
	f.listCalls++
	delay, posts, err := f.delay, f.posts, f.listErr
	f.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return posts, err
}

func (f *fakeSource) GetPostInfo(ctx context.Context, slug string, flag bool) (*content.PostInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infoCalls++
	f.lastFlag = flag
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	p, ok := f.infos[slug]
	if !ok {
		return nil, content.ErrNotFound
	}
	return p, nil
}

func (f *fakeSource) GetPostContent(ctx context.Context, slug string, flag bool) ([]content.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blockCalls++
	if f.bodyErr != nil {
		return nil, f.bodyErr
	}
	return f.blocks[slug], nil
}

func (f *fakeSource) calls() (list, info, blocks int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.infoCalls, f.blockCalls
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testConfig() SiteConfig {
	return SiteConfig{
		Name:          "Inkwell",
		URL:           "https://blog.example.com",
		Description:   "Notes and essays",
		SessionSecret: "0123456789abcdef0123456789abcdef",
		FallbackDelay: time.Second,
	}
}

func newTestApp(t *testing.T, src *fakeSource, opts ...Option) *App {
	t.Helper()
	return newTestAppWithConfig(t, testConfig(), src, opts...)
}

func newTestAppWithConfig(t *testing.T, cfg SiteConfig, src *fakeSource, opts ...Option) *App {
	t.Helper()
	base := []Option{WithSource(src), WithLogger(zap.NewNop()), WithStaticDir(t.TempDir())}
	a := New(cfg, append(base, opts...)...)
	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func doRequest(a *App, method, target string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, fn := range mutate {
		fn(req)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestRootRedirectsToFeed(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	rec := doRequest(a, http.MethodGet, "/")
	if rec.Code != http.StatusFound {
		t.Fatalf("GET / status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/feedlist/" {
		t.Errorf("Location = %q", loc)
	}
}

func TestTrailingSlashRedirect(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	rec := doRequest(a, http.MethodGet, "/post/hello")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want 301", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/post/hello/" {
		t.Errorf("Location = %q", loc)
	}
}

func TestFeedListRendersPosts(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	rec := doRequest(a, http.MethodGet, "/feedlist/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Hello World", "Second Post", `href="/post/hello/"`, `"@type":"WebSite"`} {
		if !strings.Contains(body, want) {
			t.Errorf("feed body missing %q", want)
		}
	}
	if strings.Contains(body, "Loading my feed list...") {
		t.Error("fast feed should not stream the placeholder")
	}
}

func TestFeedListRevalidationWindow(t *testing.T) {
	src := newFakeSource()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	a := newTestApp(t, src, WithClock(clock.Now))

	for i := 0; i < 2; i++ {
		if rec := doRequest(a, http.MethodGet, "/feedlist/"); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	if list, _, _ := src.calls(); list != 1 {
		t.Fatalf("ListPosts calls within window = %d, want 1", list)
	}

	clock.Advance(time.Hour + time.Minute)
	doRequest(a, http.MethodGet, "/feedlist/")
	doRequest(a, http.MethodGet, "/feedlist/")
	if list, _, _ := src.calls(); list != 2 {
		t.Errorf("ListPosts calls after window = %d, want 2", list)
	}
}

func TestFeedListEmptyIsNotFound(t *testing.T) {
	src := newFakeSource()
	src.posts = nil
	a := newTestApp(t, src)
	rec := doRequest(a, http.MethodGet, "/feedlist/")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Page not found") {
		t.Error("404 page not rendered")
	}
}

func TestFeedListSourceErrorIsServerError(t *testing.T) {
	src := newFakeSource()
	src.listErr = errors.New("upstream down")
	a := newTestApp(t, src)
	rec := doRequest(a, http.MethodGet, "/feedlist/")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Something went wrong") {
		t.Error("500 page not rendered")
	}
}

func TestFeedListErrorsAreNotCached(t *testing.T) {
	src := newFakeSource()
	src.listErr = errors.New("flaky")
	a := newTestApp(t, src)
	doRequest(a, http.MethodGet, "/feedlist/")

	src.mu.Lock()
	src.listErr = nil
	src.mu.Unlock()
	if rec := doRequest(a, http.MethodGet, "/feedlist/"); rec.Code != http.StatusOK {
		t.Fatalf("status after recovery = %d", rec.Code)
	}
	if list, _, _ := src.calls(); list != 2 {
		t.Errorf("ListPosts calls = %d, want 2", list)
	}
}

func TestFeedListStreamsPlaceholder(t *testing.T) {
	src := newFakeSource()
	src.delay = 100 * time.Millisecond
	cfg := testConfig()
	cfg.FallbackDelay = 5 * time.Millisecond
	a := newTestAppWithConfig(t, cfg, src)

	rec := doRequest(a, http.MethodGet, "/feedlist/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	placeholder := strings.Index(body, "Loading my feed list...")
	list := strings.Index(body, "Hello World")
	if placeholder < 0 || list < 0 || placeholder > list {
		t.Fatalf("placeholder should precede the list: %d vs %d", placeholder, list)
	}
	if !strings.Contains(body, `<template id="feed-content">`) {
		t.Error("streamed list is not wrapped for swapping")
	}
	if !rec.Flushed {
		t.Error("placeholder was not flushed")
	}
}

func TestFeedListMenuSheet(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	body := doRequest(a, http.MethodGet, "/feedlist/?menu=open").Body.String()
	for _, want := range []string{`role="dialog"`, `<span class="sr-only">Close</span>`, `href="/feedlist/"`, "w-1/4"} {
		if !strings.Contains(body, want) {
			t.Errorf("open menu missing %q", want)
		}
	}
	closed := doRequest(a, http.MethodGet, "/feedlist/").Body.String()
	if strings.Contains(closed, `role="dialog"`) {
		t.Error("menu rendered without menu=open")
	}
}

func TestPostDetail(t *testing.T) {
	src := newFakeSource()
	a := newTestApp(t, src)
	rec := doRequest(a, http.MethodGet, "/post/hello/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Hello World",
		"https://cdn.example.com/hello.webp",
		`width="1200" height="630"`,
		"Welcome to the <strong>blog</strong>.",
		"Go back",
		`<title>Hello World | Inkwell</title>`,
		`<meta name="description" content="A first post">`,
		`"@type":"BlogPosting"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("post body missing %q", want)
		}
	}
	if !src.lastFlag {
		t.Error("detail fetches should pass the default flag true")
	}
}

func TestPostDetailMissingBlocksIsNotFound(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	rec := doRequest(a, http.MethodGet, "/post/second/")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPostDetailMissingPostIsNotFound(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	if rec := doRequest(a, http.MethodGet, "/post/nope/"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPostDetailFetchFailureIsNotFound(t *testing.T) {
	src := newFakeSource()
	src.bodyErr = errors.New("timeout")
	a := newTestApp(t, src)
	if rec := doRequest(a, http.MethodGet, "/post/hello/"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	_, err := a.LoadPost(context.Background(), "hello")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadPost error = %v, want ErrNotFound", err)
	}
}

func TestPostDetailNullMetadataIsNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/posts/ghost", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})
	mux.HandleFunc("/posts/ghost/blocks", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"blocks":[{"kind":"paragraph","text":"orphaned body"}]}`))
	})
	gw := httptest.NewServer(mux)
	t.Cleanup(gw.Close)
	client, err := remote.New(gw.URL)
	if err != nil {
		t.Fatalf("remote.New: %v", err)
	}

	a := newTestApp(t, newFakeSource(), WithSource(client))
	if _, err := a.LoadPost(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadPost error = %v, want ErrNotFound", err)
	}
	if rec := doRequest(a, http.MethodGet, "/post/ghost/"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPostFlagFromConfig(t *testing.T) {
	src := newFakeSource()
	cfg := testConfig()
	off := false
	cfg.Content.Flag = &off
	a := newTestAppWithConfig(t, cfg, src)
	if _, err := a.LoadPost(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}
	if src.lastFlag {
		t.Error("configured flag false was not passed through")
	}
}

func TestStaticParams(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	slugs, err := a.StaticParams(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(slugs, ",") != "hello,second" {
		t.Errorf("StaticParams = %v", slugs)
	}

	empty := newFakeSource()
	empty.posts = nil
	b := newTestApp(t, empty)
	slugs, err = b.StaticParams(context.Background())
	if err != nil || len(slugs) != 0 || slugs == nil {
		t.Errorf("StaticParams on empty feed = %#v, %v", slugs, err)
	}
}

func TestGenerateMetadata(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	meta := a.GenerateMetadata(context.Background(), "hello")
	if meta.Title != "Hello World" || meta.Description != "A first post" {
		t.Errorf("GenerateMetadata = %+v", meta)
	}
	if meta.URL != "https://blog.example.com/post/hello/" {
		t.Errorf("meta URL = %q", meta.URL)
	}
	if got := a.GenerateMetadata(context.Background(), "missing"); got != (PageMeta{}) {
		t.Errorf("missing post metadata = %+v, want zero", got)
	}
}

func TestRSSAndSitemap(t *testing.T) {
	a := newTestApp(t, newFakeSource())

	rss := doRequest(a, http.MethodGet, "/feed.xml")
	if rss.Code != http.StatusOK || !strings.Contains(rss.Header().Get("Content-Type"), "rss+xml") {
		t.Fatalf("feed.xml status %d, type %q", rss.Code, rss.Header().Get("Content-Type"))
	}
	for _, want := range []string{"<link>https://blog.example.com/post/hello/</link>", "<title>Hello World</title>", "<category>go</category>"} {
		if !strings.Contains(rss.Body.String(), want) {
			t.Errorf("rss missing %q", want)
		}
	}

	sm := doRequest(a, http.MethodGet, "/sitemap.xml")
	for _, want := range []string{"<loc>https://blog.example.com/feedlist/</loc>", "<loc>https://blog.example.com/post/second/</loc>", "<lastmod>2024-05-01</lastmod>"} {
		if !strings.Contains(sm.Body.String(), want) {
			t.Errorf("sitemap missing %q", want)
		}
	}
}

func TestRobotsAndFavicon(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	robots := doRequest(a, http.MethodGet, "/robots.txt")
	if !strings.Contains(robots.Body.String(), "Sitemap: https://blog.example.com/sitemap.xml") {
		t.Errorf("robots.txt = %q", robots.Body.String())
	}
	fav := doRequest(a, http.MethodGet, "/favicon.svg")
	if fav.Code != http.StatusOK || !strings.Contains(fav.Body.String(), "<svg") {
		t.Errorf("favicon status %d", fav.Code)
	}
	js := doRequest(a, http.MethodGet, "/public/theme.js")
	if js.Code != http.StatusOK || !strings.Contains(js.Body.String(), "data-theme-switch") {
		t.Errorf("theme.js status %d", js.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	rec := doRequest(a, http.MethodGet, "/feedlist/")
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options")
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Error("missing request id")
	}
}
