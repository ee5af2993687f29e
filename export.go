package inkwell

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inkwell-blog/inkwell/views"
)

// Export writes the site as static files under dir: the feed page, one page per
// post returned by StaticParams, the XML feeds and the public assets. Posts that
// cannot be loaded are skipped with a warning.
func (a *App) Export(ctx context.Context, dir string) error {
	if err := a.Init(ctx); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("inkwell: export: %w", err)
	}

	posts, err := a.listForFeeds(ctx)
	if err != nil {
		return fmt.Errorf("inkwell: export feed: %w", err)
	}
	feedBody := views.FeedList(posts)
	if len(posts) == 0 {
		feedBody = views.NotFound()
	}
	if err := a.writePage(ctx, dir, "feedlist", a.feedMeta(), feedBody); err != nil {
		return err
	}
	redirect := `<!DOCTYPE html><meta charset="utf-8"><meta http-equiv="refresh" content="0; url=/feedlist/"><link rel="canonical" href="/feedlist/">`
	if err := writeFile(filepath.Join(dir, "index.html"), []byte(redirect)); err != nil {
		return err
	}

	slugs, err := a.StaticParams(ctx)
	if err != nil {
		return fmt.Errorf("inkwell: export params: %w", err)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, slug := range slugs {
		g.Go(func() error {
			post, err := a.LoadPost(gctx, slug)
			if errors.Is(err, ErrNotFound) {
				a.Logger.Warn("export: skipping post", zap.String("slug", slug), zap.Error(err))
				return nil
			}
			if err != nil {
				return err
			}
			return a.writePage(gctx, dir, "post/"+post.Slug, a.postMeta(post.PostInfo), views.PostPage(a.site, post))
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := a.writeXML(filepath.Join(dir, "feed.xml"), a.buildRSS(posts)); err != nil {
		return err
	}
	if err := a.writeXML(filepath.Join(dir, "sitemap.xml"), a.buildSitemap(posts)); err != nil {
		return err
	}
	robots := "User-agent: *\nAllow: /\nSitemap: " + strings.TrimSuffix(a.Config.URL, "/") + "/sitemap.xml\n"
	if err := writeFile(filepath.Join(dir, "robots.txt"), []byte(robots)); err != nil {
		return err
	}
	return a.exportAssets(dir)
}

func (a *App) writePage(ctx context.Context, dir, route string, meta PageMeta, body templ.Component) error {
	var buf bytes.Buffer
	chrome := views.Chrome{Path: "/" + route + "/"}
	if err := a.document(meta, chrome, body).Render(ctx, &buf); err != nil {
		return fmt.Errorf("inkwell: render %s: %w", route, err)
	}
	return writeFile(filepath.Join(dir, filepath.FromSlash(route), "index.html"), buf.Bytes())
}

func (a *App) writeXML(path string, v any) error {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("inkwell: encode %s: %w", filepath.Base(path), err)
	}
	return writeFile(path, buf.Bytes())
}

// exportAssets copies the embedded assets and then the user's static dir, so user
// files override the defaults.
func (a *App) exportAssets(dir string) error {
	for _, name := range embeddedNames() {
		data, err := fs.ReadFile(EmbeddedAssets, "embedded/"+name)
		if err != nil {
			return err
		}
		if err := writeFile(filepath.Join(dir, "public", name), data); err != nil {
			return err
		}
		if name == "favicon.svg" {
			if err := writeFile(filepath.Join(dir, name), data); err != nil {
				return err
			}
		}
	}
	if _, err := os.Stat(a.staticDir); err != nil {
		return nil
	}
	return filepath.WalkDir(a.staticDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(a.staticDir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		return writeFile(filepath.Join(dir, "public", rel), data)
	})
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("inkwell: export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("inkwell: export: %w", err)
	}
	return nil
}
