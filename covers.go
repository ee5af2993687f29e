package inkwell

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/inkwell-blog/inkwell/content"
)

// coverSizer fills in missing cover dimensions for images served from the static
// directory, so that pages can reserve the image box before it loads.
type coverSizer struct {
	content.Source
	dir string

	mu   sync.Mutex
	dims map[string]image.Point
}

func newCoverSizer(src content.Source, dir string) *coverSizer {
	return &coverSizer{Source: src, dir: dir, dims: make(map[string]image.Point)}
}

func (p *coverSizer) ListPosts(ctx context.Context) ([]content.PostInfo, error) {
	posts, err := p.Source.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]content.PostInfo, len(posts))
	copy(out, posts)
	for i := range out {
		p.fill(&out[i].Cover)
	}
	return out, nil
}

func (p *coverSizer) GetPostInfo(ctx context.Context, slug string, flag bool) (*content.PostInfo, error) {
	info, err := p.Source.GetPostInfo(ctx, slug, flag)
	if err != nil || info == nil {
		return info, err
	}
	out := *info
	p.fill(&out.Cover)
	return &out, nil
}

func (p *coverSizer) fill(c *content.Cover) {
	if c.Width > 0 && c.Height > 0 {
		return
	}
	rel, ok := staticPath(c.URL)
	if !ok {
		return
	}
	pt := p.measure(rel)
	if pt.X > 0 && pt.Y > 0 {
		c.Width, c.Height = pt.X, pt.Y
	}
}

// measure decodes only the image header. Failures are remembered as a zero size.
func (p *coverSizer) measure(rel string) image.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pt, ok := p.dims[rel]; ok {
		return pt
	}
	var pt image.Point
	if f, err := os.Open(filepath.Join(p.dir, filepath.FromSlash(rel))); err == nil {
		if cfg, _, err := image.DecodeConfig(f); err == nil {
			pt = image.Pt(cfg.Width, cfg.Height)
		}
		f.Close()
	}
	p.dims[rel] = pt
	return pt
}

// staticPath maps a /public/ URL to a path relative to the static directory.
func staticPath(u string) (string, bool) {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	if !strings.HasPrefix(u, "/public/") {
		return "", false
	}
	rel := path.Clean(strings.TrimPrefix(u, "/public/"))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") || strings.HasPrefix(rel, "/") {
		return "", false
	}
	return rel, true
}
