package inkwell

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/inkwell-blog/inkwell/cache"
	"github.com/inkwell-blog/inkwell/content"
)

// PostCache serves a content source through a cache. Results are reused for the
// revalidation window; concurrent misses on the same key share one fetch. Errors
// and empty results are never stored.
type PostCache struct {
	src    content.Source
	store  cache.Cache
	window time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// NewPostCache creates a PostCache over src backed by store.
func NewPostCache(src content.Source, store cache.Cache, window time.Duration, logger *zap.Logger) *PostCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostCache{src: src, store: store, window: window, logger: logger}
}

const feedKey = "feed"

// refillTimeout bounds a shared refill once it no longer follows a caller.
const refillTimeout = 30 * time.Second

func infoKey(slug string, flag bool) string {
	return "info:" + slug + ":" + strconv.FormatBool(flag)
}

func blocksKey(slug string, flag bool) string {
	return "blocks:" + slug + ":" + strconv.FormatBool(flag)
}

func (c *PostCache) ListPosts(ctx context.Context) ([]content.PostInfo, error) {
	return cached(ctx, c, feedKey, c.src.ListPosts, func(p []content.PostInfo) bool { return len(p) > 0 })
}

func (c *PostCache) GetPostInfo(ctx context.Context, slug string, flag bool) (*content.PostInfo, error) {
	return cached(ctx, c, infoKey(slug, flag), func(ctx context.Context) (*content.PostInfo, error) {
		return c.src.GetPostInfo(ctx, slug, flag)
	}, func(p *content.PostInfo) bool { return p != nil })
}

func (c *PostCache) GetPostContent(ctx context.Context, slug string, flag bool) ([]content.Block, error) {
	return cached(ctx, c, blocksKey(slug, flag), func(ctx context.Context) ([]content.Block, error) {
		return c.src.GetPostContent(ctx, slug, flag)
	}, func(b []content.Block) bool { return len(b) > 0 })
}

// Invalidate drops the cached feed and both flag variants of slug's entries.
// An empty slug only drops the feed.
func (c *PostCache) Invalidate(ctx context.Context, slug string) error {
	keys := []string{feedKey}
	if slug != "" {
		keys = append(keys, infoKey(slug, true), infoKey(slug, false), blocksKey(slug, true), blocksKey(slug, false))
	}
	var errs []error
	for _, k := range keys {
		if err := c.store.Delete(ctx, k); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// cached serves key from the store or refills it. The refill is shared by every
// caller waiting on key, so it runs detached from any single caller's context;
// each caller still stops waiting when its own context ends.
func cached[T any](ctx context.Context, c *PostCache, key string, fetch func(context.Context) (T, error), present func(T) bool) (T, error) {
	var zero T
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		c.logger.Warn("cache entry corrupt", zap.String("key", key))
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refillTimeout)
		defer cancel()
		v, err := fetch(fctx)
		if err != nil {
			return zero, err
		}
		if !present(v) {
			return v, nil
		}
		if data, err := json.Marshal(v); err == nil {
			if err := c.store.Set(fctx, key, data, c.window); err != nil {
				c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return v, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

var _ content.Source = (*PostCache)(nil)
