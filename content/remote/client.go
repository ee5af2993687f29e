// Package remote reads posts from a headless CMS gateway over JSON/HTTP.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/inkwell-blog/inkwell/content"
)

const (
	defaultTimeout   = 5 * time.Second
	defaultFlagParam = "flag"
	maxErrorBody     = 512
)

// Client is a content.Source backed by a remote CMS gateway exposing:
//
//	GET {base}/posts
//	GET {base}/posts/{slug}?{flag}=true|false
//	GET {base}/posts/{slug}/blocks?{flag}=true|false
type Client struct {
	baseURL   string
	token     string
	flagParam string
	http      *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithFlagParam names the query parameter that carries the pass-through flag.
func WithFlagParam(name string) Option {
	return func(c *Client) {
		if name = strings.TrimSpace(name); name != "" {
			c.flagParam = name
		}
	}
}

// New creates a Client for the gateway at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("remote: invalid base url %q", baseURL)
	}
	c := &Client{
		baseURL:   base,
		flagParam: defaultFlagParam,
		http:      &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListPosts returns the ordered feed of post summaries.
func (c *Client) ListPosts(ctx context.Context) ([]content.PostInfo, error) {
	var payload struct {
		Posts []postPayload `json:"posts"`
	}
	if err := c.get(ctx, []string{"posts"}, nil, &payload); err != nil {
		return nil, fmt.Errorf("remote: list posts: %w", err)
	}
	posts := make([]content.PostInfo, 0, len(payload.Posts))
	for _, p := range payload.Posts {
		if strings.TrimSpace(p.Slug) == "" {
			continue
		}
		posts = append(posts, p.info())
	}
	return posts, nil
}

// GetPostInfo returns the metadata of one post.
func (c *Client) GetPostInfo(ctx context.Context, slug string, flag bool) (*content.PostInfo, error) {
	slug = content.CleanSlug(slug)
	if slug == "" {
		return nil, content.ErrNotFound
	}
	var payload *postPayload
	if err := c.get(ctx, []string{"posts", slug}, c.flagQuery(flag), &payload); err != nil {
		return nil, fmt.Errorf("remote: get post %s: %w", slug, err)
	}
	if payload == nil || payload.empty() {
		return nil, fmt.Errorf("remote: get post %s: %w", slug, content.ErrNotFound)
	}
	info := payload.info()
	if info.Slug == "" {
		info.Slug = slug
	}
	return &info, nil
}

// GetPostContent returns the ordered body blocks of one post.
func (c *Client) GetPostContent(ctx context.Context, slug string, flag bool) ([]content.Block, error) {
	slug = content.CleanSlug(slug)
	if slug == "" {
		return nil, content.ErrNotFound
	}
	var payload struct {
		Blocks []content.Block `json:"blocks"`
	}
	if err := c.get(ctx, []string{"posts", slug, "blocks"}, c.flagQuery(flag), &payload); err != nil {
		return nil, fmt.Errorf("remote: get blocks %s: %w", slug, err)
	}
	return payload.Blocks, nil
}

func (c *Client) flagQuery(flag bool) url.Values {
	return url.Values{c.flagParam: []string{strconv.FormatBool(flag)}}
}

func (c *Client) get(ctx context.Context, segments []string, query url.Values, out any) error {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	endpoint := c.baseURL + "/" + strings.Join(escaped, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return content.ErrNotFound
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type postPayload struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Cover       content.Cover `json:"cover"`
	Date        string        `json:"date"`
	Tags        []string      `json:"tags"`
}

// empty reports a body such as {} that names no post.
func (p postPayload) empty() bool {
	return strings.TrimSpace(p.ID) == "" && strings.TrimSpace(p.Title) == ""
}

func (p postPayload) info() content.PostInfo {
	return content.PostInfo{
		ID:          strings.TrimSpace(p.ID),
		Slug:        strings.TrimSpace(p.Slug),
		Title:       strings.TrimSpace(p.Title),
		Description: strings.TrimSpace(p.Description),
		Cover:       p.Cover,
		Date:        parseDate(p.Date),
		Tags:        p.Tags,
	}
}

func parseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

var _ content.Source = (*Client)(nil)
