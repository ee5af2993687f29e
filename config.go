package inkwell

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/inkwell-blog/inkwell/cache"
	"github.com/inkwell-blog/inkwell/content"
	"github.com/inkwell-blog/inkwell/views"
)

// Content source kinds.
const (
	SourceFiles  = "files"
	SourceRemote = "remote"
	SourceSQLite = "sqlite"
)

// SiteConfig holds all configuration for an inkwell site.
type SiteConfig struct {
	Name        string `yaml:"name" validate:"required"`
	URL         string `yaml:"url" validate:"required,url"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`

	Addr     string `yaml:"addr" validate:"required"`
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	SessionSecret string `yaml:"session_secret"`
	CookieSecure  bool   `yaml:"cookie_secure"`

	Revalidate    time.Duration `yaml:"revalidate" validate:"gte=0"`     // feed and post cache window (default 1h)
	FallbackDelay time.Duration `yaml:"fallback_delay" validate:"gte=0"` // wait before streaming the feed placeholder (default 150ms)

	Content  ContentConfig  `yaml:"content"`
	Cache    CacheConfig    `yaml:"cache"`
	Comments CommentsConfig `yaml:"comments"`
}

// ContentConfig selects and configures the content source.
type ContentConfig struct {
	Source       string        `yaml:"source" validate:"source_kind"`
	Dir          string        `yaml:"dir" validate:"required_if=Source files"`
	DatabasePath string        `yaml:"database_path" validate:"required_if=Source sqlite"`
	BaseURL      string        `yaml:"base_url" validate:"required_if=Source remote,omitempty,url"`
	Token        string        `yaml:"token"`
	FlagParam    string        `yaml:"flag_param"`
	Flag         *bool         `yaml:"flag"`
	Timeout      time.Duration `yaml:"timeout" validate:"gte=0"`
}

// FlagValue is the flag passed to both detail fetches. It defaults to true.
func (c ContentConfig) FlagValue() bool {
	return c.Flag == nil || *c.Flag
}

// CacheConfig selects the cache backend. An empty RedisAddr keeps the cache in process.
type CacheConfig struct {
	RedisAddr     string `yaml:"redis_addr" validate:"omitempty,hostname_port"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db" validate:"gte=0"`
	Prefix        string `yaml:"prefix"`
}

// CommentsConfig configures the Giscus thread under each post.
type CommentsConfig struct {
	Repo       string `yaml:"repo"`
	RepoID     string `yaml:"repo_id" validate:"required_with=Repo"`
	Category   string `yaml:"category"`
	CategoryID string `yaml:"category_id" validate:"required_with=Repo"`
	Mapping    string `yaml:"mapping" validate:"omitempty,oneof=pathname url title og:title"`
	Lang       string `yaml:"lang"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Revalidate == 0 {
		c.Revalidate = time.Hour
	}
	if c.FallbackDelay == 0 {
		c.FallbackDelay = 150 * time.Millisecond
	}
	if c.Content.Source == "" {
		c.Content.Source = SourceFiles
	}
	if c.Content.Dir == "" && c.Content.Source == SourceFiles {
		c.Content.Dir = "content"
	}
	if c.Content.DatabasePath == "" && c.Content.Source == SourceSQLite {
		c.Content.DatabasePath = "data/blog.db"
	}
	if c.Content.FlagParam == "" {
		c.Content.FlagParam = "flag"
	}
	if c.Content.Timeout == 0 {
		c.Content.Timeout = 10 * time.Second
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "inkwell:"
	}
}

func (c SiteConfig) site() views.Site {
	return views.Site{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Author:      c.Author,
		Comments: views.Giscus{
			Repo:       c.Comments.Repo,
			RepoID:     c.Comments.RepoID,
			Category:   c.Comments.Category,
			CategoryID: c.Comments.CategoryID,
			Mapping:    c.Comments.Mapping,
			Lang:       c.Comments.Lang,
		},
	}
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		if err := v.RegisterValidation("source_kind", validSourceKind); err != nil {
			panic(fmt.Sprintf("inkwell: register source_kind validation: %v", err))
		}
		validateInst = v
	})
	return validateInst
}

func validSourceKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case SourceFiles, SourceRemote, SourceSQLite:
		return true
	}
	return false
}

// Validate applies defaults and checks cfg, reporting the first offending field.
func (c *SiteConfig) Validate() error {
	c.setDefaults()
	if err := validatorInstance().Struct(c); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			fe := ves[0]
			return fmt.Errorf("inkwell: config: %s failed validation for tag '%s'", fieldName(fe), fe.Tag())
		}
		return fmt.Errorf("inkwell: config: %w", err)
	}
	return nil
}

func fieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, ".")
}

// LoadConfig reads a YAML config file, applies environment overrides and validates
// the result. An empty path skips the file.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("inkwell: read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("inkwell: parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *SiteConfig) error {
	strs := map[string]*string{
		"SITE_NAME":        &cfg.Name,
		"SITE_URL":         &cfg.URL,
		"SITE_DESCRIPTION": &cfg.Description,
		"SITE_AUTHOR":      &cfg.Author,
		"ADDR":             &cfg.Addr,
		"LOG_LEVEL":        &cfg.LogLevel,
		"SESSION_SECRET":   &cfg.SessionSecret,
		"CONTENT_SOURCE":   &cfg.Content.Source,
		"CONTENT_DIR":      &cfg.Content.Dir,
		"CONTENT_BASE_URL": &cfg.Content.BaseURL,
		"CONTENT_TOKEN":    &cfg.Content.Token,
		"DATABASE_PATH":    &cfg.Content.DatabasePath,
		"REDIS_ADDR":       &cfg.Cache.RedisAddr,
		"REDIS_PASSWORD":   &cfg.Cache.RedisPassword,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("inkwell: COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = b
	}
	if v := os.Getenv("REVALIDATE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("inkwell: REVALIDATE: %w", err)
		}
		cfg.Revalidate = d
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithSource replaces the content source built from the config.
func WithSource(src content.Source) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithCache sets the cache backend for fetched content.
func WithCache(c cache.Cache) Option {
	return func(a *App) {
		a.cache = c
	}
}

// WithLogger sets the application logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		a.Logger = logger
	}
}

// WithClock overrides the time source used by the content cache.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
