package inkwell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestValidateDefaults(t *testing.T) {
	var cfg SiteConfig
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Name != "Blog" || cfg.Addr != ":3000" || cfg.Revalidate != time.Hour || cfg.FallbackDelay != 150*time.Millisecond {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Content.Source != SourceFiles || cfg.Content.Dir != "content" || cfg.Content.FlagParam != "flag" {
		t.Errorf("content defaults = %+v", cfg.Content)
	}
	if !cfg.Content.FlagValue() {
		t.Error("flag should default to true")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		cfg   SiteConfig
		field string
	}{
		{"unknown source", SiteConfig{Content: ContentConfig{Source: "ftp"}}, "content.source"},
		{"remote without base url", SiteConfig{Content: ContentConfig{Source: SourceRemote}}, "content.baseurl"},
		{"bad url", SiteConfig{URL: "not a url"}, "url"},
		{"bad log level", SiteConfig{LogLevel: "loud"}, "loglevel"},
		{"comments without ids", SiteConfig{Comments: CommentsConfig{Repo: "me/blog"}}, "comments.repoid"},
		{"bad redis addr", SiteConfig{Cache: CacheConfig{RedisAddr: "localhost"}}, "cache.redisaddr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %q", err, tt.field)
			}
		})
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inkwell.yaml")
	raw := `name: File Blog
url: https://file.example.com
revalidate: 30m
content:
  source: remote
  base_url: https://cms.example.com/api
  flag: false
comments:
  repo: me/blog
  repo_id: R_1
  category_id: DIC_1
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SITE_NAME", "Env Blog")
	t.Setenv("CONTENT_TOKEN", "secret-token")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "Env Blog" {
		t.Errorf("Name = %q, env should win", cfg.Name)
	}
	if cfg.URL != "https://file.example.com" || cfg.Revalidate != 30*time.Minute {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.Content.Source != SourceRemote || cfg.Content.Token != "secret-token" || cfg.Content.FlagValue() {
		t.Errorf("content = %+v", cfg.Content)
	}
	if cfg.Comments.Repo != "me/blog" || cfg.Comments.CategoryID != "DIC_1" {
		t.Errorf("comments = %+v", cfg.Comments)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("INKWELL_TEST_VALUE", "set")
	if got := EnvOr("INKWELL_TEST_VALUE", "fallback"); got != "set" {
		t.Errorf("EnvOr = %q", got)
	}
	if got := EnvOr("INKWELL_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("EnvOr = %q", got)
	}
}

func TestSourceKindRuleRegistered(t *testing.T) {
	v := validatorInstance()
	for _, kind := range []string{SourceFiles, SourceRemote, SourceSQLite} {
		if err := v.Var(kind, "source_kind"); err != nil {
			t.Errorf("Var(%q) = %v, want nil", kind, err)
		}
	}
	if err := v.Var("ftp", "source_kind"); err == nil {
		t.Error("Var(\"ftp\") = nil, want validation error")
	}
}
