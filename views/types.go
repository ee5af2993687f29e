package views

import "github.com/inkwell-blog/inkwell/ui"

// Site holds site-wide settings. Every page receives it so nothing is hardcoded.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
	Comments    Giscus
}

// Giscus configures the discussion widget under each post. An empty Repo disables it.
type Giscus struct {
	Repo       string
	RepoID     string
	Category   string
	CategoryID string
	Mapping    string
	Lang       string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
	JSONLD      string
}

// Chrome is the per-request state of the page frame around the content.
type Chrome struct {
	Path      string // current path, without the menu query
	MenuOpen  bool
	Theme     ui.Theme
	CSRFToken string
}
