package inkwell

import (
	"embed"
	"io/fs"
	"sort"
)

// EmbeddedAssets contains static assets shipped with the server:
// theme.js, sheet.js, site.css and the default favicon.svg.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

func embeddedNames() []string {
	entries, err := fs.ReadDir(EmbeddedAssets, "embedded")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}
