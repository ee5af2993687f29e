// Package ui holds the presentational building blocks shared by every page:
// the variant resolver, the slide-over sheet, the appearance switch and the
// article wrapper.
package ui

import (
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// Merge joins class lists. When a later utility sets the same CSS property as an
// earlier one under the same variants, the earlier one is dropped.
func Merge(classes ...string) string {
	parts := make([]string, 0, len(classes))
	for _, list := range classes {
		if list = strings.Join(strings.Fields(list), " "); list != "" {
			parts = append(parts, list)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return twmerge.Merge(parts...)
}
