// Package content defines the post model and the source contract the site renders from.
package content

import "time"

// Cover describes a post's cover image.
type Cover struct {
	URL    string `json:"url" yaml:"url"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// PostInfo is the metadata of a post. Feed listings return the same shape.
type PostInfo struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Cover       Cover     `json:"cover"`
	Date        time.Time `json:"date"`
	Tags        []string  `json:"tags,omitempty"`
}

// Link returns the site-relative URL of the post detail page.
func (p PostInfo) Link() string {
	return "/post/" + p.Slug + "/"
}

// BlockKind names the type of a content block.
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockHeading   BlockKind = "heading"
	BlockQuote     BlockKind = "quote"
	BlockCode      BlockKind = "code"
	BlockImage     BlockKind = "image"
	BlockBulleted  BlockKind = "bulleted"
	BlockNumbered  BlockKind = "numbered"
	BlockDivider   BlockKind = "divider"
	BlockMarkdown  BlockKind = "markdown"
)

// Block is one element of a post body. Which fields are meaningful depends on Kind:
// Text carries inline markdown for paragraph, heading, quote and list items, raw source
// for code and a full document for markdown; URL, Caption, Width and Height describe images.
type Block struct {
	ID       string    `json:"id,omitempty"`
	Kind     BlockKind `json:"kind"`
	Text     string    `json:"text,omitempty"`
	Level    int       `json:"level,omitempty"`
	Language string    `json:"language,omitempty"`
	URL      string    `json:"url,omitempty"`
	Caption  string    `json:"caption,omitempty"`
	Width    int       `json:"width,omitempty"`
	Height   int       `json:"height,omitempty"`
}

// Post is a fully fetched post: metadata plus its ordered body.
type Post struct {
	PostInfo
	Blocks []Block
}
