package files

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/inkwell-blog/inkwell/content"
)

// ![caption](url) or ![caption](url){1200x630}
var reImageLine = regexp.MustCompile(`^!\[(.*?)\]\((\S+?)\)(?:\{(\d+)x(\d+)\})?$`)

var reNumbered = regexp.MustCompile(`^\d+\.\s+`)

// ParseBlocks splits a markdown body into content blocks. Constructs without a
// dedicated block kind (tables) are kept as markdown blocks.
func ParseBlocks(md string) []content.Block {
	var (
		blocks []content.Block
		para   []string
		quote  []string
		table  []string
		code   []string
		lang   string
		inCode bool
	)

	flushPara := func() {
		if len(para) > 0 {
			blocks = append(blocks, content.Block{Kind: content.BlockParagraph, Text: strings.Join(para, " ")})
			para = nil
		}
	}
	flushQuote := func() {
		if len(quote) > 0 {
			blocks = append(blocks, content.Block{Kind: content.BlockQuote, Text: strings.Join(quote, " ")})
			quote = nil
		}
	}
	flushTable := func() {
		if len(table) > 0 {
			blocks = append(blocks, content.Block{Kind: content.BlockMarkdown, Text: strings.Join(table, "\n")})
			table = nil
		}
	}
	flushAll := func() {
		flushPara()
		flushQuote()
		flushTable()
	}

	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.HasPrefix(line, "```") {
			if inCode {
				blocks = append(blocks, content.Block{Kind: content.BlockCode, Language: lang, Text: strings.Join(code, "\n")})
				code, lang, inCode = nil, "", false
			} else {
				flushAll()
				lang = strings.TrimSpace(strings.TrimPrefix(line, "```"))
				inCode = true
			}
			continue
		}
		if inCode {
			code = append(code, line)
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flushAll()
			continue
		}

		switch {
		case strings.HasPrefix(line, "---"):
			flushAll()
			blocks = append(blocks, content.Block{Kind: content.BlockDivider})
		case strings.HasPrefix(line, "# "), strings.HasPrefix(line, "## "), strings.HasPrefix(line, "### "):
			flushAll()
			level := strings.Index(line, " ")
			blocks = append(blocks, content.Block{Kind: content.BlockHeading, Level: level, Text: strings.TrimSpace(line[level:])})
		case strings.HasPrefix(line, "|"):
			flushPara()
			flushQuote()
			table = append(table, line)
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			flushAll()
			blocks = append(blocks, content.Block{Kind: content.BlockBulleted, Text: strings.TrimSpace(line[2:])})
		case reNumbered.MatchString(line):
			flushAll()
			blocks = append(blocks, content.Block{Kind: content.BlockNumbered, Text: strings.TrimSpace(reNumbered.ReplaceAllString(line, ""))})
		case strings.HasPrefix(line, "> "):
			flushPara()
			flushTable()
			quote = append(quote, strings.TrimSpace(line[2:]))
		case reImageLine.MatchString(trimmed):
			flushAll()
			m := reImageLine.FindStringSubmatch(trimmed)
			b := content.Block{Kind: content.BlockImage, Caption: m[1], URL: m[2]}
			b.Width, _ = strconv.Atoi(m[3])
			b.Height, _ = strconv.Atoi(m[4])
			blocks = append(blocks, b)
		default:
			flushQuote()
			flushTable()
			para = append(para, trimmed)
		}
	}
	if inCode {
		blocks = append(blocks, content.Block{Kind: content.BlockCode, Language: lang, Text: strings.Join(code, "\n")})
	}
	flushAll()
	return blocks
}
