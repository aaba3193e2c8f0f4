// Package page assembles the props of one documentation page and renders
// them into a complete HTML document.
package page

import (
	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/frontmatter"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"git.home.luguber.info/inful/docsite/internal/sidenav"
)

// Props is everything needed to render one page. It is created once per
// page per build and never mutated afterwards.
type Props struct {
	RenderedContent markdown.RenderedContent `json:"renderedContent"`
	FrontMatter     frontmatter.FrontMatter  `json:"frontMatter"`
	ResourceURL     string                   `json:"resourceUrl"`
	URL             string                   `json:"url"`
	Sidenav         []sidenav.Entry          `json:"sidenavData"`

	Slug        content.Slug `json:"-"`
	SourcePath  string       `json:"-"`
	Fingerprint string       `json:"-"`
}

// Title is the page_title front matter value.
func (p *Props) Title() string {
	return p.FrontMatter.String("page_title")
}

// Description is the description front matter value.
func (p *Props) Description() string {
	return p.FrontMatter.String("description")
}
