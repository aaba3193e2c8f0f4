package page

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/sidenav"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

// Assets returns the static files the page template links to, rooted so
// that "docs.css" and "search.js" are top-level names.
func Assets() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		panic("embedded assets missing: " + err.Error())
	}
	return sub
}

// Site holds the values shared by every page of a build.
type Site struct {
	Product  string
	SiteName string
	Category string
}

// Template renders Props into a complete HTML document.
type Template struct {
	site Site
	tpl  *template.Template
}

// NewTemplate parses the embedded page template.
func NewTemplate(site Site) (*Template, error) {
	tpl, err := template.New("page.html.tmpl").Option("missingkey=error").ParseFS(embeddedTemplates, "templates/page.html.tmpl")
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "parse page template").Build()
	}
	return &Template{site: site, tpl: tpl}, nil
}

type navItem struct {
	Title    string
	URL      string
	Category bool
	Divider  bool
	External bool
	Open     bool
	Active   bool
	Children []navItem
}

type view struct {
	Title         string
	Description   string
	SiteName      string
	Product       string
	Category      string
	CategoryTitle string
	ResourceURL   string
	Content       template.HTML
	Sidenav       []navItem
}

// Render writes the document for props. content is the hydrated page body.
func (t *Template) Render(w io.Writer, props *Props, content template.HTML) error {
	v := view{
		Title:         t.title(props),
		Description:   props.Description(),
		SiteName:      t.site.SiteName,
		Product:       t.site.Product,
		Category:      t.site.Category,
		CategoryTitle: cases.Title(language.English).String(t.site.Category),
		ResourceURL:   props.ResourceURL,
		Content:       content,
		Sidenav:       navItems(props.Sidenav, props.URL),
	}

	// Execute into a buffer; w only ever sees a complete page.
	var buf bytes.Buffer
	if err := t.tpl.Execute(&buf, v); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRender, "execute page template").
			WithContext("url", props.URL).
			Build()
	}
	if _, err := buf.WriteTo(w); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write page").Build()
	}
	return nil
}

func (t *Template) title(props *Props) string {
	title := strings.TrimSpace(props.Title())
	if title == "" {
		return t.site.SiteName
	}
	if t.site.SiteName == "" {
		return title
	}
	return title + " | " + t.site.SiteName
}

func navItems(entries []sidenav.Entry, current string) []navItem {
	if len(entries) == 0 {
		return nil
	}
	items := make([]navItem, len(entries))
	for i, e := range entries {
		items[i] = navItem{
			Title:    e.Title,
			URL:      e.URL,
			Category: e.Category,
			Divider:  e.Divider,
			External: e.External,
			Open:     e.Category && e.Contains(current),
			Active:   !e.External && e.URL != "" && e.URL == current,
			Children: navItems(e.Children, current),
		}
	}
	return items
}
