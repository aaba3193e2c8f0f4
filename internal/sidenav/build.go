// Package sidenav builds the documentation sidebar from page front matter and
// the curated order table.
package sidenav

import (
	"path"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Entry is one sidebar node.
type Entry struct {
	Title    string  `json:"title,omitempty"`
	URL      string  `json:"url,omitempty"`
	Path     string  `json:"path,omitempty"`
	Position int     `json:"position"`
	Category bool    `json:"category,omitempty"`
	Divider  bool    `json:"divider,omitempty"`
	External bool    `json:"external,omitempty"`
	Children []Entry `json:"children,omitempty"`
}

// Contains reports whether url is this entry or one of its descendants.
func (e Entry) Contains(url string) bool {
	if !e.External && e.URL != "" && e.URL == url {
		return true
	}
	for _, c := range e.Children {
		if c.Contains(url) {
			return true
		}
	}
	return false
}

// Report lists order references without a page and pages missing from the order.
type Report struct {
	Missing  []string
	Unlisted []string
}

// Build assembles the sidebar for category. Entries named by order come
// first in table order; pages the table does not mention are appended to
// their closest category (or the top level) sorted by path. Hidden pages
// and the category root page are only shown when the table names them.
func Build(category string, pages []PageMeta, order Order) ([]Entry, Report) {
	b := &builder{
		category: category,
		pages:    make(map[string]PageMeta, len(pages)),
		used:     make(map[string]bool, len(pages)),
	}
	for _, p := range pages {
		if _, dup := b.pages[p.Path]; !dup {
			b.pages[p.Path] = p
		}
	}

	entries := b.items(order, "")

	var unlisted []PageMeta
	for _, p := range pages {
		if b.used[p.Path] || p.Hidden || p.Path == "" {
			continue
		}
		b.used[p.Path] = true
		unlisted = append(unlisted, p)
	}
	sort.Slice(unlisted, func(i, j int) bool { return unlisted[i].Path < unlisted[j].Path })
	for _, p := range unlisted {
		entries = b.attach(entries, p)
		b.report.Unlisted = append(b.report.Unlisted, p.Path)
	}

	numberPositions(entries)
	return entries, b.report
}

type builder struct {
	category string
	pages    map[string]PageMeta
	used     map[string]bool
	report   Report
}

func (b *builder) url(p string) string {
	if p == "" {
		return "/" + b.category
	}
	return "/" + b.category + "/" + p
}

func (b *builder) items(order Order, prefix string) []Entry {
	entries := make([]Entry, 0, len(order))
	for _, item := range order {
		switch {
		case item.Divider:
			entries = append(entries, Entry{Divider: true})
		case item.Href != "":
			entries = append(entries, Entry{Title: item.Title, URL: item.Href, External: true})
		case item.Category != "":
			entries = append(entries, b.categoryEntry(item, path.Join(prefix, item.Category)))
		default:
			p := path.Join(prefix, item.Page)
			page, ok := b.pages[p]
			if !ok {
				b.report.Missing = append(b.report.Missing, p)
				continue
			}
			b.used[p] = true
			entries = append(entries, Entry{Title: page.Label(), URL: b.url(p), Path: p})
		}
	}
	return entries
}

func (b *builder) categoryEntry(item OrderItem, p string) Entry {
	e := Entry{Path: p, Category: true, Title: item.Name}
	if page, ok := b.pages[p]; ok {
		b.used[p] = true
		e.URL = b.url(p)
		if e.Title == "" {
			e.Title = page.Label()
		}
	}
	if e.Title == "" {
		e.Title = titleFromSegment(path.Base(p))
	}
	e.Children = b.items(item.Content, p)
	return e
}

// attach places page below the deepest entry whose path prefixes it. A page
// entry that gains children becomes a category.
func (b *builder) attach(entries []Entry, page PageMeta) []Entry {
	for i := range entries {
		e := &entries[i]
		if e.Divider || e.External || e.Path == "" {
			continue
		}
		if strings.HasPrefix(page.Path, e.Path+"/") {
			e.Category = true
			e.Children = b.attach(e.Children, page)
			return entries
		}
	}
	return append(entries, Entry{Title: page.Label(), URL: b.url(page.Path), Path: page.Path})
}

func numberPositions(entries []Entry) {
	for i := range entries {
		entries[i].Position = i
		numberPositions(entries[i].Children)
	}
}

// titleFromSegment turns "job-specification" into "Job Specification".
func titleFromSegment(segment string) string {
	return cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(segment))
}
