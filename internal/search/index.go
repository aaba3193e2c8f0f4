// Package search extracts a static full-text index from rendered pages. The
// search overlay of the page template loads it as JSON.
package search

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FileName is the index's name inside the output directory.
const FileName = "search-index.json"

// maxTextLength bounds the body text stored per page.
const maxTextLength = 5000

// Heading is an anchored heading of a page.
type Heading struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Level int    `json:"level"`
}

// Document is one indexed page.
type Document struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Headings    []Heading `json:"headings,omitempty"`
	Text        string    `json:"text"`
}

// Index collects documents from concurrent page workers.
type Index struct {
	mu   sync.Mutex
	docs []Document
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Add extracts headings and text from the page markup and stores the document.
func (i *Index) Add(url, title, description, markup string) error {
	doc, err := Extract(markup)
	if err != nil {
		return fmt.Errorf("index %s: %w", url, err)
	}
	doc.URL = url
	doc.Title = title
	doc.Description = description

	i.mu.Lock()
	i.docs = append(i.docs, doc)
	i.mu.Unlock()
	return nil
}

// Documents returns the collected documents ordered by URL.
func (i *Index) Documents() []Document {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]Document, len(i.docs))
	copy(out, i.docs)
	sort.Slice(out, func(a, b int) bool { return out[a].URL < out[b].URL })
	return out
}

// MarshalJSON writes the documents as a JSON array.
func (i *Index) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Documents())
}

// Extract parses page markup into headings and whitespace-normalized text.
// Permalink anchors and script or style content are skipped.
func Extract(markup string) (Document, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return Document{}, err
	}

	var doc Document
	var text strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
			text.WriteByte(' ')
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.A:
				if strings.HasPrefix(getAttr(n, "class"), "__permalink") {
					return
				}
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				if h, ok := heading(n); ok {
					doc.Headings = append(doc.Headings, h)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	doc.Text = truncate(strings.Join(strings.Fields(text.String()), " "), maxTextLength)
	return doc, nil
}

// heading reads the id from the target anchor the renderer places inside
// headings, falling back to an id on the heading itself.
func heading(n *html.Node) (Heading, bool) {
	id := getAttr(n, "id")
	var title strings.Builder
	var walk func(c *html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode && c.DataAtom == atom.A {
			class := getAttr(c, "class")
			if strings.HasPrefix(class, "__permalink") {
				return
			}
			if strings.HasPrefix(class, "__target") && id == "" {
				id = getAttr(c, "id")
			}
		}
		if c.Type == html.TextNode {
			title.WriteString(c.Data)
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	walk(n)
	if id == "" {
		return Heading{}, false
	}
	return Heading{
		ID:    id,
		Title: strings.Join(strings.Fields(title.String()), " "),
		Level: int(n.Data[1] - '0'),
	}, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := strings.LastIndexByte(s[:n], ' ')
	if cut <= 0 {
		cut = n
	}
	return s[:cut]
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
