package components

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/markdown"
)

// Hydrate replaces every component placeholder in rc with the output of the
// registered component. Nested components are expanded innermost first so a
// parent receives its children fully rendered.
func (r *Registry) Hydrate(rc markdown.RenderedContent) (template.HTML, error) {
	markup := rc.Markup()
	if !strings.Contains(markup, "<"+markdown.PlaceholderTag) {
		// #nosec G203 -- output of our own renderer
		return template.HTML(markup), nil
	}

	body, err := parseFragment(markup)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "parse rendered content").Build()
	}
	if err := r.expand(body); err != nil {
		return "", err
	}
	out, err := renderChildren(body)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "serialize hydrated content").Build()
	}
	// #nosec G203 -- output of our own renderer and registered components
	return template.HTML(out), nil
}

func (r *Registry) expand(parent *html.Node) error {
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			if err := r.expand(c); err != nil {
				return err
			}
			if c.Data == markdown.PlaceholderTag {
				if err := r.replace(parent, c); err != nil {
					return err
				}
			}
		}
		c = next
	}
	return nil
}

func (r *Registry) replace(parent, placeholder *html.Node) error {
	name := getAttr(placeholder, "data-name")
	comp, ok := r.Lookup(name)
	if !ok {
		return ferrors.RenderError("cannot hydrate component").
			WithCause(fmt.Errorf("%w: %s", ErrUnknownComponent, name)).
			WithContext("component", name).
			Build()
	}

	props, err := ParseAttrs(getAttr(placeholder, "data-attrs"))
	if err != nil {
		return ferrors.ContentError("invalid component attributes").
			WithCause(err).
			WithContext("component", name).
			Build()
	}
	children, err := renderChildren(placeholder)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRender, "serialize component children").Build()
	}

	var buf bytes.Buffer
	// #nosec G203 -- children were produced by the renderer
	if err := comp.Render(&buf, props, template.HTML(strings.TrimSpace(children))); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRender, "render component").
			WithContext("component", name).
			Build()
	}

	nodes, err := html.ParseFragment(&buf, bodyContext())
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRender, "parse component output").
			WithContext("component", name).
			Build()
	}
	for _, n := range nodes {
		parent.InsertBefore(n, placeholder)
	}
	parent.RemoveChild(placeholder)
	return nil
}

func bodyContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

func parseFragment(markup string) (*html.Node, error) {
	body := bodyContext()
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return body, nil
}

func renderChildren(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
