package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Anchor classes match the stylesheet shipped with the page template.
const (
	classPermalinkHeading  = "__permalink-h"
	classTargetHeading     = "__target-h"
	classPermalinkListCode = "__permalink-lic"
	classTargetListCode    = "__target-lic"
)

// KindAnchor is the node kind of Anchor.
var KindAnchor = ast.NewNodeKind("Anchor")

// Anchor is an inline link target or permalink injected next to headings
// and list items that start with inline code.
type Anchor struct {
	ast.BaseInline
	ID    string
	Href  string
	Class string
	Label string
	Glyph string
}

// Kind implements ast.Node.
func (n *Anchor) Kind() ast.NodeKind { return KindAnchor }

// Dump implements ast.Node.
func (n *Anchor) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"ID":    n.ID,
		"Href":  n.Href,
		"Class": n.Class,
	}, nil)
}

func permalink(id, class string) *Anchor {
	return &Anchor{Href: "#" + id, Class: class, Label: "Permalink", Glyph: "»"}
}

func target(id, class string) *Anchor {
	return &Anchor{ID: id, Class: class}
}

// anchorTransformer derives heading ids from the heading text, places them on
// target anchors next to permalinks, and gives list items that open with
// inline code their own anchor. Raw HTML such as component placeholders does
// not contribute to ids.
type anchorTransformer struct{}

func (anchorTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var headings []*ast.Heading
	var codeItems []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			headings = append(headings, node)
		case *ast.ListItem:
			if block := node.FirstChild(); block != nil {
				if _, ok := block.FirstChild().(*ast.CodeSpan); ok {
					codeItems = append(codeItems, block)
				}
			}
		}
		return ast.WalkContinue, nil
	})

	for _, h := range headings {
		id := string(pc.IDs().Generate(inlineText(h, source), ast.KindHeading))
		if first := h.FirstChild(); first != nil {
			h.InsertBefore(h, first, permalink(id, classPermalinkHeading))
			h.InsertBefore(h, first, target(id, classTargetHeading))
		} else {
			h.AppendChild(h, permalink(id, classPermalinkHeading))
			h.AppendChild(h, target(id, classTargetHeading))
		}
	}

	for _, block := range codeItems {
		code := block.FirstChild()
		id := string(pc.IDs().Generate(inlineText(code, source), ast.KindListItem))
		block.InsertBefore(block, code, target(id, classTargetListCode))
		block.InsertBefore(block, code, permalink(id, classPermalinkListCode))
	}
}

// inlineText concatenates the literal text below n.
func inlineText(n ast.Node, source []byte) []byte {
	var buf []byte
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf = append(buf, t.Segment.Value(source)...)
		case *ast.String:
			// Typographer substitutions are entities, not text.
			if !t.IsCode() {
				buf = append(buf, t.Value...)
			}
		}
		return ast.WalkContinue, nil
	})
	return buf
}

// nodeRenderer writes the custom nodes of this package.
type nodeRenderer struct{}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAnchor, r.renderAnchor)
	reg.Register(KindAlert, r.renderAlert)
}

func (r *nodeRenderer) renderAnchor(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Anchor)
	_, _ = w.WriteString("<a")
	if n.ID != "" {
		writeAttr(w, "id", n.ID)
	}
	if n.Href != "" {
		writeAttr(w, "href", n.Href)
	}
	writeAttr(w, "class", n.Class)
	if n.Label != "" {
		writeAttr(w, "aria-label", n.Label)
	} else {
		writeAttr(w, "aria-hidden", "true")
	}
	_ = w.WriteByte('>')
	_, _ = w.Write(util.EscapeHTML([]byte(n.Glyph)))
	_, _ = w.WriteString("</a>")
	return ast.WalkSkipChildren, nil
}

func writeAttr(w util.BufWriter, name, value string) {
	_ = w.WriteByte(' ')
	_, _ = w.WriteString(name)
	_, _ = w.WriteString(`="`)
	_, _ = w.Write(util.EscapeHTML([]byte(value)))
	_ = w.WriteByte('"')
}
