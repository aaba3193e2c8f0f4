package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// AlertType is the visual flavour of a paragraph alert.
type AlertType string

const (
	AlertSuccess AlertType = "success"
	AlertInfo    AlertType = "info"
	AlertWarning AlertType = "warning"
	AlertDanger  AlertType = "danger"
)

var alertMarkers = map[string]AlertType{
	"=>": AlertSuccess,
	"->": AlertInfo,
	"~>": AlertWarning,
	"!>": AlertDanger,
}

// KindAlert is the node kind of Alert.
var KindAlert = ast.NewNodeKind("Alert")

// Alert replaces a paragraph that starts with an alert marker.
type Alert struct {
	ast.BaseBlock
	Variant AlertType
}

// Kind implements ast.Node.
func (n *Alert) Kind() ast.NodeKind { return KindAlert }

// Dump implements ast.Node.
func (n *Alert) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Variant": string(n.Variant)}, nil)
}

type alertTransformer struct{}

func (alertTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	var paragraphs []*ast.Paragraph
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if p, ok := n.(*ast.Paragraph); ok && entering {
			paragraphs = append(paragraphs, p)
		}
		return ast.WalkContinue, nil
	})

	for _, p := range paragraphs {
		kind, n := alertPrefix(p, source)
		if n == 0 {
			continue
		}
		trimLeadingText(p, n, source)

		alert := &Alert{Variant: kind}
		alert.SetBlankPreviousLines(p.HasBlankPreviousLines())
		for c := p.FirstChild(); c != nil; {
			next := c.NextSibling()
			alert.AppendChild(alert, c)
			c = next
		}
		p.Parent().ReplaceChild(p.Parent(), p, alert)
	}
}

// alertPrefix inspects the leading text nodes of p. Inline parsers may split
// a marker such as "~>" across several text nodes.
func alertPrefix(p *ast.Paragraph, source []byte) (AlertType, int) {
	var lead []byte
	for c := p.FirstChild(); c != nil && len(lead) < 3; c = c.NextSibling() {
		t, ok := c.(*ast.Text)
		if !ok {
			break
		}
		lead = append(lead, t.Segment.Value(source)...)
	}
	if len(lead) < 2 {
		return "", 0
	}
	kind, ok := alertMarkers[string(lead[:2])]
	if !ok {
		return "", 0
	}
	n := 2
	for n < len(lead) && (lead[n] == ' ' || lead[n] == '\t') {
		n++
	}
	return kind, n
}

func trimLeadingText(parent ast.Node, n int, source []byte) {
	for c := parent.FirstChild(); c != nil && n > 0; {
		next := c.NextSibling()
		t, ok := c.(*ast.Text)
		if !ok {
			return
		}
		if l := t.Segment.Len(); l <= n {
			parent.RemoveChild(parent, c)
			n -= l
		} else {
			t.Segment = t.Segment.WithStart(t.Segment.Start + n)
			n = 0
		}
		c = next
	}
}

func (r *nodeRenderer) renderAlert(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*Alert)
	if entering {
		_, _ = w.WriteString(`<div class="alert alert-`)
		_, _ = w.WriteString(string(n.Variant))
		_, _ = w.WriteString(` g-type-body" role="alert">`)
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("</div>\n")
	return ast.WalkContinue, nil
}
