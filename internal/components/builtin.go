package components

import (
	"fmt"
	"html/template"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Default returns a registry with the components every documentation page
// may use: Placement, EnterpriseAlert, Tabs and Tab.
func Default(product string) *Registry {
	r := NewRegistry()
	r.MustRegister("Placement", Func(renderPlacement))
	r.MustRegister("EnterpriseAlert", EnterpriseAlert{Product: product})
	r.MustRegister("Tabs", Func(renderTabs))
	r.MustRegister("Tab", Func(renderTab))
	return r
}

type placementPart struct {
	Name    string
	Current bool
}

var placementTemplate = template.Must(template.New("placement").Parse(
	`<table class="g-placement-table"><tbody><tr><th width="120">Placement</th><td>` +
		`{{range $i, $path := .}}{{if $i}}<br/>{{end}}<code>` +
		`{{range $j, $part := $path}}{{if $j}} -&gt; {{end}}` +
		`{{if $part.Current}}<strong>{{$part.Name}}</strong>{{else}}<span>{{$part.Name}}</span>{{end}}` +
		`{{end}}</code>{{end}}</td></tr></tbody></table>`))

// renderPlacement shows where a job specification block lives. groups is
// either one path (["job", "group"]) or a list of paths; the last element of
// each path is the block being documented.
func renderPlacement(w io.Writer, props Props, _ template.HTML) error {
	raw, ok := props["groups"]
	if !ok {
		return fmt.Errorf("%w: Placement requires groups", ErrMissingProp)
	}
	paths, err := placementPaths(raw)
	if err != nil {
		return err
	}

	parts := make([][]placementPart, 0, len(paths))
	for _, path := range paths {
		row := make([]placementPart, len(path))
		for i, name := range path {
			row[i] = placementPart{Name: name, Current: i == len(path)-1}
		}
		parts = append(parts, row)
	}
	return placementTemplate.Execute(w, parts)
}

func placementPaths(raw any) ([][]string, error) {
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("%w: Placement groups must be a non-empty list", ErrInvalidProps)
	}
	if single, ok := toStrings(list); ok {
		return [][]string{single}, nil
	}
	paths := make([][]string, 0, len(list))
	for _, item := range list {
		path, ok := toStrings(item)
		if !ok || len(path) == 0 {
			return nil, fmt.Errorf("%w: Placement groups must contain lists of names", ErrInvalidProps)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// EnterpriseAlert marks functionality limited to the enterprise edition.
// Custom children replace the default message; inline renders a badge.
type EnterpriseAlert struct {
	Product string
}

var (
	enterpriseBlockTemplate = template.Must(template.New("enterprise").Parse(
		`<div class="alert alert-info g-type-body enterprise-alert" role="alert">` +
			`{{if .Children}}{{.Children}}{{else}}<strong>Enterprise Only:</strong> ` +
			`The functionality described here is available only in ` +
			`<a href="https://www.hashicorp.com/products/{{.Product}}/">{{.Name}} Enterprise</a> ` +
			`with the appropriate license.{{end}}</div>`))
	enterpriseInlineTemplate = template.Must(template.New("enterprise-inline").Parse(
		`<span class="enterprise-alert-inline">Enterprise</span>`))
)

// Render implements Component.
func (e EnterpriseAlert) Render(w io.Writer, props Props, children template.HTML) error {
	if props.Bool("inline") {
		return enterpriseInlineTemplate.Execute(w, nil)
	}
	product := props.String("product", e.Product)
	return enterpriseBlockTemplate.Execute(w, struct {
		Product  string
		Name     string
		Children template.HTML
	}{
		Product:  product,
		Name:     cases.Title(language.English).String(product),
		Children: children,
	})
}

var (
	tabsTemplate = template.Must(template.New("tabs").Parse(
		`<div class="g-tabs">{{.}}</div>`))
	tabTemplate = template.Must(template.New("tab").Parse(
		`<section class="g-tab" data-heading="{{.Heading}}"><h4 class="g-tab-heading">{{.Heading}}</h4>{{.Children}}</section>`))
)

func renderTabs(w io.Writer, _ Props, children template.HTML) error {
	return tabsTemplate.Execute(w, children)
}

func renderTab(w io.Writer, props Props, children template.HTML) error {
	heading := props.String("heading", "")
	if heading == "" {
		return fmt.Errorf("%w: Tab requires heading", ErrMissingProp)
	}
	return tabTemplate.Execute(w, struct {
		Heading  string
		Children template.HTML
	}{Heading: heading, Children: children})
}
