// Package components implements the statically typed registry of page
// components and the hydration step that expands component placeholders in
// rendered pages.
package components

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"sort"
)

var (
	// ErrUnknownComponent is returned when a page uses a component that is not registered.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrDuplicateComponent is returned by Register for a name already in use.
	ErrDuplicateComponent = errors.New("component already registered")
	// ErrMissingProp is returned by components whose required attribute is absent.
	ErrMissingProp = errors.New("missing required prop")
)

// Component renders one usage of a component. children holds the already
// hydrated markup between the opening and closing tag.
type Component interface {
	Render(w io.Writer, props Props, children template.HTML) error
}

// Func adapts a function to Component.
type Func func(w io.Writer, props Props, children template.HTML) error

// Render implements Component.
func (f Func) Render(w io.Writer, props Props, children template.HTML) error {
	return f(w, props, children)
}

// Registry maps component names to implementations. It is populated before
// the build starts and only read afterwards.
type Registry struct {
	components map[string]Component
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{components: make(map[string]Component)}
}

// Register adds c under name.
func (r *Registry) Register(name string, c Component) error {
	if name == "" || c == nil {
		return fmt.Errorf("register component: empty name or nil component")
	}
	if _, exists := r.components[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, name)
	}
	r.components[name] = c
	return nil
}

// MustRegister is Register for static setup code.
func (r *Registry) MustRegister(name string, c Component) {
	if err := r.Register(name, c); err != nil {
		panic(err)
	}
}

// Lookup returns the component registered under name.
func (r *Registry) Lookup(name string) (Component, bool) {
	c, ok := r.components[name]
	return c, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
