package sidenav

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// DividerMarker is the order entry rendered as a separator line.
const DividerMarker = "-----"

// ErrInvalidOrderItem is returned for order entries that are neither a page
// name, a divider, a category nor an external link.
var ErrInvalidOrderItem = errors.New("invalid navigation order item")

// Order is the curated navigation table for one category.
type Order []OrderItem

// OrderItem is one entry of the order table. Exactly one of the shapes is set:
// Page, Divider, Category (with Content) or Title with Href.
type OrderItem struct {
	Page     string
	Divider  bool
	Category string
	Name     string
	Content  Order
	Title    string
	Href     string
}

type orderItemYAML struct {
	Category string `yaml:"category"`
	Name     string `yaml:"name"`
	Content  Order  `yaml:"content"`
	Title    string `yaml:"title"`
	Href     string `yaml:"href"`
}

// UnmarshalYAML accepts a plain string or a mapping.
func (o *OrderItem) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == DividerMarker {
			*o = OrderItem{Divider: true}
			return nil
		}
		if node.Value == "" {
			return fmt.Errorf("%w: empty page name (line %d)", ErrInvalidOrderItem, node.Line)
		}
		*o = OrderItem{Page: node.Value}
		return nil
	case yaml.MappingNode:
		var raw orderItemYAML
		if err := node.Decode(&raw); err != nil {
			return err
		}
		switch {
		case raw.Category != "" && raw.Href == "":
			*o = OrderItem{Category: raw.Category, Name: raw.Name, Content: raw.Content}
		case raw.Category == "" && raw.Title != "" && raw.Href != "":
			*o = OrderItem{Title: raw.Title, Href: raw.Href}
		default:
			return fmt.Errorf("%w: mapping needs category or title+href (line %d)", ErrInvalidOrderItem, node.Line)
		}
		return nil
	default:
		return fmt.Errorf("%w: unexpected YAML node (line %d)", ErrInvalidOrderItem, node.Line)
	}
}

// ParseOrder decodes an order table from YAML.
func ParseOrder(data []byte) (Order, error) {
	var order Order
	if err := yaml.Unmarshal(data, &order); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNavigation, "parse navigation order").Build()
	}
	return order, nil
}

// LoadOrder reads the order table at path. An empty path yields an empty
// order, which lists every page in path order.
func LoadOrder(path string) (Order, error) {
	if path == "" {
		return nil, nil
	}
	// #nosec G304 -- order file path comes from site configuration
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ferrors.NotFoundError("navigation order file not found").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read navigation order").
			WithContext("path", path).
			Build()
	}
	order, err := ParseOrder(data)
	if err != nil {
		if ce, ok := ferrors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	return order, nil
}
