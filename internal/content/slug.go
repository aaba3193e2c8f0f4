package content

import (
	"encoding/json"
	"fmt"
	"path"
	"slices"
	"strings"
)

// Slug identifies a documentation page by its path segments below the
// category root. The zero value is the root page.
type Slug struct {
	segments []string
}

// NewSlug validates segments and builds a Slug.
func NewSlug(segments ...string) (Slug, error) {
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsAny(seg, `/\`) {
			return Slug{}, fmt.Errorf("%w: segment %q", ErrInvalidSlug, seg)
		}
		out = append(out, seg)
	}
	return Slug{segments: out}, nil
}

// MustSlug is NewSlug for literals known to be valid.
func MustSlug(segments ...string) Slug {
	s, err := NewSlug(segments...)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseSlug builds a Slug from a slash separated path; "" and "/" are the root.
func ParseSlug(p string) (Slug, error) {
	p = strings.Trim(p, "/")
	if p == "" {
		return Slug{}, nil
	}
	return NewSlug(strings.Split(p, "/")...)
}

// Segments returns a copy of the path segments.
func (s Slug) Segments() []string {
	out := make([]string, len(s.segments))
	copy(out, s.segments)
	return out
}

func (s Slug) IsRoot() bool { return len(s.segments) == 0 }

// String joins the segments with "/"; the root slug is "".
func (s Slug) String() string { return strings.Join(s.segments, "/") }

// Path prefixes the slug with its category, e.g. "docs/job-specification/update".
func (s Slug) Path(category string) string {
	return path.Join(append([]string{category}, s.segments...)...)
}

// URL is the site-absolute URL of the page, e.g. "/docs/job-specification/update".
func (s Slug) URL(category string) string {
	return "/" + s.Path(category)
}

// Equal compares two slugs segment by segment.
func (s Slug) Equal(other Slug) bool {
	return slices.Equal(s.segments, other.segments)
}

// MarshalJSON encodes the slug as its segment array, the shape routers use for catch-all params.
func (s Slug) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Segments())
}

func (s *Slug) UnmarshalJSON(data []byte) error {
	var segments []string
	if err := json.Unmarshal(data, &segments); err != nil {
		return err
	}
	parsed, err := NewSlug(segments...)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
