package content

import "errors"

var (
	// ErrPageNotFound indicates neither candidate file exists for a slug.
	ErrPageNotFound = errors.New("page not found")

	// ErrInvalidSlug indicates a slug segment that cannot map to a file name.
	ErrInvalidSlug = errors.New("invalid slug")
)
