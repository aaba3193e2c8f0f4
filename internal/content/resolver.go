package content

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// Extension is the only source file extension pages are read from.
const Extension = ".mdx"

// Document is the raw source backing one page.
type Document struct {
	Slug Slug
	// SourcePath is slash separated and relative to the site root,
	// e.g. "content/docs/index.mdx". It feeds the view-source link.
	SourcePath string
	Raw        []byte
}

// Resolver locates page sources below <root>/<contentDir>/<category>.
type Resolver struct {
	root       string
	contentDir string
	category   string
	logger     *slog.Logger
}

// NewResolver creates a resolver. contentDir and category are slash separated.
func NewResolver(root, contentDir, category string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		root:       root,
		contentDir: filepath.ToSlash(contentDir),
		category:   category,
		logger:     logger,
	}
}

// Candidates returns the direct and the index source path for slug, relative to the site root.
func (r *Resolver) Candidates(slug Slug) (direct, index string) {
	base := path.Join(r.contentDir, slug.Path(r.category))
	return base + Extension, path.Join(base, "index"+Extension)
}

// Resolve reads both candidate files concurrently. A missing candidate is not
// an error. The first candidate with content wins, direct before index; an
// empty file is used only when no candidate has content.
func (r *Resolver) Resolve(ctx context.Context, slug Slug) (*Document, error) {
	direct, index := r.Candidates(slug)

	var directRaw, indexRaw []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		directRaw, err = r.read(gctx, direct)
		return err
	})
	g.Go(func() error {
		var err error
		indexRaw, err = r.read(gctx, index)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	switch {
	case len(directRaw) > 0 && indexRaw != nil:
		r.logger.Warn("Both page candidates exist, using direct file",
			logfields.Slug(slug.String()),
			slog.String("used", direct),
			slog.String("ignored", index))
		return &Document{Slug: slug, SourcePath: direct, Raw: directRaw}, nil
	case len(directRaw) > 0:
		return &Document{Slug: slug, SourcePath: direct, Raw: directRaw}, nil
	case len(indexRaw) > 0:
		return &Document{Slug: slug, SourcePath: index, Raw: indexRaw}, nil
	case directRaw != nil: // neither candidate has content
		return &Document{Slug: slug, SourcePath: direct, Raw: directRaw}, nil
	case indexRaw != nil:
		return &Document{Slug: slug, SourcePath: index, Raw: indexRaw}, nil
	default:
		return nil, ferrors.NotFoundError("no content file for slug").
			WithCause(ErrPageNotFound).
			WithContext("slug", slug.String()).
			WithContext("candidates", []string{direct, index}).
			Build()
	}
}

// read returns nil content (and no error) when the file does not exist.
func (r *Resolver) read(ctx context.Context, rel string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(rel)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read content file").
			WithContext("path", rel).
			Build()
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}
