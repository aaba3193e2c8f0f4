package content

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// EnumerateSlugs walks docsRoot and returns every slug backed by a page,
// sorted by path with the root first. foo.mdx and foo/index.mdx both yield
// [foo]; when both exist the slug is listed once and a warning is logged.
// Hidden files and directories are skipped.
func EnumerateSlugs(ctx context.Context, docsRoot string, logger *slog.Logger) ([]Slug, error) {
	if logger == nil {
		logger = slog.Default()
	}

	seen := make(map[string]Slug)
	err := filepath.WalkDir(docsRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p != docsRoot && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || filepath.Ext(d.Name()) != Extension {
			return nil
		}

		rel, err := filepath.Rel(docsRoot, p)
		if err != nil {
			return err
		}
		slug, err := SlugForFile(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		key := slug.String()
		if _, dup := seen[key]; dup {
			logger.Warn("Slug is backed by both a direct and an index file",
				logfields.Slug(key), logfields.Path(filepath.ToSlash(rel)))
			return nil
		}
		seen[key] = slug
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "enumerate pages").
			WithContext("path", docsRoot).
			Build()
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	slugs := make([]Slug, 0, len(keys))
	for _, k := range keys {
		slugs = append(slugs, seen[k])
	}
	return slugs, nil
}

// SlugForFile maps a slash separated path relative to the docs root onto its slug.
func SlugForFile(rel string) (Slug, error) {
	if !strings.HasSuffix(rel, Extension) {
		return Slug{}, fmt.Errorf("%w: %s is not an %s file", ErrInvalidSlug, rel, Extension)
	}
	segments := strings.Split(strings.TrimSuffix(rel, Extension), "/")
	if segments[len(segments)-1] == "index" {
		segments = segments[:len(segments)-1]
	}
	return NewSlug(segments...)
}
