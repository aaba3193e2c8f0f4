package sidenav

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/frontmatter"
)

const pageExtension = ".mdx"

// PageMeta is the navigation-relevant front matter of one page.
type PageMeta struct {
	// Path is the page path below the category, without extension;
	// "index" files take their directory's path. The root index is "".
	Path         string `json:"path"`
	SourcePath   string `json:"sourcePath"`
	Title        string `json:"title,omitempty"`
	SidebarTitle string `json:"sidebarTitle,omitempty"`
	Description  string `json:"description,omitempty"`
	Hidden       bool   `json:"hidden,omitempty"`
}

// ReadAllFrontMatter reads the front matter of every page below docsRoot.
// Page bodies are never read past the closing delimiter.
func ReadAllFrontMatter(ctx context.Context, docsRoot string) ([]PageMeta, error) {
	var files []string
	err := filepath.WalkDir(docsRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != docsRoot && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && filepath.Ext(p) == pageExtension {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "walk docs tree").
			WithContext("path", docsRoot).
			Build()
	}

	metas := make([]PageMeta, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(docsRoot, file)
			if err != nil {
				return err
			}
			meta, err := readMeta(file, filepath.ToSlash(rel))
			if err != nil {
				return err
			}
			metas[i] = meta
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(metas, func(i, j int) bool {
		if metas[i].Path != metas[j].Path {
			return metas[i].Path < metas[j].Path
		}
		return metas[i].SourcePath < metas[j].SourcePath
	})
	return metas, nil
}

func readMeta(file, rel string) (PageMeta, error) {
	header, err := readHeader(file)
	if errors.Is(err, frontmatter.ErrMissingClosingDelimiter) {
		return PageMeta{}, ferrors.ContentError("invalid front matter").
			WithCause(err).
			WithContext("path", rel).
			Build()
	}
	if err != nil {
		return PageMeta{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read front matter").
			WithContext("path", rel).
			Build()
	}
	fm, err := frontmatter.ParseYAML(header)
	if err != nil {
		return PageMeta{}, ferrors.ContentError("invalid front matter").
			WithCause(err).
			WithContext("path", rel).
			Build()
	}
	return PageMeta{
		Path:         pagePath(rel),
		SourcePath:   rel,
		Title:        fm.String("page_title"),
		SidebarTitle: fm.String("sidebar_title"),
		Description:  fm.String("description"),
		Hidden:       fm.Bool("hidden"),
	}, nil
}

// readHeader returns the YAML between the leading delimiters, or nil when
// the file has no front matter.
func readHeader(file string) ([]byte, error) {
	// #nosec G304 -- file comes from walking the configured docs tree
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() || strings.TrimRight(scanner.Text(), "\r") != "---" {
		return nil, scanner.Err()
	}
	var header strings.Builder
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "---" {
			return []byte(header.String()), nil
		}
		header.WriteString(line)
		header.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, frontmatter.ErrMissingClosingDelimiter
}

func pagePath(rel string) string {
	p := strings.TrimSuffix(rel, pageExtension)
	if p == "index" {
		return ""
	}
	return strings.TrimSuffix(p, "/index")
}

// Label returns the sidebar label: sidebar_title, then page_title, then the
// last path segment in title case.
func (m PageMeta) Label() string {
	switch {
	case m.SidebarTitle != "":
		return m.SidebarTitle
	case m.Title != "":
		return m.Title
	default:
		return titleFromSegment(path.Base(m.Path))
	}
}
