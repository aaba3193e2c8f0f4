package sidenav

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// Index produces the sidebar of one category. The tree is computed on first
// use and shared by every page of a build; create a new Index per build.
type Index struct {
	docsRoot string
	category string
	order    Order
	logger   *slog.Logger

	mu      sync.Mutex
	done    bool
	entries []Entry
}

// NewIndex creates an Index over the pages below docsRoot.
func NewIndex(docsRoot, category string, order Order, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{docsRoot: docsRoot, category: category, order: order, logger: logger}
}

// Entries returns the sidebar tree. Failures are not cached, so a later call
// retries the front matter scan.
func (i *Index) Entries(ctx context.Context) ([]Entry, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.done {
		return i.entries, nil
	}

	pages, err := ReadAllFrontMatter(ctx, i.docsRoot)
	if err != nil {
		return nil, err
	}
	entries, report := Build(i.category, pages, i.order)
	for _, p := range report.Missing {
		i.logger.Warn("Navigation order references a missing page", logfields.Path(p))
	}
	for _, p := range report.Unlisted {
		i.logger.Debug("Page not in navigation order, appended", logfields.Path(p))
	}

	i.entries, i.done = entries, true
	return entries, nil
}
