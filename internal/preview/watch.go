package preview

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// DebounceWindow is how long the watcher waits for a burst of changes to settle.
const DebounceWindow = 300 * time.Millisecond

func newWatcher(roots []string, logger *slog.Logger) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		addDirsRecursive(w, root, logger)
	}
	return w, nil
}

func addDirsRecursive(w *fsnotify.Watcher, root string, logger *slog.Logger) {
	_ = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			logger.Warn("Watch add failed", logfields.Path(p), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent filters hidden files and editor scratch files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}

// within reports whether p is dir or lies below it.
func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// debouncer coalesces calls to trigger into one send on C after the window
// has passed without another call.
type debouncer struct {
	window time.Duration
	C      chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{window: window, C: make(chan struct{}, 1)}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		select {
		case d.C <- struct{}{}:
		default:
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
