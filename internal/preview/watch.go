package preview

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docnav/internal/logfields"
)

// DefaultDebounce is the quiet period after the last change before a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// watchSet decides which filesystem events matter: anything below the docs
// directory plus a few individual files (sidebar spec, config file).
type watchSet struct {
	docsDir string
	files   map[string]struct{}
}

func newWatchSet(docsDir string, files ...string) watchSet {
	ws := watchSet{docsDir: filepath.Clean(docsDir), files: make(map[string]struct{}, len(files))}
	for _, f := range files {
		if f != "" {
			ws.files[filepath.Clean(f)] = struct{}{}
		}
	}
	return ws
}

func (ws watchSet) relevant(path string) bool {
	path = filepath.Clean(path)
	if _, ok := ws.files[path]; ok {
		return true
	}
	if shouldIgnoreEvent(path) {
		return false
	}
	return path == ws.docsDir || strings.HasPrefix(path, ws.docsDir+string(filepath.Separator))
}

// setupFileWatcher watches the docs tree recursively and the parent
// directory of each watched file.
func setupFileWatcher(ws watchSet, logger *slog.Logger) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := addDirsRecursive(watcher, ws.docsDir, logger); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	seen := map[string]bool{}
	for f := range ws.files {
		dir := filepath.Dir(f)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := watcher.Add(dir); err != nil {
			logger.Warn("Watch add failed", logfields.Path(dir), logfields.Error(err))
		}
	}
	return watcher, nil
}

// addDirsRecursive watches root and every non-hidden directory below it.
// Failing to read or watch root itself is returned; failures further down are
// logged and skipped.
func addDirsRecursive(w *fsnotify.Watcher, root string, logger *slog.Logger) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				if path == root {
					return err
				}
				logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// handleFileEvent starts watching new directories and triggers a rebuild for relevant changes.
func handleFileEvent(w *fsnotify.Watcher, ws watchSet, ev fsnotify.Event, trigger func(), logger *slog.Logger) {
	if !ws.relevant(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := addDirsRecursive(w, ev.Name, logger); err != nil {
				logger.Warn("New directory not watched", logfields.Path(ev.Name), logfields.Error(err))
			}
		}
	}
	logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	// Editor temp and swap files.
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}

// debouncer calls fire once no trigger has arrived for delay.
type debouncer struct {
	mu      sync.Mutex
	timer   *time.Timer
	delay   time.Duration
	fire    func()
	stopped bool
}

func newDebouncer(delay time.Duration, fire func()) *debouncer {
	return &debouncer{delay: delay, fire: fire}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// stop cancels a pending fire; later triggers are ignored.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
