package services

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is the debounce window for repository watcher events.
const WatchDebounce = 600 * time.Millisecond

// GitRunner resolves repository directories for the watcher.
type GitRunner interface {
	RunGit(ctx context.Context, args []string, cwd string, okReturncodes []int, strip, silent bool) string
}

// WatchService watches the git common directory (refs and logs) and
// signals when the repository changes, so the UI can rebuild the forest
// without manual refreshes.
type WatchService struct {
	started     bool
	waiting     bool
	events      chan struct{}
	done        chan struct{}
	watcher     *fsnotify.Watcher
	roots       []string
	paths       map[string]struct{}
	mu          sync.Mutex
	lastRefresh time.Time
	git         GitRunner
	cwd         string
	logf        func(string, ...any)
}

// NewWatchService creates a WatchService for the given repository.
func NewWatchService(git GitRunner, cwd string, logf func(string, ...any)) *WatchService {
	return &WatchService{git: git, cwd: cwd, logf: logf}
}

// Start initialises the watcher and launches the event goroutine. It
// returns false without error when watching is not possible (e.g. no git
// common dir could be resolved).
func (w *WatchService) Start(ctx context.Context) (bool, error) {
	if w.started {
		return false, nil
	}
	commonDir := w.resolveCommonDir(ctx)
	if commonDir == "" {
		w.debugf("auto refresh: unable to resolve git common dir")
		return false, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}

	w.started = true
	w.watcher = watcher
	w.events = make(chan struct{}, 1)
	w.done = make(chan struct{})
	w.paths = make(map[string]struct{})
	w.roots = []string{
		filepath.Join(commonDir, "refs"),
		filepath.Join(commonDir, "logs"),
	}
	w.addDir(commonDir)
	for _, root := range w.roots {
		w.addTree(root)
	}

	go w.run()
	return true, nil
}

// Stop stops the watcher and closes its channels.
func (w *WatchService) Stop() {
	if !w.started {
		return
	}
	close(w.done)
	w.started = false
	if w.watcher != nil {
		_ = w.watcher.Close()
	}
}

// NextEvent returns the event channel, or nil while a previous event is
// still being processed.
func (w *WatchService) NextEvent() <-chan struct{} {
	if w.events == nil || w.waiting {
		return nil
	}
	w.waiting = true
	return w.events
}

// ResetWaiting clears the waiting flag after an event is handled.
func (w *WatchService) ResetWaiting() {
	w.waiting = false
}

// ShouldRefresh checks debounce timing for watcher events.
func (w *WatchService) ShouldRefresh(now time.Time) bool {
	if !w.lastRefresh.IsZero() && now.Sub(w.lastRefresh) < WatchDebounce {
		return false
	}
	w.lastRefresh = now
	return true
}

func (w *WatchService) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.maybeAddNewDir(event.Name)
			}
			w.signal()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.debugf("repo watcher error: %v", err)
		}
	}
}

func (w *WatchService) signal() {
	select {
	case <-w.done:
		return
	default:
	}
	select {
	case w.events <- struct{}{}:
	default:
	}
}

// maybeAddNewDir registers directories created under a watch root, so new
// ref namespaces keep triggering refreshes.
func (w *WatchService) maybeAddNewDir(path string) {
	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			w.addDir(path)
			return
		}
	}
}

func (w *WatchService) addDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.paths[path]; ok {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.debugf("repo watcher add failed for %s: %v", path, err)
		return
	}
	w.paths[path] = struct{}{}
}

func (w *WatchService) addTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		w.addDir(path)
		return nil
	})
}

func (w *WatchService) resolveCommonDir(ctx context.Context) string {
	if w.git == nil {
		return ""
	}
	commonDir := strings.TrimSpace(w.git.RunGit(ctx, []string{"git", "rev-parse", "--git-common-dir"}, w.cwd, []int{0}, true, true))
	if commonDir == "" {
		return ""
	}
	if filepath.IsAbs(commonDir) {
		return commonDir
	}
	return filepath.Join(w.cwd, commonDir)
}

func (w *WatchService) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}
