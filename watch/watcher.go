// Package watch polls directory trees for changed Blade templates.
package watch

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const DefaultInterval = time.Second

// Handler receives the templates that appeared or changed and those that
// disappeared since the previous scan.
type Handler func(changed, removed []string)

type Watcher struct {
	roots        []string
	handler      Handler
	stopCh       chan struct{}
	doneCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
}

func NewWatcher(roots []string, handler Handler) *Watcher {
	return &Watcher{
		roots:        roots,
		handler:      handler,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
		pollInterval: DefaultInterval,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *Watcher) SetInterval(d time.Duration) {
	if d > 0 {
		w.pollInterval = d
	}
}

// Start records the current state of the roots and then polls in the
// background. Files present at start are not reported.
func (w *Watcher) Start() {
	w.snapshot()
	go w.run()
}

// Stop ends polling and waits for an in-flight scan to finish.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Scan()
		}
	}
}

func (w *Watcher) snapshot() {
	w.walk(func(path string, info os.FileInfo) {
		w.modTimes[path] = info.ModTime()
	})
}

// Scan compares the roots with the previous scan and calls the handler
// when anything changed.
func (w *Watcher) Scan() {
	current := make(map[string]bool)
	var changed, removed []string

	w.walk(func(path string, info os.FileInfo) {
		current[path] = true
		lastMod, known := w.modTimes[path]
		if !known || !info.ModTime().Equal(lastMod) {
			w.modTimes[path] = info.ModTime()
			changed = append(changed, path)
		}
	})

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			removed = append(removed, path)
		}
	}

	if len(changed) == 0 && len(removed) == 0 {
		return
	}
	sort.Strings(changed)
	sort.Strings(removed)
	w.handler(changed, removed)
}

func (w *Watcher) walk(visit func(path string, info os.FileInfo)) {
	for _, root := range w.roots {
		filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() {
				if path != root && strings.HasPrefix(info.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if path != root && !strings.HasSuffix(path, ".blade.php") {
				return nil
			}
			visit(path, info)
			return nil
		})
	}
}
