// SPDX-License-Identifier: MIT

package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	xlog "github.com/mehdiaitsaid/owasp-top-10-labs/internal/log"
)

// DefaultDebounce coalesces bursts of file-system events into one reload.
const DefaultDebounce = 500 * time.Millisecond

// ErrWatcherRunning is returned by StartWatcher when a watcher is active.
var ErrWatcherRunning = errors.New("descriptor watcher already running")

// Holder holds the current descriptor and replaces it atomically on reload.
// A failed reload keeps the previous descriptor.
type Holder struct {
	mu      sync.RWMutex
	current *Descriptor
	loader  *Loader

	clk      clock.Clock
	debounce time.Duration
	logger   zerolog.Logger

	watchMu sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}

	listenersMu sync.RWMutex
	listeners   []chan<- *Descriptor
}

// NewHolder creates a holder serving initial. A debounce <= 0 uses DefaultDebounce.
func NewHolder(initial *Descriptor, loader *Loader, debounce time.Duration) *Holder {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Holder{
		current:  initial,
		loader:   loader,
		clk:      loader.clk,
		debounce: debounce,
		logger:   loader.logger,
	}
}

// Get returns the current descriptor. Callers must not modify it.
func (h *Holder) Get() *Descriptor {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Reload loads a new descriptor and swaps it in. On error the current
// descriptor is kept and the error is returned.
func (h *Holder) Reload(ctx context.Context) error {
	h.logger.Info().Str(xlog.FieldEvent, "site.reload_start").Msg("reloading descriptor")

	next, err := h.loader.Load(ctx)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str(xlog.FieldEvent, "site.reload_failed").
			Msg("reload failed; keeping previous descriptor")
		return fmt.Errorf("reload descriptor: %w", err)
	}

	h.mu.Lock()
	old := h.current
	h.current = next
	h.mu.Unlock()

	h.notifyListeners(next)
	h.logChanges(old, next)

	h.logger.Info().Str(xlog.FieldEvent, "site.reload_success").Msg("descriptor reloaded")
	return nil
}

// RegisterListener registers ch to receive every successfully reloaded
// descriptor. Sends never block; a full channel misses the update.
func (h *Holder) RegisterListener(ch chan<- *Descriptor) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.listeners = append(h.listeners, ch)
}

func (h *Holder) notifyListeners(d *Descriptor) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, ch := range h.listeners {
		select {
		case ch <- d:
		default:
			h.logger.Warn().
				Str(xlog.FieldEvent, "site.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}

func (h *Holder) logChanges(old, next *Descriptor) {
	if old == nil {
		return
	}
	changed := Diff(old, next)
	if len(changed) == 0 {
		h.logger.Debug().Str(xlog.FieldEvent, "site.unchanged").Msg("descriptor unchanged")
		return
	}
	h.logger.Info().
		Str(xlog.FieldEvent, "site.changed").
		Strs("fields", changed).
		Msg("descriptor changed")
}

// StartWatcher reloads the descriptor whenever the override file, a sidebar
// file or anything under a content root changes. It is a no-op when the
// loader has neither a file nor a site directory. Stop or cancelling ctx
// ends the watcher.
func (h *Holder) StartWatcher(ctx context.Context) error {
	if h.loader.File() == "" && h.loader.SiteDir() == "" {
		h.logger.Info().
			Str(xlog.FieldEvent, "site.watcher_disabled").
			Msg("nothing to watch (built-in descriptor only)")
		return nil
	}

	h.watchMu.Lock()
	defer h.watchMu.Unlock()
	if h.done != nil {
		return ErrWatcherRunning
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	w := &watchSet{watcher: watcher, files: make(map[string]struct{})}
	if err := w.addDescriptor(h.loader.File(), h.loader.SiteDir(), h.Get()); err != nil {
		_ = watcher.Close()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.done = make(chan struct{})

	h.logger.Info().
		Str(xlog.FieldEvent, "site.watcher_started").
		Str(xlog.FieldPath, h.loader.File()).
		Str(xlog.FieldSiteDir, h.loader.SiteDir()).
		Dur("debounce", h.debounce).
		Msg("watching descriptor sources for changes")

	go h.watchLoop(ctx, w, h.done)
	return nil
}

// Stop ends the watcher and waits for it to exit. Safe to call when no
// watcher is running.
func (h *Holder) Stop() {
	h.watchMu.Lock()
	cancel, done := h.cancel, h.done
	h.cancel, h.done = nil, nil
	h.watchMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (h *Holder) watchLoop(ctx context.Context, w *watchSet, done chan struct{}) {
	defer close(done)
	defer func() { _ = w.watcher.Close() }()

	var timer *clock.Timer
	var pending <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str(xlog.FieldEvent, "site.watcher_stopped").Msg("descriptor watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				w.addNewDir(event.Name)
			}

			h.logger.Debug().
				Str(xlog.FieldEvent, "site.source_changed").
				Str(xlog.FieldPath, event.Name).
				Str("op", event.Op.String()).
				Msg("descriptor source changed")

			if timer == nil {
				timer = h.clk.Timer(h.debounce)
			} else {
				timer.Stop()
				timer.Reset(h.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			if err := h.Reload(ctx); err != nil {
				continue
			}
			if err := w.addDescriptor(h.loader.File(), h.loader.SiteDir(), h.Get()); err != nil {
				h.logger.Warn().
					Err(err).
					Str(xlog.FieldEvent, "site.watch_update_failed").
					Msg("could not watch new descriptor sources")
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().
				Err(err).
				Str(xlog.FieldEvent, "site.watcher_error").
				Msg("descriptor watcher error")
		}
	}
}

// watchSet tracks what the watcher observes. Files are watched through their
// parent directory so editors that replace files by rename are seen.
// It is owned by the watch goroutine once the loop starts.
type watchSet struct {
	watcher *fsnotify.Watcher
	files   map[string]struct{}
	roots   []string
}

func (w *watchSet) addDescriptor(file, siteDir string, d *Descriptor) error {
	if file != "" {
		if err := w.addFile(file); err != nil {
			return fmt.Errorf("watch descriptor file: %w", err)
		}
	}
	if siteDir == "" || d == nil {
		return nil
	}
	for _, p := range d.Presets {
		root := filepath.Clean(filepath.Join(siteDir, filepath.FromSlash(p.Docs.Path)))
		if err := w.addRoot(root); err != nil {
			return fmt.Errorf("watch preset %q content root: %w", p.Name, err)
		}
		if p.Docs.SidebarPath != "" {
			if err := w.addFile(filepath.Join(siteDir, filepath.FromSlash(p.Docs.SidebarPath))); err != nil {
				return fmt.Errorf("watch preset %q sidebar: %w", p.Name, err)
			}
		}
	}
	return nil
}

func (w *watchSet) addFile(path string) error {
	path = filepath.Clean(path)
	if _, ok := w.files[path]; ok {
		return nil
	}
	if err := w.watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	w.files[path] = struct{}{}
	return nil
}

func (w *watchSet) addRoot(root string) error {
	for _, r := range w.roots {
		if r == root {
			return nil
		}
	}
	if err := w.addTree(root); err != nil {
		return err
	}
	w.roots = append(w.roots, root)
	return nil
}

// addTree watches dir and every directory below it that the generator reads.
func (w *watchSet) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && hiddenName(d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
}

func (w *watchSet) addNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	_ = w.addTree(path)
}

func (w *watchSet) relevant(name string) bool {
	name = filepath.Clean(name)
	if _, ok := w.files[name]; ok {
		return true
	}
	for _, root := range w.roots {
		if name == root || strings.HasPrefix(name, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func hiddenName(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}
