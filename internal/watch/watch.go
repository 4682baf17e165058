// Package watch triggers full rebuilds when content or the author registry
// changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/collectionbuilder/internal/logfields"
)

// DefaultDebounce is the quiet period after the last event before a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Roots are watched recursively.
	Roots []string
	// Files are watched through their parent directory; other entries there are ignored.
	Files []string
	// Ignore lists paths whose events never trigger (e.g. the output directory). Empty entries are skipped.
	Ignore   []string
	Debounce time.Duration
	// Interval schedules an additional full rebuild on a fixed period; zero disables it.
	Interval time.Duration
	Logger   *slog.Logger
}

// RebuildFunc runs one full build.
type RebuildFunc func(ctx context.Context) error

// Watcher debounces filesystem events into serialized rebuilds.
type Watcher struct {
	fs       *fsnotify.Watcher
	roots    []string
	files    map[string]struct{}
	ignore   []string
	debounce time.Duration
	interval time.Duration
	logger   *slog.Logger
	rebuild  RebuildFunc

	mu    sync.Mutex
	timer *time.Timer
	req   chan struct{}
}

// New creates a Watcher and registers all paths.
func New(opts Options, rebuild RebuildFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &Watcher{
		fs:       fsw,
		files:    make(map[string]struct{}, len(opts.Files)),
		debounce: opts.Debounce,
		interval: opts.Interval,
		logger:   opts.Logger,
		rebuild:  rebuild,
		req:      make(chan struct{}, 1),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	for _, p := range opts.Ignore {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			w.ignore = append(w.ignore, abs)
		}
	}

	for _, root := range opts.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", root, err)
		}
		w.roots = append(w.roots, abs)
		w.addDirsRecursive(abs)
	}
	for _, f := range opts.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		w.files[abs] = struct{}{}
		if err := fsw.Add(filepath.Dir(abs)); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(filepath.Dir(abs)), logfields.Error(err))
		}
	}
	return w, nil
}

// Run processes events until ctx is done. Rebuild errors are logged; the
// watcher keeps running.
func (w *Watcher) Run(ctx context.Context) error {
	if w.interval > 0 {
		scheduler, err := w.schedule()
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				w.logger.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.worker(ctx)
	}()
	defer func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		cancel()
		<-done
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.req:
			w.logger.Info("Rebuilding")
			if err := w.rebuild(ctx); err != nil {
				w.logger.Warn("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

// schedule registers the periodic rebuild job.
func (w *Watcher) schedule() (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(w.request),
		gocron.WithName("periodic-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}
	w.logger.Info("Scheduled periodic rebuild", slog.Duration("interval", w.interval))
	return s, nil
}

// request enqueues a rebuild unless one is already pending.
func (w *Watcher) request() {
	select {
	case w.req <- struct{}{}:
	default:
	}
}

// trigger (re)starts the debounce timer. Requests arriving while a rebuild
// runs collapse into a single follow-up rebuild.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.request)
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !w.relevant(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(ev.Name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.trigger()
}

// relevant reports whether an event path should cause a rebuild.
func (w *Watcher) relevant(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	if _, ok := w.files[abs]; ok {
		return true
	}
	if shouldIgnore(abs) {
		return false
	}
	for _, prefix := range w.ignore {
		if within(prefix, abs) {
			return false
		}
	}
	for _, root := range w.roots {
		if within(root, abs) {
			return true
		}
	}
	return false
}

func (w *Watcher) addDirsRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			for _, prefix := range w.ignore {
				if within(prefix, path) {
					return filepath.SkipDir
				}
			}
			if err := w.fs.Add(path); err != nil {
				w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// shouldIgnore filters hidden files and editor temp/swap files.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}
