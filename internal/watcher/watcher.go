// Package watcher watches html7 sources and related files with debouncing.
package watcher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/html7/internal/logging"
)

// DefaultDebounce is the quiet period before a batch of changes is reported.
const DefaultDebounce = 200 * time.Millisecond

// Config holds watcher configuration options.
type Config struct {
	// Dirs are watched recursively. Hidden and excluded directories are
	// skipped.
	Dirs []string

	// Files are individual files whose changes are always relevant, such as
	// the config and html-add files. They need not exist yet.
	Files []string

	// Extensions select relevant files inside Dirs.
	Extensions []string

	// Exclude lists directories never watched, such as the output directory.
	Exclude []string

	Debounce time.Duration

	// Logger receives watch errors. Nil selects logging.Default().
	Logger *log.Logger
}

// Watcher reports batches of changed paths.
type Watcher struct {
	cfg       Config
	fsWatcher *fsnotify.Watcher
	files     map[string]struct{}
	exclude   []string
	onChange  chan []string
	done      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// New creates a watcher. Paths in cfg are made absolute.
func New(cfg Config) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:       cfg,
		fsWatcher: fsw,
		files:     make(map[string]struct{}, len(cfg.Files)),
		onChange:  make(chan []string, 1),
		done:      make(chan struct{}),
	}
	for _, file := range cfg.Files {
		w.files[absPath(file)] = struct{}{}
	}
	for _, dir := range cfg.Exclude {
		w.exclude = append(w.exclude, absPath(dir))
	}
	return w, nil
}

// Start begins watching. The returned channel receives the sorted set of
// paths changed since the previous notification. Notifications are dropped
// while the previous one is still unread.
func (w *Watcher) Start() (<-chan []string, error) {
	for _, dir := range w.cfg.Dirs {
		if err := w.addTree(absPath(dir)); err != nil {
			return nil, err
		}
	}

	parents := make(map[string]struct{})
	for file := range w.files {
		parents[filepath.Dir(file)] = struct{}{}
	}
	for dir := range parents {
		if err := w.fsWatcher.Add(dir); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("watch directory %s: %w", dir, err)
		}
	}

	w.wg.Add(1)
	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources. It is safe to call
// more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
		w.wg.Wait()
	})
	return err
}

// addTree watches root and its subdirectories.
func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if (p != root && isHidden(p)) || w.excluded(p) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(p)
	})
	if err != nil {
		return fmt.Errorf("watch directory %s: %w", root, err)
	}
	return nil
}

func (w *Watcher) excluded(p string) bool {
	return slices.ContainsFunc(w.exclude, func(ex string) bool { return within(ex, p) })
}

func isHidden(p string) bool {
	return strings.HasPrefix(filepath.Base(p), ".")
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = make(map[string]struct{})
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if isHidden(event.Name) || w.excluded(absPath(event.Name)) {
						continue
					}
					if err := w.addTree(event.Name); err != nil {
						w.cfg.Logger.Warn("Cannot watch new directory", logging.FieldPath, event.Name, logging.FieldError, err)
					}
					continue
				}
			}

			if !w.isRelevantEvent(event) {
				continue
			}
			pending[event.Name] = struct{}{}

			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.cfg.Debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)

			select {
			case w.onChange <- paths:
			default:
				w.cfg.Logger.Debug("Dropping change notification", logging.FieldPaths, paths)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.cfg.Logger.Warn("Watch error", logging.FieldError, err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent reports whether event should trigger a rebuild.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	name := absPath(event.Name)
	if _, ok := w.files[name]; ok {
		return true
	}
	if isHidden(name) || w.excluded(name) {
		return false
	}

	ext := strings.ToLower(filepath.Ext(name))
	return slices.ContainsFunc(w.cfg.Extensions, func(e string) bool { return strings.ToLower(e) == ext })
}

// within reports whether p is dir or lies beneath it.
func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
