package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/html7/internal/watcher"
)

const (
	debounce = 50 * time.Millisecond
	timeout  = 2 * time.Second
	quiet    = 300 * time.Millisecond
)

func startWatcher(t *testing.T, cfg watcher.Config) <-chan []string {
	t.Helper()

	cfg.Debounce = debounce
	w, err := watcher.New(cfg)
	require.NoError(t, err, "failed to create watcher")
	t.Cleanup(func() { _ = w.Stop() })

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")
	return onChange
}

func expectChange(t *testing.T, onChange <-chan []string) []string {
	t.Helper()
	select {
	case paths := <-onChange:
		return paths
	case <-time.After(timeout):
		t.Fatal("expected notification but got timeout")
		return nil
	}
}

func expectQuiet(t *testing.T, onChange <-chan []string) {
	t.Helper()
	select {
	case paths := <-onChange:
		t.Fatalf("unexpected notification: %v", paths)
	case <-time.After(quiet):
	}
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "index.html7")
	require.NoError(t, os.WriteFile(source, []byte("<p>0</p>"), 0o644))

	onChange := startWatcher(t, watcher.Config{Dirs: []string{dir}, Extensions: []string{".html7"}})

	for i := range 10 {
		require.NoError(t, os.WriteFile(source, []byte(fmt.Sprintf("<p>%d</p>", i)), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	paths := expectChange(t, onChange)
	assert.Equal(t, []string{source}, paths)
	expectQuiet(t, onChange)
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "dist-html7")
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	onChange := startWatcher(t, watcher.Config{
		Dirs:       []string{dir},
		Extensions: []string{".html7"},
		Exclude:    []string{outDir},
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "stray.html7"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "x.html7"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".swap.html7"), []byte("x"), 0o644))

	expectQuiet(t, onChange)
}

func TestWatcher_WatchedFiles(t *testing.T) {
	dir := t.TempDir()
	htmlAdd := filepath.Join(dir, "public", "html-add.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(htmlAdd), 0o755))

	onChange := startWatcher(t, watcher.Config{
		Files: []string{htmlAdd, filepath.Join(dir, "missing", "html7.conf.json")},
	})

	require.NoError(t, os.WriteFile(htmlAdd, []byte("<div></div>"), 0o644))

	paths := expectChange(t, onChange)
	assert.Equal(t, []string{htmlAdd}, paths)
}

func TestWatcher_NewSubdirectory(t *testing.T) {
	dir := t.TempDir()

	onChange := startWatcher(t, watcher.Config{Dirs: []string{dir}, Extensions: []string{".html7"}})

	sub := filepath.Join(dir, "pages")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	time.Sleep(quiet)

	page := filepath.Join(sub, "about.html7")
	require.NoError(t, os.WriteFile(page, []byte("<p>x</p>"), 0o644))

	paths := expectChange(t, onChange)
	assert.Contains(t, paths, page)
}

func TestWatcher_NewHiddenSubdirectoryIgnored(t *testing.T) {
	dir := t.TempDir()

	onChange := startWatcher(t, watcher.Config{Dirs: []string{dir}, Extensions: []string{".html7"}})

	hidden := filepath.Join(dir, ".cache")
	require.NoError(t, os.MkdirAll(hidden, 0o755))
	time.Sleep(quiet)

	require.NoError(t, os.WriteFile(filepath.Join(hidden, "page.html7"), []byte("<p>x</p>"), 0o644))

	expectQuiet(t, onChange)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := watcher.New(watcher.Config{Dirs: []string{t.TempDir()}})
	require.NoError(t, err)

	_, err = w.Start()
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestWatcher_StartMissingDir(t *testing.T) {
	w, err := watcher.New(watcher.Config{Dirs: []string{filepath.Join(t.TempDir(), "missing")}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	_, err = w.Start()
	assert.Error(t, err)
}
