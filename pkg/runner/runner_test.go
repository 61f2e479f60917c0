package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/html7/pkg/compiler"
	"github.com/yaklabco/html7/pkg/config"
	"github.com/yaklabco/html7/pkg/diag"
	"github.com/yaklabco/html7/pkg/runner"
)

func newRunner() *runner.Runner {
	return runner.New(compiler.New(compiler.Options{Minify: true}))
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRunner_Run_EntryMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"index.html7": "<div>// note\n\t<p>hi</>\n</div>\n"})

	result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesCompiled != 1 || result.Stats.FilesWritten != 1 {
		t.Errorf("Stats = %+v, want one compiled and written file", result.Stats)
	}

	output := filepath.Join(dir, config.DefaultOutDir, config.DefaultOutput)
	if got := readOutput(t, output); got != "<div><p>hi</p></div>" {
		t.Errorf("output = %q", got)
	}
	if got := result.Display(result.Files[0].Output); got != filepath.Join(config.DefaultOutDir, config.DefaultOutput) {
		t.Errorf("Display() = %q", got)
	}
}

func TestRunner_Run_Rebuild(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"index.html7": "<p>hi</p>"})
	r := newRunner()

	if _, err := r.Run(context.Background(), runner.Options{WorkingDir: dir}); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if result.Stats.FilesWritten != 0 || result.Stats.FilesUnchanged != 1 {
		t.Errorf("Stats = %+v, want unchanged output", result.Stats)
	}
}

func TestRunner_Run_MultipleFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		files["pages/"+name+".html7"] = "<h1>" + name + "</h1>"
	}
	files["pages/broken.html7"] = "<p><br></p>"
	writeFiles(t, dir, files)

	for _, jobs := range []int{1, 4} {
		result, err := newRunner().Run(context.Background(), runner.Options{
			Paths:      []string{"pages"},
			WorkingDir: dir,
			Jobs:       jobs,
		})
		if err != nil {
			t.Fatalf("Run(jobs=%d) error = %v", jobs, err)
		}

		if result.Stats.FilesDiscovered != 9 || result.Stats.FilesFailed != 1 {
			t.Errorf("jobs=%d Stats = %+v", jobs, result.Stats)
		}
		if !result.HasFailures() {
			t.Errorf("jobs=%d HasFailures() = false", jobs)
		}

		for i := 1; i < len(result.Files); i++ {
			if result.Files[i-1].Source >= result.Files[i].Source {
				t.Fatalf("jobs=%d results not in source order", jobs)
			}
		}

		for _, outcome := range result.Files {
			if filepath.Base(outcome.Source) != "broken.html7" {
				continue
			}
			de, ok := outcome.Diagnostic()
			if !ok {
				t.Fatalf("broken file error = %v, want *diag.Error", outcome.Error)
			}
			if de.Kind != diag.KindStructural || de.Message != "br is a selfclosing tag" {
				t.Errorf("diagnostic = %v", de)
			}
		}
	}

	if got := readOutput(t, filepath.Join(dir, config.DefaultOutDir, "pages", "c.html")); got != "<h1>c</h1>" {
		t.Errorf("output = %q", got)
	}
}

func TestRunner_Run_Check(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"index.html7":           "<p>new</p>",
		"dist-html7/index.html": "<p>old</p>",
	})

	result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir, Check: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !result.HasChanges() || !result.Check {
		t.Fatalf("result = %+v, want pending changes", result.Stats)
	}
	outcome := result.Files[0]
	if outcome.Written {
		t.Error("check mode wrote output")
	}
	if !strings.Contains(outcome.Diff, "-<p>old</p>") || !strings.Contains(outcome.Diff, "+<p>new</p>") {
		t.Errorf("Diff = %q", outcome.Diff)
	}
	if got := readOutput(t, filepath.Join(dir, "dist-html7", "index.html")); got != "<p>old</p>" {
		t.Errorf("output modified in check mode: %q", got)
	}
}

func TestRunner_Run_EntryMissing(t *testing.T) {
	t.Parallel()

	_, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	if !errors.Is(err, runner.ErrEntryNotFound) {
		t.Errorf("Run() error = %v, want ErrEntryNotFound", err)
	}
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.html7": "<p>a</p>", "b.html7": "<p>b</p>"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner().Run(ctx, runner.Options{Paths: []string{"."}, WorkingDir: dir})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestResult_NilSafe(t *testing.T) {
	t.Parallel()

	var result *runner.Result
	if result.HasFailures() || result.HasChanges() {
		t.Error("nil result reports failures or changes")
	}
	if got := result.Display("/a/b"); got != "/a/b" {
		t.Errorf("Display() = %q", got)
	}
}
