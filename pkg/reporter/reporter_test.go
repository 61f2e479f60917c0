package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/html7/pkg/diag"
	"github.com/yaklabco/html7/pkg/reporter"
	"github.com/yaklabco/html7/pkg/runner"
)

const workDir = "/project"

func target(name string) runner.Target {
	return runner.Target{
		Source: filepath.Join(workDir, name+".html7"),
		Output: filepath.Join(workDir, "dist-html7", name+".html"),
	}
}

func buildResult() *runner.Result {
	return &runner.Result{
		WorkingDir: workDir,
		Files: []runner.FileOutcome{
			{Target: target("a"), Written: true, Changed: true},
			{Target: target("b")},
			{Target: target("c"), Error: diag.Structural("<br>", "br is a selfclosing tag")},
			{Target: target("d"), Error: errors.New("read d.html7: file not found")},
		},
		Stats: runner.Stats{FilesCompiled: 2, FilesWritten: 1, FilesUnchanged: 1, FilesChanged: 1, FilesFailed: 2},
	}
}

func checkResult() *runner.Result {
	return &runner.Result{
		WorkingDir: workDir,
		Check:      true,
		Files: []runner.FileOutcome{
			{
				Target:  target("a"),
				Changed: true,
				Diff:    runner.UnifiedDiff("a.html", "<p>old</p>\n<br />\n", "<p>new</p>\n<br />\n"),
			},
			{Target: target("b")},
		},
		Stats: runner.Stats{FilesCompiled: 2, FilesChanged: 1, FilesUnchanged: 1},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "diff", input: "diff", want: reporter.FormatDiff},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, format := range []reporter.Format{reporter.FormatText, reporter.FormatJSON, reporter.FormatDiff, ""} {
		rep, err := reporter.New(reporter.Options{Format: format, Writer: &bytes.Buffer{}})
		require.NoError(t, err, format)
		assert.NotNil(t, rep)
	}

	_, err := reporter.New(reporter.Options{Format: "xml", Writer: &bytes.Buffer{}})
	require.Error(t, err)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	failures, err := rep.Report(context.Background(), buildResult())
	require.NoError(t, err)
	assert.Equal(t, 2, failures)

	want := strings.Join([]string{
		"Successfully transpiled a.html7 -> dist-html7/a.html",
		"Successfully transpiled b.html7 -> dist-html7/b.html",
		"Failed to transpile c.html7:",
		"    <br>",
		"    ^^^^",
		"",
		"StructuralError: br is a selfclosing tag, at '<br>'",
		"",
		"d.html7: error: read d.html7: file not found",
		"Compiled 2 files (1 written, 1 unchanged), 2 files failed",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestTextReporter_Check(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	_, err := rep.Report(context.Background(), checkResult())
	require.NoError(t, err)

	assert.Equal(t, "dist-html7/a.html would change\n1 file would change\n", buf.String())
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	failures, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, failures)
	assert.Equal(t, "No files to transpile.\n", buf.String())
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	failures, err := rep.Report(context.Background(), buildResult())
	require.NoError(t, err)
	assert.Equal(t, 2, failures)

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	require.Len(t, out.Files, 4)
	assert.Equal(t, reporter.StatusWritten, out.Files[0].Status)
	assert.Equal(t, reporter.StatusUnchanged, out.Files[1].Status)
	assert.Equal(t, "dist-html7/a.html", out.Files[0].Output)

	compileErr := out.Files[2].Error
	require.NotNil(t, compileErr)
	assert.Equal(t, reporter.StatusFailed, out.Files[2].Status)
	assert.Equal(t, "StructuralError", compileErr.Kind)
	assert.Equal(t, "<br>", compileErr.Snippet)
	assert.Contains(t, compileErr.Formatted, "^^^^")

	ioErr := out.Files[3].Error
	require.NotNil(t, ioErr)
	assert.Empty(t, ioErr.Kind)
	assert.Equal(t, "read d.html7: file not found", ioErr.Message)

	assert.Equal(t, 2, out.Summary.FilesFailed)
	assert.Contains(t, buf.String(), `"snippet": "<br>"`, "HTML is not escaped")
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})

	_, err := rep.Report(context.Background(), checkResult())
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), `"check":true`)
	assert.Contains(t, buf.String(), `"status":"changed"`)
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	failures, err := rep.Report(context.Background(), checkResult())
	require.NoError(t, err)
	assert.Zero(t, failures)

	want := strings.Join([]string{
		"diff --git a/dist-html7/a.html b/dist-html7/a.html",
		"--- a/dist-html7/a.html",
		"+++ b/dist-html7/a.html",
		"@@ -1,2 +1,2 @@",
		"-<p>old</p>",
		"+<p>new</p>",
		" <br />",
		"",
		"1 file changed, 1 insertion(+), 1 deletion(-)",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}
