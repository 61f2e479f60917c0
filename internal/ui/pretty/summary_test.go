package pretty_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/html7/internal/ui/pretty"
	"github.com/yaklabco/html7/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		check bool
		want  string
	}{
		{
			name:  "build",
			stats: runner.Stats{FilesCompiled: 3, FilesWritten: 1, FilesUnchanged: 2},
			want:  "Compiled 3 files (1 written, 2 unchanged)\n",
		},
		{
			name:  "build with failure and duration",
			stats: runner.Stats{FilesCompiled: 1, FilesWritten: 1, FilesFailed: 1, Duration: 1500 * time.Microsecond},
			want:  "Compiled 1 file (1 written, 0 unchanged), 1 file failed in 2ms\n",
		},
		{
			name:  "only failures",
			stats: runner.Stats{FilesFailed: 2},
			want:  "2 files failed\n",
		},
		{
			name:  "check up to date",
			stats: runner.Stats{FilesCompiled: 2, FilesUnchanged: 2},
			check: true,
			want:  "All outputs up to date (2 files checked)\n",
		},
		{
			name:  "check with changes",
			stats: runner.Stats{FilesCompiled: 2, FilesChanged: 1, FilesUnchanged: 1},
			check: true,
			want:  "1 file would change\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats, tt.check))
		})
	}
}
