package runner

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines around each hunk.
const diffContext = 3

type lineOp struct {
	kind diffmatchpatch.Operation
	text string
}

// UnifiedDiff returns a unified line diff from before (the file on disk) to
// after (the compiled document). Equal inputs yield "".
func UnifiedDiff(name, before, after string) string {
	if before == after {
		return ""
	}

	ops := lineOps(before, after)

	// oldAt and newAt hold the 1-based line number each op starts at.
	oldAt := make([]int, len(ops)+1)
	newAt := make([]int, len(ops)+1)
	oldAt[0], newAt[0] = 1, 1
	for i, op := range ops {
		oldAt[i+1], newAt[i+1] = oldAt[i], newAt[i]
		if op.kind != diffmatchpatch.DiffInsert {
			oldAt[i+1]++
		}
		if op.kind != diffmatchpatch.DiffDelete {
			newAt[i+1]++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s (compiled)\n", name, name)

	for start := 0; ; {
		first := nextChange(ops, start)
		if first < 0 {
			break
		}

		end := first
		for {
			run := end
			for run < len(ops) && ops[run].kind != diffmatchpatch.DiffEqual {
				run++
			}
			next := nextChange(ops, run)
			if next < 0 || next-run > 2*diffContext {
				end = run
				break
			}
			end = next
		}

		from := max(first-diffContext, start)
		to := min(end+diffContext, len(ops))
		writeHunk(&b, ops[from:to], oldAt[from], newAt[from])
		start = to
	}

	return b.String()
}

func writeHunk(b *strings.Builder, ops []lineOp, oldStart, newStart int) {
	var oldCount, newCount int
	for _, op := range ops {
		if op.kind != diffmatchpatch.DiffInsert {
			oldCount++
		}
		if op.kind != diffmatchpatch.DiffDelete {
			newCount++
		}
	}
	if oldCount == 0 {
		oldStart--
	}
	if newCount == 0 {
		newStart--
	}

	fmt.Fprintf(b, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
	for _, op := range ops {
		switch op.kind {
		case diffmatchpatch.DiffInsert:
			b.WriteByte('+')
		case diffmatchpatch.DiffDelete:
			b.WriteByte('-')
		case diffmatchpatch.DiffEqual:
			b.WriteByte(' ')
		}
		b.WriteString(op.text)
		if !strings.HasSuffix(op.text, "\n") {
			b.WriteString("\n\\ No newline at end of file\n")
		}
	}
}

func nextChange(ops []lineOp, from int) int {
	for i := from; i < len(ops); i++ {
		if ops[i].kind != diffmatchpatch.DiffEqual {
			return i
		}
	}
	return -1
}

func lineOps(before, after string) []lineOp {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var ops []lineOp
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			ops = append(ops, lineOp{kind: d.Type, text: line})
		}
	}
	return ops
}
