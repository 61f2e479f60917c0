package runner

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/yaklabco/html7/internal/logging"
	"github.com/yaklabco/html7/pkg/compiler"
	"github.com/yaklabco/html7/pkg/fsutil"
)

// Runner compiles planned targets concurrently.
type Runner struct {
	Compiler *compiler.Compiler
}

// New creates a Runner using c for every file.
func New(c *compiler.Compiler) *Runner {
	return &Runner{Compiler: c}
}

// Run plans the targets of opts and compiles them with a worker pool.
// Compile failures are reported per file in the Result; the returned error
// covers planning failures and cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()
	logger := logging.FromContext(ctx)

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	opts.WorkingDir = workDir

	targets, err := Plan(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files:      make([]FileOutcome, 0, len(targets)),
		WorkingDir: workDir,
		Check:      opts.Check,
	}
	result.Stats.FilesDiscovered = len(targets)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(targets))

	logger.Debug("Starting build",
		logging.FieldFiles, len(targets),
		logging.FieldJobs, jobs,
		logging.FieldCheck, opts.Check,
	)

	workCh := make(chan int)
	outCh := make(chan indexedOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, targets, opts.Check, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for i := range targets {
			select {
			case <-ctx.Done():
				return
			case workCh <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make([]*FileOutcome, len(targets))
	for out := range outCh {
		outcomes[out.index] = &out.outcome
	}

	for _, outcome := range outcomes {
		if outcome != nil {
			result.accumulate(*outcome)
		}
	}
	result.Stats.Duration = time.Since(started)

	if ctx.Err() != nil {
		return result, fmt.Errorf("build cancelled: %w", ctx.Err())
	}

	logger.Debug("Build finished",
		logging.FieldFilesCompiled, result.Stats.FilesCompiled,
		logging.FieldFilesWritten, result.Stats.FilesWritten,
		logging.FieldFilesFailed, result.Stats.FilesFailed,
		logging.FieldDuration, result.Stats.Duration,
	)

	return result, nil
}

type indexedOutcome struct {
	index   int
	outcome FileOutcome
}

func (r *Runner) worker(
	ctx context.Context,
	targets []Target,
	check bool,
	workCh <-chan int,
	outCh chan<- indexedOutcome,
) {
	for index := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.compileTarget(ctx, targets[index], check)

		select {
		case <-ctx.Done():
			return
		case outCh <- indexedOutcome{index: index, outcome: outcome}:
		}
	}
}

func (r *Runner) compileTarget(ctx context.Context, target Target, check bool) (outcome FileOutcome) {
	started := time.Now()
	outcome.Target = target
	defer func() { outcome.Duration = time.Since(started) }()

	ctx = logging.WithSource(ctx, target.Source)
	logger := logging.FromContext(ctx)

	content, _, err := fsutil.ReadFile(ctx, target.Source)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	parsed, err := r.Compiler.Compile(string(content))
	if err != nil {
		logger.Debug("Compile failed", logging.FieldError, err)
		outcome.Error = err
		return outcome
	}
	outcome.Parsed = parsed
	document := []byte(parsed.OutHTML)

	if check {
		existing, err := fsutil.ReadOptional(ctx, target.Output)
		if err != nil {
			outcome.Error = err
			return outcome
		}
		if !bytes.Equal(existing, document) {
			outcome.Changed = true
			outcome.Diff = UnifiedDiff(filepath.Base(target.Output), string(existing), parsed.OutHTML)
		}
		return outcome
	}

	if _, err := fsutil.EnsureDir(ctx, filepath.Dir(target.Output)); err != nil {
		outcome.Error = err
		return outcome
	}
	written, err := fsutil.WriteAtomicIfChanged(ctx, target.Output, document, fsutil.DefaultFileMode)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Written = written
	outcome.Changed = written

	logger.Debug("Compiled", logging.FieldOutput, target.Output, logging.FieldWritten, written)
	return outcome
}
