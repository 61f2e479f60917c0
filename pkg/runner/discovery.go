package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/html7/pkg/config"
)

var (
	// ErrNoSources is returned when the given paths contain no html7 sources.
	ErrNoSources = errors.New("no html7 sources found")

	// ErrEntryNotFound is returned in entry mode when <root>/<entry> is missing.
	ErrEntryNotFound = errors.New("entry file does not exist")

	// ErrOutputConflict is returned when two sources map to the same output.
	ErrOutputConflict = errors.New("conflicting output paths")
)

// Target pairs a source file with the output it compiles to. Both paths are
// absolute.
type Target struct {
	Source string
	Output string
}

// Plan resolves opts into compile targets in deterministic order.
func Plan(ctx context.Context, opts Options) ([]Target, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	opts.WorkingDir = workDir

	cfg := opts.effectiveConfig()
	root := absUnder(workDir, cfg.Root)
	outDir := absUnder(workDir, cfg.OutDir)

	if len(opts.Paths) == 0 {
		source := filepath.Join(root, cfg.Entry)
		info, statErr := os.Stat(source)
		if statErr != nil || info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, displayPath(workDir, source))
		}
		return []Target{{Source: source, Output: filepath.Join(outDir, cfg.Output)}}, nil
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoSources
	}

	targets := make([]Target, 0, len(files))
	owners := make(map[string]string, len(files))
	for _, file := range files {
		output := outputPath(root, outDir, file)
		if prev, ok := owners[output]; ok {
			return nil, fmt.Errorf("%w: %s and %s both compile to %s", ErrOutputConflict,
				displayPath(workDir, prev), displayPath(workDir, file), displayPath(workDir, output))
		}
		owners[output] = file
		targets = append(targets, Target{Source: file, Output: output})
	}
	return targets, nil
}

// outputPath mirrors source's position under root into outDir with the
// output extension. Sources outside root land directly in outDir.
func outputPath(root, outDir, source string) string {
	rel, err := filepath.Rel(root, source)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(source)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + config.OutputExtension
	return filepath.Join(outDir, rel)
}

// Discover finds html7 sources under opts.Paths. It returns a sorted,
// deduplicated list of absolute paths. Hidden files and directories are
// skipped unless named explicitly.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	w := &walker{
		ctx:        ctx,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		exclude:    opts.ExcludeGlobs,
		follow:     opts.FollowSymlinks,
		seen:       make(map[string]struct{}),
	}

	for _, input := range paths {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		abs := absUnder(workDir, input)
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			if w.matches(abs) {
				w.add(abs)
			}
			continue
		}
		if err := w.walk(abs); err != nil {
			return nil, err
		}
	}

	slices.Sort(w.files)
	return w.files, nil
}

type walker struct {
	ctx        context.Context //nolint:containedctx // Scoped to one Discover call.
	workDir    string
	extensions []string
	exclude    []string
	follow     bool
	seen       map[string]struct{}
	files      []string
}

func (w *walker) add(file string) {
	if _, ok := w.seen[file]; ok {
		return
	}
	w.seen[file] = struct{}{}
	w.files = append(w.files, file)
}

func (w *walker) walk(root string) error {
	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		hidden := p != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || w.excluded(p) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(p)
			if statErr != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			if info.IsDir() {
				if !w.follow {
					return nil
				}
				target, evalErr := filepath.EvalSymlinks(p)
				if evalErr != nil {
					return nil //nolint:nilerr // Unresolvable symlinks are skipped.
				}
				return w.walk(target)
			}
		}

		if w.matches(p) {
			w.add(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func (w *walker) matches(file string) bool {
	ext := strings.ToLower(filepath.Ext(file))
	if !slices.ContainsFunc(w.extensions, func(e string) bool { return strings.ToLower(e) == ext }) {
		return false
	}
	return !w.excluded(file)
}

func (w *walker) excluded(p string) bool {
	rel, err := filepath.Rel(w.workDir, p)
	if err != nil {
		rel = p
	}
	for _, pattern := range w.exclude {
		if MatchGlob(pattern, rel) {
			return true
		}
	}
	return false
}

// MatchGlob reports whether rel matches pattern. Patterns without a slash
// match any single path component; otherwise the pattern is matched
// component-wise, with "**" matching zero or more components.
func MatchGlob(pattern, rel string) bool {
	pattern = filepath.ToSlash(pattern)
	segments := strings.Split(filepath.ToSlash(rel), "/")

	if !strings.Contains(pattern, "/") {
		for _, seg := range segments {
			if ok, err := path.Match(pattern, seg); err == nil && ok {
				return true
			}
		}
		return false
	}

	return matchSegments(strings.Split(strings.TrimPrefix(pattern, "./"), "/"), segments)
}

func matchSegments(pattern, segments []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			for skip := 0; skip <= len(segments); skip++ {
				if matchSegments(pattern[1:], segments[skip:]) {
					return true
				}
			}
			return false
		}
		if len(segments) == 0 {
			return false
		}
		if ok, err := path.Match(pattern[0], segments[0]); err != nil || !ok {
			return false
		}
		pattern, segments = pattern[1:], segments[1:]
	}
	return len(segments) == 0
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

func absUnder(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// displayPath returns p relative to workDir when it lies beneath it.
func displayPath(workDir, p string) string {
	rel, err := filepath.Rel(workDir, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return rel
}
