package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/html7/internal/logging"
	"github.com/yaklabco/html7/internal/watcher"
	"github.com/yaklabco/html7/pkg/compiler"
	"github.com/yaklabco/html7/pkg/runner"
)

func newWatchCommand() *cobra.Command {
	flags := &buildFlags{}
	var debounce int

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Rebuild whenever sources change",
		Long: `Build once, then rebuild whenever an html7 source, the html-add file or a
loaded configuration file changes. Changes are debounced; press Ctrl-C to stop.

Examples:
  html7 watch                       # Rebuild index.html7 on change
  html7 watch pages/                # Rebuild every page under pages/
  html7 watch --minify              # Rebuild with minified output`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, flags, debounce)
		},
	}

	addBuildFlags(cmd, flags)
	cmd.Flags().IntVar(&debounce, "debounce", int(watcher.DefaultDebounce.Milliseconds()),
		"milliseconds to wait for changes to settle")
	_ = cmd.Flags().MarkHidden("check")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, flags *buildFlags, debounceMs int) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	if flags.check {
		return fmt.Errorf("%w: --check cannot be used with watch", ErrInvalidUsage)
	}

	cliCfg := cliConfig(cmd, flags)
	cliCfg.Check = false
	debounce := time.Duration(debounceMs) * time.Millisecond

	cache := compiler.NewResultCache(compiler.DefaultExpiration, compiler.DefaultCleanupInterval)
	sess, err := loadSession(cmd, cliCfg, compiler.WithCache(cache))
	if err != nil {
		return err
	}

	for {
		err := sess.watch(cmd, args, flags.compact, debounce)
		if ctx.Err() != nil {
			logger.Info("watch stopped")
			return nil
		}
		if err != nil {
			return err
		}

		next, err := loadSession(cmd, cliCfg, compiler.WithCache(cache))
		if err != nil {
			logger.Error("reload configuration", logging.FieldError, err)
			continue
		}
		flushed := cache.Len()
		cache.Flush()
		logger.Info("configuration reloaded", logging.FieldFlushed, flushed)
		sess = next
	}
}

// watch builds, then rebuilds on every source change. It returns nil when
// a settings file changed and the session must be reloaded.
func (s *session) watch(cmd *cobra.Command, paths []string, compact bool, debounce time.Duration) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	settings := s.watchFiles()
	w, err := watcher.New(watcher.Config{
		Dirs:       s.watchDirs(paths),
		Files:      settings,
		Extensions: runner.DefaultExtensions(),
		Exclude:    []string{anchor(s.workDir, s.cfg.OutDir)},
		Debounce:   debounce,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}

	for {
		if err := s.rebuild(cmd, paths, compact); err != nil {
			return err
		}
		hits, _ := s.compiler.CacheStats()
		logger.Info("watching for changes", logging.FieldCacheHit, hits)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case changed := <-changes:
			logger.Debug("change detected", logging.FieldFiles, changed)
			if slices.ContainsFunc(changed, func(p string) bool { return slices.Contains(settings, p) }) {
				return nil
			}
		}
	}
}

// rebuild runs a build, treating compile failures and a missing entry as
// reported rather than fatal.
func (s *session) rebuild(cmd *cobra.Command, paths []string, compact bool) error {
	err := s.build(cmd, paths, compact)
	switch {
	case err == nil, IsReported(err):
		return nil
	case errors.Is(err, runner.ErrEntryNotFound), errors.Is(err, runner.ErrNoSources):
		logging.FromContext(commandContext(cmd)).Warn("nothing to build", logging.FieldError, err)
		return nil
	default:
		return err
	}
}

// watchFiles lists the settings files whose changes require a reload.
func (s *session) watchFiles() []string {
	files := make([]string, 0, len(s.configFiles)+1)
	for _, f := range s.configFiles {
		files = append(files, anchor(s.workDir, f))
	}
	if s.htmlAddPath != "" {
		files = append(files, s.htmlAddPath)
	}
	return files
}

// watchDirs returns the directories to watch: the root in entry mode,
// otherwise each path argument (or its parent for files).
func (s *session) watchDirs(paths []string) []string {
	if len(paths) == 0 {
		return []string{anchor(s.workDir, s.cfg.Root)}
	}

	dirs := make([]string, 0, len(paths))
	for _, p := range paths {
		abs := anchor(s.workDir, p)
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			abs = filepath.Dir(abs)
		}
		if !slices.Contains(dirs, abs) {
			dirs = append(dirs, abs)
		}
	}
	return dirs
}
