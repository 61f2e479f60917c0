package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/html7/internal/configloader"
	"github.com/yaklabco/html7/internal/logging"
	"github.com/yaklabco/html7/pkg/assemble"
	"github.com/yaklabco/html7/pkg/compiler"
	"github.com/yaklabco/html7/pkg/config"
	"github.com/yaklabco/html7/pkg/tags"
)

// session is everything a build needs, resolved once per invocation (or
// once per config reload in watch mode).
type session struct {
	workDir     string
	cfg         *config.Config
	configFiles []string
	htmlAddPath string
	compiler    *compiler.Compiler
}

// workingDir returns the --dir flag value made absolute, or the process
// working directory.
func workingDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve --dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: --dir: %w", ErrInvalidUsage, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: --dir %s is not a directory", ErrInvalidUsage, dir)
	}
	return abs, nil
}

// anchor makes p absolute relative to dir.
func anchor(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func loadSession(cmd *cobra.Command, cliCfg *config.Config, opts ...compiler.Option) (*session, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	workDir, err := workingDir(cmd)
	if err != nil {
		return nil, err
	}

	configPath, _ := cmd.Flags().GetString("config")

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: anchor(workDir, configPath),
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldPaths, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration resolved",
		logging.FieldWorkingDir, workDir,
		logging.FieldMinify, cfg.MinifyEnabled(),
		logging.FieldOutDir, cfg.OutDir,
		logging.FieldJobs, cfg.Jobs,
	)

	tables, err := tags.LoadFiles(tags.Paths{
		Standard:            cfg.Tags.Standard,
		SelfClosing:         cfg.Tags.SelfClosing,
		OptionalSelfClosing: cfg.Tags.OptionalSelfClosing,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: load tag tables: %w", ErrConfig, err)
	}

	htmlAddPath := anchor(workDir, cfg.HTMLAdd)
	htmlAdd, err := assemble.LoadHTMLAdd(ctx, htmlAddPath)
	if err != nil {
		return nil, err
	}

	return &session{
		workDir:     workDir,
		cfg:         cfg,
		configFiles: loadResult.LoadedFrom,
		htmlAddPath: htmlAddPath,
		compiler:    compiler.New(compiler.OptionsFromConfig(cfg, tables, htmlAdd), opts...),
	}, nil
}

// commandContext returns the command's context, never nil.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
