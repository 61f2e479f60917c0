package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/html7/pkg/config"
	"github.com/yaklabco/html7/pkg/reporter"
	"github.com/yaklabco/html7/pkg/runner"
)

type buildFlags struct {
	minify        bool
	outDir        string
	jobs          int
	check         bool
	format        string
	noCredits     bool
	ignore        []string
	allowOptional bool
	compact       bool
}

func newBuildCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build [paths...]",
		Short: "Transpile html7 sources to HTML",
		Long:  buildLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, flags)
		},
	}

	addBuildFlags(cmd, flags)

	return cmd
}

const buildLongDescription = `Transpile html7 sources to HTML.

Without paths, compiles <root>/<entry> (index.html7 by default) into
<outDir>/<output>. With paths, compiles every .html7 file found in the given
files and directories into outDir, mirroring their relative paths.

Examples:
  html7 build                       # Compile index.html7 into dist-html7/index.html
  html7 build pages/                # Compile every page under pages/
  html7 build --minify              # Emit minified output
  html7 build --check               # Report outputs that would change
  html7 build --format diff         # Show what would change as a diff
  html7 build --format json         # Machine-readable report`

func addBuildFlags(cmd *cobra.Command, flags *buildFlags) {
	cmd.Flags().BoolVar(&flags.minify, "minify", false, "drop indentation and newlines from the output")
	cmd.Flags().StringVar(&flags.outDir, "out-dir", "", "directory receiving generated documents (default dist-html7)")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.check, "check", false, "do not write; report outputs that would change")
	cmd.Flags().StringVar(&flags.format, "format", "text", "report format: text, json, diff")
	cmd.Flags().BoolVar(&flags.noCredits, "no-credits", false, "omit the generator comment before <html>")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to skip")
	cmd.Flags().BoolVar(&flags.allowOptional, "allow-optional-self-closing", false,
		"accept <li/> and other tags whose end tag may be omitted")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "disable JSON indentation")
}

// cliConfig builds the config layer for explicitly set flags only, so
// unset flags never override config files.
func cliConfig(cmd *cobra.Command, flags *buildFlags) *config.Config {
	cfg := &config.Config{}
	changed := cmd.Flags().Changed

	if changed("minify") {
		cfg.Minify = config.Bool(flags.minify)
	}
	if changed("out-dir") {
		cfg.OutDir = flags.outDir
	}
	if changed("jobs") {
		cfg.Jobs = flags.jobs
	}
	if changed("no-credits") {
		cfg.Credits = config.Bool(!flags.noCredits)
	}
	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if changed("allow-optional-self-closing") {
		cfg.AllowOptionalSelfClosing = config.Bool(flags.allowOptional)
	}
	if changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	cfg.Check = flags.check || cfg.Format == config.FormatDiff

	return cfg
}

func runBuild(cmd *cobra.Command, args []string, flags *buildFlags) error {
	if _, err := reporter.ParseFormat(flags.format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	sess, err := loadSession(cmd, cliConfig(cmd, flags))
	if err != nil {
		return err
	}

	return sess.build(cmd, args, flags.compact)
}

// build runs one build and reports it on the command's output.
func (s *session) build(cmd *cobra.Command, paths []string, compact bool) error {
	ctx := commandContext(cmd)

	result, err := runner.New(s.compiler).Run(ctx, runner.Options{
		Paths:        paths,
		WorkingDir:   s.workDir,
		Extensions:   runner.DefaultExtensions(),
		ExcludeGlobs: s.cfg.Ignore,
		Jobs:         s.cfg.Jobs,
		Check:        s.cfg.Check,
		Config:       s.cfg,
	})
	if err != nil {
		return err
	}

	if err := s.report(ctx, cmd.OutOrStdout(), colorMode(cmd), result, compact); err != nil {
		return err
	}

	switch {
	case result.HasFailures():
		return ErrBuildFailed
	case result.Check && result.HasChanges():
		return ErrOutdated
	default:
		return nil
	}
}

func (s *session) report(ctx context.Context, w io.Writer, color string, result *runner.Result, compact bool) error {
	format, err := reporter.ParseFormat(string(s.cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      w,
		Format:      format,
		Color:       color,
		ShowSummary: len(result.Files) > 1 || result.Check,
		Compact:     compact,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}
	return nil
}

// colorMode returns the --color flag value.
func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil || mode == "" {
		return "auto"
	}
	return mode
}
