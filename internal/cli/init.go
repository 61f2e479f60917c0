package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/html7/internal/logging"
	"github.com/yaklabco/html7/pkg/config"
	"github.com/yaklabco/html7/pkg/fsutil"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

// isInteractive reports whether stdin is a terminal. Tests replace it.
//
//nolint:gochecknoglobals // Swapped by tests to simulate a terminal.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an html7 configuration file",
		Long: `Create html7.conf.json in the current directory with the default settings.
When the file already exists and stdin is a terminal, asks before
overwriting it; otherwise --force is required.

Examples:
  html7 init                        Create html7.conf.json
  html7 init --full                 Include every setting
  html7 init --format yaml          Create a commented .html7.yml instead
  html7 init --output site.json     Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "include every setting, not just root, outDir and minify")
	cmd.Flags().StringVar(&flags.format, "format", config.TemplateJSON, "output format: json or yaml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"output file path (default: html7.conf.json or .html7.yml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	ctx := commandContext(cmd)
	logger := logging.NewInteractive()

	var defaultName string
	switch flags.format {
	case config.TemplateJSON:
		defaultName = "html7.conf.json"
	case config.TemplateYAML:
		defaultName = ".html7.yml"
	default:
		return fmt.Errorf("%w: invalid format %q: must be json or yaml", ErrInvalidUsage, flags.format)
	}

	workDir, err := workingDir(cmd)
	if err != nil {
		return err
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = defaultName
	}
	absPath := anchor(workDir, outputPath)

	if _, err := os.Stat(absPath); err == nil && !flags.force {
		if !isInteractive() {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrInvalidUsage, outputPath)
		}
		overwrite, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
			fmt.Sprintf("%s already exists. Overwrite? [y/N] ", outputPath))
		if err != nil {
			return err
		}
		if !overwrite {
			logger.Info("kept existing configuration", logging.FieldPath, outputPath)
			return nil
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if _, err := fsutil.WriteAtomicIfChanged(ctx, absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'html7 build' to compile " + config.DefaultEntry)

	return nil
}

// confirm prints prompt and reads a yes/no answer. Anything but y or yes
// declines.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := io.WriteString(out, prompt); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read response: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
