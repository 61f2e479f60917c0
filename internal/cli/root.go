// Package cli provides the Cobra command structure for html7.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/html7/internal/logging"
	"github.com/yaklabco/html7/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root html7 command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var color string

	rootCmd := &cobra.Command{
		Use:   "html7",
		Short: "Transpile HTML7 markup to HTML",
		Long: `html7 transpiles the HTML7 markup dialect to HTML.

HTML7 is HTML with strict self-closing rules: void elements must be written
<br/>, every other element needs a matching close tag, and <style> and
<script> blocks are hoisted into <head> and the end of <body>. html7 reports
the first error with the offending source lines and a caret underline.`,
		Version: info.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !pretty.IsValidColorMode(color) {
				return fmt.Errorf("%w: invalid --color %q: must be auto, always or never", ErrInvalidUsage, color)
			}

			level := "info"
			if debug {
				level = "debug"
			}
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)
			logging.SetDefault(logger)
			cmd.SetContext(logging.WithLogger(commandContext(cmd), logger))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	})

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", pretty.ColorAuto,
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().StringP("dir", "C", "", "run as if html7 was started in this directory")

	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newTagsCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(&color).ApplyToCommand(rootCmd)

	return rootCmd
}
