package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/html7/internal/ui/pretty"
	"github.com/yaklabco/html7/pkg/tags"
)

func newTagsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags [standard|self-closing|optional]",
		Short: "List the active tag tables",
		Long: `List the tag names html7 accepts, after applying any tag list files named
in the configuration.

With a table name, prints that table's names one per line. Without one,
prints every table under a heading.

Examples:
  html7 tags                        List all three tables
  html7 tags self-closing           List tags that must be written <name/>`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{tags.TableStandard, tags.TableSelfClosing, tags.TableOptionalSelfClosing},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTags(cmd, args)
		},
	}

	return cmd
}

func runTags(cmd *cobra.Command, args []string) error {
	sess, err := loadSession(cmd, nil)
	if err != nil {
		return err
	}
	tables := sess.compiler.Options().Tables

	names := []string{tags.TableStandard, tags.TableSelfClosing, tags.TableOptionalSelfClosing}
	if len(args) == 1 {
		names = args
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.OutOrStdout()))

	for i, name := range names {
		set, err := tables.Lookup(name)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
		}
		if len(names) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s %s\n", styles.Bold.Render(name), styles.Dim.Render(fmt.Sprintf("(%d)", set.Len())))
		}
		for _, tag := range set.Names() {
			fmt.Fprintln(out, tag)
		}
	}

	if err := out.Flush(); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	return nil
}
