package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/html7/internal/configloader"
	"github.com/yaklabco/html7/internal/ui/pretty"
)

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{
			Command:     plain,
			Heading:     plain,
			Subcommand:  plain,
			Flag:        plain,
			Description: plain,
			Dim:         plain,
		}
	}
	return &HelpStyles{
		Command:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Description: lipgloss.NewStyle(),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders styled help for Cobra commands. The color mode is
// read when help is printed, after flags have been parsed.
type HelpFormatter struct {
	colorMode *string
}

// NewHelpFormatter creates a help formatter reading the color mode from
// colorMode. A nil pointer means auto.
func NewHelpFormatter(colorMode *string) *HelpFormatter {
	return &HelpFormatter{colorMode: colorMode}
}

func (h *HelpFormatter) styles(w io.Writer) *HelpStyles {
	mode := pretty.ColorAuto
	if h.colorMode != nil && *h.colorMode != "" {
		mode = *h.colorMode
	}
	return NewHelpStyles(pretty.IsColorEnabled(mode, w))
}

// flagRow is one rendered flag line.
type flagRow struct {
	names string
	kind  string
	usage string
}

// flagRows lists the visible flags of fs in definition order.
func flagRows(fs *pflag.FlagSet) []flagRow {
	var rows []flagRow
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		names := "    --" + f.Name
		if f.Shorthand != "" {
			names = "-" + f.Shorthand + ", --" + f.Name
		}

		kind, usage := pflag.UnquoteUsage(f)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" && f.DefValue != "[]" {
			if f.Value.Type() == "string" {
				usage += fmt.Sprintf(" (default %q)", f.DefValue)
			} else {
				usage += " (default " + f.DefValue + ")"
			}
		}
		rows = append(rows, flagRow{names: names, kind: kind, usage: usage})
	})
	return rows
}

func (h *HelpFormatter) renderFlags(styles *HelpStyles, fs *pflag.FlagSet) string {
	rows := flagRows(fs)

	width := 0
	for _, row := range rows {
		width = max(width, len(row.names)+len(row.kind)+1)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		plain := row.names
		styled := styles.Flag.Render(row.names)
		if row.kind != "" {
			plain += " " + row.kind
			styled += " " + styles.Dim.Render(row.kind)
		}
		pad := strings.Repeat(" ", width-len(plain)+3)
		lines = append(lines, "  "+styled+pad+styles.Description.Render(row.usage))
	}
	return strings.Join(lines, "\n")
}

// renderEnv lists the environment variables the config loader reads.
func renderEnv(styles *HelpStyles) string {
	vars := configloader.ListEnvVars()

	width := 0
	for _, v := range vars {
		width = max(width, len(v.Name))
	}

	lines := make([]string, 0, len(vars))
	for _, v := range vars {
		lines = append(lines, "  "+styles.Flag.Render(rpad(v.Name, width))+"   "+styles.Description.Render(v.Description))
	}
	return strings.Join(lines, "\n")
}

func (h *HelpFormatter) funcs(styles *HelpStyles) template.FuncMap {
	return template.FuncMap{
		"styleCommand":    styles.Command.Render,
		"styleHeading":    styles.Heading.Render,
		"styleSubcommand": styles.Subcommand.Render,
		"styleDim":        styles.Dim.Render,
		"flags":           func(fs *pflag.FlagSet) string { return h.renderFlags(styles, fs) },
		"env":             func() string { return renderEnv(styles) },
		"rpad":            rpad,
		"trim":            trimTrailingWhitespaces,
	}
}

const usageTemplate = `{{ styleHeading "Usage:" }}
{{- if .Runnable}}
  {{ styleCommand .UseLine }}
{{- end}}
{{- if .HasAvailableSubCommands}}
  {{ styleCommand .CommandPath }} [command]
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ styleHeading "Commands:" }}
{{- range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ styleSubcommand (rpad .Name .NamePadding) }} {{ .Short }}
{{- end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ styleHeading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ styleHeading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if not .HasParent}}

{{ styleHeading "Environment:" }}
{{ env }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ styleCommand (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trim . }}

{{end}}` + usageTemplate

func (h *HelpFormatter) execute(name, text string, cmd *cobra.Command) error {
	w := cmd.OutOrStdout()
	tmpl, err := template.New(name).Funcs(h.funcs(h.styles(w))).Parse(text)
	if err != nil {
		return fmt.Errorf("parse %s template: %w", name, err)
	}
	if err := tmpl.Execute(w, cmd); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// ApplyToCommand installs the styled help and usage functions on cmd. Cobra
// inherits them in subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return h.execute("usage", usageTemplate, c)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := h.execute("help", helpTemplate, c); err != nil {
			c.PrintErrln(err)
		}
	})
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
