// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color modes accepted by IsColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Diagnostic components
	FilePath lipgloss.Style
	Gutter   lipgloss.Style
	Source   lipgloss.Style
	Caret    lipgloss.Style
	Message  lipgloss.Style

	// Diff styles
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	Success lipgloss.Style
	Failure lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

func newColorStyles() *Styles {
	return &Styles{
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),

		FilePath: lipgloss.NewStyle().Bold(true),
		Gutter:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Source:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")).TabWidth(lipgloss.NoTabConversion),
		Caret:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Message:  lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion),

		DiffHeader:  lipgloss.NewStyle().Bold(true),
		DiffHunk:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		DiffAdd:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		DiffRemove:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		DiffContext: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &Styles{
		Error:       plain,
		Warning:     plain,
		FilePath:    plain,
		Gutter:      plain,
		Source:      plain,
		Caret:       plain,
		Message:     plain,
		DiffHeader:  plain,
		DiffHunk:    plain,
		DiffAdd:     plain,
		DiffRemove:  plain,
		DiffContext: plain,
		Success:     plain,
		Failure:     plain,
		Dim:         plain,
		Bold:        plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}

// IsValidColorMode reports whether mode is auto, always or never.
func IsValidColorMode(mode string) bool {
	switch mode {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}
