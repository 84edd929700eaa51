package diagnostics

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

// Theme defines the colour palette for console output.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary: lipgloss.Color("#7C3AED"), // Purple
		Muted:   lipgloss.Color("#6C7086"), // Medium gray
		Success: lipgloss.Color("#A6E3A1"), // Green
		Warning: lipgloss.Color("#F9E2AF"), // Yellow
		Error:   lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains pre-configured lipgloss styles. With colour disabled
// every style renders text unchanged.
type Styles struct {
	// Prefix renders the "[annlib]" tag.
	Prefix lipgloss.Style

	// Title style for headers.
	Title lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Warning style for warnings.
	Warning lipgloss.Style

	// Success style for success messages.
	Success lipgloss.Style
}

// NewStyles creates styles from a theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme, color bool) *Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return &Styles{Prefix: plain, Title: plain, Muted: plain, Error: plain, Warning: plain, Success: plain}
	}
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		Prefix: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Error),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),
	}
}

// Severity returns the style for a diagnostic severity.
func (s *Styles) Severity(sev domain.Severity) lipgloss.Style {
	switch sev {
	case domain.SeverityError:
		return s.Error
	case domain.SeverityWarning:
		return s.Warning
	default:
		return s.Muted
	}
}

// Outcome returns the style for a file outcome status.
func (s *Styles) Outcome(status domain.OutcomeStatus) lipgloss.Style {
	switch status {
	case domain.OutcomeFailed:
		return s.Error
	case domain.OutcomeCreated, domain.OutcomeRewritten:
		return s.Success
	default:
		return s.Muted
	}
}
