package theme

import "charm.land/lipgloss/v2"

// Styles contains pre-built lipgloss styles shared across the TUI.
type Styles struct {
	HeaderTitle  lipgloss.Style
	FieldLabel   lipgloss.Style
	FieldError   lipgloss.Style
	FieldPending lipgloss.Style
	Hint         lipgloss.Style
}
