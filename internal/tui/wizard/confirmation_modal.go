package wizard

import (
	"charm.land/lipgloss/v2"
)

// ConfirmationModal is a Y/N modal shown before an action that needs an
// explicit human decision. It renders as an overlay; the owning model
// routes keys to it while visible.
type ConfirmationModal struct {
	title   string
	message string
	visible bool
}

// NewConfirmationModal creates a hidden confirmation modal.
func NewConfirmationModal() *ConfirmationModal {
	return &ConfirmationModal{}
}

// Show displays the modal with the given title and message.
func (m *ConfirmationModal) Show(title, message string) {
	m.title = title
	m.message = message
	m.visible = true
}

// Hide dismisses the modal.
func (m *ConfirmationModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is showing.
func (m *ConfirmationModal) IsVisible() bool {
	return m.visible
}

// Render renders the modal at the given width. Returns an empty string
// when hidden.
func (m *ConfirmationModal) Render(width int) string {
	if !m.visible {
		return ""
	}
	return RenderConfirmationModal(width, m.title, m.message)
}

// RenderConfirmationModal renders a standalone confirmation box with the
// standard warning chrome and Y/N/ESC hint.
func RenderConfirmationModal(width int, title, message string) string {
	if width <= 0 || width > 70 {
		width = 70
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#f9e2af")).
		MarginBottom(1)
	titleText := titleStyle.Render("⚠ " + title)

	messageStyle := lipgloss.NewStyle().
		Foreground(colorText).
		MarginBottom(1)
	messageText := messageStyle.Render(message)

	hint := RenderHintBar("y", "confirm", "n/esc", "cancel")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleText,
		messageText,
		"",
		hint,
	)

	boxStyle := lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#f9e2af"))

	return boxStyle.Render(content)
}
