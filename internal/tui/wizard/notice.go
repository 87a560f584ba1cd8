package wizard

import (
	"image/color"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/stockline/herdctl/internal/form"
)

// NoticeDismissMsg is sent when a notice's display window has elapsed.
// Seq identifies the showing it belongs to; stale dismissals are ignored
// so a newer notice keeps its full window.
type NoticeDismissMsg struct {
	Seq uint64
}

// ShowNoticeMsg asks the owning model to display a notice.
type ShowNoticeMsg struct {
	Level    form.NotifyLevel
	Text     string
	Duration time.Duration
}

// Notice is a transient notification banner. A new notice replaces the
// current one and restarts the timer; dismissal never blocks input.
type Notice struct {
	message string
	level   form.NotifyLevel
	visible bool
	seq     uint64
}

// NewNotice creates a hidden notice.
func NewNotice() *Notice {
	return &Notice{}
}

// Show displays a notice and schedules its dismissal.
func (n *Notice) Show(level form.NotifyLevel, msg string, duration time.Duration) tea.Cmd {
	n.message = msg
	n.level = level
	n.visible = true
	n.seq++
	seq := n.seq
	if duration <= 0 {
		duration = 4 * time.Second
	}
	return tea.Tick(duration, func(time.Time) tea.Msg {
		return NoticeDismissMsg{Seq: seq}
	})
}

// Update handles dismissal ticks.
func (n *Notice) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NoticeDismissMsg:
		if msg.Seq == n.seq {
			n.visible = false
			n.message = ""
		}
	}
	return nil
}

// IsVisible returns whether the notice is currently showing.
func (n *Notice) IsVisible() bool {
	return n.visible
}

// Message returns the current notice text (empty if hidden).
func (n *Notice) Message() string {
	if !n.visible {
		return ""
	}
	return n.message
}

// Banner renders the notice as a single styled chip with no screen
// positioning, for embedding inside a modal. Empty when hidden.
func (n *Notice) Banner() string {
	if !n.visible || n.message == "" {
		return ""
	}
	fg, bg := n.colors()
	return lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Padding(0, 1).
		Bold(true).
		Render(n.message)
}

func (n *Notice) colors() (fg, bg color.Color) {
	switch n.level {
	case form.NotifySuccess:
		return colorBase, lipgloss.Color("#a6e3a1")
	case form.NotifyWarn:
		return colorBase, lipgloss.Color("#f9e2af")
	case form.NotifyError:
		return colorBase, lipgloss.Color("#f38ba8")
	default:
		return colorText, colorSurface0
	}
}

// View renders the notice aligned bottom-right within the given screen
// dimensions. Returns an empty string when hidden.
func (n *Notice) View(width, height int) string {
	if !n.visible || n.message == "" {
		return ""
	}

	fg, bg := n.colors()

	style := lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Padding(0, 1).
		Bold(true)

	content := style.Render(n.message)
	if lipgloss.Width(content) > width-2 {
		content = style.Width(width - 2).Render(n.message)
	}

	verticalPadding := height - 2
	if verticalPadding < 0 {
		verticalPadding = 0
	}

	var result string
	for i := 0; i < verticalPadding; i++ {
		result += "\n"
	}
	result += lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Right).
		PaddingRight(1).
		Render(content)

	return result
}
