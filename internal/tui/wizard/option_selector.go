package wizard

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/stockline/herdctl/internal/form"
)

// OptionsLoadedMsg carries fetched reference data for a select field.
type OptionsLoadedMsg struct {
	Field   string
	Options []form.Option
}

// OptionsErrorMsg is sent when the reference data fetch fails.
type OptionsErrorMsg struct {
	Field string
	Err   error
}

// OptionChosenMsg is sent when the user picks an option.
type OptionChosenMsg struct {
	Field  string
	Option form.Option
}

// OptionSelector is a filterable picker over backend reference data
// (breeds, medications, regions). An empty option set is a valid state,
// not an error.
type OptionSelector struct {
	field       string
	allOptions  []form.Option
	filtered    []form.Option
	selectedIdx int
	searchInput textinput.Model
	loading     bool
	errText     string
	spinner     spinner.Model
	width       int
	height      int
}

// NewOptionSelector creates a selector for the named field.
func NewOptionSelector(field string) *OptionSelector {
	input := textinput.New()
	input.Placeholder = "Type to filter..."
	input.Prompt = "Search: "

	styles := textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(colorText),
			Placeholder: lipgloss.NewStyle().Foreground(colorSubtext0),
			Prompt:      lipgloss.NewStyle().Foreground(colorLavender),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(colorSubtext0),
			Placeholder: lipgloss.NewStyle().Foreground(colorSubtext0),
			Prompt:      lipgloss.NewStyle().Foreground(colorOverlay0),
		},
		Cursor: textinput.CursorStyle{
			Color: colorPrimary,
			Shape: tea.CursorBar,
			Blink: true,
		},
	}
	input.SetStyles(styles)
	input.SetWidth(50)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return &OptionSelector{
		field:       field,
		searchInput: input,
		spinner:     s,
		loading:     true,
		width:       60,
		height:      10,
	}
}

// Init starts the spinner and focuses the filter input.
func (m *OptionSelector) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.searchInput.Focus())
}

// FetchCmd returns a command that loads options for this selector's
// field through the given fetcher.
func (m *OptionSelector) FetchCmd(ctx context.Context, fetcher form.OptionFetcher, kind string, params map[string]string) tea.Cmd {
	field := m.field
	return func() tea.Msg {
		opts, err := fetcher.FetchOptions(ctx, kind, params)
		if err != nil {
			return OptionsErrorMsg{Field: field, Err: err}
		}
		return OptionsLoadedMsg{Field: field, Options: opts}
	}
}

// SetSize updates the available dimensions.
func (m *OptionSelector) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.SetWidth(width - 10)
}

// Field returns the field this selector belongs to.
func (m *OptionSelector) Field() string {
	return m.field
}

// Update handles messages for the selector.
func (m *OptionSelector) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case OptionsLoadedMsg:
		if msg.Field != m.field {
			return nil
		}
		m.loading = false
		m.allOptions = msg.Options
		m.applyFilter()
		return nil

	case OptionsErrorMsg:
		if msg.Field != m.field {
			return nil
		}
		m.loading = false
		m.errText = msg.Err.Error()
		return nil

	case spinner.TickMsg:
		if !m.loading {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "ctrl+p":
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
			return nil
		case "down", "ctrl+n":
			if m.selectedIdx < len(m.filtered)-1 {
				m.selectedIdx++
			}
			return nil
		case "enter":
			if opt, ok := m.Selected(); ok {
				field := m.field
				return func() tea.Msg {
					return OptionChosenMsg{Field: field, Option: opt}
				}
			}
			return nil
		}

		// Remaining keys go to the filter input
		var cmd tea.Cmd
		before := m.searchInput.Value()
		m.searchInput, cmd = m.searchInput.Update(msg)
		if m.searchInput.Value() != before {
			m.applyFilter()
		}
		return cmd
	}

	return nil
}

// Selected returns the highlighted option.
func (m *OptionSelector) Selected() (form.Option, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.filtered) {
		return form.Option{}, false
	}
	return m.filtered[m.selectedIdx], true
}

// applyFilter recomputes the visible list from the search text.
func (m *OptionSelector) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.searchInput.Value()))
	if query == "" {
		m.filtered = m.allOptions
	} else {
		m.filtered = nil
		for _, opt := range m.allOptions {
			if strings.Contains(strings.ToLower(opt.Label), query) ||
				strings.Contains(strings.ToLower(opt.ID), query) {
				m.filtered = append(m.filtered, opt)
			}
		}
	}
	if m.selectedIdx >= len(m.filtered) {
		m.selectedIdx = len(m.filtered) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
}

// View renders the selector.
func (m *OptionSelector) View() string {
	if m.loading {
		return m.spinner.View() + " Loading options..."
	}

	if m.errText != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
		return errStyle.Render("Failed to load options: " + m.errText)
	}

	var b strings.Builder
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(colorSubtext0).Render("No matching options"))
		b.WriteString("\n")
	} else {
		// Window the list around the selection
		maxRows := m.height - 4
		if maxRows < 3 {
			maxRows = 3
		}
		start := 0
		if m.selectedIdx >= maxRows {
			start = m.selectedIdx - maxRows + 1
		}
		end := start + maxRows
		if end > len(m.filtered) {
			end = len(m.filtered)
		}

		selStyle := lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorLavender).
			Bold(true)
		rowStyle := lipgloss.NewStyle().Foreground(colorText)

		for i := start; i < end; i++ {
			label := m.filtered[i].Label
			if len(label) > m.width-4 {
				label = label[:m.width-7] + "..."
			}
			if i == m.selectedIdx {
				b.WriteString(selStyle.Render("▸ " + label))
			} else {
				b.WriteString(rowStyle.Render("  " + label))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(RenderHintBar("↑↓", "navigate", "enter", "select", "esc", "back"))
	return b.String()
}
