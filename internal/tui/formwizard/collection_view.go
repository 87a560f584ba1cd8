package formwizard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/stockline/herdctl/internal/form"
	"github.com/stockline/herdctl/internal/tui/wizard"
)

// collectionClosedMsg is sent when the collection overlay is dismissed.
type collectionClosedMsg struct {
	Field string
}

// collectionView is the overlay for editing one collection field. It has
// two modes: a list of committed entries, and a draft form for a new
// entry. Drafts only reach the committed list through an atomic commit;
// duplicates are allowed and removable individually.
type collectionView struct {
	field  string
	label  string
	editor *form.CollectionEditor

	// List mode state
	selectedIdx int

	// Draft mode state
	entryFields []form.Descriptor
	inputs      []textinput.Model
	focusIdx    int
	draftErrs   map[string]form.Outcome

	width  int
	height int
}

// newCollectionView opens the overlay over the given editor.
func newCollectionView(field, label string, editor *form.CollectionEditor, entryFields []form.Descriptor) *collectionView {
	return &collectionView{
		field:       field,
		label:       label,
		editor:      editor,
		entryFields: entryFields,
		width:       60,
		height:      16,
	}
}

// SetSize updates the available dimensions.
func (v *collectionView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// startDraft switches to draft mode with fresh inputs.
func (v *collectionView) startDraft() tea.Cmd {
	v.editor.StartDraft()
	v.inputs = make([]textinput.Model, len(v.entryFields))
	for i, d := range v.entryFields {
		v.inputs[i] = newFieldInput(d)
		v.inputs[i].SetWidth(v.width - 22)
	}
	v.focusIdx = 0
	v.draftErrs = nil
	return v.inputs[0].Focus()
}

// Update handles overlay input. Returns the command to run plus whether
// the overlay should close.
func (v *collectionView) Update(msg tea.Msg) (tea.Cmd, bool) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return v.forwardToFocused(msg), false
	}

	if v.editor.Drafting() {
		return v.updateDraft(key)
	}
	return v.updateList(key)
}

// updateList handles keys in entry-list mode.
func (v *collectionView) updateList(key tea.KeyPressMsg) (tea.Cmd, bool) {
	switch key.String() {
	case "esc", "q":
		field := v.field
		return func() tea.Msg { return collectionClosedMsg{Field: field} }, true
	case "a", "enter":
		return v.startDraft(), false
	case "up", "k":
		if v.selectedIdx > 0 {
			v.selectedIdx--
		}
	case "down", "j":
		if v.selectedIdx < v.editor.Len()-1 {
			v.selectedIdx++
		}
	case "d", "x":
		if v.editor.Len() > 0 {
			_ = v.editor.RemoveEntry(v.selectedIdx)
			if v.selectedIdx >= v.editor.Len() && v.selectedIdx > 0 {
				v.selectedIdx--
			}
		}
	}
	return nil, false
}

// updateDraft handles keys in draft-form mode.
func (v *collectionView) updateDraft(key tea.KeyPressMsg) (tea.Cmd, bool) {
	switch key.String() {
	case "esc":
		// Discarding the draft never touches committed entries.
		v.editor.DiscardDraft()
		v.draftErrs = nil
		return nil, false
	case "tab", "down":
		return v.focusDraftField(v.focusIdx + 1), false
	case "shift+tab", "up":
		return v.focusDraftField(v.focusIdx - 1), false
	case "enter":
		v.syncDraft()
		failed, err := v.editor.CommitDraft()
		if err != nil {
			return nil, false
		}
		if len(failed) > 0 {
			v.draftErrs = v.editor.ValidateDraft()
			return nil, false
		}
		v.draftErrs = nil
		v.selectedIdx = v.editor.Len() - 1
		return nil, false
	}

	// Editing keys go to the focused input.
	if v.focusIdx >= 0 && v.focusIdx < len(v.inputs) {
		var cmd tea.Cmd
		v.inputs[v.focusIdx], cmd = v.inputs[v.focusIdx].Update(key)
		v.syncDraft()
		return cmd, false
	}
	return nil, false
}

// focusDraftField moves draft focus with wrapping.
func (v *collectionView) focusDraftField(idx int) tea.Cmd {
	if len(v.inputs) == 0 {
		return nil
	}
	if idx < 0 {
		idx = len(v.inputs) - 1
	}
	if idx >= len(v.inputs) {
		idx = 0
	}
	v.inputs[v.focusIdx].Blur()
	v.focusIdx = idx
	return v.inputs[idx].Focus()
}

// syncDraft pushes current input text into the draft.
func (v *collectionView) syncDraft() {
	for i, d := range v.entryFields {
		_ = v.editor.EditDraft(d.Name, typedValue(&v.entryFields[i], v.inputs[i].Value()))
	}
}

// forwardToFocused sends non-key messages (cursor blinks) to the focused
// draft input.
func (v *collectionView) forwardToFocused(msg tea.Msg) tea.Cmd {
	if !v.editor.Drafting() || v.focusIdx < 0 || v.focusIdx >= len(v.inputs) {
		return nil
	}
	var cmd tea.Cmd
	v.inputs[v.focusIdx], cmd = v.inputs[v.focusIdx].Update(msg)
	return cmd
}

// View renders the overlay.
func (v *collectionView) View() string {
	if v.editor.Drafting() {
		return v.viewDraft()
	}
	return v.viewList()
}

func (v *collectionView) viewList() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#cba6f7")).
		MarginBottom(1).
		Render(v.label)
	b.WriteString(title)
	b.WriteString("\n")

	entries := v.editor.Entries()
	invalid := map[int]bool{}
	for _, i := range v.editor.InvalidEntries() {
		invalid[i] = true
	}

	if len(entries) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8")).Render("No entries yet"))
		b.WriteString("\n")
	}

	selStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#1e1e2e")).Background(lipgloss.Color("#b4befe"))
	rowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4"))
	badStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))

	for i, e := range entries {
		line := fmt.Sprintf("%d. %s", i+1, v.entrySummary(e))
		if invalid[i] {
			line += "  " + badStyle.Render("✗ invalid")
		}
		if i == v.selectedIdx {
			b.WriteString(selStyle.Render("▸ " + line))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(wizard.RenderHintBar("a", "add", "d", "remove", "↑↓", "navigate", "esc", "done"))
	return b.String()
}

func (v *collectionView) viewDraft() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#cba6f7")).
		MarginBottom(1).
		Render("New entry")
	b.WriteString(title)
	b.WriteString("\n")

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8")).Width(18)
	for i, d := range v.entryFields {
		b.WriteString(labelStyle.Render(d.Label))
		b.WriteString(" ")
		b.WriteString(v.inputs[i].View())
		if v.draftErrs != nil {
			if o, ok := v.draftErrs[d.Name]; ok && o.Blocks() {
				b.WriteString("  " + outcomeMark(o))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(wizard.RenderHintBar("tab", "next field", "enter", "save entry", "esc", "discard"))
	return b.String()
}

// entrySummary renders one committed entry as a short line of its
// populated values.
func (v *collectionView) entrySummary(e form.Entry) string {
	parts := make([]string, 0, len(v.entryFields))
	for _, d := range v.entryFields {
		val, ok := e.Values[d.Name]
		if !ok || val == nil || fmt.Sprint(val) == "" {
			continue
		}
		parts = append(parts, fmt.Sprint(val))
		if len(parts) == 3 {
			break
		}
	}
	if len(parts) == 0 {
		return "(empty)"
	}
	return strings.Join(parts, ", ")
}
