package formwizard

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/stockline/herdctl/internal/form"
)

// newFieldInput builds a text input for a scalar field with a
// type-appropriate placeholder.
func newFieldInput(d form.Descriptor) textinput.Model {
	input := textinput.New()
	input.Prompt = ""

	switch d.Type {
	case form.FieldDate:
		input.Placeholder = form.DateLayout
	case form.FieldInt:
		input.Placeholder = "whole number"
	case form.FieldFloat:
		if d.HasBounds {
			input.Placeholder = fmt.Sprintf("%g – %g", d.Min, d.Max)
		} else {
			input.Placeholder = "number"
		}
	case form.FieldSelect:
		if len(d.Enum) > 0 {
			input.Placeholder = strings.Join(d.Enum, " / ")
		}
	}

	styles := textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086")),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("#b4befe")),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8")),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086")),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086")),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color("#cba6f7"),
			Shape: tea.CursorBar,
			Blink: true,
		},
	}
	input.SetStyles(styles)
	input.SetWidth(40)
	return input
}

// typedValue converts raw input text into the value stored on the
// record. Numbers are stored typed when they parse so gate and rule
// predicates can compare them; unparseable text is stored raw and left
// for validation to report.
func typedValue(d *form.Descriptor, raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	switch d.Type {
	case form.FieldInt:
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return n
		}
	case form.FieldFloat:
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	}
	return raw
}

// displayValue renders a stored value for read-only rows.
func displayValue(rec *form.Record, d *form.Descriptor) string {
	if d.Type == form.FieldCollection {
		ed := rec.Collection(d.Name)
		if ed == nil {
			return "0 entries"
		}
		n := ed.Len()
		if n == 1 {
			return "1 entry"
		}
		return fmt.Sprintf("%d entries", n)
	}
	v := rec.Get(d.Name)
	if v == nil {
		return ""
	}
	if b, ok := v.(bool); ok {
		if b {
			return "yes"
		}
		return "no"
	}
	return fmt.Sprint(v)
}

// outcomeMark renders the inline validity marker for a field row.
func outcomeMark(o form.Outcome) string {
	switch o.Status {
	case form.StatusPending:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af")).Italic(true).Render("… checking")
	case form.StatusInvalid:
		if o.Unverifiable {
			return lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af")).Render("⚠ " + o.Reason)
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Render("✗ " + o.Reason)
	}
	return ""
}
