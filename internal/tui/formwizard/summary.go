package formwizard

import (
	"fmt"
	"strings"

	"charm.land/glamour/v2"

	"github.com/stockline/herdctl/internal/form"
)

// buildSummary renders the record as markdown for the review step: one
// row per populated field in schema order, collections as nested lists.
func buildSummary(def *form.Definition, rec *form.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", def.Title)

	for _, d := range def.Fields {
		if d.Type == form.FieldCollection {
			ed := rec.Collection(d.Name)
			if ed == nil || ed.Len() == 0 {
				continue
			}
			fmt.Fprintf(&b, "**%s**\n\n", d.Label)
			for _, e := range ed.Entries() {
				parts := make([]string, 0, len(d.Entry))
				for _, ef := range d.Entry {
					val, ok := e.Values[ef.Name]
					if !ok || val == nil || fmt.Sprint(val) == "" {
						continue
					}
					parts = append(parts, fmt.Sprintf("%s: %v", ef.Label, val))
				}
				fmt.Fprintf(&b, "- %s\n", strings.Join(parts, ", "))
			}
			b.WriteString("\n")
			continue
		}

		v := rec.Get(d.Name)
		if v == nil || fmt.Sprint(v) == "" {
			continue
		}
		display := fmt.Sprint(v)
		if bv, ok := v.(bool); ok {
			display = "no"
			if bv {
				display = "yes"
			}
		}
		fmt.Fprintf(&b, "- **%s:** %s\n", d.Label, display)
	}

	return b.String()
}

// renderMarkdown renders markdown with glamour, falling back to plain
// text if rendering fails.
func renderMarkdown(content string, width int) string {
	if width > 120 {
		width = 120
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimSuffix(rendered, "\n")
}
