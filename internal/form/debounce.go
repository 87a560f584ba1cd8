package form

import "time"

// Debouncer coalesces rapid edits to async-checked fields: only the last
// value within a quiet window triggers a remote check. It is clock-driven
// by the caller (the TUI ticks it; tests pass fixed times) so behavior is
// deterministic.
type Debouncer struct {
	window time.Duration
	items  map[string]debounceItem
}

type debounceItem struct {
	value    string
	deadline time.Time
}

// FieldValue is one stabilized field/value pair ready to be checked.
type FieldValue struct {
	Field string
	Value string
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = 400 * time.Millisecond
	}
	return &Debouncer{
		window: window,
		items:  make(map[string]debounceItem),
	}
}

// Touch records an edit, restarting the field's quiet window.
func (d *Debouncer) Touch(field, value string, now time.Time) {
	d.items[field] = debounceItem{value: value, deadline: now.Add(d.window)}
}

// Cancel drops any pending item for the field.
func (d *Debouncer) Cancel(field string) {
	delete(d.items, field)
}

// Due pops every field whose quiet window has elapsed. Each stabilized
// value is returned exactly once.
func (d *Debouncer) Due(now time.Time) []FieldValue {
	var due []FieldValue
	for field, item := range d.items {
		if !item.deadline.After(now) {
			due = append(due, FieldValue{Field: field, Value: item.value})
			delete(d.items, field)
		}
	}
	return due
}

// Waiting reports whether any field is still inside its quiet window.
func (d *Debouncer) Waiting() bool {
	return len(d.items) > 0
}
