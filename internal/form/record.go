package form

import (
	"encoding/json"
	"fmt"
)

// Record is the single source of truth for the entity a wizard is
// building. It is owned exclusively by one wizard instance for its
// lifetime: created empty (or from an existing entity in edit mode),
// mutated by field edits and collection operations, and discarded when
// the wizard commits or unmounts.
type Record struct {
	schema      *Schema
	values      map[string]any
	collections map[string]*CollectionEditor
}

// NewRecord creates an empty record for the schema, with a collection
// editor attached to every collection field.
func NewRecord(schema *Schema) (*Record, error) {
	r := &Record{
		schema:      schema,
		values:      make(map[string]any),
		collections: make(map[string]*CollectionEditor),
	}
	for _, d := range schema.Fields() {
		if d.Type != FieldCollection {
			continue
		}
		ed, err := NewCollectionEditor(d.Entry)
		if err != nil {
			return nil, fmt.Errorf("collection %q: %w", d.Name, err)
		}
		r.collections[d.Name] = ed
	}
	return r, nil
}

// Set stores a field value.
func (r *Record) Set(name string, value any) {
	r.values[name] = value
}

// Get returns a field value, or nil if unset.
func (r *Record) Get(name string) any {
	return r.values[name]
}

// String returns a field value as a string ("" if unset or not a string).
func (r *Record) String(name string) string {
	s, _ := r.values[name].(string)
	return s
}

// Collection returns the editor for a collection field, or nil.
func (r *Record) Collection(name string) *CollectionEditor {
	return r.collections[name]
}

// Env builds the evaluation environment for rule predicates and step
// gates: every scalar value by field name, plus each collection as a
// slice of committed entry value maps (so gates can write e.g.
// `len(treatments) > 0`).
func (r *Record) Env() map[string]any {
	env := make(map[string]any, len(r.values)+len(r.collections))
	for k, v := range r.values {
		env[k] = v
	}
	for name, ed := range r.collections {
		entries := make([]map[string]any, 0, ed.Len())
		for _, e := range ed.Entries() {
			entries = append(entries, e.Values)
		}
		env[name] = entries
	}
	return env
}

// Payload builds the finalized record for submission: scalar values plus
// committed collection entries.
func (r *Record) Payload() map[string]any {
	payload := make(map[string]any, len(r.values)+len(r.collections))
	for k, v := range r.values {
		payload[k] = v
	}
	for name, ed := range r.collections {
		payload[name] = ed.Entries()
	}
	return payload
}

// recordSnapshot is the JSON shape used for draft autosave.
type recordSnapshot struct {
	Values      map[string]any     `json:"values"`
	Collections map[string][]Entry `json:"collections,omitempty"`
}

// Snapshot serializes the record (values and committed entries; a draft
// entry in progress is not part of the record and is not saved).
func (r *Record) Snapshot() ([]byte, error) {
	snap := recordSnapshot{
		Values:      r.values,
		Collections: make(map[string][]Entry, len(r.collections)),
	}
	for name, ed := range r.collections {
		snap.Collections[name] = ed.Entries()
	}
	return json.Marshal(snap)
}

// Restore replaces the record's contents from a snapshot produced by
// Snapshot. Unknown fields are dropped.
func (r *Record) Restore(data []byte) error {
	var snap recordSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decoding record snapshot: %w", err)
	}
	r.values = make(map[string]any)
	for k, v := range snap.Values {
		if r.schema.Descriptor(k) != nil {
			r.values[k] = v
		}
	}
	for name, entries := range snap.Collections {
		if ed, ok := r.collections[name]; ok {
			ed.replace(entries)
		}
	}
	return nil
}
