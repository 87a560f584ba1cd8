package form

import (
	"fmt"

	"github.com/rs/xid"
)

// Entry is one committed item of a collection field. Entries carry a
// stable identity so duplicates are distinguishable and independently
// removable.
type Entry struct {
	ID     string         `json:"id"`
	Values map[string]any `json:"values"`
}

// CollectionEditor manages the ordered, keyed list of entries attached to
// one collection field. New entries are composed in a staging draft that
// only joins the committed list when every entry field validates; there
// is no partial commit.
type CollectionEditor struct {
	schema  *Schema
	entries []Entry
	draft   *Entry
}

// NewCollectionEditor builds an editor over the entry field descriptors.
// Entry fields support synchronous rules only; NewSchema rejects unique
// checks inside entries.
func NewCollectionEditor(entryFields []Descriptor) (*CollectionEditor, error) {
	schema, err := NewSchema(entryFields)
	if err != nil {
		return nil, err
	}
	return &CollectionEditor{schema: schema}, nil
}

// EntrySchema returns the schema governing entry fields.
func (c *CollectionEditor) EntrySchema() *Schema {
	return c.schema
}

// StartDraft begins composing a new entry. Any existing draft is
// replaced.
func (c *CollectionEditor) StartDraft() {
	c.draft = &Entry{
		ID:     xid.New().String(),
		Values: make(map[string]any),
	}
}

// Drafting reports whether a draft is in progress.
func (c *CollectionEditor) Drafting() bool {
	return c.draft != nil
}

// EditDraft sets one field of the draft entry.
func (c *CollectionEditor) EditDraft(field string, value any) error {
	if c.draft == nil {
		return fmt.Errorf("no draft in progress")
	}
	if c.schema.Descriptor(field) == nil {
		return fmt.Errorf("unknown entry field %q", field)
	}
	c.draft.Values[field] = value
	return nil
}

// DraftValue returns one field of the draft entry (nil without a draft).
func (c *CollectionEditor) DraftValue(field string) any {
	if c.draft == nil {
		return nil
	}
	return c.draft.Values[field]
}

// ValidateDraft validates every field of the draft entry against the
// entry schema and returns the outcomes by field name.
func (c *CollectionEditor) ValidateDraft() map[string]Outcome {
	if c.draft == nil {
		return nil
	}
	return c.validateEntry(c.draft.Values)
}

// CommitDraft appends the draft to the committed list if every entry
// field is valid. On failure it returns the failing field names and the
// draft stays in place for correction; the committed list is untouched.
func (c *CollectionEditor) CommitDraft() ([]string, error) {
	if c.draft == nil {
		return nil, fmt.Errorf("no draft in progress")
	}
	outcomes := c.validateEntry(c.draft.Values)
	var failed []string
	for _, d := range c.schema.Fields() {
		if outcomes[d.Name].Blocks() {
			failed = append(failed, d.Name)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	c.entries = append(c.entries, *c.draft)
	c.draft = nil
	return nil, nil
}

// DiscardDraft drops the draft without touching the committed list.
func (c *CollectionEditor) DiscardDraft() {
	c.draft = nil
}

// RemoveEntry removes the committed entry at index. Removal is by
// position, not value equality.
func (c *CollectionEditor) RemoveEntry(index int) error {
	if index < 0 || index >= len(c.entries) {
		return fmt.Errorf("entry index %d out of range", index)
	}
	c.entries = append(c.entries[:index], c.entries[index+1:]...)
	return nil
}

// Entries returns the committed entries in order.
func (c *CollectionEditor) Entries() []Entry {
	return c.entries
}

// Len returns the number of committed entries.
func (c *CollectionEditor) Len() int {
	return len(c.entries)
}

// InvalidEntries re-validates every committed entry and returns the
// indexes that no longer pass. Committed entries can go stale (e.g. a
// referenced option disappears), so aggregate validity is rechecked
// before submission rather than trusted from commit time.
func (c *CollectionEditor) InvalidEntries() []int {
	var invalid []int
	for i, e := range c.entries {
		outcomes := c.validateEntry(e.Values)
		for _, o := range outcomes {
			if o.Blocks() {
				invalid = append(invalid, i)
				break
			}
		}
	}
	return invalid
}

func (c *CollectionEditor) validateEntry(values map[string]any) map[string]Outcome {
	rec := &Record{schema: c.schema, values: values, collections: map[string]*CollectionEditor{}}
	required := c.schema.RequiredFields(rec)
	outcomes := make(map[string]Outcome, len(c.schema.Fields()))
	for _, d := range c.schema.Fields() {
		outcomes[d.Name] = validateSync(&d, values[d.Name], required[d.Name])
	}
	return outcomes
}

// replace swaps the committed entries wholesale (draft restore).
func (c *CollectionEditor) replace(entries []Entry) {
	c.entries = entries
	c.draft = nil
}
