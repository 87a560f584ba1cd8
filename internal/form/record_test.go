package form

import (
	"testing"
)

func TestRecordSnapshotRestore(t *testing.T) {
	fields := []Descriptor{
		{Name: "pig", Type: FieldText, Required: true},
		{Name: "notes", Type: FieldText},
		{Name: "treatments", Type: FieldCollection, Entry: treatmentFields()},
	}
	schema, err := NewSchema(fields)
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	rec, err := NewRecord(schema)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}

	rec.Set("pig", "PIG-001")
	rec.Set("notes", "lethargic since monday")
	ed := rec.Collection("treatments")
	ed.StartDraft()
	_ = ed.EditDraft("medication", "amoxicillin")
	_ = ed.EditDraft("dose", "5")
	_ = ed.EditDraft("route", "oral")
	if failed, err := ed.CommitDraft(); err != nil || failed != nil {
		t.Fatalf("CommitDraft() = %v, %v", failed, err)
	}

	// An uncommitted draft is not part of the record and must not be saved.
	ed.StartDraft()
	_ = ed.EditDraft("medication", "half-typed")

	data, err := rec.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	restored, err := NewRecord(schema)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	if err := restored.Restore(data); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if restored.String("pig") != "PIG-001" {
		t.Errorf("pig = %q, want PIG-001", restored.String("pig"))
	}
	red := restored.Collection("treatments")
	if red.Len() != 1 {
		t.Fatalf("restored entries = %d, want 1", red.Len())
	}
	if red.Entries()[0].Values["medication"] != "amoxicillin" {
		t.Errorf("restored entry = %+v", red.Entries()[0].Values)
	}
	if red.Drafting() {
		t.Error("drafts must not survive snapshot/restore")
	}
}

func TestRestoreDropsUnknownFields(t *testing.T) {
	schema, _ := NewSchema([]Descriptor{{Name: "pig", Type: FieldText}})
	rec, _ := NewRecord(schema)

	data := []byte(`{"values":{"pig":"PIG-001","injected":"boo"}}`)
	if err := rec.Restore(data); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if rec.Get("injected") != nil {
		t.Error("unknown fields must be dropped on restore")
	}
}

func TestRecordEnvExposesCollections(t *testing.T) {
	fields := []Descriptor{
		{Name: "pig", Type: FieldText},
		{Name: "treatments", Type: FieldCollection, Entry: treatmentFields()},
	}
	schema, _ := NewSchema(fields)
	rec, _ := NewRecord(schema)
	rec.Set("pig", "PIG-001")

	env := rec.Env()
	if env["pig"] != "PIG-001" {
		t.Errorf("env pig = %v", env["pig"])
	}
	entries, ok := env["treatments"].([]map[string]any)
	if !ok {
		t.Fatalf("treatments env type = %T, want []map[string]any", env["treatments"])
	}
	if len(entries) != 0 {
		t.Errorf("entries = %v, want empty", entries)
	}
}
