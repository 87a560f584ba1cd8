package form

import (
	"strings"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

// originFields is the canonical conditional-requiredness shape: detail is
// required exactly while origin is "other".
func originFields() []Descriptor {
	return []Descriptor{
		{Name: "code", Label: "Code", Type: FieldText, Required: true, UniqueKind: "pig_code"},
		{Name: "originType", Label: "Origin", Type: FieldSelect, Required: true, Enum: []string{"born", "purchased", "other"}},
		{
			Name: "originDetail", Label: "Origin detail", Type: FieldText,
			Rules: []ConditionalRule{
				{When: `originType == "other"`, Fields: []string{"originType"}, Required: boolPtr(true)},
			},
		},
	}
}

func TestRequiredFieldsConditional(t *testing.T) {
	schema, err := NewSchema(originFields())
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	rec, err := NewRecord(schema)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}

	rec.Set("originType", "other")
	required := schema.RequiredFields(rec)
	if !required["originDetail"] {
		t.Error("originDetail should be required while originType is \"other\"")
	}

	// Requiredness must drop the instant the predicate stops matching.
	rec.Set("originType", "born")
	required = schema.RequiredFields(rec)
	if required["originDetail"] {
		t.Error("originDetail should be optional under originType \"born\"")
	}
	if !required["code"] || !required["originType"] {
		t.Error("base requiredness should survive rule evaluation")
	}
}

func TestRequiredFieldsSpecificityWins(t *testing.T) {
	fields := []Descriptor{
		{Name: "originType", Type: FieldSelect, Enum: []string{"born", "purchased", "other"}},
		{Name: "imported", Type: FieldBool},
		{
			Name: "sourceFarm", Type: FieldText,
			Rules: []ConditionalRule{
				// Broad rule: required for any purchase.
				{When: `originType == "purchased"`, Fields: []string{"originType"}, Required: boolPtr(true)},
				// Narrower rule: a domestic purchase does not need it.
				{When: `originType == "purchased" && imported == false`, Fields: []string{"originType", "imported"}, Required: boolPtr(false)},
			},
		},
	}
	schema, err := NewSchema(fields)
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	rec, _ := NewRecord(schema)

	rec.Set("originType", "purchased")
	rec.Set("imported", true)
	if !schema.RequiredFields(rec)["sourceFarm"] {
		t.Error("sourceFarm should be required for imported purchases")
	}

	rec.Set("imported", false)
	if schema.RequiredFields(rec)["sourceFarm"] {
		t.Error("narrower rule should win: domestic purchase does not require sourceFarm")
	}
}

func TestNewSchemaRejectsAmbiguousRules(t *testing.T) {
	fields := []Descriptor{
		{Name: "a", Type: FieldText},
		{Name: "b", Type: FieldText},
		{
			Name: "target", Type: FieldText,
			Rules: []ConditionalRule{
				{When: `a == "x"`, Fields: []string{"a"}, Required: boolPtr(true)},
				{When: `b == "y"`, Fields: []string{"b"}, Required: boolPtr(false)},
			},
		},
	}
	_, err := NewSchema(fields)
	if err == nil {
		t.Fatal("NewSchema() should reject equal-specificity rules with conflicting requiredness")
	}
	if !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("error should name the ambiguity, got: %v", err)
	}
}

func TestNewSchemaRejectsAuthoringErrors(t *testing.T) {
	tests := []struct {
		name   string
		fields []Descriptor
	}{
		{
			name: "duplicate field",
			fields: []Descriptor{
				{Name: "code", Type: FieldText},
				{Name: "code", Type: FieldText},
			},
		},
		{
			name: "empty read set",
			fields: []Descriptor{
				{Name: "a", Type: FieldText, Rules: []ConditionalRule{{When: `1 == 1`, Required: boolPtr(true)}}},
			},
		},
		{
			name: "bad predicate",
			fields: []Descriptor{
				{Name: "a", Type: FieldText, Rules: []ConditionalRule{{When: `((`, Fields: []string{"a"}, Required: boolPtr(true)}}},
			},
		},
		{
			name: "unique check inside collection entry",
			fields: []Descriptor{
				{Name: "treatments", Type: FieldCollection, Entry: []Descriptor{
					{Name: "medication", Type: FieldText, UniqueKind: "medication"},
				}},
			},
		},
		{
			name: "collection without entry descriptors",
			fields: []Descriptor{
				{Name: "treatments", Type: FieldCollection},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSchema(tt.fields); err == nil {
				t.Error("NewSchema() should have failed")
			}
		})
	}
}

func TestRuleReads(t *testing.T) {
	schema, err := NewSchema(originFields())
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	if !schema.RuleReads("originType") {
		t.Error("originType is read by a rule")
	}
	if schema.RuleReads("code") {
		t.Error("code is not read by any rule")
	}
}
