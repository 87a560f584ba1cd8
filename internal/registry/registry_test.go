package registry

import (
	"testing"
	"time"

	"github.com/stockline/herdctl/internal/form"
)

// Every registered definition must compile into a working wizard:
// schemas, step gates and confirmation gates are all authoring-time
// checked, so a bad rule set fails here rather than in front of a user.
func TestDefinitionsCompile(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			def, err := Lookup(name)
			if err != nil {
				t.Fatalf("Lookup(%q) error = %v", name, err)
			}
			w, err := form.NewWizard(def, form.WizardDeps{
				User:          form.User{ID: "u-1", Name: "Test User", Role: "manager"},
				VerifyTimeout: time.Second,
			})
			if err != nil {
				t.Fatalf("NewWizard(%q) error = %v", name, err)
			}
			if len(w.Controller.Steps()) < 2 {
				t.Errorf("wizard %q has %d steps, want at least 2", name, len(w.Controller.Steps()))
			}
			if def.SubmitPath == "" {
				t.Errorf("wizard %q has no submit path", name)
			}
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("goat"); err == nil {
		t.Error("Lookup of unknown wizard should fail")
	}
}

func TestPigOriginRules(t *testing.T) {
	def := Pig()
	w, err := form.NewWizard(def, form.WizardDeps{VerifyTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewWizard() error = %v", err)
	}

	w.Record.Set("originType", "born")
	req := w.Schema.RequiredFields(w.Record)
	if req["originDetail"] || req["sourceFarm"] {
		t.Error("born pigs need neither origin detail nor source farm")
	}

	w.Record.Set("originType", "other")
	req = w.Schema.RequiredFields(w.Record)
	if !req["originDetail"] {
		t.Error("originDetail must be required for origin \"other\"")
	}

	w.Record.Set("originType", "purchased")
	req = w.Schema.RequiredFields(w.Record)
	if !req["sourceFarm"] {
		t.Error("sourceFarm must be required for purchased pigs")
	}
}

func TestSicknessStampsActingUser(t *testing.T) {
	def := Sickness()
	w, err := form.NewWizard(def, form.WizardDeps{
		User:          form.User{ID: "u-7", Name: "Maria Vos", Role: "veterinarian"},
		VerifyTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("NewWizard() error = %v", err)
	}
	if w.Record.String("detectedBy") != "u-7" {
		t.Errorf("detectedBy = %q, want stamped acting user", w.Record.String("detectedBy"))
	}
}

func TestSicknessCullingConfirmation(t *testing.T) {
	def := Sickness()
	w, err := form.NewWizard(def, form.WizardDeps{VerifyTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewWizard() error = %v", err)
	}

	w.Record.Set("severity", "serious")
	if w.Orchestrator.RequiresConfirmation() {
		t.Error("serious cases need no confirmation")
	}
	w.Record.Set("severity", "culling")
	if !w.Orchestrator.RequiresConfirmation() {
		t.Error("culling must require explicit confirmation")
	}
}

func TestDeriveFarmCode(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Hoeve De Grote Beek", "hoeve-de-grote-beek"},
		{"Sørgården Vest", "sorgarden-vest"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := DeriveFarmCode(tt.name); got != tt.want {
			t.Errorf("DeriveFarmCode(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
