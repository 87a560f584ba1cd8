package form

import (
	"fmt"
	"time"
)

// Definition is a complete wizard rule set: the schema, the step layout,
// the optional confirmation gate and the backend endpoint. The rule sets
// for each herdctl wizard live in internal/registry.
type Definition struct {
	// Name is the wizard kind, used for draft keys and audit subjects.
	Name  string
	Title string

	Fields []Descriptor
	Steps  []Step

	Confirm *ConfirmationGate

	// SubmitPath is the backend mutation endpoint, e.g. "/v1/pigs".
	SubmitPath string

	// Stamp fills audit fields from the acting-user context when the
	// wizard starts. May be nil.
	Stamp func(*Record, User)
}

// Wizard is a fully wired wizard instance: one record, its validator,
// navigation controller and submission orchestrator. Build one per
// flow invocation and discard it when the flow ends.
type Wizard struct {
	Def          *Definition
	Schema       *Schema
	Record       *Record
	Validator    *Validator
	Controller   *Controller
	Orchestrator *Orchestrator
}

// WizardDeps carries the boundary implementations a wizard consumes.
type WizardDeps struct {
	Checker       UniqueChecker
	Submitter     Submitter
	User          User
	VerifyTimeout time.Duration
}

// NewWizard compiles the definition and wires a fresh wizard instance.
func NewWizard(def *Definition, deps WizardDeps) (*Wizard, error) {
	schema, err := NewSchema(def.Fields)
	if err != nil {
		return nil, fmt.Errorf("wizard %q: %w", def.Name, err)
	}
	record, err := NewRecord(schema)
	if err != nil {
		return nil, fmt.Errorf("wizard %q: %w", def.Name, err)
	}
	if def.Stamp != nil {
		def.Stamp(record, deps.User)
	}
	validator := NewValidator(schema, deps.Checker, deps.VerifyTimeout)
	controller, err := NewController(schema, def.Steps, validator, record)
	if err != nil {
		return nil, fmt.Errorf("wizard %q: %w", def.Name, err)
	}
	orchestrator, err := NewOrchestrator(schema, def.Steps, validator, record, deps.Submitter, def.Confirm)
	if err != nil {
		return nil, fmt.Errorf("wizard %q: %w", def.Name, err)
	}
	return &Wizard{
		Def:          def,
		Schema:       schema,
		Record:       record,
		Validator:    validator,
		Controller:   controller,
		Orchestrator: orchestrator,
	}, nil
}
