package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ErrInFlight is returned when a submission is attempted while one is
// already dispatched. Re-entrant submits are ignored, never queued.
var ErrInFlight = errors.New("submission already in flight")

// ErrSubmitted is returned when the wizard has already committed.
var ErrSubmitted = errors.New("record already submitted")

// ConfirmationGate forces an explicit human confirmation between "submit
// pressed" and "mutation dispatched" when its predicate holds over the
// record (e.g. the action is irreversible).
type ConfirmationGate struct {
	When    string   // expr predicate over the record
	Title   string   // modal title
	Message string   // human-readable consequence description
	Fields  []string // consequential fields summarized in the modal
}

// Orchestrator owns the terminal transition of a wizard: full-record
// validation, the confirmation sub-flow, the single remote mutation, and
// classification of the result.
type Orchestrator struct {
	schema    *Schema
	steps     []Step
	validator *Validator
	record    *Record
	submitter Submitter

	confirm     *ConfirmationGate
	confirmProg *vm.Program

	inFlight  bool
	submitted bool
}

// NewOrchestrator wires the orchestrator; confirm may be nil when the
// wizard has no confirmation gate.
func NewOrchestrator(schema *Schema, steps []Step, validator *Validator, record *Record, submitter Submitter, confirm *ConfirmationGate) (*Orchestrator, error) {
	o := &Orchestrator{
		schema:    schema,
		steps:     steps,
		validator: validator,
		record:    record,
		submitter: submitter,
		confirm:   confirm,
	}
	if confirm != nil {
		program, err := expr.Compile(confirm.When, expr.AsBool(), expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("compiling confirmation gate %q: %w", confirm.When, err)
		}
		o.confirmProg = program
	}
	return o, nil
}

// ValidateAll re-validates the entire record: every step's fields and
// every committed collection entry, not just the current step. A user
// may have navigated back and silently invalidated earlier data. Returns
// a BlockedError (with touched fields and one summary) or nil.
func (o *Orchestrator) ValidateAll() *BlockedError {
	var blocked []string
	seen := make(map[string]bool)
	for _, step := range o.steps {
		for _, name := range step.Fields {
			if seen[name] {
				continue
			}
			seen[name] = true
			if o.validator.Validate(name, o.record).Blocks() {
				blocked = append(blocked, name)
			}
		}
	}
	// Fields outside any step (stamped audit fields) still count.
	for _, d := range o.schema.Fields() {
		if seen[d.Name] {
			continue
		}
		if o.validator.Validate(d.Name, o.record).Blocks() {
			blocked = append(blocked, d.Name)
		}
	}
	if len(blocked) == 0 {
		return nil
	}
	for _, name := range blocked {
		o.validator.Touch(name)
	}
	return &BlockedError{Fields: blocked, Summary: blockedSummary(o.schema, blocked)}
}

// RequiresConfirmation evaluates the confirmation gate against the live
// record. Evaluation errors fail closed: when in doubt, confirm.
func (o *Orchestrator) RequiresConfirmation() bool {
	if o.confirmProg == nil {
		return false
	}
	ok, err := evalBool(o.confirmProg, o.record.Env())
	if err != nil {
		return true
	}
	return ok
}

// Confirmation returns the gate definition for rendering the modal.
func (o *Orchestrator) Confirmation() *ConfirmationGate {
	return o.confirm
}

// BeginDispatch reserves the single submission slot. It fails when a
// dispatch is already in flight or the record has been committed; the
// caller ignores the attempt rather than queueing it. Call from the
// event loop before handing the actual call to a background task.
func (o *Orchestrator) BeginDispatch() error {
	if o.submitted {
		return ErrSubmitted
	}
	if o.inFlight {
		return ErrInFlight
	}
	o.inFlight = true
	return nil
}

// Dispatch performs the remote mutation for a slot reserved by
// BeginDispatch. Transport errors are folded into the generic-error
// outcome so callers branch on the outcome alone.
func (o *Orchestrator) Dispatch(ctx context.Context) *SubmitOutcome {
	out, err := o.submitter.Submit(ctx, o.record.Payload())
	if err != nil {
		return &SubmitOutcome{OK: false, Kind: KindError, Message: err.Error()}
	}
	return out
}

// FinishDispatch releases the submission slot and records a terminal
// commit on success. The record survives every failure untouched.
func (o *Orchestrator) FinishDispatch(out *SubmitOutcome) {
	o.inFlight = false
	if out != nil && out.OK {
		o.submitted = true
	}
}

// Submit runs the full pipeline synchronously for headless callers and
// tests: validate everything, reserve the slot, dispatch, finish.
// Callers that need the confirmation sub-flow check RequiresConfirmation
// first; Submit assumes any required confirmation was already given.
func (o *Orchestrator) Submit(ctx context.Context) (*SubmitOutcome, error) {
	if blocked := o.ValidateAll(); blocked != nil {
		return nil, blocked
	}
	if err := o.BeginDispatch(); err != nil {
		return nil, err
	}
	out := o.Dispatch(ctx)
	o.FinishDispatch(out)
	return out, nil
}

// InFlight reports whether a dispatch is pending.
func (o *Orchestrator) InFlight() bool {
	return o.inFlight
}

// Submitted reports whether the record has been committed.
func (o *Orchestrator) Submitted() bool {
	return o.submitted
}
