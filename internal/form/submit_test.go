package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeSubmitter counts remote mutations and returns a scripted outcome.
type fakeSubmitter struct {
	mu      sync.Mutex
	calls   int
	outcome *SubmitOutcome
	err     error
	block   chan struct{} // when set, Submit waits until closed
	lastPay map[string]any
}

func (f *fakeSubmitter) Submit(ctx context.Context, payload map[string]any) (*SubmitOutcome, error) {
	f.mu.Lock()
	f.calls++
	f.lastPay = payload
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newSicknessWizard(t *testing.T, sub Submitter, confirm *ConfirmationGate) *Wizard {
	t.Helper()
	def := &Definition{
		Name: "sickness",
		Fields: []Descriptor{
			{Name: "pig", Label: "Pig", Type: FieldText, Required: true},
			{Name: "severity", Label: "Severity", Type: FieldSelect, Required: true, Enum: []string{"mild", "serious", "culling"}},
			{Name: "treatments", Label: "Treatments", Type: FieldCollection, Required: true, Entry: treatmentFields()},
		},
		Steps: []Step{
			{Title: "Case", Fields: []string{"pig", "severity"}},
			{Title: "Treatments", Fields: []string{"treatments"}},
			{Title: "Review"},
		},
		Confirm:    confirm,
		SubmitPath: "/v1/sickness-cases",
	}
	w, err := NewWizard(def, WizardDeps{Submitter: sub, VerifyTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewWizard() error = %v", err)
	}
	return w
}

func fillSickness(t *testing.T, w *Wizard) {
	t.Helper()
	w.Record.Set("pig", "PIG-001")
	w.Record.Set("severity", "serious")
	ed := w.Record.Collection("treatments")
	ed.StartDraft()
	_ = ed.EditDraft("medication", "amoxicillin")
	_ = ed.EditDraft("dose", "5")
	_ = ed.EditDraft("route", "oral")
	if failed, err := ed.CommitDraft(); err != nil || failed != nil {
		t.Fatalf("CommitDraft() = %v, %v", failed, err)
	}
}

func TestSubmitSuccess(t *testing.T) {
	sub := &fakeSubmitter{outcome: &SubmitOutcome{OK: true, Entity: map[string]any{"id": "sc-1"}}}
	w := newSicknessWizard(t, sub, nil)
	fillSickness(t, w)

	out, err := w.Orchestrator.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !out.OK {
		t.Fatal("Submit() outcome should be success")
	}
	if !w.Orchestrator.Submitted() {
		t.Error("success must transition to submitted")
	}
	if sub.callCount() != 1 {
		t.Errorf("mutation calls = %d, want 1", sub.callCount())
	}
	if _, err := w.Orchestrator.Submit(context.Background()); !errors.Is(err, ErrSubmitted) {
		t.Errorf("submit after commit should return ErrSubmitted, got %v", err)
	}
}

func TestSubmitAbortsOnInvalidRecord(t *testing.T) {
	sub := &fakeSubmitter{outcome: &SubmitOutcome{OK: true}}
	w := newSicknessWizard(t, sub, nil)
	// severity left unset and collection empty.
	w.Record.Set("pig", "PIG-001")

	_, err := w.Orchestrator.Submit(context.Background())
	var blocked *BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("Submit() on invalid record should return BlockedError, got %v", err)
	}
	if sub.callCount() != 0 {
		t.Error("validation failure must not reach the remote authority")
	}
	if !w.Validator.Touched("severity") {
		t.Error("blocked submit must mark failing fields touched")
	}
}

// A user can navigate back and silently invalidate earlier data; the
// terminal transition re-validates everything, including committed
// collection entries.
func TestSubmitRevalidatesEverything(t *testing.T) {
	sub := &fakeSubmitter{outcome: &SubmitOutcome{OK: true}}
	w := newSicknessWizard(t, sub, nil)
	fillSickness(t, w)

	// Corrupt a committed entry after the fact.
	w.Record.Collection("treatments").Entries()[0].Values["route"] = "intravenous"

	if _, err := w.Orchestrator.Submit(context.Background()); err == nil {
		t.Fatal("stale committed entry must block submission")
	}
	if sub.callCount() != 0 {
		t.Error("no mutation may be dispatched for an invalid record")
	}
}

func TestNoDuplicateDispatch(t *testing.T) {
	block := make(chan struct{})
	sub := &fakeSubmitter{outcome: &SubmitOutcome{OK: true}, block: block}
	w := newSicknessWizard(t, sub, nil)
	fillSickness(t, w)

	o := w.Orchestrator
	if err := o.BeginDispatch(); err != nil {
		t.Fatalf("BeginDispatch() error = %v", err)
	}
	done := make(chan *SubmitOutcome, 1)
	go func() { done <- o.Dispatch(context.Background()) }()

	// Re-entrant submit while the first is in flight: ignored, not queued.
	if err := o.BeginDispatch(); !errors.Is(err, ErrInFlight) {
		t.Errorf("BeginDispatch() during flight = %v, want ErrInFlight", err)
	}

	close(block)
	o.FinishDispatch(<-done)

	if sub.callCount() != 1 {
		t.Errorf("mutation calls = %d, want exactly 1", sub.callCount())
	}
	if !o.Submitted() {
		t.Error("completed dispatch should commit the record")
	}
}

func TestBusinessRuleRejectionRouting(t *testing.T) {
	sub := &fakeSubmitter{outcome: &SubmitOutcome{
		OK:   false,
		Kind: KindBusinessRule,
		Details: []RejectionDetail{
			{Resource: "medication", ID: "med-7", Label: "Amoxicillin 250mg", Reason: "insufficient stock"},
		},
	}}
	w := newSicknessWizard(t, sub, nil)
	fillSickness(t, w)

	out, err := w.Orchestrator.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !out.BusinessRule() {
		t.Fatal("outcome must classify as business-rule rejection")
	}
	if len(out.Details) != 1 || out.Details[0].ID != "med-7" {
		t.Errorf("Details = %+v, want the reported missing item", out.Details)
	}
	// The record stays editable with user input intact.
	if w.Orchestrator.Submitted() {
		t.Error("business-rule rejection must not commit the record")
	}
	if w.Record.String("pig") != "PIG-001" {
		t.Error("original user input must survive the rejection")
	}
	if _, err := w.Orchestrator.Submit(context.Background()); err != nil {
		t.Errorf("record must remain submittable after rejection, got %v", err)
	}
}

func TestTransportErrorKeepsRecordEditable(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("dial tcp: connection refused")}
	w := newSicknessWizard(t, sub, nil)
	fillSickness(t, w)

	out, err := w.Orchestrator.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit() folds transport errors into the outcome, got err %v", err)
	}
	if out.OK || out.BusinessRule() {
		t.Fatalf("transport failure must classify as generic error, got %+v", out)
	}
	if w.Orchestrator.Submitted() || w.Orchestrator.InFlight() {
		t.Error("record must stay editable and the slot released")
	}
}

func TestConfirmationGate(t *testing.T) {
	confirm := &ConfirmationGate{
		When:    `severity == "culling"`,
		Title:   "Irreversible action",
		Message: "This registers the animal for culling.",
		Fields:  []string{"pig", "severity"},
	}
	sub := &fakeSubmitter{outcome: &SubmitOutcome{OK: true}}
	w := newSicknessWizard(t, sub, confirm)
	fillSickness(t, w)

	if w.Orchestrator.RequiresConfirmation() {
		t.Error("gate should not fire for severity \"serious\"")
	}

	w.Record.Set("severity", "culling")
	if !w.Orchestrator.RequiresConfirmation() {
		t.Error("gate must fire for severity \"culling\"")
	}
	// Nothing was dispatched by evaluating the gate; a cancel at the
	// modal leaves the record unchanged with zero mutation calls.
	if sub.callCount() != 0 {
		t.Errorf("mutation calls before explicit confirmation = %d, want 0", sub.callCount())
	}
}
