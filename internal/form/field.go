package form

import (
	"context"
	"time"
)

// FieldType is the kind of value a field holds.
type FieldType int

const (
	FieldText FieldType = iota
	FieldInt
	FieldFloat
	FieldBool
	FieldDate       // stored as string in DateLayout
	FieldSelect     // one of Enum, or of options fetched via OptionKind
	FieldCollection // nested list of entries, managed by a CollectionEditor
)

// DateLayout is the wire format for date fields.
const DateLayout = "2006-01-02"

// Descriptor is the static definition of one record field: its type, base
// constraints, and any conditional rules that change its requiredness
// based on sibling values.
type Descriptor struct {
	Name  string
	Label string
	Type  FieldType

	Required bool

	// Numeric bounds, applied when HasBounds is set.
	Min, Max  float64
	HasBounds bool

	// Enum is the closed value set for select fields with static choices.
	Enum []string

	// OptionKind names backend reference data used to populate a select
	// field (e.g. "breeds", "medications"). Resolved through the
	// OptionFetcher boundary; membership is not checked locally since
	// the backend is the arbiter of the live option set.
	OptionKind string

	// UniqueKind, when non-empty, declares an async uniqueness check of
	// this kind against the backend (e.g. "pig_code").
	UniqueKind string

	// Rules are conditional requiredness overrides evaluated against the
	// live record.
	Rules []ConditionalRule

	// Entry holds the field descriptors for collection entries. Only
	// meaningful when Type == FieldCollection.
	Entry []Descriptor
}

// ConditionalRule overrides a field's requiredness when its predicate
// matches the current record.
//
// When is an expr expression over the record's values (collections appear
// as slices of entry value maps). Fields lists the record fields the
// predicate reads; it is the rule's purity contract, drives recomputation,
// and measures specificity for precedence. Predicates must be pure: same
// record in, same answer out.
type ConditionalRule struct {
	When     string
	Fields   []string
	Required *bool
}

// Boundary contracts. Implementations live outside the engine
// (internal/api for the real backend); the engine only consumes them.

// Option is one selectable reference-data item.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// OptionFetcher populates selectable reference data for steps.
// Empty results are valid and must not be treated as errors.
type OptionFetcher interface {
	FetchOptions(ctx context.Context, kind string, params map[string]string) ([]Option, error)
}

// UniqueChecker answers async uniqueness checks. Must be idempotent and
// side-effect-free on the server.
type UniqueChecker interface {
	CheckUnique(ctx context.Context, kind, value string) (bool, error)
}

// SubmitOutcome is the mandatory three-way discriminated result of a
// submission: success, structured business-rule rejection, or anything
// else.
type SubmitOutcome struct {
	OK      bool
	Entity  map[string]any    // set on success
	Kind    string            // "business_rule" or "error" when !OK
	Details []RejectionDetail // set for business-rule rejections
	Message string            // set for generic errors
}

// KindBusinessRule marks a structured rejection by the remote authority.
const KindBusinessRule = "business_rule"

// KindError marks a transport or unclassified failure.
const KindError = "error"

// BusinessRule reports whether the outcome is a structured business-rule
// rejection that must be routed to the recovery view, never to the
// generic error path.
func (s *SubmitOutcome) BusinessRule() bool {
	return !s.OK && s.Kind == KindBusinessRule
}

// RejectionDetail is one machine-readable item of a business-rule
// rejection, e.g. a medication the backend has no stock of.
type RejectionDetail struct {
	Resource string `json:"resource"`
	ID       string `json:"id"`
	Label    string `json:"label"`
	Reason   string `json:"reason"`
}

// Submitter dispatches the finalized record to the remote authority.
type Submitter interface {
	Submit(ctx context.Context, payload map[string]any) (*SubmitOutcome, error)
}

// User is the read-only acting-user context injected into wizards to
// stamp audit fields. The wizard never authenticates.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// NotifyLevel classifies a notification.
type NotifyLevel int

const (
	NotifyInfo NotifyLevel = iota
	NotifySuccess
	NotifyWarn
	NotifyError
)

// Notifier is the fire-and-forget notification sink.
type Notifier interface {
	Notify(level NotifyLevel, message string, duration time.Duration)
}
