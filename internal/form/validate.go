package form

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ReasonUnverifiable is the reason attached when a uniqueness check could
// not be performed. It is deliberately distinct from "value is invalid".
const ReasonUnverifiable = "could not be verified"

// Validator evaluates field values against the schema. Synchronous rules
// run immediately; uniqueness checks run asynchronously with
// last-issued-wins resolution, and the validator tracks per-field
// outcomes and touched state for the whole wizard.
//
// The validator is built for a single-threaded event loop: callers issue
// checks from the loop, run them off-loop, and resolve them back on the
// loop. Resolution order is by issuance sequence, never by arrival.
type Validator struct {
	schema        *Schema
	checker       UniqueChecker
	verifyTimeout time.Duration

	async   map[string]Outcome // latest applied async outcome per field
	seq     map[string]uint64  // latest issued check sequence per field
	touched map[string]bool
}

// NewValidator creates a validator. checker may be nil when the schema
// declares no unique fields. verifyTimeout bounds each remote check so a
// field can never hang in pending forever.
func NewValidator(schema *Schema, checker UniqueChecker, verifyTimeout time.Duration) *Validator {
	if verifyTimeout <= 0 {
		verifyTimeout = 5 * time.Second
	}
	return &Validator{
		schema:        schema,
		checker:       checker,
		verifyTimeout: verifyTimeout,
		async:         make(map[string]Outcome),
		seq:           make(map[string]uint64),
		touched:       make(map[string]bool),
	}
}

// Validate evaluates one field against the live record: synchronous rules
// merged with the latest async outcome for unique fields.
func (v *Validator) Validate(name string, rec *Record) Outcome {
	d := v.schema.Descriptor(name)
	if d == nil {
		return Invalid(fmt.Sprintf("unknown field %q", name))
	}

	required := v.schema.RequiredFields(rec)[name]

	if d.Type == FieldCollection {
		return v.validateCollection(d, rec, required)
	}

	out := validateSync(d, rec.Get(name), required)
	if !out.Ok() {
		return out
	}

	// Sync rules passed; a unique field is only as valid as its latest
	// check. An unset optional value needs no check.
	if d.UniqueKind != "" && !isEmpty(rec.Get(name)) {
		if a, ok := v.async[name]; ok {
			return a
		}
		// No check issued yet for a non-empty value: pending until the
		// caller runs one.
		return Pending()
	}

	return out
}

func (v *Validator) validateCollection(d *Descriptor, rec *Record, required bool) Outcome {
	ed := rec.Collection(d.Name)
	if ed == nil {
		return Invalid(fmt.Sprintf("no editor for collection %q", d.Name))
	}
	if required && ed.Len() == 0 {
		return Invalid(fmt.Sprintf("%s requires at least one entry", labelOf(d)))
	}
	if bad := ed.InvalidEntries(); len(bad) > 0 {
		return Invalid(fmt.Sprintf("%s has %d invalid entr%s", labelOf(d), len(bad), plural(len(bad), "y", "ies")))
	}
	return Valid()
}

// BeginCheck marks a unique field pending and issues a new check
// sequence. Any earlier in-flight check for the field becomes stale.
func (v *Validator) BeginCheck(field string) uint64 {
	v.seq[field]++
	v.async[field] = Pending()
	return v.seq[field]
}

// RunCheck performs the remote check for a value issued under seq. It
// never returns valid on a failed call: network errors and timeouts
// resolve to the distinct unverifiable outcome.
func (v *Validator) RunCheck(ctx context.Context, field, value string) Outcome {
	d := v.schema.Descriptor(field)
	if d == nil || d.UniqueKind == "" {
		return Invalid(fmt.Sprintf("field %q has no unique check", field))
	}
	if v.checker == nil {
		return Unverified(ReasonUnverifiable)
	}

	ctx, cancel := context.WithTimeout(ctx, v.verifyTimeout)
	defer cancel()

	exists, err := v.checker.CheckUnique(ctx, d.UniqueKind, value)
	if err != nil {
		return Unverified(ReasonUnverifiable)
	}
	if exists {
		return Invalid(fmt.Sprintf("%s already exists", labelOf(d)))
	}
	return Valid()
}

// ResolveCheck applies a check result if it is still the latest issued
// for the field. Stale results (an older check resolving after a newer
// one was issued) are discarded and the method reports false.
func (v *Validator) ResolveCheck(field string, seq uint64, out Outcome) bool {
	if seq != v.seq[field] {
		return false
	}
	v.async[field] = out
	return true
}

// Check runs the full begin/run/resolve cycle synchronously. Intended
// for headless callers and tests; the TUI splits the cycle across the
// event loop instead.
func (v *Validator) Check(ctx context.Context, field, value string) Outcome {
	seq := v.BeginCheck(field)
	out := v.RunCheck(ctx, field, value)
	v.ResolveCheck(field, seq, out)
	return out
}

// InvalidateCheck clears the async outcome for a field, returning it to
// pending until a new check resolves. Called when the field's value
// changes.
func (v *Validator) InvalidateCheck(field string) {
	delete(v.async, field)
	v.seq[field]++
}

// Touch marks a field as touched so inline errors render.
func (v *Validator) Touch(field string) {
	v.touched[field] = true
}

// Touched reports whether a field has been touched.
func (v *Validator) Touched(field string) bool {
	return v.touched[field]
}

// validateSync evaluates the static rules for one field:
// requiredness, type coercion, bounds and enum membership.
func validateSync(d *Descriptor, value any, required bool) Outcome {
	if isEmpty(value) {
		if required {
			return Invalid(fmt.Sprintf("%s is required", labelOf(d)))
		}
		return Valid()
	}

	switch d.Type {
	case FieldInt:
		n, err := coerceInt(value)
		if err != nil {
			return Invalid(fmt.Sprintf("%s must be a whole number", labelOf(d)))
		}
		if d.HasBounds && (float64(n) < d.Min || float64(n) > d.Max) {
			return Invalid(fmt.Sprintf("%s must be between %g and %g", labelOf(d), d.Min, d.Max))
		}
	case FieldFloat:
		f, err := coerceFloat(value)
		if err != nil {
			return Invalid(fmt.Sprintf("%s must be a number", labelOf(d)))
		}
		if d.HasBounds && (f < d.Min || f > d.Max) {
			return Invalid(fmt.Sprintf("%s must be between %g and %g", labelOf(d), d.Min, d.Max))
		}
	case FieldDate:
		s, ok := value.(string)
		if !ok {
			return Invalid(fmt.Sprintf("%s must be a date", labelOf(d)))
		}
		if _, err := time.Parse(DateLayout, s); err != nil {
			return Invalid(fmt.Sprintf("%s must be a date (%s)", labelOf(d), DateLayout))
		}
	case FieldSelect:
		if len(d.Enum) > 0 {
			s := fmt.Sprint(value)
			found := false
			for _, e := range d.Enum {
				if e == s {
					found = true
					break
				}
			}
			if !found {
				return Invalid(fmt.Sprintf("%s must be one of: %s", labelOf(d), strings.Join(d.Enum, ", ")))
			}
		}
		// Fetched option sets are not checked locally; the backend is
		// the arbiter of the live option set.
	}

	return Valid()
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func coerceInt(value any) (int64, error) {
	switch n := value.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("not an integer")
		}
		return int64(n), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	default:
		return 0, fmt.Errorf("not an integer")
	}
}

func coerceFloat(value any) (float64, error) {
	switch n := value.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("not a number")
	}
}

func labelOf(d *Descriptor) string {
	if d.Label != "" {
		return d.Label
	}
	return d.Name
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
