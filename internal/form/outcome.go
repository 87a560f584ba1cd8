// Package form implements the guarded multi-step wizard engine behind
// herdctl's registration flows: conditional validation schemas, async
// uniqueness checks, nested collection editing, step-gated navigation and
// the submission pipeline. It is UI-agnostic; the TUI in internal/tui
// renders it.
package form

// Status is the state of one field's validation.
type Status int

const (
	StatusUnknown Status = iota // never validated
	StatusValid
	StatusInvalid
	StatusPending // async check in flight
)

// String returns the string representation of a status.
func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusPending:
		return "pending"
	default:
		return "unknown"
	}
}

// Outcome is the result of validating one field.
type Outcome struct {
	Status Status
	Reason string // set when Status == StatusInvalid
	// Unverifiable marks an invalid outcome caused by a failed remote
	// check rather than a bad value. Rendering must distinguish the two
	// so users aren't told their data is wrong when it is unverifiable.
	Unverifiable bool
}

// Valid returns a valid outcome.
func Valid() Outcome {
	return Outcome{Status: StatusValid}
}

// Invalid returns an invalid outcome with the given reason.
func Invalid(reason string) Outcome {
	return Outcome{Status: StatusInvalid, Reason: reason}
}

// Unverified returns an invalid outcome for a check that could not be
// performed. A failed check never resolves to valid.
func Unverified(reason string) Outcome {
	return Outcome{Status: StatusInvalid, Reason: reason, Unverifiable: true}
}

// Pending returns a pending outcome.
func Pending() Outcome {
	return Outcome{Status: StatusPending}
}

// Ok reports whether the outcome allows the field to count as valid.
func (o Outcome) Ok() bool {
	return o.Status == StatusValid
}

// Blocks reports whether the outcome blocks navigation or submission.
// Both invalid and pending fields block; unknown fields do not until
// they are validated.
func (o Outcome) Blocks() bool {
	return o.Status == StatusInvalid || o.Status == StatusPending
}
