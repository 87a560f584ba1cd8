package formwizard

import (
	"time"

	"github.com/stockline/herdctl/internal/form"
)

// debounceTickMsg drives the debounce clock while edits are settling.
type debounceTickMsg struct {
	At time.Time
}

// checkResolvedMsg carries the result of an async uniqueness check.
// Seq ties it to the issuance it answers; the validator discards stale
// resolutions itself.
type checkResolvedMsg struct {
	Field   string
	Seq     uint64
	Outcome form.Outcome
}

// submitDoneMsg carries the classified result of the remote mutation.
type submitDoneMsg struct {
	Outcome *form.SubmitOutcome
	Err     error
}

// draftSavedMsg reports the outcome of a background draft save.
type draftSavedMsg struct {
	Err error
}

// draftClearedMsg reports draft cleanup after a successful submission.
type draftClearedMsg struct {
	Err error
}

// notesEditedMsg is sent when the external editor returns for a notes
// field.
type notesEditedMsg struct {
	Field   string
	Content string
}
