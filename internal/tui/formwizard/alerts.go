package formwizard

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/stockline/herdctl/internal/form"
	"github.com/stockline/herdctl/internal/tui/wizard"
)

// ProgramSender is an interface for sending messages to the Bubbletea
// program. This allows for easier testing by mocking the Send method.
type ProgramSender interface {
	Send(tea.Msg)
}

// Alerts adapts a running program into the form.Notifier contract so
// code outside the update loop can raise transient notices.
type Alerts struct {
	program ProgramSender
}

// NewAlerts creates a notifier that posts into the given program.
func NewAlerts(program ProgramSender) *Alerts {
	return &Alerts{program: program}
}

// Notify posts a notice message; it never blocks on rendering.
func (a *Alerts) Notify(level form.NotifyLevel, message string, duration time.Duration) {
	if a.program == nil {
		return
	}
	a.program.Send(wizard.ShowNoticeMsg{Level: level, Text: message, Duration: duration})
}
