package formwizard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/editor"

	"github.com/stockline/herdctl/internal/config"
	"github.com/stockline/herdctl/internal/drafts"
	"github.com/stockline/herdctl/internal/form"
	"github.com/stockline/herdctl/internal/logger"
	"github.com/stockline/herdctl/internal/tui/theme"
	"github.com/stockline/herdctl/internal/tui/wizard"
)

// Modal layout constants
const (
	modalWidth        = 74
	modalPadding      = 2
	modalBorderWidth  = 1
	modalContentWidth = modalWidth - (modalPadding * 2) - (modalBorderWidth * 2)
)

// debounceResolution is how often the debounce clock is sampled while
// edits are settling.
const debounceResolution = 100 * time.Millisecond

// Options carries everything a wizard run needs beyond its definition.
type Options struct {
	Config  *config.Config
	Fetcher form.OptionFetcher
	Deps    form.WizardDeps
	// Store enables draft persistence and submission audit events when
	// non-nil.
	Store *drafts.Store
	// Prefill seeds record values before any draft is resumed, e.g. a
	// farm code derived from a name given on the command line.
	Prefill map[string]any
}

// Model is the Bubbletea model that drives one wizard flow. All form
// semantics live in the form package; this model only routes input,
// schedules async work and renders state.
type Model struct {
	def  *form.Definition
	wiz  *form.Wizard
	opts Options

	width  int
	height int

	cancelled bool

	// Focus: one slot walks the current step's fields, then the bar.
	fieldFocus    int
	buttonFocused bool
	buttonBar     *wizard.ButtonBar

	// One input per scalar field, keyed by field name, alive for the
	// whole flow so values survive navigation.
	inputs map[string]*textinput.Model

	// Overlays, in priority order.
	confirm    *wizard.ConfirmationModal
	collection *collectionView
	selector   *wizard.OptionSelector

	debouncer *form.Debouncer
	ticking   bool

	notice *wizard.Notice

	// Terminal states
	recovery *form.SubmitOutcome // business-rule rejection under review
	result   *form.SubmitOutcome // successful submission

	resumedDraft bool
}

// Run executes the wizard flow for the given definition. It blocks until
// the user submits or cancels.
func Run(def *form.Definition, opts Options) error {
	wiz, err := form.NewWizard(def, opts.Deps)
	if err != nil {
		return err
	}
	for name, value := range opts.Prefill {
		wiz.Record.Set(name, value)
	}

	m := &Model{
		def:       def,
		wiz:       wiz,
		opts:      opts,
		inputs:    make(map[string]*textinput.Model),
		confirm:   wizard.NewConfirmationModal(),
		debouncer: form.NewDebouncer(opts.Config.Debounce()),
		notice:    wizard.NewNotice(),
	}

	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	fm, ok := finalModel.(*Model)
	if !ok {
		return fmt.Errorf("unexpected model type")
	}
	if fm.cancelled {
		return fmt.Errorf("wizard cancelled by user")
	}
	return nil
}

// Init builds the field inputs and resumes any saved draft.
func (m *Model) Init() tea.Cmd {
	for _, d := range m.def.Fields {
		if d.Type == form.FieldCollection {
			continue
		}
		input := newFieldInput(d)
		if v := m.wiz.Record.Get(d.Name); v != nil {
			input.SetValue(fmt.Sprint(v))
		}
		m.inputs[d.Name] = &input
	}

	var cmds []tea.Cmd
	if m.opts.Store != nil {
		if data, err := m.opts.Store.Load(context.Background(), m.opts.Config.FarmID, m.def.Name); err == nil && data != nil {
			if err := m.wiz.Record.Restore(data); err == nil {
				m.resumedDraft = true
				m.syncInputsFromRecord()
				cmds = append(cmds, m.notice.Show(form.NotifyInfo, "Draft resumed", m.opts.Config.NotifyDuration()))
			} else {
				logger.Warn("Discarding unreadable draft for %s: %v", m.def.Name, err)
			}
		}
	}

	cmds = append(cmds, m.focusField(0))
	return tea.Batch(cmds...)
}

// syncInputsFromRecord pushes restored record values into the inputs.
func (m *Model) syncInputsFromRecord() {
	for name, input := range m.inputs {
		if v := m.wiz.Record.Get(name); v != nil {
			input.SetValue(fmt.Sprint(v))
		} else {
			input.SetValue("")
		}
	}
}

// stepFields returns the descriptors governed by the current step.
func (m *Model) stepFields() []*form.Descriptor {
	step := m.wiz.Controller.Step()
	out := make([]*form.Descriptor, 0, len(step.Fields))
	for _, name := range step.Fields {
		if d := m.wiz.Schema.Descriptor(name); d != nil {
			out = append(out, d)
		}
	}
	return out
}

// focusField moves field focus, blurring everything else.
func (m *Model) focusField(idx int) tea.Cmd {
	fields := m.stepFields()
	m.buttonFocused = false
	if m.buttonBar != nil {
		m.buttonBar.Blur()
	}
	for _, input := range m.inputs {
		input.Blur()
	}
	if len(fields) == 0 {
		m.fieldFocus = 0
		return m.focusButtons(true)
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(fields) {
		idx = len(fields) - 1
	}
	m.fieldFocus = idx
	d := fields[idx]
	if input, ok := m.inputs[d.Name]; ok && isTextual(d) {
		return input.Focus()
	}
	return nil
}

// focusButtons moves focus onto the button bar.
func (m *Model) focusButtons(first bool) tea.Cmd {
	m.buttonFocused = true
	for _, input := range m.inputs {
		input.Blur()
	}
	m.ensureButtonBar()
	if first {
		m.buttonBar.FocusFirst()
	} else {
		m.buttonBar.FocusLast()
	}
	return nil
}

// isTextual reports whether the field edits through a text input.
func isTextual(d *form.Descriptor) bool {
	switch d.Type {
	case form.FieldBool, form.FieldCollection:
		return false
	case form.FieldSelect:
		// Selects open a picker; the input only displays the value.
		return false
	}
	return true
}

// ensureButtonBar builds the bar for the current step.
func (m *Model) ensureButtonBar() {
	if m.buttonBar != nil {
		return
	}
	ctrl := m.wiz.Controller
	nextLabel := "Next →"
	if ctrl.OnFinal() {
		nextLabel = "Submit"
	}
	var buttons []wizard.Button
	if ctrl.Current() == 0 {
		buttons = wizard.CreateCancelNextButtons(true, nextLabel)
	} else {
		buttons = wizard.CreateBackNextButtons(true, true, nextLabel)
	}
	m.buttonBar = wizard.NewButtonBar(buttons)
	m.buttonBar.SetWidth(modalContentWidth)
}

// Update routes messages by overlay priority, then to the form.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.collection != nil {
			m.collection.SetSize(m.contentSize())
		}
		if m.selector != nil {
			m.selector.SetSize(m.contentSize())
		}
		return m, nil

	case debounceTickMsg:
		return m, m.handleDebounceTick(msg.At)

	case checkResolvedMsg:
		m.wiz.Validator.ResolveCheck(msg.Field, msg.Seq, msg.Outcome)
		return m, nil

	case submitDoneMsg:
		return m, m.handleSubmitDone(msg)

	case draftSavedMsg:
		if msg.Err != nil {
			logger.Warn("Draft save failed: %v", msg.Err)
			return m, m.notice.Show(form.NotifyWarn, "Draft save failed", m.opts.Config.NotifyDuration())
		}
		return m, nil

	case draftClearedMsg:
		if msg.Err != nil {
			logger.Warn("Draft cleanup failed: %v", msg.Err)
		}
		return m, nil

	case notesEditedMsg:
		content := strings.TrimRight(msg.Content, "\n")
		if input, ok := m.inputs[msg.Field]; ok {
			input.SetValue(content)
		}
		if d := m.wiz.Schema.Descriptor(msg.Field); d != nil {
			m.wiz.Record.Set(msg.Field, typedValue(d, content))
		}
		return m, nil

	case wizard.ShowNoticeMsg:
		return m, m.notice.Show(msg.Level, msg.Text, msg.Duration)

	case wizard.NoticeDismissMsg:
		return m, m.notice.Update(msg)

	case wizard.OptionsLoadedMsg, wizard.OptionsErrorMsg:
		if m.selector != nil {
			return m, m.selector.Update(msg)
		}
		return m, nil

	case wizard.OptionChosenMsg:
		if d := m.wiz.Schema.Descriptor(msg.Field); d != nil {
			m.wiz.Record.Set(msg.Field, msg.Option.ID)
			if input, ok := m.inputs[msg.Field]; ok {
				input.SetValue(msg.Option.ID)
			}
		}
		m.selector = nil
		return m, nil

	case collectionClosedMsg:
		m.collection = nil
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	// Remaining messages (spinner ticks, cursor blinks) go to whichever
	// component is active.
	if m.selector != nil {
		return m, m.selector.Update(msg)
	}
	if m.collection != nil {
		cmd, _ := m.collection.Update(msg)
		return m, cmd
	}
	return m, m.updateFocusedInput(msg)
}

// handleKey routes key presses by overlay priority.
func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	// Terminal success screen: any of enter/q/esc leaves.
	if m.result != nil {
		switch msg.String() {
		case "enter", "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		m.cancelled = true
		return m, tea.Sequence(m.saveDraftCmd(), tea.Quit)
	}

	// Confirmation modal swallows everything while visible.
	if m.confirm.IsVisible() {
		switch msg.String() {
		case "y", "Y":
			m.confirm.Hide()
			return m, m.beginDispatch()
		case "n", "N", "esc":
			m.confirm.Hide()
			return m, nil
		}
		return m, nil
	}

	// Business-rule recovery view: esc returns to the form for rework.
	if m.recovery != nil {
		if msg.String() == "esc" || msg.String() == "enter" {
			m.recovery = nil
		}
		return m, nil
	}

	if m.collection != nil {
		cmd, closed := m.collection.Update(msg)
		if closed {
			m.collection = nil
		}
		return m, cmd
	}

	if m.selector != nil {
		if msg.String() == "esc" {
			m.selector = nil
			return m, nil
		}
		return m, m.selector.Update(msg)
	}

	if m.wiz.Orchestrator.InFlight() {
		// One mutation at a time; input waits for the outcome.
		return m, nil
	}

	if m.buttonFocused {
		switch msg.String() {
		case "tab", "right":
			if !m.buttonBar.FocusNext() {
				return m, m.focusField(0)
			}
			return m, nil
		case "shift+tab", "left":
			if !m.buttonBar.FocusPrev() {
				return m, m.focusField(len(m.stepFields()) - 1)
			}
			return m, nil
		case "enter", " ":
			return m, m.activateButton(m.buttonBar.FocusedButton())
		case "esc":
			return m, m.goBack()
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, m.goBack()
	case "tab", "down":
		if m.fieldFocus+1 >= len(m.stepFields()) {
			return m, m.focusButtons(true)
		}
		return m, m.focusField(m.fieldFocus + 1)
	case "shift+tab", "up":
		if m.fieldFocus == 0 {
			return m, m.focusButtons(false)
		}
		return m, m.focusField(m.fieldFocus - 1)
	case "enter":
		return m, m.activateField()
	case "ctrl+e":
		return m, m.openNotesEditor()
	}

	return m, m.editFocusedField(msg)
}

// activateField handles enter on the focused field: selects open their
// picker, bools toggle, collections open their overlay, text moves on.
func (m *Model) activateField() tea.Cmd {
	fields := m.stepFields()
	if m.fieldFocus >= len(fields) {
		return nil
	}
	d := fields[m.fieldFocus]

	switch d.Type {
	case form.FieldSelect:
		return m.openSelector(d)
	case form.FieldBool:
		cur, _ := m.wiz.Record.Get(d.Name).(bool)
		m.wiz.Record.Set(d.Name, !cur)
		return nil
	case form.FieldCollection:
		ed := m.wiz.Record.Collection(d.Name)
		if ed == nil {
			return nil
		}
		m.collection = newCollectionView(d.Name, d.Label, ed, d.Entry)
		m.collection.SetSize(m.contentSize())
		return nil
	}

	// Text-ish fields: enter moves to the next slot.
	if m.fieldFocus+1 >= len(fields) {
		return m.focusButtons(true)
	}
	return m.focusField(m.fieldFocus + 1)
}

// openSelector opens the option picker for a select field.
func (m *Model) openSelector(d *form.Descriptor) tea.Cmd {
	sel := wizard.NewOptionSelector(d.Name)
	w, h := m.contentSize()
	sel.SetSize(w, h)
	m.selector = sel

	if len(d.Enum) > 0 {
		// Static choice sets resolve locally.
		opts := make([]form.Option, len(d.Enum))
		for i, e := range d.Enum {
			opts[i] = form.Option{ID: e, Label: e}
		}
		initCmd := sel.Init()
		return tea.Batch(initCmd, func() tea.Msg {
			return wizard.OptionsLoadedMsg{Field: d.Name, Options: opts}
		})
	}

	params := map[string]string{}
	if m.opts.Config.FarmID != "" {
		params["farm"] = m.opts.Config.FarmID
	}
	return tea.Batch(
		sel.Init(),
		sel.FetchCmd(context.Background(), m.opts.Fetcher, d.OptionKind, params),
	)
}

// openNotesEditor opens $EDITOR on the focused text field.
func (m *Model) openNotesEditor() tea.Cmd {
	fields := m.stepFields()
	if m.fieldFocus >= len(fields) {
		return nil
	}
	d := fields[m.fieldFocus]
	if d.Type != form.FieldText || os.Getenv("EDITOR") == "" {
		return nil
	}

	tmpfile, err := os.CreateTemp("", "herdctl_"+d.Name+"_*.md")
	if err != nil {
		return nil
	}
	if _, err := tmpfile.WriteString(m.wiz.Record.String(d.Name)); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return nil
	}
	_ = tmpfile.Close()

	cmd, err := editor.Command("herdctl", tmpfile.Name())
	if err != nil {
		_ = os.Remove(tmpfile.Name())
		return nil
	}

	field := d.Name
	path := tmpfile.Name()
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer os.Remove(path)
		if err != nil {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		return notesEditedMsg{Field: field, Content: string(content)}
	})
}

// editFocusedField forwards editing keys to the focused input and syncs
// the record, arming the debouncer for uniqueness-checked fields.
func (m *Model) editFocusedField(msg tea.Msg) tea.Cmd {
	fields := m.stepFields()
	if m.fieldFocus >= len(fields) {
		return nil
	}
	d := fields[m.fieldFocus]
	if !isTextual(d) {
		return nil
	}
	input, ok := m.inputs[d.Name]
	if !ok {
		return nil
	}

	before := input.Value()
	updated, cmd := input.Update(msg)
	*input = updated
	value := input.Value()
	if value == before {
		return cmd
	}

	m.wiz.Record.Set(d.Name, typedValue(d, value))

	if d.UniqueKind != "" {
		// Every edit invalidates the previous check result and restarts
		// the settle window.
		m.wiz.Validator.InvalidateCheck(d.Name)
		m.debouncer.Touch(d.Name, strings.TrimSpace(value), time.Now())
		return tea.Batch(cmd, m.scheduleDebounceTick())
	}
	return cmd
}

// updateFocusedInput forwards non-key messages (blinks) to the focused
// input.
func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	fields := m.stepFields()
	if m.buttonFocused || m.fieldFocus >= len(fields) {
		return nil
	}
	d := fields[m.fieldFocus]
	input, ok := m.inputs[d.Name]
	if !ok || !isTextual(d) {
		return nil
	}
	updated, cmd := input.Update(msg)
	*input = updated
	return cmd
}

// scheduleDebounceTick arms the debounce clock if it is not running.
func (m *Model) scheduleDebounceTick() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tea.Tick(debounceResolution, func(t time.Time) tea.Msg {
		return debounceTickMsg{At: t}
	})
}

// handleDebounceTick fires checks for fields whose edits have settled
// and keeps the clock running while more are waiting.
func (m *Model) handleDebounceTick(now time.Time) tea.Cmd {
	m.ticking = false
	var cmds []tea.Cmd

	for _, fv := range m.debouncer.Due(now) {
		d := m.wiz.Schema.Descriptor(fv.Field)
		if d == nil || d.UniqueKind == "" {
			continue
		}
		if fv.Value == "" {
			// Nothing to check; sync validation owns empties.
			continue
		}
		seq := m.wiz.Validator.BeginCheck(fv.Field)
		field, value := fv.Field, fv.Value
		cmds = append(cmds, func() tea.Msg {
			out := m.wiz.Validator.RunCheck(context.Background(), field, value)
			return checkResolvedMsg{Field: field, Seq: seq, Outcome: out}
		})
	}

	if m.debouncer.Waiting() {
		cmds = append(cmds, m.scheduleDebounceTick())
	}
	return tea.Batch(cmds...)
}

// activateButton handles button activation.
func (m *Model) activateButton(id wizard.ButtonID) tea.Cmd {
	switch id {
	case wizard.ButtonBack:
		return m.goBack()
	case wizard.ButtonCancel:
		m.cancelled = true
		return tea.Sequence(m.saveDraftCmd(), tea.Quit)
	case wizard.ButtonNext:
		if m.wiz.Controller.OnFinal() {
			return m.startSubmit()
		}
		return m.goNext()
	}
	return nil
}

// goNext attempts a forward transition through the step controller.
func (m *Model) goNext() tea.Cmd {
	if err := m.wiz.Controller.Advance(); err != nil {
		var blocked *form.BlockedError
		if errors.As(err, &blocked) {
			return m.notice.Show(form.NotifyWarn, blocked.Summary, m.opts.Config.NotifyDuration())
		}
		return m.notice.Show(form.NotifyError, err.Error(), m.opts.Config.NotifyDuration())
	}
	m.buttonBar = nil
	m.buttonFocused = false
	return tea.Batch(m.focusField(0), m.saveDraftCmd())
}

// goBack retreats one step, or cancels from the first step. Backward
// movement never validates.
func (m *Model) goBack() tea.Cmd {
	if m.wiz.Controller.Retreat() {
		m.buttonBar = nil
		m.buttonFocused = false
		return tea.Batch(m.focusField(0), m.saveDraftCmd())
	}
	m.cancelled = true
	return tea.Sequence(m.saveDraftCmd(), tea.Quit)
}

// startSubmit runs full-record validation and either opens the
// confirmation gate or dispatches immediately.
func (m *Model) startSubmit() tea.Cmd {
	if blocked := m.wiz.Orchestrator.ValidateAll(); blocked != nil {
		return m.notice.Show(form.NotifyWarn, blocked.Summary, m.opts.Config.NotifyDuration())
	}
	if m.wiz.Orchestrator.RequiresConfirmation() {
		gate := m.wiz.Orchestrator.Confirmation()
		m.confirm.Show(gate.Title, gate.Message)
		return nil
	}
	return m.beginDispatch()
}

// beginDispatch claims the single submission slot and runs the remote
// mutation in the background.
func (m *Model) beginDispatch() tea.Cmd {
	if err := m.wiz.Orchestrator.BeginDispatch(); err != nil {
		return m.notice.Show(form.NotifyWarn, err.Error(), m.opts.Config.NotifyDuration())
	}
	return func() tea.Msg {
		out := m.wiz.Orchestrator.Dispatch(context.Background())
		return submitDoneMsg{Outcome: out}
	}
}

// handleSubmitDone classifies the submission result three ways: success,
// structured business-rule rejection, or a generic error that leaves the
// record editable.
func (m *Model) handleSubmitDone(msg submitDoneMsg) tea.Cmd {
	out := msg.Outcome
	m.wiz.Orchestrator.FinishDispatch(out)

	switch {
	case out.OK:
		m.result = out
		logger.Info("Wizard %s submitted", m.def.Name)
		return tea.Batch(
			m.clearDraftCmd(),
			m.notice.Show(form.NotifySuccess, "Submitted", m.opts.Config.NotifyDuration()),
		)
	case out.BusinessRule():
		m.recovery = out
		return nil
	default:
		msgText := out.Message
		if msgText == "" {
			msgText = "submission failed"
		}
		return m.notice.Show(form.NotifyError, msgText, m.opts.Config.NotifyDuration())
	}
}

// saveDraftCmd snapshots the record into the draft store.
func (m *Model) saveDraftCmd() tea.Cmd {
	if m.opts.Store == nil || m.wiz.Orchestrator.Submitted() {
		return nil
	}
	data, err := m.wiz.Record.Snapshot()
	if err != nil {
		return func() tea.Msg { return draftSavedMsg{Err: err} }
	}
	farm, name := m.opts.Config.FarmID, m.def.Name
	store := m.opts.Store
	return func() tea.Msg {
		return draftSavedMsg{Err: store.Save(context.Background(), farm, name, data)}
	}
}

// clearDraftCmd removes the draft and records the audit event after a
// successful submission.
func (m *Model) clearDraftCmd() tea.Cmd {
	if m.opts.Store == nil {
		return nil
	}
	store := m.opts.Store
	farm, name := m.opts.Config.FarmID, m.def.Name
	user := m.opts.Deps.User.ID
	var entity map[string]any
	if m.result != nil && m.result.Entity != nil {
		entity = map[string]any{"id": fmt.Sprint(m.result.Entity["id"])}
	}
	return func() tea.Msg {
		ctx := context.Background()
		if err := store.Clear(ctx, farm, name); err != nil {
			return draftClearedMsg{Err: err}
		}
		err := store.RecordSubmission(ctx, drafts.SubmissionEvent{
			Timestamp: time.Now().UTC(),
			Farm:      farm,
			Wizard:    name,
			UserID:    user,
			Entity:    entity,
		})
		return draftClearedMsg{Err: err}
	}
}

// contentSize returns the modal's internal content dimensions.
func (m *Model) contentSize() (width, height int) {
	width = modalContentWidth
	height = m.height - 4
	if height < 16 {
		height = 16
	}
	if height > 40 {
		height = 40
	}
	height -= 10
	if height < 8 {
		height = 8
	}
	return width, height
}

// View renders the wizard centered on screen.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.width == 0 || m.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	content := m.renderModal()

	centered := lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(centered).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// renderModal renders the modal body for the current state.
func (m *Model) renderModal() string {
	t := theme.Current()

	var body string
	switch {
	case m.result != nil:
		body = m.renderSuccess()
	case m.confirm.IsVisible():
		return m.confirm.Render(modalWidth)
	case m.recovery != nil:
		body = m.renderRecovery()
	case m.collection != nil:
		body = m.collection.View()
	case m.selector != nil:
		body = m.selector.View()
	default:
		body = m.renderStep()
	}

	modalStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.BorderDefault))

	if banner := m.notice.Banner(); banner != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", banner)
	}

	return modalStyle.Render(body)
}

// renderStep renders the current step: title, field rows or review
// summary, button bar, hints.
func (m *Model) renderStep() string {
	t := theme.Current()
	ctrl := m.wiz.Controller
	step := ctrl.Step()

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.Primary)).
		MarginBottom(1).
		Render(fmt.Sprintf("%s — Step %d/%d: %s", m.def.Title, ctrl.Current()+1, len(ctrl.Steps()), step.Title))

	var stepContent string
	if len(step.Fields) == 0 {
		// Fieldless steps review the whole record.
		w, _ := m.contentSize()
		stepContent = renderMarkdown(buildSummary(m.def, m.wiz.Record), w)
	} else {
		stepContent = m.renderFields()
	}

	m.ensureButtonBar()
	buttonBarContent := m.buttonBar.Render()

	hint := wizard.RenderHintBar("tab", "navigate", "enter", "select", "ctrl+e", "edit in $EDITOR", "esc", "back")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		stepContent,
		"",
		buttonBarContent,
		"",
		hint,
	)
}

// renderFields renders the current step's field rows with labels,
// values and inline validation marks.
func (m *Model) renderFields() string {
	t := theme.Current()
	required := m.wiz.Schema.RequiredFields(m.wiz.Record)
	fields := m.stepFields()

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)).Width(20)
	focusedLabel := labelStyle.Foreground(lipgloss.Color(t.FgBright)).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase))

	var rows []string
	for i, d := range fields {
		label := d.Label
		if required[d.Name] {
			label += " *"
		}

		ls := labelStyle
		if i == m.fieldFocus && !m.buttonFocused {
			ls = focusedLabel
		}

		var value string
		if input, ok := m.inputs[d.Name]; ok && isTextual(d) {
			value = input.View()
		} else {
			shown := displayValue(m.wiz.Record, d)
			if shown == "" {
				shown = "(press enter)"
			}
			value = valueStyle.Render(shown)
		}

		row := ls.Render(label) + " " + value

		// Inline validity only for fields the user has interacted with.
		if m.wiz.Validator.Touched(d.Name) || m.wiz.Validator.Validate(d.Name, m.wiz.Record).Status == form.StatusPending {
			if mark := outcomeMark(m.wiz.Validator.Validate(d.Name, m.wiz.Record)); mark != "" {
				row += "  " + mark
			}
		}
		rows = append(rows, row)
	}

	return strings.Join(rows, "\n")
}

// renderRecovery renders the business-rule rejection view: what the
// backend refused and why, with the record intact for rework.
func (m *Model) renderRecovery() string {
	t := theme.Current()

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.Error)).
		MarginBottom(1).
		Render("⚠ Submission rejected")

	var lines []string
	for _, d := range m.recovery.Details {
		label := d.Label
		if label == "" {
			label = d.ID
		}
		lines = append(lines, fmt.Sprintf("• %s: %s", label, d.Reason))
	}
	if len(lines) == 0 && m.recovery.Message != "" {
		lines = append(lines, m.recovery.Message)
	}

	detail := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		Render(strings.Join(lines, "\n"))

	hint := wizard.RenderHintBar("esc", "back to form")

	return lipgloss.JoinVertical(lipgloss.Left, title, detail, "", hint)
}

// renderSuccess renders the terminal success screen.
func (m *Model) renderSuccess() string {
	t := theme.Current()

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.Success)).
		MarginBottom(1).
		Render("✓ " + m.def.Title + " complete")

	var entity string
	if m.result.Entity != nil {
		if id, ok := m.result.Entity["id"]; ok {
			entity = fmt.Sprintf("Created with ID %v", id)
		}
	}

	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		Render(entity)

	hint := wizard.RenderHintBar("enter", "close")

	return lipgloss.JoinVertical(lipgloss.Left, title, body, "", hint)
}
