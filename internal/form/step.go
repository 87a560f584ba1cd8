package form

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Step is one gated phase of a wizard: the fields it governs plus an
// optional gate predicate encoding cross-field rules that per-field
// validity cannot express.
type Step struct {
	Title  string
	Fields []string

	// Gate is an expr predicate over the record; empty means no gate.
	Gate string
	// GateMessage is the user-facing summary shown when the gate blocks.
	GateMessage string
}

// BlockedError reports why a forward transition (or submission) was
// refused: the blocking fields plus a single summary suitable for one
// user-facing notification. Field-level detail renders inline; the
// summary is deliberately the only banner to avoid alert fatigue.
type BlockedError struct {
	Fields  []string
	Summary string
}

func (e *BlockedError) Error() string {
	return e.Summary
}

// Controller is the wizard's navigation state machine. Steps are visited
// monotonically forward, gated on live validity; backward navigation is
// always free so users can return to fix earlier data.
type Controller struct {
	schema    *Schema
	validator *Validator
	record    *Record
	steps     []Step
	gates     []*vm.Program // parallel to steps; nil where no gate
	current   int
	visited   map[int]bool
}

// NewController compiles the step gates and positions the wizard at step
// zero. Steps referencing unknown fields are authoring errors.
func NewController(schema *Schema, steps []Step, validator *Validator, record *Record) (*Controller, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("wizard needs at least one step")
	}
	gates := make([]*vm.Program, len(steps))
	for i, step := range steps {
		for _, f := range step.Fields {
			if schema.Descriptor(f) == nil {
				return nil, fmt.Errorf("step %q governs unknown field %q", step.Title, f)
			}
		}
		if step.Gate == "" {
			continue
		}
		program, err := expr.Compile(step.Gate, expr.AsBool(), expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("step %q: compiling gate %q: %w", step.Title, step.Gate, err)
		}
		gates[i] = program
	}
	return &Controller{
		schema:    schema,
		validator: validator,
		record:    record,
		steps:     steps,
		gates:     gates,
		current:   0,
		visited:   map[int]bool{0: true},
	}, nil
}

// Current returns the current step index.
func (c *Controller) Current() int {
	return c.current
}

// Step returns the current step.
func (c *Controller) Step() Step {
	return c.steps[c.current]
}

// Steps returns all steps in order.
func (c *Controller) Steps() []Step {
	return c.steps
}

// Visited reports whether step i has been visited.
func (c *Controller) Visited(i int) bool {
	return c.visited[i]
}

// OnFinal reports whether the wizard is on its last step.
func (c *Controller) OnFinal() bool {
	return c.current == len(c.steps)-1
}

// Advance moves to the next step if every field the current step governs
// resolves to valid against the live record and the step's gate holds.
// Validity and gate are evaluated fresh on every attempt; nothing is
// cached between renders. On refusal all governed fields are marked
// touched and a BlockedError carrying one summary is returned.
func (c *Controller) Advance() error {
	if c.OnFinal() {
		return &BlockedError{Summary: "already on the last step"}
	}
	if err := c.CheckStep(c.current); err != nil {
		return err
	}
	c.current++
	c.visited[c.current] = true
	return nil
}

// Retreat moves back one step. Always allowed (except from step zero)
// and never re-validates: a user must be able to leave an invalid step
// to fix earlier data.
func (c *Controller) Retreat() bool {
	if c.current == 0 {
		return false
	}
	c.current--
	return true
}

// CheckStep evaluates step i's governed fields and gate against the live
// record, touching governed fields and returning a BlockedError when
// anything blocks.
func (c *Controller) CheckStep(i int) error {
	step := c.steps[i]
	var blocked []string
	for _, name := range step.Fields {
		if c.validator.Validate(name, c.record).Blocks() {
			blocked = append(blocked, name)
		}
	}
	if len(blocked) > 0 {
		for _, name := range step.Fields {
			c.validator.Touch(name)
		}
		return &BlockedError{
			Fields:  blocked,
			Summary: blockedSummary(c.schema, blocked),
		}
	}

	if c.gates[i] != nil {
		ok, err := evalBool(c.gates[i], c.record.Env())
		if err != nil || !ok {
			for _, name := range step.Fields {
				c.validator.Touch(name)
			}
			msg := step.GateMessage
			if msg == "" {
				msg = fmt.Sprintf("%s is not complete", step.Title)
			}
			return &BlockedError{Summary: msg}
		}
	}

	return nil
}

func blockedSummary(schema *Schema, fields []string) string {
	labels := make([]string, 0, len(fields))
	for _, name := range fields {
		if d := schema.Descriptor(name); d != nil {
			labels = append(labels, labelOf(d))
		} else {
			labels = append(labels, name)
		}
	}
	return fmt.Sprintf("please fix: %s", strings.Join(labels, ", "))
}
