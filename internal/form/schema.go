package form

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Schema is a compiled set of field descriptors plus their conditional
// rules. Rule predicates are compiled once at authoring time; evaluation
// is pure and cheap enough to run on every record mutation.
type Schema struct {
	fields []Descriptor
	byName map[string]*Descriptor
	rules  map[string][]compiledRule // target field -> rules
}

type compiledRule struct {
	src      string
	fields   []string
	required *bool
	program  *vm.Program
}

// specificity is the number of record fields the predicate reads. When
// several rules targeting one field match at once, the narrowest
// (highest specificity) wins.
func (r compiledRule) specificity() int {
	return len(r.fields)
}

// NewSchema compiles the descriptors into a schema. Authoring mistakes
// are rejected here, not at runtime: duplicate field names, rules whose
// predicates fail to compile or declare no read set, ambiguous rule pairs
// (equal specificity, conflicting overrides) and unique checks on
// collection entry fields are all configuration errors.
func NewSchema(fields []Descriptor) (*Schema, error) {
	s := &Schema{
		fields: fields,
		byName: make(map[string]*Descriptor, len(fields)),
		rules:  make(map[string][]compiledRule),
	}

	for i := range fields {
		d := &fields[i]
		if d.Name == "" {
			return nil, fmt.Errorf("descriptor %d has no name", i)
		}
		if _, dup := s.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", d.Name)
		}
		s.byName[d.Name] = d

		if d.Type == FieldCollection {
			if len(d.Entry) == 0 {
				return nil, fmt.Errorf("collection field %q has no entry descriptors", d.Name)
			}
			for _, ed := range d.Entry {
				if ed.UniqueKind != "" {
					return nil, fmt.Errorf("collection field %q: entry field %q declares a unique check; entries are validated synchronously", d.Name, ed.Name)
				}
				if ed.Type == FieldCollection {
					return nil, fmt.Errorf("collection field %q: nested collections are not supported", d.Name)
				}
			}
		}

		for _, rule := range d.Rules {
			if rule.When == "" {
				return nil, fmt.Errorf("field %q: conditional rule has empty predicate", d.Name)
			}
			if len(rule.Fields) == 0 {
				return nil, fmt.Errorf("field %q: conditional rule %q declares no read set", d.Name, rule.When)
			}
			program, err := expr.Compile(rule.When, expr.AsBool(), expr.AllowUndefinedVariables())
			if err != nil {
				return nil, fmt.Errorf("field %q: compiling predicate %q: %w", d.Name, rule.When, err)
			}
			s.rules[d.Name] = append(s.rules[d.Name], compiledRule{
				src:      rule.When,
				fields:   rule.Fields,
				required: rule.Required,
				program:  program,
			})
		}
	}

	// Reject ambiguous rule pairs up front: two rules for the same field
	// with equal specificity and conflicting requiredness can never be
	// tie-broken at runtime.
	for name, rules := range s.rules {
		for i := 0; i < len(rules); i++ {
			for j := i + 1; j < len(rules); j++ {
				a, b := rules[i], rules[j]
				if a.specificity() != b.specificity() {
					continue
				}
				if a.required != nil && b.required != nil && *a.required != *b.required {
					return nil, fmt.Errorf("field %q: ambiguous conditional rules %q and %q (equal specificity, conflicting requiredness)", name, a.src, b.src)
				}
			}
		}
	}

	return s, nil
}

// Fields returns the schema's descriptors in declaration order.
func (s *Schema) Fields() []Descriptor {
	return s.fields
}

// Descriptor returns the descriptor for name, or nil.
func (s *Schema) Descriptor(name string) *Descriptor {
	return s.byName[name]
}

// RequiredFields derives the set of required fields for the current
// record. Base requiredness applies unless a matching conditional rule
// overrides it; among matching rules targeting one field the most
// specific wins. Pure: no I/O, no mutation.
func (s *Schema) RequiredFields(rec *Record) map[string]bool {
	env := rec.Env()
	required := make(map[string]bool, len(s.fields))

	for _, d := range s.fields {
		required[d.Name] = d.Required

		var best *compiledRule
		for i := range s.rules[d.Name] {
			rule := &s.rules[d.Name][i]
			matched, err := evalBool(rule.program, env)
			if err != nil || !matched {
				continue
			}
			if best == nil || rule.specificity() > best.specificity() {
				best = rule
			}
		}
		if best != nil && best.required != nil {
			required[d.Name] = *best.required
		}
	}

	return required
}

// RuleReads reports whether any conditional rule in the schema reads the
// given field. Callers use it to recompute the required set only on
// mutations that can change it.
func (s *Schema) RuleReads(field string) bool {
	for _, rules := range s.rules {
		for _, r := range rules {
			for _, f := range r.fields {
				if f == field {
					return true
				}
			}
		}
	}
	return false
}

func evalBool(program *vm.Program, env map[string]any) (bool, error) {
	out, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("predicate did not evaluate to bool")
	}
	return b, nil
}
