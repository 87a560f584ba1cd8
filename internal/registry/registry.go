// Package registry holds the rule sets for each herdctl wizard: field
// descriptors, conditional rules, step layout, gates and submit
// endpoints. Rules are declarative data evaluated by the form engine, not
// branching code in the UI.
package registry

import (
	"fmt"
	"sort"

	"github.com/stockline/herdctl/internal/form"
)

var definitions = map[string]func() *form.Definition{
	"pig":        Pig,
	"sickness":   Sickness,
	"onboarding": Onboarding,
}

// Lookup returns a fresh definition for the named wizard.
func Lookup(name string) (*form.Definition, error) {
	build, ok := definitions[name]
	if !ok {
		return nil, fmt.Errorf("unknown wizard %q (have: %v)", name, Names())
	}
	return build(), nil
}

// Names lists the registered wizard kinds.
func Names() []string {
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func boolPtr(b bool) *bool { return &b }
