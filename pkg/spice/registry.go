package spice

import (
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/cdspice/pkg/circuit"
)

// Registry maps component kinds to their statement rules.
type Registry struct {
	rules map[circuit.Kind]Rule
}

// NewRegistry returns a registry holding rules. It fails on the first rule
// [Registry.Register] rejects.
func NewRegistry(rules ...Rule) (*Registry, error) {
	r := &Registry{rules: make(map[circuit.Kind]Rule, len(rules))}
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// BuiltinRules returns the rules for resistors, capacitors, rails and
// grounds.
func BuiltinRules() []Rule {
	return []Rule{
		{Kind: circuit.KindResistor, Prefix: "R", Terms: []Term{Connection("a"), Connection("b"), Property("resistance")}},
		{Kind: circuit.KindCapacitor, Prefix: "C", Terms: []Term{Connection("a"), Connection("b"), Property("capacitance")}},
		{Kind: circuit.KindRail, Prefix: "V", Terms: []Term{Connection("com"), Literal(GroundNode), Property("voltage")}},
		{Kind: circuit.KindGround, Prefix: "V", Terms: []Term{Connection("com"), Literal(GroundNode), Literal("0")}},
	}
}

// DefaultRegistry returns a new registry holding [BuiltinRules]. Each call
// returns an independent registry that callers may extend.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinRules()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds rule. The rule must have a known kind and a prefix, and no
// rule for the same kind may exist yet.
func (r *Registry) Register(rule Rule) error {
	if rule.Kind.IsUnknown() {
		return fmt.Errorf("%w: kind must not be empty", ErrInvalidRule)
	}
	if rule.Prefix == "" {
		return fmt.Errorf("%w: %s: prefix must not be empty", ErrInvalidRule, rule.Kind)
	}
	if _, ok := r.rules[rule.Kind]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, rule.Kind)
	}
	r.rules[rule.Kind] = rule
	return nil
}

// Lookup returns the rule for kind. [circuit.KindUnknown] never has a rule.
func (r *Registry) Lookup(kind circuit.Kind) (Rule, bool) {
	if kind.IsUnknown() {
		return Rule{}, false
	}
	rule, ok := r.rules[kind]
	return rule, ok
}

// Kinds returns the registered kinds in lexical order.
func (r *Registry) Kinds() []circuit.Kind {
	return slices.Sorted(maps.Keys(r.rules))
}

// Rules returns the registered rules ordered by kind.
func (r *Registry) Rules() []Rule {
	kinds := r.Kinds()
	out := make([]Rule, len(kinds))
	for i, k := range kinds {
		out[i] = r.rules[k]
	}
	return out
}
