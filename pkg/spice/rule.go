package spice

import (
	"fmt"
	"strings"

	"github.com/matzehuels/cdspice/pkg/circuit"
)

// GroundNode is the literal node name statements use for the reference side
// of sources.
const GroundNode = "gnd"

type termKind int

const (
	termConnection termKind = iota
	termProperty
	termLiteral
)

// Term is one whitespace-separated field of a statement after the element
// name.
type Term struct {
	kind termKind
	key  string
}

// Connection is a term rendered as the normalized net attached to point.
func Connection(point string) Term { return Term{kind: termConnection, key: point} }

// Property is a term rendered as the textual form of the property value.
func Property(key string) Term { return Term{kind: termProperty, key: key} }

// Literal is a term rendered verbatim.
func Literal(s string) Term { return Term{kind: termLiteral, key: s} }

func (t Term) placeholder() string {
	if t.kind == termLiteral {
		return t.key
	}
	return "<" + t.key + ">"
}

// Rule maps one component kind to a netlist statement of the form
// "<Prefix><ID> <terms...>".
type Rule struct {
	Kind   circuit.Kind
	Prefix string
	Terms  []Term
}

// Connections returns the connection points the rule requires, in template
// order.
func (r Rule) Connections() []string {
	return r.keys(termConnection)
}

// Properties returns the property keys the rule requires, in template order.
func (r Rule) Properties() []string {
	return r.keys(termProperty)
}

func (r Rule) keys(kind termKind) []string {
	var out []string
	for _, t := range r.Terms {
		if t.kind == kind {
			out = append(out, t.key)
		}
	}
	return out
}

// Template returns a human-readable form of the statement, e.g.
// "R<ID> <a> <b> <resistance>".
func (r Rule) Template() string {
	parts := []string{r.Prefix + "<ID>"}
	for _, t := range r.Terms {
		parts = append(parts, t.placeholder())
	}
	return strings.Join(parts, " ")
}

// Format renders the statement for c. It returns a [*MissingFieldError] for
// the first required field c does not carry. A property present with a nil
// value counts as missing.
func (r Rule) Format(c *circuit.Component) (string, error) {
	var b strings.Builder
	b.WriteString(r.Prefix)
	b.WriteString(c.ID)

	for _, t := range r.Terms {
		b.WriteByte(' ')
		switch t.kind {
		case termConnection:
			net, ok := c.Connections[t.key]
			if !ok {
				return "", r.missing(c, t.key, FieldConnection)
			}
			b.WriteString(FormatConnectionName(net))
		case termProperty:
			v, ok := c.Properties[t.key]
			if !ok || v == nil {
				return "", r.missing(c, t.key, FieldProperty)
			}
			b.WriteString(FormatValue(v))
		default:
			b.WriteString(t.key)
		}
	}
	return b.String(), nil
}

func (r Rule) missing(c *circuit.Component, field string, src FieldSource) error {
	return &MissingFieldError{ComponentID: c.ID, Kind: r.Kind, Field: field, Source: src}
}

// FormatConnectionName returns the node name written for net. The name "0"
// is reserved for ground by the netlist format and becomes "0_0"; every other
// name is returned unchanged.
func FormatConnectionName(net string) string {
	if net == circuit.Ground {
		return "0_0"
	}
	return net
}

// FormatValue returns the textual form of a property value: 1000 → "1000",
// 1e-6 → "1e-06", "10k" → "10k".
func FormatValue(v any) string {
	return fmt.Sprint(v)
}

// UsesGround reports whether the statement names the [GroundNode] literal.
func (r Rule) UsesGround() bool {
	for _, t := range r.Terms {
		if t.kind == termLiteral && t.key == GroundNode {
			return true
		}
	}
	return false
}
