package circuit

import (
	"maps"
	"slices"
)

// CommonComponentsNamespace is the collection identifier of the built-in
// Circuit Diagram component library.
const CommonComponentsNamespace = "http://schemas.circuit-diagram.org/circuitDiagramDocument/2012/components/common"

// Ground is the net name the netlist format reserves for the reference node.
const Ground = "0"

// Document is a circuit diagram: metadata and components in drawing order.
type Document struct {
	Metadata   Metadata    `json:"metadata" toml:"metadata"`
	Components []Component `json:"components" toml:"components"`
}

// Metadata describes the document as a whole.
type Metadata struct {
	Title       string `json:"title" toml:"title"`
	Author      string `json:"author,omitempty" toml:"author,omitempty"`
	Description string `json:"description,omitempty" toml:"description,omitempty"`
}

// ComponentType addresses a component definition by collection and item.
type ComponentType struct {
	Collection string `json:"collection,omitempty" toml:"collection,omitempty"`
	Item       string `json:"item" toml:"item"`
}

// Common returns the type of item in the common components collection.
func Common(item string) ComponentType {
	return ComponentType{Collection: CommonComponentsNamespace, Item: item}
}

// String returns the type as "collection:item".
func (t ComponentType) String() string {
	if t.Collection == "" {
		return t.Item
	}
	return t.Collection + ":" + t.Item
}

// Component is a single placed element of a circuit.
type Component struct {
	ID          string            `json:"id" toml:"id"`
	Type        ComponentType     `json:"type" toml:"type"`
	Connections map[string]string `json:"connections,omitempty" toml:"connections,omitempty"`
	Properties  map[string]any    `json:"properties,omitempty" toml:"properties,omitempty"`
}

// Kind returns the component's kind tag. See [KindOf].
func (c *Component) Kind() Kind {
	return KindOf(c.Type)
}

// Connection returns the net attached to the named connection point.
func (c *Component) Connection(point string) (string, bool) {
	net, ok := c.Connections[point]
	return net, ok
}

// Property returns the value stored under key.
func (c *Component) Property(key string) (any, bool) {
	v, ok := c.Properties[key]
	return v, ok
}

// Nets returns every distinct net name referenced by the document in
// first-seen order. Within a component, connection points are visited in
// lexical order so the result is stable across runs.
func (d *Document) Nets() []string {
	seen := make(map[string]bool)
	var nets []string
	for i := range d.Components {
		c := &d.Components[i]
		for _, point := range slices.Sorted(maps.Keys(c.Connections)) {
			net := c.Connections[point]
			if seen[net] {
				continue
			}
			seen[net] = true
			nets = append(nets, net)
		}
	}
	return nets
}
