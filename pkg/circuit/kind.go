package circuit

// Kind is the explicit tag of a component type within the common
// components collection.
//
// Kind values are the collection's item names, so new kinds can be declared
// by callers without touching this package: Kind("inductor").
type Kind string

// KindUnknown marks a component outside the common components collection.
const KindUnknown Kind = ""

// Kinds with built-in netlist rules.
const (
	KindResistor  Kind = "resistor"
	KindCapacitor Kind = "capacitor"
	KindRail      Kind = "rail"
	KindGround    Kind = "ground"
)

// KindOf returns the kind of t. Types outside [CommonComponentsNamespace],
// and types with an empty item name, map to [KindUnknown].
func KindOf(t ComponentType) Kind {
	if t.Collection != CommonComponentsNamespace || t.Item == "" {
		return KindUnknown
	}
	return Kind(t.Item)
}

// IsUnknown reports whether k is [KindUnknown].
func (k Kind) IsUnknown() bool { return k == KindUnknown }

// String returns the item name, or "unknown".
func (k Kind) String() string {
	if k == KindUnknown {
		return "unknown"
	}
	return string(k)
}
