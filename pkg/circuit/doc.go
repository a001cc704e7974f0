// Package circuit defines the document model consumed by the netlist exporter.
//
// A [Document] is an ordered list of [Component] values plus a [Metadata]
// record. Each component names the nets its connection points attach to and
// carries a set of scalar properties (resistance, voltage, ...). Two
// components that reference the same net name are electrically connected.
//
// # Component Types
//
// Components are addressed by a [ComponentType]: a collection namespace and
// an item name within it. Only the [CommonComponentsNamespace] collection is
// understood by the exporters in this module. [KindOf] turns a type into an
// explicit [Kind] tag, returning [KindUnknown] for everything outside that
// namespace:
//
//	kind := circuit.KindOf(c.Type)
//	switch kind {
//	case circuit.KindUnknown:
//	    // not a common component
//	case circuit.KindResistor, circuit.KindCapacitor:
//	    // two-terminal passive
//	}
//
// # Ownership
//
// Documents are plain values owned by the caller. Nothing in this module
// mutates a document; callers that share one across goroutines must not
// modify it while an export is running.
package circuit
