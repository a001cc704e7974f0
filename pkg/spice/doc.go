// Package spice writes circuit documents as SPICE-style netlists.
//
// # Output
//
// Every netlist starts with a fixed header followed by one statement per
// recognized component, in document order:
//
//	RC filter
//	*** Created with Circuit Diagram Spice Exporter ***
//
//	*** Netlist Description ***
//	R1 in out 1000
//	C2 out 0_0 1e-06
//	V3 in gnd 5
//	V4 0_0 gnd 0
//
// No .END directive is appended.
//
// # Rules
//
// Component kinds are mapped to statements by a [Registry] of [Rule] values.
// A rule is an element prefix plus a template of terms: connection references,
// property references and literals. The connections and properties a rule
// references are the fields a component of that kind must carry.
// [DefaultRegistry] holds the built-in rules:
//
//	resistor   R<ID> <a> <b> <resistance>
//	capacitor  C<ID> <a> <b> <capacitance>
//	rail       V<ID> <com> gnd <voltage>
//	ground     V<ID> <com> gnd 0
//
// Components of an unknown kind, or of a kind without a rule, produce no
// statement. They are listed in [Netlist.Skipped].
//
// # Net Names
//
// The netlist format reserves node "0" for ground. A user net literally named
// "0" is written as "0_0" by [FormatConnectionName] so it cannot alias the
// reference node. Literal terms such as "gnd" are written as-is.
//
// # Errors
//
// A recognized component missing a required connection or property makes the
// export fail with a [*MissingFieldError] (matching [ErrMissingField]) and
// nothing is written. [WithPolicy]([SkipInvalid]) instead drops the component,
// logs a warning and records it in [Netlist.Skipped].
//
// # Concurrency
//
// An [Exporter] holds no per-export state and may be shared by goroutines
// exporting different documents. A [Registry] must not be modified while
// exports that use it are running.
package spice
