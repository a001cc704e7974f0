// Package io reads and writes circuit documents.
//
// # Overview
//
// The netlist exporter works on an in-memory [circuit.Document]. This package
// is the file-facing side of that model: it decodes documents from JSON or
// TOML and encodes them back to JSON, so the CLI and HTTP API can accept
// diagrams produced by other tools.
//
// # JSON Format
//
//	{
//	  "metadata": {"title": "RC filter"},
//	  "components": [
//	    {
//	      "id": "1",
//	      "type": {"item": "resistor"},
//	      "connections": {"a": "in", "b": "out"},
//	      "properties": {"resistance": 1000}
//	    },
//	    {
//	      "id": "2",
//	      "type": {"collection": "urn:vendor", "item": "opamp"}
//	    }
//	  ]
//	}
//
// # TOML Format
//
// The same structure expressed as TOML:
//
//	[metadata]
//	title = "RC filter"
//
//	[[components]]
//	id = "1"
//	type = { item = "resistor" }
//	connections = { a = "in", b = "out" }
//	properties = { resistance = 1000 }
//
// # Normalization
//
// A component type without a collection is placed in
// [circuit.CommonComponentsNamespace]. Component order is preserved exactly.
//
// # Validation
//
// Readers reject documents whose title spans several lines, components
// without an id, and ids or net names containing whitespace. Such values
// cannot be written as netlist tokens. Failures carry the
// INVALID_DOCUMENT code from pkg/errors.
//
// Whether a component carries the fields its kind requires is not checked
// here; that is the exporter's job.
package io
