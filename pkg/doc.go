// Package pkg holds the libraries behind cdspice, a SPICE netlist exporter
// for Circuit Diagram documents.
//
// # Overview
//
// The packages form a small pipeline:
//
//	JSON / TOML document
//	         ↓
//	    [io] package (decode and validate)
//	         ↓
//	    [circuit] package (document model)
//	         ↓
//	    [spice] package (netlist export)
//	         ↓
//	    [render/nodelink] package (DOT / SVG connectivity)
//
// [pipeline] ties the stages together with a [cache] backend and emits
// [observability] events. [errors] carries error codes that the CLI and the
// HTTP API map to exit codes and statuses. [plugin] describes the exporter
// to Circuit Diagram hosts.
//
// # Quick Start
//
//	doc, err := io.Import("divider.json")
//	if err != nil {
//	    return err
//	}
//	err = spice.Write(os.Stdout, doc)
package pkg
