// Package nodelink renders circuit connectivity as node-link diagrams.
//
// # Overview
//
// Each component becomes a box labelled with its netlist element name
// (R1, C2, V3, ...). Each net becomes a small ellipse labelled with the node
// name the netlist uses for it, so a user net named "0" appears as "0_0".
// Connections are undirected edges labelled with the connection point.
// Rail and ground components are also joined to a shared "gnd" node, the
// implicit reference their statements name.
//
// # Usage
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
//   - Registry: rules used to name elements (defaults to spice.DefaultRegistry)
//   - Detailed: include property values in component labels
//
// Components without a rule are drawn dashed and labelled with their ID and
// type item.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
