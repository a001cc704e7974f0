// Package render provides visual renderings of circuit documents.
//
// The netlist itself is text and lives in package spice. Renderers here
// draw the same connectivity for humans:
//
//   - Node-link diagrams (in [nodelink] subpackage): components and nets as
//     Graphviz nodes, connections as labelled edges.
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
package render
