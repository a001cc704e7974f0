package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cdspice/pkg/circuit"
	"github.com/matzehuels/cdspice/pkg/spice"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Registry names elements. Nil means spice.DefaultRegistry.
	Registry *spice.Registry

	// Detailed adds "key: value" property lines to component labels.
	Detailed bool
}

const groundNodeID = "net:" + spice.GroundNode

// ToDOT converts a document to Graphviz DOT for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(doc *circuit.Document, opts Options) string {
	reg := opts.Registry
	if reg == nil {
		reg = spice.DefaultRegistry()
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if doc.Metadata.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", doc.Metadata.Title)
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18];\n")
	buf.WriteString("\n")

	usesGround := false
	for i := range doc.Components {
		c := &doc.Components[i]
		rule, ok := reg.Lookup(c.Kind())
		label := fmtLabel(c, rule, ok, opts.Detailed)
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if !ok {
			attrs = append(attrs, "style=\"rounded,dashed\"", "fontcolor=gray40")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", componentID(c), strings.Join(attrs, ", "))
		if ok && rule.UsesGround() {
			usesGround = true
		}
	}

	buf.WriteString("\n")
	for _, net := range doc.Nets() {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, style=filled, fillcolor=lightyellow, fontsize=14];\n",
			netID(net), spice.FormatConnectionName(net))
	}
	if usesGround {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=invtriangle, style=filled, fillcolor=lightgrey, fontsize=14];\n",
			groundNodeID, spice.GroundNode)
	}

	buf.WriteString("\n")
	for i := range doc.Components {
		c := &doc.Components[i]
		for _, point := range slices.Sorted(maps.Keys(c.Connections)) {
			fmt.Fprintf(&buf, "  %q -- %q [label=%q];\n", componentID(c), netID(c.Connections[point]), point)
		}
		if rule, ok := reg.Lookup(c.Kind()); ok && rule.UsesGround() {
			fmt.Fprintf(&buf, "  %q -- %q [style=dotted];\n", componentID(c), groundNodeID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func componentID(c *circuit.Component) string { return "component:" + c.ID }

func netID(net string) string { return "net:" + net }

func fmtLabel(c *circuit.Component, rule spice.Rule, known, detailed bool) string {
	if !known {
		return c.ID + " (" + c.Type.Item + ")"
	}

	label := rule.Prefix + c.ID
	if !detailed {
		return label
	}
	var parts []string
	for _, k := range slices.Sorted(maps.Keys(c.Properties)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, spice.FormatValue(c.Properties[k])))
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg element with one whose
// width and height match the viewBox, so the image scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
