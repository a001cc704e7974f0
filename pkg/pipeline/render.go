package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/cdspice/pkg/circuit"
	"github.com/matzehuels/cdspice/pkg/render/nodelink"
	"github.com/matzehuels/cdspice/pkg/spice"
)

// Summary is the JSON artifact: the netlist lines plus what was skipped.
type Summary struct {
	Title      string        `json:"title"`
	Header     []string      `json:"header"`
	Statements []string      `json:"statements"`
	Skipped    []SkipSummary `json:"skipped,omitempty"`
}

// SkipSummary describes a component that produced no statement.
type SkipSummary struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// NewSummary builds the JSON view of a netlist.
func NewSummary(n *spice.Netlist) Summary {
	s := Summary{
		Title:      n.Title,
		Header:     []string{n.Title, spice.GeneratorComment, "", spice.SectionComment},
		Statements: n.Statements,
	}
	if s.Statements == nil {
		s.Statements = []string{}
	}
	for _, sk := range n.Skipped {
		reason := "unrecognized component type"
		if sk.Err != nil {
			reason = sk.Err.Error()
		}
		s.Skipped = append(s.Skipped, SkipSummary{ID: sk.ComponentID, Type: sk.Type.String(), Reason: reason})
	}
	return s
}

// Render produces one artifact for a netlist exported from doc.
func Render(doc *circuit.Document, n *spice.Netlist, reg *spice.Registry, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSpice:
		return n.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(NewSummary(n), "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatDOT:
		return []byte(toDOT(doc, reg, opts)), nil
	case FormatSVG:
		return nodelink.RenderSVG(toDOT(doc, reg, opts))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func toDOT(doc *circuit.Document, reg *spice.Registry, opts Options) string {
	return nodelink.ToDOT(doc, nodelink.Options{Registry: reg, Detailed: opts.Detailed})
}
