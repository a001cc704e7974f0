package spice_test

import (
	"os"

	"github.com/matzehuels/cdspice/pkg/circuit"
	"github.com/matzehuels/cdspice/pkg/spice"
)

func ExampleExporter_Write() {
	doc := &circuit.Document{
		Metadata: circuit.Metadata{Title: "RC filter"},
		Components: []circuit.Component{
			{
				ID:          "1",
				Type:        circuit.Common("resistor"),
				Connections: map[string]string{"a": "in", "b": "out"},
				Properties:  map[string]any{"resistance": 1000},
			},
			{
				ID:          "2",
				Type:        circuit.Common("capacitor"),
				Connections: map[string]string{"a": "out", "b": "0"},
				Properties:  map[string]any{"capacitance": 1e-6},
			},
			{
				ID:          "3",
				Type:        circuit.Common("rail"),
				Connections: map[string]string{"com": "in"},
				Properties:  map[string]any{"voltage": 5},
			},
		},
	}

	_ = spice.New(spice.WithNewline(spice.LF)).Write(os.Stdout, doc)
	// Output:
	// RC filter
	// *** Created with Circuit Diagram Spice Exporter ***
	//
	// *** Netlist Description ***
	// R1 in out 1000
	// C2 out 0_0 1e-06
	// V3 in gnd 5
}

func ExampleRegistry_Register() {
	reg := spice.DefaultRegistry()
	_ = reg.Register(spice.Rule{
		Kind:   "inductor",
		Prefix: "L",
		Terms:  []spice.Term{spice.Connection("a"), spice.Connection("b"), spice.Property("inductance")},
	})

	doc := &circuit.Document{
		Metadata: circuit.Metadata{Title: "coil"},
		Components: []circuit.Component{{
			ID:          "1",
			Type:        circuit.Common("inductor"),
			Connections: map[string]string{"a": "x", "b": "y"},
			Properties:  map[string]any{"inductance": "10m"},
		}},
	}

	n, _ := spice.New(spice.WithRegistry(reg)).Export(doc)
	for _, s := range n.Statements {
		os.Stdout.WriteString(s + "\n")
	}
	// Output:
	// L1 x y 10m
}
