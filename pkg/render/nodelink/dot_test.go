package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/cdspice/pkg/circuit"
	"github.com/matzehuels/cdspice/pkg/spice"
)

func testDocument() *circuit.Document {
	return &circuit.Document{
		Metadata: circuit.Metadata{Title: "divider"},
		Components: []circuit.Component{
			{
				ID:          "1",
				Type:        circuit.Common("resistor"),
				Connections: map[string]string{"a": "in", "b": "0"},
				Properties:  map[string]any{"resistance": 1000},
			},
			{
				ID:          "2",
				Type:        circuit.Common("rail"),
				Connections: map[string]string{"com": "in"},
				Properties:  map[string]any{"voltage": 5},
			},
			{
				ID:   "3",
				Type: circuit.ComponentType{Collection: "urn:vendor", Item: "opamp"},
			},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(testDocument(), Options{})

	for _, want := range []string{
		"graph G {",
		`label="divider"`,
		`"component:1" [label="R1"]`,
		`"component:2" [label="V2"]`,
		`"net:in" [label="in"`,
		`"net:0" [label="0_0"`,
		`"component:1" -- "net:in" [label="a"]`,
		`"component:1" -- "net:0" [label="b"]`,
		`"component:2" -- "net:in" [label="com"]`,
		`"component:2" -- "net:gnd" [style=dotted]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}

	if strings.Contains(dot, `"component:1" -- "net:gnd"`) {
		t.Error("resistor should not be tied to gnd")
	}
}

func TestToDOT_Unknown(t *testing.T) {
	dot := ToDOT(testDocument(), Options{})

	if !strings.Contains(dot, `"component:3" [label="3 (opamp)", style="rounded,dashed"`) {
		t.Errorf("ToDOT() should draw unknown components dashed\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(testDocument(), Options{Detailed: true})

	if !strings.Contains(dot, `label="R1\nresistance: 1000"`) {
		t.Errorf("ToDOT() detailed output missing properties\n%s", dot)
	}
}

func TestToDOT_NoGroundNode(t *testing.T) {
	doc := &circuit.Document{Components: []circuit.Component{{
		ID:          "1",
		Type:        circuit.Common("capacitor"),
		Connections: map[string]string{"a": "x", "b": "y"},
		Properties:  map[string]any{"capacitance": 1},
	}}}

	dot := ToDOT(doc, Options{})
	if strings.Contains(dot, "net:gnd") {
		t.Errorf("ToDOT() should not add gnd without sources\n%s", dot)
	}
	if strings.Contains(dot, "  label=") {
		t.Errorf("ToDOT() should omit empty title\n%s", dot)
	}
}

func TestToDOT_CustomRegistry(t *testing.T) {
	reg, err := spice.NewRegistry(spice.Rule{Kind: "opamp", Prefix: "X", Terms: []spice.Term{spice.Literal("amp")}})
	if err != nil {
		t.Fatal(err)
	}
	doc := testDocument()
	doc.Components[2].Type = circuit.Common("opamp")

	dot := ToDOT(doc, Options{Registry: reg})
	if !strings.Contains(dot, `"component:3" [label="X3"]`) {
		t.Errorf("custom registry not used\n%s", dot)
	}
	if !strings.Contains(dot, `"component:1" [label="1 (resistor)"`) {
		t.Errorf("resistor should be unknown to custom registry\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() changed svg without viewBox: %s", got)
	}
}
