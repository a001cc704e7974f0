package spice

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cdspice/pkg/circuit"
)

const header = "Test Circuit\n" +
	"*** Created with Circuit Diagram Spice Exporter ***\n" +
	"\n" +
	"*** Netlist Description ***\n"

func resistor(id, a, b string, r any) circuit.Component {
	return circuit.Component{
		ID:          id,
		Type:        circuit.Common("resistor"),
		Connections: map[string]string{"a": a, "b": b},
		Properties:  map[string]any{"resistance": r},
	}
}

func capacitor(id, a, b string, c any) circuit.Component {
	return circuit.Component{
		ID:          id,
		Type:        circuit.Common("capacitor"),
		Connections: map[string]string{"a": a, "b": b},
		Properties:  map[string]any{"capacitance": c},
	}
}

func rail(id, com string, v any) circuit.Component {
	return circuit.Component{
		ID:          id,
		Type:        circuit.Common("rail"),
		Connections: map[string]string{"com": com},
		Properties:  map[string]any{"voltage": v},
	}
}

func ground(id, com string) circuit.Component {
	return circuit.Component{
		ID:          id,
		Type:        circuit.Common("ground"),
		Connections: map[string]string{"com": com},
	}
}

func document(components ...circuit.Component) *circuit.Document {
	return &circuit.Document{
		Metadata:   circuit.Metadata{Title: "Test Circuit"},
		Components: components,
	}
}

func export(t *testing.T, doc *circuit.Document, opts ...Option) string {
	t.Helper()
	var buf bytes.Buffer
	opts = append([]Option{WithNewline(LF)}, opts...)
	if err := New(opts...).Write(&buf, doc); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	return buf.String()
}

func TestWrite_HeaderOnly(t *testing.T) {
	tests := []struct {
		name string
		doc  *circuit.Document
	}{
		{"no components", document()},
		{"foreign collection", document(circuit.Component{
			ID:   "1",
			Type: circuit.ComponentType{Collection: "urn:custom", Item: "resistor"},
		})},
		{"unknown item", document(circuit.Component{ID: "1", Type: circuit.Common("lamp")})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := export(t, tt.doc); got != header {
				t.Errorf("Write() = %q, want %q", got, header)
			}
		})
	}
}

func TestWrite_Statements(t *testing.T) {
	tests := []struct {
		name string
		comp circuit.Component
		want string
	}{
		{"resistor", resistor("1", "n1", "n2", 1000), "R1 n1 n2 1000"},
		{"resistor float", resistor("1", "n1", "n2", 1000.0), "R1 n1 n2 1000"},
		{"capacitor with zero net", capacitor("2", "0", "n3", 1e-6), "C2 0_0 n3 1e-06"},
		{"rail", rail("3", "vcc", 5), "V3 vcc gnd 5"},
		{"ground on zero net", ground("4", "0"), "V4 0_0 gnd 0"},
		{"ground on named net", ground("5", "gnd"), "V5 gnd gnd 0"},
		{"string value", resistor("6", "a", "b", "10k"), "R6 a b 10k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := export(t, document(tt.comp))
			if want := header + tt.want + "\n"; got != want {
				t.Errorf("Write() = %q, want %q", got, want)
			}
		})
	}
}

func TestWrite_PreservesOrder(t *testing.T) {
	doc := document(
		ground("9", "0"),
		resistor("1", "n1", "n2", 100),
		circuit.Component{ID: "7", Type: circuit.Common("switch")},
		rail("3", "n1", 12),
		capacitor("2", "n2", "0", 0.001),
	)

	want := header +
		"V9 0_0 gnd 0\n" +
		"R1 n1 n2 100\n" +
		"V3 n1 gnd 12\n" +
		"C2 n2 0_0 0.001\n"
	if got := export(t, doc); got != want {
		t.Errorf("Write() =\n%s\nwant\n%s", got, want)
	}
}

func TestWrite_SkippedComponentDoesNotAffectOthers(t *testing.T) {
	with := document(
		resistor("1", "n1", "n2", 1),
		circuit.Component{ID: "2", Type: circuit.ComponentType{Collection: "urn:x", Item: "resistor"}},
		rail("3", "n1", 5),
	)
	without := document(with.Components[0], with.Components[2])

	if a, b := export(t, with), export(t, without); a != b {
		t.Errorf("skipped component changed output:\n%s\nvs\n%s", a, b)
	}
}

func TestWrite_Idempotent(t *testing.T) {
	doc := document(resistor("1", "0", "n2", 47), rail("2", "n2", 3.3), ground("3", "0"))

	first := export(t, doc)
	second := export(t, doc)
	if first != second {
		t.Errorf("exports differ:\n%q\n%q", first, second)
	}
}

func TestWrite_GroundLiteralNotNormalized(t *testing.T) {
	got := export(t, document(rail("1", "0", 5)))
	if !strings.Contains(got, "V1 0_0 gnd 5\n") {
		t.Errorf("Write() = %q, want statement V1 0_0 gnd 5", got)
	}
	if strings.Contains(got, "gnd_") || strings.Contains(got, " 0_0 0_0") {
		t.Errorf("Write() = %q, literal terms must not be normalized", got)
	}
}

func TestWrite_MissingField(t *testing.T) {
	tests := []struct {
		name   string
		comp   circuit.Component
		field  string
		source FieldSource
	}{
		{
			name:   "resistor without resistance",
			comp:   circuit.Component{ID: "1", Type: circuit.Common("resistor"), Connections: map[string]string{"a": "x", "b": "y"}},
			field:  "resistance",
			source: FieldProperty,
		},
		{
			name:   "capacitor without b",
			comp:   circuit.Component{ID: "2", Type: circuit.Common("capacitor"), Connections: map[string]string{"a": "x"}, Properties: map[string]any{"capacitance": 1}},
			field:  "b",
			source: FieldConnection,
		},
		{
			name:   "rail with nil voltage",
			comp:   circuit.Component{ID: "3", Type: circuit.Common("rail"), Connections: map[string]string{"com": "x"}, Properties: map[string]any{"voltage": nil}},
			field:  "voltage",
			source: FieldProperty,
		},
		{
			name:   "ground without com",
			comp:   circuit.Component{ID: "4", Type: circuit.Common("ground")},
			field:  "com",
			source: FieldConnection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := New().Write(&buf, document(resistor("0", "a", "b", 1), tt.comp))
			if err == nil {
				t.Fatal("Write() should fail")
			}
			if !errors.Is(err, ErrMissingField) {
				t.Errorf("errors.Is(err, ErrMissingField) = false for %v", err)
			}
			var mf *MissingFieldError
			if !errors.As(err, &mf) {
				t.Fatalf("error %T is not *MissingFieldError", err)
			}
			if mf.ComponentID != tt.comp.ID || mf.Field != tt.field || mf.Source != tt.source {
				t.Errorf("got %+v, want id=%s field=%s source=%v", mf, tt.comp.ID, tt.field, tt.source)
			}
			if buf.Len() != 0 {
				t.Errorf("nothing should be written on failure, got %q", buf.String())
			}
		})
	}
}

func TestExport_SkipInvalid(t *testing.T) {
	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.WarnLevel})

	doc := document(
		resistor("1", "a", "b", 10),
		circuit.Component{ID: "2", Type: circuit.Common("resistor")},
		circuit.Component{ID: "3", Type: circuit.Common("diode")},
		ground("4", "a"),
	)

	n, err := New(WithPolicy(SkipInvalid), WithLogger(logger)).Export(doc)
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	want := []string{"R1 a b 10", "V4 a gnd 0"}
	if strings.Join(n.Statements, "|") != strings.Join(want, "|") {
		t.Errorf("Statements = %v, want %v", n.Statements, want)
	}
	if len(n.Skipped) != 2 {
		t.Fatalf("Skipped = %v, want 2 entries", n.Skipped)
	}
	if n.Skipped[0].ComponentID != "2" || !errors.Is(n.Skipped[0].Err, ErrMissingField) {
		t.Errorf("Skipped[0] = %+v, want invalid component 2", n.Skipped[0])
	}
	if n.Skipped[1].ComponentID != "3" || n.Skipped[1].Err != nil {
		t.Errorf("Skipped[1] = %+v, want unrecognized component 3", n.Skipped[1])
	}
	if !strings.Contains(logs.String(), "skipping invalid component") {
		t.Errorf("expected warning in log, got %q", logs.String())
	}
}

func TestExport_NilDocument(t *testing.T) {
	if _, err := New().Export(nil); !errors.Is(err, ErrNilDocument) {
		t.Errorf("Export(nil) error = %v, want ErrNilDocument", err)
	}
}

func TestWrite_CRLF(t *testing.T) {
	got := export(t, document(ground("1", "x")), WithNewline(CRLF))
	want := "Test Circuit\r\n" + GeneratorComment + "\r\n\r\n" + SectionComment + "\r\nV1 x gnd 0\r\n"
	if got != want {
		t.Errorf("Write() = %q, want %q", got, want)
	}
}

func TestWrite_CustomRegistry(t *testing.T) {
	reg := DefaultRegistry()
	if err := reg.Register(Rule{
		Kind:   "inductor",
		Prefix: "L",
		Terms:  []Term{Connection("a"), Connection("b"), Property("inductance")},
	}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	doc := document(circuit.Component{
		ID:          "5",
		Type:        circuit.Common("inductor"),
		Connections: map[string]string{"a": "0", "b": "n1"},
		Properties:  map[string]any{"inductance": 0.01},
	})

	got := export(t, doc, WithRegistry(reg))
	if want := header + "L5 0_0 n1 0.01\n"; got != want {
		t.Errorf("Write() = %q, want %q", got, want)
	}

	// The default exporter does not know inductors.
	if got := export(t, doc); got != header {
		t.Errorf("default Write() = %q, want header only", got)
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write(p []byte) (int, error) { return 0, w.err }

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) / 2, nil }

func TestWrite_SinkErrors(t *testing.T) {
	sinkErr := errors.New("disk full")

	err := New().Write(failingWriter{sinkErr}, document())
	if !errors.Is(err, sinkErr) {
		t.Errorf("Write() error = %v, want wrapped %v", err, sinkErr)
	}
	if err != nil && !strings.HasPrefix(err.Error(), "write netlist:") {
		t.Errorf("Write() error = %q, want write netlist prefix", err)
	}

	if err := New().Write(shortWriter{}, document()); !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("Write() error = %v, want io.ErrShortWrite", err)
	}
}

func TestNetlist_WriteTo(t *testing.T) {
	n, err := New(WithNewline(LF)).Export(document(rail("1", "vcc", 9)))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	written, err := n.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() error: %v", err)
	}
	if written != int64(buf.Len()) {
		t.Errorf("WriteTo() = %d, buffer has %d bytes", written, buf.Len())
	}
	if buf.String() != n.String() {
		t.Errorf("WriteTo() = %q, String() = %q", buf.String(), n.String())
	}
}

func TestPackageWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, document(resistor("1", "n1", "n2", 1000))); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if !strings.Contains(buf.String(), "R1 n1 n2 1000") {
		t.Errorf("Write() = %q", buf.String())
	}
}

func TestPolicyString(t *testing.T) {
	if FailFast.String() != "fail-fast" || SkipInvalid.String() != "skip-invalid" {
		t.Errorf("Policy strings = %q, %q", FailFast, SkipInvalid)
	}
}

func TestNetlistFileType(t *testing.T) {
	if NetlistFileType.PartName != "Spice Netlist Exporter" {
		t.Errorf("PartName = %q", NetlistFileType.PartName)
	}
	if NetlistFileType.TypeName != "Text Files" {
		t.Errorf("TypeName = %q", NetlistFileType.TypeName)
	}
	if NetlistFileType.Extension != ".txt" {
		t.Errorf("Extension = %q", NetlistFileType.Extension)
	}
}
