package io

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cdspice/pkg/circuit"
	"github.com/matzehuels/cdspice/pkg/errors"
	"github.com/matzehuels/cdspice/pkg/spice"
)

const rcJSON = `{
  "metadata": {"title": "RC filter", "author": "lab"},
  "components": [
    {"id": "1", "type": {"item": "resistor"}, "connections": {"a": "in", "b": "out"}, "properties": {"resistance": 1000}},
    {"id": "2", "type": {"item": "capacitor"}, "connections": {"a": "out", "b": "0"}, "properties": {"capacitance": 1e-6}},
    {"id": "3", "type": {"collection": "urn:vendor", "item": "opamp"}}
  ]
}`

const rcTOML = `
[metadata]
title = "RC filter"

[[components]]
id = "1"
type = { item = "resistor" }
connections = { a = "in", b = "out" }
properties = { resistance = 1000 }

[[components]]
id = "2"
type = { item = "capacitor" }
connections = { a = "out", b = "0" }
properties = { capacitance = 1e-6 }

[[components]]
id = "3"
type = { collection = "urn:vendor", item = "opamp" }
`

func checkRC(t *testing.T, doc *circuit.Document) {
	t.Helper()
	if doc.Metadata.Title != "RC filter" {
		t.Errorf("Title = %q", doc.Metadata.Title)
	}
	if len(doc.Components) != 3 {
		t.Fatalf("len(Components) = %d, want 3", len(doc.Components))
	}

	ids := []string{doc.Components[0].ID, doc.Components[1].ID, doc.Components[2].ID}
	if strings.Join(ids, ",") != "1,2,3" {
		t.Errorf("component order = %v", ids)
	}
	if doc.Components[0].Kind() != circuit.KindResistor {
		t.Errorf("component 1 kind = %q", doc.Components[0].Kind())
	}
	if doc.Components[1].Connections["b"] != "0" {
		t.Errorf("component 2 b = %q", doc.Components[1].Connections["b"])
	}
	if doc.Components[2].Type.Collection != "urn:vendor" || !doc.Components[2].Kind().IsUnknown() {
		t.Errorf("component 3 type = %v", doc.Components[2].Type)
	}
}

func TestReadJSON(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(rcJSON))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	checkRC(t, doc)
	if doc.Metadata.Author != "lab" {
		t.Errorf("Author = %q", doc.Metadata.Author)
	}
	if v := doc.Components[0].Properties["resistance"]; v != int64(1000) {
		t.Errorf("resistance = %v (%T)", v, v)
	}
	if v := doc.Components[1].Properties["capacitance"]; v != 1e-6 {
		t.Errorf("capacitance = %v (%T)", v, v)
	}
}

func TestReadJSONNumbers(t *testing.T) {
	tests := []struct {
		value string
		want  any
		line  string
	}{
		{"1000000", int64(1000000), "R1 n1 n2 1000000"},
		{"4700000", int64(4700000), "R1 n1 n2 4700000"},
		{"-5", int64(-5), "R1 n1 n2 -5"},
		{"12345678901234567890", json.Number("12345678901234567890"), "R1 n1 n2 12345678901234567890"},
		{"1e-6", 1e-6, "R1 n1 n2 1e-06"},
		{"4.7", 4.7, "R1 n1 n2 4.7"},
		{"1.0", 1.0, "R1 n1 n2 1"},
		{`"10k"`, "10k", "R1 n1 n2 10k"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			input := `{"metadata": {"title": "T"}, "components": [{"id": "1", "type": {"item": "resistor"},
				"connections": {"a": "n1", "b": "n2"}, "properties": {"resistance": ` + tt.value + `}}]}`
			doc, err := ReadJSON(strings.NewReader(input))
			if err != nil {
				t.Fatalf("ReadJSON() error: %v", err)
			}
			if v := doc.Components[0].Properties["resistance"]; v != tt.want {
				t.Errorf("resistance = %v (%T), want %v (%T)", v, v, tt.want, tt.want)
			}

			var buf bytes.Buffer
			if err := spice.New(spice.WithNewline(spice.LF)).Write(&buf, doc); err != nil {
				t.Fatalf("Write() error: %v", err)
			}
			if !strings.HasSuffix(buf.String(), "\n"+tt.line+"\n") {
				t.Errorf("netlist = %q, want last line %q", buf.String(), tt.line)
			}
		})
	}
}

func TestReadTOML(t *testing.T) {
	doc, err := ReadTOML(strings.NewReader(rcTOML))
	if err != nil {
		t.Fatalf("ReadTOML() error: %v", err)
	}
	checkRC(t, doc)
	if v := doc.Components[0].Properties["resistance"]; v != int64(1000) {
		t.Errorf("resistance = %v (%T)", v, v)
	}
}

func TestReadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"components": [`},
		{"missing id", `{"components": [{"type": {"item": "resistor"}}]}`},
		{"id with space", `{"components": [{"id": "R 1", "type": {"item": "resistor"}}]}`},
		{"net with space", `{"components": [{"id": "1", "connections": {"a": "my net"}}]}`},
		{"empty net", `{"components": [{"id": "1", "connections": {"a": ""}}]}`},
		{"multiline title", `{"metadata": {"title": "a\nb"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadJSON() should fail")
			}
			if !errors.Is(err, errors.ErrCodeInvalidDocument) {
				t.Errorf("error code = %v, want INVALID_DOCUMENT (%v)", errors.GetCode(err), err)
			}
		})
	}
}

func TestReadTOMLInvalid(t *testing.T) {
	_, err := ReadTOML(strings.NewReader("[[components]\nid = "))
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("ReadTOML() error = %v, want INVALID_DOCUMENT", err)
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "rc.json")
	tomlPath := filepath.Join(dir, "RC.TOML")
	if err := os.WriteFile(jsonPath, []byte(rcJSON), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tomlPath, []byte(rcTOML), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{jsonPath, tomlPath} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			doc, err := Import(path)
			if err != nil {
				t.Fatalf("Import() error: %v", err)
			}
			checkRC(t, doc)
		})
	}
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"unsupported extension", filepath.Join(dir, "rc.yaml"), errors.ErrCodeUnsupported},
		{"missing file", filepath.Join(dir, "absent.json"), errors.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(tt.path)
			if !errors.Is(err, tt.code) {
				t.Errorf("Import(%s) error = %v, want code %s", tt.path, err, tt.code)
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(rcJSON))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.json")
	if err := ExportJSON(doc, path); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}

	again, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	checkRC(t, again)

	a, _ := MarshalJSON(doc)
	b, _ := MarshalJSON(again)
	if !bytes.Equal(a, b) {
		t.Errorf("round trip changed document:\n%s\n%s", a, b)
	}
}

func TestWriteJSON(t *testing.T) {
	doc := &circuit.Document{
		Metadata:   circuit.Metadata{Title: "t"},
		Components: []circuit.Component{{ID: "1", Type: circuit.Common("ground"), Connections: map[string]string{"com": "0"}}},
	}

	var buf bytes.Buffer
	if err := WriteJSON(doc, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"item": "ground"`) {
		t.Errorf("WriteJSON() = %s", buf.String())
	}
}
