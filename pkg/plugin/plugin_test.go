package plugin

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSpice(t *testing.T) {
	p := Spice()

	if p.Author != "Circuit Diagram" {
		t.Errorf("Author = %q", p.Author)
	}
	if p.Name != "Spice Export" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Version != "1.0" {
		t.Errorf("Version = %q", p.Version)
	}
	if got := strings.ToUpper(p.GUID.String()); got != "A273E66E-2F25-4B78-9406-D4844A55843A" {
		t.Errorf("GUID = %s", got)
	}
	if len(p.Parts) != 1 {
		t.Fatalf("Parts = %v, want 1", p.Parts)
	}

	part, ok := p.Part("Spice Netlist Exporter")
	if !ok {
		t.Fatal("Part(Spice Netlist Exporter) not found")
	}
	if part.FileType.Extension != ".txt" || part.FileType.TypeName != "Text Files" {
		t.Errorf("FileType = %+v", part.FileType)
	}
	if _, ok := p.Part("missing"); ok {
		t.Error("Part(missing) should not be found")
	}
}

func TestSpiceJSON(t *testing.T) {
	data, err := json.Marshal(Spice())
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if !strings.Contains(string(data), `"guid":"a273e66e-2f25-4b78-9406-d4844a55843a"`) {
		t.Errorf("JSON = %s", data)
	}
}
