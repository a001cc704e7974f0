package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cdspice/pkg/circuit"
)

// WriteJSON encodes doc as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(doc *circuit.Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON returns the indented JSON encoding of doc.
func MarshalJSON(doc *circuit.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// ExportJSON writes doc to a JSON file at path.
func ExportJSON(doc *circuit.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}
