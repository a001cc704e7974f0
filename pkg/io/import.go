package io

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cdspice/pkg/circuit"
	"github.com/matzehuels/cdspice/pkg/errors"
)

// Supported document file extensions.
const (
	ExtJSON = ".json"
	ExtTOML = ".toml"
)

// ReadJSON decodes a JSON document from r.
//
// Integer property values decode as int64 and other numbers as float64, the
// same types the TOML decoder produces. The returned document is independent
// of r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*circuit.Document, error) {
	var doc circuit.Document
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode JSON")
	}
	if err := normalize(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReadTOML decodes a TOML document from r.
func ReadTOML(r io.Reader) (*circuit.Document, error) {
	var doc circuit.Document
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode TOML")
	}
	if err := normalize(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ImportJSON reads a JSON document from the file at path.
func ImportJSON(path string) (*circuit.Document, error) {
	return importFile(path, ReadJSON)
}

// ImportTOML reads a TOML document from the file at path.
func ImportTOML(path string) (*circuit.Document, error) {
	return importFile(path, ReadTOML)
}

// Import reads a document, choosing the decoder from the file extension
// (.json or .toml, case-insensitive).
func Import(path string) (*circuit.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtJSON:
		return ImportJSON(path)
	case ExtTOML:
		return ImportTOML(path)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported document type %q (want .json or .toml)", filepath.Ext(path))
	}
}

func importFile(path string, read func(io.Reader) (*circuit.Document, error)) (*circuit.Document, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	doc, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func normalize(doc *circuit.Document) error {
	if err := errors.ValidateTitle(doc.Metadata.Title); err != nil {
		return err
	}
	for i := range doc.Components {
		c := &doc.Components[i]
		if err := errors.ValidateComponentID(c.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "component #%d", i+1)
		}
		if c.Type.Collection == "" {
			c.Type.Collection = circuit.CommonComponentsNamespace
		}
		for k, v := range c.Properties {
			c.Properties[k] = propertyValue(v)
		}
		for _, point := range slices.Sorted(maps.Keys(c.Connections)) {
			if err := errors.ValidateNetName(c.Connections[point]); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidDocument, err, "component %s connection %s", c.ID, point)
			}
		}
	}
	return nil
}

// propertyValue converts a JSON number to int64 when it is an integer and to
// float64 otherwise. Integers outside the int64 range keep their literal
// text. Other values are returned unchanged.
func propertyValue(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if !strings.ContainsAny(n.String(), ".eE") {
		return n
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n
}
