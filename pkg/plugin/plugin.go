// Package plugin describes the netlist exporter as a Circuit Diagram plugin.
//
// Hosts list installed plugins by [Plugin.GUID] and offer each entry of
// [Plugin.Parts] in their export dialog.
package plugin

import (
	"github.com/google/uuid"

	"github.com/matzehuels/cdspice/pkg/spice"
)

// Part is one capability a plugin contributes to the host.
type Part struct {
	Name     string         `json:"name"`
	FileType spice.FileType `json:"file_type"`
}

// Plugin identifies a plugin and its parts.
type Plugin struct {
	Author  string    `json:"author"`
	GUID    uuid.UUID `json:"guid"`
	Name    string    `json:"name"`
	Version string    `json:"version"`
	Parts   []Part    `json:"parts"`
}

// SpiceGUID is the stable identifier of the Spice export plugin.
var SpiceGUID = uuid.MustParse("A273E66E-2F25-4B78-9406-D4844A55843A")

// Spice returns the descriptor of the Spice export plugin.
func Spice() Plugin {
	return Plugin{
		Author:  "Circuit Diagram",
		GUID:    SpiceGUID,
		Name:    "Spice Export",
		Version: "1.0",
		Parts: []Part{{
			Name:     spice.NetlistFileType.PartName,
			FileType: spice.NetlistFileType,
		}},
	}
}

// Part returns the part with the given name.
func (p Plugin) Part(name string) (Part, bool) {
	for _, part := range p.Parts {
		if part.Name == name {
			return part, true
		}
	}
	return Part{}, false
}
