package spice

// FileType describes the exporter to hosts that build save dialogs.
type FileType struct {
	PartName  string `json:"part_name"`
	TypeName  string `json:"type_name"`
	Extension string `json:"extension"`
}

// NetlistFileType is the declaration of the netlist exporter.
var NetlistFileType = FileType{
	PartName:  "Spice Netlist Exporter",
	TypeName:  "Text Files",
	Extension: ".txt",
}
