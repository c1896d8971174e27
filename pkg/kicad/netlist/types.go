// Package netlist reads KiCad netlist exports (.net, "export" format
// versions D and E).
package netlist

// Export is the content of a netlist export file.
type Export struct {
	Version    string      // export format version, "D" or "E"
	Source     string      // schematic the export was generated from
	Date       string      // generation date as written by the tool
	Tool       string      // e.g. "Eeschema 5.1.9"
	Components []Component // placed symbols, in file order
	LibParts   []LibPart   // library part definitions
	Nets       []Net       // electrical nets
}

// Component is one placed symbol.
type Component struct {
	Ref       string
	Value     string
	Footprint string
	Lib       string            // library nickname from libsource
	Part      string            // part name from libsource
	Fields    map[string]string // user fields and properties
	Line      int
}

// LibPart is one library part definition.
type LibPart struct {
	Lib         string
	Part        string
	Aliases     []string
	Description string
	Pins        []Pin
	Line        int
}

// Pin of a library part.
type Pin struct {
	Num  string
	Name string
	Type string
}

// Net is one electrical net.
type Net struct {
	Code  string
	Name  string
	Nodes []Node
	Line  int
}

// Node is a component pin on a net.
type Node struct {
	Ref         string
	Pin         string
	PinFunction string // version E only
	PinType     string // version E only
}
