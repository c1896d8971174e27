package netlist

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/ucfgen/pkg/kicad/sexp"
	"github.com/OpenTraceLab/ucfgen/pkg/kicad/sexp/kicadsexp"
)

// SupportedVersions lists the export format versions the reader accepts.
var SupportedVersions = []string{"D", "E"}

// ParseFile reads and parses a netlist export file.
func ParseFile(filename string) (*Export, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("netlist: %w", err)
	}
	defer file.Close()

	exp, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return exp, nil
}

// Parse reads a netlist export from r.
func Parse(r io.Reader) (*Export, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("netlist: %w", err)
	}
	if len(sexps) == 0 {
		return nil, fmt.Errorf("netlist: empty file")
	}

	root := sexps[0]
	rootName, err := sexp.GetNodeName(root)
	if err != nil {
		return nil, fmt.Errorf("netlist: root node: %w", err)
	}
	if rootName != "export" {
		return nil, fmt.Errorf("netlist: not a KiCad netlist export: expected 'export', got '%s'", rootName)
	}

	exp := &Export{}
	if err := parseHeader(root, exp); err != nil {
		return nil, err
	}

	if node, found := sexp.FindNode(root, "components"); found {
		for _, c := range sexp.FindAllNodes(node, "comp") {
			comp, err := parseComponent(c)
			if err != nil {
				return nil, err
			}
			exp.Components = append(exp.Components, comp)
		}
	}

	if node, found := sexp.FindNode(root, "libparts"); found {
		for _, lp := range sexp.FindAllNodes(node, "libpart") {
			part, err := parseLibPart(lp)
			if err != nil {
				return nil, err
			}
			exp.LibParts = append(exp.LibParts, part)
		}
	}

	if node, found := sexp.FindNode(root, "nets"); found {
		for _, n := range sexp.FindAllNodes(node, "net") {
			net, err := parseNet(n)
			if err != nil {
				return nil, err
			}
			exp.Nets = append(exp.Nets, net)
		}
	}

	return exp, nil
}

func parseHeader(root kicadsexp.Sexp, exp *Export) error {
	version, ok := sexp.ChildValue(root, "version")
	if !ok {
		return fmt.Errorf("netlist: missing required 'version'")
	}
	supported := false
	for _, v := range SupportedVersions {
		if version == v {
			supported = true
		}
	}
	if !supported {
		return fmt.Errorf("netlist: unsupported export version %q", version)
	}
	exp.Version = version

	if design, found := sexp.FindNode(root, "design"); found {
		exp.Source, _ = sexp.ChildValue(design, "source")
		exp.Date, _ = sexp.ChildValue(design, "date")
		exp.Tool, _ = sexp.ChildValue(design, "tool")
	}
	return nil
}

func parseComponent(node kicadsexp.Sexp) (Component, error) {
	comp := Component{Fields: make(map[string]string), Line: sexp.Line(node)}

	ref, ok := sexp.ChildValue(node, "ref")
	if !ok {
		return comp, fmt.Errorf("netlist: line %d: comp without ref", comp.Line)
	}
	comp.Ref = ref
	comp.Value, _ = sexp.ChildValue(node, "value")
	comp.Footprint, _ = sexp.ChildValue(node, "footprint")

	lib, found := sexp.FindNode(node, "libsource")
	if !found {
		return comp, fmt.Errorf("netlist: line %d: %s has no libsource", comp.Line, ref)
	}
	comp.Lib, _ = sexp.ChildValue(lib, "lib")
	comp.Part, ok = sexp.ChildValue(lib, "part")
	if !ok {
		return comp, fmt.Errorf("netlist: line %d: %s libsource has no part", comp.Line, ref)
	}

	if fields, found := sexp.FindNode(node, "fields"); found {
		for _, f := range sexp.FindAllNodes(fields, "field") {
			name, ok := sexp.ChildValue(f, "name")
			if !ok {
				continue
			}
			// (field (name X) value); the value is absent for empty fields
			value, _ := sexp.GetString(f, 2)
			comp.Fields[name] = value
		}
	}
	for _, p := range sexp.FindAllNodes(node, "property") {
		name, ok := sexp.ChildValue(p, "name")
		if !ok {
			continue
		}
		comp.Fields[name], _ = sexp.ChildValue(p, "value")
	}
	return comp, nil
}

func parseLibPart(node kicadsexp.Sexp) (LibPart, error) {
	lp := LibPart{Line: sexp.Line(node)}
	lp.Lib, _ = sexp.ChildValue(node, "lib")
	part, ok := sexp.ChildValue(node, "part")
	if !ok {
		return lp, fmt.Errorf("netlist: line %d: libpart without part", lp.Line)
	}
	lp.Part = part
	lp.Description, _ = sexp.ChildValue(node, "description")

	if aliases, found := sexp.FindNode(node, "aliases"); found {
		for _, a := range sexp.FindAllNodes(aliases, "alias") {
			if name, err := sexp.GetString(a, 1); err == nil {
				lp.Aliases = append(lp.Aliases, name)
			}
		}
	}

	if pins, found := sexp.FindNode(node, "pins"); found {
		for _, p := range sexp.FindAllNodes(pins, "pin") {
			num, ok := sexp.ChildValue(p, "num")
			if !ok {
				return lp, fmt.Errorf("netlist: line %d: %s pin without num", sexp.Line(p), part)
			}
			pin := Pin{Num: num}
			pin.Name, _ = sexp.ChildValue(p, "name")
			pin.Type, _ = sexp.ChildValue(p, "type")
			lp.Pins = append(lp.Pins, pin)
		}
	}
	return lp, nil
}

func parseNet(node kicadsexp.Sexp) (Net, error) {
	net := Net{Line: sexp.Line(node)}
	net.Code, _ = sexp.ChildValue(node, "code")
	name, ok := sexp.ChildValue(node, "name")
	if !ok {
		return net, fmt.Errorf("netlist: line %d: net without name", net.Line)
	}
	net.Name = name

	for _, n := range sexp.FindAllNodes(node, "node") {
		ref, okRef := sexp.ChildValue(n, "ref")
		pin, okPin := sexp.ChildValue(n, "pin")
		if !okRef || !okPin {
			return net, fmt.Errorf("netlist: line %d: node on %s needs ref and pin", sexp.Line(n), name)
		}
		nd := Node{Ref: ref, Pin: pin}
		nd.PinFunction, _ = sexp.ChildValue(n, "pinfunction")
		nd.PinType, _ = sexp.ChildValue(n, "pintype")
		net.Nodes = append(net.Nodes, nd)
	}
	return net, nil
}
