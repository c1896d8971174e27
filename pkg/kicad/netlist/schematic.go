package netlist

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/ucfgen/pkg/model"
)

// Schematic builds the schematic model from the export. Power flag and
// power port symbols (references starting with '#') are left out.
func (e *Export) Schematic(opts ...model.Option) (*model.Schematic, error) {
	s := model.New(opts...)

	for _, lp := range e.LibParts {
		for _, name := range append([]string{lp.Part}, lp.Aliases...) {
			part, err := lp.modelPart(name)
			if err != nil {
				return nil, fmt.Errorf("netlist: line %d: %w", lp.Line, err)
			}
			if err := s.AddPart(part); err != nil {
				return nil, fmt.Errorf("netlist: line %d: %w", lp.Line, err)
			}
		}
	}

	for _, c := range e.Components {
		if isVirtual(c.Ref) {
			continue
		}
		fields := make(map[string]string, len(c.Fields)+2)
		for k, v := range c.Fields {
			fields[k] = v
		}
		fields[model.FieldValue] = c.Value
		if c.Footprint != "" {
			fields[model.FieldFootprint] = c.Footprint
		}
		comp := &model.Component{Ref: c.Ref, Part: c.Part, Fields: fields}
		if err := s.AddComponent(comp); err != nil {
			return nil, fmt.Errorf("netlist: line %d: %w", c.Line, err)
		}
	}

	for _, n := range e.Nets {
		net := model.NewNet(n.Name)
		for _, nd := range n.Nodes {
			if isVirtual(nd.Ref) {
				continue
			}
			net.Connections = append(net.Connections, model.Connection{
				Component: nd.Ref,
				Pin:       model.ParsePinID(nd.Pin),
			})
		}
		if err := s.AddNet(net); err != nil {
			return nil, fmt.Errorf("netlist: line %d: %w", n.Line, err)
		}
	}
	return s, nil
}

func (lp LibPart) modelPart(name string) (*model.Part, error) {
	part := model.NewPart(name)
	for _, pin := range lp.Pins {
		desc := pin.Name
		if desc == "~" {
			desc = ""
		}
		if err := part.AddPin(pin.Num, desc, pin.Type); err != nil {
			return nil, err
		}
	}
	return part, nil
}

func isVirtual(ref string) bool {
	return strings.HasPrefix(ref, "#")
}
