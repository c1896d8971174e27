package constraint

import (
	"errors"

	"github.com/OpenTraceLab/ucfgen/pkg/model"
)

// TraceRow describes where one pin of a component ends up.
type TraceRow struct {
	Pin         model.PinID
	Description string
	Net         string
	Class       string
	DevicePins  []string
	Pulls       []string // "R5 -> VCC3V3 (4k7)"
	Signal      string   // bound name when the pin lands on the device
	IOStandard  string
	Problem     string // semantics error, if any
}

// Trace lists every pin of ref with its class and device landings. Pin
// semantics failures are reported in the row rather than returned, so a
// trace can show every unresolved pin at once.
func (e *Emitter) Trace(ref string) ([]TraceRow, error) {
	c, ok := e.sch.Component(ref)
	if !ok {
		return nil, model.Structuralf("component "+ref, "not in schematic")
	}
	part, ok := e.sch.Part(c.Part)
	if !ok {
		return nil, model.Structuralf("component "+ref, "unknown part type %q", c.Part)
	}
	device, err := e.sch.TargetDevice()
	if err != nil {
		return nil, err
	}

	rows := make([]TraceRow, 0, len(part.Pins))
	for _, pin := range part.SortedPins() {
		row := TraceRow{Pin: pin.ID, Description: pin.Description}
		if net, ok := e.sch.PinNet(ref, pin.ID); ok {
			row.Net = net.Name
		}
		class, ok := e.pinClass(ref, pin.ID)
		if !ok {
			rows = append(rows, row)
			continue
		}
		row.Class = class.Key()
		for _, l := range class.TerminalsOn(device.Ref) {
			row.DevicePins = append(row.DevicePins, l.Pin.String())
		}
		for _, p := range class.Pulls {
			label := p.Via + " -> " + p.To
			if via, ok := e.sch.Component(p.Via); ok && via.Value() != "" {
				label += " (" + via.Value() + ")"
			}
			row.Pulls = append(row.Pulls, label)
		}
		if len(row.DevicePins) > 0 && ref != device.Ref {
			sig, err := e.reg.Resolve(part, pin.ID)
			var ue *model.UnresolvedPinSemanticsError
			switch {
			case errors.As(err, &ue):
				row.Problem = ue.Reason
			case err != nil:
				return nil, err
			case !sig.None:
				row.Signal = sig.Bind(ref)
				row.IOStandard = sig.IOStandard
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
