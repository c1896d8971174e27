// Package constraint turns reduced connectivity into UCF pin constraints
// for the target device.
package constraint

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/OpenTraceLab/ucfgen/pkg/model"
	"github.com/OpenTraceLab/ucfgen/pkg/parts"
	"github.com/OpenTraceLab/ucfgen/pkg/reduce"
)

// Record is one NET constraint line and the pull notes that precede it.
type Record struct {
	Name       string
	DevicePin  model.PinID
	IOStandard string
	Notes      []string
}

// Block is the set of records emitted for one component.
type Block struct {
	Component *model.Component
	Records   []Record
}

// Emitter plans and writes the constraints of one schematic.
type Emitter struct {
	sch *model.Schematic
	reg *parts.Registry
	res *reduce.Result

	nameWidth int
	threshold float64
	logger    *slog.Logger
}

// New returns an emitter over a reduced schematic.
func New(sch *model.Schematic, reg *parts.Registry, res *reduce.Result, opts ...Option) *Emitter {
	e := &Emitter{
		sch:       sch,
		reg:       reg,
		res:       res,
		nameWidth: DefaultNameWidth,
		threshold: DefaultPullThresholdOhms,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Candidates returns the components whose pins may need constraints: not
// passive, not the target, and either a connector or a part type with
// pin semantics. They are ordered by part type, field values, then
// reference.
func (e *Emitter) Candidates() ([]*model.Component, error) {
	if _, err := e.sch.TargetDevice(); err != nil {
		return nil, err
	}
	var out []*model.Component
	for _, c := range e.sch.Components() {
		if e.sch.IsPassive(c) || e.sch.IsTarget(c) {
			continue
		}
		if e.sch.IsConnector(c) || e.reg.HasSemantics(c.Part) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortKey() < out[j].SortKey() })
	return out, nil
}

// Plan computes every block without writing anything.
func (e *Emitter) Plan() ([]Block, error) {
	device, err := e.sch.TargetDevice()
	if err != nil {
		return nil, err
	}
	comps, err := e.Candidates()
	if err != nil {
		return nil, err
	}

	var blocks []Block
	for _, c := range comps {
		part, ok := e.sch.Part(c.Part)
		if !ok {
			return nil, model.Structuralf("component "+c.Ref, "unknown part type %q", c.Part)
		}
		block := Block{Component: c}
		for _, pin := range part.SortedPins() {
			class, ok := e.pinClass(c.Ref, pin.ID)
			if !ok {
				continue
			}
			landings := class.TerminalsOn(device.Ref)
			if len(landings) == 0 {
				continue
			}
			sig, err := e.reg.Resolve(part, pin.ID)
			if err != nil {
				var ue *model.UnresolvedPinSemanticsError
				if errors.As(err, &ue) {
					ue.Component = c.Ref
				}
				return nil, err
			}
			if sig.None {
				e.logger.Debug("pin needs no constraint", "component", c.Ref, "pin", pin.ID.String(), "description", pin.Description)
				continue
			}
			name := sig.Bind(c.Ref)
			notes, err := e.pullNotes(name, class)
			if err != nil {
				return nil, err
			}
			for _, l := range landings {
				block.Records = append(block.Records, Record{
					Name:       name,
					DevicePin:  l.Pin,
					IOStandard: sig.IOStandard,
					Notes:      notes,
				})
			}
		}
		if len(block.Records) > 0 {
			blocks = append(blocks, block)
		}
	}
	return blocks, nil
}

// pinClass returns the reduced class of a wired signal pin.
func (e *Emitter) pinClass(ref string, pin model.PinID) (*reduce.Class, bool) {
	net, ok := e.sch.PinNet(ref, pin)
	if !ok || net.IsPower() {
		return nil, false
	}
	return e.res.ClassOf(net.Name)
}

func (e *Emitter) pullNotes(signal string, class *reduce.Class) ([]string, error) {
	var notes []string
	for _, p := range class.Pulls {
		via, ok := e.sch.Component(p.Via)
		if !ok {
			return nil, model.Structuralf("net "+p.Net, "pull through unknown component %q", p.Via)
		}
		if !e.reg.IsResistive(via.Part) {
			continue
		}
		s := ClassifyPull(via.Value(), e.threshold)
		notes = append(notes, pullNote(signal, p.To, via.Ref, via.Value(), s))
	}
	return notes, nil
}

// Render formats planned blocks.
func (e *Emitter) Render(blocks []Block) string {
	var b strings.Builder
	for _, blk := range blocks {
		b.WriteString(header(blk.Component))
		b.WriteByte('\n')
		for _, r := range blk.Records {
			for _, n := range r.Notes {
				b.WriteString(n)
				b.WriteByte('\n')
			}
			b.WriteString(e.record(r))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteTo plans the whole output and writes it in one call. Nothing is
// written when planning fails.
func (e *Emitter) WriteTo(w io.Writer) (int64, error) {
	blocks, err := e.Plan()
	if err != nil {
		return 0, err
	}
	n, err := io.WriteString(w, e.Render(blocks))
	if err != nil {
		return int64(n), fmt.Errorf("constraint: write: %w", err)
	}
	return int64(n), nil
}

func (e *Emitter) record(r Record) string {
	pad := e.nameWidth - len(r.Name)
	if pad < 0 {
		pad = 0
	}
	return fmt.Sprintf("NET \"%s\"%s LOC = %s  IOSTANDARD = %s;",
		r.Name, strings.Repeat(" ", pad), r.DevicePin, r.IOStandard)
}

func header(c *model.Component) string {
	h := fmt.Sprintf("# %s - connector %s", c.Ref, c.Part)
	if dir := c.Field(model.FieldDirection); dir != "" {
		h += " - Direction " + dir
	}
	return h
}
