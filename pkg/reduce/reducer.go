package reduce

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/OpenTraceLab/ucfgen/pkg/model"
	"github.com/OpenTraceLab/ucfgen/pkg/parts"
)

// ErrPowerNet is returned when asked to reduce a supply or ground rail.
var ErrPowerNet = errors.New("reduce: power nets are not reduced")

// Reducer reduces nets of one schematic. It keeps no state between calls.
type Reducer struct {
	sch    *model.Schematic
	reg    *parts.Registry
	logger *slog.Logger
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithLogger logs merges and pulls at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reducer) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a reducer over sch using the pass-through rules of reg.
func New(sch *model.Schematic, reg *parts.Registry, opts ...Option) *Reducer {
	r := &Reducer{
		sch:    sch,
		reg:    reg,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reduce computes the class of one signal net.
func (r *Reducer) Reduce(origin *model.Net) (*Class, error) {
	if origin.IsPower() {
		return nil, fmt.Errorf("%w: %s", ErrPowerNet, origin.Name)
	}

	members := map[string]struct{}{origin.Name: {}}
	pulls := make(map[model.Pull]struct{})
	visited := make(map[model.ConnKey]struct{})
	var terminals []model.Connection

	queue := append([]model.Connection(nil), origin.Connections...)
	for len(queue) > 0 {
		conn := queue[0]
		queue = queue[1:]

		if _, seen := visited[conn.Key()]; seen {
			continue
		}
		visited[conn.Key()] = struct{}{}

		comp, ok := r.sch.Component(conn.Component)
		if !ok {
			return nil, model.Structuralf("net "+origin.Name, "unknown component %q", conn.Component)
		}
		otherPin, relays, err := r.reg.ConnectedPin(comp.Part, conn.Pin)
		if err != nil {
			return nil, fmt.Errorf("reduce %s: %s: %w", origin.Name, conn, err)
		}
		if !relays {
			terminals = append(terminals, conn)
			continue
		}
		if otherPin == conn.Pin {
			return nil, model.Structuralf("part "+comp.Part, "pin %s relays to itself", conn.Pin)
		}
		visited[model.ConnKey{Component: comp.Ref, Pin: otherPin}] = struct{}{}

		here, err := r.sch.NetForPin(comp.Ref, conn.Pin)
		if err != nil {
			return nil, fmt.Errorf("reduce %s: %w", origin.Name, err)
		}
		other, err := r.sch.NetForPin(comp.Ref, otherPin)
		if err != nil {
			return nil, fmt.Errorf("reduce %s: %w", origin.Name, err)
		}

		if other.IsPower() {
			p := model.Pull{Net: here.Name, Via: comp.Ref, To: other.Name}
			pulls[p] = struct{}{}
			r.logger.Debug("pull", "origin", origin.Name, "net", p.Net, "via", p.Via, "to", p.To)
			continue
		}
		if other.Name == origin.Name {
			return nil, model.Structuralf("net "+origin.Name, "merges into itself through %s", comp.Ref)
		}
		if _, merged := members[other.Name]; merged {
			return nil, model.Structuralf("net "+origin.Name, "passive loop: %s reached again through %s", other.Name, comp.Ref)
		}

		members[other.Name] = struct{}{}
		r.logger.Debug("merge", "origin", origin.Name, "net", other.Name, "via", comp.Ref)
		for _, c := range other.Connections {
			if c.Component == comp.Ref && c.Pin == otherPin {
				continue
			}
			c.Via = model.Via{Component: comp.Ref, Net: other.Name}
			queue = append(queue, c)
		}
	}

	return newClass(members, terminals, pulls), nil
}

// ReduceAll reduces every signal net in name order and cross-checks nets
// that land in an existing class.
func (r *Reducer) ReduceAll() (*Result, error) {
	res := newResult()
	for _, n := range r.sch.Nets() {
		if n.IsPower() {
			continue
		}
		c, err := r.Reduce(n)
		if err != nil {
			return nil, err
		}
		if existing, ok := res.classes[c.Key()]; ok {
			if !existing.sameEndpoints(c) {
				return nil, model.Structuralf("net "+n.Name,
					"reduction is not confluent: class %s differs when reduced from here", c.Key())
			}
			continue
		}
		if err := res.add(c); err != nil {
			return nil, err
		}
	}
	r.logger.Debug("reduced", "nets", len(res.byNet), "classes", len(res.classes))
	return res, nil
}
