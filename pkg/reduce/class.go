package reduce

import (
	"sort"
	"strings"

	"github.com/OpenTraceLab/ucfgen/pkg/model"
)

// Class is one reduced connectivity class.
type Class struct {
	Members   []string
	Terminals []model.Connection
	Pulls     []model.Pull
}

// Key renders the canonical class name, e.g. "(A, B, D)".
func (c *Class) Key() string {
	return "(" + strings.Join(c.Members, ", ") + ")"
}

// TerminalsOn returns the terminals that sit on the given component, in
// pin order.
func (c *Class) TerminalsOn(ref string) []model.Connection {
	var out []model.Connection
	for _, t := range c.Terminals {
		if t.Component == ref {
			out = append(out, t)
		}
	}
	return out
}

// Contains reports whether net is a member of the class.
func (c *Class) Contains(net string) bool {
	i := sort.SearchStrings(c.Members, net)
	return i < len(c.Members) && c.Members[i] == net
}

// sameEndpoints compares terminal identities and pulls, ignoring how the
// terminals were reached.
func (c *Class) sameEndpoints(o *Class) bool {
	if len(c.Terminals) != len(o.Terminals) || len(c.Pulls) != len(o.Pulls) {
		return false
	}
	for i := range c.Terminals {
		if c.Terminals[i].Key() != o.Terminals[i].Key() {
			return false
		}
	}
	for i := range c.Pulls {
		if c.Pulls[i] != o.Pulls[i] {
			return false
		}
	}
	return true
}

func newClass(members map[string]struct{}, terminals []model.Connection, pulls map[model.Pull]struct{}) *Class {
	c := &Class{
		Members:   make([]string, 0, len(members)),
		Terminals: terminals,
		Pulls:     make([]model.Pull, 0, len(pulls)),
	}
	for m := range members {
		c.Members = append(c.Members, m)
	}
	sort.Strings(c.Members)
	sort.Slice(c.Terminals, func(i, j int) bool { return model.LessConnection(c.Terminals[i], c.Terminals[j]) })
	for p := range pulls {
		c.Pulls = append(c.Pulls, p)
	}
	sort.Slice(c.Pulls, func(i, j int) bool { return model.LessPull(c.Pulls[i], c.Pulls[j]) })
	return c
}
