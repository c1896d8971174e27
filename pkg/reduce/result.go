package reduce

import (
	"encoding/json"
	"sort"

	"github.com/OpenTraceLab/ucfgen/pkg/model"
)

// Result holds every class of a schematic and the class of each member net.
type Result struct {
	classes map[string]*Class
	byNet   map[string]*Class
}

func newResult() *Result {
	return &Result{
		classes: make(map[string]*Class),
		byNet:   make(map[string]*Class),
	}
}

func (r *Result) add(c *Class) error {
	for _, m := range c.Members {
		if prev, ok := r.byNet[m]; ok {
			return model.Structuralf("net "+m, "belongs to both %s and %s", prev.Key(), c.Key())
		}
	}
	r.classes[c.Key()] = c
	for _, m := range c.Members {
		r.byNet[m] = c
	}
	return nil
}

// ClassOf returns the class a net was reduced into. Power nets have none.
func (r *Result) ClassOf(net string) (*Class, bool) {
	c, ok := r.byNet[net]
	return c, ok
}

// Classes returns all classes ordered by key.
func (r *Result) Classes() []*Class {
	out := make([]*Class, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

type jsonTerminal struct {
	Component string `json:"component"`
	Pin       string `json:"pin"`
	ViaPart   string `json:"via,omitempty"`
	ViaNet    string `json:"via_net,omitempty"`
}

type jsonPull struct {
	Net string `json:"net"`
	Via string `json:"via"`
	To  string `json:"to"`
}

type jsonClass struct {
	Name      string         `json:"name"`
	Members   []string       `json:"members"`
	Terminals []jsonTerminal `json:"terminals"`
	Pulls     []jsonPull     `json:"pulls"`
}

// ExportJSON renders all classes as indented JSON.
func (r *Result) ExportJSON() ([]byte, error) {
	classes := r.Classes()
	output := struct {
		Version    string      `json:"version"`
		ClassCount int         `json:"class_count"`
		NetCount   int         `json:"net_count"`
		Classes    []jsonClass `json:"classes"`
	}{
		Version:    "1.0",
		ClassCount: len(classes),
		NetCount:   len(r.byNet),
		Classes:    make([]jsonClass, 0, len(classes)),
	}
	for _, c := range classes {
		jc := jsonClass{
			Name:      c.Key(),
			Members:   c.Members,
			Terminals: make([]jsonTerminal, 0, len(c.Terminals)),
			Pulls:     make([]jsonPull, 0, len(c.Pulls)),
		}
		for _, t := range c.Terminals {
			jc.Terminals = append(jc.Terminals, jsonTerminal{
				Component: t.Component,
				Pin:       t.Pin.String(),
				ViaPart:   t.Via.Component,
				ViaNet:    t.Via.Net,
			})
		}
		for _, p := range c.Pulls {
			jc.Pulls = append(jc.Pulls, jsonPull{Net: p.Net, Via: p.Via, To: p.To})
		}
		output.Classes = append(output.Classes, jc)
	}
	return json.MarshalIndent(output, "", "  ")
}
