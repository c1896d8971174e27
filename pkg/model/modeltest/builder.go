// Package modeltest builds small schematics for tests.
package modeltest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/ucfgen/pkg/model"
)

// Builder adds records to a schematic and fails the test on any error.
type Builder struct {
	t testing.TB
	s *model.Schematic
}

// New starts an empty schematic.
func New(t testing.TB, opts ...model.Option) *Builder {
	return &Builder{t: t, s: model.New(opts...)}
}

// Part defines a part. Pins are "num" or "num:description".
func (b *Builder) Part(name string, pins ...string) *Builder {
	b.t.Helper()
	p := model.NewPart(name)
	for _, spec := range pins {
		num, desc, _ := strings.Cut(spec, ":")
		require.NoError(b.t, p.AddPin(num, desc, "passive"))
	}
	require.NoError(b.t, b.s.AddPart(p))
	return b
}

// Passives defines R, C and RES_NET4 with their usual pins.
func (b *Builder) Passives() *Builder {
	b.t.Helper()
	return b.Part("R", "1", "2").
		Part("C", "1", "2").
		Part("RES_NET4", "1", "2", "3", "4", "5", "6", "7", "8")
}

// Comp places a component. Fields are "Name=value".
func (b *Builder) Comp(ref, part string, fields ...string) *Builder {
	b.t.Helper()
	c := &model.Component{Ref: ref, Part: part, Fields: make(map[string]string)}
	for _, f := range fields {
		k, v, _ := strings.Cut(f, "=")
		c.Fields[k] = v
	}
	require.NoError(b.t, b.s.AddComponent(c))
	return b
}

// Net adds a net. Connections are "REF.PIN".
func (b *Builder) Net(name string, conns ...string) *Builder {
	b.t.Helper()
	require.NoError(b.t, b.s.AddNet(model.NewNet(name, Conns(conns...)...)))
	return b
}

// Schematic returns the built schematic.
func (b *Builder) Schematic() *model.Schematic {
	return b.s
}

// Conns parses "REF.PIN" strings into connections.
func Conns(specs ...string) []model.Connection {
	out := make([]model.Connection, 0, len(specs))
	for _, spec := range specs {
		i := strings.LastIndex(spec, ".")
		out = append(out, model.Connection{
			Component: spec[:i],
			Pin:       model.ParsePinID(spec[i+1:]),
		})
	}
	return out
}
