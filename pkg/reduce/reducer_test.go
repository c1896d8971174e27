package reduce

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/ucfgen/pkg/model"
	"github.com/OpenTraceLab/ucfgen/pkg/model/modeltest"
	"github.com/OpenTraceLab/ucfgen/pkg/parts"
)

func registry(t *testing.T) *parts.Registry {
	t.Helper()
	r, err := parts.Default()
	require.NoError(t, err)
	return r
}

func reduceNet(t *testing.T, s *model.Schematic, name string) (*Class, error) {
	t.Helper()
	n, ok := s.Net(name)
	require.True(t, ok, name)
	return New(s, registry(t)).Reduce(n)
}

func keys(conns []model.Connection) []string {
	out := make([]string, len(conns))
	for i, c := range conns {
		out[i] = c.String()
	}
	return out
}

func TestVoltageDivider(t *testing.T) {
	s := modeltest.New(t).Passives().
		Comp("R1", "R", "Value=10k").
		Comp("R2", "R", "Value=100k").
		Net("N1", "R1.1", "R2.1").
		Net("GND", "R1.2").
		Net("VCC3V3", "R2.2").
		Schematic()

	c, err := reduceNet(t, s, "N1")
	require.NoError(t, err)
	assert.Equal(t, []string{"N1"}, c.Members)
	assert.Equal(t, "(N1)", c.Key())
	assert.Empty(t, c.Terminals)
	assert.Equal(t, []model.Pull{
		{Net: "N1", Via: "R1", To: "GND"},
		{Net: "N1", Via: "R2", To: "VCC3V3"},
	}, c.Pulls)
}

func chain(t *testing.T) *model.Schematic {
	return modeltest.New(t).Passives().
		Part("XC6SLX9-TQG144", "5:IO_L1P", "6:IO_L1N").
		Comp("R1", "R", "Value=33").
		Comp("C1", "C", "Value=100n").
		Comp("R2", "R", "Value=4k7").
		Comp("U1", "XC6SLX9-TQG144").
		Net("A", "R1.1").
		Net("B", "R1.2", "C1.1", "R2.1").
		Net("D", "C1.2", "U1.5").
		Net("GND", "R2.2").
		Schematic()
}

func TestPassThroughChain(t *testing.T) {
	c, err := reduceNet(t, chain(t), "A")
	require.NoError(t, err)
	assert.Equal(t, "(A, B, D)", c.Key())
	assert.Equal(t, []string{"U1.5"}, keys(c.Terminals))
	assert.Equal(t, model.Via{Component: "C1", Net: "D"}, c.Terminals[0].Via)
	assert.Equal(t, []model.Pull{{Net: "B", Via: "R2", To: "GND"}}, c.Pulls)
	assert.True(t, c.Contains("B"))
	assert.False(t, c.Contains("GND"))
}

func TestReductionIsConfluent(t *testing.T) {
	s := chain(t)
	first, err := reduceNet(t, s, "A")
	require.NoError(t, err)

	for _, start := range []string{"B", "D"} {
		t.Run(start, func(t *testing.T) {
			c, err := reduceNet(t, s, start)
			require.NoError(t, err)
			assert.Equal(t, first.Key(), c.Key())
			assert.Equal(t, keys(first.Terminals), keys(c.Terminals))
			assert.Equal(t, first.Pulls, c.Pulls)
			assert.True(t, first.sameEndpoints(c))
		})
	}
}

func TestPowerNetsNeverMerged(t *testing.T) {
	s := chain(t)
	res, err := New(s, registry(t)).ReduceAll()
	require.NoError(t, err)

	_, ok := res.ClassOf("GND")
	assert.False(t, ok)
	for _, c := range res.Classes() {
		for _, m := range c.Members {
			n, _ := s.Net(m)
			assert.False(t, n.IsPower(), "%s in %s", m, c.Key())
		}
	}

	gnd, _ := s.Net("GND")
	_, err = New(s, registry(t)).Reduce(gnd)
	assert.ErrorIs(t, err, ErrPowerNet)
}

func TestSelfMerge(t *testing.T) {
	s := modeltest.New(t).Passives().
		Comp("R1", "R").
		Comp("R2", "R").
		Net("A", "R1.1", "R2.1").
		Net("B", "R1.2", "R2.2").
		Schematic()

	_, err := reduceNet(t, s, "A")
	assert.ErrorIs(t, err, model.ErrStructural)
}

func TestPassiveLoop(t *testing.T) {
	s := modeltest.New(t).Passives().
		Comp("R1", "R").
		Comp("R2", "R").
		Comp("R3", "R").
		Net("A", "R1.1").
		Net("B", "R1.2", "R2.1", "R3.1").
		Net("C", "R2.2", "R3.2").
		Schematic()

	for _, start := range []string{"A", "B", "C"} {
		_, err := reduceNet(t, s, start)
		assert.ErrorIs(t, err, model.ErrStructural, start)
	}
}

func TestUnknownPassivePin(t *testing.T) {
	s := modeltest.New(t).
		Part("R", "1", "2", "3").
		Comp("R1", "R").
		Net("A", "R1.3").
		Schematic()

	_, err := reduceNet(t, s, "A")
	assert.ErrorIs(t, err, model.ErrUnknownPin)
}

func TestUnwiredOtherSide(t *testing.T) {
	s := modeltest.New(t).Passives().
		Comp("R1", "R").
		Net("A", "R1.1").
		Schematic()

	_, err := reduceNet(t, s, "A")
	assert.ErrorIs(t, err, model.ErrStructural)
}

func TestCrossbarAndNetwork(t *testing.T) {
	crossbar := make([]string, 38)
	for i := range crossbar {
		crossbar[i] = strconv.Itoa(i + 1)
	}
	s := modeltest.New(t).Passives().
		Part("IP4776CZ38", crossbar...).
		Part("HDMI", "1:D2+", "3:D2-").
		Part("XC6SLX45-CSG324", "A1:IO_L1P", "B1:IO_L1N").
		Comp("J1", "HDMI").
		Comp("U2", "IP4776CZ38").
		Comp("RN1", "RES_NET4", "Value=10k").
		Comp("U1", "XC6SLX45-CSG324").
		Net("TMDS_P", "J1.1", "U2.16", "U2.1").
		Net("FPGA_P", "U2.23", "RN1.3").
		Net("FPGA_P_R", "RN1.4", "U1.A1").
		Net("TMDS_N", "J1.3", "U2.17").
		Net("FPGA_N", "U2.22", "U1.B1").
		Schematic()

	c, err := reduceNet(t, s, "TMDS_P")
	require.NoError(t, err)
	assert.Equal(t, "(FPGA_P, FPGA_P_R, TMDS_P)", c.Key())
	assert.Equal(t, []string{"J1.1", "U1.A1", "U2.1"}, keys(c.Terminals))
	assert.Equal(t, []string{"U1.A1"}, keys(c.TerminalsOn("U1")))

	c, err = reduceNet(t, s, "FPGA_N")
	require.NoError(t, err)
	assert.Equal(t, "(FPGA_N, TMDS_N)", c.Key())
	assert.Equal(t, []string{"J1.3", "U1.B1"}, keys(c.Terminals))
}

func TestReduceAll(t *testing.T) {
	s := modeltest.New(t).Passives().
		Part("XC6SLX9-TQG144", "5", "6").
		Comp("R1", "R", "Value=10k").
		Comp("R2", "R", "Value=1k").
		Comp("U1", "XC6SLX9-TQG144").
		Net("A", "R1.1", "U1.5").
		Net("B", "R1.2").
		Net("C", "U1.6", "R2.1").
		Net("VCC", "R2.2").
		Schematic()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	res, err := New(s, registry(t), WithLogger(logger)).ReduceAll()
	require.NoError(t, err)

	classes := res.Classes()
	require.Len(t, classes, 2)
	assert.Equal(t, "(A, B)", classes[0].Key())
	assert.Equal(t, "(C)", classes[1].Key())

	a, ok := res.ClassOf("B")
	require.True(t, ok)
	assert.Same(t, classes[0], a)

	assert.Contains(t, logs.String(), "msg=merge")
	assert.Contains(t, logs.String(), "msg=pull")

	data, err := res.ExportJSON()
	require.NoError(t, err)
	var decoded struct {
		ClassCount int `json:"class_count"`
		NetCount   int `json:"net_count"`
		Classes    []struct {
			Name  string `json:"name"`
			Pulls []struct {
				Via string `json:"via"`
				To  string `json:"to"`
			} `json:"pulls"`
		} `json:"classes"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.ClassCount)
	assert.Equal(t, 3, decoded.NetCount)
	require.Len(t, decoded.Classes[1].Pulls, 1)
	assert.Equal(t, "R2", decoded.Classes[1].Pulls[0].Via)
	assert.Equal(t, "VCC", decoded.Classes[1].Pulls[0].To)
}

func TestSameEndpoints(t *testing.T) {
	a := &Class{Terminals: modeltest.Conns("U1.5"), Pulls: []model.Pull{{Net: "A", Via: "R1", To: "GND"}}}
	b := &Class{Terminals: modeltest.Conns("U1.5")}
	b.Terminals[0].Via = model.Via{Component: "R9", Net: "X"}
	assert.False(t, a.sameEndpoints(b))

	b.Pulls = []model.Pull{{Net: "A", Via: "R1", To: "GND"}}
	assert.True(t, a.sameEndpoints(b))

	b.Pulls[0].To = "VCC"
	assert.False(t, a.sameEndpoints(b))
}
