package constraint

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/ucfgen/pkg/model"
	"github.com/OpenTraceLab/ucfgen/pkg/model/modeltest"
	"github.com/OpenTraceLab/ucfgen/pkg/parts"
	"github.com/OpenTraceLab/ucfgen/pkg/reduce"
)

const fpga = "XC6SLX45-CSG324"

func board(t *testing.T) *modeltest.Builder {
	t.Helper()
	return modeltest.New(t).Passives().
		Part(fpga, "A1:IO_L1P", "B1:IO_L1N", "C1:IO_L2P", "D1:IO_L2N", "E1:IO_L3P").
		Part("HDMI", "1:D0+", "3:D0-", "15:SCL", "17:DDC/CEC/HEC", "18:+5V", "19:RESERVED").
		Part("PMOD", "1:IO1", "5:GND").
		Comp("U1", fpga)
}

func goodBoard(t *testing.T) *model.Schematic {
	t.Helper()
	return board(t).
		Comp("J1", "HDMI", "Value=HDMI").
		Comp("J2", "PMOD", "Direction=out").
		Comp("J3", "HDMI").
		Comp("R1", "R", "Value=10k").
		Comp("R2", "R", "Value=DNP").
		Comp("R3", "R", "Value=33R").
		Comp("C1", "C", "Value=100p").
		Net("TMDS0_P", "J1.1", "R3.1").
		Net("FPGA_TMDS0_P", "R3.2", "U1.A1").
		Net("TMDS0_N", "J1.3", "U1.B1").
		Net("HDMI_SCL", "J1.15", "R1.1", "R2.1", "C1.1", "U1.C1").
		Net("HDMI_5V", "J1.18").
		Net("PMOD_IO1", "J2.1", "U1.D1").
		Net("VCC3V3", "R1.2").
		Net("GND", "R2.2", "C1.2", "J1.17", "J2.5").
		Schematic()
}

func emitter(t *testing.T, s *model.Schematic, opts ...Option) *Emitter {
	t.Helper()
	reg, err := parts.Default()
	require.NoError(t, err)
	res, err := reduce.New(s, reg).ReduceAll()
	require.NoError(t, err)
	return New(s, reg, res, opts...)
}

const want = `# J1 - connector HDMI
NET "hdmi_j1_p[0]"         LOC = A1  IOSTANDARD = TMDS_33;
NET "hdmi_j1_n[0]"         LOC = B1  IOSTANDARD = TMDS_33;
# hdmi_j1_scl is strongly pulled to VCC3V3 by R1 (10k)
# hdmi_j1_scl is pulled to GND by R2 (DNP), strength unknown
NET "hdmi_j1_scl"          LOC = C1  IOSTANDARD = LVCMOS33;

# J2 - connector PMOD - Direction out
NET "pmod_j2_io[1]"        LOC = D1  IOSTANDARD = LVCMOS33;

`

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer
	n, err := emitter(t, goodBoard(t)).WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, buf.String())
	assert.Equal(t, int64(len(want)), n)
}

func TestOutputIsDeterministic(t *testing.T) {
	var first, second bytes.Buffer
	_, err := emitter(t, goodBoard(t)).WriteTo(&first)
	require.NoError(t, err)
	_, err = emitter(t, goodBoard(t)).WriteTo(&second)
	require.NoError(t, err)
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestCandidates(t *testing.T) {
	comps, err := emitter(t, goodBoard(t)).Candidates()
	require.NoError(t, err)
	var refs []string
	for _, c := range comps {
		refs = append(refs, c.Ref)
	}
	// J3 has no fields and sorts before J1 within HDMI.
	assert.Equal(t, []string{"J3", "J1", "J2"}, refs)
}

func TestNameWidth(t *testing.T) {
	e := emitter(t, goodBoard(t), WithNameWidth(0))
	blocks, err := e.Plan()
	require.NoError(t, err)
	out := e.Render(blocks)
	assert.Contains(t, out, "NET \"hdmi_j1_scl\" LOC = C1  IOSTANDARD = LVCMOS33;\n")
}

func TestPullThreshold(t *testing.T) {
	e := emitter(t, goodBoard(t), WithPullThreshold(5000))
	blocks, err := e.Plan()
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, []string{
		"# hdmi_j1_scl is weakly pulled to VCC3V3 by R1 (10k)",
		"# hdmi_j1_scl is pulled to GND by R2 (DNP), strength unknown",
	}, blocks[0].Records[2].Notes)
}

func TestUnresolvedSemanticsWritesNothing(t *testing.T) {
	s := board(t).
		Comp("J4", "HDMI").
		Net("RSVD", "J4.19", "U1.E1").
		Schematic()

	var buf bytes.Buffer
	_, err := emitter(t, s).WriteTo(&buf)
	require.ErrorIs(t, err, model.ErrUnresolvedPinSemantics)
	assert.Zero(t, buf.Len())

	var ue *model.UnresolvedPinSemanticsError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "J4", ue.Component)
	assert.Equal(t, "RESERVED", ue.Description)
}

func TestConnectorWithoutFamily(t *testing.T) {
	s := board(t).
		Part("CONN_01X02", "1:P1", "2:P2").
		Comp("J9", "CONN_01X02").
		Net("X", "J9.1", "U1.A1").
		Schematic()

	_, err := emitter(t, s).Plan()
	assert.ErrorIs(t, err, model.ErrUnresolvedPinSemantics)
}

func TestMissingTargetDevice(t *testing.T) {
	s := modeltest.New(t).Passives().
		Part("HDMI", "1:D0+").
		Comp("J1", "HDMI").
		Net("A", "J1.1").
		Schematic()

	var buf bytes.Buffer
	_, err := emitter(t, s).WriteTo(&buf)
	assert.ErrorIs(t, err, model.ErrAmbiguousDevice)
	assert.Zero(t, buf.Len())
}

func TestClassifyPull(t *testing.T) {
	tests := []struct {
		value string
		want  Strength
	}{
		{"10k", StrengthStrong},
		{"4k7", StrengthStrong},
		{"10001", StrengthWeak},
		{"10.1k", StrengthWeak},
		{"100k", StrengthWeak},
		{"DNP", StrengthUnknown},
		{"", StrengthUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPull(tt.value, DefaultPullThresholdOhms))
		})
	}
}

func TestVoltageDividerNotes(t *testing.T) {
	s := modeltest.New(t).Passives().
		Part(fpga, "A1").
		Part("PMOD", "1:IO1").
		Comp("U1", fpga).
		Comp("J1", "PMOD").
		Comp("R1", "R", "Value=10k").
		Comp("R2", "R", "Value=100k").
		Net("N1", "J1.1", "R1.1", "R2.1", "U1.A1").
		Net("GND", "R1.2").
		Net("VCC", "R2.2").
		Schematic()

	blocks, err := emitter(t, s).Plan()
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Records, 1)
	assert.Equal(t, []string{
		"# pmod_j1_io[1] is strongly pulled to GND by R1 (10k)",
		"# pmod_j1_io[1] is weakly pulled to VCC by R2 (100k)",
	}, blocks[0].Records[0].Notes)
}

func TestTrace(t *testing.T) {
	e := emitter(t, goodBoard(t))
	rows, err := e.Trace("J1")
	require.NoError(t, err)
	require.Len(t, rows, 6)

	scl := rows[2]
	assert.Equal(t, "15", scl.Pin.String())
	assert.Equal(t, "HDMI_SCL", scl.Net)
	assert.Equal(t, "(HDMI_SCL)", scl.Class)
	assert.Equal(t, []string{"C1"}, scl.DevicePins)
	assert.Equal(t, []string{"C1 -> GND (100p)", "R1 -> VCC3V3 (10k)", "R2 -> GND (DNP)"}, scl.Pulls)
	assert.Equal(t, "hdmi_j1_scl", scl.Signal)
	assert.Equal(t, "LVCMOS33", scl.IOStandard)

	gnd := rows[3]
	assert.Equal(t, "GND", gnd.Net)
	assert.Empty(t, gnd.Class)

	rsvd := rows[5]
	assert.Empty(t, rsvd.Net)
	assert.Empty(t, rsvd.Problem)

	_, err = e.Trace("J99")
	assert.ErrorIs(t, err, model.ErrStructural)
}

func TestTraceReportsProblems(t *testing.T) {
	s := board(t).
		Comp("J4", "HDMI").
		Net("RSVD", "J4.19", "U1.E1").
		Schematic()

	rows, err := emitter(t, s).Trace("J4")
	require.NoError(t, err)
	var problems int
	for _, r := range rows {
		if r.Problem != "" {
			problems++
			assert.Equal(t, "19", r.Pin.String())
		}
	}
	assert.Equal(t, 1, problems)
}
