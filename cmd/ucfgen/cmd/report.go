package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/ucfgen/pkg/constraint"
	"github.com/OpenTraceLab/ucfgen/pkg/model"
)

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report <netlist> [ref]",
		Short: "Show constraint candidates or trace one component",
		Long: `Without a reference, list the components that would get a constraint
block. With a reference, show for each of its pins the reduced net class,
the device pins it lands on, the pulls on it and the bound signal name.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.build(args[0])
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return renderCandidates(cmd.OutOrStdout(), p)
			}
			rows, err := p.emitter.Trace(args[1])
			if err != nil {
				return err
			}
			renderTrace(cmd.OutOrStdout(), args[1], rows)
			return nil
		},
	}
}

func renderCandidates(w io.Writer, p *pipeline) error {
	comps, err := p.emitter.Candidates()
	if err != nil {
		return err
	}
	device, err := p.sch.TargetDevice()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Target device: %s (%s)\n", device.Ref, device.Part)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Ref", "Part", "Value", "Direction", "Kind"})
	for _, c := range comps {
		t.AppendRow(table.Row{c.Ref, c.Part, c.Value(), c.Field(model.FieldDirection), kind(p, c)})
	}
	t.Render()
	return nil
}

func kind(p *pipeline, c *model.Component) string {
	var k []string
	if p.sch.IsConnector(c) {
		k = append(k, "connector")
	}
	if h, ok := p.reg.Handler(c.Part); ok && h.Semantics != nil {
		if h.Semantics.Kind != "" {
			k = append(k, h.Semantics.Kind)
		} else {
			k = append(k, "semantics")
		}
	}
	return strings.Join(k, ", ")
}

func renderTrace(w io.Writer, ref string, rows []constraint.TraceRow) {
	_, _ = fmt.Fprintf(w, "Component %s\n", ref)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Pin", "Description", "Net", "Class", "Device", "Pulls", "Signal", "IO Standard", "Problem"})
	for _, r := range rows {
		t.AppendRow(table.Row{
			r.Pin.String(),
			r.Description,
			r.Net,
			r.Class,
			strings.Join(r.DevicePins, " "),
			strings.Join(r.Pulls, "\n"),
			r.Signal,
			r.IOStandard,
			r.Problem,
		})
	}
	t.Render()
}
