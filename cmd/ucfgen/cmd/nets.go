package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/ucfgen/pkg/reduce"
)

func newNetsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "nets <netlist>",
		Short: "List the reduced net classes",
		Long: `Reduce every signal net through passive parts and list the resulting
classes with their member nets, active terminals and pulls. Power nets are
never merged and are left out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.build(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				data, err := p.res.ExportJSON()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			renderClasses(cmd.OutOrStdout(), p.res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func renderClasses(w io.Writer, res *reduce.Result) {
	classes := res.Classes()
	if len(classes) == 0 {
		_, _ = fmt.Fprintln(w, "(0 classes)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Class", "Terminals", "Pulls"})
	for _, c := range classes {
		terms := make([]string, 0, len(c.Terminals))
		for _, term := range c.Terminals {
			terms = append(terms, term.String())
		}
		pulls := make([]string, 0, len(c.Pulls))
		for _, p := range c.Pulls {
			pulls = append(pulls, fmt.Sprintf("%s via %s to %s", p.Net, p.Via, p.To))
		}
		t.AppendRow(table.Row{c.Key(), strings.Join(terms, " "), strings.Join(pulls, "\n")})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d classes", len(classes)), "", ""})
	t.Render()
}
