package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/ucfgen/internal/config"
)

const version = "0.3.0"

// app carries what every command shares once flags are parsed.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

// NewRootCmd builds the command tree. Each call returns an independent
// tree so tests can run commands side by side.
func NewRootCmd() *cobra.Command {
	a := &app{}
	var output string

	root := &cobra.Command{
		Use:   "ucfgen <netlist>",
		Short: "Generate FPGA pin constraints from a KiCad netlist",
		Long: `ucfgen reads a KiCad netlist export, follows every signal through
passive parts to the target FPGA and writes a UCF constraint block for
each connector or peripheral wired to it.

Examples:
  ucfgen board.net                         # constraints on stdout
  ucfgen board.net -o board.ucf            # constraints to a file
  ucfgen report board.net J1               # where each pin of J1 lands
  ucfgen nets board.net --json             # reduced net classes as JSON
  ucfgen watch board.net -o board.ucf      # regenerate on every save`,
		Version:           version,
		Args:              cobra.ExactArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(cmd.OutOrStdout(), args[0], output)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./ucfgen.yaml)")
	pf.BoolP("verbose", "v", false, "debug logging on stderr")
	pf.String("target-device", "", "regexp matching the target device part type")
	pf.StringSlice("semantics-paths", nil, "extra pin semantics files or directories")
	pf.StringSlice("passive-parts", nil, "part types treated as passive")
	pf.StringSlice("connector-prefixes", nil, "reference prefixes of connectors")
	pf.StringSlice("connector-excludes", nil, "reference prefixes that are never connectors")
	pf.StringSlice("power-vcc", nil, "substrings marking supply nets")
	pf.StringSlice("power-gnd", nil, "substrings marking ground nets")
	pf.Int("name-width", 0, "column the quoted net name is padded to")
	pf.Float64("pull-threshold-ohms", 0, "resistance above which a pull is weak")

	root.Flags().StringVarP(&output, "output", "o", "", "write constraints to a file instead of stdout")

	root.AddCommand(newReportCmd(a), newNetsCmd(a), newWatchCmd(a))
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if cfg.File != "" {
		a.logger.Debug("loaded config", "file", cfg.File)
	}
	return nil
}

// generate writes the constraint file. The output is fully planned before
// anything is written, so a failing design leaves no partial file behind.
func (a *app) generate(stdout io.Writer, netlistPath, output string) error {
	p, err := a.build(netlistPath)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := p.emitter.WriteTo(&buf); err != nil {
		return err
	}
	if output == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	a.logger.Info("wrote constraints", "file", output, "bytes", buf.Len())
	return nil
}
