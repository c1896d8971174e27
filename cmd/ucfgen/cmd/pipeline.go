package cmd

import (
	"github.com/OpenTraceLab/ucfgen/pkg/constraint"
	"github.com/OpenTraceLab/ucfgen/pkg/kicad/netlist"
	"github.com/OpenTraceLab/ucfgen/pkg/model"
	"github.com/OpenTraceLab/ucfgen/pkg/parts"
	"github.com/OpenTraceLab/ucfgen/pkg/reduce"
)

type pipeline struct {
	sch     *model.Schematic
	reg     *parts.Registry
	res     *reduce.Result
	emitter *constraint.Emitter
}

// build runs everything up to, but not including, emission.
func (a *app) build(netlistPath string) (*pipeline, error) {
	exp, err := netlist.ParseFile(netlistPath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("parsed netlist", "file", netlistPath, "version", exp.Version,
		"components", len(exp.Components), "nets", len(exp.Nets))

	cv, err := a.cfg.Conventions()
	if err != nil {
		return nil, err
	}
	sch, err := exp.Schematic(model.WithConventions(cv))
	if err != nil {
		return nil, err
	}

	reg, err := parts.Default()
	if err != nil {
		return nil, err
	}
	if len(a.cfg.SemanticsPaths) > 0 {
		if err := reg.Load(a.cfg.SemanticsPaths...); err != nil {
			return nil, err
		}
		a.logger.Debug("loaded semantics", "paths", a.cfg.SemanticsPaths, "families", len(reg.Families()))
	}

	res, err := reduce.New(sch, reg, reduce.WithLogger(a.logger)).ReduceAll()
	if err != nil {
		return nil, err
	}

	em := constraint.New(sch, reg, res,
		constraint.WithNameWidth(a.cfg.NameWidth),
		constraint.WithPullThreshold(a.cfg.PullThresholdOhms),
		constraint.WithLogger(a.logger),
	)
	return &pipeline{sch: sch, reg: reg, res: res, emitter: em}, nil
}
