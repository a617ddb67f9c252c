package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opencip/cip/defaultplugins"
	"github.com/opencip/cip/engine"
	"github.com/opencip/cip/internal/corerr"
	"github.com/opencip/cip/internal/metrics"
	"github.com/opencip/cip/plugin"
	"github.com/opencip/cip/solution"
	"github.com/opencip/cip/textfmt"
)

var solveCmd = &cobra.Command{
	Use:   "solve <problem-file>",
	Short: "Load a problem file and run the branch-and-bound search",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolve,
}

// readers lists every built-in file reader plugin, dispatched by extension.
// Concrete LP/MPS/CIP/MOP readers are out of the core's scope; textfmt is
// the CLI's own minimal demonstration format.
func readers() []plugin.Reader {
	return []plugin.Reader{textfmt.NewReader()}
}

func readerFor(path string) (plugin.Reader, error) {
	ext := filepath.Ext(path)
	for _, r := range readers() {
		for _, e := range r.Extensions() {
			if e == ext {
				return r, nil
			}
		}
	}
	return nil, corerr.New(corerr.PluginNotFound, "cip solve: no reader registered for extension "+ext)
}

func runSolve(cmd *cobra.Command, args []string) error {
	path := args[0]
	reader, err := readerFor(path)
	if err != nil {
		return err
	}
	if err := reader.Read(path); err != nil {
		return err
	}
	tr, ok := reader.(*textfmt.Reader)
	if !ok || tr.Problem == nil {
		return corerr.New(corerr.InvalidData, "cip solve: reader produced no problem")
	}

	built, err := textfmt.Build(tr.Problem)
	if err != nil {
		return err
	}

	store, err := loadParams()
	if err != nil {
		return err
	}

	branchVars := make([]defaultplugins.VarColumn, len(built.IntegerColumns))
	for i, ic := range built.IntegerColumns {
		branchVars[i] = defaultplugins.VarColumn{Var: ic.Var, Column: ic.Column}
	}
	branchPriority, _ := store.GetInt("branching/most-fractional/priority")
	branching := plugin.NewRegistry[plugin.BranchingRule]()
	if err := branching.Add(defaultplugins.NewMostFractionalBranching(branchVars, built.LP, branchPriority)); err != nil {
		return err
	}
	selPriority, _ := store.GetInt("nodeselection/dfs/stdpriority")

	sepRoot, _ := store.GetInt("separating/maxroundsroot")
	sepRounds, _ := store.GetInt("separating/maxrounds")

	e := engine.New(engine.Config{
		LP:                    built.LP,
		Handlers:              built.Handlers,
		Selector:              defaultplugins.NewDepthFirstSelector(selPriority),
		BranchingRules:        branching,
		Propagators:           plugin.NewRegistry[plugin.Propagator](),
		Separators:            plugin.NewRegistry[plugin.Separator](),
		Heuristics:            plugin.NewRegistry[plugin.Heuristic](),
		Presolvers:            plugin.NewRegistry[plugin.Presolver](),
		Params:                store,
		Store:                 solution.New(built.Maximize, 10),
		IntegerColumns:        built.IntegerColumns,
		Columns:               built.Columns,
		ObjCoefs:              built.ObjCoefs,
		Objective:             built.Objective,
		Maximize:              built.Maximize,
		Metrics:               metrics.New(),
		SeparationRoundsRoot:  sepRoot,
		SeparationRounds:      sepRounds,
		CheckIntegrality:      true,
		CheckLPRows:           true,
	})

	if err := e.Run(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "status: %s\n", e.State())
	fmt.Fprintf(os.Stdout, "nodes: %d\n", e.NodeCount())
	fmt.Fprintf(os.Stdout, "lp-solves: %d\n", e.LPSolveCount())
	fmt.Fprintf(os.Stdout, "dual-bound: %g\n", e.DualBound())
	fmt.Fprintf(os.Stdout, "primal-bound: %g\n", e.PrimalBound())
	if sol, ok := e.BestSolution(); ok {
		fmt.Fprintf(os.Stdout, "objective: %g\n", sol.Objective)
		for i, v := range sol.Values {
			if i < len(built.Columns) && built.Columns[i] != nil {
				fmt.Fprintf(os.Stdout, "  %s = %g\n", built.Columns[i].Original.Name, v)
			}
		}
	}
	return nil
}
