package main

import (
	"github.com/opencip/cip/param"
)

// newDefaultParams registers every required parameter key (§6), with
// defaults matching the engine's own zero-configuration behavior: no
// limits, unlimited separation rounds, unlimited presolve rounds. The
// presolve driver runs until a round stalls and does not read
// presolving/maxrounds.
func newDefaultParams() *param.Store {
	s := param.NewStore()

	noMin := func(v int64) *int64 { return &v }
	_ = s.AddReal("limits/time", "wall-clock time limit in seconds, <0 unlimited", -1, nil, nil, nil)
	_ = s.AddLongInt("limits/nodes", "node limit, <0 unlimited", -1, noMin(-1), nil, nil)
	_ = s.AddReal("limits/memory", "memory limit in MB, <0 unlimited", -1, nil, nil, nil)
	_ = s.AddReal("limits/gap", "relative optimality gap at which to stop, 0 = exact", 0, nil, nil, nil)

	_ = s.AddInt("separating/maxrounds", "separation rounds per node, -1 unlimited", -1, nil, nil, nil)
	_ = s.AddInt("separating/maxroundsroot", "separation rounds at the root, -1 unlimited", -1, nil, nil, nil)

	_ = s.AddInt("presolving/maxrounds", "presolve rounds, -1 unlimited", -1, nil, nil, nil)

	_ = s.AddInt("branching/most-fractional/priority", "dispatch priority of the default branching rule", 1000, nil, nil, nil)

	_ = s.AddInt("nodeselection/dfs/stdpriority", "dispatch priority of the depth-first selector", 1000, nil, nil, nil)
	_ = s.AddInt("nodeselection/dfs/memsavepriority", "low-memory dispatch priority of the depth-first selector", 1000, nil, nil, nil)

	return s
}
