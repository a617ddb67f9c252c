package cons

// Enforce runs the enforcement loop (§4.3): handlers in decreasing
// enforcement priority, each of its active+enabled constraints in turn,
// stopping at the first result that stops enforcement (cutoff, branched,
// reduced-domain, separated, consadded). lpSolved selects EnforceLP vs
// EnforcePseudo.
func (r *Registry) Enforce(lpSolved bool) (Result, *Constraint, error) {
	sawInfeasible := false
	for _, h := range r.byEnfo {
		var fn EnforceLPFunc
		if lpSolved {
			fn = h.EnforceLP
		} else {
			fn = EnforceLPFunc(h.EnforcePseudo)
		}
		if fn == nil {
			continue
		}
		for _, c := range h.constraints {
			if !c.Active() || !c.Enabled() {
				continue
			}
			res, err := fn(h, c)
			if err != nil {
				return Infeasible, c, err
			}
			if res == Infeasible {
				sawInfeasible = true
				continue
			}
			if res.stopsEnforcement() {
				return res, c, nil
			}
		}
	}
	if sawInfeasible {
		return Infeasible, nil, nil
	}
	return Feasible, nil, nil
}

// Check runs the checking loop (§4.3) for a candidate solution given by its
// full column-value vector: handlers in decreasing check priority, stopping
// at the first Infeasible.
func (r *Registry) Check(values []float64, checkIntegrality, checkLPRows bool) (Result, *Constraint, error) {
	for _, h := range r.byChk {
		if h.Check == nil {
			continue
		}
		for _, c := range h.constraints {
			if !c.Active() || !c.Enabled() {
				continue
			}
			res, err := h.Check(h, c, values, checkIntegrality, checkLPRows)
			if err != nil {
				return Infeasible, c, err
			}
			if res == Infeasible {
				return Infeasible, c, nil
			}
		}
	}
	return Feasible, nil, nil
}

// Propagate runs the propagation driver (§4.9/§4.3): round-robin over
// handlers whose PropFreq is positive and divides the current depth (0
// means "only before search" and is run once by the caller outside this
// loop), repeating rounds until one produces zero reductions or a handler
// signals Cutoff.
func (r *Registry) Propagate(depth int) (Result, error) {
	for {
		productive := false
		for _, h := range r.bySepa { // any stable order works; use bySepa
			if h.Propagate == nil || h.PropFreq <= 0 || depth%h.PropFreq != 0 {
				continue
			}
			for _, c := range h.constraints {
				if !c.Active() || !c.Enabled() {
					continue
				}
				res, err := h.Propagate(h, c)
				if err != nil {
					return Infeasible, err
				}
				switch res {
				case Cutoff:
					return Cutoff, nil
				case ReducedDomain, ConsAdded:
					productive = true
				}
			}
		}
		if !productive {
			return Feasible, nil
		}
	}
}
