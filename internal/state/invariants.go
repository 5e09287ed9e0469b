package state

// ValidGraph reports whether g satisfies its structural invariants:
// in-range endpoints, no self-loops, no cycles, and (if root is set) no
// edge pointing into it.
func ValidGraph(g IncidentGraph) bool {
	n := len(g.Nodes)
	if n == 0 {
		return g.Root == nil && len(g.Edges) == 0
	}
	adj := make([][]int, n)
	for _, e := range g.Edges {
		if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
			return false
		}
		if e.From == e.To {
			return false
		}
		adj[e.From] = append(adj[e.From], e.To)
	}
	if g.Root != nil {
		r := *g.Root
		if r < 0 || r >= n {
			return false
		}
		for _, e := range g.Edges {
			if e.To == r {
				return false
			}
		}
	}
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, n)
	var dfs func(int) bool
	dfs = func(u int) bool {
		color[u] = gray
		for _, v := range adj[u] {
			switch color[v] {
			case gray:
				return false
			case white:
				if !dfs(v) {
					return false
				}
			}
		}
		color[u] = black
		return true
	}
	for i := 0; i < n; i++ {
		if color[i] == white {
			if !dfs(i) {
				return false
			}
		}
	}
	return true
}

// ValidExecutionResult checks the FailedAtStep convention: -1 means every
// step succeeded, otherwise it must index a real, failed step.
func ValidExecutionResult(r ExecutionResult) bool {
	if r.FailedAtStep == -1 {
		for _, res := range r.Results {
			if res.Status != StepSuccess {
				return false
			}
		}
		return true
	}
	if r.FailedAtStep < 0 || r.FailedAtStep >= len(r.Results) {
		return false
	}
	if len(r.Results) != r.FailedAtStep+1 {
		return false
	}
	return r.Results[r.FailedAtStep].Status == StepFailure
}

// ValidFeasibility checks feasible ⇔ blocking_reason absent.
func ValidFeasibility(f FeasibilityAssessment) bool {
	return f.Feasible == (f.BlockingReason == nil)
}

// ValidState checks the cross-entity invariants between a resolution
// state's fields (validated-before-executed, resolved-only-after-
// verification, and so on).
func ValidState(s IncidentResolutionState) bool {
	if s.PlanValidated && s.Plan == nil {
		return false
	}
	if s.ExecutionResult != nil && (s.Plan == nil || !s.PlanValidated) {
		return false
	}
	if s.VerificationResult != nil {
		if s.ExecutionResult == nil || s.ExecutionResult.FailedAtStep != -1 {
			return false
		}
	}
	if s.Resolution == Resolved {
		verificationEmpty := s.Plan != nil && len(s.Plan.Verification) == 0
		executionOK := s.ExecutionResult != nil && s.ExecutionResult.FailedAtStep == -1
		verificationOK := s.VerificationResult != nil && s.VerificationResult.FailedAtStep == -1
		if !(verificationOK || (verificationEmpty && executionOK)) {
			return false
		}
	}
	return true
}
