package capability

import (
	"context"

	"github.com/flux690/nightwatch/internal/state"
)

// ReportFindingsHandler is the observe-mode terminal: it always resolves
// to Observed, since observe mode never remediates.
func ReportFindingsHandler(ctx context.Context, deps Deps, s state.IncidentResolutionState, args map[string]any) Result {
	next := s.WithResolution(state.Observed)
	return Result{State: next, Success: true}
}
