package temporal

import "github.com/feltlab/timepatterns/internal/modules/actions"

// AggressionRate returns the fraction of bet/raise actions in the window,
// as a percentage in [0,100]. An empty window yields 0.
func AggressionRate(window []actions.Action) float64 {
	if len(window) == 0 {
		return 0
	}

	aggressive := 0
	for _, a := range window {
		if a.IsAggressive() {
			aggressive++
		}
	}

	return float64(aggressive) / float64(len(window)) * 100
}
