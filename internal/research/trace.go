package research

import "github.com/mohammad-safakhou/scout/models"

// synthesisSteps selects the reduced trace subset fed to the final synthesis
// call: the plan step (first step) plus the limit most recent later steps with
// a non-empty reflection, in their original order. The truncation bounds the
// synthesis prompt no matter how many rounds ran.
func synthesisSteps(steps []models.TraceStep, limit int) []models.TraceStep {
	if len(steps) == 0 {
		return nil
	}
	out := []models.TraceStep{steps[0]}

	var picked []int
	for i := len(steps) - 1; i >= 1 && len(picked) < limit; i-- {
		if steps[i].Reflection != "" {
			picked = append(picked, i)
		}
	}
	for i := len(picked) - 1; i >= 0; i-- {
		out = append(out, steps[picked[i]])
	}
	return out
}
