// Package minimize implements the Minimizer (C8): exhaustive subset search
// over a small fix's entries, keeping the ones that still score fitness 0.
package minimize

import (
	"context"
	"sort"

	"github.com/kanso-lang/repairgo/internal/fitness"
	"github.com/kanso-lang/repairgo/internal/fix"
)

// Minimize enumerates all 2^k subsets of f's entries (k = f.Len()), scores
// each with eval, retains those with fitness 0, and returns them sorted
// ascending by subset size. Intended only for small fixes; callers are
// expected to gate on size themselves.
func Minimize(ctx context.Context, eval *fitness.Evaluator, f fix.Fix) ([]fix.Fix, error) {
	k := f.Len()
	var winners []fix.Fix

	for mask := 0; mask < (1 << k); mask++ {
		var subset fix.Fix
		for i := 0; i < k; i++ {
			if mask&(1<<i) != 0 {
				subset = append(subset, f[i])
			}
		}
		score, err := eval.Fitness(ctx, subset, nil)
		if err != nil {
			return nil, err
		}
		if score == 0 {
			winners = append(winners, subset)
		}
	}

	sort.SliceStable(winners, func(i, j int) bool {
		return winners[i].Len() < winners[j].Len()
	})
	return winners, nil
}
