package sim

import (
	"math"
	"sort"
)

// apportion splits total into integer parts proportional to weights using the largest
// remainder method. The parts always sum to total. Non-positive weights get nothing
// unless every weight is non-positive, in which case the split is even.
func apportion(total int, weights []float64) []int {
	parts := make([]int, len(weights))
	if total <= 0 || len(weights) == 0 {
		return parts
	}

	sum := 0.0
	for _, w := range weights {
		if w > 0 {
			sum += w
		}
	}
	w := weights
	if sum <= 0 {
		w = make([]float64, len(weights))
		for i := range w {
			w[i] = 1
		}
		sum = float64(len(w))
	}

	type remainder struct {
		idx  int
		frac float64
	}
	rems := make([]remainder, 0, len(w))
	assigned := 0
	for i, wi := range w {
		if wi <= 0 {
			continue
		}
		exact := float64(total) * wi / sum
		whole := math.Floor(exact)
		parts[i] = int(whole)
		assigned += parts[i]
		rems = append(rems, remainder{idx: i, frac: exact - whole})
	}

	sort.SliceStable(rems, func(i, j int) bool {
		return rems[i].frac > rems[j].frac
	})
	for i := 0; assigned < total; i++ {
		parts[rems[i%len(rems)].idx]++
		assigned++
	}
	return parts
}
