package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/DeckTakeoff/internal/errors"
	"github.com/piwi3910/DeckTakeoff/internal/model"
)

// StockOptimizer picks stock lengths for a run so the purchased length
// exceeds the run by as little as possible.
//
// Lengths are handled in tenths of a foot. For a target T and longest stock
// length M the search covers totals T..T+M, which always contains a
// reachable total, so a non-empty catalog always yields a mix.
type StockOptimizer struct {
	lengths []int // tenths of a foot, ascending, unique
}

// MaxRunFt is the longest single run BestMix will solve. The search holds
// a few ints per tenth of a foot, so the ceiling bounds its memory.
const MaxRunFt = 5000

// NewStockOptimizer builds an optimizer over the given stock lengths in
// feet. Non-positive and non-finite lengths are ignored; if none remain the
// catalog is a configuration error.
func NewStockOptimizer(lengthsFt []float64) (*StockOptimizer, error) {
	seen := make(map[int]bool, len(lengthsFt))
	var lengths []int
	for _, l := range lengthsFt {
		if math.IsNaN(l) || math.IsInf(l, 0) || l <= 0 {
			continue
		}
		tenths := int(math.Round(l * 10))
		if tenths <= 0 || seen[tenths] {
			continue
		}
		seen[tenths] = true
		lengths = append(lengths, tenths)
	}
	if len(lengths) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "stock length catalog has no positive lengths: %v", lengthsFt)
	}
	sort.Ints(lengths)
	return &StockOptimizer{lengths: lengths}, nil
}

// LengthsFt returns the usable stock lengths, shortest first.
func (o *StockOptimizer) LengthsFt() []float64 {
	out := make([]float64, len(o.lengths))
	for i, l := range o.lengths {
		out[i] = float64(l) / 10
	}
	return out
}

// BestMix returns the smallest-overage mix for a single run. Among totals
// with equal overage the one with fewer pieces wins. A run of zero or less
// needs no stock; a run over MaxRunFt is an INVALID_INPUT error.
func (o *StockOptimizer) BestMix(runFt float64) (model.StockMix, error) {
	runFt = model.Finite(runFt, 0)
	if runFt <= 0 {
		return model.StockMix{}, nil
	}
	if runFt > MaxRunFt {
		return model.StockMix{}, errors.New(errors.ErrCodeInvalidInput,
			"run of %gft exceeds the %gft stock run limit", runFt, float64(MaxRunFt))
	}
	// The epsilon keeps 13.3*10 from ceiling to 134.
	target := max(1, int(math.Ceil(runFt*10-1e-9)))
	maxLen := o.lengths[len(o.lengths)-1]
	limit := target + maxLen

	// pieces[t] is the fewest pieces summing to exactly t, or -1.
	pieces := make([]int, limit+1)
	prev := make([]int, limit+1)
	used := make([]int, limit+1)
	for t := 1; t <= limit; t++ {
		pieces[t] = -1
		prev[t] = -1
	}
	for t := 1; t <= limit; t++ {
		for _, l := range o.lengths {
			from := t - l
			if from < 0 || pieces[from] < 0 {
				continue
			}
			if c := pieces[from] + 1; pieces[t] < 0 || c < pieces[t] {
				pieces[t] = c
				prev[t] = from
				used[t] = l
			}
		}
	}

	// Each total has a single overage, and pieces[t] is already the fewest
	// for that total, so the first reachable total is the answer.
	best := target
	for best < limit && pieces[best] < 0 {
		best++
	}

	counts := make(map[int]int)
	for cur := best; cur > 0 && prev[cur] >= 0; cur = prev[cur] {
		counts[used[cur]]++
	}

	mix := model.StockMix{OverageFt: model.Round2(float64(best-target) / 10)}
	for l, c := range counts {
		mix.Pieces = append(mix.Pieces, model.StockPiece{LengthFt: float64(l) / 10, Count: c})
	}
	sort.Slice(mix.Pieces, func(i, j int) bool {
		return mix.Pieces[i].LengthFt > mix.Pieces[j].LengthFt
	})
	return mix, nil
}

// Accumulate solves each run independently and sums the mixes, each taken
// repeat times. Runs are not packed against each other.
func (o *StockOptimizer) Accumulate(runsFt []float64, repeat int) (model.StockMix, error) {
	var total model.StockMix
	if repeat <= 0 {
		return total, nil
	}
	for _, run := range runsFt {
		mix, err := o.BestMix(run)
		if err != nil {
			return model.StockMix{}, err
		}
		total = total.Add(mix, repeat)
	}
	return total, nil
}
