package engine

import (
	"math"
	"testing"

	"github.com/piwi3910/DeckTakeoff/internal/errors"
	"github.com/piwi3910/DeckTakeoff/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var standardLengths = []float64{8, 10, 12, 14, 16}

func standardOptimizer(t *testing.T) *StockOptimizer {
	t.Helper()
	opt, err := NewStockOptimizer(standardLengths)
	require.NoError(t, err)
	return opt
}

func bestMix(t *testing.T, opt *StockOptimizer, run float64) model.StockMix {
	t.Helper()
	mix, err := opt.BestMix(run)
	require.NoError(t, err)
	return mix
}

func TestStockOptimizer_RejectsEmptyCatalog(t *testing.T) {
	_, err := NewStockOptimizer([]float64{0, -4, math.NaN(), math.Inf(1)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestStockOptimizer_DedupsAndSorts(t *testing.T) {
	opt, err := NewStockOptimizer([]float64{16, 8, 8, 10})
	require.NoError(t, err)
	assert.Equal(t, []float64{8, 10, 16}, opt.LengthsFt())
}

func TestBestMix_ExactRun(t *testing.T) {
	mix := bestMix(t, standardOptimizer(t), 20)
	assert.Equal(t, 0.0, mix.OverageFt)
	assert.Equal(t, 2, mix.TotalPieces(), "20ft is two pieces at best")
	assert.InDelta(t, 20.0, mix.TotalLengthFt(), 1e-9)
}

func TestBestMix_FractionalRun(t *testing.T) {
	mix := bestMix(t, standardOptimizer(t), 13.3)
	require.Len(t, mix.Pieces, 1)
	assert.Equal(t, 14.0, mix.Pieces[0].LengthFt)
	assert.InDelta(t, 0.7, mix.OverageFt, 1e-9)
}

func TestBestMix_GapBetweenLengths(t *testing.T) {
	// 17ft cannot be hit exactly; 8+10 is the closest total above it.
	mix := bestMix(t, standardOptimizer(t), 17)
	assert.InDelta(t, 18.0, mix.TotalLengthFt(), 1e-9)
	assert.InDelta(t, 1.0, mix.OverageFt, 1e-9)
	assert.Equal(t, 1, mix.Count(8))
	assert.Equal(t, 1, mix.Count(10))
}

func TestBestMix_NoRun(t *testing.T) {
	opt := standardOptimizer(t)
	assert.Empty(t, bestMix(t, opt, 0).Pieces)
	assert.Empty(t, bestMix(t, opt, -3).Pieces)
	assert.Empty(t, bestMix(t, opt, math.NaN()).Pieces)
	assert.Equal(t, "no stock lengths", bestMix(t, opt, 0).String())
}

func TestBestMix_RunCeiling(t *testing.T) {
	opt := standardOptimizer(t)

	_, err := opt.BestMix(MaxRunFt)
	require.NoError(t, err)

	_, err = opt.BestMix(MaxRunFt + 0.1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = opt.BestMix(1e6)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = opt.Accumulate([]float64{12, 1e6}, 2)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestBestMix_NeverShort(t *testing.T) {
	opt := standardOptimizer(t)
	for run := 0.5; run <= 60; run += 0.7 {
		mix := bestMix(t, opt, run)
		assert.GreaterOrEqual(t, mix.TotalLengthFt()+1e-9, run, "run %.1f", run)
		assert.Less(t, mix.OverageFt, 8.0+1e-9, "run %.1f overage should be under the shortest stock", run)
	}
}

// bruteForceMix enumerates every multiset of stock lengths (in tenths)
// whose total reaches target without a redundant piece, and returns the
// smallest overage and, for that overage, the fewest pieces.
func bruteForceMix(lengths []int, target int) (overage, pieces int) {
	overage, pieces = -1, -1
	var walk func(from, total, count int)
	walk = func(from, total, count int) {
		if total >= target {
			over := total - target
			if overage < 0 || over < overage || (over == overage && count < pieces) {
				overage, pieces = over, count
			}
			return
		}
		for i := from; i < len(lengths); i++ {
			walk(i, total+lengths[i], count+1)
		}
	}
	walk(0, 0, 0)
	return overage, pieces
}

func TestBestMix_MatchesBruteForce(t *testing.T) {
	catalogs := [][]float64{
		standardLengths,
		{8, 12, 16},
		{10, 14},
		{7.5, 9, 13},
		{6, 20},
		{16},
	}
	for _, lengthsFt := range catalogs {
		opt, err := NewStockOptimizer(lengthsFt)
		require.NoError(t, err)
		tenths := make([]int, len(lengthsFt))
		for i, l := range lengthsFt {
			tenths[i] = int(math.Round(l * 10))
		}

		for run := 0.3; run <= 45; run += 0.9 {
			target := int(math.Ceil(run*10 - 1e-9))
			wantOver, wantPieces := bruteForceMix(tenths, target)

			mix := bestMix(t, opt, run)
			assert.InDelta(t, float64(wantOver)/10, mix.OverageFt, 1e-9, "catalog %v run %.1f overage", lengthsFt, run)
			assert.Equal(t, wantPieces, mix.TotalPieces(), "catalog %v run %.1f pieces", lengthsFt, run)
			assert.InDelta(t, float64(target+wantOver)/10, mix.TotalLengthFt(), 1e-6, "catalog %v run %.1f total", lengthsFt, run)
		}
	}
}

func TestBestMix_LongestPiecesFirst(t *testing.T) {
	mix := bestMix(t, standardOptimizer(t), 46)
	for i := 1; i < len(mix.Pieces); i++ {
		assert.Greater(t, mix.Pieces[i-1].LengthFt, mix.Pieces[i].LengthFt)
	}
}

func TestAccumulate_RepeatsMix(t *testing.T) {
	opt := standardOptimizer(t)

	mix, err := opt.Accumulate([]float64{12}, 15)
	require.NoError(t, err)
	assert.Equal(t, 15, mix.Count(12))
	assert.Equal(t, "12ft x 15", mix.String())

	none, err := opt.Accumulate([]float64{12}, 0)
	require.NoError(t, err)
	assert.Empty(t, none.Pieces)
}

func TestAccumulate_SumsRuns(t *testing.T) {
	mix, err := standardOptimizer(t).Accumulate([]float64{20, 12}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 64.0, mix.TotalLengthFt(), 1e-9)
	assert.Equal(t, 4, mix.Count(12))
	assert.Equal(t, 2, mix.Count(8))
}
