package engine

import (
	"testing"

	"github.com/piwi3910/DeckTakeoff/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(model.DefaultAssumptions())
	require.Len(t, scenarios, 4)
	assert.Equal(t, "Current", scenarios[0].Name)
	assert.Equal(t, "Tighter joist span", scenarios[1].Name)
	assert.Equal(t, 8.0, scenarios[1].Assumptions.MaxJoistSpanFt)
	assert.Equal(t, "Wider railing posts (8ft)", scenarios[2].Name)
	assert.Equal(t, "Single stock length 16ft", scenarios[3].Name)
}

func TestBuildDefaultScenarios_SpanFloor(t *testing.T) {
	a := model.DefaultAssumptions()
	a.MaxJoistSpanFt = 6
	scenarios := BuildDefaultScenarios(a)
	for _, s := range scenarios {
		assert.NotEqual(t, "Tighter joist span", s.Name, "span is already at the floor")
	}
}

func TestCompareScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(model.DefaultAssumptions())
	results := CompareScenarios(scenarios, baseDeck(), model.DefaultCatalog())
	require.Len(t, results, len(scenarios))

	current := results[0]
	require.NoError(t, current.Err)
	assert.Equal(t, 1, current.BeamCount)
	assert.Equal(t, 8, current.PostCount)
	assert.Equal(t, current.Result.Totals.MaterialsSubtotal, current.MaterialsSubtotal)

	tight := results[1]
	require.NoError(t, tight.Err)
	assert.Equal(t, 2, tight.BeamCount)

	wide := results[2]
	require.NoError(t, wide.Err)
	assert.Equal(t, 7, wide.PostCount)

	single := results[3]
	require.NoError(t, single.Err)
	for _, it := range single.Result.Items {
		if it.PriceKey.LengthFt > 0 {
			assert.Equal(t, 16.0, it.PriceKey.LengthFt, it.Name)
		}
	}
}

func TestCompareScenarios_KeepsFailures(t *testing.T) {
	bad := model.DefaultAssumptions()
	bad.FramingLengthsFt = []float64{}
	results := CompareScenarios([]ComparisonScenario{
		{Name: "Broken", Assumptions: bad},
		{Name: "Current", Assumptions: model.DefaultAssumptions()},
	}, baseDeck(), model.DefaultCatalog())

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Greater(t, results[1].ItemCount, 0)
}
