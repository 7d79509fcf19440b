package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/DeckTakeoff/internal/model"
)

// ComparisonScenario defines a named set of assumptions to compare.
type ComparisonScenario struct {
	Name        string
	Assumptions model.Assumptions
}

// ComparisonResult holds the takeoff and headline figures for one scenario.
type ComparisonResult struct {
	Scenario          ComparisonScenario
	Result            model.TakeoffResult
	Err               error
	MaterialsSubtotal float64
	ItemCount         int
	PostCount         int
	BeamCount         int
	OverageFt         float64
}

// CompareScenarios runs a takeoff for each scenario against the same design
// and catalog. Results keep scenario order; a failing scenario carries its
// error instead of aborting the comparison.
func CompareScenarios(scenarios []ComparisonScenario, in model.DesignInputs, catalog model.PriceCatalog) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		res, err := New(scenario.Assumptions, catalog).GenerateTakeoff(in)
		cr := ComparisonResult{Scenario: scenario, Result: res, Err: err}
		if err == nil {
			cr.MaterialsSubtotal = res.Totals.MaterialsSubtotal
			cr.ItemCount = res.Totals.ItemCount
			cr.OverageFt = res.Totals.StockOverageFt
			if res.Sizing != nil {
				cr.PostCount = res.Sizing.PostCount
				cr.BeamCount = res.Sizing.BeamCount
			}
		}
		results = append(results, cr)
	}

	return results
}

// BuildDefaultScenarios generates what-if alternatives around the current
// assumptions.
func BuildDefaultScenarios(base model.Assumptions) []ComparisonScenario {
	base = base.Normalized()
	scenarios := []ComparisonScenario{
		{Name: "Current", Assumptions: base},
	}

	// Shorter allowed span pushes more beam lines
	tight := base
	tight.MaxJoistSpanFt = math.Max(base.MaxJoistSpanFt-2, 6)
	if tight.MaxJoistSpanFt != base.MaxJoistSpanFt {
		scenarios = append(scenarios, ComparisonScenario{Name: "Tighter joist span", Assumptions: tight})
	}

	wide := base
	wide.RailingPostSpacingFt = base.RailingPostSpacingFt + 2
	scenarios = append(scenarios, ComparisonScenario{
		Name:        fmt.Sprintf("Wider railing posts (%gft)", wide.RailingPostSpacingFt),
		Assumptions: wide,
	})

	single := base
	single.FramingLengthsFt = []float64{16}
	single.BoardLengthsFt = []float64{16}
	scenarios = append(scenarios, ComparisonScenario{Name: "Single stock length 16ft", Assumptions: single})

	return scenarios
}
