package engine

import (
	"github.com/piwi3910/DeckTakeoff/internal/model"
)

// EstimateTotals rolls a takeoff and labor plan up into project economics.
func EstimateTotals(items []model.TakeoffItem, labor model.LaborPlanResult, s model.EstimateSettings) model.EstimateTotals {
	return RollUp(model.MaterialsSubtotal(items), labor.TotalLaborCost, s)
}

// RollUp applies overhead, profit and tax to the two subtotals. Each stage
// is rounded to cents before the next one uses it.
func RollUp(materials, labor float64, s model.EstimateSettings) model.EstimateTotals {
	materials = model.Round2(materials)
	labor = model.Round2(labor)

	base := materials + labor
	overhead := model.Round2(base * fraction(s.OverheadPct))
	profit := model.Round2((base + overhead) * fraction(s.ProfitPct))
	preTax := model.Round2(base + overhead + profit)

	taxBase := materials
	if s.TaxMode == model.TaxGrandTotal {
		taxBase = preTax
	}
	tax := model.Round2(taxBase * fraction(s.TaxPct))

	return model.EstimateTotals{
		SubtotalMaterials: materials,
		SubtotalLabor:     labor,
		OverheadAmount:    overhead,
		ProfitAmount:      profit,
		PreTax:            preTax,
		TaxAmount:         tax,
		GrandTotal:        model.Round2(preTax + tax),
	}
}

// fraction clamps a percentage to [0,1].
func fraction(v float64) float64 {
	v = model.Finite(v, 0)
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
