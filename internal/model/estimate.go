package model

// TaxMode selects the base that sales tax applies to.
type TaxMode string

const (
	TaxMaterialsOnly TaxMode = "materials_only"
	TaxGrandTotal    TaxMode = "grand_total"
)

// EstimateSettings are the markup and tax fractions for an estimate.
type EstimateSettings struct {
	OverheadPct float64 `json:"overhead_pct" toml:"overhead_pct"`
	ProfitPct   float64 `json:"profit_pct" toml:"profit_pct"`
	TaxPct      float64 `json:"tax_pct" toml:"tax_pct"`
	TaxMode     TaxMode `json:"tax_mode" toml:"tax_mode"`
}

// DefaultEstimateSettings returns the standard markup.
func DefaultEstimateSettings() EstimateSettings {
	return EstimateSettings{
		OverheadPct: 0.12,
		ProfitPct:   0.15,
		TaxPct:      0.0825,
		TaxMode:     TaxMaterialsOnly,
	}
}

// EstimateTotals is the rolled-up project economics.
type EstimateTotals struct {
	SubtotalMaterials float64 `json:"subtotal_materials"`
	SubtotalLabor     float64 `json:"subtotal_labor"`
	OverheadAmount    float64 `json:"overhead_amount"`
	ProfitAmount      float64 `json:"profit_amount"`
	PreTax            float64 `json:"pre_tax"`
	TaxAmount         float64 `json:"tax_amount"`
	GrandTotal        float64 `json:"grand_total"`
}
