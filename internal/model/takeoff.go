package model

import "fmt"

// Category groups takeoff lines on reports.
type Category string

const (
	CategoryFraming       Category = "Framing"
	CategoryDecking       Category = "Decking"
	CategoryFasteners     Category = "Fasteners"
	CategoryFootings      Category = "Footings"
	CategoryHardware      Category = "Hardware"
	CategoryWaterproofing Category = "Waterproofing"
	CategoryRailing       Category = "Railing"
	CategoryStairs        Category = "Stairs"
	CategoryCover         Category = "Cover"
	CategoryCeiling       Category = "Ceiling"
	CategoryFence         Category = "Fence"
)

// Unit of measure for a takeoff quantity.
type Unit string

const (
	UnitEach   Unit = "ea"
	UnitLinear Unit = "lf"
	UnitSqft   Unit = "sqft"
	UnitBox    Unit = "box"
	UnitBag    Unit = "bag"
)

// PriceKey identifies a catalog price. When LengthFt is set the catalog
// price is per foot and the unit cost is scaled by the length.
type PriceKey struct {
	Base     string  `json:"base"`
	LengthFt float64 `json:"length_ft,omitempty"`
}

func (k PriceKey) String() string {
	if k.LengthFt > 0 {
		return fmt.Sprintf("%s - %gft", k.Base, k.LengthFt)
	}
	return k.Base
}

// TakeoffItem is one priced line of the bill of materials.
type TakeoffItem struct {
	Category     Category `json:"category"`
	Name         string   `json:"name"`
	PriceKey     PriceKey `json:"price_key"`
	Unit         Unit     `json:"unit"`
	Qty          float64  `json:"qty"`
	WasteFactor  float64  `json:"waste_factor"` // fraction added at rollup, not to Qty
	UnitCost     float64  `json:"unit_cost"`
	Vendor       string   `json:"vendor,omitempty"`
	LeadTimeDays int      `json:"lead_time_days"`
	Notes        string   `json:"notes"`
	IsAllowance  bool     `json:"is_allowance"`
}

// Key identifies the line across takeoff versions.
func (i TakeoffItem) Key() string {
	return string(i.Category) + "|" + i.Name
}

// LineTotal returns qty * (1 + waste) * unit cost, unrounded.
func (i TakeoffItem) LineTotal() float64 {
	return Finite(i.Qty*(1+i.WasteFactor)*i.UnitCost, 0)
}

// MaterialsSubtotal sums line totals and rounds once at the end.
func MaterialsSubtotal(items []TakeoffItem) float64 {
	totals := make([]float64, len(items))
	for i, it := range items {
		totals[i] = it.LineTotal()
	}
	return SumRound2(totals...)
}

// TakeoffAssumptions records the formulas and constants used for a takeoff
// so a reviewer can audit where each quantity came from.
type TakeoffAssumptions struct {
	JoistMaterial           string            `json:"joist_material"`
	BagsPerFooting          float64           `json:"bags_per_footing"`
	ScrewBoxesPer100Sqft    float64           `json:"screws_per_100_sqft"`
	Formulas                map[string]string `json:"formulas"`
	Constants               map[string]any    `json:"constants"`
	NonStructuralDisclaimer bool              `json:"non_structural_disclaimer"`
}

// TakeoffTotals summarizes a takeoff.
type TakeoffTotals struct {
	DeckSqft          float64 `json:"deck_sqft"` // fence face area in fence mode
	MaterialsSubtotal float64 `json:"materials_subtotal"`
	ItemCount         int     `json:"item_count"`
	AllowanceCount    int     `json:"allowance_count"`
	StockOverageFt    float64 `json:"stock_overage_ft"` // joist, rim, beam and board offcuts
}

// TakeoffResult is the output of one takeoff generation. A new version is
// a new result, never a mutation of an old one.
type TakeoffResult struct {
	DesignMode  DesignMode         `json:"design_mode"`
	Assumptions TakeoffAssumptions `json:"assumptions"`
	Items       []TakeoffItem      `json:"items"`
	Totals      TakeoffTotals      `json:"totals"`
	Geometry    *GeometryResult    `json:"geometry,omitempty"` // deck only
	Sizing      *Sizing            `json:"sizing,omitempty"`   // deck only
	Incomplete  bool               `json:"incomplete,omitempty"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// FindItem returns the first item matching the category whose name
// satisfies match, or nil.
func (r TakeoffResult) FindItem(cat Category, match func(name string) bool) *TakeoffItem {
	for i := range r.Items {
		if r.Items[i].Category == cat && (match == nil || match(r.Items[i].Name)) {
			return &r.Items[i]
		}
	}
	return nil
}

// ItemsIn returns the items of one category in takeoff order.
func (r TakeoffResult) ItemsIn(cat Category) []TakeoffItem {
	var out []TakeoffItem
	for _, it := range r.Items {
		if it.Category == cat {
			out = append(out, it)
		}
	}
	return out
}
