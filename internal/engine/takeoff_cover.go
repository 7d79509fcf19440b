package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/DeckTakeoff/internal/model"
)

// Roof area multipliers for sheathing and roofing overlap.
const (
	sheathingFactor      = 1.05
	roofingFactor        = 1.10
	ceilingSqftPerUnit   = 20
	defaultRafterSpacing = 16
)

var ceilingFinishes = map[string]string{
	"drywall":       "Ceiling drywall",
	"tongue_groove": "Ceiling tongue & groove",
	"beadboard":     "Ceiling beadboard",
}

// coverItems lists the roof, ceiling and cover framing lines. Nothing is
// emitted until both roof dimensions are known.
func (e *Estimator) coverItems(c model.CoverPackage, postSize model.PostSize, waste float64) []model.TakeoffItem {
	area := c.RoofAreaSqft()
	if area <= 0 {
		return nil
	}
	spacing := c.RafterSpacingIn
	if spacing <= 0 {
		spacing = defaultRafterSpacing
	}
	rafters := int(math.Floor(c.RoofWidthFt*12/spacing)) + 1

	roofing := "Roofing - shingle"
	if c.RoofingMaterial == "metal" {
		roofing = "Roofing - metal"
	}
	roofNotes := joinNonEmpty("; ",
		"Roof area x 1.10",
		c.RoofType,
		prefixed("pitch ", c.RoofPitch),
		prefixed("type ", c.RoofingProductType),
		prefixed("color ", c.RoofingColor),
	)

	items := []model.TakeoffItem{
		e.price(line{
			cat: model.CategoryCover, name: "2x8 PT joist", unit: model.UnitLinear,
			qty: model.Round2(float64(rafters) * c.RoofLengthFt), waste: waste, lead: 5,
			notes: fmt.Sprintf("Rafters: %d @ %gft (%g\" O.C.)", rafters, c.RoofLengthFt, spacing),
		}),
		e.price(line{
			cat: model.CategoryCover, name: "Roof sheathing", unit: model.UnitSqft,
			qty: model.Round2(area * sheathingFactor), waste: 0.03, lead: 5,
			notes: "Roof area x 1.05",
		}),
		e.price(line{
			cat: model.CategoryCover, name: roofing, unit: model.UnitSqft,
			qty: model.Round2(area * roofingFactor), waste: 0.03, lead: 7,
			notes: roofNotes,
		}),
	}

	if finish, ok := ceilingFinishes[c.CeilingFinish]; ok {
		items = append(items,
			e.price(line{
				cat: model.CategoryCeiling, name: finish, unit: model.UnitSqft,
				qty: model.Round2(area), waste: 0.1, lead: 6,
				notes: "Ceiling finish allowance",
			}),
			e.price(line{
				cat: model.CategoryCeiling, name: "Ceiling fasteners", unit: model.UnitEach,
				qty: float64(ceilInt(area / ceilingSqftPerUnit)), lead: 2,
				notes: "1 fastener unit per 20 sqft",
			}),
		)
	}
	if c.CeilingFanPlates > 0 {
		items = append(items, e.price(line{
			cat: model.CategoryCeiling, name: "Fan-rated ceiling plate", unit: model.UnitEach,
			qty: float64(c.CeilingFanPlates), lead: 3,
			notes: "Fan-rated box and plate per ceiling fan",
		}))
	}
	if c.CoverPostCount > 0 {
		items = append(items, e.price(line{
			cat: model.CategoryCover, name: "Cover posts allowance", unit: model.UnitEach,
			qty: float64(c.CoverPostCount), lead: 7,
			notes: fmt.Sprintf("Post allowance (%s)", postSize),
		}))
	}
	if strings.TrimSpace(c.CoverBeamSize) != "" {
		items = append(items, e.price(line{
			cat: model.CategoryCover, name: "Cover beam allowance", unit: model.UnitLinear,
			qty: model.Round2(c.RoofLengthFt), lead: 7,
			notes: "Beam size allowance: " + c.CoverBeamSize,
		}))
	}
	return items
}

func prefixed(prefix, v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return prefix + v
}
