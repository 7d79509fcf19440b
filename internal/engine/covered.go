package engine

import (
	"strings"

	"github.com/piwi3910/DeckTakeoff/internal/model"
)

// CoveredPackageValidation reports which roof fields a covered deck still
// needs before it can be quoted.
type CoveredPackageValidation struct {
	Ready   bool     `json:"ready"`
	Missing []string `json:"missing"`
}

// ValidateCoveredPackage checks that every field needed to order the roof
// is filled in. Missing labels are returned in a fixed order.
func ValidateCoveredPackage(c model.CoverPackage) CoveredPackageValidation {
	filled := func(s string) bool { return strings.TrimSpace(s) != "" }
	checks := []struct {
		label string
		ok    bool
	}{
		{"Roof style", filled(c.RoofType)},
		{"Roof pitch", filled(c.RoofPitch)},
		{"Roof length + width", c.RoofLengthFt > 0 && c.RoofWidthFt > 0},
		{"Roofing material + type", filled(c.RoofingMaterial) && filled(c.RoofingProductType)},
		{"Roof color", filled(c.RoofingColor)},
		{"Ceiling finish", filled(c.CeilingFinish)},
		{"Cover post count", c.CoverPostCount > 0},
		{"Cover beam size", filled(c.CoverBeamSize)},
	}

	v := CoveredPackageValidation{Missing: []string{}}
	for _, ch := range checks {
		if !ch.ok {
			v.Missing = append(v.Missing, ch.label)
		}
	}
	v.Ready = len(v.Missing) == 0
	return v
}
