package model

import (
	"math"
	"slices"
)

// Assumptions holds the tunable constants used by sizing and takeoff.
// Zero or negative numeric values fall back to the defaults in Normalized.
type Assumptions struct {
	// Structural sizing
	MaxJoistSpanFt          float64 `json:"max_joist_span_ft" toml:"max_joist_span_ft"`
	CompositeJoistSpacingIn float64 `json:"composite_joist_spacing_in" toml:"composite_joist_spacing_in"`
	RailingPostSpacingFt    float64 `json:"railing_post_spacing_ft" toml:"railing_post_spacing_ft"`
	BeamDoublePlyLengthFt   float64 `json:"beam_double_ply_length_ft" toml:"beam_double_ply_length_ft"`
	BeamTriplePlyLengthFt   float64 `json:"beam_triple_ply_length_ft" toml:"beam_triple_ply_length_ft"`
	LargeJoistSpanFt        float64 `json:"large_joist_span_ft" toml:"large_joist_span_ft"` // spans above this get 2x10

	// Deck consumables
	DeckBagsPerFooting   float64 `json:"deck_bags_per_footing" toml:"deck_bags_per_footing"`
	ScrewBoxesPer100Sqft float64 `json:"screw_boxes_per_100_sqft" toml:"screw_boxes_per_100_sqft"`
	DefaultWaste         float64 `json:"default_waste" toml:"default_waste"`

	// Fence
	FencePostSpacingFt float64 `json:"fence_post_spacing_ft" toml:"fence_post_spacing_ft"`
	FenceRailCount     int     `json:"fence_rail_count" toml:"fence_rail_count"`
	FenceBagsPerPost   float64 `json:"fence_bags_per_post" toml:"fence_bags_per_post"`
	FenceHardwareKitLf float64 `json:"fence_hardware_kit_lf" toml:"fence_hardware_kit_lf"`
	FencePanelWidthFt  float64 `json:"fence_panel_width_ft" toml:"fence_panel_width_ft"`

	// Stock lengths available from the yard, in feet
	FramingLengthsFt []float64 `json:"framing_lengths_ft" toml:"framing_lengths_ft"`
	BoardLengthsFt   []float64 `json:"board_lengths_ft" toml:"board_lengths_ft"`

	// Fail the takeoff instead of warning when a cover package is incomplete
	RequireCompleteCoveredPackage bool `json:"require_complete_covered_package" toml:"require_complete_covered_package"`
}

// DefaultAssumptions returns the standard estimating constants.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		MaxJoistSpanFt:          10,
		CompositeJoistSpacingIn: 12,
		RailingPostSpacingFt:    6,
		BeamDoublePlyLengthFt:   14,
		BeamTriplePlyLengthFt:   24,
		LargeJoistSpanFt:        8,
		DeckBagsPerFooting:      2,
		ScrewBoxesPer100Sqft:    1,
		DefaultWaste:            0.1,
		FencePostSpacingFt:      8,
		FenceRailCount:          2,
		FenceBagsPerPost:        2,
		FenceHardwareKitLf:      50,
		FencePanelWidthFt:       8,
		FramingLengthsFt:        []float64{8, 10, 12, 14, 16},
		BoardLengthsFt:          []float64{8, 10, 12, 14, 16},
	}
}

// Normalized returns a copy with unusable values replaced by defaults.
// A nil stock length list is unset and gets the default lengths. A non-nil
// list is copied as given, so an empty one stays empty and is reported as a
// configuration error by the stock optimizer.
func (a Assumptions) Normalized() Assumptions {
	def := DefaultAssumptions()
	pos := func(v, d float64) float64 {
		v = Finite(v, 0)
		if v <= 0 {
			return d
		}
		return v
	}
	out := a
	out.MaxJoistSpanFt = pos(a.MaxJoistSpanFt, def.MaxJoistSpanFt)
	out.CompositeJoistSpacingIn = pos(a.CompositeJoistSpacingIn, def.CompositeJoistSpacingIn)
	out.RailingPostSpacingFt = pos(a.RailingPostSpacingFt, def.RailingPostSpacingFt)
	out.BeamDoublePlyLengthFt = pos(a.BeamDoublePlyLengthFt, def.BeamDoublePlyLengthFt)
	out.BeamTriplePlyLengthFt = pos(a.BeamTriplePlyLengthFt, def.BeamTriplePlyLengthFt)
	out.LargeJoistSpanFt = pos(a.LargeJoistSpanFt, def.LargeJoistSpanFt)
	out.DeckBagsPerFooting = pos(a.DeckBagsPerFooting, def.DeckBagsPerFooting)
	out.ScrewBoxesPer100Sqft = pos(a.ScrewBoxesPer100Sqft, def.ScrewBoxesPer100Sqft)
	out.DefaultWaste = math.Max(Finite(a.DefaultWaste, def.DefaultWaste), 0)
	out.FencePostSpacingFt = pos(a.FencePostSpacingFt, def.FencePostSpacingFt)
	if a.FenceRailCount < 1 {
		out.FenceRailCount = def.FenceRailCount
	}
	out.FenceBagsPerPost = pos(a.FenceBagsPerPost, def.FenceBagsPerPost)
	out.FenceHardwareKitLf = pos(a.FenceHardwareKitLf, def.FenceHardwareKitLf)
	out.FencePanelWidthFt = pos(a.FencePanelWidthFt, def.FencePanelWidthFt)
	out.FramingLengthsFt = stockLengths(a.FramingLengthsFt, def.FramingLengthsFt)
	out.BoardLengthsFt = stockLengths(a.BoardLengthsFt, def.BoardLengthsFt)
	return out
}

func stockLengths(v, def []float64) []float64 {
	if v == nil {
		return def
	}
	return slices.Clone(v)
}
