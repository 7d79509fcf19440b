package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// DesignMode selects which variant of DesignInputs a payload carries.
type DesignMode string

const (
	ModeDeck  DesignMode = "deck"
	ModeFence DesignMode = "fence"
)

// ShapeMode selects how the deck footprint is described.
type ShapeMode string

const (
	ShapeRectangle ShapeMode = "rectangle"
	ShapePolygon   ShapeMode = "polygon"
)

// DeckingMaterial is the surface board material.
type DeckingMaterial string

const (
	DeckingWood      DeckingMaterial = "wood"
	DeckingComposite DeckingMaterial = "composite"
)

// LedgerSide names the rectangle side attached to the house.
type LedgerSide string

const (
	LedgerTop    LedgerSide = "top"
	LedgerRight  LedgerSide = "right"
	LedgerBottom LedgerSide = "bottom"
	LedgerLeft   LedgerSide = "left"
)

// Vertical reports whether the side runs along the deck width.
func (s LedgerSide) Vertical() bool {
	return s == LedgerLeft || s == LedgerRight
}

// PostSize is the nominal structural post dimension.
type PostSize string

const (
	Post4x4 PostSize = "4x4"
	Post6x6 PostSize = "6x6"
)

// RailingType is the guard rail product family.
type RailingType string

const (
	RailingNone     RailingType = "none"
	RailingWood     RailingType = "wood"
	RailingAluminum RailingType = "aluminum"
	RailingCable    RailingType = "cable"
)

// RailingSides describes which edges get railing.
type RailingSides string

const (
	RailingAllSides   RailingSides = "all"
	RailingThreeSides RailingSides = "3_sides"
	RailingCustom     RailingSides = "custom"
)

// Point2D represents a 2D coordinate in feet.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Outline represents a closed polygon as a sequence of 2D points.
// The outline is implicitly closed: the last point connects back to the first.
type Outline []Point2D

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	min = o[0]
	max = o[0]
	for _, p := range o[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	out := make(Outline, len(o))
	for i, p := range o {
		out[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}

// Scale multiplies every coordinate by f.
func (o Outline) Scale(f float64) Outline {
	out := make(Outline, len(o))
	for i, p := range o {
		out[i] = Point2D{X: p.X * f, Y: p.Y * f}
	}
	return out
}

// Edge returns the segment from point i to point i+1, wrapping around.
// The index is taken modulo the point count, so negative values work too.
func (o Outline) Edge(i int) (Point2D, Point2D) {
	n := len(o)
	if n == 0 {
		return Point2D{}, Point2D{}
	}
	i = ((i % n) + n) % n
	return o[i], o[(i+1)%n]
}

// Area returns the absolute shoelace area. Fewer than 3 points yields 0.
func (o Outline) Area() float64 {
	if len(o) < 3 {
		return 0
	}
	var sum float64
	for i := range o {
		a, b := o.Edge(i)
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the summed edge lengths of the closed outline.
func (o Outline) Perimeter() float64 {
	if len(o) < 2 {
		return 0
	}
	var total float64
	for i := range o {
		a, b := o.Edge(i)
		total += math.Hypot(b.X-a.X, b.Y-a.Y)
	}
	return total
}

// DesignInputs is the validated description of what is being built.
// It is implemented by DeckInputs and FenceInputs only.
type DesignInputs interface {
	Mode() DesignMode
	isDesignInputs()
}

// CoverPackage describes the roof over a covered deck. Its presence on
// DeckInputs marks the deck as covered.
type CoverPackage struct {
	RoofType           string  `json:"roof_type"`            // "shed" or "gable"
	RoofPitch          string  `json:"roof_pitch"`           // e.g. "4:12"
	RoofLengthFt       float64 `json:"roof_length_ft"`       // along the ridge
	RoofWidthFt        float64 `json:"roof_width_ft"`        // rafter direction
	RafterSpacingIn    float64 `json:"rafter_spacing_in"`    // 12, 16 or 24
	RoofingMaterial    string  `json:"roofing_material"`     // "shingle" or "metal"
	RoofingProductType string  `json:"roofing_product_type"` // e.g. "standing seam"
	RoofingColor       string  `json:"roofing_color"`
	CeilingFinish      string  `json:"ceiling_finish"`       // "none", "drywall", "tongue_groove", "beadboard"
	CeilingFanPlates   int     `json:"ceiling_fan_plates"`   // fan-rated boxes in the ceiling
	CoverPostCount     int     `json:"cover_post_count"`
	CoverBeamSize      string  `json:"cover_beam_size"`
}

// RoofAreaSqft returns the plan roof area, or 0 when either side is missing.
func (c CoverPackage) RoofAreaSqft() float64 {
	if c.RoofLengthFt <= 0 || c.RoofWidthFt <= 0 {
		return 0
	}
	return c.RoofLengthFt * c.RoofWidthFt
}

// DeckInputs describes a deck or covered deck.
type DeckInputs struct {
	LengthFt            float64         `json:"deck_length_ft"`
	WidthFt             float64         `json:"deck_width_ft"`
	HeightFt            float64         `json:"deck_height_ft"`
	DeckingMaterial     DeckingMaterial `json:"decking_material"`
	BoardWidthIn        float64         `json:"decking_board_width_in"`
	JoistSpacingIn      float64         `json:"joist_spacing_in"`
	Ledger              bool            `json:"ledger"`
	LedgerSide          LedgerSide      `json:"ledger_side"`
	LedgerEdgeIndex     *int            `json:"ledger_edge_index,omitempty"` // polygon edge against the house
	BeamCount           int             `json:"beam_count"`
	PostSize            PostSize        `json:"post_size"`
	PostSpacingFt       float64         `json:"post_spacing_ft"`
	StairCount          int             `json:"stair_count"`
	StairWidthFt        float64         `json:"stair_width_ft"`
	RailingType         RailingType     `json:"railing_type"`
	RailingSides        RailingSides    `json:"railing_sides"`
	CustomRailingLf     float64         `json:"custom_railing_lf,omitempty"`
	ShapeMode           ShapeMode       `json:"shape_mode"`
	PolygonPoints       Outline         `json:"deck_polygon_points,omitempty"`
	AreaOverrideSqft    float64         `json:"deck_area_override_sqft,omitempty"`
	PerimeterOverrideLf float64         `json:"deck_perimeter_override_lf,omitempty"`
	Cover               *CoverPackage   `json:"cover,omitempty"`
}

func (DeckInputs) Mode() DesignMode { return ModeDeck }
func (DeckInputs) isDesignInputs()  {}

// Covered reports whether a roof package is attached.
func (d DeckInputs) Covered() bool { return d.Cover != nil }

// DefaultDeckInputs returns a deck with every optional field at its default.
func DefaultDeckInputs() DeckInputs {
	return DeckInputs{
		DeckingMaterial: DeckingWood,
		BoardWidthIn:    5.5,
		JoistSpacingIn:  16,
		Ledger:          true,
		LedgerSide:      LedgerTop,
		BeamCount:       1,
		PostSize:        Post6x6,
		PostSpacingFt:   6,
		StairWidthFt:    4,
		RailingType:     RailingWood,
		RailingSides:    RailingAllSides,
		ShapeMode:       ShapeRectangle,
	}
}

// ApplyDefaults fills zero-valued optional fields with their defaults.
func (d *DeckInputs) ApplyDefaults() {
	def := DefaultDeckInputs()
	if d.DeckingMaterial == "" {
		d.DeckingMaterial = def.DeckingMaterial
	}
	if d.BoardWidthIn <= 0 {
		d.BoardWidthIn = def.BoardWidthIn
	}
	if d.JoistSpacingIn <= 0 {
		d.JoistSpacingIn = def.JoistSpacingIn
	}
	if d.LedgerSide == "" {
		d.LedgerSide = def.LedgerSide
	}
	if d.BeamCount < 1 {
		d.BeamCount = def.BeamCount
	}
	if d.PostSize == "" {
		d.PostSize = def.PostSize
	}
	if d.PostSpacingFt <= 0 {
		d.PostSpacingFt = def.PostSpacingFt
	}
	if d.StairWidthFt <= 0 {
		d.StairWidthFt = def.StairWidthFt
	}
	if d.RailingType == "" {
		d.RailingType = def.RailingType
	}
	if d.RailingSides == "" {
		d.RailingSides = def.RailingSides
	}
	if d.ShapeMode == "" {
		d.ShapeMode = def.ShapeMode
	}
	if d.Cover != nil {
		if d.Cover.RafterSpacingIn <= 0 {
			d.Cover.RafterSpacingIn = 16
		}
		if d.Cover.CeilingFinish == "" {
			d.Cover.CeilingFinish = "none"
		}
	}
}

// FenceLayout describes how many straight sides a fence run has.
type FenceLayout string

const (
	FenceStraight FenceLayout = "straight"
	FenceCorner   FenceLayout = "corner"
	FenceUShape   FenceLayout = "u_shape"
)

// FenceInputs describes a fence run.
type FenceInputs struct {
	LengthFt      float64     `json:"fence_length_ft"`
	Layout        FenceLayout `json:"fence_layout"`
	SideAFt       float64     `json:"fence_side_a_ft,omitempty"`
	SideBFt       float64     `json:"fence_side_b_ft,omitempty"`
	SideCFt       float64     `json:"fence_side_c_ft,omitempty"`
	HeightFt      float64     `json:"fence_height_ft"`
	Material      string      `json:"fence_material"` // "wood", "vinyl", "metal"
	Style         string      `json:"fence_style"`    // "privacy", "picket", "panel"
	PostSpacingFt float64     `json:"fence_post_spacing_ft"`
	RailCount     int         `json:"fence_rail_count"`
	PicketWidthIn float64     `json:"fence_picket_width_in"`
	PicketGapIn   float64     `json:"fence_picket_gap_in"`
	GateCount     int         `json:"fence_gate_count"`
	GateWidthFt   float64     `json:"fence_gate_width_ft"`
}

func (FenceInputs) Mode() DesignMode { return ModeFence }
func (FenceInputs) isDesignInputs()  {}

// DefaultFenceInputs returns a fence with every optional field at its default.
// Post spacing and rail count are left at zero so configured assumptions apply.
func DefaultFenceInputs() FenceInputs {
	return FenceInputs{
		Layout:        FenceStraight,
		Material:      "wood",
		Style:         "privacy",
		PicketWidthIn: 5.5,
		PicketGapIn:   0.5,
		GateWidthFt:   4,
	}
}

// ApplyDefaults fills zero-valued optional fields with their defaults.
func (f *FenceInputs) ApplyDefaults() {
	def := DefaultFenceInputs()
	if f.Layout == "" {
		f.Layout = def.Layout
	}
	if f.Material == "" {
		f.Material = def.Material
	}
	if f.Style == "" {
		f.Style = def.Style
	}
	if f.PicketWidthIn <= 0 {
		f.PicketWidthIn = def.PicketWidthIn
	}
	if f.PicketGapIn < 0 {
		f.PicketGapIn = 0
	}
	if f.GateWidthFt <= 0 {
		f.GateWidthFt = def.GateWidthFt
	}
}

// Sides returns the straight runs that make up the fence. Corner and U
// layouts use their per-side lengths when set; otherwise the total length
// is treated as one run.
func (f FenceInputs) Sides() []float64 {
	var sides []float64
	switch f.Layout {
	case FenceCorner:
		sides = []float64{f.SideAFt, f.SideBFt}
	case FenceUShape:
		sides = []float64{f.SideAFt, f.SideBFt, f.SideCFt}
	}
	for _, s := range sides {
		if s <= 0 {
			return []float64{math.Max(f.LengthFt, 0)}
		}
	}
	if len(sides) == 0 {
		return []float64{math.Max(f.LengthFt, 0)}
	}
	return sides
}

// RunFt returns the total fenced length.
func (f FenceInputs) RunFt() float64 {
	var total float64
	for _, s := range f.Sides() {
		total += s
	}
	return total
}

type modeEnvelope struct {
	DesignMode DesignMode `json:"design_mode"`
}

// DecodeDesignInputs parses a JSON payload into the variant named by its
// design_mode field. A missing mode means deck. Fields absent from the
// payload keep their defaults.
func DecodeDesignInputs(data []byte) (DesignInputs, error) {
	var env modeEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse design inputs: %w", err)
	}
	switch env.DesignMode {
	case ModeDeck, "":
		d := DefaultDeckInputs()
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("failed to parse deck inputs: %w", err)
		}
		d.ApplyDefaults()
		return d, nil
	case ModeFence:
		f := DefaultFenceInputs()
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse fence inputs: %w", err)
		}
		f.ApplyDefaults()
		return f, nil
	default:
		return nil, fmt.Errorf("unknown design_mode %q", env.DesignMode)
	}
}

// EncodeDesignInputs writes inputs back out with the design_mode tag set.
func EncodeDesignInputs(in DesignInputs) ([]byte, error) {
	var body []byte
	var err error
	switch v := in.(type) {
	case DeckInputs:
		body, err = json.Marshal(v)
	case *DeckInputs:
		body, err = json.Marshal(v)
	case FenceInputs:
		body, err = json.Marshal(v)
	case *FenceInputs:
		body, err = json.Marshal(v)
	default:
		return nil, fmt.Errorf("unsupported design inputs %T", in)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal design inputs: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("failed to marshal design inputs: %w", err)
	}
	fields["design_mode"], _ = json.Marshal(in.Mode())
	return json.MarshalIndent(fields, "", "  ")
}
