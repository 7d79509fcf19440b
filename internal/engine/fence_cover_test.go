package engine

import (
	"testing"

	"github.com/piwi3910/DeckTakeoff/internal/errors"
	"github.com/piwi3910/DeckTakeoff/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseFence() model.FenceInputs {
	f := model.DefaultFenceInputs()
	f.LengthFt = 120
	f.HeightFt = 6
	f.PostSpacingFt = 8
	f.GateCount = 1
	return f
}

func TestFenceTakeoff_PostsAndRails(t *testing.T) {
	res := mustTakeoff(t, baseFence())

	posts := res.FindItem(model.CategoryFence, named("Fence post"))
	require.NotNil(t, posts)
	assert.Equal(t, 18.0, posts.Qty)
	assert.Equal(t, "16 line posts + 2 gate posts", posts.Notes)

	rails := res.FindItem(model.CategoryFence, named("Fence rail"))
	require.NotNil(t, rails)
	assert.Equal(t, 240.0, rails.Qty)

	bags := res.FindItem(model.CategoryFence, named("Concrete bag"))
	require.NotNil(t, bags)
	assert.Equal(t, 36.0, bags.Qty)

	kits := res.FindItem(model.CategoryFence, named("Fence hardware kit"))
	require.NotNil(t, kits)
	assert.Equal(t, 3.0, kits.Qty)

	pickets := res.FindItem(model.CategoryFence, named("Fence picket"))
	require.NotNil(t, pickets)
	assert.Equal(t, 240.0, pickets.Qty)

	assert.NotNil(t, res.FindItem(model.CategoryFence, named("Fence gate allowance")))
	assert.Equal(t, 720.0, res.Totals.DeckSqft)
	assert.Equal(t, model.ModeFence, res.DesignMode)
}

func TestFenceTakeoff_NoDeckCategories(t *testing.T) {
	res := mustTakeoff(t, baseFence())
	assert.Empty(t, res.ItemsIn(model.CategoryFraming))
	assert.Empty(t, res.ItemsIn(model.CategoryDecking))
	assert.Nil(t, res.Geometry)
	assert.Nil(t, res.Sizing)
}

func TestFenceTakeoff_AssumptionsApplyWhenInputUnset(t *testing.T) {
	f := baseFence()
	f.PostSpacingFt = 0
	f.GateCount = 0
	a := model.DefaultAssumptions()
	a.FencePostSpacingFt = 10
	a.FenceRailCount = 3

	res, err := GenerateTakeoff(f, &a)
	require.NoError(t, err)
	posts := res.FindItem(model.CategoryFence, named("Fence post"))
	require.NotNil(t, posts)
	assert.Equal(t, 13.0, posts.Qty)
	rails := res.FindItem(model.CategoryFence, named("Fence rail"))
	require.NotNil(t, rails)
	assert.Equal(t, 360.0, rails.Qty)
	assert.Nil(t, res.FindItem(model.CategoryFence, named("Fence gate allowance")))
}

func TestFenceTakeoff_PanelStyle(t *testing.T) {
	f := baseFence()
	f.Style = "panel"
	res := mustTakeoff(t, f)

	panels := res.FindItem(model.CategoryFence, named("Fence panel"))
	require.NotNil(t, panels)
	assert.Equal(t, 15.0, panels.Qty)
	assert.Nil(t, res.FindItem(model.CategoryFence, named("Fence picket")))
}

func TestFenceTakeoff_UShapeSharesCorners(t *testing.T) {
	f := baseFence()
	f.Layout = model.FenceUShape
	f.SideAFt, f.SideBFt, f.SideCFt = 30, 60, 30
	f.GateCount = 0
	res := mustTakeoff(t, f)

	// 4 + 8 + 4 spans plus the closing post.
	posts := res.FindItem(model.CategoryFence, named("Fence post"))
	require.NotNil(t, posts)
	assert.Equal(t, 17.0, posts.Qty)
}

func TestValidateCoveredPackage(t *testing.T) {
	v := ValidateCoveredPackage(model.CoverPackage{})
	assert.False(t, v.Ready)
	assert.Equal(t, []string{
		"Roof style", "Roof pitch", "Roof length + width", "Roofing material + type",
		"Roof color", "Ceiling finish", "Cover post count", "Cover beam size",
	}, v.Missing)

	v = ValidateCoveredPackage(completeCover())
	assert.True(t, v.Ready)
	assert.Empty(t, v.Missing)
}

func completeCover() model.CoverPackage {
	return model.CoverPackage{
		RoofType:           "gable",
		RoofPitch:          "6:12",
		RoofLengthFt:       20,
		RoofWidthFt:        14,
		RoofingMaterial:    "metal",
		RoofingProductType: "standing seam",
		RoofingColor:       "charcoal",
		CeilingFinish:      "beadboard",
		CeilingFanPlates:   2,
		CoverPostCount:     4,
		CoverBeamSize:      "6x10",
	}
}

func TestCoveredTakeoff_SheathingAndRoofing(t *testing.T) {
	d := baseDeck()
	d.Cover = &model.CoverPackage{RoofLengthFt: 20, RoofWidthFt: 10}
	res := mustTakeoff(t, d)

	sheathing := res.FindItem(model.CategoryCover, named("Roof sheathing"))
	require.NotNil(t, sheathing)
	assert.Equal(t, 210.0, sheathing.Qty)

	roofing := res.FindItem(model.CategoryCover, named("Roofing - shingle"))
	require.NotNil(t, roofing)
	assert.Equal(t, 220.0, roofing.Qty)

	// floor(120/16)+1 rafters, each 20ft
	rafters := res.FindItem(model.CategoryCover, named("2x8 PT joist"))
	require.NotNil(t, rafters)
	assert.Equal(t, 160.0, rafters.Qty)

	assert.NotEmpty(t, res.Warnings, "incomplete package should warn")
	assert.Empty(t, res.ItemsIn(model.CategoryCeiling))
}

func TestCoveredTakeoff_FullPackage(t *testing.T) {
	d := baseDeck()
	c := completeCover()
	d.Cover = &c
	res := mustTakeoff(t, d)

	roofing := res.FindItem(model.CategoryCover, named("Roofing - metal"))
	require.NotNil(t, roofing)
	for _, want := range []string{"gable", "pitch 6:12", "type standing seam", "color charcoal"} {
		assert.Contains(t, roofing.Notes, want)
	}

	beadboard := res.FindItem(model.CategoryCeiling, named("Ceiling beadboard"))
	require.NotNil(t, beadboard)
	assert.Equal(t, 280.0, beadboard.Qty)

	fasteners := res.FindItem(model.CategoryCeiling, named("Ceiling fasteners"))
	require.NotNil(t, fasteners)
	assert.Equal(t, 14.0, fasteners.Qty)

	plates := res.FindItem(model.CategoryCeiling, named("Fan-rated ceiling plate"))
	require.NotNil(t, plates)
	assert.Equal(t, 2.0, plates.Qty)

	assert.NotNil(t, res.FindItem(model.CategoryCover, named("Cover posts allowance")))
	assert.NotNil(t, res.FindItem(model.CategoryCover, named("Cover beam allowance")))
	assert.Empty(t, res.Warnings)
}

func TestCoveredTakeoff_RequireCompletePackage(t *testing.T) {
	d := baseDeck()
	d.Cover = &model.CoverPackage{RoofLengthFt: 20, RoofWidthFt: 10}
	a := model.DefaultAssumptions()
	a.RequireCompleteCoveredPackage = true

	_, err := GenerateTakeoff(d, &a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeIncompletePackage))
	assert.Contains(t, err.Error(), "Roof pitch")
}

func TestCoveredTakeoff_NoRoofDimensions(t *testing.T) {
	d := baseDeck()
	d.Cover = &model.CoverPackage{CeilingFinish: "drywall"}
	res := mustTakeoff(t, d)
	assert.Empty(t, res.ItemsIn(model.CategoryCover))
	assert.Empty(t, res.ItemsIn(model.CategoryCeiling))
}
