package engine

import (
	"testing"

	"github.com/piwi3910/DeckTakeoff/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffTakeoffs_Identical(t *testing.T) {
	res := mustTakeoff(t, baseDeck())
	d := DiffTakeoffs(res, res)
	assert.True(t, d.Empty())
	assert.Equal(t, 0.0, d.SubtotalChange)
}

func TestDiffTakeoffs_Changes(t *testing.T) {
	prev := mustTakeoff(t, baseDeck())

	in := baseDeck()
	in.WidthFt = 14
	in.StairCount = 0
	curr := mustTakeoff(t, in)

	d := DiffTakeoffs(prev, curr)
	require.False(t, d.Empty())

	removed := make(map[string]bool)
	for _, it := range d.Removed {
		removed[it.Name] = true
	}
	assert.True(t, removed["Stair stringer"])
	assert.True(t, removed["Stair tread boards"])

	var joist *ItemChange
	for i := range d.Changed {
		if d.Changed[i].Key == "Framing|2x10 PT joist (LF summary)" {
			joist = &d.Changed[i]
		}
	}
	require.NotNil(t, joist)
	assert.Equal(t, 180.0, joist.From.Qty)
	assert.Equal(t, 210.0, joist.To.Qty)

	assert.InDelta(t, curr.Totals.MaterialsSubtotal-prev.Totals.MaterialsSubtotal, d.SubtotalChange, 0.005)
}

func TestDiffTakeoffs_AddedFollowsCurrentOrder(t *testing.T) {
	prev := model.TakeoffResult{}
	curr := mustTakeoff(t, baseFence())
	d := DiffTakeoffs(prev, curr)
	require.Len(t, d.Added, len(curr.Items))
	for i := range curr.Items {
		assert.Equal(t, curr.Items[i].Name, d.Added[i].Name)
	}
	assert.Empty(t, d.Removed)
}
