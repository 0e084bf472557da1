package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartLines_Add_MergesByID(t *testing.T) {
	var lines CartLines
	lines = lines.Add("X", ProductSnapshot{Name: "Brake Pad"}, 2)
	lines = lines.Add("X", ProductSnapshot{Name: "Renamed"}, 3)
	lines = lines.Add("X", ProductSnapshot{}, 1)

	require.Len(t, lines, 1)
	assert.Equal(t, 6, lines[0].Quantity)
	// Existing fields win over later adds
	assert.Equal(t, "Brake Pad", lines[0].Product.Name)
}

func TestCartLines_Add_InsertsAtFront(t *testing.T) {
	lines := CartLines{}.Add("A", ProductSnapshot{}, 1).Add("B", ProductSnapshot{}, 1)

	require.Len(t, lines, 2)
	assert.Equal(t, "B", lines[0].ID)
	assert.Equal(t, "A", lines[1].ID)
}

func TestCartLines_Add_DoesNotMutateReceiver(t *testing.T) {
	base := CartLines{}.Add("A", ProductSnapshot{}, 1)
	_ = base.Add("A", ProductSnapshot{}, 5)
	_ = base.Add("B", ProductSnapshot{}, 1)

	require.Len(t, base, 1)
	assert.Equal(t, 1, base[0].Quantity)
}

func TestCartLines_UpdateQuantity(t *testing.T) {
	lines := CartLines{}.Add("X", ProductSnapshot{}, 2)

	next, ok := lines.UpdateQuantity("X", 3)
	assert.True(t, ok)
	assert.Equal(t, 5, next[0].Quantity)

	next, ok = next.UpdateQuantity("X", -5)
	assert.True(t, ok)
	assert.Empty(t, next)
}

func TestCartLines_UpdateQuantity_DecrementToZeroRemoves(t *testing.T) {
	lines := CartLines{}.Add("X", ProductSnapshot{}, 1)

	next, ok := lines.UpdateQuantity("X", -1)
	assert.True(t, ok)
	_, found := next.Find("X")
	assert.False(t, found)
}

func TestCartLines_UpdateQuantity_Missing(t *testing.T) {
	lines := CartLines{}.Add("X", ProductSnapshot{}, 1)

	next, ok := lines.UpdateQuantity("nope", 4)
	assert.False(t, ok)
	assert.Equal(t, lines, next)
}

func TestCartLines_Remove(t *testing.T) {
	lines := CartLines{}.Add("A", ProductSnapshot{}, 1).Add("B", ProductSnapshot{}, 2)

	next, ok := lines.Remove("A")
	assert.True(t, ok)
	require.Len(t, next, 1)
	assert.Equal(t, "B", next[0].ID)

	_, ok = next.Remove("A")
	assert.False(t, ok)
}

func TestCartLines_TotalCount(t *testing.T) {
	lines := CartLines{}.Add("A", ProductSnapshot{}, 2).Add("B", ProductSnapshot{}, 3)

	assert.Equal(t, 5, lines.TotalCount())
	assert.Equal(t, 0, CartLines{}.TotalCount())
}

func TestCartLines_TotalPrice_UsesSalePrice(t *testing.T) {
	sale := 80.0
	lines := CartLines{}.
		Add("A", ProductSnapshot{Price: 100}, 2).
		Add("B", ProductSnapshot{Price: 100, SalePrice: &sale}, 1)

	assert.InDelta(t, 280.0, lines.TotalPrice(), 0.001)
}

func TestCartLines_CloneIsolatesSnapshot(t *testing.T) {
	lines := CartLines{}.Add("A", ProductSnapshot{Gallery: []AssetHandle{1}, Extra: map[string]interface{}{"k": "v"}}, 1)

	copied := lines.Clone()
	copied[0].Quantity = 99
	copied[0].Product.Gallery[0] = 42
	copied[0].Product.Extra["k"] = "changed"

	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, AssetHandle(1), lines[0].Product.Gallery[0])
	assert.Equal(t, "v", lines[0].Product.Extra["k"])
}

func TestNormalizeCartLines(t *testing.T) {
	raw := []CartLine{
		{ID: "A", Quantity: 1},
		{ID: "", Quantity: 3},
		{ID: "B", Quantity: 0},
		{ID: "A", Quantity: 2},
		{ID: "C", Quantity: 4},
	}

	lines := NormalizeCartLines(raw)

	require.Len(t, lines, 2)
	assert.Equal(t, "A", lines[0].ID)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, "C", lines[1].ID)
}
