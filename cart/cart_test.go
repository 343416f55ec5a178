package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func productLine(itemID, size, storeID string, qty int, price string) Line {
	return Line{
		ItemID:    itemID,
		NameEN:    itemID,
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
		Size:      size,
		StoreID:   storeID,
	}
}

func kitLine(itemID, storeID string) Line {
	return Line{
		ItemID:    itemID,
		NameEN:    itemID,
		UnitPrice: decimal.Zero,
		IsKit:     true,
		Quantity:  1,
		StoreID:   storeID,
	}
}

func TestAddLineMergesSameTriple(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.AddLine(productLine("p1", "M", "s1", 2, "5.00")))
	require.NoError(t, c.AddLine(productLine("p1", "M", "s1", 3, "5.00")))
	require.NoError(t, c.AddLine(productLine("p1", "M", "s1", 1, "5.00")))

	require.Len(t, c.Items, 1)
	require.Equal(t, 6, c.Items[0].Quantity)
}

func TestAddLineKeepsDistinctTriplesApart(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.AddLine(productLine("p1", "M", "s1", 1, "5.00")))
	require.NoError(t, c.AddLine(productLine("p1", "L", "s1", 1, "5.00")))
	require.NoError(t, c.AddLine(productLine("p1", "M", "s2", 1, "5.00")))

	require.Len(t, c.Items, 3)
}

func TestAddLineRejectsSecondKitAcrossStores(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.AddLine(kitLine("k1", "s1")))

	before := append([]Line(nil), c.Items...)

	err := c.AddLine(kitLine("k2", "s2"))
	require.ErrorIs(t, err, ErrKitConflict)
	require.Equal(t, before, c.Items)

	// Re-adding the same kit is refused too; the invariant is one kit line,
	// not one kit id.
	err = c.AddLine(kitLine("k1", "s2"))
	require.ErrorIs(t, err, ErrKitConflict)
	require.Equal(t, before, c.Items)
}

func TestAddLineRejectsNonPositiveQuantity(t *testing.T) {
	c := &Cart{}
	require.ErrorIs(t, c.AddLine(productLine("p1", "", "", 0, "5.00")), ErrInvalidQuantity)
	require.ErrorIs(t, c.AddLine(productLine("p1", "", "", -2, "5.00")), ErrInvalidQuantity)
	require.True(t, c.IsEmpty())
}

func TestRemoveWithoutFiltersRemovesAllMatches(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.AddLine(productLine("p1", "M", "s1", 1, "5.00")))
	require.NoError(t, c.AddLine(productLine("p1", "L", "s2", 1, "5.00")))
	require.NoError(t, c.AddLine(productLine("p2", "", "s1", 1, "3.00")))

	removed := c.Remove(Selector{ItemID: "p1"})
	require.Equal(t, 2, removed)
	require.Len(t, c.Items, 1)
	require.Equal(t, "p2", c.Items[0].ItemID)
}

func TestRemoveWithFiltersMatchesExactly(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.AddLine(productLine("p1", "M", "s1", 1, "5.00")))
	require.NoError(t, c.AddLine(productLine("p1", "M", "s2", 1, "5.00")))

	store := "s2"
	removed := c.Remove(Selector{ItemID: "p1", StoreID: &store})
	require.Equal(t, 1, removed)
	require.Len(t, c.Items, 1)
	require.Equal(t, "s1", c.Items[0].StoreID)

	// No match is a no-op.
	size := "XL"
	require.Equal(t, 0, c.Remove(Selector{ItemID: "p1", Size: &size}))
	require.Len(t, c.Items, 1)
}

func TestSetQuantityZeroEqualsRemove(t *testing.T) {
	viaRemove := &Cart{}
	viaZero := &Cart{}
	for _, c := range []*Cart{viaRemove, viaZero} {
		require.NoError(t, c.AddLine(productLine("p1", "M", "s1", 2, "5.00")))
		require.NoError(t, c.AddLine(productLine("p2", "", "s1", 1, "3.00")))
	}

	viaRemove.Remove(Selector{ItemID: "p1"})
	viaZero.SetQuantity(Selector{ItemID: "p1"}, 0)

	require.Equal(t, viaRemove.Items, viaZero.Items)
}

func TestSetQuantityOverwrites(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.AddLine(productLine("p1", "M", "s1", 2, "5.00")))

	updated := c.SetQuantity(Selector{ItemID: "p1"}, 7)
	require.Equal(t, 1, updated)
	require.Equal(t, 7, c.Items[0].Quantity)
}

func TestClear(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.AddLine(productLine("p1", "", "", 1, "5.00")))
	c.Clear()
	require.True(t, c.IsEmpty())
}

func TestExtendedPrice(t *testing.T) {
	l := productLine("p1", "", "", 3, "4.25")
	require.Equal(t, "12.75", l.ExtendedPrice().StringFixed(2))
}
