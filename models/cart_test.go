package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddToCart_MergesByItemIdentity(t *testing.T) {
	itemID := primitive.NewObjectID()

	cart := AddToCart(nil, itemID)
	cart = AddToCart(cart, itemID)

	// Two adds of the same item merge into one line with quantity 2.
	require.Len(t, cart, 1)
	assert.Equal(t, itemID, cart[0].ItemID)
	assert.Equal(t, 2, cart[0].Quantity)
}

func TestAddToCart_DistinctItemsGetDistinctLines(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	cart := AddToCart(nil, a)
	cart = AddToCart(cart, b)

	require.Len(t, cart, 2)
	assert.Equal(t, 1, cart[0].Quantity)
	assert.Equal(t, 1, cart[1].Quantity)
}

func TestSetCartQuantity(t *testing.T) {
	itemID := primitive.NewObjectID()
	cart := []CartLine{{ItemID: itemID, Quantity: 1}}

	cart, found := SetCartQuantity(cart, itemID, 5)
	require.True(t, found)
	assert.Equal(t, 5, cart[0].Quantity)
}

func TestSetCartQuantity_ZeroRemovesLine(t *testing.T) {
	itemID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	cart := []CartLine{
		{ItemID: itemID, Quantity: 3},
		{ItemID: other, Quantity: 1},
	}

	cart, found := SetCartQuantity(cart, itemID, 0)
	require.True(t, found)
	require.Len(t, cart, 1)
	assert.Equal(t, other, cart[0].ItemID)
}

func TestSetCartQuantity_MissingLine(t *testing.T) {
	cart := []CartLine{{ItemID: primitive.NewObjectID(), Quantity: 1}}

	_, found := SetCartQuantity(cart, primitive.NewObjectID(), 2)
	assert.False(t, found)
}

func TestRemoveFromCart(t *testing.T) {
	itemID := primitive.NewObjectID()
	cart := []CartLine{{ItemID: itemID, Quantity: 2}}

	cart, found := RemoveFromCart(cart, itemID)
	require.True(t, found)
	assert.Empty(t, cart)

	_, found = RemoveFromCart(cart, itemID)
	assert.False(t, found)
}
