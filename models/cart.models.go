package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is one (item, quantity) pair embedded in a User's cart. A line is
// never stored with quantity below 1; dropping to zero removes it instead.
type CartLine struct {
	ItemID   primitive.ObjectID `bson:"item_id" json:"item_id"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// ResolvedCartLine is a cart line joined with its catalog item for display.
type ResolvedCartLine struct {
	Item     FoodItem `json:"item"`
	Quantity int      `json:"quantity"`
}

// AddToCart merges an item into a cart: an existing line has its quantity
// incremented, otherwise a new line with quantity 1 is appended. The idempotent
// key is item identity, so repeated adds never produce duplicate lines.
func AddToCart(cart []CartLine, itemID primitive.ObjectID) []CartLine {
	for i := range cart {
		if cart[i].ItemID == itemID {
			cart[i].Quantity++
			return cart
		}
	}
	return append(cart, CartLine{ItemID: itemID, Quantity: 1})
}

// SetCartQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line. The second return reports whether the line was found.
func SetCartQuantity(cart []CartLine, itemID primitive.ObjectID, quantity int) ([]CartLine, bool) {
	for i := range cart {
		if cart[i].ItemID != itemID {
			continue
		}
		if quantity <= 0 {
			return append(cart[:i], cart[i+1:]...), true
		}
		cart[i].Quantity = quantity
		return cart, true
	}
	return cart, false
}

// RemoveFromCart deletes the line for itemID. The second return reports
// whether the item was present.
func RemoveFromCart(cart []CartLine, itemID primitive.ObjectID) ([]CartLine, bool) {
	for i := range cart {
		if cart[i].ItemID == itemID {
			return append(cart[:i], cart[i+1:]...), true
		}
	}
	return cart, false
}
