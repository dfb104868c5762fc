package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents an account in the system. The cart is embedded so every
// cart operation is a read-modify-write of this document.
type User struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name       string               `bson:"name" json:"name"`
	Username   string               `bson:"username" json:"username"`
	Email      string               `bson:"email" json:"email"`
	Password   string               `bson:"password,omitempty" json:"-"`
	GoogleID   string               `bson:"google_id,omitempty" json:"-"`
	Role       string               `bson:"role" json:"role"`
	IsVerified bool                 `bson:"is_verified" json:"is_verified"`
	Favorites  []primitive.ObjectID `bson:"favorites" json:"favorites"`
	Cart       []CartLine           `bson:"cart" json:"cart"`
	CreatedAt  time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time            `bson:"updated_at" json:"updated_at"`
}

// UserStats summarizes a user's activity for the profile screen.
type UserStats struct {
	TotalOrders   int     `json:"total_orders"`
	TotalSpent    float64 `json:"total_spent"`
	CartItems     int     `json:"cart_items"`
	FavoriteCount int     `json:"favorite_count"`
	MemberSince   string  `json:"member_since"`
	Verified      bool    `json:"verified"`
}
