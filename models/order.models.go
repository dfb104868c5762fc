package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses.
const (
	StatusPlaced    = "placed"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Payment methods.
const (
	PaymentCOD  = "cod"
	PaymentCard = "card"
	PaymentUPI  = "upi"
)

// Order is a snapshot of cart contents at checkout. Items and total are fixed
// at placement and never recomputed from current catalog prices.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items         []CartLine         `bson:"items" json:"items"`
	TotalAmount   float64            `bson:"total_amount" json:"total_amount"`
	PaymentMethod string             `bson:"payment_method" json:"payment_method"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// ValidPaymentMethod reports whether m (already lower-cased) is accepted.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCOD || m == PaymentCard || m == PaymentUPI
}

// CanTransition reports whether an order may move from one status to another.
// Delivered and cancelled are terminal.
func CanTransition(from, to string) bool {
	if from != StatusPlaced {
		return false
	}
	return to == StatusDelivered || to == StatusCancelled
}
