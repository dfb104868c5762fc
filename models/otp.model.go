package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTPTTL is how long a passcode stays valid after issuance.
const OTPTTL = 5 * time.Minute

// OneTimePasscode is a short-lived 6-digit login code. At most one live code
// exists per email: issuing a new one replaces the old, and a successful
// verification deletes it. A TTL index on expires_at reaps stale documents.
type OneTimePasscode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Email     string             `bson:"email" json:"email"`
	Code      string             `bson:"code" json:"-"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
}

// Expired reports whether the code is past its expiry at the given instant.
func (o OneTimePasscode) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
