package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Code is a one-time password reset code. A user has at most one active
// code; requesting a new one replaces any previous code.
type Code struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code      string             `bson:"code" json:"-"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
