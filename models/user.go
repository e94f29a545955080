package models

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered customer. The cart is embedded: a mapping from
// product id (as a string) to reserved quantity. Passwords are stored as bcrypt
// hashes and never serialized.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Cart      map[string]int     `bson:"cart" json:"cart"`
	Address   *string            `bson:"address" json:"address"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// NewCart seeds the cart mapping the way the storefront expects it: entries
// "1" through "300", all zero.
func NewCart() map[string]int {
	cart := make(map[string]int, 300)
	for i := 1; i <= 300; i++ {
		cart[strconv.Itoa(i)] = 0
	}
	return cart
}
