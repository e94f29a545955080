package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalog item. The numeric ID is the public identifier
// used in routes and cart keys; the Mongo ObjectID stays internal.
type Product struct {
	OID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID        int                `bson:"id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image" json:"image"`
	Category  string             `bson:"category" json:"category"`
	NewPrice  float64            `bson:"new_price" json:"new_price"`
	OldPrice  float64            `bson:"old_price" json:"old_price"`
	Date      time.Time          `bson:"date" json:"date"`
	Available bool               `bson:"available" json:"available"`
	Popular   bool               `bson:"popular" json:"popular"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// NewProduct applies the catalog defaults: created now, available, not popular,
// five units in stock.
func NewProduct(id int, name, image, category string, newPrice, oldPrice float64) Product {
	return Product{
		ID:        id,
		Name:      name,
		Image:     image,
		Category:  category,
		NewPrice:  newPrice,
		OldPrice:  oldPrice,
		Date:      time.Now(),
		Available: true,
		Popular:   false,
		Quantity:  5,
	}
}
