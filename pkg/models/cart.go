package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line in a user's cart. Price is the line price
// (unit price at add time multiplied by quantity), kept in step with
// quantity changes rather than re-quoted from the catalog.
type CartItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity  int64              `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// UnitPrice recovers the per-unit price the line was added at.
func (c *CartItem) UnitPrice() float64 {
	if c.Quantity == 0 {
		return 0
	}
	return c.Price / float64(c.Quantity)
}

// CartView is a cart line with its product populated for reads.
type CartView struct {
	CartItem `bson:",inline"`
	Product  *Product `bson:"product,omitempty" json:"product,omitempty"`
}
