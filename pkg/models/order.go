package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a point-in-time receipt line. Name, owner and price are
// snapshotted at order creation and never re-read from the catalog.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Owner     primitive.ObjectID `bson:"owner" json:"owner"`
	Name      string             `bson:"name" json:"name"`
	Quantity  int64              `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
	Product   *Product           `bson:"product,omitempty" json:"product,omitempty"`
}

type Payment struct {
	PaymentStatus string     `bson:"payment_status" json:"payment_status"`
	PaymentDate   *time.Time `bson:"payment_date,omitempty" json:"payment_date,omitempty"`
}

// Order is an immutable-item, mutable-status purchase record. Items,
// ManufacturerIDs, TotalPrice and ShippingAddress are fixed at creation;
// only Status and Payment change afterwards.
type Order struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID   `bson:"user_id" json:"user_id"`
	ManufacturerIDs []primitive.ObjectID `bson:"manufacturer_ids" json:"manufacturer_ids"`
	Items           []OrderItem          `bson:"items" json:"items"`
	TotalPrice      float64              `bson:"total_price" json:"total_price"`
	ShippingAddress primitive.ObjectID   `bson:"shipping_address" json:"shipping_address"`
	Status          string               `bson:"status" json:"status"`
	Payment         Payment              `bson:"payment" json:"payment"`
	CreatedAt       time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time            `bson:"updated_at" json:"updated_at"`
}

// ContainsManufacturer reports whether id is among the order's product
// owners.
func (o *Order) ContainsManufacturer(id primitive.ObjectID) bool {
	for _, m := range o.ManufacturerIDs {
		if m == id {
			return true
		}
	}
	return false
}

// AdminOrderView is an order with all cross-references populated.
type AdminOrderView struct {
	Order         `bson:",inline"`
	User          *User    `bson:"user,omitempty" json:"user,omitempty"`
	Manufacturers []User   `bson:"manufacturers,omitempty" json:"manufacturers,omitempty"`
	Address       *Address `bson:"address,omitempty" json:"address,omitempty"`
}
