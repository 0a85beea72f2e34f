package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FavouriteItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// FavouriteView is a favourite with its product populated.
type FavouriteView struct {
	FavouriteItem `bson:",inline"`
	Product       *Product `bson:"product,omitempty" json:"product,omitempty"`
}
