package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner         primitive.ObjectID `bson:"owner" json:"owner"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description" json:"description"`
	Price         float64            `bson:"price" json:"price"`
	Quantity      int64              `bson:"quantity" json:"quantity"`
	Images        []string           `bson:"images,omitempty" json:"images,omitempty"`
	CategoryID    primitive.ObjectID `bson:"category_id" json:"category_id"`
	SubCategoryID primitive.ObjectID `bson:"sub_category_id" json:"sub_category_id"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
