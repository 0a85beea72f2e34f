package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Bank struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	BankName      string             `bson:"bank_name" json:"bank_name"`
	AccountName   string             `bson:"account_name" json:"account_name"`
	AccountNumber string             `bson:"account_number" json:"account_number"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
