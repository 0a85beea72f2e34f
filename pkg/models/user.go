package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName   string             `bson:"first_name" json:"first_name"`
	LastName    string             `bson:"last_name" json:"last_name"`
	Email       string             `bson:"email" json:"email"`
	PhoneNumber string             `bson:"phone_number" json:"phone_number"`
	Password    string             `bson:"password" json:"-"`
	UserType    string             `bson:"user_type" json:"user_type"`
	AgreeToTerm bool               `bson:"agree_to_term" json:"agree_to_term"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsManufacturer reports whether the account sells on the marketplace.
func (u *User) IsManufacturer() bool {
	return u.UserType == UserTypeManufacturer
}
