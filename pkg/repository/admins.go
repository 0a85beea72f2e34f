package repository

import (
	"context"
	"errors"
	"time"

	"github.com/example/primepulse/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (m *MongoRepository) CreateAdmin(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	res, err := m.collection(colAdmins).InsertOne(ctx, admin)
	if err != nil {
		return nil, err
	}
	admin.ID = res.InsertedID.(primitive.ObjectID)
	return admin, nil
}

func (m *MongoRepository) FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := m.collection(colAdmins).FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
