package repository

import (
	"context"
	"errors"
	"time"

	"github.com/example/primepulse/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoRepository) CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error) {
	now := time.Now()
	address.CreatedAt = now
	address.UpdatedAt = now
	if address.Status == "" {
		address.Status = models.StatusActive
	}

	res, err := m.collection(colAddresses).InsertOne(ctx, address)
	if err != nil {
		return nil, err
	}
	address.ID = res.InsertedID.(primitive.ObjectID)
	return address, nil
}

// FindOwnedAddress fetches an address regardless of status; callers that
// need a usable address should use FindOwnedActiveAddress.
func (m *MongoRepository) FindOwnedAddress(ctx context.Context, id, userID primitive.ObjectID) (*models.Address, error) {
	var address models.Address
	err := m.collection(colAddresses).FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&address)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (m *MongoRepository) FindOwnedActiveAddress(ctx context.Context, id, userID primitive.ObjectID) (*models.Address, error) {
	filter := bson.M{"_id": id, "user_id": userID, "status": models.StatusActive}
	var address models.Address
	err := m.collection(colAddresses).FindOne(ctx, filter).Decode(&address)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// FindAddressByText backs the per-user duplicate check.
func (m *MongoRepository) FindAddressByText(ctx context.Context, userID primitive.ObjectID, addressText string) (*models.Address, error) {
	filter := bson.M{"user_id": userID, "address": addressText}
	var address models.Address
	err := m.collection(colAddresses).FindOne(ctx, filter).Decode(&address)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (m *MongoRepository) ListActiveAddresses(ctx context.Context, userID primitive.ObjectID, q PageQuery) ([]models.Address, int64, error) {
	filter := bson.M{"user_id": userID, "status": models.StatusActive}
	var addresses []models.Address
	total, err := m.findPage(ctx, colAddresses, filter, q, bson.D{{Key: "created_at", Value: -1}}, &addresses)
	if err != nil {
		return nil, 0, err
	}
	return addresses, total, nil
}

func (m *MongoRepository) UpdateAddress(ctx context.Context, id, userID primitive.ObjectID, update bson.M) (*models.Address, error) {
	update["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var address models.Address
	err := m.collection(colAddresses).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": update},
		opts,
	).Decode(&address)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// DeleteAddress is a soft delete: the document stays for orders that
// reference it.
func (m *MongoRepository) DeleteAddress(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := m.UpdateAddress(ctx, id, userID, bson.M{"status": models.StatusDeleted})
	return err
}

func (m *MongoRepository) FindAddressesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Address, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := m.collection(colAddresses).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var addresses []models.Address
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}
