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

func (m *MongoRepository) CreateBank(ctx context.Context, bank *models.Bank) (*models.Bank, error) {
	now := time.Now()
	bank.CreatedAt = now
	bank.UpdatedAt = now
	if bank.Status == "" {
		bank.Status = models.StatusActive
	}

	res, err := m.collection(colBanks).InsertOne(ctx, bank)
	if err != nil {
		return nil, err
	}
	bank.ID = res.InsertedID.(primitive.ObjectID)
	return bank, nil
}

func (m *MongoRepository) FindOwnedBank(ctx context.Context, id, userID primitive.ObjectID) (*models.Bank, error) {
	var bank models.Bank
	err := m.collection(colBanks).FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&bank)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bank, nil
}

// FindBankByAccountNumber backs the per-user duplicate check.
func (m *MongoRepository) FindBankByAccountNumber(ctx context.Context, userID primitive.ObjectID, accountNumber string) (*models.Bank, error) {
	filter := bson.M{"user_id": userID, "account_number": accountNumber}
	var bank models.Bank
	err := m.collection(colBanks).FindOne(ctx, filter).Decode(&bank)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bank, nil
}

func (m *MongoRepository) ListActiveBanks(ctx context.Context, userID primitive.ObjectID, q PageQuery) ([]models.Bank, int64, error) {
	filter := bson.M{"user_id": userID, "status": models.StatusActive}
	var banks []models.Bank
	total, err := m.findPage(ctx, colBanks, filter, q, bson.D{{Key: "created_at", Value: -1}}, &banks)
	if err != nil {
		return nil, 0, err
	}
	return banks, total, nil
}

func (m *MongoRepository) UpdateBank(ctx context.Context, id, userID primitive.ObjectID, update bson.M) (*models.Bank, error) {
	update["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var bank models.Bank
	err := m.collection(colBanks).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": update},
		opts,
	).Decode(&bank)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bank, nil
}

func (m *MongoRepository) DeleteBank(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := m.UpdateBank(ctx, id, userID, bson.M{"status": models.StatusDeleted})
	return err
}
