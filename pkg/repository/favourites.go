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

func (m *MongoRepository) CreateFavourite(ctx context.Context, fav *models.FavouriteItem) (*models.FavouriteItem, error) {
	now := time.Now()
	fav.CreatedAt = now
	fav.UpdatedAt = now

	res, err := m.collection(colFavourites).InsertOne(ctx, fav)
	if err != nil {
		return nil, err
	}
	fav.ID = res.InsertedID.(primitive.ObjectID)
	return fav, nil
}

func (m *MongoRepository) FindFavouriteByProduct(ctx context.Context, userID, productID primitive.ObjectID) (*models.FavouriteItem, error) {
	filter := bson.M{"user_id": userID, "product_id": productID}
	var fav models.FavouriteItem
	err := m.collection(colFavourites).FindOne(ctx, filter).Decode(&fav)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

func (m *MongoRepository) FindOwnedFavourite(ctx context.Context, id, userID primitive.ObjectID) (*models.FavouriteItem, error) {
	var fav models.FavouriteItem
	err := m.collection(colFavourites).FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&fav)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

func (m *MongoRepository) ListFavourites(ctx context.Context, userID primitive.ObjectID, q PageQuery) ([]models.FavouriteItem, int64, error) {
	filter := bson.M{"user_id": userID}
	var favs []models.FavouriteItem
	total, err := m.findPage(ctx, colFavourites, filter, q, bson.D{{Key: "created_at", Value: -1}}, &favs)
	if err != nil {
		return nil, 0, err
	}
	return favs, total, nil
}

func (m *MongoRepository) DeleteFavourite(ctx context.Context, userID, productID primitive.ObjectID) error {
	res, err := m.collection(colFavourites).DeleteOne(ctx, bson.M{"user_id": userID, "product_id": productID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
