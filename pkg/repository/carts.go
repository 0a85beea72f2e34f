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

func (m *MongoRepository) CreateCartItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	res, err := m.collection(colCarts).InsertOne(ctx, item)
	if err != nil {
		return nil, err
	}
	item.ID = res.InsertedID.(primitive.ObjectID)
	return item, nil
}

func (m *MongoRepository) FindOwnedCartItem(ctx context.Context, id, userID primitive.ObjectID) (*models.CartItem, error) {
	var item models.CartItem
	err := m.collection(colCarts).FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindCartItemByProduct backs the add-to-cart merge.
func (m *MongoRepository) FindCartItemByProduct(ctx context.Context, userID, productID primitive.ObjectID) (*models.CartItem, error) {
	filter := bson.M{"user_id": userID, "product_id": productID}
	var item models.CartItem
	err := m.collection(colCarts).FindOne(ctx, filter).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (m *MongoRepository) ListCartItems(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	cursor, err := m.collection(colCarts).Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (m *MongoRepository) UpdateCartItem(ctx context.Context, id primitive.ObjectID, quantity int64, price float64) (*models.CartItem, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.CartItem
	err := m.collection(colCarts).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"quantity": quantity, "price": price, "updated_at": time.Now()}},
		opts,
	).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (m *MongoRepository) DeleteCartItem(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := m.collection(colCarts).DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearCart bulk-deletes every line for the user. Called after a
// successful order write.
func (m *MongoRepository) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	_, err := m.collection(colCarts).DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
