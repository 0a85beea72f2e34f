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

func (m *MongoRepository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Status == "" {
		product.Status = models.StatusActive
	}

	res, err := m.collection(colProducts).InsertOne(ctx, product)
	if err != nil {
		return nil, err
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return product, nil
}

func (m *MongoRepository) FindProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := m.collection(colProducts).FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActiveProductByID excludes soft-deleted and disabled products.
func (m *MongoRepository) FindActiveProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	filter := bson.M{"_id": id, "status": models.StatusActive}
	var product models.Product
	err := m.collection(colProducts).FindOne(ctx, filter).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (m *MongoRepository) FindProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := m.collection(colProducts).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (m *MongoRepository) ListActiveProducts(ctx context.Context, q PageQuery) ([]models.Product, int64, error) {
	filter := bson.M{"status": models.StatusActive}
	var products []models.Product
	total, err := m.findPage(ctx, colProducts, filter, q, bson.D{{Key: "created_at", Value: -1}}, &products)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (m *MongoRepository) ListProductsByCategory(ctx context.Context, categoryID primitive.ObjectID, q PageQuery) ([]models.Product, int64, error) {
	filter := bson.M{"category_id": categoryID, "status": models.StatusActive}
	var products []models.Product
	total, err := m.findPage(ctx, colProducts, filter, q, bson.D{{Key: "created_at", Value: -1}}, &products)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (m *MongoRepository) ListProductsBySubCategory(ctx context.Context, subCategoryID primitive.ObjectID, q PageQuery) ([]models.Product, int64, error) {
	filter := bson.M{"sub_category_id": subCategoryID, "status": models.StatusActive}
	var products []models.Product
	total, err := m.findPage(ctx, colProducts, filter, q, bson.D{{Key: "created_at", Value: -1}}, &products)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// UpdateOwnedProduct applies the patch only when the caller owns the
// product.
func (m *MongoRepository) UpdateOwnedProduct(ctx context.Context, id, ownerID primitive.ObjectID, update bson.M) (*models.Product, error) {
	update["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := m.collection(colProducts).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "owner": ownerID},
		bson.M{"$set": update},
		opts,
	).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (m *MongoRepository) DeleteOwnedProduct(ctx context.Context, id, ownerID primitive.ObjectID) error {
	_, err := m.UpdateOwnedProduct(ctx, id, ownerID, bson.M{"status": models.StatusDeleted})
	return err
}
