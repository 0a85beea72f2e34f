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

func (m *MongoRepository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
	if category.Status == "" {
		category.Status = models.StatusActive
	}

	res, err := m.collection(colCategories).InsertOne(ctx, category)
	if err != nil {
		return nil, err
	}
	category.ID = res.InsertedID.(primitive.ObjectID)
	return category, nil
}

func (m *MongoRepository) FindCategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := m.collection(colCategories).FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (m *MongoRepository) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := m.collection(colCategories).FindOne(ctx, bson.M{"name": name}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (m *MongoRepository) ListActiveCategories(ctx context.Context, q PageQuery) ([]models.Category, int64, error) {
	filter := bson.M{"status": models.StatusActive}
	var categories []models.Category
	total, err := m.findPage(ctx, colCategories, filter, q, bson.D{{Key: "created_at", Value: -1}}, &categories)
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// AllActiveCategories is the unpaginated read behind the aggregate
// endpoints.
func (m *MongoRepository) AllActiveCategories(ctx context.Context) ([]models.Category, error) {
	cursor, err := m.collection(colCategories).Find(ctx,
		bson.M{"status": models.StatusActive},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (m *MongoRepository) UpdateCategory(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Category, error) {
	update["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var category models.Category
	err := m.collection(colCategories).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		opts,
	).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (m *MongoRepository) CreateSubCategory(ctx context.Context, sub *models.SubCategory) (*models.SubCategory, error) {
	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	if sub.Status == "" {
		sub.Status = models.StatusActive
	}

	res, err := m.collection(colSubCategories).InsertOne(ctx, sub)
	if err != nil {
		return nil, err
	}
	sub.ID = res.InsertedID.(primitive.ObjectID)
	return sub, nil
}

func (m *MongoRepository) FindSubCategoryByID(ctx context.Context, id primitive.ObjectID) (*models.SubCategory, error) {
	var sub models.SubCategory
	err := m.collection(colSubCategories).FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (m *MongoRepository) FindSubCategoryByName(ctx context.Context, categoryID primitive.ObjectID, name string) (*models.SubCategory, error) {
	filter := bson.M{"category_id": categoryID, "name": name}
	var sub models.SubCategory
	err := m.collection(colSubCategories).FindOne(ctx, filter).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (m *MongoRepository) ActiveSubCategoriesByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.SubCategory, error) {
	cursor, err := m.collection(colSubCategories).Find(ctx,
		bson.M{"category_id": categoryID, "status": models.StatusActive},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []models.SubCategory
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (m *MongoRepository) UpdateSubCategory(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.SubCategory, error) {
	update["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var sub models.SubCategory
	err := m.collection(colSubCategories).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		opts,
	).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
