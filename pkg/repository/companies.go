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

func (m *MongoRepository) CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error) {
	now := time.Now()
	company.CreatedAt = now
	company.UpdatedAt = now
	if company.Status == "" {
		company.Status = models.StatusActive
	}

	res, err := m.collection(colCompanies).InsertOne(ctx, company)
	if err != nil {
		return nil, err
	}
	company.ID = res.InsertedID.(primitive.ObjectID)
	return company, nil
}

func (m *MongoRepository) FindCompanyByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error) {
	var company models.Company
	err := m.collection(colCompanies).FindOne(ctx, bson.M{"_id": id}).Decode(&company)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (m *MongoRepository) FindCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	var company models.Company
	err := m.collection(colCompanies).FindOne(ctx, bson.M{"name": name}).Decode(&company)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (m *MongoRepository) FindCompanyByOwner(ctx context.Context, ownerID primitive.ObjectID) (*models.Company, error) {
	var company models.Company
	err := m.collection(colCompanies).FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&company)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (m *MongoRepository) ListCompanies(ctx context.Context, q PageQuery) ([]models.Company, int64, error) {
	filter := bson.M{"status": bson.M{"$ne": models.StatusDeleted}}
	var companies []models.Company
	total, err := m.findPage(ctx, colCompanies, filter, q, bson.D{{Key: "created_at", Value: -1}}, &companies)
	if err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

func (m *MongoRepository) UpdateCompany(ctx context.Context, id, ownerID primitive.ObjectID, update bson.M) (*models.Company, error) {
	update["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var company models.Company
	err := m.collection(colCompanies).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "owner_id": ownerID},
		bson.M{"$set": update},
		opts,
	).Decode(&company)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (m *MongoRepository) DeleteCompany(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.collection(colCompanies).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": models.StatusDeleted, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
