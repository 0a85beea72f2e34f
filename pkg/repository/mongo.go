package repository

import (
	"context"
	"errors"
	"time"

	"github.com/example/primepulse/pkg/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a document does not match the filter.
// Repositories translate mongo.ErrNoDocuments at this boundary so the
// service layer never imports the driver.
var ErrNotFound = errors.New("document not found")

// Collection names.
const (
	colUsers         = "users"
	colAdmins        = "admins"
	colAddresses     = "addresses"
	colBanks         = "banks"
	colCategories    = "categories"
	colSubCategories = "subcategories"
	colCompanies     = "companies"
	colProducts      = "products"
	colCarts         = "carts"
	colOrders        = "orders"
	colFavourites    = "favourite_items"
)

type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongoRepository(cfg *config.MongoDBConfig) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoRepository{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// EnsureIndexes creates the lookup indexes the hot paths rely on.
func (m *MongoRepository) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colAdmins: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colAddresses: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		colBanks: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		colProducts: {
			{Keys: bson.D{{Key: "owner", Value: 1}}},
			{Keys: bson.D{{Key: "category_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "sub_category_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		colCarts: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colOrders: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "manufacturer_ids", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		colFavourites: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for col, models := range specs {
		if _, err := m.database.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

func (m *MongoRepository) collection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

// findPage runs a paginated Find plus a CountDocuments over the same
// filter, decoding into dest (a pointer to a slice).
func (m *MongoRepository) findPage(ctx context.Context, col string, filter bson.M, q PageQuery, sort bson.D, dest interface{}) (int64, error) {
	c := m.collection(col)

	total, err := c.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}

	opts := options.Find().SetSort(sort).SetSkip(q.Skip()).SetLimit(int64(q.Limit))
	cursor, err := c.Find(ctx, filter, opts)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, dest); err != nil {
		return 0, err
	}
	return total, nil
}
