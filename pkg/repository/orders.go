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

func (m *MongoRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := m.collection(colOrders).InsertOne(ctx, order)
	if err != nil {
		return nil, err
	}
	order.ID = res.InsertedID.(primitive.ObjectID)
	return order, nil
}

func (m *MongoRepository) FindOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := m.collection(colOrders).FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *MongoRepository) FindOwnedOrder(ctx context.Context, id, userID primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := m.collection(colOrders).FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *MongoRepository) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID, q PageQuery) ([]models.Order, int64, error) {
	filter := bson.M{"user_id": userID}
	var orders []models.Order
	total, err := m.findPage(ctx, colOrders, filter, q, bson.D{{Key: "created_at", Value: -1}}, &orders)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListOrdersByManufacturer matches on set membership: orders whose
// manufacturer_ids contain the given id.
func (m *MongoRepository) ListOrdersByManufacturer(ctx context.Context, manufacturerID primitive.ObjectID, q PageQuery) ([]models.Order, int64, error) {
	filter := bson.M{"manufacturer_ids": manufacturerID}
	var orders []models.Order
	total, err := m.findPage(ctx, colOrders, filter, q, bson.D{{Key: "created_at", Value: -1}}, &orders)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (m *MongoRepository) ListAllOrders(ctx context.Context, q PageQuery) ([]models.Order, int64, error) {
	var orders []models.Order
	total, err := m.findPage(ctx, colOrders, bson.M{}, q, bson.D{{Key: "created_at", Value: -1}}, &orders)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// CancelPendingOrder flips a Pending order owned by userID to Cancelled
// in a single conditional update, so concurrent admin transitions cannot
// race the guard. ErrNotFound means no document matched the full filter;
// the caller distinguishes missing from non-pending.
func (m *MongoRepository) CancelPendingOrder(ctx context.Context, id, userID primitive.ObjectID) (*models.Order, error) {
	filter := bson.M{"_id": id, "user_id": userID, "status": models.OrderStatusPending}
	update := bson.M{"$set": bson.M{"status": models.OrderStatusCancelled, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := m.collection(colOrders).FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderPayment sets the payment fields only while the order is not
// already Paid. Paid is terminal.
func (m *MongoRepository) UpdateOrderPayment(ctx context.Context, id primitive.ObjectID, paymentStatus string, paymentDate time.Time) (*models.Order, error) {
	filter := bson.M{"_id": id, "payment.payment_status": bson.M{"$ne": models.PaymentStatusPaid}}
	update := bson.M{"$set": bson.M{
		"payment.payment_status": paymentStatus,
		"payment.payment_date":   paymentDate,
		"updated_at":             time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := m.collection(colOrders).FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
