package service

import (
	"context"
	"errors"

	"github.com/example/primepulse/pkg/models"
	"github.com/example/primepulse/pkg/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type CartStore interface {
	CreateCartItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	FindOwnedCartItem(ctx context.Context, id, userID primitive.ObjectID) (*models.CartItem, error)
	FindCartItemByProduct(ctx context.Context, userID, productID primitive.ObjectID) (*models.CartItem, error)
	ListCartItems(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error)
	UpdateCartItem(ctx context.Context, id primitive.ObjectID, quantity int64, price float64) (*models.CartItem, error)
	DeleteCartItem(ctx context.Context, id, userID primitive.ObjectID) error
}

type CartProductStore interface {
	FindActiveProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
}

type CartService struct {
	carts    CartStore
	products CartProductStore
	logger   *zap.Logger
}

func NewCartService(carts CartStore, products CartProductStore, logger *zap.Logger) *CartService {
	return &CartService{carts: carts, products: products, logger: logger}
}

// Add merges into an existing line for the same product or creates a
// new one. The line price is quantity times the catalog price at add
// time; merged is true when an existing line absorbed the quantity.
func (s *CartService) Add(ctx context.Context, userID, productID primitive.ObjectID, quantity int64) (item *models.CartItem, merged bool, err error) {
	product, err := s.products.FindActiveProductByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, NotFound("Product not found or already deleted")
	}
	if err != nil {
		return nil, false, Internal(err)
	}

	existing, err := s.carts.FindCartItemByProduct(ctx, userID, productID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, false, Internal(err)
	}

	if existing != nil {
		updated, err := s.carts.UpdateCartItem(ctx, existing.ID,
			existing.Quantity+quantity,
			existing.Price+product.Price*float64(quantity))
		if err != nil {
			return nil, false, Internal(err)
		}
		return updated, true, nil
	}

	created, err := s.carts.CreateCartItem(ctx, &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     product.Price * float64(quantity),
	})
	if err != nil {
		return nil, false, Internal(err)
	}
	return created, false, nil
}

// List returns the user's cart lines with products populated.
func (s *CartService) List(ctx context.Context, userID primitive.ObjectID) ([]models.CartView, error) {
	items, err := s.carts.ListCartItems(ctx, userID)
	if err != nil {
		return nil, Internal(err)
	}

	var ids []primitive.ObjectID
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, Internal(err)
	}
	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	views := make([]models.CartView, len(items))
	for i, item := range items {
		views[i] = models.CartView{CartItem: item, Product: byID[item.ProductID]}
	}
	return views, nil
}

func (s *CartService) Remove(ctx context.Context, userID, itemID primitive.ObjectID) error {
	err := s.carts.DeleteCartItem(ctx, itemID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Cart not found or already deleted")
	}
	if err != nil {
		return Internal(err)
	}
	return nil
}

// ReduceQuantity removes quantity units from a line; reducing to zero
// or below deletes the line. The remaining line price is the unit
// price at add time times the remaining quantity. The returned item is
// nil when the line was deleted.
func (s *CartService) ReduceQuantity(ctx context.Context, userID, itemID primitive.ObjectID, quantity int64) (*models.CartItem, error) {
	item, err := s.carts.FindOwnedCartItem(ctx, itemID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Cart not found or already deleted")
	}
	if err != nil {
		return nil, Internal(err)
	}

	remaining := item.Quantity - quantity
	if remaining <= 0 {
		if err := s.carts.DeleteCartItem(ctx, itemID, userID); err != nil {
			return nil, Internal(err)
		}
		return nil, nil
	}

	updated, err := s.carts.UpdateCartItem(ctx, item.ID, remaining, item.UnitPrice()*float64(remaining))
	if err != nil {
		return nil, Internal(err)
	}
	return updated, nil
}
