package service

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/example/primepulse/pkg/models"
	"github.com/example/primepulse/pkg/repository"
)

type cartStoreFake struct {
	items map[primitive.ObjectID]*models.CartItem
}

func newCartStoreFake() *cartStoreFake {
	return &cartStoreFake{items: make(map[primitive.ObjectID]*models.CartItem)}
}

func (f *cartStoreFake) CreateCartItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	item.ID = primitive.NewObjectID()
	f.items[item.ID] = item
	return item, nil
}

func (f *cartStoreFake) FindOwnedCartItem(ctx context.Context, id, userID primitive.ObjectID) (*models.CartItem, error) {
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return item, nil
}

func (f *cartStoreFake) FindCartItemByProduct(ctx context.Context, userID, productID primitive.ObjectID) (*models.CartItem, error) {
	for _, item := range f.items {
		if item.UserID == userID && item.ProductID == productID {
			return item, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *cartStoreFake) ListCartItems(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *cartStoreFake) UpdateCartItem(ctx context.Context, id primitive.ObjectID, quantity int64, price float64) (*models.CartItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	item.Quantity = quantity
	item.Price = price
	return item, nil
}

func (f *cartStoreFake) DeleteCartItem(ctx context.Context, id, userID primitive.ObjectID) error {
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type cartProductFake struct {
	products map[primitive.ObjectID]*models.Product
}

func (f *cartProductFake) FindActiveProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return product, nil
}

func (f *cartProductFake) FindProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if product, ok := f.products[id]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}

func newCartFixture() (*CartService, *cartStoreFake, *cartProductFake, primitive.ObjectID, primitive.ObjectID) {
	carts := newCartStoreFake()
	products := &cartProductFake{products: make(map[primitive.ObjectID]*models.Product)}
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	products.products[productID] = &models.Product{ID: productID, Name: "widget", Price: 12.5, Status: models.StatusActive}
	return NewCartService(carts, products, zap.NewNop()), carts, products, userID, productID
}

func TestCartAddAndMerge(t *testing.T) {
	svc, _, _, userID, productID := newCartFixture()

	item, merged, err := svc.Add(context.Background(), userID, productID, 2)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if merged {
		t.Error("first add reported as merge")
	}
	if item.Quantity != 2 || item.Price != 25 {
		t.Errorf("line = qty %d price %v, want qty 2 price 25", item.Quantity, item.Price)
	}

	item, merged, err = svc.Add(context.Background(), userID, productID, 3)
	if err != nil {
		t.Fatalf("second Add: %v", err)
	}
	if !merged {
		t.Error("repeat add did not merge")
	}
	if item.Quantity != 5 || item.Price != 62.5 {
		t.Errorf("merged line = qty %d price %v, want qty 5 price 62.5", item.Quantity, item.Price)
	}
}

func TestCartAddUnknownProduct(t *testing.T) {
	svc, carts, _, userID, _ := newCartFixture()

	_, _, err := svc.Add(context.Background(), userID, primitive.NewObjectID(), 1)
	if KindOf(err) != KindNotFound {
		t.Fatalf("kind = %v, want not found", KindOf(err))
	}
	if len(carts.items) != 0 {
		t.Error("cart line created for unknown product")
	}
}

func TestCartReduceQuantity(t *testing.T) {
	svc, _, _, userID, productID := newCartFixture()
	item, _, err := svc.Add(context.Background(), userID, productID, 4)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	reduced, err := svc.ReduceQuantity(context.Background(), userID, item.ID, 1)
	if err != nil {
		t.Fatalf("ReduceQuantity: %v", err)
	}
	if reduced.Quantity != 3 || reduced.Price != 37.5 {
		t.Errorf("line = qty %d price %v, want qty 3 price 37.5", reduced.Quantity, reduced.Price)
	}
}

func TestCartReduceToZeroDeletes(t *testing.T) {
	svc, carts, _, userID, productID := newCartFixture()
	item, _, err := svc.Add(context.Background(), userID, productID, 2)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	reduced, err := svc.ReduceQuantity(context.Background(), userID, item.ID, 2)
	if err != nil {
		t.Fatalf("ReduceQuantity: %v", err)
	}
	if reduced != nil {
		t.Errorf("reduced = %+v, want nil for a deleted line", reduced)
	}
	if len(carts.items) != 0 {
		t.Error("line survived reduction to zero")
	}
}

func TestCartRemoveUnknownLine(t *testing.T) {
	svc, _, _, userID, _ := newCartFixture()

	err := svc.Remove(context.Background(), userID, primitive.NewObjectID())
	if KindOf(err) != KindNotFound {
		t.Fatalf("kind = %v, want not found", KindOf(err))
	}
}

func TestCartListPopulatesProducts(t *testing.T) {
	svc, _, _, userID, productID := newCartFixture()
	if _, _, err := svc.Add(context.Background(), userID, productID, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}

	views, err := svc.List(context.Background(), userID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("views = %d, want 1", len(views))
	}
	if views[0].Product == nil || views[0].Product.ID != productID {
		t.Error("product not populated on cart view")
	}
}
