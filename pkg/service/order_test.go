package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/example/primepulse/pkg/models"
	"github.com/example/primepulse/pkg/repository"
)

type orderStoreFake struct {
	orders map[primitive.ObjectID]*models.Order
}

func newOrderStoreFake() *orderStoreFake {
	return &orderStoreFake{orders: make(map[primitive.ObjectID]*models.Order)}
}

func (f *orderStoreFake) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	f.orders[order.ID] = order
	return order, nil
}

func (f *orderStoreFake) FindOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return order, nil
}

func (f *orderStoreFake) FindOwnedOrder(ctx context.Context, id, userID primitive.ObjectID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok || order.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return order, nil
}

func (f *orderStoreFake) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID, q repository.PageQuery) ([]models.Order, int64, error) {
	var out []models.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, int64(len(out)), nil
}

func (f *orderStoreFake) ListOrdersByManufacturer(ctx context.Context, manufacturerID primitive.ObjectID, q repository.PageQuery) ([]models.Order, int64, error) {
	var out []models.Order
	for _, order := range f.orders {
		if order.ContainsManufacturer(manufacturerID) {
			out = append(out, *order)
		}
	}
	return out, int64(len(out)), nil
}

func (f *orderStoreFake) ListAllOrders(ctx context.Context, q repository.PageQuery) ([]models.Order, int64, error) {
	var out []models.Order
	for _, order := range f.orders {
		out = append(out, *order)
	}
	return out, int64(len(out)), nil
}

func (f *orderStoreFake) CancelPendingOrder(ctx context.Context, id, userID primitive.ObjectID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok || order.UserID != userID || order.Status != models.OrderStatusPending {
		return nil, repository.ErrNotFound
	}
	order.Status = models.OrderStatusCancelled
	return order, nil
}

func (f *orderStoreFake) UpdateOrderPayment(ctx context.Context, id primitive.ObjectID, paymentStatus string, paymentDate time.Time) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok || order.Payment.PaymentStatus == models.PaymentStatusPaid {
		return nil, repository.ErrNotFound
	}
	order.Payment.PaymentStatus = paymentStatus
	order.Payment.PaymentDate = &paymentDate
	return order, nil
}

type orderCartFake struct {
	items    []models.CartItem
	cleared  bool
	clearErr error
}

func (f *orderCartFake) ListCartItems(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	return f.items, nil
}

func (f *orderCartFake) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared = true
	f.items = nil
	return nil
}

type orderAddressFake struct {
	addresses map[primitive.ObjectID]*models.Address
}

func (f *orderAddressFake) FindOwnedActiveAddress(ctx context.Context, id, userID primitive.ObjectID) (*models.Address, error) {
	address, ok := f.addresses[id]
	if !ok || address.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return address, nil
}

func (f *orderAddressFake) FindAddressesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Address, error) {
	var out []models.Address
	for _, id := range ids {
		if address, ok := f.addresses[id]; ok {
			out = append(out, *address)
		}
	}
	return out, nil
}

type orderProductFake struct {
	products map[primitive.ObjectID]*models.Product
}

func (f *orderProductFake) FindProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return product, nil
}

func (f *orderProductFake) FindProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if product, ok := f.products[id]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}

type orderUserFake struct {
	users map[primitive.ObjectID]*models.User
}

func (f *orderUserFake) FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

type orderFixture struct {
	svc       *OrderService
	orders    *orderStoreFake
	carts     *orderCartFake
	addresses *orderAddressFake
	products  *orderProductFake
	users     *orderUserFake

	userID    primitive.ObjectID
	addressID primitive.ObjectID
	m1, m2    primitive.ObjectID
	p1, p2    primitive.ObjectID
}

// newOrderFixture sets up a two-manufacturer cart: m1's product in a
// line worth 20 and m2's product in a line worth 15.
func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:    newOrderStoreFake(),
		carts:     &orderCartFake{},
		addresses: &orderAddressFake{addresses: make(map[primitive.ObjectID]*models.Address)},
		products:  &orderProductFake{products: make(map[primitive.ObjectID]*models.Product)},
		users:     &orderUserFake{users: make(map[primitive.ObjectID]*models.User)},
		userID:    primitive.NewObjectID(),
		addressID: primitive.NewObjectID(),
		m1:        primitive.NewObjectID(),
		m2:        primitive.NewObjectID(),
		p1:        primitive.NewObjectID(),
		p2:        primitive.NewObjectID(),
	}

	f.addresses.addresses[f.addressID] = &models.Address{ID: f.addressID, UserID: f.userID, Status: models.StatusActive}
	f.products.products[f.p1] = &models.Product{ID: f.p1, Owner: f.m1, Name: "widget", Price: 10}
	f.products.products[f.p2] = &models.Product{ID: f.p2, Owner: f.m2, Name: "gadget", Price: 15}
	f.carts.items = []models.CartItem{
		{ID: primitive.NewObjectID(), UserID: f.userID, ProductID: f.p1, Quantity: 2, Price: 20},
		{ID: primitive.NewObjectID(), UserID: f.userID, ProductID: f.p2, Quantity: 1, Price: 15},
	}

	f.svc = NewOrderService(f.orders, f.carts, f.addresses, f.products, f.users, zap.NewNop())
	return f
}

func TestOrderCreateSnapshotsCart(t *testing.T) {
	f := newOrderFixture()

	order, err := f.svc.Create(context.Background(), f.userID, f.addressID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if order.TotalPrice != 35 {
		t.Errorf("total price = %v, want 35", order.TotalPrice)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(order.Items))
	}
	if order.Items[0].Owner != f.m1 || order.Items[1].Owner != f.m2 {
		t.Errorf("item owners not snapshotted: %v, %v", order.Items[0].Owner, order.Items[1].Owner)
	}
	if order.Items[0].Price != 20 || order.Items[1].Price != 15 {
		t.Errorf("line prices = %v, %v, want 20, 15", order.Items[0].Price, order.Items[1].Price)
	}
	if len(order.ManufacturerIDs) != 2 {
		t.Errorf("manufacturer ids = %v, want two distinct owners", order.ManufacturerIDs)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("status = %q, want %q", order.Status, models.OrderStatusPending)
	}
	if order.Payment.PaymentStatus != models.PaymentStatusUnpaid {
		t.Errorf("payment status = %q, want %q", order.Payment.PaymentStatus, models.PaymentStatusUnpaid)
	}
	if !f.carts.cleared {
		t.Error("cart was not cleared after order creation")
	}
}

func TestOrderCreateDeduplicatesManufacturers(t *testing.T) {
	f := newOrderFixture()
	p3 := primitive.NewObjectID()
	f.products.products[p3] = &models.Product{ID: p3, Owner: f.m1, Name: "sprocket", Price: 5}
	f.carts.items = append(f.carts.items, models.CartItem{
		ID: primitive.NewObjectID(), UserID: f.userID, ProductID: p3, Quantity: 1, Price: 5,
	})

	order, err := f.svc.Create(context.Background(), f.userID, f.addressID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(order.ManufacturerIDs) != 2 {
		t.Errorf("manufacturer ids = %v, want deduplicated pair", order.ManufacturerIDs)
	}
	if order.TotalPrice != 40 {
		t.Errorf("total price = %v, want 40", order.TotalPrice)
	}
}

func TestOrderCreateEmptyCart(t *testing.T) {
	f := newOrderFixture()
	f.carts.items = nil

	_, err := f.svc.Create(context.Background(), f.userID, f.addressID)
	if KindOf(err) != KindInvalidState {
		t.Fatalf("kind = %v, want invalid state", KindOf(err))
	}
	if len(f.orders.orders) != 0 {
		t.Error("order was written for an empty cart")
	}
}

func TestOrderCreateUnknownAddress(t *testing.T) {
	f := newOrderFixture()

	_, err := f.svc.Create(context.Background(), f.userID, primitive.NewObjectID())
	if KindOf(err) != KindInvalidState {
		t.Fatalf("kind = %v, want invalid state", KindOf(err))
	}
	if MessageOf(err) != "Shipping address does not exist" {
		t.Errorf("message = %q", MessageOf(err))
	}
	if len(f.orders.orders) != 0 {
		t.Error("order was written with an unowned address")
	}
}

func TestOrderCreateMissingProduct(t *testing.T) {
	f := newOrderFixture()
	delete(f.products.products, f.p2)

	_, err := f.svc.Create(context.Background(), f.userID, f.addressID)
	if KindOf(err) != KindInvalidState {
		t.Fatalf("kind = %v, want invalid state", KindOf(err))
	}
	if len(f.orders.orders) != 0 {
		t.Error("order was written with a vanished product")
	}
}

func TestOrderCreateSurvivesClearFailure(t *testing.T) {
	f := newOrderFixture()
	f.carts.clearErr = errors.New("redis down")

	order, err := f.svc.Create(context.Background(), f.userID, f.addressID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := f.orders.orders[order.ID]; !ok {
		t.Error("order discarded after cart clear failure")
	}
}

func TestOrderCancel(t *testing.T) {
	f := newOrderFixture()
	order, err := f.svc.Create(context.Background(), f.userID, f.addressID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	cancelled, err := f.svc.Cancel(context.Background(), f.userID, order.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != models.OrderStatusCancelled {
		t.Errorf("status = %q, want %q", cancelled.Status, models.OrderStatusCancelled)
	}

	// A second cancel finds the order but not in a cancellable state.
	_, err = f.svc.Cancel(context.Background(), f.userID, order.ID)
	if KindOf(err) != KindInvalidState {
		t.Errorf("second cancel kind = %v, want invalid state", KindOf(err))
	}

	_, err = f.svc.Cancel(context.Background(), f.userID, primitive.NewObjectID())
	if KindOf(err) != KindNotFound {
		t.Errorf("unknown order kind = %v, want not found", KindOf(err))
	}
}

func TestOrderCancelOtherUsersOrder(t *testing.T) {
	f := newOrderFixture()
	order, err := f.svc.Create(context.Background(), f.userID, f.addressID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = f.svc.Cancel(context.Background(), primitive.NewObjectID(), order.ID)
	if KindOf(err) != KindNotFound {
		t.Errorf("kind = %v, want not found", KindOf(err))
	}
	if f.orders.orders[order.ID].Status != models.OrderStatusPending {
		t.Error("another user's cancel mutated the order")
	}
}

func TestManufacturerProjection(t *testing.T) {
	f := newOrderFixture()
	order, err := f.svc.Create(context.Background(), f.userID, f.addressID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	view, err := f.svc.GetForManufacturer(context.Background(), f.m1, order.ID)
	if err != nil {
		t.Fatalf("GetForManufacturer: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("items = %d, want only m1's line", len(view.Items))
	}
	if view.Items[0].Owner != f.m1 {
		t.Errorf("item owner = %v, want %v", view.Items[0].Owner, f.m1)
	}
	if view.TotalPrice != 20 {
		t.Errorf("projected total = %v, want 20", view.TotalPrice)
	}
	if len(view.ManufacturerIDs) != 1 || view.ManufacturerIDs[0] != f.m1 {
		t.Errorf("manufacturer ids = %v, want [%v]", view.ManufacturerIDs, f.m1)
	}
}

func TestManufacturerProjectionForbidden(t *testing.T) {
	f := newOrderFixture()
	order, err := f.svc.Create(context.Background(), f.userID, f.addressID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = f.svc.GetForManufacturer(context.Background(), primitive.NewObjectID(), order.ID)
	if KindOf(err) != KindForbidden {
		t.Fatalf("kind = %v, want forbidden", KindOf(err))
	}
}

func TestListForManufacturerFiltersItems(t *testing.T) {
	f := newOrderFixture()
	if _, err := f.svc.Create(context.Background(), f.userID, f.addressID); err != nil {
		t.Fatalf("Create: %v", err)
	}

	views, total, err := f.svc.ListForManufacturer(context.Background(), f.m2, repository.PageQuery{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("ListForManufacturer: %v", err)
	}
	if total != 1 || len(views) != 1 {
		t.Fatalf("views = %d (total %d), want 1", len(views), total)
	}
	if len(views[0].Items) != 1 || views[0].Items[0].Owner != f.m2 {
		t.Errorf("foreign items leaked into projection: %+v", views[0].Items)
	}
	if views[0].TotalPrice != 15 {
		t.Errorf("projected total = %v, want 15", views[0].TotalPrice)
	}
}

func TestUpdatePaymentStatus(t *testing.T) {
	f := newOrderFixture()
	order, err := f.svc.Create(context.Background(), f.userID, f.addressID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = f.svc.UpdatePaymentStatus(context.Background(), order.ID, "Refunded")
	if KindOf(err) != KindInvalidState {
		t.Errorf("invalid status kind = %v, want invalid state", KindOf(err))
	}

	updated, err := f.svc.UpdatePaymentStatus(context.Background(), order.ID, models.PaymentStatusPaid)
	if err != nil {
		t.Fatalf("UpdatePaymentStatus: %v", err)
	}
	if updated.Payment.PaymentStatus != models.PaymentStatusPaid {
		t.Errorf("payment status = %q, want Paid", updated.Payment.PaymentStatus)
	}
	if updated.Payment.PaymentDate == nil {
		t.Error("payment date not set")
	}

	// Paid is terminal.
	_, err = f.svc.UpdatePaymentStatus(context.Background(), order.ID, models.PaymentStatusPending)
	if KindOf(err) != KindInvalidState {
		t.Errorf("paid order kind = %v, want invalid state", KindOf(err))
	}
	if MessageOf(err) != "Order has already been paid" {
		t.Errorf("message = %q", MessageOf(err))
	}

	_, err = f.svc.UpdatePaymentStatus(context.Background(), primitive.NewObjectID(), models.PaymentStatusPaid)
	if KindOf(err) != KindNotFound {
		t.Errorf("unknown order kind = %v, want not found", KindOf(err))
	}
}

func TestAdminViewPopulatesReferences(t *testing.T) {
	f := newOrderFixture()
	f.users.users[f.userID] = &models.User{ID: f.userID, FirstName: "Ada"}
	f.users.users[f.m1] = &models.User{ID: f.m1, UserType: models.UserTypeManufacturer}
	f.users.users[f.m2] = &models.User{ID: f.m2, UserType: models.UserTypeManufacturer}

	order, err := f.svc.Create(context.Background(), f.userID, f.addressID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	view, err := f.svc.GetForAdmin(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("GetForAdmin: %v", err)
	}
	if view.User == nil || view.User.ID != f.userID {
		t.Error("customer not populated")
	}
	if len(view.Manufacturers) != 2 {
		t.Errorf("manufacturers = %d, want 2", len(view.Manufacturers))
	}
	if view.Address == nil || view.Address.ID != f.addressID {
		t.Error("shipping address not populated")
	}
}
