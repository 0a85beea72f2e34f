package service

import (
	"context"
	"errors"
	"time"

	"github.com/example/primepulse/pkg/models"
	"github.com/example/primepulse/pkg/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store interfaces are declared next to the consumer so tests can swap
// in fakes. MongoRepository satisfies all of them.

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindOwnedOrder(ctx context.Context, id, userID primitive.ObjectID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID primitive.ObjectID, q repository.PageQuery) ([]models.Order, int64, error)
	ListOrdersByManufacturer(ctx context.Context, manufacturerID primitive.ObjectID, q repository.PageQuery) ([]models.Order, int64, error)
	ListAllOrders(ctx context.Context, q repository.PageQuery) ([]models.Order, int64, error)
	CancelPendingOrder(ctx context.Context, id, userID primitive.ObjectID) (*models.Order, error)
	UpdateOrderPayment(ctx context.Context, id primitive.ObjectID, paymentStatus string, paymentDate time.Time) (*models.Order, error)
}

type OrderCartStore interface {
	ListCartItems(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error)
	ClearCart(ctx context.Context, userID primitive.ObjectID) error
}

type OrderAddressStore interface {
	FindOwnedActiveAddress(ctx context.Context, id, userID primitive.ObjectID) (*models.Address, error)
	FindAddressesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Address, error)
}

type OrderProductStore interface {
	FindProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
}

type OrderUserStore interface {
	FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// ManufacturerOrder is the per-owner projection of an order: only the
// caller's items, with the total recomputed over that subset.
type ManufacturerOrder struct {
	ID              primitive.ObjectID   `json:"id"`
	Items           []models.OrderItem   `json:"items"`
	TotalPrice      float64              `json:"total_price"`
	Status          string               `json:"status"`
	Payment         models.Payment       `json:"payment"`
	ShippingAddress primitive.ObjectID   `json:"shipping_address"`
	ManufacturerIDs []primitive.ObjectID `json:"manufacturer_ids"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

type OrderService struct {
	orders    OrderStore
	carts     OrderCartStore
	addresses OrderAddressStore
	products  OrderProductStore
	users     OrderUserStore
	logger    *zap.Logger
}

func NewOrderService(orders OrderStore, carts OrderCartStore, addresses OrderAddressStore, products OrderProductStore, users OrderUserStore, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		addresses: addresses,
		products:  products,
		users:     users,
		logger:    logger,
	}
}

// Create materializes an order from the user's cart. Items are a
// point-in-time snapshot: the line price comes from the cart, not a
// fresh catalog quote. The order write strictly precedes the cart
// clear; a failed clear keeps the order and is logged for cleanup.
func (s *OrderService) Create(ctx context.Context, userID, shippingAddressID primitive.ObjectID) (*models.Order, error) {
	if _, err := s.addresses.FindOwnedActiveAddress(ctx, shippingAddressID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, InvalidState("Shipping address does not exist")
		}
		return nil, Internal(err)
	}

	cartItems, err := s.carts.ListCartItems(ctx, userID)
	if err != nil {
		return nil, Internal(err)
	}
	if len(cartItems) == 0 {
		return nil, InvalidState("Cart is empty")
	}

	items := make([]models.OrderItem, 0, len(cartItems))
	var manufacturerIDs []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool)
	var totalPrice float64

	for _, line := range cartItems {
		product, err := s.products.FindProductByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, InvalidState("Product does not exist")
			}
			return nil, Internal(err)
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Owner:     product.Owner,
			Name:      product.Name,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
		if !seen[product.Owner] {
			seen[product.Owner] = true
			manufacturerIDs = append(manufacturerIDs, product.Owner)
		}
		totalPrice += line.Price
	}

	order, err := s.orders.CreateOrder(ctx, &models.Order{
		UserID:          userID,
		ManufacturerIDs: manufacturerIDs,
		Items:           items,
		TotalPrice:      totalPrice,
		ShippingAddress: shippingAddressID,
		Status:          models.OrderStatusPending,
		Payment:         models.Payment{PaymentStatus: models.PaymentStatusUnpaid},
	})
	if err != nil {
		return nil, Internal(err)
	}

	if err := s.carts.ClearCart(ctx, userID); err != nil {
		// The order stands; the stale cart is a recoverable
		// inconsistency, not a failure of the creation.
		s.logger.Error("failed to clear cart after order creation",
			zap.String("order_id", order.ID.Hex()),
			zap.String("user_id", userID.Hex()),
			zap.Error(err))
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.Hex()),
		zap.String("user_id", userID.Hex()),
		zap.Float64("total_price", order.TotalPrice),
		zap.Int("items", len(order.Items)))

	return order, nil
}

// ListForUser returns the customer view: the user's own orders, newest
// first, with product details populated into the items.
func (s *OrderService) ListForUser(ctx context.Context, userID primitive.ObjectID, q repository.PageQuery) ([]models.Order, int64, error) {
	orders, total, err := s.orders.ListOrdersByUser(ctx, userID, q)
	if err != nil {
		return nil, 0, Internal(err)
	}
	if err := s.populateItems(ctx, orders); err != nil {
		return nil, 0, Internal(err)
	}
	return orders, total, nil
}

func (s *OrderService) GetForUser(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.FindOwnedOrder(ctx, orderID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Order not found")
	}
	if err != nil {
		return nil, Internal(err)
	}
	return order, nil
}

// Cancel flips a Pending order to Cancelled. The store applies the
// status guard atomically; this only disambiguates the failure.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.CancelPendingOrder(ctx, orderID, userID)
	if err == nil {
		s.logger.Info("order cancelled", zap.String("order_id", order.ID.Hex()))
		return order, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal(err)
	}

	if _, err := s.orders.FindOwnedOrder(ctx, orderID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Order not found")
		}
		return nil, Internal(err)
	}
	return nil, InvalidState("Order cannot be cancelled")
}

// ListForManufacturer returns only orders containing the caller among
// the product owners, each reduced to the caller's own items.
func (s *OrderService) ListForManufacturer(ctx context.Context, manufacturerID primitive.ObjectID, q repository.PageQuery) ([]ManufacturerOrder, int64, error) {
	orders, total, err := s.orders.ListOrdersByManufacturer(ctx, manufacturerID, q)
	if err != nil {
		return nil, 0, Internal(err)
	}

	views := make([]ManufacturerOrder, 0, len(orders))
	for i := range orders {
		if !orders[i].ContainsManufacturer(manufacturerID) {
			continue
		}
		views = append(views, projectManufacturerOrder(&orders[i], manufacturerID))
	}
	return views, total, nil
}

func (s *OrderService) GetForManufacturer(ctx context.Context, manufacturerID, orderID primitive.ObjectID) (*ManufacturerOrder, error) {
	order, err := s.orders.FindOrderByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Order not found")
	}
	if err != nil {
		return nil, Internal(err)
	}

	if !order.ContainsManufacturer(manufacturerID) {
		return nil, Forbidden("You are not authorized to view this order")
	}

	view := projectManufacturerOrder(order, manufacturerID)
	return &view, nil
}

// ListForAdmin returns the full, unfiltered orders with user,
// manufacturer, product and address references populated.
func (s *OrderService) ListForAdmin(ctx context.Context, q repository.PageQuery) ([]models.AdminOrderView, int64, error) {
	orders, total, err := s.orders.ListAllOrders(ctx, q)
	if err != nil {
		return nil, 0, Internal(err)
	}
	views, err := s.populateAdminViews(ctx, orders)
	if err != nil {
		return nil, 0, Internal(err)
	}
	return views, total, nil
}

func (s *OrderService) GetForAdmin(ctx context.Context, orderID primitive.ObjectID) (*models.AdminOrderView, error) {
	order, err := s.orders.FindOrderByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Order not found")
	}
	if err != nil {
		return nil, Internal(err)
	}

	views, err := s.populateAdminViews(ctx, []models.Order{*order})
	if err != nil {
		return nil, Internal(err)
	}
	return &views[0], nil
}

// UpdatePaymentStatus is admin-only. The store rejects the update once
// the order is Paid; Paid is terminal.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID primitive.ObjectID, paymentStatus string) (*models.Order, error) {
	if !models.ValidPaymentStatus(paymentStatus) {
		return nil, InvalidState("Invalid payment status")
	}

	order, err := s.orders.UpdateOrderPayment(ctx, orderID, paymentStatus, time.Now())
	if err == nil {
		s.logger.Info("order payment status updated",
			zap.String("order_id", order.ID.Hex()),
			zap.String("payment_status", paymentStatus))
		return order, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal(err)
	}

	if _, err := s.orders.FindOrderByID(ctx, orderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Order not found")
		}
		return nil, Internal(err)
	}
	return nil, InvalidState("Order has already been paid")
}

// projectManufacturerOrder is the single place the per-owner filtering
// invariant lives: items belonging to other manufacturers never leak,
// and the total is the sum of the surviving snapshotted line prices.
func projectManufacturerOrder(order *models.Order, manufacturerID primitive.ObjectID) ManufacturerOrder {
	var items []models.OrderItem
	var totalPrice float64
	for _, item := range order.Items {
		if item.Owner != manufacturerID {
			continue
		}
		items = append(items, item)
		totalPrice += item.Price
	}

	return ManufacturerOrder{
		ID:              order.ID,
		Items:           items,
		TotalPrice:      totalPrice,
		Status:          order.Status,
		Payment:         order.Payment,
		ShippingAddress: order.ShippingAddress,
		ManufacturerIDs: []primitive.ObjectID{manufacturerID},
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

// populateItems attaches current product documents to the snapshot
// lines for display. Snapshot fields are never overwritten.
func (s *OrderService) populateItems(ctx context.Context, orders []models.Order) error {
	idSet := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for i := range orders {
		for _, item := range orders[i].Items {
			if !idSet[item.ProductID] {
				idSet[item.ProductID] = true
				ids = append(ids, item.ProductID)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	products, err := s.products.FindProductsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for i := range orders {
		for j := range orders[i].Items {
			orders[i].Items[j].Product = byID[orders[i].Items[j].ProductID]
		}
	}
	return nil
}

func (s *OrderService) populateAdminViews(ctx context.Context, orders []models.Order) ([]models.AdminOrderView, error) {
	if err := s.populateItems(ctx, orders); err != nil {
		return nil, err
	}

	userSet := make(map[primitive.ObjectID]bool)
	addrSet := make(map[primitive.ObjectID]bool)
	var userIDs, addrIDs []primitive.ObjectID
	for i := range orders {
		if !userSet[orders[i].UserID] {
			userSet[orders[i].UserID] = true
			userIDs = append(userIDs, orders[i].UserID)
		}
		for _, m := range orders[i].ManufacturerIDs {
			if !userSet[m] {
				userSet[m] = true
				userIDs = append(userIDs, m)
			}
		}
		if !addrSet[orders[i].ShippingAddress] {
			addrSet[orders[i].ShippingAddress] = true
			addrIDs = append(addrIDs, orders[i].ShippingAddress)
		}
	}

	users, err := s.users.FindUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	addresses, err := s.addresses.FindAddressesByIDs(ctx, addrIDs)
	if err != nil {
		return nil, err
	}

	userByID := make(map[primitive.ObjectID]*models.User, len(users))
	for i := range users {
		userByID[users[i].ID] = &users[i]
	}
	addrByID := make(map[primitive.ObjectID]*models.Address, len(addresses))
	for i := range addresses {
		addrByID[addresses[i].ID] = &addresses[i]
	}

	views := make([]models.AdminOrderView, len(orders))
	for i := range orders {
		view := models.AdminOrderView{Order: orders[i]}
		view.User = userByID[orders[i].UserID]
		view.Address = addrByID[orders[i].ShippingAddress]
		for _, m := range orders[i].ManufacturerIDs {
			if u := userByID[m]; u != nil {
				view.Manufacturers = append(view.Manufacturers, *u)
			}
		}
		views[i] = view
	}
	return views, nil
}
