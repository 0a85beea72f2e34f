package service

import (
	"context"
	"errors"

	"github.com/example/primepulse/pkg/models"
	"github.com/example/primepulse/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ProductStore interface {
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	FindProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindActiveProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	ListActiveProducts(ctx context.Context, q repository.PageQuery) ([]models.Product, int64, error)
	ListProductsByCategory(ctx context.Context, categoryID primitive.ObjectID, q repository.PageQuery) ([]models.Product, int64, error)
	ListProductsBySubCategory(ctx context.Context, subCategoryID primitive.ObjectID, q repository.PageQuery) ([]models.Product, int64, error)
	UpdateOwnedProduct(ctx context.Context, id, ownerID primitive.ObjectID, update bson.M) (*models.Product, error)
	DeleteOwnedProduct(ctx context.Context, id, ownerID primitive.ObjectID) error
}

type ProductCategoryStore interface {
	FindCategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindSubCategoryByID(ctx context.Context, id primitive.ObjectID) (*models.SubCategory, error)
}

// ProductCache is the read-through cache in front of product lookups.
type ProductCache interface {
	CacheProduct(ctx context.Context, product *models.Product) error
	GetCachedProduct(ctx context.Context, id string) (*models.Product, error)
	InvalidateProduct(ctx context.Context, id string) error
}

type ProductService struct {
	products   ProductStore
	categories ProductCategoryStore
	cache      ProductCache
	logger     *zap.Logger
}

func NewProductService(products ProductStore, categories ProductCategoryStore, cache ProductCache, logger *zap.Logger) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		cache:      cache,
		logger:     logger,
	}
}

type ProductInput struct {
	Name          string
	Description   string
	Price         float64
	Quantity      int64
	Images        []string
	CategoryID    primitive.ObjectID
	SubCategoryID primitive.ObjectID
}

func (s *ProductService) Create(ctx context.Context, ownerID primitive.ObjectID, in ProductInput) (*models.Product, error) {
	if err := s.checkRefs(ctx, in.CategoryID, in.SubCategoryID); err != nil {
		return nil, err
	}

	product, err := s.products.CreateProduct(ctx, &models.Product{
		Owner:         ownerID,
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		Quantity:      in.Quantity,
		Images:        in.Images,
		CategoryID:    in.CategoryID,
		SubCategoryID: in.SubCategoryID,
		Status:        models.StatusActive,
	})
	if err != nil {
		return nil, Internal(err)
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.Hex()),
		zap.String("owner", ownerID.Hex()))
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, ownerID, id primitive.ObjectID, in ProductInput) (*models.Product, error) {
	update := bson.M{}
	if in.Name != "" {
		update["name"] = in.Name
	}
	if in.Description != "" {
		update["description"] = in.Description
	}
	if in.Price > 0 {
		update["price"] = in.Price
	}
	if in.Quantity > 0 {
		update["quantity"] = in.Quantity
	}
	if len(in.Images) > 0 {
		update["images"] = in.Images
	}
	if !in.CategoryID.IsZero() {
		if _, err := s.categories.FindCategoryByID(ctx, in.CategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, NotFound("Category not found")
			}
			return nil, Internal(err)
		}
		update["category_id"] = in.CategoryID
	}
	if !in.SubCategoryID.IsZero() {
		if _, err := s.categories.FindSubCategoryByID(ctx, in.SubCategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, NotFound("Subcategory not found")
			}
			return nil, Internal(err)
		}
		update["sub_category_id"] = in.SubCategoryID
	}

	product, err := s.products.UpdateOwnedProduct(ctx, id, ownerID, update)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Product not found")
	}
	if err != nil {
		return nil, Internal(err)
	}

	if err := s.cache.InvalidateProduct(ctx, id.Hex()); err != nil {
		s.logger.Warn("failed to invalidate product cache", zap.String("product_id", id.Hex()), zap.Error(err))
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	err := s.products.DeleteOwnedProduct(ctx, id, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Product not found")
	}
	if err != nil {
		return Internal(err)
	}

	if err := s.cache.InvalidateProduct(ctx, id.Hex()); err != nil {
		s.logger.Warn("failed to invalidate product cache", zap.String("product_id", id.Hex()), zap.Error(err))
	}
	s.logger.Info("product deleted", zap.String("product_id", id.Hex()), zap.String("owner", ownerID.Hex()))
	return nil
}

// Get serves from the cache when possible and caches misses on the way
// out. Cache failures fall through to the store.
func (s *ProductService) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	if cached, err := s.cache.GetCachedProduct(ctx, id.Hex()); err == nil {
		return cached, nil
	}

	product, err := s.products.FindActiveProductByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Product not found")
	}
	if err != nil {
		return nil, Internal(err)
	}

	if err := s.cache.CacheProduct(ctx, product); err != nil {
		s.logger.Warn("failed to cache product", zap.String("product_id", id.Hex()), zap.Error(err))
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, q repository.PageQuery) ([]models.Product, int64, error) {
	products, total, err := s.products.ListActiveProducts(ctx, q)
	if err != nil {
		return nil, 0, Internal(err)
	}
	return products, total, nil
}

func (s *ProductService) ListByCategory(ctx context.Context, categoryID primitive.ObjectID, q repository.PageQuery) ([]models.Product, int64, error) {
	products, total, err := s.products.ListProductsByCategory(ctx, categoryID, q)
	if err != nil {
		return nil, 0, Internal(err)
	}
	return products, total, nil
}

func (s *ProductService) ListBySubCategory(ctx context.Context, subCategoryID primitive.ObjectID, q repository.PageQuery) ([]models.Product, int64, error) {
	products, total, err := s.products.ListProductsBySubCategory(ctx, subCategoryID, q)
	if err != nil {
		return nil, 0, Internal(err)
	}
	return products, total, nil
}

func (s *ProductService) checkRefs(ctx context.Context, categoryID, subCategoryID primitive.ObjectID) error {
	category, err := s.categories.FindCategoryByID(ctx, categoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Category not found")
	}
	if err != nil {
		return Internal(err)
	}
	if category.Status != models.StatusActive {
		return InvalidState("Category is not active")
	}

	sub, err := s.categories.FindSubCategoryByID(ctx, subCategoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Subcategory not found")
	}
	if err != nil {
		return Internal(err)
	}
	if sub.Status != models.StatusActive {
		return InvalidState("Subcategory is not active")
	}
	if sub.CategoryID != categoryID {
		return InvalidState("Subcategory does not belong to category")
	}
	return nil
}
