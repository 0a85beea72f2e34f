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

type CategoryStore interface {
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	FindCategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindCategoryByName(ctx context.Context, name string) (*models.Category, error)
	ListActiveCategories(ctx context.Context, q repository.PageQuery) ([]models.Category, int64, error)
	AllActiveCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Category, error)
	CreateSubCategory(ctx context.Context, sub *models.SubCategory) (*models.SubCategory, error)
	FindSubCategoryByID(ctx context.Context, id primitive.ObjectID) (*models.SubCategory, error)
	FindSubCategoryByName(ctx context.Context, categoryID primitive.ObjectID, name string) (*models.SubCategory, error)
	ActiveSubCategoriesByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.SubCategory, error)
	UpdateSubCategory(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.SubCategory, error)
}

type CategoryService struct {
	categories CategoryStore
	logger     *zap.Logger
}

func NewCategoryService(categories CategoryStore, logger *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, logger: logger}
}

func (s *CategoryService) Create(ctx context.Context, name, description string) (*models.Category, error) {
	existing, err := s.categories.FindCategoryByName(ctx, name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal(err)
	}
	if existing != nil {
		return nil, Conflict("Category already exists")
	}

	category, err := s.categories.CreateCategory(ctx, &models.Category{
		Name:        name,
		Description: description,
		Status:      models.StatusActive,
	})
	if err != nil {
		return nil, Internal(err)
	}

	s.logger.Info("category created", zap.String("category_id", category.ID.Hex()), zap.String("name", name))
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id primitive.ObjectID, name, description string) (*models.Category, error) {
	if name != "" {
		existing, err := s.categories.FindCategoryByName(ctx, name)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, Internal(err)
		}
		if existing != nil && existing.ID != id {
			return nil, Conflict("Category already exists")
		}
	}

	update := bson.M{}
	if name != "" {
		update["name"] = name
	}
	if description != "" {
		update["description"] = description
	}

	category, err := s.categories.UpdateCategory(ctx, id, update)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Category not found")
	}
	if err != nil {
		return nil, Internal(err)
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, q repository.PageQuery) ([]models.Category, int64, error) {
	categories, total, err := s.categories.ListActiveCategories(ctx, q)
	if err != nil {
		return nil, 0, Internal(err)
	}
	return categories, total, nil
}

func (s *CategoryService) Get(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	category, err := s.categories.FindCategoryByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Category not found")
	}
	if err != nil {
		return nil, Internal(err)
	}
	return category, nil
}

// Delete disables the category; products keep their reference.
func (s *CategoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.categories.UpdateCategory(ctx, id, bson.M{"status": models.StatusDisabled})
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Category not found")
	}
	if err != nil {
		return Internal(err)
	}
	return nil
}

func (s *CategoryService) CreateSub(ctx context.Context, categoryID primitive.ObjectID, name, description string) (*models.SubCategory, error) {
	category, err := s.categories.FindCategoryByID(ctx, categoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Category not found")
	}
	if err != nil {
		return nil, Internal(err)
	}
	if category.Status != models.StatusActive {
		return nil, InvalidState("Category is not active")
	}

	existing, err := s.categories.FindSubCategoryByName(ctx, categoryID, name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal(err)
	}
	if existing != nil {
		return nil, Conflict("Subcategory already exists")
	}

	sub, err := s.categories.CreateSubCategory(ctx, &models.SubCategory{
		CategoryID:  categoryID,
		Name:        name,
		Description: description,
		Status:      models.StatusActive,
	})
	if err != nil {
		return nil, Internal(err)
	}
	return sub, nil
}

func (s *CategoryService) UpdateSub(ctx context.Context, id primitive.ObjectID, name, description string) (*models.SubCategory, error) {
	update := bson.M{}
	if name != "" {
		update["name"] = name
	}
	if description != "" {
		update["description"] = description
	}

	sub, err := s.categories.UpdateSubCategory(ctx, id, update)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Subcategory not found")
	}
	if err != nil {
		return nil, Internal(err)
	}
	return sub, nil
}

func (s *CategoryService) DeleteSub(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.categories.UpdateSubCategory(ctx, id, bson.M{"status": models.StatusDisabled})
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Subcategory not found")
	}
	if err != nil {
		return Internal(err)
	}
	return nil
}

// Tree returns every active category with its active subcategories.
func (s *CategoryService) Tree(ctx context.Context) ([]models.CategoryTree, error) {
	categories, err := s.categories.AllActiveCategories(ctx)
	if err != nil {
		return nil, Internal(err)
	}

	trees := make([]models.CategoryTree, len(categories))
	for i, category := range categories {
		subs, err := s.categories.ActiveSubCategoriesByCategory(ctx, category.ID)
		if err != nil {
			return nil, Internal(err)
		}
		trees[i] = models.CategoryTree{Category: category, SubCategories: subs}
	}
	return trees, nil
}

func (s *CategoryService) TreeByID(ctx context.Context, categoryID primitive.ObjectID) (*models.CategoryTree, error) {
	category, err := s.categories.FindCategoryByID(ctx, categoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Category not found")
	}
	if err != nil {
		return nil, Internal(err)
	}

	subs, err := s.categories.ActiveSubCategoriesByCategory(ctx, categoryID)
	if err != nil {
		return nil, Internal(err)
	}
	return &models.CategoryTree{Category: *category, SubCategories: subs}, nil
}
