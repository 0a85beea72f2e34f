package service

import (
	"context"
	"errors"

	"github.com/example/primepulse/pkg/models"
	"github.com/example/primepulse/pkg/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type FavouriteStore interface {
	CreateFavourite(ctx context.Context, fav *models.FavouriteItem) (*models.FavouriteItem, error)
	FindFavouriteByProduct(ctx context.Context, userID, productID primitive.ObjectID) (*models.FavouriteItem, error)
	FindOwnedFavourite(ctx context.Context, id, userID primitive.ObjectID) (*models.FavouriteItem, error)
	ListFavourites(ctx context.Context, userID primitive.ObjectID, q repository.PageQuery) ([]models.FavouriteItem, int64, error)
	DeleteFavourite(ctx context.Context, userID, productID primitive.ObjectID) error
}

type FavouriteProductStore interface {
	FindProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
}

type FavouriteService struct {
	favourites FavouriteStore
	products   FavouriteProductStore
	logger     *zap.Logger
}

func NewFavouriteService(favourites FavouriteStore, products FavouriteProductStore, logger *zap.Logger) *FavouriteService {
	return &FavouriteService{favourites: favourites, products: products, logger: logger}
}

func (s *FavouriteService) Add(ctx context.Context, userID, productID primitive.ObjectID) (*models.FavouriteItem, error) {
	existing, err := s.favourites.FindFavouriteByProduct(ctx, userID, productID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal(err)
	}
	if existing != nil {
		return nil, InvalidState("Item already added to favourite")
	}

	fav, err := s.favourites.CreateFavourite(ctx, &models.FavouriteItem{
		UserID:    userID,
		ProductID: productID,
	})
	if err != nil {
		return nil, Internal(err)
	}
	return fav, nil
}

// List returns the user's favourites with products populated. An empty
// page is a valid result, not an error.
func (s *FavouriteService) List(ctx context.Context, userID primitive.ObjectID, q repository.PageQuery) ([]models.FavouriteView, int64, error) {
	favs, total, err := s.favourites.ListFavourites(ctx, userID, q)
	if err != nil {
		return nil, 0, Internal(err)
	}

	var ids []primitive.ObjectID
	for _, fav := range favs {
		ids = append(ids, fav.ProductID)
	}
	products, err := s.products.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, Internal(err)
	}
	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	views := make([]models.FavouriteView, len(favs))
	for i, fav := range favs {
		views[i] = models.FavouriteView{FavouriteItem: fav, Product: byID[fav.ProductID]}
	}
	return views, total, nil
}

func (s *FavouriteService) Get(ctx context.Context, userID, id primitive.ObjectID) (*models.FavouriteView, error) {
	fav, err := s.favourites.FindOwnedFavourite(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("No favourite item found")
	}
	if err != nil {
		return nil, Internal(err)
	}

	view := models.FavouriteView{FavouriteItem: *fav}
	products, err := s.products.FindProductsByIDs(ctx, []primitive.ObjectID{fav.ProductID})
	if err != nil {
		return nil, Internal(err)
	}
	if len(products) > 0 {
		view.Product = &products[0]
	}
	return &view, nil
}

func (s *FavouriteService) Remove(ctx context.Context, userID, productID primitive.ObjectID) error {
	err := s.favourites.DeleteFavourite(ctx, userID, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("No favourite item found")
	}
	if err != nil {
		return Internal(err)
	}
	return nil
}
