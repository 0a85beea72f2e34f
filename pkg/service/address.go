package service

import (
	"context"
	"errors"
	"strings"

	"github.com/example/primepulse/pkg/models"
	"github.com/example/primepulse/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AddressStore interface {
	CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error)
	FindOwnedAddress(ctx context.Context, id, userID primitive.ObjectID) (*models.Address, error)
	FindAddressByText(ctx context.Context, userID primitive.ObjectID, addressText string) (*models.Address, error)
	ListActiveAddresses(ctx context.Context, userID primitive.ObjectID, q repository.PageQuery) ([]models.Address, int64, error)
	UpdateAddress(ctx context.Context, id, userID primitive.ObjectID, update bson.M) (*models.Address, error)
	DeleteAddress(ctx context.Context, id, userID primitive.ObjectID) error
}

type AddressService struct {
	addresses AddressStore
	logger    *zap.Logger
}

func NewAddressService(addresses AddressStore, logger *zap.Logger) *AddressService {
	return &AddressService{addresses: addresses, logger: logger}
}

type AddressInput struct {
	Address string
	City    string
	State   string
	Country string
	ZipCode string
}

// Create rejects a duplicate address text for the same user; the text
// is stored lowercased so comparison is case-insensitive.
func (s *AddressService) Create(ctx context.Context, userID primitive.ObjectID, in AddressInput) (*models.Address, error) {
	text := strings.ToLower(in.Address)

	existing, err := s.addresses.FindAddressByText(ctx, userID, text)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal(err)
	}
	if existing != nil {
		return nil, Conflict("Address already exists")
	}

	address, err := s.addresses.CreateAddress(ctx, &models.Address{
		UserID:  userID,
		Address: text,
		City:    in.City,
		State:   in.State,
		Country: in.Country,
		ZipCode: in.ZipCode,
		Status:  models.StatusActive,
	})
	if err != nil {
		return nil, Internal(err)
	}

	s.logger.Info("address created", zap.String("address_id", address.ID.Hex()), zap.String("user_id", userID.Hex()))
	return address, nil
}

func (s *AddressService) Update(ctx context.Context, userID, id primitive.ObjectID, in AddressInput) (*models.Address, error) {
	if _, err := s.addresses.FindOwnedAddress(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Address not found")
		}
		return nil, Internal(err)
	}

	text := strings.ToLower(in.Address)
	existing, err := s.addresses.FindAddressByText(ctx, userID, text)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal(err)
	}
	if existing != nil && existing.ID != id {
		return nil, Conflict("Address already exists, you can not use the same address")
	}

	updated, err := s.addresses.UpdateAddress(ctx, id, userID, bson.M{
		"address": text,
		"city":    in.City,
		"state":   in.State,
		"country": in.Country,
		"zip_code": in.ZipCode,
	})
	if errors.Is(err, repository.ErrNotFound) {
		// The address can vanish between the owned-check and the write.
		return nil, NotFound("Address not found")
	}
	if err != nil {
		return nil, Internal(err)
	}
	return updated, nil
}

func (s *AddressService) List(ctx context.Context, userID primitive.ObjectID, q repository.PageQuery) ([]models.Address, int64, error) {
	addresses, total, err := s.addresses.ListActiveAddresses(ctx, userID, q)
	if err != nil {
		return nil, 0, Internal(err)
	}
	return addresses, total, nil
}

func (s *AddressService) Get(ctx context.Context, userID, id primitive.ObjectID) (*models.Address, error) {
	address, err := s.addresses.FindOwnedAddress(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Address not found")
	}
	if err != nil {
		return nil, Internal(err)
	}
	return address, nil
}

func (s *AddressService) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	err := s.addresses.DeleteAddress(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Address not found")
	}
	if err != nil {
		return Internal(err)
	}
	s.logger.Info("address deleted", zap.String("address_id", id.Hex()), zap.String("user_id", userID.Hex()))
	return nil
}
