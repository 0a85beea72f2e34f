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

type CompanyStore interface {
	CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error)
	FindCompanyByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error)
	FindCompanyByName(ctx context.Context, name string) (*models.Company, error)
	FindCompanyByOwner(ctx context.Context, ownerID primitive.ObjectID) (*models.Company, error)
	ListCompanies(ctx context.Context, q repository.PageQuery) ([]models.Company, int64, error)
	UpdateCompany(ctx context.Context, id, ownerID primitive.ObjectID, update bson.M) (*models.Company, error)
	DeleteCompany(ctx context.Context, id primitive.ObjectID) error
}

type CompanyService struct {
	companies CompanyStore
	logger    *zap.Logger
}

func NewCompanyService(companies CompanyStore, logger *zap.Logger) *CompanyService {
	return &CompanyService{companies: companies, logger: logger}
}

type CompanyInput struct {
	Name        string
	Description string
	Address     string
	PhoneNumber string
	Email       string
}

// Create enforces one company per manufacturer and unique names across
// the marketplace.
func (s *CompanyService) Create(ctx context.Context, ownerID primitive.ObjectID, in CompanyInput) (*models.Company, error) {
	owned, err := s.companies.FindCompanyByOwner(ctx, ownerID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal(err)
	}
	if owned != nil {
		return nil, Conflict("Company already exists")
	}

	named, err := s.companies.FindCompanyByName(ctx, in.Name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal(err)
	}
	if named != nil {
		return nil, Conflict("Company already exists")
	}

	company, err := s.companies.CreateCompany(ctx, &models.Company{
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		PhoneNumber: in.PhoneNumber,
		Email:       in.Email,
		Status:      models.StatusActive,
	})
	if err != nil {
		return nil, Internal(err)
	}

	s.logger.Info("company created", zap.String("company_id", company.ID.Hex()), zap.String("owner", ownerID.Hex()))
	return company, nil
}

func (s *CompanyService) Update(ctx context.Context, ownerID, id primitive.ObjectID, in CompanyInput) (*models.Company, error) {
	update := bson.M{}
	if in.Name != "" {
		named, err := s.companies.FindCompanyByName(ctx, in.Name)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, Internal(err)
		}
		if named != nil && named.ID != id {
			return nil, Conflict("Company already exists")
		}
		update["name"] = in.Name
	}
	if in.Description != "" {
		update["description"] = in.Description
	}
	if in.Address != "" {
		update["address"] = in.Address
	}
	if in.PhoneNumber != "" {
		update["phone_number"] = in.PhoneNumber
	}
	if in.Email != "" {
		update["email"] = in.Email
	}

	company, err := s.companies.UpdateCompany(ctx, id, ownerID, update)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Company not found")
	}
	if err != nil {
		return nil, Internal(err)
	}
	return company, nil
}

func (s *CompanyService) Get(ctx context.Context, id primitive.ObjectID) (*models.Company, error) {
	company, err := s.companies.FindCompanyByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Company not found")
	}
	if err != nil {
		return nil, Internal(err)
	}
	return company, nil
}

func (s *CompanyService) List(ctx context.Context, q repository.PageQuery) ([]models.Company, int64, error) {
	companies, total, err := s.companies.ListCompanies(ctx, q)
	if err != nil {
		return nil, 0, Internal(err)
	}
	return companies, total, nil
}

func (s *CompanyService) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.companies.DeleteCompany(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Company not found")
	}
	if err != nil {
		return Internal(err)
	}
	return nil
}
