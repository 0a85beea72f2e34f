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

type BankStore interface {
	CreateBank(ctx context.Context, bank *models.Bank) (*models.Bank, error)
	FindOwnedBank(ctx context.Context, id, userID primitive.ObjectID) (*models.Bank, error)
	FindBankByAccountNumber(ctx context.Context, userID primitive.ObjectID, accountNumber string) (*models.Bank, error)
	ListActiveBanks(ctx context.Context, userID primitive.ObjectID, q repository.PageQuery) ([]models.Bank, int64, error)
	UpdateBank(ctx context.Context, id, userID primitive.ObjectID, update bson.M) (*models.Bank, error)
	DeleteBank(ctx context.Context, id, userID primitive.ObjectID) error
}

type BankService struct {
	banks  BankStore
	logger *zap.Logger
}

func NewBankService(banks BankStore, logger *zap.Logger) *BankService {
	return &BankService{banks: banks, logger: logger}
}

type BankInput struct {
	BankName      string
	AccountName   string
	AccountNumber string
}

func (s *BankService) Create(ctx context.Context, userID primitive.ObjectID, in BankInput) (*models.Bank, error) {
	existing, err := s.banks.FindBankByAccountNumber(ctx, userID, in.AccountNumber)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal(err)
	}
	if existing != nil {
		return nil, Conflict("Bank already exists")
	}

	bank, err := s.banks.CreateBank(ctx, &models.Bank{
		UserID:        userID,
		BankName:      strings.ToLower(in.BankName),
		AccountName:   in.AccountName,
		AccountNumber: in.AccountNumber,
		Status:        models.StatusActive,
	})
	if err != nil {
		return nil, Internal(err)
	}

	s.logger.Info("bank created", zap.String("bank_id", bank.ID.Hex()), zap.String("user_id", userID.Hex()))
	return bank, nil
}

func (s *BankService) Update(ctx context.Context, userID, id primitive.ObjectID, in BankInput) (*models.Bank, error) {
	if _, err := s.banks.FindOwnedBank(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Bank not found")
		}
		return nil, Internal(err)
	}

	updated, err := s.banks.UpdateBank(ctx, id, userID, bson.M{
		"bank_name":      strings.ToLower(in.BankName),
		"account_name":   in.AccountName,
		"account_number": in.AccountNumber,
	})
	if err != nil {
		return nil, Internal(err)
	}
	return updated, nil
}

func (s *BankService) List(ctx context.Context, userID primitive.ObjectID, q repository.PageQuery) ([]models.Bank, int64, error) {
	banks, total, err := s.banks.ListActiveBanks(ctx, userID, q)
	if err != nil {
		return nil, 0, Internal(err)
	}
	return banks, total, nil
}

func (s *BankService) Get(ctx context.Context, userID, id primitive.ObjectID) (*models.Bank, error) {
	bank, err := s.banks.FindOwnedBank(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Bank not found")
	}
	if err != nil {
		return nil, Internal(err)
	}
	return bank, nil
}

func (s *BankService) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	err := s.banks.DeleteBank(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Bank not found")
	}
	if err != nil {
		return Internal(err)
	}
	s.logger.Info("bank deleted", zap.String("bank_id", id.Hex()), zap.String("user_id", userID.Hex()))
	return nil
}
