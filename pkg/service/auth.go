package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/example/primepulse/pkg/auth"
	"github.com/example/primepulse/pkg/config"
	"github.com/example/primepulse/pkg/models"
	"github.com/example/primepulse/pkg/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByEmailOrPhone(ctx context.Context, email, phone string) (*models.User, error)
	UpdateUserPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

type AdminStore interface {
	CreateAdmin(ctx context.Context, admin *models.Admin) (*models.Admin, error)
	FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// ResetCodeStore holds short-lived password-reset codes.
type ResetCodeStore interface {
	StoreResetCode(ctx context.Context, userID, code string, ttl time.Duration) error
	GetResetCode(ctx context.Context, userID string) (string, error)
	ConsumeResetCode(ctx context.Context, userID string) error
}

type AuthService struct {
	users  UserStore
	admins AdminStore
	codes  ResetCodeStore
	tokens *auth.TokenIssuer
	cfg    *config.AuthConfig
	logger *zap.Logger
}

func NewAuthService(users UserStore, admins AdminStore, codes ResetCodeStore, tokens *auth.TokenIssuer, cfg *config.AuthConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		admins: admins,
		codes:  codes,
		tokens: tokens,
		cfg:    cfg,
		logger: logger,
	}
}

type RegisterUserInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Email       string
	Password    string
	UserType    string
	AgreeToTerm bool
}

func (s *AuthService) RegisterUser(ctx context.Context, in RegisterUserInput) (*models.User, error) {
	email := strings.ToLower(in.Email)

	existing, err := s.users.FindUserByEmailOrPhone(ctx, email, in.PhoneNumber)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal(err)
	}
	if existing != nil {
		return nil, Conflict("User already registered")
	}

	hash, err := auth.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, Internal(err)
	}

	user, err := s.users.CreateUser(ctx, &models.User{
		FirstName:   capitalize(in.FirstName),
		LastName:    capitalize(in.LastName),
		PhoneNumber: in.PhoneNumber,
		Email:       email,
		Password:    hash,
		UserType:    in.UserType,
		AgreeToTerm: in.AgreeToTerm,
	})
	if err != nil {
		return nil, Internal(err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.Hex()), zap.String("user_type", user.UserType))
	return user, nil
}

// LoginUser verifies credentials and issues a user-audience token. The
// same message covers unknown email and wrong password.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindUserByEmail(ctx, strings.ToLower(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", Unauthorized("Invalid Credentials")
	}
	if err != nil {
		return nil, "", Internal(err)
	}

	if !auth.CheckPassword(password, user.Password) {
		return nil, "", Unauthorized("Invalid Credentials")
	}

	token, err := s.tokens.Issue(auth.AudienceUser, user.ID.Hex(), user.Email, []string{user.UserType})
	if err != nil {
		return nil, "", Internal(err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.Hex()))
	return user, token, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword, confirmNewPassword string) error {
	user, err := s.users.FindUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return InvalidState("Unable to change Password.")
	}
	if err != nil {
		return Internal(err)
	}

	if !auth.CheckPassword(oldPassword, user.Password) {
		return InvalidState("Old Password is incorrect.")
	}
	if newPassword != confirmNewPassword {
		return InvalidState("New password and confirm new password don't match")
	}

	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return Internal(err)
	}
	if err := s.users.UpdateUserPassword(ctx, userID, hash); err != nil {
		return Internal(err)
	}

	s.logger.Info("password changed", zap.String("user_id", userID.Hex()))
	return nil
}

// ForgotPassword is enumeration-safe: it reports success whether or not
// the account exists. Delivery of the code is out of scope; it is
// logged for the operator.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindUserByEmail(ctx, strings.ToLower(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return Internal(err)
	}

	code, err := generateResetCode()
	if err != nil {
		return Internal(err)
	}

	ttl := s.cfg.ResetCodeTTL
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	if err := s.codes.StoreResetCode(ctx, user.ID.Hex(), code, ttl); err != nil {
		return Internal(err)
	}

	s.logger.Info("password reset code issued",
		zap.String("user_id", user.ID.Hex()),
		zap.String("code", code))
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	user, err := s.users.FindUserByEmail(ctx, strings.ToLower(email))
	if errors.Is(err, repository.ErrNotFound) {
		return InvalidState("Invalid or expired reset code")
	}
	if err != nil {
		return Internal(err)
	}

	stored, err := s.codes.GetResetCode(ctx, user.ID.Hex())
	if errors.Is(err, repository.ErrNotFound) {
		return InvalidState("Invalid or expired reset code")
	}
	if err != nil {
		return Internal(err)
	}
	if stored != code {
		return InvalidState("Invalid or expired reset code")
	}

	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return Internal(err)
	}
	if err := s.users.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		return Internal(err)
	}
	if err := s.codes.ConsumeResetCode(ctx, user.ID.Hex()); err != nil {
		s.logger.Warn("failed to consume reset code", zap.String("user_id", user.ID.Hex()), zap.Error(err))
	}

	s.logger.Info("password reset", zap.String("user_id", user.ID.Hex()))
	return nil
}

type RegisterAdminInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Roles     []string
}

func (s *AuthService) RegisterAdmin(ctx context.Context, in RegisterAdminInput) (*models.Admin, error) {
	email := strings.ToLower(in.Email)

	existing, err := s.admins.FindAdminByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal(err)
	}
	if existing != nil {
		return nil, Conflict("Admin already registered")
	}

	hash, err := auth.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, Internal(err)
	}

	roles := in.Roles
	if len(roles) == 0 {
		roles = []string{models.RoleAdmin}
	}
	admin, err := s.admins.CreateAdmin(ctx, &models.Admin{
		FirstName: capitalize(in.FirstName),
		LastName:  capitalize(in.LastName),
		Email:     email,
		Password:  hash,
		Roles:     roles,
	})
	if err != nil {
		return nil, Internal(err)
	}

	s.logger.Info("admin registered", zap.String("admin_id", admin.ID.Hex()), zap.Strings("roles", admin.Roles))
	return admin, nil
}

func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*models.Admin, string, error) {
	admin, err := s.admins.FindAdminByEmail(ctx, strings.ToLower(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", Unauthorized("Invalid Credentials")
	}
	if err != nil {
		return nil, "", Internal(err)
	}

	if !auth.CheckPassword(password, admin.Password) {
		return nil, "", Unauthorized("Invalid Credentials")
	}

	token, err := s.tokens.Issue(auth.AudienceAdmin, admin.ID.Hex(), admin.Email, admin.Roles)
	if err != nil {
		return nil, "", Internal(err)
	}

	s.logger.Info("admin logged in", zap.String("admin_id", admin.ID.Hex()))
	return admin, token, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
