package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wltlabs/staffhub/internal/auth"
	"github.com/wltlabs/staffhub/internal/config"
	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/persistence"
	"github.com/wltlabs/staffhub/internal/repository"
	apperrors "github.com/wltlabs/staffhub/pkg/util"
)

// UserService manages employee accounts.
type UserService struct {
	cfg   config.Config
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(cfg config.Config, users repository.UserRepository) *UserService {
	return &UserService{cfg: cfg, users: users}
}

// UserCreateInput describes a new account.
type UserCreateInput struct {
	Name        string
	Email       string
	Password    string
	Role        domain.Role
	Department  string
	Designation string
	Phone       string
	ReportingTo *string
}

// Create registers an account. Only admin and hr may call this; the handler
// enforces the role gate.
func (s *UserService) Create(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email, password required", nil)
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		EmployeeKey:  generateEmployeeKey(),
		Name:         input.Name,
		Email:        input.Email,
		Role:         input.Role,
		Department:   input.Department,
		Designation:  input.Designation,
		Phone:        input.Phone,
		ReportingTo:  input.ReportingTo,
		Status:       domain.UserStatusActive,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if persistence.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UserUpdateInput describes mutable profile fields.
type UserUpdateInput struct {
	Name        *string
	Department  *string
	Designation *string
	Phone       *string
	ReportingTo *string
	Role        *domain.Role
	Status      *domain.UserStatus
}

// Update applies partial profile changes.
func (s *UserService) Update(ctx context.Context, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.Designation != nil {
		user.Designation = *input.Designation
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.ReportingTo != nil {
		user.ReportingTo = input.ReportingTo
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid role", nil)
		}
		user.Role = *input.Role
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Get fetches one account.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// List pages through accounts.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Deactivate disables an account without deleting it.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	status := domain.UserStatusInactive
	_, err := s.Update(ctx, id, UserUpdateInput{Status: &status})
	return err
}

func generateEmployeeKey() string {
	return "WLT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
