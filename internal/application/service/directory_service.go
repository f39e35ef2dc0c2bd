package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MelissaSequeira/reimburse-portal/internal/application/port"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/entity"
	"github.com/MelissaSequeira/reimburse-portal/pkg/utils"
)

// DirectoryService manages the identity records the chain routes against.
type DirectoryService interface {
	// Resolve maps an email to the actor context used by every guarded
	// operation.
	Resolve(ctx context.Context, emailAddr string) (entity.Actor, error)

	Register(ctx context.Context, user *entity.User) error
	List(ctx context.Context) ([]*entity.User, error)
}

type directoryServiceImpl struct {
	userRepo port.UserRepository
	logger   Logger
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(userRepo port.UserRepository, logger Logger) DirectoryService {
	return &directoryServiceImpl{userRepo: userRepo, logger: logger}
}

func (s *directoryServiceImpl) Resolve(ctx context.Context, emailAddr string) (entity.Actor, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		return entity.Actor{}, err
	}
	return entity.Actor{
		Email:      user.Email,
		Role:       user.Role,
		Department: user.Department,
	}, nil
}

func (s *directoryServiceImpl) Register(ctx context.Context, user *entity.User) error {
	user.Name = utils.SanitizeString(strings.TrimSpace(user.Name))
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Department = utils.SanitizeString(strings.TrimSpace(user.Department))

	if user.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := utils.ValidateEmail(user.Email); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !user.Role.IsValid() {
		return fmt.Errorf("%w: invalid role %q", ErrInvalidInput, user.Role)
	}
	if user.Role.DepartmentScoped() && user.Department == "" {
		return fmt.Errorf("%w: department is required for role %s", ErrInvalidInput, user.Role)
	}

	if _, err := s.userRepo.GetByEmail(ctx, user.Email); err == nil {
		return fmt.Errorf("%w: email %s is already registered", ErrInvalidInput, user.Email)
	} else if !errors.Is(err, port.ErrNotFound) {
		return err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to register user", "error", err, "email", user.Email)
		return err
	}

	s.logger.Info("User registered", "email", user.Email, "role", string(user.Role))
	return nil
}

func (s *directoryServiceImpl) List(ctx context.Context) ([]*entity.User, error) {
	return s.userRepo.List(ctx)
}
