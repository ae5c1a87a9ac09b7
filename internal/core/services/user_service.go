package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pardisoft/docflow_app/internal/apperrors"
	"github.com/pardisoft/docflow_app/internal/core/domain"
	portsrepo "github.com/pardisoft/docflow_app/internal/core/ports/repositories"
	portssvc "github.com/pardisoft/docflow_app/internal/core/ports/services"
	"github.com/pardisoft/docflow_app/internal/dto"
	"github.com/pardisoft/docflow_app/internal/middleware"
	"github.com/pardisoft/docflow_app/internal/utils"
)

var ErrRoleChangeForbidden = errors.New("only an administrator may change user roles")

// userService implements user management and credential checks.
type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser creates a new user with a bcrypt password hash. The role
// defaults to STAFF when omitted.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = domain.RoleStaff
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Name:         req.Name,
		Role:         role,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username %s is already taken", apperrors.ErrDuplicate, req.Username)
		}
		logger.Error("Failed to save user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// CreateOAuthUser retrieves the user registered under the given email, or
// creates one with the default role when none exists. OAuth users carry no
// password hash and cannot log in with credentials.
func (s *userService) CreateOAuthUser(ctx context.Context, name, email string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.userRepo.FindUserByUsername(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:   uuid.NewString(),
		Username: email,
		Name:     name,
		Role:     domain.RoleStaff,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	user.CreatedBy = user.UserID
	user.LastUpdatedBy = user.UserID
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a race against a concurrent first login with the same email.
			return s.GetUserByUsername(ctx, email)
		}
		logger.Error("Failed to save OAuth user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user %s: %w", userID, err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username.
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user by username: %w", err)
	}
	return user, nil
}

// ListUsers retrieves a paginated list of users.
func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser updates a user's details. Role changes require the requesting
// user to hold the administrator capability.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user %s: %w", userID, err)
	}

	if req.Role != nil && *req.Role != user.Role {
		requester, err := s.userRepo.FindUserByID(ctx, requestingUserID)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve requesting user: %w", err)
		}
		if !requester.CanAdminister() {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrForbidden, ErrRoleChangeForbidden)
		}
		user.Role = *req.Role
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		logger.Error("Failed to update user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// UpdateRefreshToken stores the hash and expiry of a user's refresh token.
func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	if err := s.userRepo.UpdateRefreshTokenHash(ctx, userID, refreshTokenHash, refreshTokenExpiryTime); err != nil {
		return fmt.Errorf("failed to update refresh token for user %s: %w", userID, err)
	}
	return nil
}

// ClearRefreshToken clears the refresh token for a user.
func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshTokenHash(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token for user %s: %w", userID, err)
	}
	return nil
}

// DeleteUser marks a user as deleted (soft delete).
func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now(), requestingUserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		logger.Error("Failed to delete user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// AuthenticateUser checks username/password credentials. Failures are
// reported uniformly to avoid leaking which part was wrong.
func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to retrieve user by username: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
