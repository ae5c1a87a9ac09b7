package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pardisoft/docflow_app/internal/apperrors"
	"github.com/pardisoft/docflow_app/internal/core/domain"
	portssvc "github.com/pardisoft/docflow_app/internal/core/ports/services"
	"github.com/pardisoft/docflow_app/internal/dto"
	"github.com/pardisoft/docflow_app/pkg/config"
)

// EnsureAdminUser creates the bootstrap administrator account when the
// configured username does not exist yet. It is safe to run on every boot.
func EnsureAdminUser(ctx context.Context, cfg *config.Config, userService portssvc.UserSvcFacade, logger *slog.Logger) error {
	if cfg.SeedAdminUsername == "" || cfg.SeedAdminPassword == "" {
		logger.Info("Seed admin not configured, skipping bootstrap")
		return nil
	}

	_, err := userService.GetUserByUsername(ctx, cfg.SeedAdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check for seed admin: %w", err)
	}

	req := dto.CreateUserRequest{
		Username: cfg.SeedAdminUsername,
		Password: cfg.SeedAdminPassword,
		Name:     cfg.SeedAdminName,
		Role:     domain.RoleAdmin,
	}
	user, err := userService.CreateUser(ctx, req, "")
	if err != nil {
		// Another instance may have created it between the check and the insert.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("failed to create seed admin: %w", err)
	}

	logger.Info("Seed admin user created", slog.String("user_id", user.UserID), slog.String("username", user.Username))
	return nil
}
