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
)

// customerService implements customer CRUD.
type customerService struct {
	customerRepo portsrepo.CustomerRepositoryFacade
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customerRepo portsrepo.CustomerRepositoryFacade) portssvc.CustomerSvcFacade {
	return &customerService{customerRepo: customerRepo}
}

var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

// CreateCustomer creates a new customer.
func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, creatorUserID string) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()

	customer := domain.Customer{
		CustomerID: uuid.NewString(),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		logger.Error("Failed to save customer", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &customer, nil
}

// GetCustomerByID retrieves a customer by ID.
func (s *customerService) GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve customer %s: %w", customerID, err)
	}
	return customer, nil
}

// ListCustomers retrieves a paginated list of customers.
func (s *customerService) ListCustomers(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	customers, err := s.customerRepo.FindCustomers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// UpdateCustomer updates an existing customer.
func (s *customerService) UpdateCustomer(ctx context.Context, customerID string, req dto.UpdateCustomerRequest, updaterUserID string) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve customer %s: %w", customerID, err)
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	customer.LastUpdatedAt = time.Now()
	customer.LastUpdatedBy = updaterUserID

	if err := s.customerRepo.UpdateCustomer(ctx, *customer); err != nil {
		logger.Error("Failed to update customer", slog.String("error", err.Error()), slog.String("customer_id", customerID))
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

// DeleteCustomer removes a customer. Customers still referenced by documents
// cannot be removed; the store reports that as a conflict.
func (s *customerService) DeleteCustomer(ctx context.Context, customerID string) error {
	if err := s.customerRepo.DeleteCustomer(ctx, customerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to delete customer %s: %w", customerID, err)
	}
	return nil
}
