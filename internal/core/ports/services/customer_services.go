package services

import (
	"context"

	"github.com/pardisoft/docflow_app/internal/core/domain"
	"github.com/pardisoft/docflow_app/internal/dto"
)

// CustomerReaderSvc defines read operations for customer data
type CustomerReaderSvc interface {
	// GetCustomerByID retrieves a customer by ID.
	GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// ListCustomers retrieves a paginated list of customers.
	ListCustomers(ctx context.Context, limit, offset int) ([]domain.Customer, error)
}

// CustomerWriterSvc defines write operations for customer data
type CustomerWriterSvc interface {
	// CreateCustomer creates a new customer.
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, creatorUserID string) (*domain.Customer, error)

	// UpdateCustomer updates an existing customer.
	UpdateCustomer(ctx context.Context, customerID string, req dto.UpdateCustomerRequest, updaterUserID string) (*domain.Customer, error)

	// DeleteCustomer removes a customer that has no documents.
	DeleteCustomer(ctx context.Context, customerID string) error
}

// CustomerSvcFacade combines all customer-related service interfaces
type CustomerSvcFacade interface {
	CustomerReaderSvc
	CustomerWriterSvc
}
