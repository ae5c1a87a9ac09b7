package repositories

import (
	"context"

	"github.com/pardisoft/docflow_app/internal/core/domain"
)

// CustomerReader defines read operations for customer data
type CustomerReader interface {
	// FindCustomerByID retrieves a specific customer by their ID.
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// FindCustomers retrieves a paginated list of customers.
	FindCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, error)
}

// CustomerWriter defines write operations for customer data
type CustomerWriter interface {
	// SaveCustomer persists a new customer.
	SaveCustomer(ctx context.Context, customer domain.Customer) error

	// UpdateCustomer updates an existing customer's details.
	UpdateCustomer(ctx context.Context, customer domain.Customer) error

	// DeleteCustomer removes a customer. It fails if documents still reference the customer.
	DeleteCustomer(ctx context.Context, customerID string) error
}

// CustomerRepositoryFacade combines all customer-related repository interfaces
type CustomerRepositoryFacade interface {
	CustomerReader
	CustomerWriter
}
