package dto

import (
	"time"

	"github.com/pardisoft/docflow_app/internal/core/domain"
)

// CreateCustomerRequest defines the data needed to create a new customer.
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateCustomerRequest defines the data allowed for updating a customer.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// ListCustomersParams defines query parameters for listing customers.
type ListCustomersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// CustomerResponse defines the data returned for a customer.
type CustomerResponse struct {
	CustomerID    string    `json:"customerID"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ListCustomersResponse wraps the list of customers.
type ListCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
}

// ToCustomerResponse converts a domain.Customer to CustomerResponse DTO.
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:    c.CustomerID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		CreatedAt:     c.CreatedAt,
		CreatedBy:     c.CreatedBy,
		LastUpdatedAt: c.LastUpdatedAt,
		LastUpdatedBy: c.LastUpdatedBy,
	}
}

// ToListCustomersResponse converts a slice of domain.Customer to ListCustomersResponse DTO.
func ToListCustomersResponse(customers []domain.Customer) ListCustomersResponse {
	responses := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		responses[i] = ToCustomerResponse(&c)
	}
	return ListCustomersResponse{Customers: responses}
}
