package mapping

import (
	"github.com/pardisoft/docflow_app/internal/core/domain"
	"github.com/pardisoft/docflow_app/internal/models"
)

// ToModelCustomer converts a domain Customer to a model Customer
func ToModelCustomer(d domain.Customer) models.Customer {
	return models.Customer{
		CustomerID:  d.CustomerID,
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		Address:     d.Address,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCustomer converts a model Customer to a domain Customer
func ToDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID:  m.CustomerID,
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		Address:     m.Address,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
