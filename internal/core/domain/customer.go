package domain

// Customer represents a business customer that documents are issued to.
type Customer struct {
	CustomerID string `json:"customerID"` // Primary Key (UUID)
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	AuditFields
}
