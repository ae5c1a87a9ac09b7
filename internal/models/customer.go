package models

// Customer is the customers table row.
type Customer struct {
	CustomerID string `db:"customer_id"`
	Name       string `db:"name"`
	Email      string `db:"email"`
	Phone      string `db:"phone"`
	Address    string `db:"address"`
	AuditFields
}
