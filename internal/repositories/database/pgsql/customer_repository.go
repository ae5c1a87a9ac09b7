package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pardisoft/docflow_app/internal/apperrors"
	"github.com/pardisoft/docflow_app/internal/core/domain"
	portsrepo "github.com/pardisoft/docflow_app/internal/core/ports/repositories"
	"github.com/pardisoft/docflow_app/internal/models"
	"github.com/pardisoft/docflow_app/internal/utils/mapping"
)

const customerColumns = `customer_id, name, email, phone, address, created_at, created_by, last_updated_at, last_updated_by`

type PgxCustomerRepository struct {
	BaseRepository
}

func newPgxCustomerRepository(pool *pgxpool.Pool) portsrepo.CustomerRepositoryFacade {
	return &PgxCustomerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

// queryRower is satisfied by both *pgxpool.Pool and pgx.Tx, so lookups can run
// inside or outside a transaction.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var m models.Customer
	err := row.Scan(
		&m.CustomerID, &m.Name, &m.Email, &m.Phone, &m.Address,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func findCustomerRow(ctx context.Context, q queryRower, customerID string) (*domain.Customer, error) {
	m, err := scanCustomer(q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE customer_id = $1`, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("customer " + customerID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find customer "+customerID, err)
	}
	customer := mapping.ToDomainCustomer(*m)
	return &customer, nil
}

// SaveCustomer persists a new customer.
func (r *PgxCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	m := mapping.ToModelCustomer(customer)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`, m.CustomerID, m.Name, m.Email, m.Phone, m.Address,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewDuplicateError("customer " + m.CustomerID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save customer "+m.CustomerID, err)
	}
	return nil
}

// FindCustomerByID retrieves a specific customer by their ID.
func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	return findCustomerRow(ctx, r.Pool, customerID)
}

// FindCustomers retrieves a paginated list of customers ordered by name.
func (r *PgxCustomerRepository) FindCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY name, customer_id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query customers", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var m models.Customer
		if err := rows.Scan(
			&m.CustomerID, &m.Name, &m.Email, &m.Phone, &m.Address,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan customer row", err)
		}
		customers = append(customers, mapping.ToDomainCustomer(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate customer rows", err)
	}
	return customers, nil
}

// UpdateCustomer updates an existing customer's details.
func (r *PgxCustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	m := mapping.ToModelCustomer(customer)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE customers SET name = $2, email = $3, phone = $4, address = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE customer_id = $1;
	`, m.CustomerID, m.Name, m.Email, m.Phone, m.Address, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update customer "+m.CustomerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("customer " + m.CustomerID + " not found")
	}
	return nil
}

// DeleteCustomer removes a customer. Customers referenced by documents are
// protected by the foreign key and reported as a conflict.
func (r *PgxCustomerRepository) DeleteCustomer(ctx context.Context, customerID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM customers WHERE customer_id = $1`, customerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.NewConflictError("customer " + customerID + " is referenced by documents")
		}
		return apperrors.NewAppError(500, "failed to delete customer "+customerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("customer " + customerID + " not found")
	}
	return nil
}
