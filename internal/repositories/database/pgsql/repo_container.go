package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/pardisoft/docflow_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		DocumentRepo: newPgxDocumentRepository(dbPool),
		ApprovalRepo: newPgxApprovalRepository(dbPool),
		CustomerRepo: newPgxCustomerRepository(dbPool),
		UserRepo:     newPgxUserRepository(dbPool),
	}
}
