package repositories

import (
	"context"
	"time"

	"github.com/pardisoft/docflow_app/internal/core/domain"
)

// DocumentListFilter narrows ListDocuments results. Zero values mean "no filter".
type DocumentListFilter struct {
	DocumentType   domain.DocumentType
	ApprovalStatus domain.ApprovalStatus
	CustomerID     string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	Limit          int
	Offset         int
}

// DocumentReader defines read operations for document data
type DocumentReader interface {
	// FindDocumentByID retrieves a specific document by its unique identifier, including its items.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)

	// ListDocuments retrieves a paginated list of documents matching the filter,
	// together with the total count of matching documents.
	ListDocuments(ctx context.Context, filter DocumentListFilter) ([]domain.Document, int64, error)

	// FindChildIDs returns the IDs of documents directly converted from the given document.
	FindChildIDs(ctx context.Context, documentID string) ([]string, error)
}

// DocumentWriter defines write operations for document data
type DocumentWriter interface {
	// SaveDocument persists a new document and its items within a transaction,
	// assigning the next sequential document number for its type and year.
	// When pendingApproval is non-nil it is inserted in the same transaction.
	// It returns the assigned document number.
	SaveDocument(ctx context.Context, document domain.Document, items []domain.DocumentItem, pendingApproval *domain.Approval) (string, error)

	// UpdateDocumentWithItems updates a document row and replaces its items within a transaction.
	// Documents listed in cascadeDeleteIDs are deleted first (deepest descendants leading).
	// When resetApproval is non-nil the document's existing approval records are deleted and
	// resetApproval is inserted, returning the document to a pending state.
	UpdateDocumentWithItems(ctx context.Context, document domain.Document, items []domain.DocumentItem, cascadeDeleteIDs []string, resetApproval *domain.Approval) error

	// SaveConversion persists a document produced by converting another document.
	// Documents listed in replaceIDs (a previous conversion's subtree, deepest descendants
	// leading) are deleted in the same transaction before the new document is inserted.
	// It returns the assigned document number.
	SaveConversion(ctx context.Context, document domain.Document, items []domain.DocumentItem, replaceIDs []string) (string, error)

	// DeleteDocuments deletes the given documents in order within a single transaction.
	// Callers must list descendants before their ancestors.
	DeleteDocuments(ctx context.Context, documentIDs []string) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces
// This is a facade for clients that need access to all operations
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}

// DocumentRepositoryWithTx extends DocumentRepositoryFacade with transaction capabilities
type DocumentRepositoryWithTx interface {
	DocumentRepositoryFacade
	TransactionManager
}
