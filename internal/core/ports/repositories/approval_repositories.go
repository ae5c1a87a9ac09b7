package repositories

import (
	"context"
	"time"

	"github.com/pardisoft/docflow_app/internal/core/domain"
)

// ApprovalReader defines read operations for approval data
type ApprovalReader interface {
	// FindApprovalsByDocumentID retrieves all approval records for a document, oldest first.
	FindApprovalsByDocumentID(ctx context.Context, documentID string) ([]domain.Approval, error)

	// FindPendingApprovals retrieves all pending approval records together with
	// their document, customer and requesting user, oldest first.
	FindPendingApprovals(ctx context.Context) ([]domain.PendingApproval, error)
}

// ApprovalWriter defines write operations for approval data
type ApprovalWriter interface {
	// DecideDocumentApprovals resolves all pending approvals of a document and updates the
	// document's approval status to match, within a single transaction. It returns the
	// updated document.
	DecideDocumentApprovals(ctx context.Context, documentID string, deciderUserID string, status domain.ApprovalStatus, comment string, decidedAt time.Time) (*domain.Document, error)
}

// ApprovalRepositoryFacade combines all approval-related repository interfaces
type ApprovalRepositoryFacade interface {
	ApprovalReader
	ApprovalWriter
}
