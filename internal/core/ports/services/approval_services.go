package services

import (
	"context"

	"github.com/pardisoft/docflow_app/internal/core/domain"
)

// ApprovalReaderSvc defines read operations for approval data
type ApprovalReaderSvc interface {
	// ListPendingApprovals retrieves the queue of documents awaiting a decision,
	// oldest first, with their document, customer and requesting user.
	ListPendingApprovals(ctx context.Context) ([]domain.PendingApproval, error)

	// GetApprovalHistory retrieves all approval records for a document, oldest first.
	GetApprovalHistory(ctx context.Context, documentID string) ([]domain.Approval, error)
}

// ApprovalDeciderSvc defines the approve/reject operations
type ApprovalDeciderSvc interface {
	// ApproveDocument marks a pending document as approved. The decider must hold
	// the approver capability.
	ApproveDocument(ctx context.Context, documentID string, deciderUserID string, comment string) (*domain.Document, error)

	// RejectDocument marks a pending document as rejected. A non-empty comment is required.
	RejectDocument(ctx context.Context, documentID string, deciderUserID string, comment string) (*domain.Document, error)
}

// ApprovalSvcFacade combines all approval-related service interfaces
type ApprovalSvcFacade interface {
	ApprovalReaderSvc
	ApprovalDeciderSvc
}
