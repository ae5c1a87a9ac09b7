package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pardisoft/docflow_app/internal/apperrors"
	"github.com/pardisoft/docflow_app/internal/core/domain"
	portsrepo "github.com/pardisoft/docflow_app/internal/core/ports/repositories"
	portssvc "github.com/pardisoft/docflow_app/internal/core/ports/services"
	"github.com/pardisoft/docflow_app/internal/middleware"
)

var (
	ErrRejectionCommentRequired = errors.New("rejection requires a comment")
	ErrDocumentNotPending       = errors.New("document is not pending approval")
)

// approvalService implements the approval ledger operations: deciding on
// pending documents and surfacing the pending queue.
type approvalService struct {
	approvalRepo portsrepo.ApprovalRepositoryFacade
	documentRepo portsrepo.DocumentReader
}

// NewApprovalService creates a new ApprovalService.
func NewApprovalService(approvalRepo portsrepo.ApprovalRepositoryFacade, documentRepo portsrepo.DocumentReader) portssvc.ApprovalSvcFacade {
	return &approvalService{
		approvalRepo: approvalRepo,
		documentRepo: documentRepo,
	}
}

var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

// decide resolves the document's pending approval to the given outcome and
// flips the document status to match, atomically.
func (s *approvalService) decide(ctx context.Context, documentID, deciderUserID string, outcome domain.ApprovalStatus, comment string) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve document %s: %w", documentID, err)
	}
	if doc.ApprovalStatus != domain.StatusPending {
		return nil, fmt.Errorf("%w: document %s is %s", ErrDocumentNotPending, documentID, doc.ApprovalStatus)
	}

	updated, err := s.approvalRepo.DecideDocumentApprovals(ctx, documentID, deciderUserID, outcome, comment, time.Now())
	if err != nil {
		logger.Error("Failed to record approval decision", slog.String("error", err.Error()), slog.String("document_id", documentID), slog.String("outcome", string(outcome)))
		return nil, err
	}

	logger.Info("Approval decision recorded",
		slog.String("document_id", documentID), slog.String("decider_id", deciderUserID), slog.String("outcome", string(outcome)))
	return updated, nil
}

// ApproveDocument marks a pending document as approved.
func (s *approvalService) ApproveDocument(ctx context.Context, documentID string, deciderUserID string, comment string) (*domain.Document, error) {
	return s.decide(ctx, documentID, deciderUserID, domain.StatusApproved, comment)
}

// RejectDocument marks a pending document as rejected. The comment is mandatory.
func (s *approvalService) RejectDocument(ctx context.Context, documentID string, deciderUserID string, comment string) (*domain.Document, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrRejectionCommentRequired)
	}
	return s.decide(ctx, documentID, deciderUserID, domain.StatusRejected, comment)
}

// ListPendingApprovals returns the queue of drafts awaiting a decision, oldest first.
func (s *approvalService) ListPendingApprovals(ctx context.Context) ([]domain.PendingApproval, error) {
	pending, err := s.approvalRepo.FindPendingApprovals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending approvals: %w", err)
	}
	return pending, nil
}

// GetApprovalHistory returns every approval record for a document, oldest first.
func (s *approvalService) GetApprovalHistory(ctx context.Context, documentID string) ([]domain.Approval, error) {
	if _, err := s.documentRepo.FindDocumentByID(ctx, documentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve document %s: %w", documentID, err)
	}
	approvals, err := s.approvalRepo.FindApprovalsByDocumentID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals for document %s: %w", documentID, err)
	}
	return approvals, nil
}
