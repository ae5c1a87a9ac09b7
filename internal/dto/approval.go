package dto

import (
	"time"

	"github.com/pardisoft/docflow_app/internal/core/domain"
)

// DecideApprovalRequest carries the decider's optional comment. Rejections
// require a non-empty comment; the service enforces this.
type DecideApprovalRequest struct {
	Comment string `json:"comment"`
}

// ApprovalResponse defines the data returned for an approval record.
type ApprovalResponse struct {
	ApprovalID string                `json:"approvalID"`
	DocumentID string                `json:"documentID"`
	UserID     string                `json:"userID"`
	Status     domain.ApprovalStatus `json:"status"`
	Comment    string                `json:"comment,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
}

// PendingApprovalResponse is one entry in the pending approvals queue.
type PendingApprovalResponse struct {
	Approval  ApprovalResponse `json:"approval"`
	Document  DocumentResponse `json:"document"`
	Requester UserResponse     `json:"requester"`
}

// ListPendingApprovalsResponse wraps the pending approvals queue.
type ListPendingApprovalsResponse struct {
	PendingApprovals []PendingApprovalResponse `json:"pendingApprovals"`
}

// ToApprovalResponse converts a domain.Approval to ApprovalResponse DTO.
func ToApprovalResponse(a *domain.Approval) ApprovalResponse {
	return ApprovalResponse{
		ApprovalID: a.ApprovalID,
		DocumentID: a.DocumentID,
		UserID:     a.UserID,
		Status:     a.Status,
		Comment:    a.Comment,
		CreatedAt:  a.CreatedAt,
	}
}

// ToApprovalResponses converts a slice of domain.Approval to []ApprovalResponse.
func ToApprovalResponses(approvals []domain.Approval) []ApprovalResponse {
	responses := make([]ApprovalResponse, len(approvals))
	for i, a := range approvals {
		responses[i] = ToApprovalResponse(&a)
	}
	return responses
}

// ToListPendingApprovalsResponse converts the pending queue to its response DTO.
func ToListPendingApprovalsResponse(pending []domain.PendingApproval) ListPendingApprovalsResponse {
	responses := make([]PendingApprovalResponse, len(pending))
	for i, p := range pending {
		doc := p.Document
		if doc.Customer == nil {
			customer := p.Customer
			doc.Customer = &customer
		}
		responses[i] = PendingApprovalResponse{
			Approval:  ToApprovalResponse(&p.Approval),
			Document:  ToDocumentResponse(&doc),
			Requester: ToUserResponse(&p.Requester),
		}
	}
	return ListPendingApprovalsResponse{PendingApprovals: responses}
}
