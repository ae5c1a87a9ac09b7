package mapping

import (
	"github.com/pardisoft/docflow_app/internal/core/domain"
	"github.com/pardisoft/docflow_app/internal/models"
)

// ToModelApproval converts a domain Approval to a model Approval
func ToModelApproval(d domain.Approval) models.Approval {
	return models.Approval{
		ApprovalID: d.ApprovalID,
		DocumentID: d.DocumentID,
		UserID:     d.UserID,
		Status:     models.ApprovalStatus(d.Status),
		Comment:    d.Comment,
		CreatedAt:  d.CreatedAt,
	}
}

// ToDomainApproval converts a model Approval to a domain Approval
func ToDomainApproval(m models.Approval) domain.Approval {
	return domain.Approval{
		ApprovalID: m.ApprovalID,
		DocumentID: m.DocumentID,
		UserID:     m.UserID,
		Status:     domain.ApprovalStatus(m.Status),
		Comment:    m.Comment,
		CreatedAt:  m.CreatedAt,
	}
}

// ToDomainApprovalSlice converts a slice of model approvals to domain approvals
func ToDomainApprovalSlice(ms []models.Approval) []domain.Approval {
	approvals := make([]domain.Approval, len(ms))
	for i, m := range ms {
		approvals[i] = ToDomainApproval(m)
	}
	return approvals
}
