package domain

import "time"

// Approval is one entry in the approval audit trail of a document. Multiple
// rows may exist per document over its history; at most one is PENDING at
// any time (the most recent, by construction).
type Approval struct {
	ApprovalID string         `json:"approvalID"` // Primary Key (UUID)
	DocumentID string         `json:"documentID"` // FK -> documents.document_id
	UserID     string         `json:"userID"`     // Requester (while PENDING) or decider
	Status     ApprovalStatus `json:"status"`
	Comment    string         `json:"comment,omitempty"` // Required on rejection
	CreatedAt  time.Time      `json:"createdAt"`
}

// PendingApproval is a pending queue entry with its joined relations, as
// surfaced to approvers.
type PendingApproval struct {
	Approval  Approval `json:"approval"`
	Document  Document `json:"document"`
	Customer  Customer `json:"customer"`
	Requester User     `json:"requester"`
}
