package models

import "time"

// Approval is the approvals table row. Rows are removed with their document
// (ON DELETE CASCADE) and otherwise only by the cascade-invalidation engine.
type Approval struct {
	ApprovalID string         `db:"approval_id"`
	DocumentID string         `db:"document_id"`
	UserID     string         `db:"user_id"`
	Status     ApprovalStatus `db:"status"`
	Comment    string         `db:"comment"`
	CreatedAt  time.Time      `db:"created_at"`
}
