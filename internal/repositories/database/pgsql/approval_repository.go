package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pardisoft/docflow_app/internal/apperrors"
	"github.com/pardisoft/docflow_app/internal/core/domain"
	portsrepo "github.com/pardisoft/docflow_app/internal/core/ports/repositories"
	"github.com/pardisoft/docflow_app/internal/models"
	"github.com/pardisoft/docflow_app/internal/utils/mapping"
)

type PgxApprovalRepository struct {
	BaseRepository
}

func newPgxApprovalRepository(pool *pgxpool.Pool) portsrepo.ApprovalRepositoryFacade {
	return &PgxApprovalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ApprovalRepositoryFacade = (*PgxApprovalRepository)(nil)

// FindApprovalsByDocumentID retrieves all approval records for a document, oldest first.
func (r *PgxApprovalRepository) FindApprovalsByDocumentID(ctx context.Context, documentID string) ([]domain.Approval, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT approval_id, document_id, user_id, status, comment, created_at
		FROM approvals
		WHERE document_id = $1
		ORDER BY created_at, approval_id;
	`, documentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query approvals for document "+documentID, err)
	}
	defer rows.Close()

	var modelApprovals []models.Approval
	for rows.Next() {
		var m models.Approval
		if err := rows.Scan(&m.ApprovalID, &m.DocumentID, &m.UserID, &m.Status, &m.Comment, &m.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan approval row", err)
		}
		modelApprovals = append(modelApprovals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate approval rows", err)
	}
	return mapping.ToDomainApprovalSlice(modelApprovals), nil
}

// FindPendingApprovals retrieves the pending queue, oldest first, joined with
// each approval's document, customer and requesting user. Only TEMP_PROFORMA
// documents ever carry a pending approval; the join enforces that.
func (r *PgxApprovalRepository) FindPendingApprovals(ctx context.Context) ([]domain.PendingApproval, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT a.approval_id, a.document_id, a.user_id, a.status, a.comment, a.created_at,
			d.document_id, d.document_number, d.document_type, d.approval_status, d.customer_id,
			d.issue_date, d.due_date, d.total_amount, d.discount_amount, d.final_amount,
			d.notes, d.project_name, d.attachment, d.converted_from_id,
			d.created_at, d.created_by, d.last_updated_at, d.last_updated_by,
			c.customer_id, c.name, c.email, c.phone, c.address,
			c.created_at, c.created_by, c.last_updated_at, c.last_updated_by,
			u.user_id, u.username, u.name, u.role
		FROM approvals a
		JOIN documents d ON d.document_id = a.document_id
		JOIN customers c ON c.customer_id = d.customer_id
		JOIN users u ON u.user_id = a.user_id
		WHERE a.status = $1 AND d.document_type = $2
		ORDER BY a.created_at, a.approval_id;
	`, models.StatusPending, models.TempProforma)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query pending approvals", err)
	}
	defer rows.Close()

	var pending []domain.PendingApproval
	for rows.Next() {
		var a models.Approval
		var d models.Document
		var c models.Customer
		var u models.User
		if err := rows.Scan(
			&a.ApprovalID, &a.DocumentID, &a.UserID, &a.Status, &a.Comment, &a.CreatedAt,
			&d.DocumentID, &d.DocumentNumber, &d.DocumentType, &d.ApprovalStatus, &d.CustomerID,
			&d.IssueDate, &d.DueDate, &d.TotalAmount, &d.DiscountAmount, &d.FinalAmount,
			&d.Notes, &d.ProjectName, &d.Attachment, &d.ConvertedFromID,
			&d.CreatedAt, &d.CreatedBy, &d.LastUpdatedAt, &d.LastUpdatedBy,
			&c.CustomerID, &c.Name, &c.Email, &c.Phone, &c.Address,
			&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
			&u.UserID, &u.Username, &u.Name, &u.Role,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan pending approval row", err)
		}
		pending = append(pending, domain.PendingApproval{
			Approval:  mapping.ToDomainApproval(a),
			Document:  mapping.ToDomainDocument(d),
			Customer:  mapping.ToDomainCustomer(c),
			Requester: mapping.ToDomainUser(u),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate pending approval rows", err)
	}
	return pending, nil
}

// DecideDocumentApprovals resolves the document's pending approval rows and
// flips the document status in one transaction, returning the updated
// document with its items.
func (r *PgxApprovalRepository) DecideDocumentApprovals(ctx context.Context, documentID string, deciderUserID string, status domain.ApprovalStatus, comment string, decidedAt time.Time) (*domain.Document, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// In practice there is exactly one pending row; the WHERE keeps it honest
	// either way. The decider replaces the requester on the resolved row.
	if _, err := tx.Exec(ctx, `
		UPDATE approvals SET status = $2, user_id = $3, comment = $4
		WHERE document_id = $1 AND status = $5;
	`, documentID, string(status), deciderUserID, comment, models.StatusPending); err != nil {
		return nil, apperrors.NewAppError(500, "failed to resolve pending approvals for "+documentID, err)
	}

	m, err := scanDocument(tx.QueryRow(ctx, `
		UPDATE documents SET approval_status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE document_id = $1
		RETURNING `+documentColumns+`;
	`, documentID, string(status), decidedAt, deciderUserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("document " + documentID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to update approval status of document "+documentID, err)
	}
	doc := mapping.ToDomainDocument(*m)

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &doc, nil
}
