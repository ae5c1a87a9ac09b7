package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pardisoft/docflow_app/internal/apperrors"
	"github.com/pardisoft/docflow_app/internal/core/domain"
	portsrepo "github.com/pardisoft/docflow_app/internal/core/ports/repositories"
	"github.com/pardisoft/docflow_app/internal/models"
	"github.com/pardisoft/docflow_app/internal/utils/mapping"
)

const documentColumns = `document_id, document_number, document_type, approval_status, customer_id,
		issue_date, due_date, total_amount, discount_amount, final_amount,
		notes, project_name, attachment, converted_from_id,
		created_at, created_by, last_updated_at, last_updated_by`

const documentItemColumns = `item_id, document_id, position, product_name, description, quantity, unit,
		purchase_price, sell_price, profit_percentage, supplier, is_manual_price,
		created_at, created_by, last_updated_at, last_updated_by`

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for document and item data.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryWithTx {
	return &PgxDocumentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.DocumentRepositoryWithTx = (*PgxDocumentRepository)(nil)

// numberingYear picks the year component of a document number: the issue date
// when set, otherwise the creation time.
func numberingYear(doc domain.Document) int {
	if doc.IssueDate != nil {
		return doc.IssueDate.Year()
	}
	return doc.CreatedAt.Year()
}

// allocateNumberTx computes the next sequential document number for the
// type/year inside the inserting transaction. The unique index on
// document_number makes a concurrent allocation of the same number fail the
// insert rather than silently duplicate.
func allocateNumberTx(ctx context.Context, tx pgx.Tx, docType domain.DocumentType, year int) (string, error) {
	prefix := domain.NumberPrefix(docType)
	pattern := prefix + "-" + strconv.Itoa(year) + "-%"

	var latest *string
	err := tx.QueryRow(ctx,
		`SELECT document_number FROM documents WHERE document_number LIKE $1 ORDER BY document_number DESC LIMIT 1`,
		pattern,
	).Scan(&latest)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.NewAppError(500, "failed to read latest document number", err)
	}

	number, err := domain.NextDocumentNumber(docType, year, latest)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to compute next document number", err)
	}
	return number, nil
}

// insertDocumentTx inserts a document row, translating constraint violations.
func insertDocumentTx(ctx context.Context, tx pgx.Tx, m models.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := tx.Exec(ctx, query,
		m.DocumentID, m.DocumentNumber, m.DocumentType, m.ApprovalStatus, m.CustomerID,
		m.IssueDate, m.DueDate, m.TotalAmount, m.DiscountAmount, m.FinalAmount,
		m.Notes, m.ProjectName, m.Attachment, m.ConvertedFromID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" {
				// Lost the numbering race or duplicate ID; caller may retry.
				return apperrors.NewConflictError("document number " + m.DocumentNumber + " already exists")
			}
			if pgErr.Code == "23503" {
				return apperrors.NewValidationFailedError("document references a missing row: " + pgErr.ConstraintName)
			}
		}
		return apperrors.NewAppError(500, "failed to insert document "+m.DocumentID, err)
	}
	return nil
}

// insertItemsTx batch-inserts the document's items.
func insertItemsTx(ctx context.Context, tx pgx.Tx, items []domain.DocumentItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO document_items (` + documentItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	for _, item := range items {
		m := mapping.ToModelDocumentItem(item)
		batch.Queue(query,
			m.ItemID, m.DocumentID, m.Position, m.ProductName, m.Description, m.Quantity, m.Unit,
			m.PurchasePrice, m.SellPrice, m.ProfitPercentage, m.Supplier, m.IsManualPrice,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range items {
		if _, err := br.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to insert document items", err)
		}
	}
	return nil
}

// insertApprovalTx inserts a single approval row.
func insertApprovalTx(ctx context.Context, tx pgx.Tx, approval domain.Approval) error {
	m := mapping.ToModelApproval(approval)
	_, err := tx.Exec(ctx, `
		INSERT INTO approvals (approval_id, document_id, user_id, status, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`, m.ApprovalID, m.DocumentID, m.UserID, m.Status, m.Comment, m.CreatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert approval for document "+approval.DocumentID, err)
	}
	return nil
}

// deleteDocumentsTx deletes document rows in the given order. Items and
// approvals go with them via ON DELETE CASCADE. Rows already gone are
// ignored; a concurrent deletion is not an error here.
func deleteDocumentsTx(ctx context.Context, tx pgx.Tx, documentIDs []string) error {
	for _, id := range documentIDs {
		if _, err := tx.Exec(ctx, `DELETE FROM documents WHERE document_id = $1`, id); err != nil {
			return apperrors.NewAppError(500, "failed to delete document "+id, err)
		}
	}
	return nil
}

// SaveDocument persists a document, its items and the optional pending
// approval in one transaction, allocating the next document number inside it.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, document domain.Document, items []domain.DocumentItem, pendingApproval *domain.Approval) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	number, err := allocateNumberTx(ctx, tx, document.DocumentType, numberingYear(document))
	if err != nil {
		return "", err
	}
	document.DocumentNumber = number

	if err := insertDocumentTx(ctx, tx, mapping.ToModelDocument(document)); err != nil {
		return "", err
	}
	if err := insertItemsTx(ctx, tx, items); err != nil {
		return "", err
	}
	if pendingApproval != nil {
		if err := insertApprovalTx(ctx, tx, *pendingApproval); err != nil {
			return "", err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return number, nil
}

// SaveConversion deletes the replaced subtree and inserts the converted
// document with its items in one transaction.
func (r *PgxDocumentRepository) SaveConversion(ctx context.Context, document domain.Document, items []domain.DocumentItem, replaceIDs []string) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	if err := deleteDocumentsTx(ctx, tx, replaceIDs); err != nil {
		return "", err
	}

	number, err := allocateNumberTx(ctx, tx, document.DocumentType, numberingYear(document))
	if err != nil {
		return "", err
	}
	document.DocumentNumber = number

	if err := insertDocumentTx(ctx, tx, mapping.ToModelDocument(document)); err != nil {
		return "", err
	}
	if err := insertItemsTx(ctx, tx, items); err != nil {
		return "", err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return number, nil
}

// UpdateDocumentWithItems updates a document row, replaces its items and,
// when a cascade applies, deletes the derived documents and resets the
// approval trail, all in one transaction.
func (r *PgxDocumentRepository) UpdateDocumentWithItems(ctx context.Context, document domain.Document, items []domain.DocumentItem, cascadeDeleteIDs []string, resetApproval *domain.Approval) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := deleteDocumentsTx(ctx, tx, cascadeDeleteIDs); err != nil {
		return err
	}

	m := mapping.ToModelDocument(document)
	tag, err := tx.Exec(ctx, `
		UPDATE documents SET
			approval_status = $2, customer_id = $3, issue_date = $4, due_date = $5,
			total_amount = $6, discount_amount = $7, final_amount = $8,
			notes = $9, project_name = $10, attachment = $11,
			last_updated_at = $12, last_updated_by = $13
		WHERE document_id = $1;
	`, m.DocumentID, m.ApprovalStatus, m.CustomerID, m.IssueDate, m.DueDate,
		m.TotalAmount, m.DiscountAmount, m.FinalAmount,
		m.Notes, m.ProjectName, m.Attachment,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.NewValidationFailedError("document references a missing row: " + pgErr.ConstraintName)
		}
		return apperrors.NewAppError(500, "failed to update document "+m.DocumentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("document " + m.DocumentID + " not found")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM document_items WHERE document_id = $1`, m.DocumentID); err != nil {
		return apperrors.NewAppError(500, "failed to clear document items for "+m.DocumentID, err)
	}
	if err := insertItemsTx(ctx, tx, items); err != nil {
		return err
	}

	if resetApproval != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM approvals WHERE document_id = $1`, m.DocumentID); err != nil {
			return apperrors.NewAppError(500, "failed to clear approvals for "+m.DocumentID, err)
		}
		if err := insertApprovalTx(ctx, tx, *resetApproval); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// DeleteDocuments deletes the given documents in order within a single transaction.
func (r *PgxDocumentRepository) DeleteDocuments(ctx context.Context, documentIDs []string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := deleteDocumentsTx(ctx, tx, documentIDs); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	var m models.Document
	err := row.Scan(
		&m.DocumentID, &m.DocumentNumber, &m.DocumentType, &m.ApprovalStatus, &m.CustomerID,
		&m.IssueDate, &m.DueDate, &m.TotalAmount, &m.DiscountAmount, &m.FinalAmount,
		&m.Notes, &m.ProjectName, &m.Attachment, &m.ConvertedFromID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindDocumentByID retrieves a document with its items and customer.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	m, err := scanDocument(r.Pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE document_id = $1`, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("document " + documentID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find document "+documentID, err)
	}
	doc := mapping.ToDomainDocument(*m)

	items, err := r.findItemsByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	doc.Items = items

	customer, err := findCustomerRow(ctx, r.Pool, doc.CustomerID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	doc.Customer = customer

	return &doc, nil
}

func (r *PgxDocumentRepository) findItemsByDocumentID(ctx context.Context, documentID string) ([]domain.DocumentItem, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+documentItemColumns+` FROM document_items WHERE document_id = $1 ORDER BY position`, documentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for document "+documentID, err)
	}
	defer rows.Close()

	var modelItems []models.DocumentItem
	for rows.Next() {
		var m models.DocumentItem
		if err := rows.Scan(
			&m.ItemID, &m.DocumentID, &m.Position, &m.ProductName, &m.Description, &m.Quantity, &m.Unit,
			&m.PurchasePrice, &m.SellPrice, &m.ProfitPercentage, &m.Supplier, &m.IsManualPrice,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan document item", err)
		}
		modelItems = append(modelItems, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate document items", err)
	}
	return mapping.ToDomainDocumentItemSlice(modelItems), nil
}

// FindChildIDs returns the IDs of documents directly converted from the given document.
func (r *PgxDocumentRepository) FindChildIDs(ctx context.Context, documentID string) ([]string, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT document_id FROM documents WHERE converted_from_id = $1`, documentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query children of document "+documentID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan child document ID", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate child document IDs", err)
	}
	return ids, nil
}

// ListDocuments retrieves a filtered page of documents (newest first) and the
// total matching count. Items are not loaded for list views.
func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, filter portsrepo.DocumentListFilter) ([]domain.Document, int64, error) {
	where := ` WHERE 1=1`
	args := []any{}
	argPos := 1
	if filter.DocumentType != "" {
		where += fmt.Sprintf(" AND d.document_type = $%d", argPos)
		args = append(args, string(filter.DocumentType))
		argPos++
	}
	if filter.ApprovalStatus != "" {
		where += fmt.Sprintf(" AND d.approval_status = $%d", argPos)
		args = append(args, string(filter.ApprovalStatus))
		argPos++
	}
	if filter.CustomerID != "" {
		where += fmt.Sprintf(" AND d.customer_id = $%d", argPos)
		args = append(args, filter.CustomerID)
		argPos++
	}
	if filter.CreatedFrom != nil {
		where += fmt.Sprintf(" AND d.created_at >= $%d", argPos)
		args = append(args, *filter.CreatedFrom)
		argPos++
	}
	if filter.CreatedTo != nil {
		where += fmt.Sprintf(" AND d.created_at < $%d", argPos)
		args = append(args, *filter.CreatedTo)
		argPos++
	}

	var total int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents d`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count documents", err)
	}

	query := `
		SELECT d.document_id, d.document_number, d.document_type, d.approval_status, d.customer_id,
			d.issue_date, d.due_date, d.total_amount, d.discount_amount, d.final_amount,
			d.notes, d.project_name, d.attachment, d.converted_from_id,
			d.created_at, d.created_by, d.last_updated_at, d.last_updated_by,
			c.customer_id, c.name, c.email, c.phone, c.address,
			c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
		FROM documents d
		JOIN customers c ON c.customer_id = d.customer_id` + where +
		fmt.Sprintf(` ORDER BY d.created_at DESC, d.document_id LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to query documents", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var m models.Document
		var c models.Customer
		if err := rows.Scan(
			&m.DocumentID, &m.DocumentNumber, &m.DocumentType, &m.ApprovalStatus, &m.CustomerID,
			&m.IssueDate, &m.DueDate, &m.TotalAmount, &m.DiscountAmount, &m.FinalAmount,
			&m.Notes, &m.ProjectName, &m.Attachment, &m.ConvertedFromID,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
			&c.CustomerID, &c.Name, &c.Email, &c.Phone, &c.Address,
			&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
		); err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan document row", err)
		}
		doc := mapping.ToDomainDocument(m)
		customer := mapping.ToDomainCustomer(c)
		doc.Customer = &customer
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to iterate document rows", err)
	}
	return docs, total, nil
}
