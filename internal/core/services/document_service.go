package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pardisoft/docflow_app/internal/apperrors"
	"github.com/pardisoft/docflow_app/internal/core/domain"
	portsrepo "github.com/pardisoft/docflow_app/internal/core/ports/repositories"
	portssvc "github.com/pardisoft/docflow_app/internal/core/ports/services"
	"github.com/pardisoft/docflow_app/internal/dto"
	"github.com/pardisoft/docflow_app/internal/middleware"
)

var (
	ErrInvalidConversion    = errors.New("document type cannot be converted to the requested type")
	ErrSourceNotApproved    = errors.New("only approved documents can be converted")
	ErrItemQuantityInvalid  = errors.New("item quantity must be positive")
	ErrItemPriceNegative    = errors.New("item prices must not be negative")
	ErrDiscountExceedsTotal = errors.New("discount amount exceeds document total")
	ErrDiscountNegative     = errors.New("discount amount must not be negative")
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrNumberAllocationRace = errors.New("document number allocation kept colliding")
)

// cascadeComment is recorded on the fresh pending approval created when an
// approved draft is edited and its derived documents are torn down.
const cascadeComment = "edited, needs re-approval"

// saveAttempts bounds retries when a concurrent creation races the sequential
// number allocation and trips the unique constraint on document_number.
const saveAttempts = 3

// documentService implements document creation, editing, deletion and the
// conversion chain with its cascade rules.
type documentService struct {
	documentRepo portsrepo.DocumentRepositoryFacade
	customerRepo portsrepo.CustomerRepositoryFacade
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(documentRepo portsrepo.DocumentRepositoryFacade, customerRepo portsrepo.CustomerRepositoryFacade) portssvc.DocumentSvcFacade {
	return &documentService{
		documentRepo: documentRepo,
		customerRepo: customerRepo,
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// buildItems converts item requests into domain items with fresh identities,
// validating quantities and prices.
func (s *documentService) buildItems(reqs []dto.CreateDocumentItemRequest, documentID, actorUserID string, now time.Time) ([]domain.DocumentItem, error) {
	items := make([]domain.DocumentItem, len(reqs))
	for i, itemReq := range reqs {
		if itemReq.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: item %d (%s)", ErrItemQuantityInvalid, i+1, itemReq.ProductName)
		}
		if itemReq.PurchasePrice.IsNegative() || itemReq.SellPrice.IsNegative() {
			return nil, fmt.Errorf("%w: item %d (%s)", ErrItemPriceNegative, i+1, itemReq.ProductName)
		}
		items[i] = domain.DocumentItem{
			ItemID:           uuid.NewString(),
			DocumentID:       documentID,
			Position:         i + 1,
			ProductName:      itemReq.ProductName,
			Description:      itemReq.Description,
			Quantity:         itemReq.Quantity,
			Unit:             itemReq.Unit,
			PurchasePrice:    itemReq.PurchasePrice,
			SellPrice:        itemReq.SellPrice,
			ProfitPercentage: itemReq.ProfitPercentage,
			Supplier:         itemReq.Supplier,
			IsManualPrice:    itemReq.IsManualPrice,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorUserID,
			},
		}
	}
	return items, nil
}

// computeTotals derives totalAmount and finalAmount from the items and the
// discount. Sell prices are trusted as supplied.
func computeTotals(items []domain.DocumentItem, discount decimal.Decimal) (total, final decimal.Decimal, err error) {
	total = decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	if discount.IsNegative() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s", ErrDiscountNegative, discount.String())
	}
	if discount.GreaterThan(total) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: discount %s, total %s", ErrDiscountExceedsTotal, discount.String(), total.String())
	}
	return total, total.Sub(discount), nil
}

// CreateDocument creates a new document with its items. TEMP_PROFORMA starts
// PENDING with a matching approval record; every other type is born APPROVED.
func (s *documentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.IsValidDocumentType(req.DocumentType) {
		return nil, fmt.Errorf("%w: unknown document type %s", apperrors.ErrValidation, req.DocumentType)
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, req.CustomerID)
		}
		logger.Error("Failed to fetch customer for document creation", slog.String("error", err.Error()), slog.String("customer_id", req.CustomerID))
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}

	now := time.Now()
	documentID := uuid.NewString()

	items, err := s.buildItems(req.Items, documentID, creatorUserID, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	total, final, err := computeTotals(items, req.DiscountAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	doc := domain.Document{
		DocumentID:     documentID,
		DocumentType:   req.DocumentType,
		ApprovalStatus: domain.InitialStatus(req.DocumentType),
		CustomerID:     req.CustomerID,
		IssueDate:      req.IssueDate,
		DueDate:        req.DueDate,
		TotalAmount:    total,
		DiscountAmount: req.DiscountAmount,
		FinalAmount:    final,
		Notes:          req.Notes,
		ProjectName:    req.ProjectName,
		Attachment:     req.Attachment,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	var pendingApproval *domain.Approval
	if doc.ApprovalStatus == domain.StatusPending {
		pendingApproval = &domain.Approval{
			ApprovalID: uuid.NewString(),
			DocumentID: documentID,
			UserID:     creatorUserID,
			Status:     domain.StatusPending,
			CreatedAt:  now,
		}
	}

	number, err := s.saveWithRetry(ctx, func() (string, error) {
		return s.documentRepo.SaveDocument(ctx, doc, items, pendingApproval)
	})
	if err != nil {
		logger.Error("Failed to save document", slog.String("error", err.Error()), slog.String("document_id", documentID))
		return nil, err
	}

	doc.DocumentNumber = number
	doc.Items = items
	doc.Customer = customer
	logger.Info("Document created", slog.String("document_id", documentID), slog.String("document_number", number), slog.String("document_type", string(doc.DocumentType)))
	return &doc, nil
}

// saveWithRetry re-runs an insert whose number allocation lost a race, up to
// saveAttempts times. Anything other than a conflict is returned as-is.
func (s *documentService) saveWithRetry(ctx context.Context, save func() (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		number, err := save()
		if err == nil {
			return number, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("%w after %d attempts: %w", ErrNumberAllocationRace, saveAttempts, lastErr)
}

// GetDocumentByID retrieves a document with its items and customer.
func (s *documentService) GetDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve document %s: %w", documentID, err)
	}
	return doc, nil
}

// ListDocuments retrieves a filtered page of documents and the total match count.
func (s *documentService) ListDocuments(ctx context.Context, params dto.ListDocumentsParams) ([]domain.Document, int64, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	if params.DocumentType != "" && !domain.IsValidDocumentType(domain.DocumentType(params.DocumentType)) {
		return nil, 0, fmt.Errorf("%w: unknown document type %s", apperrors.ErrValidation, params.DocumentType)
	}

	filter := portsrepo.DocumentListFilter{
		DocumentType:   domain.DocumentType(params.DocumentType),
		ApprovalStatus: domain.ApprovalStatus(params.ApprovalStatus),
		CustomerID:     params.CustomerID,
		CreatedFrom:    params.CreatedFrom,
		CreatedTo:      inclusiveEndOfDay(params.CreatedTo),
		Limit:          limit,
		Offset:         offset,
	}
	docs, total, err := s.documentRepo.ListDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, total, nil
}

// inclusiveEndOfDay turns a date-only upper bound into an exclusive timestamp
// covering the whole named day.
func inclusiveEndOfDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	end := t.Add(24 * time.Hour)
	return &end
}

// collectDescendants walks the conversion chain below documentID and returns
// every derived document ID, deepest first, so deletion can proceed children
// before parents. The chain is linear in practice but the walk does not
// assume a fixed depth.
func (s *documentService) collectDescendants(ctx context.Context, documentID string) ([]string, error) {
	childIDs, err := s.documentRepo.FindChildIDs(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find documents derived from %s: %w", documentID, err)
	}
	var ordered []string
	for _, childID := range childIDs {
		below, err := s.collectDescendants(ctx, childID)
		if err != nil {
			return nil, err
		}
		ordered = append(ordered, below...)
		ordered = append(ordered, childID)
	}
	return ordered, nil
}

// UpdateDocument applies a field/item replace to a document. Editing an
// approved TEMP_PROFORMA tears down everything derived from it and resets the
// draft to PENDING with a fresh approval record; any other edit is a plain
// replace with totals recomputed.
func (s *documentService) UpdateDocument(ctx context.Context, documentID string, req dto.UpdateDocumentRequest, updaterUserID string) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve document %s: %w", documentID, err)
	}

	now := time.Now()

	if req.CustomerID != nil && *req.CustomerID != doc.CustomerID {
		if _, err := s.customerRepo.FindCustomerByID(ctx, *req.CustomerID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, *req.CustomerID)
			}
			return nil, fmt.Errorf("failed to fetch customer: %w", err)
		}
		doc.CustomerID = *req.CustomerID
		doc.Customer = nil
	}
	if req.IssueDate != nil {
		doc.IssueDate = req.IssueDate
	}
	if req.DueDate != nil {
		doc.DueDate = req.DueDate
	}
	if req.Notes != nil {
		doc.Notes = *req.Notes
	}
	if req.ProjectName != nil {
		doc.ProjectName = *req.ProjectName
	}
	if req.Attachment != nil {
		doc.Attachment = *req.Attachment
	}

	items := doc.Items
	if req.Items != nil {
		items, err = s.buildItems(req.Items, documentID, updaterUserID, now)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
	}
	discount := doc.DiscountAmount
	if req.DiscountAmount != nil {
		discount = *req.DiscountAmount
	}
	total, final, err := computeTotals(items, discount)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	doc.TotalAmount = total
	doc.DiscountAmount = discount
	doc.FinalAmount = final
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = updaterUserID

	// Editing an approved draft invalidates everything built on top of it.
	var cascadeDeleteIDs []string
	var resetApproval *domain.Approval
	if doc.DocumentType == domain.TempProforma && doc.ApprovalStatus == domain.StatusApproved {
		cascadeDeleteIDs, err = s.collectDescendants(ctx, documentID)
		if err != nil {
			return nil, err
		}
		doc.ApprovalStatus = domain.StatusPending
		resetApproval = &domain.Approval{
			ApprovalID: uuid.NewString(),
			DocumentID: documentID,
			UserID:     updaterUserID,
			Status:     domain.StatusPending,
			Comment:    cascadeComment,
			CreatedAt:  now,
		}
		logger.Info("Edit of approved draft triggers cascade invalidation",
			slog.String("document_id", documentID), slog.Int("descendants", len(cascadeDeleteIDs)))
	}

	if err := s.documentRepo.UpdateDocumentWithItems(ctx, *doc, items, cascadeDeleteIDs, resetApproval); err != nil {
		logger.Error("Failed to update document", slog.String("error", err.Error()), slog.String("document_id", documentID))
		return nil, err
	}

	doc.Items = items
	return doc, nil
}

// DeleteDocument deletes a document and every document derived from it.
func (s *documentService) DeleteDocument(ctx context.Context, documentID string, deleterUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.documentRepo.FindDocumentByID(ctx, documentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to retrieve document %s: %w", documentID, err)
	}

	descendants, err := s.collectDescendants(ctx, documentID)
	if err != nil {
		return err
	}
	if err := s.documentRepo.DeleteDocuments(ctx, append(descendants, documentID)); err != nil {
		logger.Error("Failed to delete document", slog.String("error", err.Error()), slog.String("document_id", documentID))
		return err
	}
	logger.Info("Document deleted", slog.String("document_id", documentID), slog.String("deleted_by", deleterUserID), slog.Int("descendants", len(descendants)))
	return nil
}

// ConvertDocument creates the next document in the conversion chain from an
// approved source. Re-converting a source replaces its earlier conversion and
// everything derived from that conversion.
func (s *documentService) ConvertDocument(ctx context.Context, documentID string, targetType domain.DocumentType, converterUserID string) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	source, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve document %s: %w", documentID, err)
	}

	if !domain.CanConvert(source.DocumentType, targetType) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidConversion, source.DocumentType, targetType)
	}
	if source.ApprovalStatus != domain.StatusApproved {
		return nil, fmt.Errorf("%w: document %s is %s", ErrSourceNotApproved, documentID, source.ApprovalStatus)
	}

	// A source has at most one live conversion. Replace the existing one and
	// its whole subtree.
	var replaceIDs []string
	childIDs, err := s.documentRepo.FindChildIDs(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find existing conversions of %s: %w", documentID, err)
	}
	for _, childID := range childIDs {
		below, err := s.collectDescendants(ctx, childID)
		if err != nil {
			return nil, err
		}
		replaceIDs = append(replaceIDs, below...)
		replaceIDs = append(replaceIDs, childID)
	}

	now := time.Now()
	newDocumentID := uuid.NewString()
	sourceID := source.DocumentID

	newItems := make([]domain.DocumentItem, len(source.Items))
	for i, item := range source.Items {
		copied := item
		copied.ItemID = uuid.NewString()
		copied.DocumentID = newDocumentID
		copied.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     converterUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: converterUserID,
		}
		newItems[i] = copied
	}

	newDoc := domain.Document{
		DocumentID:      newDocumentID,
		DocumentType:    targetType,
		ApprovalStatus:  domain.InitialStatus(targetType),
		CustomerID:      source.CustomerID,
		DueDate:         source.DueDate,
		TotalAmount:     source.TotalAmount,
		DiscountAmount:  source.DiscountAmount,
		FinalAmount:     source.FinalAmount,
		Notes:           source.Notes,
		ProjectName:     source.ProjectName,
		ConvertedFromID: &sourceID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     converterUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: converterUserID,
		},
	}

	number, err := s.saveWithRetry(ctx, func() (string, error) {
		return s.documentRepo.SaveConversion(ctx, newDoc, newItems, replaceIDs)
	})
	if err != nil {
		logger.Error("Failed to save conversion", slog.String("error", err.Error()), slog.String("source_id", sourceID), slog.String("target_type", string(targetType)))
		return nil, err
	}

	newDoc.DocumentNumber = number
	newDoc.Items = newItems
	newDoc.Customer = source.Customer
	logger.Info("Document converted",
		slog.String("source_id", sourceID), slog.String("document_id", newDocumentID),
		slog.String("document_number", number), slog.String("target_type", string(targetType)),
		slog.Int("replaced", len(replaceIDs)))
	return &newDoc, nil
}
