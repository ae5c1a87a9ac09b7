package dto

import (
	"time"

	"github.com/pardisoft/docflow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDocumentItemRequest defines a single line item in a document create/update request.
type CreateDocumentItemRequest struct {
	ProductName      string           `json:"productName" binding:"required"`
	Description      string           `json:"description"`
	Quantity         decimal.Decimal  `json:"quantity" binding:"required,dgt0"`
	Unit             string           `json:"unit"`
	PurchasePrice    decimal.Decimal  `json:"purchasePrice" binding:"dgte0"`
	SellPrice        decimal.Decimal  `json:"sellPrice" binding:"dgte0"`
	ProfitPercentage *decimal.Decimal `json:"profitPercentage"` // Optional, stored as supplied; sellPrice is always taken as-is
	Supplier         string           `json:"supplier"`
	IsManualPrice    bool             `json:"isManualPrice"`
}

// CreateDocumentRequest defines the data needed to create a new document.
type CreateDocumentRequest struct {
	DocumentType   domain.DocumentType         `json:"documentType" binding:"required,oneof=TEMP_PROFORMA PROFORMA INVOICE RETURN_INVOICE RECEIPT OTHER"`
	CustomerID     string                      `json:"customerID" binding:"required"`
	IssueDate      *time.Time                  `json:"issueDate"`
	DueDate        *time.Time                  `json:"dueDate"`
	DiscountAmount decimal.Decimal             `json:"discountAmount" binding:"dgte0"`
	Notes          string                      `json:"notes"`
	ProjectName    string                      `json:"projectName"`
	Attachment     string                      `json:"attachment"`
	Items          []CreateDocumentItemRequest `json:"items" binding:"dive"`
}

// UpdateDocumentRequest defines the data allowed for updating a document.
// Use pointers to distinguish between zero-value updates and fields not provided.
// Items, when present, replace the document's items wholesale.
type UpdateDocumentRequest struct {
	CustomerID     *string                     `json:"customerID"`
	IssueDate      *time.Time                  `json:"issueDate"`
	DueDate        *time.Time                  `json:"dueDate"`
	DiscountAmount *decimal.Decimal            `json:"discountAmount" binding:"omitempty,dgte0"`
	Notes          *string                     `json:"notes"`
	ProjectName    *string                     `json:"projectName"`
	Attachment     *string                     `json:"attachment"`
	Items          []CreateDocumentItemRequest `json:"items" binding:"omitempty,dive"`
}

// ConvertDocumentRequest names the target type for a document conversion.
type ConvertDocumentRequest struct {
	TargetType domain.DocumentType `json:"targetType" binding:"required,oneof=PROFORMA INVOICE RETURN_INVOICE"`
}

// ListDocumentsParams defines query parameters for listing documents.
type ListDocumentsParams struct {
	DocumentType   string     `form:"documentType"`
	ApprovalStatus string     `form:"approvalStatus"`
	CustomerID     string     `form:"customerID"`
	CreatedFrom    *time.Time `form:"from" time_format:"2006-01-02"`
	CreatedTo      *time.Time `form:"to" time_format:"2006-01-02"`
	Limit          int        `form:"limit,default=20"`
	Offset         int        `form:"offset,default=0"`
}

// DocumentItemResponse defines the data returned for a document line item.
type DocumentItemResponse struct {
	ItemID           string           `json:"itemID"`
	Position         int              `json:"position"`
	ProductName      string           `json:"productName"`
	Description      string           `json:"description"`
	Quantity         decimal.Decimal  `json:"quantity"`
	Unit             string           `json:"unit"`
	PurchasePrice    decimal.Decimal  `json:"purchasePrice"`
	SellPrice        decimal.Decimal  `json:"sellPrice"`
	ProfitPercentage *decimal.Decimal `json:"profitPercentage,omitempty"`
	Supplier         string           `json:"supplier"`
	IsManualPrice    bool             `json:"isManualPrice"`
	LineTotal        decimal.Decimal  `json:"lineTotal"`
}

// DocumentResponse defines the data returned for a document.
type DocumentResponse struct {
	DocumentID      string                 `json:"documentID"`
	DocumentNumber  string                 `json:"documentNumber"`
	DocumentType    domain.DocumentType    `json:"documentType"`
	ApprovalStatus  domain.ApprovalStatus  `json:"approvalStatus"`
	CustomerID      string                 `json:"customerID"`
	Customer        *CustomerResponse      `json:"customer,omitempty"`
	IssueDate       *time.Time             `json:"issueDate,omitempty"`
	DueDate         *time.Time             `json:"dueDate,omitempty"`
	TotalAmount     decimal.Decimal        `json:"totalAmount"`
	DiscountAmount  decimal.Decimal        `json:"discountAmount"`
	FinalAmount     decimal.Decimal        `json:"finalAmount"`
	Notes           string                 `json:"notes"`
	ProjectName     string                 `json:"projectName"`
	Attachment      string                 `json:"attachment,omitempty"`
	ConvertedFromID *string                `json:"convertedFromID,omitempty"`
	Items           []DocumentItemResponse `json:"items"`
	CreatedAt       time.Time              `json:"createdAt"`
	CreatedBy       string                 `json:"createdBy"`
	LastUpdatedAt   time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy   string                 `json:"lastUpdatedBy"`
}

// ListDocumentsResponse wraps a page of documents with the total match count.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Total     int64              `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// ToDocumentItemResponse converts a domain.DocumentItem to DocumentItemResponse DTO.
func ToDocumentItemResponse(item *domain.DocumentItem) DocumentItemResponse {
	return DocumentItemResponse{
		ItemID:           item.ItemID,
		Position:         item.Position,
		ProductName:      item.ProductName,
		Description:      item.Description,
		Quantity:         item.Quantity,
		Unit:             item.Unit,
		PurchasePrice:    item.PurchasePrice,
		SellPrice:        item.SellPrice,
		ProfitPercentage: item.ProfitPercentage,
		Supplier:         item.Supplier,
		IsManualPrice:    item.IsManualPrice,
		LineTotal:        item.LineTotal(),
	}
}

// ToDocumentResponse converts a domain.Document to DocumentResponse DTO.
func ToDocumentResponse(doc *domain.Document) DocumentResponse {
	items := make([]DocumentItemResponse, len(doc.Items))
	for i, item := range doc.Items {
		items[i] = ToDocumentItemResponse(&item)
	}
	resp := DocumentResponse{
		DocumentID:      doc.DocumentID,
		DocumentNumber:  doc.DocumentNumber,
		DocumentType:    doc.DocumentType,
		ApprovalStatus:  doc.ApprovalStatus,
		CustomerID:      doc.CustomerID,
		IssueDate:       doc.IssueDate,
		DueDate:         doc.DueDate,
		TotalAmount:     doc.TotalAmount,
		DiscountAmount:  doc.DiscountAmount,
		FinalAmount:     doc.FinalAmount,
		Notes:           doc.Notes,
		ProjectName:     doc.ProjectName,
		Attachment:      doc.Attachment,
		ConvertedFromID: doc.ConvertedFromID,
		Items:           items,
		CreatedAt:       doc.CreatedAt,
		CreatedBy:       doc.CreatedBy,
		LastUpdatedAt:   doc.LastUpdatedAt,
		LastUpdatedBy:   doc.LastUpdatedBy,
	}
	if doc.Customer != nil {
		customer := ToCustomerResponse(doc.Customer)
		resp.Customer = &customer
	}
	return resp
}

// ToListDocumentsResponse converts a page of domain documents to ListDocumentsResponse DTO.
func ToListDocumentsResponse(docs []domain.Document, total int64, limit, offset int) ListDocumentsResponse {
	responses := make([]DocumentResponse, len(docs))
	for i, doc := range docs {
		responses[i] = ToDocumentResponse(&doc)
	}
	return ListDocumentsResponse{
		Documents: responses,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}
}
