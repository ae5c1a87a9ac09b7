package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType mirrors domain.DocumentType at the persistence layer.
type DocumentType string

const (
	TempProforma  DocumentType = "TEMP_PROFORMA"
	Proforma      DocumentType = "PROFORMA"
	Invoice       DocumentType = "INVOICE"
	ReturnInvoice DocumentType = "RETURN_INVOICE"
	Receipt       DocumentType = "RECEIPT"
	Other         DocumentType = "OTHER"
)

// ApprovalStatus mirrors domain.ApprovalStatus at the persistence layer.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "PENDING"
	StatusApproved ApprovalStatus = "APPROVED"
	StatusRejected ApprovalStatus = "REJECTED"
)

// Document is the documents table row.
type Document struct {
	DocumentID      string          `db:"document_id"`
	DocumentNumber  string          `db:"document_number"` // Unique
	DocumentType    DocumentType    `db:"document_type"`
	ApprovalStatus  ApprovalStatus  `db:"approval_status"`
	CustomerID      string          `db:"customer_id"`
	IssueDate       *time.Time      `db:"issue_date"`
	DueDate         *time.Time      `db:"due_date"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	DiscountAmount  decimal.Decimal `db:"discount_amount"`
	FinalAmount     decimal.Decimal `db:"final_amount"`
	Notes           string          `db:"notes"`
	ProjectName     string          `db:"project_name"`
	Attachment      string          `db:"attachment"`
	ConvertedFromID *string         `db:"converted_from_id"` // Nullable self FK
	AuditFields
}

// DocumentItem is the document_items table row. Rows are owned by their
// document and removed with it (ON DELETE CASCADE).
type DocumentItem struct {
	ItemID           string           `db:"item_id"`
	DocumentID       string           `db:"document_id"`
	Position         int              `db:"position"`
	ProductName      string           `db:"product_name"`
	Description      string           `db:"description"`
	Quantity         decimal.Decimal  `db:"quantity"`
	Unit             string           `db:"unit"`
	PurchasePrice    decimal.Decimal  `db:"purchase_price"`
	SellPrice        decimal.Decimal  `db:"sell_price"`
	ProfitPercentage *decimal.Decimal `db:"profit_percentage"` // Nullable
	Supplier         string           `db:"supplier"`
	IsManualPrice    bool             `db:"is_manual_price"`
	AuditFields
}
