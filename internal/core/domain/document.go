package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType identifies the kind of business document.
type DocumentType string

const (
	TempProforma  DocumentType = "TEMP_PROFORMA"
	Proforma      DocumentType = "PROFORMA"
	Invoice       DocumentType = "INVOICE"
	ReturnInvoice DocumentType = "RETURN_INVOICE"
	Receipt       DocumentType = "RECEIPT"
	Other         DocumentType = "OTHER"
)

// ApprovalStatus is the approval state of a document.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "PENDING"
	StatusApproved ApprovalStatus = "APPROVED"
	StatusRejected ApprovalStatus = "REJECTED"
)

// Document is the core business document entity. A document may be derived
// from another via conversion, recorded by ConvertedFromID (at most one
// parent; at most one live child per parent, enforced by the services).
type Document struct {
	DocumentID      string          `json:"documentID"`     // Primary Key (UUID)
	DocumentNumber  string          `json:"documentNumber"` // Unique, {PREFIX}-{YEAR}-{SEQ:6}
	DocumentType    DocumentType    `json:"documentType"`
	ApprovalStatus  ApprovalStatus  `json:"approvalStatus"`
	CustomerID      string          `json:"customerID"` // FK -> customers.customer_id
	IssueDate       *time.Time      `json:"issueDate,omitempty"`
	DueDate         *time.Time      `json:"dueDate,omitempty"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	FinalAmount     decimal.Decimal `json:"finalAmount"` // TotalAmount - DiscountAmount, never negative
	Notes           string          `json:"notes,omitempty"`
	ProjectName     string          `json:"projectName,omitempty"`
	Attachment      string          `json:"attachment,omitempty"`
	ConvertedFromID *string         `json:"convertedFromID,omitempty"` // Nullable self-reference (provenance)
	AuditFields

	// Relations, populated on demand by the services.
	Items    []DocumentItem `json:"items,omitempty"`
	Customer *Customer      `json:"customer,omitempty"`
}

// DocumentItem is a single line item, owned exclusively by its Document.
type DocumentItem struct {
	ItemID           string          `json:"itemID"` // Primary Key (UUID)
	DocumentID       string          `json:"documentID"`
	Position         int             `json:"position"` // Stable ordering within the document
	ProductName      string          `json:"productName"`
	Description      string          `json:"description,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"` // > 0
	Unit             string          `json:"unit"`
	PurchasePrice    decimal.Decimal `json:"purchasePrice"` // >= 0
	SellPrice        decimal.Decimal `json:"sellPrice"`     // >= 0; authoritative as supplied
	ProfitPercentage *decimal.Decimal `json:"profitPercentage,omitempty"`
	Supplier         string          `json:"supplier,omitempty"`
	IsManualPrice    bool            `json:"isManualPrice"`
	AuditFields
}

// LineTotal is SellPrice multiplied by Quantity. The sell price is trusted as
// supplied; price derivation from purchase price and profit percentage is an
// input-time concern handled by clients.
func (i DocumentItem) LineTotal() decimal.Decimal {
	return i.SellPrice.Mul(i.Quantity)
}
