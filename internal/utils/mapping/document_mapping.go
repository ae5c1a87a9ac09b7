package mapping

import (
	"github.com/pardisoft/docflow_app/internal/core/domain"
	"github.com/pardisoft/docflow_app/internal/models"
)

// ToModelDocument converts a domain Document to a model Document
func ToModelDocument(d domain.Document) models.Document {
	return models.Document{
		DocumentID:      d.DocumentID,
		DocumentNumber:  d.DocumentNumber,
		DocumentType:    models.DocumentType(d.DocumentType),
		ApprovalStatus:  models.ApprovalStatus(d.ApprovalStatus),
		CustomerID:      d.CustomerID,
		IssueDate:       d.IssueDate,
		DueDate:         d.DueDate,
		TotalAmount:     d.TotalAmount,
		DiscountAmount:  d.DiscountAmount,
		FinalAmount:     d.FinalAmount,
		Notes:           d.Notes,
		ProjectName:     d.ProjectName,
		Attachment:      d.Attachment,
		ConvertedFromID: d.ConvertedFromID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocument converts a model Document to a domain Document
func ToDomainDocument(m models.Document) domain.Document {
	return domain.Document{
		DocumentID:      m.DocumentID,
		DocumentNumber:  m.DocumentNumber,
		DocumentType:    domain.DocumentType(m.DocumentType),
		ApprovalStatus:  domain.ApprovalStatus(m.ApprovalStatus),
		CustomerID:      m.CustomerID,
		IssueDate:       m.IssueDate,
		DueDate:         m.DueDate,
		TotalAmount:     m.TotalAmount,
		DiscountAmount:  m.DiscountAmount,
		FinalAmount:     m.FinalAmount,
		Notes:           m.Notes,
		ProjectName:     m.ProjectName,
		Attachment:      m.Attachment,
		ConvertedFromID: m.ConvertedFromID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelDocumentItem converts a domain DocumentItem to a model DocumentItem
func ToModelDocumentItem(d domain.DocumentItem) models.DocumentItem {
	return models.DocumentItem{
		ItemID:           d.ItemID,
		DocumentID:       d.DocumentID,
		Position:         d.Position,
		ProductName:      d.ProductName,
		Description:      d.Description,
		Quantity:         d.Quantity,
		Unit:             d.Unit,
		PurchasePrice:    d.PurchasePrice,
		SellPrice:        d.SellPrice,
		ProfitPercentage: d.ProfitPercentage,
		Supplier:         d.Supplier,
		IsManualPrice:    d.IsManualPrice,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocumentItem converts a model DocumentItem to a domain DocumentItem
func ToDomainDocumentItem(m models.DocumentItem) domain.DocumentItem {
	return domain.DocumentItem{
		ItemID:           m.ItemID,
		DocumentID:       m.DocumentID,
		Position:         m.Position,
		ProductName:      m.ProductName,
		Description:      m.Description,
		Quantity:         m.Quantity,
		Unit:             m.Unit,
		PurchasePrice:    m.PurchasePrice,
		SellPrice:        m.SellPrice,
		ProfitPercentage: m.ProfitPercentage,
		Supplier:         m.Supplier,
		IsManualPrice:    m.IsManualPrice,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDocumentItemSlice converts a slice of model items to domain items
func ToDomainDocumentItemSlice(ms []models.DocumentItem) []domain.DocumentItem {
	items := make([]domain.DocumentItem, len(ms))
	for i, m := range ms {
		items[i] = ToDomainDocumentItem(m)
	}
	return items
}
