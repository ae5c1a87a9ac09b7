package services

import (
	"context"

	"github.com/pardisoft/docflow_app/internal/core/domain"
	"github.com/pardisoft/docflow_app/internal/dto"
)

// DocumentReaderSvc defines read operations for document data
type DocumentReaderSvc interface {
	// GetDocumentByID retrieves a document by ID, including its items and approval history.
	GetDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)

	// ListDocuments retrieves a paginated, filtered list of documents.
	ListDocuments(ctx context.Context, params dto.ListDocumentsParams) ([]domain.Document, int64, error)
}

// DocumentWriterSvc defines write operations for document data
type DocumentWriterSvc interface {
	// CreateDocument creates a new document with its items. Types that require approval
	// start APPROVED with no pending record; TEMP_PROFORMA starts PENDING.
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error)

	// UpdateDocument updates a document's content. Editing an approved or rejected document
	// resets it to pending and deletes every document derived from it by conversion.
	UpdateDocument(ctx context.Context, documentID string, req dto.UpdateDocumentRequest, updaterUserID string) (*domain.Document, error)

	// DeleteDocument deletes a document together with every document derived from it.
	DeleteDocument(ctx context.Context, documentID string, deleterUserID string) error
}

// DocumentConverterSvc defines the document conversion operation
type DocumentConverterSvc interface {
	// ConvertDocument creates a new document of the next type in the conversion chain
	// from an approved source document. Converting a source that was already converted
	// replaces the earlier conversion and everything derived from it.
	ConvertDocument(ctx context.Context, documentID string, targetType domain.DocumentType, converterUserID string) (*domain.Document, error)
}

// DocumentSvcFacade combines all document-related service interfaces
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
	DocumentConverterSvc
}
