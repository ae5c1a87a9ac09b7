package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pardisoft/docflow_app/internal/apperrors"
	portssvc "github.com/pardisoft/docflow_app/internal/core/ports/services"
	"github.com/pardisoft/docflow_app/internal/core/services"
	"github.com/pardisoft/docflow_app/internal/dto"
	"github.com/pardisoft/docflow_app/internal/middleware"
)

// DocumentHandler handles document CRUD and conversion requests.
type DocumentHandler struct {
	documentService portssvc.DocumentSvcFacade
	approvalService portssvc.ApprovalSvcFacade
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(ds portssvc.DocumentSvcFacade, as portssvc.ApprovalSvcFacade) *DocumentHandler {
	return &DocumentHandler{
		documentService: ds,
		approvalService: as,
	}
}

// RegisterDocumentRoutes sets up the routes for document management.
func RegisterDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade, approvalService portssvc.ApprovalSvcFacade) {
	registerCustomValidations()
	h := NewDocumentHandler(documentService, approvalService)

	documents := rg.Group("/documents")
	{
		documents.POST("", h.CreateDocument)
		documents.GET("", h.ListDocuments)
		documents.GET("/:documentID", h.GetDocumentByID)
		documents.PUT("/:documentID", h.UpdateDocument)
		documents.DELETE("/:documentID", h.DeleteDocument)
		documents.POST("/:documentID/convert", h.ConvertDocument)
		documents.GET("/:documentID/approvals", h.GetApprovalHistory)
	}
}

// CreateDocument godoc
// @Summary Create a new document
// @Description Creates a new document with its line items. Temp proformas start pending approval; other types are usable immediately.
// @Tags documents
// @Accept json
// @Produce json
// @Param document body dto.CreateDocumentRequest true "Document details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse "Invalid input data"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 409 {object} ErrorResponse "Document number allocation conflict"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /documents [post]
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	doc, err := h.documentService.CreateDocument(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Customer not found: " + req.CustomerID})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Document number allocation conflict, please retry"})
			return
		}
		logger.Error("Failed to create document", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create document"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// GetDocumentByID godoc
// @Summary Get a document by ID
// @Description Retrieves a document with its line items and customer details.
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Document not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /documents/{documentID} [get]
func (h *DocumentHandler) GetDocumentByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	doc, err := h.documentService.GetDocumentByID(c.Request.Context(), documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Document not found"})
			return
		}
		logger.Error("Failed to get document", slog.String("error", err.Error()), slog.String("document_id", documentID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve document"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// ListDocuments godoc
// @Summary List documents
// @Description Retrieves a paginated list of documents, filterable by type, approval status, customer and creation date range.
// @Tags documents
// @Produce json
// @Param documentType query string false "Filter by document type"
// @Param approvalStatus query string false "Filter by approval status"
// @Param customerID query string false "Filter by customer ID"
// @Param from query string false "Only documents created on or after this date (YYYY-MM-DD)"
// @Param to query string false "Only documents created up to and including this date (YYYY-MM-DD)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset (default 0)"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListDocumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	docs, total, err := h.documentService.ListDocuments(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to list documents", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list documents"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListDocumentsResponse(docs, total, params.Limit, params.Offset))
}

// UpdateDocument godoc
// @Summary Update a document
// @Description Updates a document's content. Editing an approved temp proforma resets it to pending and removes everything converted from it.
// @Tags documents
// @Accept json
// @Produce json
// @Param documentID path string true "Document ID"
// @Param document body dto.UpdateDocumentRequest true "Fields to update"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse "Invalid input data"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Document not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /documents/{documentID} [put]
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	doc, err := h.documentService.UpdateDocument(c.Request.Context(), documentID, req, updaterUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Document not found"})
		case errors.Is(err, services.ErrCustomerNotFound):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to update document", slog.String("error", err.Error()), slog.String("document_id", documentID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update document"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// DeleteDocument godoc
// @Summary Delete a document
// @Description Deletes a document together with every document converted from it.
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Document not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /documents/{documentID} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	deleterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	if err := h.documentService.DeleteDocument(c.Request.Context(), documentID, deleterUserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Document not found"})
			return
		}
		logger.Error("Failed to delete document", slog.String("error", err.Error()), slog.String("document_id", documentID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete document"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ConvertDocument godoc
// @Summary Convert a document
// @Description Creates the next document in the conversion chain (temp proforma to proforma, proforma to invoice, invoice to return invoice) from an approved source. Converting again replaces the earlier conversion.
// @Tags documents
// @Accept json
// @Produce json
// @Param documentID path string true "Source document ID"
// @Param conversion body dto.ConvertDocumentRequest true "Target document type"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse "Invalid conversion target"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Document not found"
// @Failure 409 {object} ErrorResponse "Source document not approved"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /documents/{documentID}/convert [post]
func (h *DocumentHandler) ConvertDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	converterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	var req dto.ConvertDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	doc, err := h.documentService.ConvertDocument(c.Request.Context(), documentID, req.TargetType, converterUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Document not found"})
		case errors.Is(err, services.ErrInvalidConversion):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrSourceNotApproved):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Document number allocation conflict, please retry"})
		default:
			logger.Error("Failed to convert document", slog.String("error", err.Error()), slog.String("document_id", documentID), slog.String("target_type", string(req.TargetType)))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to convert document"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// GetApprovalHistory godoc
// @Summary Get a document's approval history
// @Description Retrieves all approval records for a document, oldest first.
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 200 {array} dto.ApprovalResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Document not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /documents/{documentID}/approvals [get]
func (h *DocumentHandler) GetApprovalHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	approvals, err := h.approvalService.GetApprovalHistory(c.Request.Context(), documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Document not found"})
			return
		}
		logger.Error("Failed to get approval history", slog.String("error", err.Error()), slog.String("document_id", documentID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve approval history"})
		return
	}

	c.JSON(http.StatusOK, dto.ToApprovalResponses(approvals))
}
