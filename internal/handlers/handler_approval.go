package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pardisoft/docflow_app/internal/apperrors"
	"github.com/pardisoft/docflow_app/internal/core/domain"
	portssvc "github.com/pardisoft/docflow_app/internal/core/ports/services"
	"github.com/pardisoft/docflow_app/internal/core/services"
	"github.com/pardisoft/docflow_app/internal/dto"
	"github.com/pardisoft/docflow_app/internal/middleware"
)

// ApprovalHandler handles approval queue and decision requests.
type ApprovalHandler struct {
	approvalService portssvc.ApprovalSvcFacade
}

// NewApprovalHandler creates a new ApprovalHandler.
func NewApprovalHandler(as portssvc.ApprovalSvcFacade) *ApprovalHandler {
	return &ApprovalHandler{approvalService: as}
}

// registerApprovalRoutes sets up the approval queue and decision routes.
// All of them require the approver capability.
func registerApprovalRoutes(rg *gin.RouterGroup, approvalService portssvc.ApprovalSvcFacade, userService portssvc.UserSvcFacade) {
	h := NewApprovalHandler(approvalService)
	approverOnly := middleware.RequireApprover(userService)

	approvals := rg.Group("/approvals")
	{
		approvals.GET("/pending", approverOnly, h.ListPendingApprovals)
	}

	documents := rg.Group("/documents")
	{
		documents.POST("/:documentID/approve", approverOnly, h.ApproveDocument)
		documents.POST("/:documentID/reject", approverOnly, h.RejectDocument)
	}
}

// ListPendingApprovals godoc
// @Summary List pending approvals
// @Description Retrieves the queue of temp proformas awaiting a decision, oldest first, with document, customer and requester details.
// @Tags approvals
// @Produce json
// @Success 200 {object} dto.ListPendingApprovalsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Approver capability required"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /approvals/pending [get]
func (h *ApprovalHandler) ListPendingApprovals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	pending, err := h.approvalService.ListPendingApprovals(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list pending approvals", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list pending approvals"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPendingApprovalsResponse(pending))
}

// ApproveDocument godoc
// @Summary Approve a pending document
// @Description Marks a pending document as approved, making it eligible for conversion.
// @Tags approvals
// @Accept json
// @Produce json
// @Param documentID path string true "Document ID"
// @Param decision body dto.DecideApprovalRequest false "Optional comment"
// @Success 200 {object} dto.DocumentResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Approver capability required"
// @Failure 404 {object} ErrorResponse "Document not found"
// @Failure 409 {object} ErrorResponse "Document is not pending"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /documents/{documentID}/approve [post]
func (h *ApprovalHandler) ApproveDocument(c *gin.Context) {
	h.decide(c, h.approvalService.ApproveDocument)
}

// RejectDocument godoc
// @Summary Reject a pending document
// @Description Marks a pending document as rejected. A non-empty comment explaining the rejection is required.
// @Tags approvals
// @Accept json
// @Produce json
// @Param documentID path string true "Document ID"
// @Param decision body dto.DecideApprovalRequest true "Rejection comment"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse "Missing rejection comment"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Approver capability required"
// @Failure 404 {object} ErrorResponse "Document not found"
// @Failure 409 {object} ErrorResponse "Document is not pending"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /documents/{documentID}/reject [post]
func (h *ApprovalHandler) RejectDocument(c *gin.Context) {
	h.decide(c, h.approvalService.RejectDocument)
}

func (h *ApprovalHandler) decide(c *gin.Context, decideFn func(ctx context.Context, documentID, deciderUserID, comment string) (*domain.Document, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	deciderUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	var req dto.DecideApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	doc, err := decideFn(c.Request.Context(), documentID, deciderUserID, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Document not found"})
		case errors.Is(err, services.ErrRejectionCommentRequired):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A rejection comment is required"})
		case errors.Is(err, services.ErrDocumentNotPending):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Document is not pending approval"})
		default:
			logger.Error("Failed to record approval decision", slog.String("error", err.Error()), slog.String("document_id", documentID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to record decision"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}
