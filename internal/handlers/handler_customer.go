package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pardisoft/docflow_app/internal/apperrors"
	portssvc "github.com/pardisoft/docflow_app/internal/core/ports/services"
	"github.com/pardisoft/docflow_app/internal/dto"
	"github.com/pardisoft/docflow_app/internal/middleware"
)

// CustomerHandler handles customer management requests.
type CustomerHandler struct {
	customerService portssvc.CustomerSvcFacade
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(cs portssvc.CustomerSvcFacade) *CustomerHandler {
	return &CustomerHandler{customerService: cs}
}

// registerCustomerRoutes sets up the routes for customer management.
func registerCustomerRoutes(rg *gin.RouterGroup, customerService portssvc.CustomerSvcFacade) {
	h := NewCustomerHandler(customerService)

	customers := rg.Group("/customers")
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.GET("/:customerID", h.GetCustomerByID)
		customers.PUT("/:customerID", h.UpdateCustomer)
		customers.DELETE("/:customerID", h.DeleteCustomer)
	}
}

// CreateCustomer godoc
// @Summary Create a new customer
// @Description Creates a new customer record.
// @Tags customers
// @Accept json
// @Produce json
// @Param customer body dto.CreateCustomerRequest true "Customer details"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} ErrorResponse "Invalid input data"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create customer", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create customer"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToCustomerResponse(customer))
}

// GetCustomerByID godoc
// @Summary Get a customer by ID
// @Description Retrieves a single customer record.
// @Tags customers
// @Produce json
// @Param customerID path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Customer not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /customers/{customerID} [get]
func (h *CustomerHandler) GetCustomerByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")

	customer, err := h.customerService.GetCustomerByID(c.Request.Context(), customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Customer not found"})
			return
		}
		logger.Error("Failed to get customer", slog.String("error", err.Error()), slog.String("customer_id", customerID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve customer"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// ListCustomers godoc
// @Summary List customers
// @Description Retrieves a paginated list of customers.
// @Tags customers
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset (default 0)"
// @Success 200 {object} dto.ListCustomersResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListCustomersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	customers, err := h.customerService.ListCustomers(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list customers", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list customers"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListCustomersResponse(customers))
}

// UpdateCustomer godoc
// @Summary Update a customer
// @Description Updates an existing customer record.
// @Tags customers
// @Accept json
// @Produce json
// @Param customerID path string true "Customer ID"
// @Param customer body dto.UpdateCustomerRequest true "Fields to update"
// @Success 200 {object} dto.CustomerResponse
// @Failure 400 {object} ErrorResponse "Invalid input data"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Customer not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /customers/{customerID} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), customerID, req, updaterUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Customer not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to update customer", slog.String("error", err.Error()), slog.String("customer_id", customerID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update customer"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// DeleteCustomer godoc
// @Summary Delete a customer
// @Description Removes a customer. Customers referenced by documents cannot be deleted.
// @Tags customers
// @Produce json
// @Param customerID path string true "Customer ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Customer not found"
// @Failure 409 {object} ErrorResponse "Customer still referenced by documents"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /customers/{customerID} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")

	if err := h.customerService.DeleteCustomer(c.Request.Context(), customerID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Customer not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Customer is still referenced by documents"})
		default:
			logger.Error("Failed to delete customer", slog.String("error", err.Error()), slog.String("customer_id", customerID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete customer"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
