package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pardisoft/docflow_app/internal/apperrors"
	"github.com/pardisoft/docflow_app/internal/core/domain"
	portssvc "github.com/pardisoft/docflow_app/internal/core/ports/services"
	"github.com/pardisoft/docflow_app/internal/core/services"
	"github.com/pardisoft/docflow_app/internal/dto"
	"github.com/pardisoft/docflow_app/internal/handlers"
	"github.com/pardisoft/docflow_app/internal/middleware"
)

// --- Mock DocumentService ---
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
func (m *MockDocumentService) GetDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
func (m *MockDocumentService) ListDocuments(ctx context.Context, params dto.ListDocumentsParams) ([]domain.Document, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Document), args.Get(1).(int64), args.Error(2)
}
func (m *MockDocumentService) UpdateDocument(ctx context.Context, documentID string, req dto.UpdateDocumentRequest, updaterUserID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID, req, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
func (m *MockDocumentService) DeleteDocument(ctx context.Context, documentID string, deleterUserID string) error {
	args := m.Called(ctx, documentID, deleterUserID)
	return args.Error(0)
}
func (m *MockDocumentService) ConvertDocument(ctx context.Context, documentID string, targetType domain.DocumentType, converterUserID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID, targetType, converterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

var _ portssvc.DocumentSvcFacade = (*MockDocumentService)(nil)

// --- Mock ApprovalService ---
type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) ListPendingApprovals(ctx context.Context) ([]domain.PendingApproval, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingApproval), args.Error(1)
}
func (m *MockApprovalService) GetApprovalHistory(ctx context.Context, documentID string) ([]domain.Approval, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Approval), args.Error(1)
}
func (m *MockApprovalService) ApproveDocument(ctx context.Context, documentID string, deciderUserID string, comment string) (*domain.Document, error) {
	args := m.Called(ctx, documentID, deciderUserID, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
func (m *MockApprovalService) RejectDocument(ctx context.Context, documentID string, deciderUserID string, comment string) (*domain.Document, error) {
	args := m.Called(ctx, documentID, deciderUserID, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

var _ portssvc.ApprovalSvcFacade = (*MockApprovalService)(nil)

// --- Test Suite ---
type DocumentHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockDocumentService *MockDocumentService
	mockApprovalService *MockApprovalService
	jwtSecret           string
}

func (suite *DocumentHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "docflow-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tsignedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return tsignedString
}

func (suite *DocumentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockDocumentService = new(MockDocumentService)
	suite.mockApprovalService = new(MockApprovalService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterDocumentRoutes(v1, suite.mockDocumentService, suite.mockApprovalService)
}

func (suite *DocumentHandlerTestSuite) doRequest(method, url string, body any, userID string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *DocumentHandlerTestSuite) TestCreateDocument_Success() {
	userID := uuid.NewString()
	customerID := uuid.NewString()

	reqBody := dto.CreateDocumentRequest{
		DocumentType: domain.TempProforma,
		CustomerID:   customerID,
		Items: []dto.CreateDocumentItemRequest{{
			ProductName: "Steel beam",
			Quantity:    decimal.NewFromInt(4),
			SellPrice:   decimal.NewFromInt(250),
		}},
	}
	created := &domain.Document{
		DocumentID:     uuid.NewString(),
		DocumentNumber: "TMP-2026-000001",
		DocumentType:   domain.TempProforma,
		ApprovalStatus: domain.StatusPending,
		CustomerID:     customerID,
		TotalAmount:    decimal.NewFromInt(1000),
		FinalAmount:    decimal.NewFromInt(1000),
	}

	suite.mockDocumentService.On("CreateDocument",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(req dto.CreateDocumentRequest) bool {
			return req.DocumentType == domain.TempProforma && req.CustomerID == customerID
		}),
		userID,
	).Return(created, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/documents", reqBody, userID)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.DocumentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("TMP-2026-000001", resp.DocumentNumber)
	suite.Equal(domain.StatusPending, resp.ApprovalStatus)
	suite.mockDocumentService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestCreateDocument_NumberConflictReturns409() {
	userID := uuid.NewString()
	customerID := uuid.NewString()

	reqBody := dto.CreateDocumentRequest{
		DocumentType: domain.Invoice,
		CustomerID:   customerID,
		Items: []dto.CreateDocumentItemRequest{{
			ProductName: "Steel beam",
			Quantity:    decimal.NewFromInt(4),
			SellPrice:   decimal.NewFromInt(250),
		}},
	}
	raceErr := fmt.Errorf("%w after 3 attempts: %w", services.ErrNumberAllocationRace, apperrors.ErrConflict)

	suite.mockDocumentService.On("CreateDocument",
		mock.AnythingOfType("*context.valueCtx"),
		mock.AnythingOfType("dto.CreateDocumentRequest"),
		userID,
	).Return(nil, raceErr).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/documents", reqBody, userID)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockDocumentService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestCreateDocument_MissingToken() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/documents", bytes.NewReader(nil))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockDocumentService.AssertNotCalled(suite.T(), "CreateDocument")
}

func (suite *DocumentHandlerTestSuite) TestCreateDocument_InvalidType() {
	userID := uuid.NewString()

	body := map[string]any{
		"documentType": "MEMO",
		"customerID":   uuid.NewString(),
	}

	w := suite.doRequest(http.MethodPost, "/api/v1/documents", body, userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockDocumentService.AssertNotCalled(suite.T(), "CreateDocument")
}

func (suite *DocumentHandlerTestSuite) TestGetDocumentByID_NotFound() {
	userID := uuid.NewString()
	documentID := uuid.NewString()

	suite.mockDocumentService.On("GetDocumentByID", mock.AnythingOfType("*context.valueCtx"), documentID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/documents/"+documentID, nil, userID)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockDocumentService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestListDocuments_PassesFilters() {
	userID := uuid.NewString()

	suite.mockDocumentService.On("ListDocuments",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(params dto.ListDocumentsParams) bool {
			return params.DocumentType == "INVOICE" && params.Limit == 5
		}),
	).Return([]domain.Document{}, int64(0), nil).Once()

	url := fmt.Sprintf("/api/v1/documents?documentType=INVOICE&limit=%d", 5)
	w := suite.doRequest(http.MethodGet, url, nil, userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListDocumentsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(0), resp.Total)
	suite.mockDocumentService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestConvertDocument_SourceNotApproved() {
	userID := uuid.NewString()
	documentID := uuid.NewString()

	suite.mockDocumentService.On("ConvertDocument",
		mock.AnythingOfType("*context.valueCtx"), documentID, domain.Proforma, userID,
	).Return(nil, services.ErrSourceNotApproved).Once()

	body := dto.ConvertDocumentRequest{TargetType: domain.Proforma}
	w := suite.doRequest(http.MethodPost, "/api/v1/documents/"+documentID+"/convert", body, userID)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockDocumentService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestConvertDocument_NumberConflictReturns409() {
	userID := uuid.NewString()
	documentID := uuid.NewString()

	raceErr := fmt.Errorf("%w after 3 attempts: %w", services.ErrNumberAllocationRace, apperrors.ErrConflict)
	suite.mockDocumentService.On("ConvertDocument",
		mock.AnythingOfType("*context.valueCtx"), documentID, domain.Invoice, userID,
	).Return(nil, raceErr).Once()

	body := dto.ConvertDocumentRequest{TargetType: domain.Invoice}
	w := suite.doRequest(http.MethodPost, "/api/v1/documents/"+documentID+"/convert", body, userID)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockDocumentService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestConvertDocument_InvalidTargetRejectedByBinding() {
	userID := uuid.NewString()
	documentID := uuid.NewString()

	body := map[string]any{"targetType": "TEMP_PROFORMA"}
	w := suite.doRequest(http.MethodPost, "/api/v1/documents/"+documentID+"/convert", body, userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockDocumentService.AssertNotCalled(suite.T(), "ConvertDocument")
}

func (suite *DocumentHandlerTestSuite) TestDeleteDocument_Success() {
	userID := uuid.NewString()
	documentID := uuid.NewString()

	suite.mockDocumentService.On("DeleteDocument", mock.AnythingOfType("*context.valueCtx"), documentID, userID).
		Return(nil).Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/documents/"+documentID, nil, userID)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockDocumentService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestGetApprovalHistory_Success() {
	userID := uuid.NewString()
	documentID := uuid.NewString()

	history := []domain.Approval{{
		ApprovalID: uuid.NewString(),
		DocumentID: documentID,
		Status:     domain.StatusPending,
		CreatedAt:  time.Now(),
	}}

	suite.mockApprovalService.On("GetApprovalHistory", mock.AnythingOfType("*context.valueCtx"), documentID).
		Return(history, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/documents/"+documentID+"/approvals", nil, userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.ApprovalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 1)
	suite.mockApprovalService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestDocumentHandler(t *testing.T) {
	suite.Run(t, new(DocumentHandlerTestSuite))
}
