package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pardisoft/docflow_app/internal/apperrors"
	"github.com/pardisoft/docflow_app/internal/core/domain"
	portsrepo "github.com/pardisoft/docflow_app/internal/core/ports/repositories"
	portssvc "github.com/pardisoft/docflow_app/internal/core/ports/services"
	"github.com/pardisoft/docflow_app/internal/core/services"
	"github.com/pardisoft/docflow_app/internal/dto"
)

// --- Mock DocumentRepository ---
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID)
	var doc *domain.Document
	if args.Get(0) != nil {
		doc = args.Get(0).(*domain.Document)
	}
	return doc, args.Error(1)
}

func (m *MockDocumentRepository) ListDocuments(ctx context.Context, filter portsrepo.DocumentListFilter) ([]domain.Document, int64, error) {
	args := m.Called(ctx, filter)
	var docs []domain.Document
	if args.Get(0) != nil {
		docs = args.Get(0).([]domain.Document)
	}
	return docs, args.Get(1).(int64), args.Error(2)
}

func (m *MockDocumentRepository) FindChildIDs(ctx context.Context, documentID string) ([]string, error) {
	args := m.Called(ctx, documentID)
	var ids []string
	if args.Get(0) != nil {
		ids = args.Get(0).([]string)
	}
	return ids, args.Error(1)
}

func (m *MockDocumentRepository) SaveDocument(ctx context.Context, document domain.Document, items []domain.DocumentItem, pendingApproval *domain.Approval) (string, error) {
	args := m.Called(ctx, document, items, pendingApproval)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentRepository) UpdateDocumentWithItems(ctx context.Context, document domain.Document, items []domain.DocumentItem, cascadeDeleteIDs []string, resetApproval *domain.Approval) error {
	args := m.Called(ctx, document, items, cascadeDeleteIDs, resetApproval)
	return args.Error(0)
}

func (m *MockDocumentRepository) SaveConversion(ctx context.Context, document domain.Document, items []domain.DocumentItem, replaceIDs []string) (string, error) {
	args := m.Called(ctx, document, items, replaceIDs)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentRepository) DeleteDocuments(ctx context.Context, documentIDs []string) error {
	args := m.Called(ctx, documentIDs)
	return args.Error(0)
}

// --- Mock CustomerRepository ---
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	var customer *domain.Customer
	if args.Get(0) != nil {
		customer = args.Get(0).(*domain.Customer)
	}
	return customer, args.Error(1)
}

func (m *MockCustomerRepository) FindCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, error) {
	args := m.Called(ctx, limit, offset)
	var customers []domain.Customer
	if args.Get(0) != nil {
		customers = args.Get(0).([]domain.Customer)
	}
	return customers, args.Error(1)
}

func (m *MockCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) DeleteCustomer(ctx context.Context, customerID string) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

// --- Test Suite ---
type DocumentServiceTestSuite struct {
	suite.Suite
	mockDocumentRepo *MockDocumentRepository
	mockCustomerRepo *MockCustomerRepository
	service          portssvc.DocumentSvcFacade
}

func (suite *DocumentServiceTestSuite) SetupTest() {
	suite.mockDocumentRepo = new(MockDocumentRepository)
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.service = services.NewDocumentService(suite.mockDocumentRepo, suite.mockCustomerRepo)
}

func testCustomer(customerID string) *domain.Customer {
	return &domain.Customer{CustomerID: customerID, Name: "Acme Corp"}
}

func testItemRequest() dto.CreateDocumentItemRequest {
	return dto.CreateDocumentItemRequest{
		ProductName: "Steel beam",
		Quantity:    decimal.NewFromInt(4),
		SellPrice:   decimal.NewFromInt(250),
	}
}

// --- CreateDocument Tests ---

func (suite *DocumentServiceTestSuite) TestCreateDocument_TempProformaStartsPending() {
	ctx := context.Background()
	customerID := uuid.NewString()
	creatorID := uuid.NewString()

	req := dto.CreateDocumentRequest{
		DocumentType: domain.TempProforma,
		CustomerID:   customerID,
		Items:        []dto.CreateDocumentItemRequest{testItemRequest()},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customerID).Return(testCustomer(customerID), nil).Once()
	suite.mockDocumentRepo.On("SaveDocument", ctx,
		mock.MatchedBy(func(doc domain.Document) bool {
			return doc.DocumentType == domain.TempProforma && doc.ApprovalStatus == domain.StatusPending
		}),
		mock.AnythingOfType("[]domain.DocumentItem"),
		mock.MatchedBy(func(approval *domain.Approval) bool {
			return approval != nil && approval.Status == domain.StatusPending && approval.UserID == creatorID
		}),
	).Return("TMP-2026-000001", nil).Once()

	doc, err := suite.service.CreateDocument(ctx, req, creatorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(doc)
	suite.Equal("TMP-2026-000001", doc.DocumentNumber)
	suite.Equal(domain.StatusPending, doc.ApprovalStatus)
	suite.True(decimal.NewFromInt(1000).Equal(doc.TotalAmount))
	suite.True(decimal.NewFromInt(1000).Equal(doc.FinalAmount))
	suite.Len(doc.Items, 1)
	suite.Equal(1, doc.Items[0].Position)
	suite.mockDocumentRepo.AssertExpectations(suite.T())
	suite.mockCustomerRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_InvoiceBornApproved() {
	ctx := context.Background()
	customerID := uuid.NewString()

	req := dto.CreateDocumentRequest{
		DocumentType:   domain.Invoice,
		CustomerID:     customerID,
		DiscountAmount: decimal.NewFromInt(100),
		Items:          []dto.CreateDocumentItemRequest{testItemRequest()},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customerID).Return(testCustomer(customerID), nil).Once()
	suite.mockDocumentRepo.On("SaveDocument", ctx,
		mock.MatchedBy(func(doc domain.Document) bool {
			return doc.ApprovalStatus == domain.StatusApproved
		}),
		mock.AnythingOfType("[]domain.DocumentItem"),
		(*domain.Approval)(nil),
	).Return("INV-2026-000001", nil).Once()

	doc, err := suite.service.CreateDocument(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, doc.ApprovalStatus)
	suite.True(decimal.NewFromInt(900).Equal(doc.FinalAmount))
	suite.mockDocumentRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_CustomerMissing() {
	ctx := context.Background()
	customerID := uuid.NewString()

	req := dto.CreateDocumentRequest{
		DocumentType: domain.TempProforma,
		CustomerID:   customerID,
		Items:        []dto.CreateDocumentItemRequest{testItemRequest()},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customerID).Return(nil, apperrors.ErrNotFound).Once()

	doc, err := suite.service.CreateDocument(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, services.ErrCustomerNotFound)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "SaveDocument")
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_ZeroQuantityRejected() {
	ctx := context.Background()
	customerID := uuid.NewString()

	item := testItemRequest()
	item.Quantity = decimal.Zero
	req := dto.CreateDocumentRequest{
		DocumentType: domain.TempProforma,
		CustomerID:   customerID,
		Items:        []dto.CreateDocumentItemRequest{item},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customerID).Return(testCustomer(customerID), nil).Once()

	doc, err := suite.service.CreateDocument(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "SaveDocument")
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_DiscountExceedsTotal() {
	ctx := context.Background()
	customerID := uuid.NewString()

	req := dto.CreateDocumentRequest{
		DocumentType:   domain.TempProforma,
		CustomerID:     customerID,
		DiscountAmount: decimal.NewFromInt(5000),
		Items:          []dto.CreateDocumentItemRequest{testItemRequest()},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customerID).Return(testCustomer(customerID), nil).Once()

	doc, err := suite.service.CreateDocument(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_RetriesOnNumberConflict() {
	ctx := context.Background()
	customerID := uuid.NewString()

	req := dto.CreateDocumentRequest{
		DocumentType: domain.TempProforma,
		CustomerID:   customerID,
		Items:        []dto.CreateDocumentItemRequest{testItemRequest()},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customerID).Return(testCustomer(customerID), nil).Once()
	suite.mockDocumentRepo.On("SaveDocument", ctx, mock.AnythingOfType("domain.Document"), mock.AnythingOfType("[]domain.DocumentItem"), mock.AnythingOfType("*domain.Approval")).
		Return("", apperrors.NewConflictError("document number already exists")).Once()
	suite.mockDocumentRepo.On("SaveDocument", ctx, mock.AnythingOfType("domain.Document"), mock.AnythingOfType("[]domain.DocumentItem"), mock.AnythingOfType("*domain.Approval")).
		Return("TMP-2026-000002", nil).Once()

	doc, err := suite.service.CreateDocument(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal("TMP-2026-000002", doc.DocumentNumber)
	suite.mockDocumentRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_GivesUpAfterRepeatedConflicts() {
	ctx := context.Background()
	customerID := uuid.NewString()

	req := dto.CreateDocumentRequest{
		DocumentType: domain.TempProforma,
		CustomerID:   customerID,
		Items:        []dto.CreateDocumentItemRequest{testItemRequest()},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customerID).Return(testCustomer(customerID), nil).Once()
	suite.mockDocumentRepo.On("SaveDocument", ctx, mock.AnythingOfType("domain.Document"), mock.AnythingOfType("[]domain.DocumentItem"), mock.AnythingOfType("*domain.Approval")).
		Return("", apperrors.NewConflictError("document number already exists")).Times(3)

	doc, err := suite.service.CreateDocument(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, services.ErrNumberAllocationRace)
	suite.mockDocumentRepo.AssertExpectations(suite.T())
}

// --- UpdateDocument Tests ---

func approvedTempProforma(documentID, customerID string) *domain.Document {
	return &domain.Document{
		DocumentID:     documentID,
		DocumentNumber: "TMP-2026-000007",
		DocumentType:   domain.TempProforma,
		ApprovalStatus: domain.StatusApproved,
		CustomerID:     customerID,
		TotalAmount:    decimal.NewFromInt(1000),
		FinalAmount:    decimal.NewFromInt(1000),
		Items: []domain.DocumentItem{{
			ItemID:     uuid.NewString(),
			DocumentID: documentID,
			Position:   1,
			Quantity:   decimal.NewFromInt(4),
			SellPrice:  decimal.NewFromInt(250),
		}},
	}
}

func (suite *DocumentServiceTestSuite) TestUpdateDocument_PlainEditRecomputesTotals() {
	ctx := context.Background()
	documentID := uuid.NewString()
	customerID := uuid.NewString()

	doc := approvedTempProforma(documentID, customerID)
	doc.ApprovalStatus = domain.StatusPending // pending drafts are edited freely

	newDiscount := decimal.NewFromInt(200)
	req := dto.UpdateDocumentRequest{DiscountAmount: &newDiscount}

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, documentID).Return(doc, nil).Once()
	suite.mockDocumentRepo.On("UpdateDocumentWithItems", ctx,
		mock.MatchedBy(func(updated domain.Document) bool {
			return updated.FinalAmount.Equal(decimal.NewFromInt(800)) && updated.ApprovalStatus == domain.StatusPending
		}),
		mock.AnythingOfType("[]domain.DocumentItem"),
		[]string(nil),
		(*domain.Approval)(nil),
	).Return(nil).Once()

	updated, err := suite.service.UpdateDocument(ctx, documentID, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(800).Equal(updated.FinalAmount))
	suite.mockDocumentRepo.AssertExpectations(suite.T())
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "FindChildIDs")
}

func (suite *DocumentServiceTestSuite) TestUpdateDocument_EditingApprovedDraftCascades() {
	ctx := context.Background()
	documentID := uuid.NewString()
	customerID := uuid.NewString()
	proformaID := uuid.NewString()
	invoiceID := uuid.NewString()

	doc := approvedTempProforma(documentID, customerID)
	updaterID := uuid.NewString()

	notes := "revised offer"
	req := dto.UpdateDocumentRequest{Notes: &notes}

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, documentID).Return(doc, nil).Once()
	// temp proforma -> proforma -> invoice chain below the edited draft
	suite.mockDocumentRepo.On("FindChildIDs", ctx, documentID).Return([]string{proformaID}, nil).Once()
	suite.mockDocumentRepo.On("FindChildIDs", ctx, proformaID).Return([]string{invoiceID}, nil).Once()
	suite.mockDocumentRepo.On("FindChildIDs", ctx, invoiceID).Return([]string{}, nil).Once()
	suite.mockDocumentRepo.On("UpdateDocumentWithItems", ctx,
		mock.MatchedBy(func(updated domain.Document) bool {
			return updated.ApprovalStatus == domain.StatusPending && updated.Notes == notes
		}),
		mock.AnythingOfType("[]domain.DocumentItem"),
		[]string{invoiceID, proformaID}, // deepest first
		mock.MatchedBy(func(approval *domain.Approval) bool {
			return approval != nil && approval.Status == domain.StatusPending &&
				approval.UserID == updaterID && approval.Comment == "edited, needs re-approval"
		}),
	).Return(nil).Once()

	updated, err := suite.service.UpdateDocument(ctx, documentID, req, updaterID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, updated.ApprovalStatus)
	suite.mockDocumentRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestUpdateDocument_ApprovedInvoiceDoesNotCascade() {
	ctx := context.Background()
	documentID := uuid.NewString()

	doc := approvedTempProforma(documentID, uuid.NewString())
	doc.DocumentType = domain.Invoice

	notes := "paid in two installments"
	req := dto.UpdateDocumentRequest{Notes: &notes}

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, documentID).Return(doc, nil).Once()
	suite.mockDocumentRepo.On("UpdateDocumentWithItems", ctx,
		mock.MatchedBy(func(updated domain.Document) bool {
			return updated.ApprovalStatus == domain.StatusApproved
		}),
		mock.AnythingOfType("[]domain.DocumentItem"),
		[]string(nil),
		(*domain.Approval)(nil),
	).Return(nil).Once()

	_, err := suite.service.UpdateDocument(ctx, documentID, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "FindChildIDs")
}

func (suite *DocumentServiceTestSuite) TestUpdateDocument_NotFound() {
	ctx := context.Background()
	documentID := uuid.NewString()

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, documentID).Return(nil, apperrors.ErrNotFound).Once()

	doc, err := suite.service.UpdateDocument(ctx, documentID, dto.UpdateDocumentRequest{}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- DeleteDocument Tests ---

func (suite *DocumentServiceTestSuite) TestDeleteDocument_RemovesDescendantsFirst() {
	ctx := context.Background()
	documentID := uuid.NewString()
	childID := uuid.NewString()

	doc := approvedTempProforma(documentID, uuid.NewString())

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, documentID).Return(doc, nil).Once()
	suite.mockDocumentRepo.On("FindChildIDs", ctx, documentID).Return([]string{childID}, nil).Once()
	suite.mockDocumentRepo.On("FindChildIDs", ctx, childID).Return([]string{}, nil).Once()
	suite.mockDocumentRepo.On("DeleteDocuments", ctx, []string{childID, documentID}).Return(nil).Once()

	err := suite.service.DeleteDocument(ctx, documentID, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockDocumentRepo.AssertExpectations(suite.T())
}

// --- ConvertDocument Tests ---

func (suite *DocumentServiceTestSuite) TestConvertDocument_CopiesContentWithFreshIdentities() {
	ctx := context.Background()
	documentID := uuid.NewString()
	converterID := uuid.NewString()

	source := approvedTempProforma(documentID, uuid.NewString())
	sourceItemID := source.Items[0].ItemID

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, documentID).Return(source, nil).Once()
	suite.mockDocumentRepo.On("FindChildIDs", ctx, documentID).Return([]string{}, nil).Once()
	suite.mockDocumentRepo.On("SaveConversion", ctx,
		mock.MatchedBy(func(doc domain.Document) bool {
			return doc.DocumentType == domain.Proforma &&
				doc.ApprovalStatus == domain.StatusApproved &&
				doc.ConvertedFromID != nil && *doc.ConvertedFromID == documentID &&
				doc.CustomerID == source.CustomerID &&
				doc.TotalAmount.Equal(source.TotalAmount) &&
				doc.IssueDate == nil && doc.Attachment == ""
		}),
		mock.MatchedBy(func(items []domain.DocumentItem) bool {
			return len(items) == 1 && items[0].ItemID != sourceItemID
		}),
		[]string(nil),
	).Return("PRF-2026-000001", nil).Once()

	converted, err := suite.service.ConvertDocument(ctx, documentID, domain.Proforma, converterID)

	suite.Require().NoError(err)
	suite.Equal("PRF-2026-000001", converted.DocumentNumber)
	suite.Equal(domain.Proforma, converted.DocumentType)
	suite.mockDocumentRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestConvertDocument_ReplacesPriorConversion() {
	ctx := context.Background()
	documentID := uuid.NewString()
	oldProformaID := uuid.NewString()
	oldInvoiceID := uuid.NewString()

	source := approvedTempProforma(documentID, uuid.NewString())

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, documentID).Return(source, nil).Once()
	suite.mockDocumentRepo.On("FindChildIDs", ctx, documentID).Return([]string{oldProformaID}, nil).Once()
	suite.mockDocumentRepo.On("FindChildIDs", ctx, oldProformaID).Return([]string{oldInvoiceID}, nil).Once()
	suite.mockDocumentRepo.On("FindChildIDs", ctx, oldInvoiceID).Return([]string{}, nil).Once()
	suite.mockDocumentRepo.On("SaveConversion", ctx,
		mock.AnythingOfType("domain.Document"),
		mock.AnythingOfType("[]domain.DocumentItem"),
		[]string{oldInvoiceID, oldProformaID},
	).Return("PRF-2026-000002", nil).Once()

	_, err := suite.service.ConvertDocument(ctx, documentID, domain.Proforma, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockDocumentRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestConvertDocument_InvalidTarget() {
	ctx := context.Background()
	documentID := uuid.NewString()

	source := approvedTempProforma(documentID, uuid.NewString())

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, documentID).Return(source, nil).Once()

	converted, err := suite.service.ConvertDocument(ctx, documentID, domain.Invoice, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(converted)
	suite.ErrorIs(err, services.ErrInvalidConversion)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "SaveConversion")
}

func (suite *DocumentServiceTestSuite) TestConvertDocument_SourceNotApproved() {
	ctx := context.Background()
	documentID := uuid.NewString()

	source := approvedTempProforma(documentID, uuid.NewString())
	source.ApprovalStatus = domain.StatusPending

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, documentID).Return(source, nil).Once()

	converted, err := suite.service.ConvertDocument(ctx, documentID, domain.Proforma, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(converted)
	suite.ErrorIs(err, services.ErrSourceNotApproved)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "SaveConversion")
}

// --- ListDocuments Tests ---

func (suite *DocumentServiceTestSuite) TestListDocuments_ClampsLimit() {
	ctx := context.Background()

	suite.mockDocumentRepo.On("ListDocuments", ctx, portsrepo.DocumentListFilter{Limit: 100}).
		Return([]domain.Document{}, int64(0), nil).Once()

	_, _, err := suite.service.ListDocuments(ctx, dto.ListDocumentsParams{Limit: 5000})

	suite.Require().NoError(err)
	suite.mockDocumentRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestListDocuments_DateRangeCoversWholeEndDay() {
	ctx := context.Background()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	suite.mockDocumentRepo.On("ListDocuments", ctx, mock.MatchedBy(func(f portsrepo.DocumentListFilter) bool {
		return f.CreatedFrom.Equal(from) && f.CreatedTo.Equal(to.Add(24*time.Hour))
	})).Return([]domain.Document{}, int64(0), nil).Once()

	_, _, err := suite.service.ListDocuments(ctx, dto.ListDocumentsParams{CreatedFrom: &from, CreatedTo: &to})

	suite.Require().NoError(err)
	suite.mockDocumentRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestListDocuments_RejectsUnknownType() {
	ctx := context.Background()

	_, _, err := suite.service.ListDocuments(ctx, dto.ListDocumentsParams{DocumentType: "MEMO"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "ListDocuments")
}

// --- Lifecycle Tests ---

func (suite *DocumentServiceTestSuite) TestDocumentLifecycle_DraftToInvoiceChain() {
	ctx := context.Background()
	customerID := uuid.NewString()
	creatorID := uuid.NewString()
	approverID := uuid.NewString()

	mockApprovalRepo := new(MockApprovalRepository)
	approvalService := services.NewApprovalService(mockApprovalRepo, suite.mockDocumentRepo)

	total := decimal.NewFromInt(10_000_000)

	req := dto.CreateDocumentRequest{
		DocumentType: domain.TempProforma,
		CustomerID:   customerID,
		Items: []dto.CreateDocumentItemRequest{{
			ProductName: "Turbine assembly",
			Quantity:    decimal.NewFromInt(4),
			SellPrice:   decimal.NewFromInt(2_500_000),
		}},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customerID).Return(testCustomer(customerID), nil).Once()
	suite.mockDocumentRepo.On("SaveDocument", ctx,
		mock.AnythingOfType("domain.Document"),
		mock.AnythingOfType("[]domain.DocumentItem"),
		mock.AnythingOfType("*domain.Approval"),
	).Return("TMP-2026-000001", nil).Once()

	draft, err := suite.service.CreateDocument(ctx, req, creatorID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, draft.ApprovalStatus)
	suite.True(total.Equal(draft.TotalAmount))
	suite.True(total.Equal(draft.FinalAmount))

	approved := *draft
	approved.ApprovalStatus = domain.StatusApproved
	suite.mockDocumentRepo.On("FindDocumentByID", ctx, draft.DocumentID).Return(draft, nil).Once()
	mockApprovalRepo.On("DecideDocumentApprovals", ctx, draft.DocumentID, approverID, domain.StatusApproved, "ready to send", mock.AnythingOfType("time.Time")).
		Return(&approved, nil).Once()

	decided, err := approvalService.ApproveDocument(ctx, draft.DocumentID, approverID, "ready to send")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, decided.ApprovalStatus)

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, draft.DocumentID).Return(&approved, nil).Once()
	suite.mockDocumentRepo.On("FindChildIDs", ctx, draft.DocumentID).Return([]string{}, nil).Once()
	suite.mockDocumentRepo.On("SaveConversion", ctx,
		mock.AnythingOfType("domain.Document"),
		mock.AnythingOfType("[]domain.DocumentItem"),
		[]string(nil),
	).Return("PRF-2026-000001", nil).Once()

	proforma, err := suite.service.ConvertDocument(ctx, draft.DocumentID, domain.Proforma, approverID)
	suite.Require().NoError(err)
	suite.Equal("PRF-2026-000001", proforma.DocumentNumber)
	suite.Equal(domain.StatusApproved, proforma.ApprovalStatus)
	suite.Require().NotNil(proforma.ConvertedFromID)
	suite.Equal(draft.DocumentID, *proforma.ConvertedFromID)
	suite.True(total.Equal(proforma.TotalAmount))
	suite.True(total.Equal(proforma.FinalAmount))

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, proforma.DocumentID).Return(proforma, nil).Once()
	suite.mockDocumentRepo.On("FindChildIDs", ctx, proforma.DocumentID).Return([]string{}, nil).Once()
	suite.mockDocumentRepo.On("SaveConversion", ctx,
		mock.AnythingOfType("domain.Document"),
		mock.AnythingOfType("[]domain.DocumentItem"),
		[]string(nil),
	).Return("INV-2026-000001", nil).Once()

	invoice, err := suite.service.ConvertDocument(ctx, proforma.DocumentID, domain.Invoice, approverID)
	suite.Require().NoError(err)
	suite.Equal("INV-2026-000001", invoice.DocumentNumber)
	suite.Equal(domain.Invoice, invoice.DocumentType)
	suite.Equal(domain.StatusApproved, invoice.ApprovalStatus)
	suite.Require().NotNil(invoice.ConvertedFromID)
	suite.Equal(proforma.DocumentID, *invoice.ConvertedFromID)
	suite.True(total.Equal(invoice.TotalAmount))
	suite.True(total.Equal(invoice.FinalAmount))

	suite.mockDocumentRepo.AssertExpectations(suite.T())
	mockApprovalRepo.AssertExpectations(suite.T())
}

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}
