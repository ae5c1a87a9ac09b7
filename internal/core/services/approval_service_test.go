package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pardisoft/docflow_app/internal/apperrors"
	"github.com/pardisoft/docflow_app/internal/core/domain"
	portssvc "github.com/pardisoft/docflow_app/internal/core/ports/services"
	"github.com/pardisoft/docflow_app/internal/core/services"
)

// --- Mock ApprovalRepository ---
type MockApprovalRepository struct {
	mock.Mock
}

func (m *MockApprovalRepository) FindApprovalsByDocumentID(ctx context.Context, documentID string) ([]domain.Approval, error) {
	args := m.Called(ctx, documentID)
	var approvals []domain.Approval
	if args.Get(0) != nil {
		approvals = args.Get(0).([]domain.Approval)
	}
	return approvals, args.Error(1)
}

func (m *MockApprovalRepository) FindPendingApprovals(ctx context.Context) ([]domain.PendingApproval, error) {
	args := m.Called(ctx)
	var pending []domain.PendingApproval
	if args.Get(0) != nil {
		pending = args.Get(0).([]domain.PendingApproval)
	}
	return pending, args.Error(1)
}

func (m *MockApprovalRepository) DecideDocumentApprovals(ctx context.Context, documentID string, deciderUserID string, status domain.ApprovalStatus, comment string, decidedAt time.Time) (*domain.Document, error) {
	args := m.Called(ctx, documentID, deciderUserID, status, comment, decidedAt)
	var doc *domain.Document
	if args.Get(0) != nil {
		doc = args.Get(0).(*domain.Document)
	}
	return doc, args.Error(1)
}

// --- Test Suite ---
type ApprovalServiceTestSuite struct {
	suite.Suite
	mockApprovalRepo *MockApprovalRepository
	mockDocumentRepo *MockDocumentRepository
	service          portssvc.ApprovalSvcFacade
}

func (suite *ApprovalServiceTestSuite) SetupTest() {
	suite.mockApprovalRepo = new(MockApprovalRepository)
	suite.mockDocumentRepo = new(MockDocumentRepository)
	suite.service = services.NewApprovalService(suite.mockApprovalRepo, suite.mockDocumentRepo)
}

func pendingTempProforma(documentID string) *domain.Document {
	return &domain.Document{
		DocumentID:     documentID,
		DocumentNumber: "TMP-2026-000003",
		DocumentType:   domain.TempProforma,
		ApprovalStatus: domain.StatusPending,
	}
}

// --- ApproveDocument Tests ---

func (suite *ApprovalServiceTestSuite) TestApproveDocument_Success() {
	ctx := context.Background()
	documentID := uuid.NewString()
	deciderID := uuid.NewString()

	doc := pendingTempProforma(documentID)
	approved := *doc
	approved.ApprovalStatus = domain.StatusApproved

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, documentID).Return(doc, nil).Once()
	suite.mockApprovalRepo.On("DecideDocumentApprovals", ctx, documentID, deciderID, domain.StatusApproved, "looks good", mock.AnythingOfType("time.Time")).
		Return(&approved, nil).Once()

	result, err := suite.service.ApproveDocument(ctx, documentID, deciderID, "looks good")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, result.ApprovalStatus)
	suite.mockApprovalRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestApproveDocument_NotPending() {
	ctx := context.Background()
	documentID := uuid.NewString()

	doc := pendingTempProforma(documentID)
	doc.ApprovalStatus = domain.StatusApproved

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, documentID).Return(doc, nil).Once()

	result, err := suite.service.ApproveDocument(ctx, documentID, uuid.NewString(), "")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, services.ErrDocumentNotPending)
	suite.mockApprovalRepo.AssertNotCalled(suite.T(), "DecideDocumentApprovals")
}

func (suite *ApprovalServiceTestSuite) TestApproveDocument_NotFound() {
	ctx := context.Background()
	documentID := uuid.NewString()

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, documentID).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.ApproveDocument(ctx, documentID, uuid.NewString(), "")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- RejectDocument Tests ---

func (suite *ApprovalServiceTestSuite) TestRejectDocument_Success() {
	ctx := context.Background()
	documentID := uuid.NewString()
	deciderID := uuid.NewString()

	doc := pendingTempProforma(documentID)
	rejected := *doc
	rejected.ApprovalStatus = domain.StatusRejected

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, documentID).Return(doc, nil).Once()
	suite.mockApprovalRepo.On("DecideDocumentApprovals", ctx, documentID, deciderID, domain.StatusRejected, "prices outdated", mock.AnythingOfType("time.Time")).
		Return(&rejected, nil).Once()

	result, err := suite.service.RejectDocument(ctx, documentID, deciderID, "prices outdated")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusRejected, result.ApprovalStatus)
	suite.mockApprovalRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestRejectDocument_CommentRequired() {
	ctx := context.Background()
	documentID := uuid.NewString()

	result, err := suite.service.RejectDocument(ctx, documentID, uuid.NewString(), "   ")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, services.ErrRejectionCommentRequired)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockApprovalRepo.AssertNotCalled(suite.T(), "DecideDocumentApprovals")
}

// --- Queue and History Tests ---

func (suite *ApprovalServiceTestSuite) TestListPendingApprovals() {
	ctx := context.Background()

	pending := []domain.PendingApproval{{
		Approval: domain.Approval{ApprovalID: uuid.NewString(), Status: domain.StatusPending},
		Document: *pendingTempProforma(uuid.NewString()),
	}}

	suite.mockApprovalRepo.On("FindPendingApprovals", ctx).Return(pending, nil).Once()

	result, err := suite.service.ListPendingApprovals(ctx)

	suite.Require().NoError(err)
	suite.Len(result, 1)
	suite.mockApprovalRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestGetApprovalHistory_DocumentMissing() {
	ctx := context.Background()
	documentID := uuid.NewString()

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, documentID).Return(nil, apperrors.ErrNotFound).Once()

	history, err := suite.service.GetApprovalHistory(ctx, documentID)

	suite.Require().Error(err)
	suite.Nil(history)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockApprovalRepo.AssertNotCalled(suite.T(), "FindApprovalsByDocumentID")
}

func (suite *ApprovalServiceTestSuite) TestGetApprovalHistory_Success() {
	ctx := context.Background()
	documentID := uuid.NewString()

	doc := pendingTempProforma(documentID)
	history := []domain.Approval{
		{ApprovalID: uuid.NewString(), DocumentID: documentID, Status: domain.StatusRejected, Comment: "missing supplier"},
		{ApprovalID: uuid.NewString(), DocumentID: documentID, Status: domain.StatusPending},
	}

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, documentID).Return(doc, nil).Once()
	suite.mockApprovalRepo.On("FindApprovalsByDocumentID", ctx, documentID).Return(history, nil).Once()

	result, err := suite.service.GetApprovalHistory(ctx, documentID)

	suite.Require().NoError(err)
	suite.Len(result, 2)
	suite.mockApprovalRepo.AssertExpectations(suite.T())
}

func TestApprovalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}
