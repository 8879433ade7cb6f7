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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/voucherworks/voucher_ledger_app/internal/apperrors"
	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
	portssvc "github.com/voucherworks/voucher_ledger_app/internal/core/ports/services"
	"github.com/voucherworks/voucher_ledger_app/internal/core/services"
	"github.com/voucherworks/voucher_ledger_app/internal/dto"
	"github.com/voucherworks/voucher_ledger_app/internal/handlers"
	"github.com/voucherworks/voucher_ledger_app/internal/middleware"
	"github.com/voucherworks/voucher_ledger_app/internal/platform/config"
)

// --- Mock VoucherService ---
type MockVoucherService struct {
	mock.Mock
}

var _ portssvc.VoucherSvcFacade = (*MockVoucherService)(nil)

func (m *MockVoucherService) GetVoucherByID(ctx context.Context, bookID string, voucherID string) (*domain.Voucher, error) {
	args := m.Called(ctx, bookID, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) GetVoucherByNumber(ctx context.Context, bookID string, voucherNumber int64) (*domain.Voucher, error) {
	args := m.Called(ctx, bookID, voucherNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) GetVoucherDetail(ctx context.Context, bookID string, voucherID string) (*domain.Voucher, *domain.VoucherNetting, error) {
	args := m.Called(ctx, bookID, voucherID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Voucher), args.Get(1).(*domain.VoucherNetting), args.Error(2)
}

func (m *MockVoucherService) ListVouchers(ctx context.Context, bookID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	args := m.Called(ctx, bookID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListVouchersResponse), args.Error(1)
}

func (m *MockVoucherService) CreateVoucher(ctx context.Context, bookID string, req dto.SaveVoucherRequest, creatorUserID string) (*domain.Voucher, error) {
	args := m.Called(ctx, bookID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) UpdateVoucher(ctx context.Context, bookID string, voucherID string, req dto.SaveVoucherRequest, requestingUserID string) (*domain.Voucher, error) {
	args := m.Called(ctx, bookID, voucherID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) DeleteVoucher(ctx context.Context, bookID string, voucherID string, requestingUserID string) error {
	args := m.Called(ctx, bookID, voucherID, requestingUserID)
	return args.Error(0)
}

func (m *MockVoucherService) RestoreVoucher(ctx context.Context, bookID string, voucherID string, requestingUserID string) (*domain.Voucher, error) {
	args := m.Called(ctx, bookID, voucherID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) GetAccountByID(ctx context.Context, bookID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, bookID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByIDs(ctx context.Context, bookID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, bookID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, bookID string) ([]domain.Account, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountSetting(ctx context.Context, bookID string) (*domain.AccountSetting, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountSetting), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, bookID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, bookID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) SaveAccountSetting(ctx context.Context, bookID string, req dto.SaveAccountSettingRequest, userID string) (*domain.AccountSetting, error) {
	args := m.Called(ctx, bookID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountSetting), args.Error(1)
}

// --- Mock NettingService ---
type MockNettingService struct {
	mock.Mock
}

var _ portssvc.NettingSvcFacade = (*MockNettingService)(nil)

func (m *MockNettingService) ComputeNetting(ctx context.Context, bookID string, voucher *domain.Voucher) (*domain.VoucherNetting, error) {
	args := m.Called(ctx, bookID, voucher)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VoucherNetting), args.Error(1)
}

// --- Test Suite ---
type VoucherHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockVoucherService *MockVoucherService
	mockAccountService *MockAccountService
	mockNettingService *MockNettingService
	bookID             string
	userID             string
}

func (suite *VoucherHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(middleware.ActorMiddleware())

	suite.mockVoucherService = new(MockVoucherService)
	suite.mockAccountService = new(MockAccountService)
	suite.mockNettingService = new(MockNettingService)

	cfg := &config.Config{IsProduction: true} // skip swagger routes in tests
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Account: suite.mockAccountService,
		Voucher: suite.mockVoucherService,
		Netting: suite.mockNettingService,
	})

	suite.bookID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *VoucherHandlerTestSuite) serve(method, url string, body any) *httptest.ResponseRecorder {
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
	req.Header.Set("X-User-ID", suite.userID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *VoucherHandlerTestSuite) saveRequestBody() dto.SaveVoucherRequest {
	return dto.SaveVoucherRequest{
		VoucherDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Note:        "office rent",
		LineItems: []dto.LineItemRequest{
			{Ref: "a", AccountID: uuid.NewString(), Amount: decimal.NewFromInt(100), Debit: true},
			{Ref: "b", AccountID: uuid.NewString(), Amount: decimal.NewFromInt(100), Debit: false},
		},
	}
}

func (suite *VoucherHandlerTestSuite) TestCreateVoucher_Success() {
	body := suite.saveRequestBody()
	voucher := &domain.Voucher{
		VoucherID:     uuid.NewString(),
		BookID:        suite.bookID,
		VoucherNumber: 12,
		Status:        domain.Posted,
	}

	suite.mockVoucherService.On("CreateVoucher",
		mock.Anything, suite.bookID, mock.AnythingOfType("dto.SaveVoucherRequest"), suite.userID).
		Return(voucher, nil).Once()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/books/%s/vouchers", suite.bookID), body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.VoucherResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(voucher.VoucherID, resp.VoucherID)
	suite.Equal(int64(12), resp.VoucherNumber)
	suite.mockVoucherService.AssertExpectations(suite.T())
}

func (suite *VoucherHandlerTestSuite) TestCreateVoucher_FallsBackToSystemActor() {
	body := suite.saveRequestBody()
	voucher := &domain.Voucher{VoucherID: uuid.NewString(), BookID: suite.bookID}

	suite.mockVoucherService.On("CreateVoucher",
		mock.Anything, suite.bookID, mock.AnythingOfType("dto.SaveVoucherRequest"), middleware.FallbackActorID).
		Return(voucher, nil).Once()

	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/books/%s/vouchers", suite.bookID), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	// No X-User-ID header.
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockVoucherService.AssertExpectations(suite.T())
}

func (suite *VoucherHandlerTestSuite) TestCreateVoucher_Imbalanced() {
	body := suite.saveRequestBody()
	body.LineItems[1].Amount = decimal.NewFromInt(90)

	suite.mockVoucherService.On("CreateVoucher",
		mock.Anything, suite.bookID, mock.AnythingOfType("dto.SaveVoucherRequest"), suite.userID).
		Return(nil, fmt.Errorf("%w: debits sum is 100 and credits sum is 90", apperrors.ErrImbalanced)).Once()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/books/%s/vouchers", suite.bookID), body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "debits sum")
}

func (suite *VoucherHandlerTestSuite) TestCreateVoucher_RejectsSingleLineItem() {
	body := suite.saveRequestBody()
	body.LineItems = body.LineItems[:1]

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/books/%s/vouchers", suite.bookID), body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockVoucherService.AssertNotCalled(suite.T(), "CreateVoucher", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherHandlerTestSuite) TestCreateVoucher_RejectsNonPositiveAmount() {
	body := suite.saveRequestBody()
	body.LineItems[0].Amount = decimal.NewFromInt(-5)

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/books/%s/vouchers", suite.bookID), body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockVoucherService.AssertNotCalled(suite.T(), "CreateVoucher", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherHandlerTestSuite) TestGetVoucher_NotFound() {
	voucherID := uuid.NewString()
	suite.mockVoucherService.On("GetVoucherByID", mock.Anything, suite.bookID, voucherID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.serve(http.MethodGet, fmt.Sprintf("/api/v1/books/%s/vouchers/%s", suite.bookID, voucherID), nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *VoucherHandlerTestSuite) TestGetVoucherDetail() {
	voucherID := uuid.NewString()
	voucher := &domain.Voucher{VoucherID: voucherID, BookID: suite.bookID, Status: domain.Posted}
	netting := &domain.VoucherNetting{
		PayableInfo: &domain.NettingInfo{
			Total:           decimal.NewFromInt(1000),
			AlreadyHappened: decimal.NewFromInt(400),
			Remain:          decimal.NewFromInt(600),
		},
	}

	suite.mockVoucherService.On("GetVoucherDetail", mock.Anything, suite.bookID, voucherID).
		Return(voucher, netting, nil).Once()

	w := suite.serve(http.MethodGet, fmt.Sprintf("/api/v1/books/%s/vouchers/%s/detail", suite.bookID, voucherID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.VoucherDetailResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(voucherID, resp.Voucher.VoucherID)
	suite.Require().NotNil(resp.PayableInfo)
	suite.True(resp.PayableInfo.Remain.Equal(decimal.NewFromInt(600)))
	suite.Nil(resp.ReceivingInfo)
}

func (suite *VoucherHandlerTestSuite) TestListVouchers_PassesParams() {
	suite.mockVoucherService.On("ListVouchers", mock.Anything, suite.bookID,
		mock.MatchedBy(func(p dto.ListVouchersParams) bool {
			return p.Limit == 5 && p.IncludeDeleted
		})).
		Return(&dto.ListVouchersResponse{Vouchers: []dto.VoucherResponse{}}, nil).Once()

	w := suite.serve(http.MethodGet, fmt.Sprintf("/api/v1/books/%s/vouchers?limit=5&includeDeleted=true", suite.bookID), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockVoucherService.AssertExpectations(suite.T())
}

func (suite *VoucherHandlerTestSuite) TestDeleteVoucher() {
	voucherID := uuid.NewString()
	suite.mockVoucherService.On("DeleteVoucher", mock.Anything, suite.bookID, voucherID, suite.userID).
		Return(nil).Once()

	w := suite.serve(http.MethodDelete, fmt.Sprintf("/api/v1/books/%s/vouchers/%s", suite.bookID, voucherID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.MutationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(voucherID, resp.VoucherID)
}

func (suite *VoucherHandlerTestSuite) TestRestoreVoucher_WindowExpired() {
	voucherID := uuid.NewString()
	suite.mockVoucherService.On("RestoreVoucher", mock.Anything, suite.bookID, voucherID, suite.userID).
		Return(nil, fmt.Errorf("%w: restore window of 30s expired", apperrors.ErrForbidden)).Once()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/books/%s/vouchers/%s/restore", suite.bookID, voucherID), nil)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *VoucherHandlerTestSuite) TestUpdateVoucher_NotPosted() {
	voucherID := uuid.NewString()
	body := suite.saveRequestBody()

	suite.mockVoucherService.On("UpdateVoucher",
		mock.Anything, suite.bookID, voucherID, mock.AnythingOfType("dto.SaveVoucherRequest"), suite.userID).
		Return(nil, fmt.Errorf("%w: status is SUPERSEDED", services.ErrNotPosted)).Once()

	w := suite.serve(http.MethodPut, fmt.Sprintf("/api/v1/books/%s/vouchers/%s", suite.bookID, voucherID), body)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func TestVoucherHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(VoucherHandlerTestSuite))
}
