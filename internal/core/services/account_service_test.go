package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/voucherworks/voucher_ledger_app/internal/apperrors"
	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
	portsrepo "github.com/voucherworks/voucher_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/voucherworks/voucher_ledger_app/internal/core/ports/services"
	"github.com/voucherworks/voucher_ledger_app/internal/core/services"
	"github.com/voucherworks/voucher_ledger_app/internal/dto"
)

// --- Mock AccountRepository (full facade, as used by AccountService) ---
type MockAccountRepositoryFacade struct {
	MockAccountRepository
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepositoryFacade)(nil)

func (m *MockAccountRepositoryFacade) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepositoryFacade) SaveAccountSetting(ctx context.Context, setting domain.AccountSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

// --- Test Suite Setup ---
type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepositoryFacade
	service         portssvc.AccountSvcFacade
	bookID          string
	userID          string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepositoryFacade)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
	suite.bookID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "2100", Name: "Accounts Payable", Debit: false}

	var saved domain.Account
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Account)
		}).
		Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.bookID, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(account.AccountID)
	suite.Equal(suite.bookID, account.BookID)
	suite.Equal("2100", account.Code)
	suite.True(account.IsActive)
	suite.Equal(suite.userID, account.CreatedBy)
	suite.Equal(account.AccountID, saved.AccountID)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_WrongBook() {
	ctx := context.Background()
	account := &domain.Account{AccountID: uuid.NewString(), BookID: uuid.NewString()}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	_, err := suite.service.GetAccountByID(ctx, suite.bookID, account.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestGetAccountByIDs_DropsForeignAccounts() {
	ctx := context.Background()
	mine := domain.Account{AccountID: uuid.NewString(), BookID: suite.bookID, Code: "1000"}
	foreign := domain.Account{AccountID: uuid.NewString(), BookID: uuid.NewString(), Code: "1000"}
	ids := []string{mine.AccountID, foreign.AccountID}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, ids).
		Return(map[string]domain.Account{mine.AccountID: mine, foreign.AccountID: foreign}, nil).Once()

	accounts, err := suite.service.GetAccountByIDs(ctx, suite.bookID, ids)

	suite.Require().NoError(err)
	suite.Len(accounts, 1)
	suite.Contains(accounts, mine.AccountID)
	suite.NotContains(accounts, foreign.AccountID)
}

func (suite *AccountServiceTestSuite) TestSaveAccountSetting_Success() {
	ctx := context.Background()
	existing := []domain.Account{
		{AccountID: uuid.NewString(), BookID: suite.bookID, Code: "2100"},
		{AccountID: uuid.NewString(), BookID: suite.bookID, Code: "1200"},
	}
	req := dto.SaveAccountSettingRequest{
		PayableCodes:    []string{"2100"},
		ReceivableCodes: []string{"1200"},
	}

	suite.mockAccountRepo.On("ListAccountsByBook", ctx, suite.bookID).Return(existing, nil).Once()

	var saved domain.AccountSetting
	suite.mockAccountRepo.On("SaveAccountSetting", ctx, mock.AnythingOfType("domain.AccountSetting")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.AccountSetting)
		}).
		Return(nil).Once()

	setting, err := suite.service.SaveAccountSetting(ctx, suite.bookID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(suite.bookID, setting.BookID)
	suite.Equal([]string{"2100"}, saved.PayableCodes)
	suite.Equal([]string{"1200"}, saved.ReceivableCodes)
	suite.Equal(suite.userID, saved.LastUpdatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestSaveAccountSetting_UnknownCode() {
	ctx := context.Background()
	existing := []domain.Account{
		{AccountID: uuid.NewString(), BookID: suite.bookID, Code: "2100"},
	}
	req := dto.SaveAccountSettingRequest{
		PayableCodes:    []string{"2100"},
		ReceivableCodes: []string{"9999"},
	}

	suite.mockAccountRepo.On("ListAccountsByBook", ctx, suite.bookID).Return(existing, nil).Once()

	_, err := suite.service.SaveAccountSetting(ctx, suite.bookID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidReference)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccountSetting", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestSaveAccountSetting_CodeInBothSets() {
	ctx := context.Background()
	existing := []domain.Account{
		{AccountID: uuid.NewString(), BookID: suite.bookID, Code: "2100"},
	}
	req := dto.SaveAccountSettingRequest{
		PayableCodes:    []string{"2100"},
		ReceivableCodes: []string{"2100"},
	}

	suite.mockAccountRepo.On("ListAccountsByBook", ctx, suite.bookID).Return(existing, nil).Once()

	_, err := suite.service.SaveAccountSetting(ctx, suite.bookID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccountSetting", mock.Anything, mock.Anything)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
