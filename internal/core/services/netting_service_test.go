package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/voucherworks/voucher_ledger_app/internal/apperrors"
	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
	portsrepo "github.com/voucherworks/voucher_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/voucherworks/voucher_ledger_app/internal/core/ports/services"
	"github.com/voucherworks/voucher_ledger_app/internal/core/services"
)

// --- Mock AccountRepository (reader side, as used by NettingService) ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountReader = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByBook(ctx context.Context, bookID string) ([]domain.Account, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountSetting(ctx context.Context, bookID string) (*domain.AccountSetting, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountSetting), args.Error(1)
}

// --- Test Suite Setup ---
type NettingServiceTestSuite struct {
	suite.Suite
	mockVoucherRepo *MockVoucherRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.NettingSvcFacade
	payableAccount  domain.Account
	expenseAccount  domain.Account
	cashAccount     domain.Account
	bookID          string
}

func (suite *NettingServiceTestSuite) SetupTest() {
	suite.mockVoucherRepo = new(MockVoucherRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewNettingService(suite.mockVoucherRepo, suite.mockAccountRepo)

	suite.bookID = uuid.NewString()
	suite.payableAccount = domain.Account{
		AccountID: uuid.NewString(),
		BookID:    suite.bookID,
		Code:      "2100",
		Name:      "Accounts Payable",
		Debit:     false,
		IsActive:  true,
	}
	suite.expenseAccount = domain.Account{
		AccountID: uuid.NewString(),
		BookID:    suite.bookID,
		Code:      "6000",
		Name:      "Rent Expense",
		Debit:     true,
		IsActive:  true,
	}
	suite.cashAccount = domain.Account{
		AccountID: uuid.NewString(),
		BookID:    suite.bookID,
		Code:      "1000",
		Name:      "Cash",
		Debit:     true,
		IsActive:  true,
	}
}

func (suite *NettingServiceTestSuite) setting(payable, receivable []string) *domain.AccountSetting {
	return &domain.AccountSetting{
		BookID:          suite.bookID,
		PayableCodes:    payable,
		ReceivableCodes: receivable,
	}
}

func (suite *NettingServiceTestSuite) leg(voucherID string, account domain.Account, amount int64, debit bool) domain.LineItem {
	return domain.LineItem{
		LineItemID: uuid.NewString(),
		VoucherID:  voucherID,
		AccountID:  account.AccountID,
		Amount:     decimal.NewFromInt(amount),
		Debit:      debit,
		Account:    &account,
	}
}

// invoiceWithPartialPayment wires the canonical scenario: an invoice crediting
// payable 1000, and a payment voucher debiting payable 400 linked through one
// REVERSAL event. Returns the invoice; the payment is registered on the mock
// for the traversal fetch.
func (suite *NettingServiceTestSuite) invoiceWithPartialPayment() *domain.Voucher {
	invoiceID := uuid.NewString()
	paymentID := uuid.NewString()

	invoice := &domain.Voucher{
		VoucherID: invoiceID,
		BookID:    suite.bookID,
		Status:    domain.Posted,
		LineItems: []domain.LineItem{
			suite.leg(invoiceID, suite.expenseAccount, 1000, true),
			suite.leg(invoiceID, suite.payableAccount, 1000, false),
		},
	}
	payment := &domain.Voucher{
		VoucherID: paymentID,
		BookID:    suite.bookID,
		Status:    domain.Posted,
		LineItems: []domain.LineItem{
			suite.leg(paymentID, suite.payableAccount, 400, true),
			suite.leg(paymentID, suite.cashAccount, 400, false),
		},
	}

	edge := domain.VoucherAssociation{
		AssociationID:     uuid.NewString(),
		EventID:           uuid.NewString(),
		OriginalVoucherID: invoiceID,
		ResultVoucherID:   paymentID,
		Event:             &domain.Event{EventID: uuid.NewString(), EventType: domain.EventReversal},
	}
	invoice.OriginalAssociations = []domain.VoucherAssociation{edge}
	payment.ResultAssociations = []domain.VoucherAssociation{edge}

	suite.mockVoucherRepo.On("FindVoucherByID", mock.Anything, paymentID).Return(payment, nil).Once()
	return invoice
}

func (suite *NettingServiceTestSuite) TestComputeNetting_PartialPayment() {
	ctx := context.Background()
	invoice := suite.invoiceWithPartialPayment()

	suite.mockAccountRepo.On("FindAccountSetting", ctx, suite.bookID).
		Return(suite.setting([]string{"2100"}, nil), nil).Once()

	netting, err := suite.service.ComputeNetting(ctx, suite.bookID, invoice)

	suite.Require().NoError(err)
	suite.Require().NotNil(netting.PayableInfo)
	suite.True(netting.PayableInfo.Total.Equal(decimal.NewFromInt(1000)), "total is %s", netting.PayableInfo.Total)
	suite.True(netting.PayableInfo.AlreadyHappened.Equal(decimal.NewFromInt(400)), "already happened is %s", netting.PayableInfo.AlreadyHappened)
	suite.True(netting.PayableInfo.Remain.Equal(decimal.NewFromInt(600)), "remain is %s", netting.PayableInfo.Remain)
	suite.Nil(netting.ReceivingInfo)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *NettingServiceTestSuite) TestComputeNetting_SameResultFromEitherEnd() {
	ctx := context.Background()
	invoice := suite.invoiceWithPartialPayment()

	// Start the walk at the payment voucher instead of the invoice.
	paymentID := invoice.OriginalAssociations[0].ResultVoucherID
	suite.mockVoucherRepo.ExpectedCalls = nil
	payment := &domain.Voucher{
		VoucherID: paymentID,
		BookID:    suite.bookID,
		Status:    domain.Posted,
		LineItems: []domain.LineItem{
			suite.leg(paymentID, suite.payableAccount, 400, true),
			suite.leg(paymentID, suite.cashAccount, 400, false),
		},
		ResultAssociations: []domain.VoucherAssociation{invoice.OriginalAssociations[0]},
	}
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, invoice.VoucherID).Return(invoice, nil).Once()
	suite.mockAccountRepo.On("FindAccountSetting", ctx, suite.bookID).
		Return(suite.setting([]string{"2100"}, nil), nil).Once()

	netting, err := suite.service.ComputeNetting(ctx, suite.bookID, payment)

	suite.Require().NoError(err)
	suite.Require().NotNil(netting.PayableInfo)
	suite.True(netting.PayableInfo.Remain.Equal(decimal.NewFromInt(600)))
}

func (suite *NettingServiceTestSuite) TestComputeNetting_NoExposure() {
	ctx := context.Background()
	voucherID := uuid.NewString()
	// Cash purchase: no payable or receivable code involved.
	voucher := &domain.Voucher{
		VoucherID: voucherID,
		BookID:    suite.bookID,
		Status:    domain.Posted,
		LineItems: []domain.LineItem{
			suite.leg(voucherID, suite.expenseAccount, 250, true),
			suite.leg(voucherID, suite.cashAccount, 250, false),
		},
	}

	suite.mockAccountRepo.On("FindAccountSetting", ctx, suite.bookID).
		Return(suite.setting([]string{"2100"}, []string{"1200"}), nil).Once()

	netting, err := suite.service.ComputeNetting(ctx, suite.bookID, voucher)

	suite.Require().NoError(err)
	suite.Nil(netting.PayableInfo)
	suite.Nil(netting.ReceivingInfo)
}

func (suite *NettingServiceTestSuite) TestComputeNetting_IgnoresTombstonedEdges() {
	ctx := context.Background()
	invoice := suite.invoiceWithPartialPayment()
	deletedAt := time.Now()
	invoice.OriginalAssociations[0].DeletedAt = &deletedAt

	suite.mockAccountRepo.On("FindAccountSetting", ctx, suite.bookID).
		Return(suite.setting([]string{"2100"}, nil), nil).Once()

	netting, err := suite.service.ComputeNetting(ctx, suite.bookID, invoice)

	suite.Require().NoError(err)
	// The only edge is tombstoned, so no event contributes exposure.
	suite.Nil(netting.PayableInfo)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "FindVoucherByID", mock.Anything, mock.Anything)
}

func (suite *NettingServiceTestSuite) TestComputeNetting_MissingAccountSetting() {
	ctx := context.Background()
	voucher := &domain.Voucher{VoucherID: uuid.NewString(), BookID: suite.bookID}

	suite.mockAccountRepo.On("FindAccountSetting", ctx, suite.bookID).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ComputeNetting(ctx, suite.bookID, voucher)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestNettingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NettingServiceTestSuite))
}
