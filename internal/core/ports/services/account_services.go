package services

import (
	"context"

	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
	"github.com/voucherworks/voucher_ledger_app/internal/dto"
)

// AccountReaderSvc defines read operations for chart-of-accounts data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a single account within a book.
	GetAccountByID(ctx context.Context, bookID string, accountID string) (*domain.Account, error)

	// GetAccountByIDs retrieves multiple accounts keyed by ID.
	GetAccountByIDs(ctx context.Context, bookID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves all accounts of a book.
	ListAccounts(ctx context.Context, bookID string) ([]domain.Account, error)

	// GetAccountSetting retrieves the book's AP/AR code designation.
	GetAccountSetting(ctx context.Context, bookID string) (*domain.AccountSetting, error)
}

// AccountWriterSvc defines write operations for the configuration surface
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, bookID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// SaveAccountSetting creates or replaces the book's AP/AR designation.
	SaveAccountSetting(ctx context.Context, bookID string, req dto.SaveAccountSettingRequest, userID string) (*domain.AccountSetting, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
