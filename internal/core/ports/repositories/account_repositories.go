package repositories

import (
	"context"

	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data. The
// ledger engine only ever reads accounts; their direction flag is owned by
// the configuration surface.
type AccountReader interface {
	// FindAccountByID retrieves a single account.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID. A missing ID
	// is simply absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccountsByBook retrieves all accounts of one book ordered by code.
	ListAccountsByBook(ctx context.Context, bookID string) ([]domain.Account, error)

	// FindAccountSetting retrieves the AP/AR code designation for a book.
	FindAccountSetting(ctx context.Context, bookID string) (*domain.AccountSetting, error)
}

// AccountWriter defines write operations used by the configuration surface.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SaveAccountSetting creates or replaces the AP/AR designation of a book.
	SaveAccountSetting(ctx context.Context, setting domain.AccountSetting) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
