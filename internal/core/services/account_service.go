package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/voucherworks/voucher_ledger_app/internal/apperrors"
	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
	portsrepo "github.com/voucherworks/voucher_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/voucherworks/voucher_ledger_app/internal/core/ports/services"
	"github.com/voucherworks/voucher_ledger_app/internal/dto"
	"github.com/voucherworks/voucher_ledger_app/internal/middleware"
)

type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetAccountByID retrieves an account, hiding accounts from other books.
// Implements portssvc.AccountReaderSvc
func (s *accountService) GetAccountByID(ctx context.Context, bookID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.BookID != bookID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// GetAccountByIDs retrieves multiple accounts keyed by ID. Accounts of other
// books are dropped from the result rather than reported.
// Implements portssvc.AccountReaderSvc
func (s *accountService) GetAccountByIDs(ctx context.Context, bookID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for id, acc := range accounts {
		if acc.BookID != bookID {
			delete(accounts, id)
		}
	}
	return accounts, nil
}

// ListAccounts retrieves all accounts of a book.
// Implements portssvc.AccountReaderSvc
func (s *accountService) ListAccounts(ctx context.Context, bookID string) ([]domain.Account, error) {
	return s.accountRepo.ListAccountsByBook(ctx, bookID)
}

// GetAccountSetting retrieves the book's AP/AR code designation.
// Implements portssvc.AccountReaderSvc
func (s *accountService) GetAccountSetting(ctx context.Context, bookID string) (*domain.AccountSetting, error) {
	return s.accountRepo.FindAccountSetting(ctx, bookID)
}

// CreateAccount persists a new chart-of-accounts entry.
// Implements portssvc.AccountWriterSvc
func (s *accountService) CreateAccount(ctx context.Context, bookID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		BookID:      bookID,
		Code:        req.Code,
		Name:        req.Name,
		Debit:       req.Debit,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: creatorUserID, LastUpdatedAt: now, LastUpdatedBy: creatorUserID},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("book_id", bookID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// SaveAccountSetting creates or replaces the AP/AR designation of a book.
// Codes must name existing accounts, and a code cannot be both payable and
// receivable.
// Implements portssvc.AccountWriterSvc
func (s *accountService) SaveAccountSetting(ctx context.Context, bookID string, req dto.SaveAccountSettingRequest, userID string) (*domain.AccountSetting, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAccountsByBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for validation: %w", err)
	}
	known := make(map[string]struct{}, len(accounts))
	for _, acc := range accounts {
		known[acc.Code] = struct{}{}
	}

	payable := make(map[string]struct{}, len(req.PayableCodes))
	for _, code := range req.PayableCodes {
		if _, ok := known[code]; !ok {
			return nil, fmt.Errorf("%w: unknown payable code %s", apperrors.ErrInvalidReference, code)
		}
		payable[code] = struct{}{}
	}
	for _, code := range req.ReceivableCodes {
		if _, ok := known[code]; !ok {
			return nil, fmt.Errorf("%w: unknown receivable code %s", apperrors.ErrInvalidReference, code)
		}
		if _, ok := payable[code]; ok {
			return nil, fmt.Errorf("%w: code %s cannot be both payable and receivable", apperrors.ErrValidation, code)
		}
	}

	now := time.Now().UTC()
	setting := domain.AccountSetting{
		BookID:          bookID,
		PayableCodes:    uniqueStrings(req.PayableCodes),
		ReceivableCodes: uniqueStrings(req.ReceivableCodes),
		AuditFields:     domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID},
	}
	if err := s.accountRepo.SaveAccountSetting(ctx, setting); err != nil {
		logger.Error("Failed to save account setting", slog.String("error", err.Error()), slog.String("book_id", bookID))
		return nil, fmt.Errorf("failed to save account setting: %w", err)
	}

	logger.Info("Account setting saved", slog.String("book_id", bookID))
	return &setting, nil
}
