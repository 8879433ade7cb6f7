package dto

import (
	"time"

	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating a chart-of-accounts entry.
type CreateAccountRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Debit       bool   `json:"debit"`
	Description string `json:"description"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID   string    `json:"accountID"`
	BookID      string    `json:"bookID"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Debit       bool      `json:"debit"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListAccountsResponse wraps the accounts of one book.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// SaveAccountSettingRequest sets the AP/AR code designation for a book.
type SaveAccountSettingRequest struct {
	PayableCodes    []string `json:"payableCodes" binding:"required"`
	ReceivableCodes []string `json:"receivableCodes" binding:"required"`
}

// AccountSettingResponse returns the AP/AR code designation for a book.
type AccountSettingResponse struct {
	BookID          string   `json:"bookID"`
	PayableCodes    []string `json:"payableCodes"`
	ReceivableCodes []string `json:"receivableCodes"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   a.AccountID,
		BookID:      a.BookID,
		Code:        a.Code,
		Name:        a.Name,
		Debit:       a.Debit,
		Description: a.Description,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
	}
}

// ToAccountSettingResponse converts a domain.AccountSetting to its response form.
func ToAccountSettingResponse(s *domain.AccountSetting) AccountSettingResponse {
	return AccountSettingResponse{
		BookID:          s.BookID,
		PayableCodes:    s.PayableCodes,
		ReceivableCodes: s.ReceivableCodes,
	}
}
