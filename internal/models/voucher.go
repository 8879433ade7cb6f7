package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherStatus mirrors domain.VoucherStatus at the persistence layer.
type VoucherStatus string

const (
	Posted     VoucherStatus = "POSTED"
	Deleted    VoucherStatus = "DELETED"
	Superseded VoucherStatus = "SUPERSEDED"
)

// Voucher is the row shape of the vouchers table.
type Voucher struct {
	VoucherID      string        `json:"voucherID"`
	BookID         string        `json:"bookID"`
	VoucherNumber  int64         `json:"voucherNumber"`
	VoucherDate    time.Time     `json:"voucherDate"`
	Type           string        `json:"type"`
	Note           string        `json:"note"`
	CounterPartyID *string       `json:"counterPartyID"`
	Status         VoucherStatus `json:"status"`
	DeletedAt      *time.Time    `json:"deletedAt"`
	AuditFields
}

// LineItem is the row shape of the line_items table.
type LineItem struct {
	LineItemID  string          `json:"lineItemID"`
	VoucherID   string          `json:"voucherID"`
	AccountID   string          `json:"accountID"`
	Amount      decimal.Decimal `json:"amount"`
	Debit       bool            `json:"debit"`
	Description string          `json:"description"`
	AuditFields

	// Joined account columns, filled when line items are loaded with their
	// chart-of-accounts entry.
	AccountCode  string `json:"accountCode"`
	AccountDebit bool   `json:"accountDebit"`
	AccountName  string `json:"accountName"`
}
