package domain

import "github.com/shopspring/decimal"

// LineItem represents one debit or credit leg of a voucher against one
// account. Line items are immutable once persisted; corrections are always
// expressed as new line items on new vouchers.
type LineItem struct {
	LineItemID  string          `json:"lineItemID"` // Primary Key (UUID)
	VoucherID   string          `json:"voucherID"`  // FK -> vouchers.voucher_id (Not Null)
	AccountID   string          `json:"accountID"`  // FK -> accounts.account_id (Not Null)
	Amount      decimal.Decimal `json:"amount"`     // Positive value; exact decimal
	Debit       bool            `json:"debit"`      // True for the debit side
	Description string          `json:"description"`
	AuditFields

	// Account is populated on graph loads so netting can classify the leg by
	// account code and natural direction without a second lookup.
	Account *Account `json:"account,omitempty"`
}

// Mirror returns the offsetting leg for this line item: same account and
// amount, opposite side. Used to build the mirror voucher on delete.
func (li LineItem) Mirror() LineItem {
	return LineItem{
		AccountID:   li.AccountID,
		Amount:      li.Amount,
		Debit:       !li.Debit,
		Description: li.Description,
		Account:     li.Account,
	}
}
