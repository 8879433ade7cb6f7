package domain

// Account represents one chart-of-accounts entry. The chart of accounts is
// owned by a separate configuration surface; the ledger engine only ever reads
// it and references entries by code from line items.
type Account struct {
	AccountID   string `json:"accountID"` // Primary Key (UUID)
	BookID      string `json:"bookID"`    // FK -> account_books.book_id (Not Null)
	Code        string `json:"code"`      // Unique, stable chart-of-accounts code (e.g. "2150")
	Name        string `json:"name"`      // User-defined name
	Debit       bool   `json:"debit"`     // True if the natural balance grows on the debit side
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// AccountSetting holds the per-book designation of which account codes count
// as accounts payable and accounts receivable for netting.
type AccountSetting struct {
	BookID          string   `json:"bookID"`
	PayableCodes    []string `json:"payableCodes"`
	ReceivableCodes []string `json:"receivableCodes"`
	AuditFields
}

// IsPayableCode reports whether code belongs to the configured AP set.
func (s AccountSetting) IsPayableCode(code string) bool {
	for _, c := range s.PayableCodes {
		if c == code {
			return true
		}
	}
	return false
}

// IsReceivableCode reports whether code belongs to the configured AR set.
func (s AccountSetting) IsReceivableCode(code string) bool {
	for _, c := range s.ReceivableCodes {
		if c == code {
			return true
		}
	}
	return false
}
