package models

// Account is the row shape of the accounts table.
type Account struct {
	AccountID   string `json:"accountID"`
	BookID      string `json:"bookID"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Debit       bool   `json:"debit"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// AccountSetting is the row shape of the account_settings table. The code
// sets are stored as Postgres text arrays.
type AccountSetting struct {
	BookID          string   `json:"bookID"`
	PayableCodes    []string `json:"payableCodes"`
	ReceivableCodes []string `json:"receivableCodes"`
	AuditFields
}
