package mapping

import (
	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
	"github.com/voucherworks/voucher_ledger_app/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:   d.AccountID,
		BookID:      d.BookID,
		Code:        d.Code,
		Name:        d.Name,
		Debit:       d.Debit,
		Description: d.Description,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		BookID:      m.BookID,
		Code:        m.Code,
		Name:        m.Name,
		Debit:       m.Debit,
		Description: m.Description,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSetting converts a model AccountSetting to its domain form
func ToDomainAccountSetting(m models.AccountSetting) domain.AccountSetting {
	return domain.AccountSetting{
		BookID:          m.BookID,
		PayableCodes:    m.PayableCodes,
		ReceivableCodes: m.ReceivableCodes,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAccountSetting converts a domain AccountSetting to its model form
func ToModelAccountSetting(d domain.AccountSetting) models.AccountSetting {
	return models.AccountSetting{
		BookID:          d.BookID,
		PayableCodes:    d.PayableCodes,
		ReceivableCodes: d.ReceivableCodes,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}
