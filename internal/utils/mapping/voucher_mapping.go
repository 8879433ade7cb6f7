package mapping

import (
	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
	"github.com/voucherworks/voucher_ledger_app/internal/models"
)

// ToModelVoucher converts a domain Voucher to a model Voucher
func ToModelVoucher(d domain.Voucher) models.Voucher {
	return models.Voucher{
		VoucherID:      d.VoucherID,
		BookID:         d.BookID,
		VoucherNumber:  d.VoucherNumber,
		VoucherDate:    d.VoucherDate,
		Type:           string(d.Type),
		Note:           d.Note,
		CounterPartyID: d.CounterPartyID,
		Status:         models.VoucherStatus(d.Status),
		DeletedAt:      d.DeletedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVoucher converts a model Voucher to a domain Voucher
func ToDomainVoucher(m models.Voucher) domain.Voucher {
	return domain.Voucher{
		VoucherID:      m.VoucherID,
		BookID:         m.BookID,
		VoucherNumber:  m.VoucherNumber,
		VoucherDate:    m.VoucherDate,
		Type:           domain.VoucherType(m.Type),
		Note:           m.Note,
		CounterPartyID: m.CounterPartyID,
		Status:         domain.VoucherStatus(m.Status),
		DeletedAt:      m.DeletedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLineItem converts a domain LineItem to a model LineItem
func ToModelLineItem(d domain.LineItem) models.LineItem {
	m := models.LineItem{
		LineItemID:  d.LineItemID,
		VoucherID:   d.VoucherID,
		AccountID:   d.AccountID,
		Amount:      d.Amount,
		Debit:       d.Debit,
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
	if d.Account != nil {
		m.AccountCode = d.Account.Code
		m.AccountDebit = d.Account.Debit
		m.AccountName = d.Account.Name
	}
	return m
}

// ToDomainLineItem converts a model LineItem to a domain LineItem. Joined
// account columns are surfaced as an embedded Account value.
func ToDomainLineItem(m models.LineItem) domain.LineItem {
	d := domain.LineItem{
		LineItemID:  m.LineItemID,
		VoucherID:   m.VoucherID,
		AccountID:   m.AccountID,
		Amount:      m.Amount,
		Debit:       m.Debit,
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.AccountCode != "" {
		d.Account = &domain.Account{
			AccountID: m.AccountID,
			Code:      m.AccountCode,
			Debit:     m.AccountDebit,
			Name:      m.AccountName,
		}
	}
	return d
}

// ToDomainLineItemSlice converts a slice of model LineItems to domain LineItems
func ToDomainLineItemSlice(ms []models.LineItem) []domain.LineItem {
	ds := make([]domain.LineItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLineItem(m)
	}
	return ds
}
