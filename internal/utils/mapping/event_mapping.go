package mapping

import (
	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
	"github.com/voucherworks/voucher_ledger_app/internal/models"
)

// ToModelEvent converts a domain Event to a model Event
func ToModelEvent(d domain.Event) models.Event {
	return models.Event{
		EventID:     d.EventID,
		EventType:   string(d.EventType),
		OccurredAt:  d.OccurredAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEvent converts a model Event to a domain Event
func ToDomainEvent(m models.Event) domain.Event {
	return domain.Event{
		EventID:     m.EventID,
		EventType:   domain.EventType(m.EventType),
		OccurredAt:  m.OccurredAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelVoucherAssociation converts a domain VoucherAssociation to its model
func ToModelVoucherAssociation(d domain.VoucherAssociation) models.VoucherAssociation {
	return models.VoucherAssociation{
		AssociationID:     d.AssociationID,
		EventID:           d.EventID,
		OriginalVoucherID: d.OriginalVoucherID,
		ResultVoucherID:   d.ResultVoucherID,
		DeletedAt:         d.DeletedAt,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVoucherAssociation converts a model VoucherAssociation to its domain form
func ToDomainVoucherAssociation(m models.VoucherAssociation) domain.VoucherAssociation {
	return domain.VoucherAssociation{
		AssociationID:     m.AssociationID,
		EventID:           m.EventID,
		OriginalVoucherID: m.OriginalVoucherID,
		ResultVoucherID:   m.ResultVoucherID,
		DeletedAt:         m.DeletedAt,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLineItemAssociation converts a domain LineItemAssociation to its model
func ToModelLineItemAssociation(d domain.LineItemAssociation) models.LineItemAssociation {
	return models.LineItemAssociation{
		AssociationID:        d.AssociationID,
		VoucherAssociationID: d.VoucherAssociationID,
		OriginalLineItemID:   d.OriginalLineItemID,
		ResultLineItemID:     d.ResultLineItemID,
		Amount:               d.Amount,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLineItemAssociation converts a model LineItemAssociation to its domain form
func ToDomainLineItemAssociation(m models.LineItemAssociation) domain.LineItemAssociation {
	return domain.LineItemAssociation{
		AssociationID:        m.AssociationID,
		VoucherAssociationID: m.VoucherAssociationID,
		OriginalLineItemID:   m.OriginalLineItemID,
		ResultLineItemID:     m.ResultLineItemID,
		Amount:               m.Amount,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}
