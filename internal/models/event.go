package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the row shape of the events table.
type Event struct {
	EventID    string    `json:"eventID"`
	EventType  string    `json:"eventType"`
	OccurredAt time.Time `json:"occurredAt"`
	AuditFields
}

// VoucherAssociation is the row shape of the associate_vouchers table.
type VoucherAssociation struct {
	AssociationID     string     `json:"associationID"`
	EventID           string     `json:"eventID"`
	OriginalVoucherID string     `json:"originalVoucherID"`
	ResultVoucherID   string     `json:"resultVoucherID"`
	DeletedAt         *time.Time `json:"deletedAt"`
	AuditFields
}

// LineItemAssociation is the row shape of the associate_line_items table.
type LineItemAssociation struct {
	AssociationID        string          `json:"associationID"`
	VoucherAssociationID string          `json:"voucherAssociationID"`
	OriginalLineItemID   string          `json:"originalLineItemID"`
	ResultLineItemID     string          `json:"resultLineItemID"`
	Amount               decimal.Decimal `json:"amount"`
	AuditFields
}
