package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType categorizes the structural change an event records.
type EventType string

const (
	// EventReversal marks an ordinary reversal linking a voucher to one that
	// offsets part or all of it.
	EventReversal EventType = "REVERSAL"
	// EventDelete marks the synthetic mirror created by a delete. Restore
	// looks for exactly this type.
	EventDelete EventType = "DELETE"
)

// Event is a typed, timestamped grouping of voucher associations. Events are
// append-only; a restore removes the DELETE event's artifacts outright rather
// than editing them.
type Event struct {
	EventID    string    `json:"eventID"` // Primary Key (UUID)
	EventType  EventType `json:"eventType"`
	OccurredAt time.Time `json:"occurredAt"`
	AuditFields
}

// VoucherAssociation is a directed edge stating that ResultVoucher reverses or
// follows OriginalVoucher under one event.
type VoucherAssociation struct {
	AssociationID     string     `json:"associationID"` // Primary Key (UUID)
	EventID           string     `json:"eventID"`       // FK -> events.event_id (Not Null)
	OriginalVoucherID string     `json:"originalVoucherID"`
	ResultVoucherID   string     `json:"resultVoucherID"`
	DeletedAt         *time.Time `json:"deletedAt"`
	AuditFields

	Event           *Event   `json:"event,omitempty"`
	OriginalVoucher *Voucher `json:"originalVoucher,omitempty"` // loaded with line items + accounts, no deeper nesting
	ResultVoucher   *Voucher `json:"resultVoucher,omitempty"`

	LineItemAssociations []LineItemAssociation `json:"lineItemAssociations,omitempty"`
}

// LineItemAssociation records how much of one original line item is reversed
// by one result line item. Amount may be less than the original line item's
// amount (partial reversal), and several associations may target the same
// original line item.
type LineItemAssociation struct {
	AssociationID        string          `json:"associationID"` // Primary Key (UUID)
	VoucherAssociationID string          `json:"voucherAssociationID"`
	OriginalLineItemID   string          `json:"originalLineItemID"`
	ResultLineItemID     string          `json:"resultLineItemID"`
	Amount               decimal.Decimal `json:"amount"`
	AuditFields
}
