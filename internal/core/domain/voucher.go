package domain

import "time"

// VoucherStatus indicates the lifecycle state of a voucher.
type VoucherStatus string

const (
	// Posted vouchers are live and count toward balances.
	Posted VoucherStatus = "POSTED"
	// Deleted vouchers are soft-deleted; their rows stay queryable and a
	// mirror voucher offsets them in the books.
	Deleted VoucherStatus = "DELETED"
	// Superseded vouchers were replaced by a structural edit. They carry the
	// same offsetting bookkeeping as deleted vouchers.
	Superseded VoucherStatus = "SUPERSEDED"
)

// VoucherType categorizes the business event a voucher records.
type VoucherType string

const (
	VoucherGeneral VoucherType = "GENERAL"
	VoucherReceipt VoucherType = "RECEIPT"
	VoucherPayment VoucherType = "PAYMENT"
)

// Voucher represents an atomic, balanced set of line items recorded against
// one business event. A voucher is logically immutable once posted: edits
// either touch non-ledger metadata in place or supersede the voucher with a
// new one plus an offsetting mirror.
type Voucher struct {
	VoucherID      string        `json:"voucherID"`     // Primary Key (UUID)
	BookID         string        `json:"bookID"`        // Owning account book (Not Null)
	VoucherNumber  int64         `json:"voucherNumber"` // Sequential per book
	VoucherDate    time.Time     `json:"voucherDate"`   // Date of the business event
	Type           VoucherType   `json:"type"`
	Note           string        `json:"note"`
	CounterPartyID *string       `json:"counterPartyID"` // Nullable
	Status         VoucherStatus `json:"status"`
	DeletedAt      *time.Time    `json:"deletedAt"` // Set when status leaves POSTED
	AuditFields

	// Loaded relationships. LineItems carry their Account; associations carry
	// their Event and pairings, but not the voucher on the far side.
	LineItems            []LineItem           `json:"lineItems,omitempty"`
	AssetLinks           []AssetVoucher       `json:"assetLinks,omitempty"`
	OriginalAssociations []VoucherAssociation `json:"originalAssociations,omitempty"` // this voucher is the original side
	ResultAssociations   []VoucherAssociation `json:"resultAssociations,omitempty"`   // this voucher is the result side
}

// IsDeleted reports whether the voucher is currently soft-deleted.
func (v Voucher) IsDeleted() bool {
	return v.DeletedAt != nil
}

// DeleteAssociation returns the live DELETE-typed association originating at
// this voucher, if any. Restore eligibility hangs on its presence.
func (v Voucher) DeleteAssociation() *VoucherAssociation {
	for i := range v.OriginalAssociations {
		assoc := &v.OriginalAssociations[i]
		if assoc.DeletedAt == nil && assoc.Event != nil && assoc.Event.EventType == EventDelete {
			return assoc
		}
	}
	return nil
}
