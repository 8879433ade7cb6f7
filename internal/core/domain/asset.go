package domain

import "time"

// Asset is an attached resource record (certificate, invoice scan, contract)
// linked to vouchers. Assets soft-delete and restore in lockstep with the
// voucher they are linked to.
type Asset struct {
	AssetID   string     `json:"assetID"` // Primary Key (UUID)
	BookID    string     `json:"bookID"`
	Name      string     `json:"name"`
	URI       string     `json:"uri"` // Storage location; handling of the bytes is out of scope
	DeletedAt *time.Time `json:"deletedAt"`
	AuditFields
}

// AssetVoucher joins an asset to a voucher.
type AssetVoucher struct {
	AssetVoucherID string     `json:"assetVoucherID"` // Primary Key (UUID)
	AssetID        string     `json:"assetID"`
	VoucherID      string     `json:"voucherID"`
	DeletedAt      *time.Time `json:"deletedAt"`
	AuditFields

	Asset *Asset `json:"asset,omitempty"`
}
