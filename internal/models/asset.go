package models

import "time"

// Asset is the row shape of the assets table.
type Asset struct {
	AssetID   string     `json:"assetID"`
	BookID    string     `json:"bookID"`
	Name      string     `json:"name"`
	URI       string     `json:"uri"`
	DeletedAt *time.Time `json:"deletedAt"`
	AuditFields
}

// AssetVoucher is the row shape of the asset_vouchers join table.
type AssetVoucher struct {
	AssetVoucherID string     `json:"assetVoucherID"`
	AssetID        string     `json:"assetID"`
	VoucherID      string     `json:"voucherID"`
	DeletedAt      *time.Time `json:"deletedAt"`
	AuditFields
}
