package mapping

import (
	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
	"github.com/voucherworks/voucher_ledger_app/internal/models"
)

// ToModelAsset converts a domain Asset to a model Asset
func ToModelAsset(d domain.Asset) models.Asset {
	return models.Asset{
		AssetID:     d.AssetID,
		BookID:      d.BookID,
		Name:        d.Name,
		URI:         d.URI,
		DeletedAt:   d.DeletedAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAsset converts a model Asset to a domain Asset
func ToDomainAsset(m models.Asset) domain.Asset {
	return domain.Asset{
		AssetID:     m.AssetID,
		BookID:      m.BookID,
		Name:        m.Name,
		URI:         m.URI,
		DeletedAt:   m.DeletedAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAssetVoucher converts a domain AssetVoucher to its model form
func ToModelAssetVoucher(d domain.AssetVoucher) models.AssetVoucher {
	return models.AssetVoucher{
		AssetVoucherID: d.AssetVoucherID,
		AssetID:        d.AssetID,
		VoucherID:      d.VoucherID,
		DeletedAt:      d.DeletedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAssetVoucher converts a model AssetVoucher to its domain form
func ToDomainAssetVoucher(m models.AssetVoucher) domain.AssetVoucher {
	return domain.AssetVoucher{
		AssetVoucherID: m.AssetVoucherID,
		AssetID:        m.AssetID,
		VoucherID:      m.VoucherID,
		DeletedAt:      m.DeletedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
