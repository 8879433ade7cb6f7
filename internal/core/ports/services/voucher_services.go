package services

import (
	"context"

	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
	"github.com/voucherworks/voucher_ledger_app/internal/dto"
)

// VoucherReaderSvc defines read operations for voucher data
type VoucherReaderSvc interface {
	// GetVoucherByID retrieves a voucher graph by ID within a book.
	GetVoucherByID(ctx context.Context, bookID string, voucherID string) (*domain.Voucher, error)

	// GetVoucherByNumber retrieves a voucher graph by its per-book number.
	GetVoucherByNumber(ctx context.Context, bookID string, voucherNumber int64) (*domain.Voucher, error)

	// GetVoucherDetail retrieves a voucher graph plus its derived AP/AR
	// netting result for the report read path.
	GetVoucherDetail(ctx context.Context, bookID string, voucherID string) (*domain.Voucher, *domain.VoucherNetting, error)

	// ListVouchers retrieves a paginated list of vouchers in a book.
	ListVouchers(ctx context.Context, bookID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error)
}

// VoucherWriterSvc defines the mutation operations of the orchestrator.
type VoucherWriterSvc interface {
	// CreateVoucher validates balance and persists a new voucher.
	CreateVoucher(ctx context.Context, bookID string, req dto.SaveVoucherRequest, creatorUserID string) (*domain.Voucher, error)

	// UpdateVoucher applies a metadata-only edit in place, or supersedes the
	// voucher via delete-then-create when the line-item set changed. The
	// voucher that is live after the edit is returned.
	UpdateVoucher(ctx context.Context, bookID string, voucherID string, req dto.SaveVoucherRequest, requestingUserID string) (*domain.Voucher, error)

	// DeleteVoucher soft-deletes a voucher behind an offsetting mirror.
	DeleteVoucher(ctx context.Context, bookID string, voucherID string, requestingUserID string) error

	// RestoreVoucher undoes a delete within the restore window.
	RestoreVoucher(ctx context.Context, bookID string, voucherID string, requestingUserID string) (*domain.Voucher, error)
}

// VoucherSvcFacade combines all voucher-related service interfaces
type VoucherSvcFacade interface {
	VoucherReaderSvc
	VoucherWriterSvc
}

// NettingSvcFacade computes outstanding AP/AR exposure for a voucher's event
// graph. Read-only; never mutates state.
type NettingSvcFacade interface {
	// ComputeNetting folds netting over every event reachable from the
	// voucher, using the book's configured AP/AR code sets.
	ComputeNetting(ctx context.Context, bookID string, voucher *domain.Voucher) (*domain.VoucherNetting, error)
}
