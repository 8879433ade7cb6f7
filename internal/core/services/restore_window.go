package services

import (
	"fmt"
	"time"

	"github.com/voucherworks/voucher_ledger_app/internal/apperrors"
	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
)

// DefaultRestoreWindow bounds how long after a delete the voucher can still
// be restored.
const DefaultRestoreWindow = 30 * time.Second

// CheckRestorable decides whether a voucher is eligible for restore at the
// given instant. Eligibility requires a set deletedAt plus a live
// DELETE-typed association rooted at the voucher (NotFound otherwise); the
// elapsed time since deletion must fit the window (Forbidden otherwise).
//
// The repository runs the same check again under a row lock inside the
// restore transaction, so a voucher cannot slip past the guard between check
// and action.
func CheckRestorable(v *domain.Voucher, now time.Time, window time.Duration) (*domain.VoucherAssociation, error) {
	if v == nil || v.DeletedAt == nil {
		return nil, fmt.Errorf("%w: voucher is not deleted", apperrors.ErrNotFound)
	}
	assoc := v.DeleteAssociation()
	if assoc == nil {
		return nil, fmt.Errorf("%w: voucher %s has no delete record", apperrors.ErrNotFound, v.VoucherID)
	}

	elapsed := now.Sub(*v.DeletedAt)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	if elapsed > window {
		return nil, fmt.Errorf("%w: restore window of %s expired", apperrors.ErrForbidden, window)
	}
	return assoc, nil
}
