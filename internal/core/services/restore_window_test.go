package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voucherworks/voucher_ledger_app/internal/apperrors"
	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
	"github.com/voucherworks/voucher_ledger_app/internal/core/services"
)

func restorableVoucher(deletedAt time.Time) *domain.Voucher {
	voucherID := uuid.NewString()
	return &domain.Voucher{
		VoucherID: voucherID,
		Status:    domain.Deleted,
		DeletedAt: &deletedAt,
		OriginalAssociations: []domain.VoucherAssociation{
			{
				AssociationID:     uuid.NewString(),
				OriginalVoucherID: voucherID,
				ResultVoucherID:   uuid.NewString(),
				Event:             &domain.Event{EventID: uuid.NewString(), EventType: domain.EventDelete},
			},
		},
	}
}

func TestCheckRestorable_WindowBoundaries(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	window := 30 * time.Second

	testCases := []struct {
		name      string
		deletedAt time.Time
		wantErr   error
	}{
		{name: "just deleted", deletedAt: now, wantErr: nil},
		{name: "inside window", deletedAt: now.Add(-29 * time.Second), wantErr: nil},
		{name: "exactly at window", deletedAt: now.Add(-30 * time.Second), wantErr: nil},
		{name: "one second past window", deletedAt: now.Add(-31 * time.Second), wantErr: apperrors.ErrForbidden},
		// Clock skew between writer and checker must not brick the guard.
		{name: "deletedAt slightly in the future", deletedAt: now.Add(5 * time.Second), wantErr: nil},
		{name: "deletedAt far in the future", deletedAt: now.Add(time.Minute), wantErr: apperrors.ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			voucher := restorableVoucher(tc.deletedAt)
			assoc, err := services.CheckRestorable(voucher, now, window)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, assoc)
			assert.Equal(t, voucher.OriginalAssociations[0].AssociationID, assoc.AssociationID)
		})
	}
}

func TestCheckRestorable_NotDeleted(t *testing.T) {
	now := time.Now()
	voucher := restorableVoucher(now)
	voucher.DeletedAt = nil

	_, err := services.CheckRestorable(voucher, now, services.DefaultRestoreWindow)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCheckRestorable_NilVoucher(t *testing.T) {
	_, err := services.CheckRestorable(nil, time.Now(), services.DefaultRestoreWindow)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCheckRestorable_NoDeleteAssociation(t *testing.T) {
	now := time.Now()
	voucher := restorableVoucher(now)
	voucher.OriginalAssociations = nil

	_, err := services.CheckRestorable(voucher, now, services.DefaultRestoreWindow)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCheckRestorable_IgnoresReversalAssociations(t *testing.T) {
	now := time.Now()
	voucher := restorableVoucher(now)
	voucher.OriginalAssociations[0].Event.EventType = domain.EventReversal

	_, err := services.CheckRestorable(voucher, now, services.DefaultRestoreWindow)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCheckRestorable_IgnoresTombstonedDeleteEdge(t *testing.T) {
	now := time.Now()
	voucher := restorableVoucher(now)
	voucher.OriginalAssociations[0].DeletedAt = &now

	_, err := services.CheckRestorable(voucher, now, services.DefaultRestoreWindow)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
