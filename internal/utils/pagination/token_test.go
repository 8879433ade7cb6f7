package pagination_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voucherworks/voucher_ledger_app/internal/utils/pagination"
)

func TestTokenRoundTrip(t *testing.T) {
	voucherDate := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 3, 14, 15, 9, 26, 535897932, time.UTC)

	token := pagination.EncodeToken(voucherDate, createdAt)
	gotDate, gotCreated, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, voucherDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated))
}

func TestDecodeTokenRejectsGarbage(t *testing.T) {
	_, _, err := pagination.DecodeToken("not-base64!!")
	assert.Error(t, err)

	// Valid base64 but missing the separator.
	_, _, err = pagination.DecodeToken("aGVsbG8=")
	assert.Error(t, err)
}
