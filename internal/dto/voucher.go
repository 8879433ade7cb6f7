package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
)

// Mutation actions the caller may request alongside a voucher write.
const (
	ActionAddAsset = "ADD_ASSET"
	ActionRevert   = "REVERT"
)

// LineItemRequest is one requested leg of a voucher. Ref is a caller-chosen
// key, unique within the request, used by ReverseVoucherRequest entries to
// point at a submitted line item without relying on array order.
type LineItemRequest struct {
	Ref         string          `json:"ref" binding:"required"`
	AccountID   string          `json:"accountID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required,decimalgt0"`
	Debit       bool            `json:"debit"`
	Description string          `json:"description"`
}

// ReverseVoucherRequest instructs the engine to record that the line item
// referenced by LineItemRefReverseOther (in this submission) reverses Amount
// of the persisted line item LineItemIDBeReversed on VoucherID.
type ReverseVoucherRequest struct {
	VoucherID               string          `json:"voucherID" binding:"required"`
	LineItemIDBeReversed    string          `json:"lineItemIDBeReversed" binding:"required"`
	LineItemRefReverseOther string          `json:"lineItemRefReverseOther" binding:"required"`
	Amount                  decimal.Decimal `json:"amount" binding:"required,decimalgt0"`
}

// SaveVoucherRequest is the mutation shape shared by create and update.
type SaveVoucherRequest struct {
	Actions         []string                `json:"actions" binding:"dive,oneof=ADD_ASSET REVERT"`
	VoucherNumber   *int64                  `json:"voucherNumber"` // Assigned per book when omitted
	VoucherDate     time.Time               `json:"voucherDate" binding:"required"`
	Type            string                  `json:"type" binding:"omitempty,oneof=GENERAL RECEIPT PAYMENT"`
	Note            string                  `json:"note"`
	CounterPartyID  *string                 `json:"counterPartyID"`
	LineItems       []LineItemRequest       `json:"lineItems" binding:"required,min=2,dive"`
	AssetIDs        []string                `json:"assetIDs"`
	CertificateIDs  []string                `json:"certificateIDs"`
	ReverseVouchers []ReverseVoucherRequest `json:"reverseVouchers" binding:"dive"`
}

// HasAction reports whether the caller requested the named action.
func (r SaveVoucherRequest) HasAction(action string) bool {
	for _, a := range r.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// LineItemResponse defines the data returned for one voucher leg.
type LineItemResponse struct {
	LineItemID  string          `json:"lineItemID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Debit       bool            `json:"debit"`
	Description string          `json:"description"`
}

// VoucherResponse defines the data returned for a voucher entry.
type VoucherResponse struct {
	VoucherID      string             `json:"voucherID"`
	BookID         string             `json:"bookID"`
	VoucherNumber  int64              `json:"voucherNumber"`
	VoucherDate    time.Time          `json:"voucherDate"`
	Type           string             `json:"type"`
	Note           string             `json:"note"`
	CounterPartyID *string            `json:"counterPartyID,omitempty"`
	Status         string             `json:"status"`
	DeletedAt      *time.Time         `json:"deletedAt,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	CreatedBy      string             `json:"createdBy"`
	LineItems      []LineItemResponse `json:"lineItems,omitempty"`
}

// NettingInfoResponse is the outstanding exposure for one category.
type NettingInfoResponse struct {
	Total           decimal.Decimal `json:"total"`
	AlreadyHappened decimal.Decimal `json:"alreadyHappened"`
	Remain          decimal.Decimal `json:"remain"`
}

// VoucherDetailResponse combines a voucher with its derived AP/AR exposure.
// A nil netting pointer means the category is absent, not settled-to-zero.
type VoucherDetailResponse struct {
	Voucher       VoucherResponse      `json:"voucher"`
	PayableInfo   *NettingInfoResponse `json:"payableInfo,omitempty"`
	ReceivingInfo *NettingInfoResponse `json:"receivingInfo,omitempty"`
}

// MutationResponse returns the id of the voucher a mutation produced or
// touched.
type MutationResponse struct {
	VoucherID string `json:"voucherID"`
}

// ListVouchersParams carries pagination inputs for voucher listing.
type ListVouchersParams struct {
	Limit          int     `form:"limit"`
	NextToken      *string `form:"nextToken"`
	IncludeDeleted bool    `form:"includeDeleted"`
}

// ListVouchersResponse is one page of vouchers plus the cursor for the next.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToLineItemResponse converts a domain.LineItem to LineItemResponse.
func ToLineItemResponse(li *domain.LineItem) LineItemResponse {
	resp := LineItemResponse{
		LineItemID:  li.LineItemID,
		AccountID:   li.AccountID,
		Amount:      li.Amount,
		Debit:       li.Debit,
		Description: li.Description,
	}
	if li.Account != nil {
		resp.AccountCode = li.Account.Code
	}
	return resp
}

// ToVoucherResponse converts a domain.Voucher to VoucherResponse.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	resp := VoucherResponse{
		VoucherID:      v.VoucherID,
		BookID:         v.BookID,
		VoucherNumber:  v.VoucherNumber,
		VoucherDate:    v.VoucherDate,
		Type:           string(v.Type),
		Note:           v.Note,
		CounterPartyID: v.CounterPartyID,
		Status:         string(v.Status),
		DeletedAt:      v.DeletedAt,
		CreatedAt:      v.CreatedAt,
		CreatedBy:      v.CreatedBy,
	}
	for i := range v.LineItems {
		resp.LineItems = append(resp.LineItems, ToLineItemResponse(&v.LineItems[i]))
	}
	return resp
}

// ToNettingInfoResponse converts a domain.NettingInfo, keeping absence as nil.
func ToNettingInfoResponse(info *domain.NettingInfo) *NettingInfoResponse {
	if info == nil {
		return nil
	}
	return &NettingInfoResponse{
		Total:           info.Total,
		AlreadyHappened: info.AlreadyHappened,
		Remain:          info.Remain,
	}
}

// ToVoucherDetailResponse combines a voucher and its netting result.
func ToVoucherDetailResponse(v *domain.Voucher, netting *domain.VoucherNetting) VoucherDetailResponse {
	resp := VoucherDetailResponse{Voucher: ToVoucherResponse(v)}
	if netting != nil {
		resp.PayableInfo = ToNettingInfoResponse(netting.PayableInfo)
		resp.ReceivingInfo = ToNettingInfoResponse(netting.ReceivingInfo)
	}
	return resp
}
