package domain

import "github.com/shopspring/decimal"

// NettingInfo describes outstanding exposure for one category (payable or
// receivable) derived from the event graph of a voucher.
type NettingInfo struct {
	Total           decimal.Decimal `json:"total"`           // Original exposure recorded by the voucher
	AlreadyHappened decimal.Decimal `json:"alreadyHappened"` // Exposure settled by reversing vouchers
	Remain          decimal.Decimal `json:"remain"`          // Total - AlreadyHappened
}

// VoucherNetting carries the derived AP/AR exposure for a voucher. A nil
// pointer means the category is absent for this voucher, which is distinct
// from exposure that exists and nets to zero remaining.
type VoucherNetting struct {
	PayableInfo   *NettingInfo `json:"payableInfo,omitempty"`
	ReceivingInfo *NettingInfo `json:"receivingInfo,omitempty"`
}
