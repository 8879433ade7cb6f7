package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/voucherworks/voucher_ledger_app/internal/apperrors"
	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
	"github.com/voucherworks/voucher_ledger_app/internal/dto"
	"github.com/voucherworks/voucher_ledger_app/internal/utils/money"
)

var (
	ErrDuplicateLineItemRef = errors.New("line item refs must be unique within a request")
	ErrOverReversal         = errors.New("reversal amounts jointly exceed the original line item amount")
	ErrReversalSideMismatch = errors.New("reversing line item must hit the same account on the opposite side")
)

// lineItemKey identifies one voucher leg for structural comparison. It
// deliberately excludes description and IDs: a cosmetic edit to a line's memo
// is not a structural change.
type lineItemKey struct {
	accountID string
	debit     bool
	amount    string
}

func keyOf(accountID string, debit bool, amount decimal.Decimal) lineItemKey {
	return lineItemKey{accountID: accountID, debit: debit, amount: amount.String()}
}

// SameLineItems reports whether the persisted legs and the requested legs form
// the same multiset under lineItemKey. When they do, the edit is
// metadata-only and must not touch the ledger.
func SameLineItems(existing []domain.LineItem, requested []dto.LineItemRequest) bool {
	if len(existing) != len(requested) {
		return false
	}
	counts := make(map[lineItemKey]int, len(existing))
	for _, li := range existing {
		counts[keyOf(li.AccountID, li.Debit, li.Amount)]++
	}
	for _, li := range requested {
		k := keyOf(li.AccountID, li.Debit, li.Amount)
		counts[k]--
		if counts[k] < 0 {
			return false
		}
	}
	return true
}

// ResolvedReversalPair is one reversal instruction resolved against persisted
// data: the original line item (and its voucher) plus the ref of the
// submitted line item that reverses it. The orchestrator maps ResultRef to
// the new line item's ID once IDs are assigned.
type ResolvedReversalPair struct {
	OriginalVoucherID  string
	OriginalLineItemID string
	ResultRef          string
	Amount             decimal.Decimal
}

// ReversalPlan is the differ's output: association rows to tear down and
// resolved pairs to create, consumed by the orchestrator inside the mutation
// transaction.
type ReversalPlan struct {
	LineItemAssociationIDsToRemove []string
	VoucherAssociationIDsToRemove  []string
	PairsToAdd                     []ResolvedReversalPair
}

// IsEmpty reports whether the plan changes nothing.
func (p *ReversalPlan) IsEmpty() bool {
	return len(p.LineItemAssociationIDsToRemove) == 0 &&
		len(p.VoucherAssociationIDsToRemove) == 0 &&
		len(p.PairsToAdd) == 0
}

// PlanReversals resolves the caller's reversal instructions and diffs them
// against the reversal edges currently rooted at the edited voucher.
//
// Old edges are the REVERSAL-typed associations where the edited voucher is
// the result side; since a structural edit supersedes every one of its line
// items, all of those edges are marked for removal and the instructions are
// re-created against the replacement voucher. Instructions reference
// submitted line items by their per-request ref, never by array position.
//
// existingReversals are the live associations already consuming the targeted
// original line items (across all vouchers); they feed the over-reversal
// check after the removed rows are discounted.
func PlanReversals(
	oldAssociations []domain.VoucherAssociation,
	reqs []dto.ReverseVoucherRequest,
	submitted map[string]dto.LineItemRequest,
	originals map[string]domain.LineItem,
	existingReversals []domain.LineItemAssociation,
) (*ReversalPlan, error) {
	plan := &ReversalPlan{}

	removed := make(map[string]bool)
	for _, assoc := range oldAssociations {
		if assoc.DeletedAt != nil || assoc.Event == nil || assoc.Event.EventType != domain.EventReversal {
			continue
		}
		plan.VoucherAssociationIDsToRemove = append(plan.VoucherAssociationIDsToRemove, assoc.AssociationID)
		for _, lia := range assoc.LineItemAssociations {
			plan.LineItemAssociationIDsToRemove = append(plan.LineItemAssociationIDsToRemove, lia.AssociationID)
			removed[lia.AssociationID] = true
		}
	}

	// Reversed amount still consumed per original line item, ignoring the
	// rows this plan removes.
	consumed := make(map[string]decimal.Decimal)
	for _, lia := range existingReversals {
		if removed[lia.AssociationID] {
			continue
		}
		consumed[lia.OriginalLineItemID] = money.Add(consumed[lia.OriginalLineItemID], lia.Amount)
	}

	// Amount claimed per submitted line item across all instructions in this
	// request. A reversing leg cannot back more than its own amount.
	claimed := make(map[string]decimal.Decimal)

	for _, req := range reqs {
		reverser, ok := submitted[req.LineItemRefReverseOther]
		if !ok {
			return nil, fmt.Errorf("%w: unknown line item ref %q", apperrors.ErrInvalidReference, req.LineItemRefReverseOther)
		}
		original, ok := originals[req.LineItemIDBeReversed]
		if !ok {
			return nil, fmt.Errorf("%w: unknown line item %s", apperrors.ErrInvalidReference, req.LineItemIDBeReversed)
		}
		if original.VoucherID != req.VoucherID {
			return nil, fmt.Errorf("%w: line item %s does not belong to voucher %s", apperrors.ErrInvalidReference, req.LineItemIDBeReversed, req.VoucherID)
		}
		if reverser.AccountID != original.AccountID || reverser.Debit == original.Debit {
			return nil, fmt.Errorf("%w: line item %s", ErrReversalSideMismatch, req.LineItemIDBeReversed)
		}
		if !money.IsPositive(req.Amount) {
			return nil, fmt.Errorf("%w: reversal amount must be positive", apperrors.ErrValidation)
		}
		newClaim := money.Add(claimed[req.LineItemRefReverseOther], req.Amount)
		if newClaim.GreaterThan(reverser.Amount) {
			return nil, fmt.Errorf("%w: reversal claims of %s exceed the reversing line item amount %s", apperrors.ErrValidation, newClaim, reverser.Amount)
		}
		claimed[req.LineItemRefReverseOther] = newClaim

		newTotal := money.Add(consumed[original.LineItemID], req.Amount)
		if newTotal.GreaterThan(original.Amount) {
			return nil, fmt.Errorf("%w: line item %s has %s of %s already reversed", ErrOverReversal, original.LineItemID, consumed[original.LineItemID], original.Amount)
		}
		consumed[original.LineItemID] = newTotal

		plan.PairsToAdd = append(plan.PairsToAdd, ResolvedReversalPair{
			OriginalVoucherID:  original.VoucherID,
			OriginalLineItemID: original.LineItemID,
			ResultRef:          req.LineItemRefReverseOther,
			Amount:             req.Amount,
		})
	}

	return plan, nil
}

// indexLineItemRequests maps submitted line items by ref, rejecting duplicates.
func indexLineItemRequests(items []dto.LineItemRequest) (map[string]dto.LineItemRequest, error) {
	byRef := make(map[string]dto.LineItemRequest, len(items))
	for _, li := range items {
		if _, exists := byRef[li.Ref]; exists {
			return nil, fmt.Errorf("%w: ref %q", ErrDuplicateLineItemRef, li.Ref)
		}
		byRef[li.Ref] = li
	}
	return byRef, nil
}
