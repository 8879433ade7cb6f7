package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/voucherworks/voucher_ledger_app/internal/apperrors"
	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
	portsrepo "github.com/voucherworks/voucher_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/voucherworks/voucher_ledger_app/internal/core/ports/services"
	"github.com/voucherworks/voucher_ledger_app/internal/middleware"
	"github.com/voucherworks/voucher_ledger_app/internal/utils/money"
)

// nettingService derives outstanding AP/AR exposure from the event graph of a
// voucher. It only ever reads.
type nettingService struct {
	voucherRepo portsrepo.VoucherReader
	accountRepo portsrepo.AccountReader
}

// NewNettingService creates a new netting service.
func NewNettingService(voucherRepo portsrepo.VoucherReader, accountRepo portsrepo.AccountReader) portssvc.NettingSvcFacade {
	return &nettingService{
		voucherRepo: voucherRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.NettingSvcFacade = (*nettingService)(nil)

// eventNetting is the per-event contribution of one category.
type eventNetting struct {
	total           decimal.Decimal
	alreadyHappened decimal.Decimal
	remain          decimal.Decimal
}

func (e eventNetting) add(other eventNetting) eventNetting {
	return eventNetting{
		total:           money.Add(e.total, other.total),
		alreadyHappened: money.Add(e.alreadyHappened, other.alreadyHappened),
		remain:          money.Add(e.remain, other.remain),
	}
}

// netCategory computes one category's contribution of a single event.
//
// A line item on the original side joins the pool only when it sits on the
// account's natural side (it created exposure). A line item on the result
// side joins the reversing pool only when it sits on the opposite side (it
// undid exposure). Same-code line items are summed inside each pool before
// the pools are compared, and a reversing code nets exposure only when the
// original pool also carries it.
func netCategory(
	originalItems, resultItems []domain.LineItem,
	inCategory func(code string) bool,
) eventNetting {
	originalPool := make(map[string]decimal.Decimal)
	for _, li := range originalItems {
		if li.Account == nil || !inCategory(li.Account.Code) {
			continue
		}
		if li.Debit != li.Account.Debit {
			continue
		}
		originalPool[li.Account.Code] = money.Add(originalPool[li.Account.Code], li.Amount)
	}

	reversingPool := make(map[string]decimal.Decimal)
	for _, li := range resultItems {
		if li.Account == nil || !inCategory(li.Account.Code) {
			continue
		}
		if li.Debit == li.Account.Debit {
			continue
		}
		reversingPool[li.Account.Code] = money.Add(reversingPool[li.Account.Code], li.Amount)
	}

	out := eventNetting{total: money.Zero, alreadyHappened: money.Zero, remain: money.Zero}
	for _, amount := range originalPool {
		out.total = money.Add(out.total, amount)
	}
	out.remain = out.total
	for code, reversed := range reversingPool {
		if _, ok := originalPool[code]; !ok {
			continue
		}
		out.alreadyHappened = money.Add(out.alreadyHappened, reversed)
		out.remain = money.Subtract(out.remain, reversed)
	}
	return out
}

// ComputeNetting folds per-event netting across every association reachable
// from the voucher. The walk is an explicit worklist over voucher nodes and
// association edges with visited sets on both, so cycles are ignored by
// construction.
func (s *nettingService) ComputeNetting(ctx context.Context, bookID string, voucher *domain.Voucher) (*domain.VoucherNetting, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	setting, err := s.accountRepo.FindAccountSetting(ctx, bookID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("No account setting configured for netting", slog.String("book_id", bookID))
		}
		return nil, fmt.Errorf("failed to load account setting for book %s: %w", bookID, err)
	}

	payable := eventNetting{total: money.Zero, alreadyHappened: money.Zero, remain: money.Zero}
	receivable := eventNetting{total: money.Zero, alreadyHappened: money.Zero, remain: money.Zero}

	visitedVouchers := map[string]bool{}
	visitedEdges := map[string]bool{}
	worklist := []*domain.Voucher{voucher}

	for len(worklist) > 0 {
		v := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		if visitedVouchers[v.VoucherID] {
			continue
		}
		visitedVouchers[v.VoucherID] = true

		edges := make([]domain.VoucherAssociation, 0, len(v.OriginalAssociations)+len(v.ResultAssociations))
		edges = append(edges, v.OriginalAssociations...)
		edges = append(edges, v.ResultAssociations...)

		for _, assoc := range edges {
			if assoc.DeletedAt != nil || visitedEdges[assoc.AssociationID] {
				continue
			}
			visitedEdges[assoc.AssociationID] = true

			// The repository loads edges without the voucher on the far side;
			// fetch it here so both sides carry line items and accounts.
			farID := assoc.ResultVoucherID
			if farID == v.VoucherID {
				farID = assoc.OriginalVoucherID
			}
			far := assoc.OriginalVoucher
			if assoc.OriginalVoucherID == v.VoucherID {
				far = assoc.ResultVoucher
			}
			if far == nil {
				far, err = s.voucherRepo.FindVoucherByID(ctx, farID)
				if err != nil {
					return nil, fmt.Errorf("failed to walk association graph at voucher %s: %w", farID, err)
				}
			}

			originalSide, resultSide := v, far
			if assoc.ResultVoucherID == v.VoucherID {
				originalSide, resultSide = far, v
			}
			if assoc.OriginalVoucherID == assoc.ResultVoucherID {
				logger.Warn("Association edge is self-referential, skipping",
					slog.String("association_id", assoc.AssociationID))
				continue
			}

			payable = payable.add(netCategory(originalSide.LineItems, resultSide.LineItems, setting.IsPayableCode))
			receivable = receivable.add(netCategory(originalSide.LineItems, resultSide.LineItems, setting.IsReceivableCode))

			if !visitedVouchers[farID] {
				worklist = append(worklist, far)
			}
		}
	}

	result := &domain.VoucherNetting{}
	// A zero total means the category is absent for this voucher, not settled.
	if !money.IsZero(payable.total) {
		result.PayableInfo = &domain.NettingInfo{
			Total:           payable.total,
			AlreadyHappened: payable.alreadyHappened,
			Remain:          payable.remain,
		}
	}
	if !money.IsZero(receivable.total) {
		result.ReceivingInfo = &domain.NettingInfo{
			Total:           receivable.total,
			AlreadyHappened: receivable.alreadyHappened,
			Remain:          receivable.remain,
		}
	}
	return result, nil
}
