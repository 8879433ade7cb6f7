package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/voucherworks/voucher_ledger_app/internal/apperrors"
	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
	portsrepo "github.com/voucherworks/voucher_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/voucherworks/voucher_ledger_app/internal/core/ports/services"
	"github.com/voucherworks/voucher_ledger_app/internal/dto"
	"github.com/voucherworks/voucher_ledger_app/internal/middleware"
	"github.com/voucherworks/voucher_ledger_app/internal/utils/money"
)

var (
	ErrVoucherMinLineItems = errors.New("voucher must have at least two line items")
	ErrAccountNotFound     = errors.New("account not found")
	ErrNotPosted           = errors.New("voucher must be posted for this operation")
)

// voucherService implements the mutation orchestrator: every state change of
// a voucher funnels through here as one atomic repository transaction, and
// previously posted line items are never touched in place.
type voucherService struct {
	voucherRepo   portsrepo.VoucherRepositoryWithTx
	accountSvc    portssvc.AccountReaderSvc
	nettingSvc    portssvc.NettingSvcFacade
	restoreWindow time.Duration
	now           func() time.Time
}

// VoucherServiceOption customizes a voucherService.
type VoucherServiceOption func(*voucherService)

// WithRestoreWindow overrides the delete-undo window.
func WithRestoreWindow(window time.Duration) VoucherServiceOption {
	return func(s *voucherService) { s.restoreWindow = window }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) VoucherServiceOption {
	return func(s *voucherService) { s.now = now }
}

// NewVoucherService creates a new VoucherService.
func NewVoucherService(voucherRepo portsrepo.VoucherRepositoryWithTx, accountSvc portssvc.AccountReaderSvc, nettingSvc portssvc.NettingSvcFacade, opts ...VoucherServiceOption) portssvc.VoucherSvcFacade {
	s := &voucherService{
		voucherRepo:   voucherRepo,
		accountSvc:    accountSvc,
		nettingSvc:    nettingSvc,
		restoreWindow: DefaultRestoreWindow,
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure voucherService implements the portssvc.VoucherSvcFacade interface
var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

// validateVoucherBalance checks the double-entry invariant: the debit legs
// and credit legs must sum to exactly the same decimal value.
func validateVoucherBalance(lineItems []domain.LineItem) error {
	if len(lineItems) < 2 {
		return ErrVoucherMinLineItems
	}

	debitsSum := money.Zero
	creditsSum := money.Zero
	for _, li := range lineItems {
		if !money.IsPositive(li.Amount) {
			return fmt.Errorf("%w: line item amount must be positive for account %s", apperrors.ErrValidation, li.AccountID)
		}
		if li.Debit {
			debitsSum = money.Add(debitsSum, li.Amount)
		} else {
			creditsSum = money.Add(creditsSum, li.Amount)
		}
	}

	if !money.IsEqual(debitsSum, creditsSum) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s",
			apperrors.ErrImbalanced, debitsSum.String(), creditsSum.String())
	}
	return nil
}

// buildLineItems converts requested legs into domain line items with fresh
// IDs, resolves their accounts and returns the ref -> line item ID mapping
// used by reversal instructions.
func (s *voucherService) buildLineItems(ctx context.Context, bookID, voucherID string, reqs []dto.LineItemRequest, userID string, now time.Time) ([]domain.LineItem, map[string]string, error) {
	accountIDs := make([]string, 0, len(reqs))
	for _, li := range reqs {
		accountIDs = append(accountIDs, li.AccountID)
	}
	accountsMap, err := s.accountSvc.GetAccountByIDs(ctx, bookID, uniqueStrings(accountIDs))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
	lineItems := make([]domain.LineItem, len(reqs))
	idByRef := make(map[string]string, len(reqs))
	for i, liReq := range reqs {
		acc, found := accountsMap[liReq.AccountID]
		if !found {
			return nil, nil, fmt.Errorf("%w: %w: ID %s", apperrors.ErrInvalidReference, ErrAccountNotFound, liReq.AccountID)
		}
		if acc.BookID != bookID {
			return nil, nil, fmt.Errorf("%w: account %s does not belong to book %s", apperrors.ErrInvalidReference, liReq.AccountID, bookID)
		}
		if !acc.IsActive {
			return nil, nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, liReq.AccountID)
		}

		account := acc
		lineItems[i] = domain.LineItem{
			LineItemID:  uuid.NewString(),
			VoucherID:   voucherID,
			AccountID:   liReq.AccountID,
			Amount:      liReq.Amount,
			Debit:       liReq.Debit,
			Description: liReq.Description,
			AuditFields: audit,
			Account:     &account,
		}
		idByRef[liReq.Ref] = lineItems[i].LineItemID
	}
	return lineItems, idByRef, nil
}

// buildAssetLinks turns requested asset/certificate ids into join rows.
func buildAssetLinks(voucherID string, req dto.SaveVoucherRequest, userID string, now time.Time) []domain.AssetVoucher {
	ids := make([]string, 0, len(req.AssetIDs)+len(req.CertificateIDs))
	ids = append(ids, req.AssetIDs...)
	ids = append(ids, req.CertificateIDs...)
	ids = uniqueStrings(ids)

	links := make([]domain.AssetVoucher, len(ids))
	for i, assetID := range ids {
		links[i] = domain.AssetVoucher{
			AssetVoucherID: uuid.NewString(),
			AssetID:        assetID,
			VoucherID:      voucherID,
			AuditFields:    domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID},
		}
	}
	return links
}

// linkedAssetIDs collects the distinct asset ids referenced by a voucher's
// asset links. These follow the voucher through delete and restore.
func linkedAssetIDs(links []domain.AssetVoucher) []string {
	ids := make([]string, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.AssetID)
	}
	return uniqueStrings(ids)
}

// resolveReversalPlan runs the differ for a create or structural update.
// oldAssociations is empty on create.
func (s *voucherService) resolveReversalPlan(ctx context.Context, req dto.SaveVoucherRequest, oldAssociations []domain.VoucherAssociation) (*ReversalPlan, map[string]dto.LineItemRequest, error) {
	byRef, err := indexLineItemRequests(req.LineItems)
	if err != nil {
		return nil, nil, err
	}
	if len(req.ReverseVouchers) == 0 && len(oldAssociations) == 0 {
		return &ReversalPlan{}, byRef, nil
	}

	originalIDs := make([]string, 0, len(req.ReverseVouchers))
	for _, rv := range req.ReverseVouchers {
		originalIDs = append(originalIDs, rv.LineItemIDBeReversed)
	}
	originals := map[string]domain.LineItem{}
	var existing []domain.LineItemAssociation
	if len(originalIDs) > 0 {
		originals, err = s.voucherRepo.FindLineItemsByIDs(ctx, uniqueStrings(originalIDs))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch reversed line items: %w", err)
		}
		existing, err = s.voucherRepo.FindLineItemAssociationsByOriginalIDs(ctx, uniqueStrings(originalIDs))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch existing reversal associations: %w", err)
		}
	}

	plan, err := PlanReversals(oldAssociations, req.ReverseVouchers, byRef, originals, existing)
	if err != nil {
		return nil, nil, err
	}
	return plan, byRef, nil
}

// reversalRows materializes the plan's additions into event/association rows
// for the given result voucher, grouping pairs by original voucher under one
// REVERSAL event.
func reversalRows(plan *ReversalPlan, resultVoucherID string, idByRef map[string]string, userID string, now time.Time) (*domain.Event, []domain.VoucherAssociation, []domain.LineItemAssociation) {
	if len(plan.PairsToAdd) == 0 {
		return nil, nil, nil
	}

	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
	event := &domain.Event{
		EventID:     uuid.NewString(),
		EventType:   domain.EventReversal,
		OccurredAt:  now,
		AuditFields: audit,
	}

	assocByOriginalVoucher := make(map[string]*domain.VoucherAssociation)
	var assocs []domain.VoucherAssociation
	var liAssocs []domain.LineItemAssociation
	for _, pair := range plan.PairsToAdd {
		assoc, ok := assocByOriginalVoucher[pair.OriginalVoucherID]
		if !ok {
			assocs = append(assocs, domain.VoucherAssociation{
				AssociationID:     uuid.NewString(),
				EventID:           event.EventID,
				OriginalVoucherID: pair.OriginalVoucherID,
				ResultVoucherID:   resultVoucherID,
				AuditFields:       audit,
			})
			assoc = &assocs[len(assocs)-1]
			assocByOriginalVoucher[pair.OriginalVoucherID] = assoc
		}
		liAssocs = append(liAssocs, domain.LineItemAssociation{
			AssociationID:        uuid.NewString(),
			VoucherAssociationID: assoc.AssociationID,
			OriginalLineItemID:   pair.OriginalLineItemID,
			ResultLineItemID:     idByRef[pair.ResultRef],
			Amount:               pair.Amount,
			AuditFields:          audit,
		})
	}
	return event, assocs, liAssocs
}

// CreateVoucher validates the double-entry invariant and persists the voucher
// with its legs, asset links and any reversal instructions in one transaction.
// Implements portssvc.VoucherWriterSvc
func (s *voucherService) CreateVoucher(ctx context.Context, bookID string, req dto.SaveVoucherRequest, creatorUserID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := s.now()
	voucherID := uuid.NewString()

	lineItems, idByRef, err := s.buildLineItems(ctx, bookID, voucherID, req.LineItems, creatorUserID, now)
	if err != nil {
		return nil, err
	}
	if err := validateVoucherBalance(lineItems); err != nil {
		return nil, err
	}

	plan, _, err := s.resolveReversalPlan(ctx, req, nil)
	if err != nil {
		return nil, err
	}

	voucherType := domain.VoucherType(req.Type)
	if voucherType == "" {
		voucherType = domain.VoucherGeneral
	}
	voucher := domain.Voucher{
		VoucherID:      voucherID,
		BookID:         bookID,
		VoucherDate:    req.VoucherDate,
		Type:           voucherType,
		Note:           req.Note,
		CounterPartyID: req.CounterPartyID,
		Status:         domain.Posted,
		AuditFields:    domain.AuditFields{CreatedAt: now, CreatedBy: creatorUserID, LastUpdatedAt: now, LastUpdatedBy: creatorUserID},
	}
	if req.VoucherNumber != nil {
		voucher.VoucherNumber = *req.VoucherNumber
	}

	event, assocs, liAssocs := reversalRows(plan, voucherID, idByRef, creatorUserID, now)
	args := portsrepo.ReplacementArgs{
		Voucher:              voucher,
		LineItems:            lineItems,
		AssetLinks:           buildAssetLinks(voucherID, req, creatorUserID, now),
		ReversalEvent:        event,
		ReversalAssociations: assocs,
		LineItemAssociations: liAssocs,
	}

	assignedNumber, err := s.voucherRepo.SaveVoucher(ctx, args)
	if err != nil {
		logger.Error("Failed to save voucher", slog.String("error", err.Error()), slog.String("book_id", bookID))
		return nil, fmt.Errorf("failed to save voucher: %w", err)
	}
	voucher.VoucherNumber = assignedNumber
	voucher.LineItems = lineItems

	logger.Info("Voucher created", slog.String("voucher_id", voucher.VoucherID), slog.Int64("voucher_number", assignedNumber), slog.String("book_id", bookID))
	return &voucher, nil
}

// loadPostedVoucher fetches a voucher graph and checks book ownership and
// posted status.
func (s *voucherService) loadPostedVoucher(ctx context.Context, bookID, voucherID string) (*domain.Voucher, error) {
	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.BookID != bookID {
		// Obscure existence across books.
		return nil, apperrors.ErrNotFound
	}
	if voucher.Status != domain.Posted {
		return nil, fmt.Errorf("%w: status is %s", ErrNotPosted, voucher.Status)
	}
	return voucher, nil
}

// mirrorRows synthesizes the offsetting voucher for a delete: one leg per
// original leg with the debit flag flipped, wrapped in a DELETE event with
// one association edge and a per-leg pairing.
func mirrorRows(original *domain.Voucher, status domain.VoucherStatus, userID string, now time.Time) portsrepo.DeleteVoucherArgs {
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}

	mirror := domain.Voucher{
		VoucherID:      uuid.NewString(),
		BookID:         original.BookID,
		VoucherDate:    original.VoucherDate,
		Type:           original.Type,
		Note:           fmt.Sprintf("Offset of voucher #%d", original.VoucherNumber),
		CounterPartyID: original.CounterPartyID,
		Status:         domain.Posted,
		AuditFields:    audit,
	}

	mirrorItems := make([]domain.LineItem, len(original.LineItems))
	event := domain.Event{
		EventID:     uuid.NewString(),
		EventType:   domain.EventDelete,
		OccurredAt:  now,
		AuditFields: audit,
	}
	assoc := domain.VoucherAssociation{
		AssociationID:     uuid.NewString(),
		EventID:           event.EventID,
		OriginalVoucherID: original.VoucherID,
		ResultVoucherID:   mirror.VoucherID,
		AuditFields:       audit,
	}
	liAssocs := make([]domain.LineItemAssociation, len(original.LineItems))
	for i, li := range original.LineItems {
		m := li.Mirror()
		m.LineItemID = uuid.NewString()
		m.VoucherID = mirror.VoucherID
		m.AuditFields = audit
		mirrorItems[i] = m

		liAssocs[i] = domain.LineItemAssociation{
			AssociationID:        uuid.NewString(),
			VoucherAssociationID: assoc.AssociationID,
			OriginalLineItemID:   li.LineItemID,
			ResultLineItemID:     m.LineItemID,
			Amount:               li.Amount,
			AuditFields:          audit,
		}
	}

	return portsrepo.DeleteVoucherArgs{
		OriginalVoucherID:    original.VoucherID,
		MarkStatus:           status,
		DeletedAt:            now,
		AssetIDs:             linkedAssetIDs(original.AssetLinks),
		MirrorVoucher:        mirror,
		MirrorLineItems:      mirrorItems,
		Event:                event,
		Association:          assoc,
		LineItemAssociations: liAssocs,
		UpdatedByUserID:      userID,
	}
}

// metadataChanged reports whether a metadata-only update actually changes
// anything worth writing.
func metadataChanged(v *domain.Voucher, req dto.SaveVoucherRequest) bool {
	if !v.VoucherDate.Equal(req.VoucherDate) || v.Note != req.Note {
		return true
	}
	if req.Type != "" && v.Type != domain.VoucherType(req.Type) {
		return true
	}
	oldCP, newCP := "", ""
	if v.CounterPartyID != nil {
		oldCP = *v.CounterPartyID
	}
	if req.CounterPartyID != nil {
		newCP = *req.CounterPartyID
	}
	return oldCP != newCP
}

// UpdateVoucher applies a metadata edit in place when the requested line items
// match the persisted ones, and otherwise supersedes the voucher with a new
// one behind an offsetting mirror, all in one transaction.
// Implements portssvc.VoucherWriterSvc
func (s *voucherService) UpdateVoucher(ctx context.Context, bookID string, voucherID string, req dto.SaveVoucherRequest, requestingUserID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	voucher, err := s.loadPostedVoucher(ctx, bookID, voucherID)
	if err != nil {
		return nil, err
	}

	if SameLineItems(voucher.LineItems, req.LineItems) {
		if !metadataChanged(voucher, req) {
			logger.Debug("Voucher unchanged, skipping update", slog.String("voucher_id", voucherID))
			return voucher, nil
		}

		now := s.now()
		voucher.VoucherDate = req.VoucherDate
		voucher.Note = req.Note
		voucher.CounterPartyID = req.CounterPartyID
		if req.Type != "" {
			voucher.Type = domain.VoucherType(req.Type)
		}
		voucher.LastUpdatedAt = now
		voucher.LastUpdatedBy = requestingUserID

		if err := s.voucherRepo.UpdateVoucherMetadata(ctx, *voucher); err != nil {
			logger.Error("Failed to update voucher metadata", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
			return nil, fmt.Errorf("failed to update voucher: %w", err)
		}
		logger.Info("Voucher metadata updated", slog.String("voucher_id", voucherID))
		return voucher, nil
	}

	// Structural edit: delete-then-create, never an in-place line item edit.
	now := s.now()
	newVoucherID := uuid.NewString()

	lineItems, idByRef, err := s.buildLineItems(ctx, bookID, newVoucherID, req.LineItems, requestingUserID, now)
	if err != nil {
		return nil, err
	}
	if err := validateVoucherBalance(lineItems); err != nil {
		return nil, err
	}

	var oldAssociations []domain.VoucherAssociation
	if req.HasAction(dto.ActionRevert) || len(req.ReverseVouchers) > 0 {
		oldAssociations = voucher.ResultAssociations
	}
	plan, _, err := s.resolveReversalPlan(ctx, req, oldAssociations)
	if err != nil {
		return nil, err
	}

	voucherType := voucher.Type
	if req.Type != "" {
		voucherType = domain.VoucherType(req.Type)
	}
	replacement := domain.Voucher{
		VoucherID:      newVoucherID,
		BookID:         bookID,
		VoucherDate:    req.VoucherDate,
		Type:           voucherType,
		Note:           req.Note,
		CounterPartyID: req.CounterPartyID,
		Status:         domain.Posted,
		AuditFields:    domain.AuditFields{CreatedAt: now, CreatedBy: requestingUserID, LastUpdatedAt: now, LastUpdatedBy: requestingUserID},
	}

	var assetLinks []domain.AssetVoucher
	if req.HasAction(dto.ActionAddAsset) || len(req.AssetIDs) > 0 || len(req.CertificateIDs) > 0 {
		assetLinks = buildAssetLinks(newVoucherID, req, requestingUserID, now)
	}

	event, assocs, liAssocs := reversalRows(plan, newVoucherID, idByRef, requestingUserID, now)
	del := mirrorRows(voucher, domain.Superseded, requestingUserID, now)
	repl := portsrepo.ReplacementArgs{
		Voucher:                       replacement,
		LineItems:                     lineItems,
		AssetLinks:                    assetLinks,
		ReversalEvent:                 event,
		ReversalAssociations:          assocs,
		LineItemAssociations:          liAssocs,
		AssociationIDsToRemove:        plan.LineItemAssociationIDsToRemove,
		VoucherAssociationIDsToRemove: plan.VoucherAssociationIDsToRemove,
	}

	assignedNumber, err := s.voucherRepo.SupersedeVoucher(ctx, del, repl)
	if err != nil {
		logger.Error("Failed to supersede voucher", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to supersede voucher %s: %w", voucherID, err)
	}
	replacement.VoucherNumber = assignedNumber
	replacement.LineItems = lineItems

	logger.Info("Voucher superseded",
		slog.String("old_voucher_id", voucherID),
		slog.String("new_voucher_id", newVoucherID),
		slog.Int64("voucher_number", assignedNumber))
	return &replacement, nil
}

// DeleteVoucher soft-deletes a posted voucher behind a synthetic mirror that
// offsets it exactly, leaving every historical row queryable.
// Implements portssvc.VoucherWriterSvc
func (s *voucherService) DeleteVoucher(ctx context.Context, bookID string, voucherID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	voucher, err := s.loadPostedVoucher(ctx, bookID, voucherID)
	if err != nil {
		return err
	}

	args := mirrorRows(voucher, domain.Deleted, requestingUserID, s.now())
	if err := s.voucherRepo.DeleteVoucher(ctx, args); err != nil {
		logger.Error("Failed to delete voucher", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		return fmt.Errorf("failed to delete voucher %s: %w", voucherID, err)
	}

	logger.Info("Voucher deleted",
		slog.String("voucher_id", voucherID),
		slog.String("mirror_voucher_id", args.MirrorVoucher.VoucherID))
	return nil
}

// RestoreVoucher undoes a delete within the restore window: deletedAt is
// cleared on the voucher and its asset links, and the mirror voucher's rows
// are hard-deleted children-first. The eligibility guard runs here and again
// inside the repository transaction.
// Implements portssvc.VoucherWriterSvc
func (s *voucherService) RestoreVoucher(ctx context.Context, bookID string, voucherID string, requestingUserID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.BookID != bookID {
		return nil, apperrors.ErrNotFound
	}

	now := s.now()
	assoc, err := CheckRestorable(voucher, now, s.restoreWindow)
	if err != nil {
		logger.Warn("Voucher not restorable", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
		return nil, err
	}

	args := portsrepo.RestoreVoucherArgs{
		OriginalVoucherID: voucherID,
		MirrorVoucherID:   assoc.ResultVoucherID,
		AssociationID:     assoc.AssociationID,
		AssetIDs:          linkedAssetIDs(voucher.AssetLinks),
		Window:            s.restoreWindow,
		Now:               now,
		UpdatedByUserID:   requestingUserID,
	}
	if err := s.voucherRepo.RestoreVoucher(ctx, args); err != nil {
		logger.Error("Failed to restore voucher", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		return nil, err
	}

	restored, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload restored voucher %s: %w", voucherID, err)
	}

	logger.Info("Voucher restored", slog.String("voucher_id", voucherID), slog.String("mirror_voucher_id", assoc.ResultVoucherID))
	return restored, nil
}

// GetVoucherByID retrieves a voucher graph.
// Implements portssvc.VoucherReaderSvc
func (s *voucherService) GetVoucherByID(ctx context.Context, bookID string, voucherID string) (*domain.Voucher, error) {
	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.BookID != bookID {
		return nil, apperrors.ErrNotFound
	}
	return voucher, nil
}

// GetVoucherByNumber retrieves a voucher graph by its per-book number.
// Implements portssvc.VoucherReaderSvc
func (s *voucherService) GetVoucherByNumber(ctx context.Context, bookID string, voucherNumber int64) (*domain.Voucher, error) {
	return s.voucherRepo.FindVoucherByNumber(ctx, bookID, voucherNumber)
}

// GetVoucherDetail is the report read path: the voucher graph plus derived
// AP/AR exposure. Read-only and safe to run concurrently with mutations.
// Implements portssvc.VoucherReaderSvc
func (s *voucherService) GetVoucherDetail(ctx context.Context, bookID string, voucherID string) (*domain.Voucher, *domain.VoucherNetting, error) {
	voucher, err := s.GetVoucherByID(ctx, bookID, voucherID)
	if err != nil {
		return nil, nil, err
	}
	netting, err := s.nettingSvc.ComputeNetting(ctx, bookID, voucher)
	if err != nil {
		return nil, nil, err
	}
	return voucher, netting, nil
}

// ListVouchers retrieves a paginated page of vouchers for a book.
// Implements portssvc.VoucherReaderSvc
func (s *voucherService) ListVouchers(ctx context.Context, bookID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	vouchers, nextToken, err := s.voucherRepo.ListVouchersByBook(ctx, bookID, params.Limit, params.NextToken, params.IncludeDeleted)
	if err != nil {
		logger.Error("Failed to list vouchers", slog.String("error", err.Error()), slog.String("book_id", bookID))
		return nil, fmt.Errorf("failed to retrieve vouchers: %w", err)
	}

	resp := &dto.ListVouchersResponse{
		Vouchers:  make([]dto.VoucherResponse, len(vouchers)),
		NextToken: nextToken,
	}
	for i := range vouchers {
		resp.Vouchers[i] = dto.ToVoucherResponse(&vouchers[i])
	}
	return resp, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}

// balancesPerAccount sums debit and credit exposure per account code across
// vouchers. Used by tests to assert that a delete offsets the books exactly.
func balancesPerAccount(vouchers ...*domain.Voucher) map[string][2]decimal.Decimal {
	out := make(map[string][2]decimal.Decimal)
	for _, v := range vouchers {
		for _, li := range v.LineItems {
			code := li.AccountID
			if li.Account != nil {
				code = li.Account.Code
			}
			pair := out[code]
			if li.Debit {
				pair[0] = money.Add(pair[0], li.Amount)
			} else {
				pair[1] = money.Add(pair[1], li.Amount)
			}
			out[code] = pair
		}
	}
	return out
}
