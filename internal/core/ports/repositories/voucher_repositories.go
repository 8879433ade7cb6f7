package repositories

import (
	"context"
	"time"

	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
)

// DeleteVoucherArgs bundles the rows one delete (or the delete half of a
// structural update) writes atomically: the offsetting mirror voucher, its
// line items, the DELETE event, the voucher association and the per-line-item
// associations pairing each original leg with its mirror.
type DeleteVoucherArgs struct {
	OriginalVoucherID    string
	MarkStatus           domain.VoucherStatus // Deleted for a plain delete, Superseded for an update
	DeletedAt            time.Time
	AssetIDs             []string // assets linked to the original, soft-deleted in lockstep
	MirrorVoucher        domain.Voucher
	MirrorLineItems      []domain.LineItem
	Event                domain.Event
	Association          domain.VoucherAssociation
	LineItemAssociations []domain.LineItemAssociation
	UpdatedByUserID      string
}

// ReplacementArgs bundles the create half of a structural update: the new
// voucher, its legs and asset links, plus any reversal bookkeeping to replay
// against it (new REVERSAL event/edges and the ids of line-item association
// rows the differ marked for removal).
type ReplacementArgs struct {
	Voucher                       domain.Voucher
	LineItems                     []domain.LineItem
	AssetLinks                    []domain.AssetVoucher
	ReversalEvent                 *domain.Event
	ReversalAssociations          []domain.VoucherAssociation
	LineItemAssociations          []domain.LineItemAssociation
	AssociationIDsToRemove        []string // associate_line_items rows superseded by the edit
	VoucherAssociationIDsToRemove []string // associate_vouchers rows superseded by the edit
}

// RestoreVoucherArgs carries the restore inputs. Window and Now are passed so
// the repository can re-evaluate the restore guard under a row lock inside the
// same transaction that performs the restore.
type RestoreVoucherArgs struct {
	OriginalVoucherID string
	MirrorVoucherID   string
	AssociationID     string
	AssetIDs          []string // assets linked to the original, restored in lockstep
	Window            time.Duration
	Now               time.Time
	UpdatedByUserID   string
}

// VoucherReader defines read operations for voucher data
type VoucherReader interface {
	// FindVoucherByID retrieves a voucher with its graph: line items with
	// their accounts, asset links, and association edges with their events and
	// line-item pairings. Vouchers on the far side of an edge are not loaded.
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)

	// FindVoucherByNumber retrieves a voucher graph by its per-book number.
	FindVoucherByNumber(ctx context.Context, bookID string, voucherNumber int64) (*domain.Voucher, error)

	// ListVouchersByBook retrieves a paginated list of vouchers for a book
	// using token-based pagination. Mirror vouchers (result side of an event)
	// are excluded; soft-deleted vouchers are excluded unless requested.
	ListVouchersByBook(ctx context.Context, bookID string, limit int, nextToken *string, includeDeleted bool) ([]domain.Voucher, *string, error)

	// FindLineItemsByIDs retrieves persisted line items (with accounts) by ID.
	FindLineItemsByIDs(ctx context.Context, lineItemIDs []string) (map[string]domain.LineItem, error)

	// FindLineItemAssociationsByOriginalIDs retrieves the live line-item
	// associations that already reverse any of the given original line items.
	FindLineItemAssociationsByOriginalIDs(ctx context.Context, originalLineItemIDs []string) ([]domain.LineItemAssociation, error)
}

// VoucherWriter defines the mutation operations. Every method is one atomic
// repository transaction: child rows are written after their parents and
// deleted before them, and nothing is observable on failure.
type VoucherWriter interface {
	// SaveVoucher persists a voucher with its line items, asset links and any
	// reversal bookkeeping carried in args, assigning the next per-book
	// voucher number when args.Voucher.VoucherNumber is zero. The assigned
	// number is returned.
	SaveVoucher(ctx context.Context, args ReplacementArgs) (int64, error)

	// UpdateVoucherMetadata rewrites non-ledger fields (date, type, note,
	// counterparty) of a posted voucher in place.
	UpdateVoucherMetadata(ctx context.Context, voucher domain.Voucher) error

	// DeleteVoucher soft-deletes the original voucher (cascading to its asset
	// links and to assets left without a live link) and persists the mirror
	// voucher, DELETE event and associations.
	DeleteVoucher(ctx context.Context, args DeleteVoucherArgs) error

	// SupersedeVoucher runs DeleteVoucher's writes and the replacement
	// voucher's writes in one transaction. The replacement's assigned voucher
	// number is returned.
	SupersedeVoucher(ctx context.Context, del DeleteVoucherArgs, repl ReplacementArgs) (int64, error)

	// RestoreVoucher re-checks restore eligibility under a row lock, clears
	// deletedAt on the original voucher, its asset links and their assets, and
	// hard-deletes the mirror voucher's rows children-first. Returns
	// apperrors.ErrNotFound/ErrForbidden when the guard fails.
	RestoreVoucher(ctx context.Context, args RestoreVoucherArgs) error
}

// VoucherRepositoryFacade combines all voucher-related repository interfaces
type VoucherRepositoryFacade interface {
	VoucherReader
	VoucherWriter
}

// VoucherRepositoryWithTx extends VoucherRepositoryFacade with transaction capabilities
type VoucherRepositoryWithTx interface {
	VoucherRepositoryFacade
	TransactionManager
}
