package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voucherworks/voucher_ledger_app/internal/apperrors"
	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
	portsrepo "github.com/voucherworks/voucher_ledger_app/internal/core/ports/repositories"
	"github.com/voucherworks/voucher_ledger_app/internal/models"
	"github.com/voucherworks/voucher_ledger_app/internal/utils/mapping"
	"github.com/voucherworks/voucher_ledger_app/internal/utils/pagination"
)

type PgxVoucherRepository struct {
	BaseRepository
}

// newPgxVoucherRepository creates a new repository for voucher and event data.
func newPgxVoucherRepository(pool *pgxpool.Pool) portsrepo.VoucherRepositoryWithTx {
	return &PgxVoucherRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxVoucherRepository implements portsrepo.VoucherRepositoryWithTx
var _ portsrepo.VoucherRepositoryWithTx = (*PgxVoucherRepository)(nil)

const voucherColumns = `voucher_id, book_id, voucher_number, voucher_date, type, note, counter_party_id, status, deleted_at, created_at, created_by, last_updated_at, last_updated_by`

const lineItemWithAccountColumns = `li.line_item_id, li.voucher_id, li.account_id, li.amount, li.debit, li.description,
	li.created_at, li.created_by, li.last_updated_at, li.last_updated_by,
	a.code, a.debit, a.name`

// nextVoucherNumber assigns the next per-book voucher number inside tx. An
// advisory lock keyed on the book serializes concurrent assignments so two
// commits cannot pick the same number.
func nextVoucherNumber(ctx context.Context, tx pgx.Tx, bookID string) (int64, error) {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, bookID); err != nil {
		return 0, apperrors.NewAppError(500, "failed to take voucher number lock for book "+bookID, err)
	}

	var next int64
	err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(voucher_number), 0) + 1 FROM vouchers WHERE book_id = $1;`, bookID).Scan(&next)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to compute next voucher number for book "+bookID, err)
	}
	return next, nil
}

// insertVoucherTx writes one voucher with its legs, asset links and reversal
// bookkeeping inside an open transaction. Parents are written before children.
func (r *PgxVoucherRepository) insertVoucherTx(ctx context.Context, tx pgx.Tx, args portsrepo.ReplacementArgs) (int64, error) {
	modelVoucher := mapping.ToModelVoucher(args.Voucher)
	if modelVoucher.VoucherNumber == 0 {
		number, err := nextVoucherNumber(ctx, tx, modelVoucher.BookID)
		if err != nil {
			return 0, err
		}
		modelVoucher.VoucherNumber = number
	}

	voucherQuery := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, voucherQuery,
		modelVoucher.VoucherID,
		modelVoucher.BookID,
		modelVoucher.VoucherNumber,
		modelVoucher.VoucherDate,
		modelVoucher.Type,
		modelVoucher.Note,
		modelVoucher.CounterPartyID,
		modelVoucher.Status,
		modelVoucher.DeletedAt,
		modelVoucher.CreatedAt,
		modelVoucher.CreatedBy,
		modelVoucher.LastUpdatedAt,
		modelVoucher.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return 0, fmt.Errorf("%w: voucher number %d already exists in book %s",
				apperrors.ErrDuplicate, modelVoucher.VoucherNumber, modelVoucher.BookID)
		}
		return 0, apperrors.NewAppError(500, "failed to insert voucher "+modelVoucher.VoucherID, err)
	}

	batch := &pgx.Batch{}
	lineItemQuery := `
		INSERT INTO line_items (line_item_id, voucher_id, account_id, amount, debit, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, li := range args.LineItems {
		m := mapping.ToModelLineItem(li)
		batch.Queue(lineItemQuery,
			m.LineItemID, m.VoucherID, m.AccountID, m.Amount, m.Debit, m.Description,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}

	assetLinkQuery := `
		INSERT INTO asset_vouchers (asset_voucher_id, asset_id, voucher_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, link := range args.AssetLinks {
		m := mapping.ToModelAssetVoucher(link)
		batch.Queue(assetLinkQuery,
			m.AssetVoucherID, m.AssetID, m.VoucherID,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}
	// A fresh live link revives an asset tombstoned with its previous voucher.
	// The delete half of a supersede runs first, so carried-over assets would
	// otherwise stay deleted.
	if len(args.AssetLinks) > 0 {
		assetIDs := make([]string, 0, len(args.AssetLinks))
		for _, link := range args.AssetLinks {
			assetIDs = append(assetIDs, link.AssetID)
		}
		batch.Queue(`UPDATE assets SET deleted_at = NULL, last_updated_at = $2, last_updated_by = $3 WHERE asset_id = ANY($1) AND deleted_at IS NOT NULL;`,
			assetIDs, modelVoucher.LastUpdatedAt, modelVoucher.LastUpdatedBy)
	}

	if args.ReversalEvent != nil {
		if err := queueEventRows(batch, *args.ReversalEvent, args.ReversalAssociations, args.LineItemAssociations); err != nil {
			return 0, err
		}
	}

	// Reversal rows superseded by this edit. Line-item pairings go away
	// entirely; the voucher edge keeps its row for the audit trail and is
	// tombstoned.
	if len(args.AssociationIDsToRemove) > 0 {
		batch.Queue(`DELETE FROM associate_line_items WHERE association_id = ANY($1);`, args.AssociationIDsToRemove)
	}
	if len(args.VoucherAssociationIDsToRemove) > 0 {
		batch.Queue(`UPDATE associate_vouchers SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3 WHERE association_id = ANY($1);`,
			args.VoucherAssociationIDsToRemove, modelVoucher.LastUpdatedAt, modelVoucher.LastUpdatedBy)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return 0, apperrors.NewAppError(500, "failed to execute insert batch for voucher "+modelVoucher.VoucherID, err)
	}

	return modelVoucher.VoucherNumber, nil
}

// queueEventRows queues an event with its voucher and line-item association
// rows onto batch.
func queueEventRows(batch *pgx.Batch, event domain.Event, assocs []domain.VoucherAssociation, liAssocs []domain.LineItemAssociation) error {
	modelEvent := mapping.ToModelEvent(event)
	batch.Queue(`
		INSERT INTO events (event_id, event_type, occurred_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`, modelEvent.EventID, modelEvent.EventType, modelEvent.OccurredAt,
		modelEvent.CreatedAt, modelEvent.CreatedBy, modelEvent.LastUpdatedAt, modelEvent.LastUpdatedBy)

	for _, assoc := range assocs {
		m := mapping.ToModelVoucherAssociation(assoc)
		batch.Queue(`
			INSERT INTO associate_vouchers (association_id, event_id, original_voucher_id, result_voucher_id, deleted_at, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
		`, m.AssociationID, m.EventID, m.OriginalVoucherID, m.ResultVoucherID, m.DeletedAt,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	}

	for _, lia := range liAssocs {
		m := mapping.ToModelLineItemAssociation(lia)
		batch.Queue(`
			INSERT INTO associate_line_items (association_id, voucher_association_id, original_line_item_id, result_line_item_id, amount, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
		`, m.AssociationID, m.VoucherAssociationID, m.OriginalLineItemID, m.ResultLineItemID, m.Amount,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	}
	return nil
}

// SaveVoucher persists a voucher with everything it carries in one transaction.
func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, args portsrepo.ReplacementArgs) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	number, err := r.insertVoucherTx(ctx, tx, args)
	if err != nil {
		return 0, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, apperrors.NewTransactionError("failed to commit voucher transaction", err)
	}
	return number, nil
}

// deleteVoucherTx runs the delete half: tombstone the original voucher, its
// asset links and the assets left without a live link, then write the mirror
// voucher with its DELETE event rows.
func (r *PgxVoucherRepository) deleteVoucherTx(ctx context.Context, tx pgx.Tx, args portsrepo.DeleteVoucherArgs) error {
	markQuery := `
		UPDATE vouchers
		SET status = $2, deleted_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE voucher_id = $1 AND status = 'POSTED';
	`
	cmdTag, err := tx.Exec(ctx, markQuery, args.OriginalVoucherID, string(args.MarkStatus), args.DeletedAt, args.UpdatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark voucher "+args.OriginalVoucherID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("voucher " + args.OriginalVoucherID + " not found or not posted")
	}

	// Asset links follow their voucher.
	_, err = tx.Exec(ctx, `
		UPDATE asset_vouchers SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE voucher_id = $1 AND deleted_at IS NULL;
	`, args.OriginalVoucherID, args.DeletedAt, args.UpdatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to tombstone asset links for voucher "+args.OriginalVoucherID, err)
	}

	// Assets whose last live link was just tombstoned go with their voucher.
	// An asset still linked to another live voucher stays.
	if len(args.AssetIDs) > 0 {
		_, err = tx.Exec(ctx, `
			UPDATE assets SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
			WHERE asset_id = ANY($1) AND deleted_at IS NULL
			AND NOT EXISTS (SELECT 1 FROM asset_vouchers av WHERE av.asset_id = assets.asset_id AND av.deleted_at IS NULL);
		`, args.AssetIDs, args.DeletedAt, args.UpdatedByUserID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to tombstone assets for voucher "+args.OriginalVoucherID, err)
		}
	}

	mirrorArgs := portsrepo.ReplacementArgs{
		Voucher:   args.MirrorVoucher,
		LineItems: args.MirrorLineItems,
	}
	if _, err := r.insertVoucherTx(ctx, tx, mirrorArgs); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	if err := queueEventRows(batch, args.Event, []domain.VoucherAssociation{args.Association}, args.LineItemAssociations); err != nil {
		return err
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute delete event batch for voucher "+args.OriginalVoucherID, err)
	}
	return nil
}

// DeleteVoucher soft-deletes a voucher behind its offsetting mirror.
func (r *PgxVoucherRepository) DeleteVoucher(ctx context.Context, args portsrepo.DeleteVoucherArgs) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.deleteVoucherTx(ctx, tx, args); err != nil {
		return err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewTransactionError("failed to commit voucher transaction", err)
	}
	return nil
}

// SupersedeVoucher runs the delete half and the replacement's writes in one
// transaction, so a structural edit is all-or-nothing.
func (r *PgxVoucherRepository) SupersedeVoucher(ctx context.Context, del portsrepo.DeleteVoucherArgs, repl portsrepo.ReplacementArgs) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	if err := r.deleteVoucherTx(ctx, tx, del); err != nil {
		return 0, err
	}
	number, err := r.insertVoucherTx(ctx, tx, repl)
	if err != nil {
		return 0, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, apperrors.NewTransactionError("failed to commit voucher transaction", err)
	}
	return number, nil
}

// UpdateVoucherMetadata rewrites non-ledger fields of a posted voucher in
// place. Line items are never touched here.
func (r *PgxVoucherRepository) UpdateVoucherMetadata(ctx context.Context, voucher domain.Voucher) error {
	modelVoucher := mapping.ToModelVoucher(voucher)

	query := `
		UPDATE vouchers
		SET voucher_date = $2, type = $3, note = $4, counter_party_id = $5, last_updated_at = $6, last_updated_by = $7
		WHERE voucher_id = $1 AND status = 'POSTED';
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelVoucher.VoucherID,
		modelVoucher.VoucherDate,
		modelVoucher.Type,
		modelVoucher.Note,
		modelVoucher.CounterPartyID,
		modelVoucher.LastUpdatedAt,
		modelVoucher.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update voucher "+modelVoucher.VoucherID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("voucher " + modelVoucher.VoucherID + " not found for update")
	}
	return nil
}

// RestoreVoucher re-checks the restore guard under a row lock, then undoes the
// delete: the original voucher, its asset links and their assets come back,
// and the mirror's rows are removed children-first.
func (r *PgxVoucherRepository) RestoreVoucher(ctx context.Context, args portsrepo.RestoreVoucherArgs) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Guard re-evaluated transactionally; the service's check may have raced
	// another restore or a very old clock.
	var status string
	var deletedAt *time.Time
	err = tx.QueryRow(ctx, `SELECT status, deleted_at FROM vouchers WHERE voucher_id = $1 FOR UPDATE;`, args.OriginalVoucherID).
		Scan(&status, &deletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock voucher "+args.OriginalVoucherID+" for restore", err)
	}
	if status != string(models.Deleted) || deletedAt == nil {
		return fmt.Errorf("%w: voucher %s is not deleted", apperrors.ErrNotFound, args.OriginalVoucherID)
	}
	elapsed := args.Now.Sub(*deletedAt)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	if elapsed > args.Window {
		return fmt.Errorf("%w: restore window elapsed for voucher %s", apperrors.ErrForbidden, args.OriginalVoucherID)
	}

	_, err = tx.Exec(ctx, `
		UPDATE vouchers SET status = 'POSTED', deleted_at = NULL, last_updated_at = $2, last_updated_by = $3
		WHERE voucher_id = $1;
	`, args.OriginalVoucherID, args.Now, args.UpdatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to restore voucher "+args.OriginalVoucherID, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE asset_vouchers SET deleted_at = NULL, last_updated_at = $2, last_updated_by = $3
		WHERE voucher_id = $1;
	`, args.OriginalVoucherID, args.Now, args.UpdatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to restore asset links for voucher "+args.OriginalVoucherID, err)
	}

	if len(args.AssetIDs) > 0 {
		_, err = tx.Exec(ctx, `
			UPDATE assets SET deleted_at = NULL, last_updated_at = $2, last_updated_by = $3
			WHERE asset_id = ANY($1) AND deleted_at IS NOT NULL;
		`, args.AssetIDs, args.Now, args.UpdatedByUserID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to restore assets for voucher "+args.OriginalVoucherID, err)
		}
	}

	// Mirror rows go away entirely, children first per the foreign keys:
	// pairings, then the edge, then the event, then the mirror's legs and row.
	if _, err := tx.Exec(ctx, `DELETE FROM associate_line_items WHERE voucher_association_id = $1;`, args.AssociationID); err != nil {
		return apperrors.NewAppError(500, "failed to remove delete pairings for association "+args.AssociationID, err)
	}

	var eventID string
	err = tx.QueryRow(ctx, `DELETE FROM associate_vouchers WHERE association_id = $1 RETURNING event_id;`, args.AssociationID).Scan(&eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: delete association %s already removed", apperrors.ErrNotFound, args.AssociationID)
		}
		return apperrors.NewAppError(500, "failed to remove delete association "+args.AssociationID, err)
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM events WHERE event_id = $1;`, eventID)
	batch.Queue(`DELETE FROM line_items WHERE voucher_id = $1;`, args.MirrorVoucherID)
	batch.Queue(`DELETE FROM vouchers WHERE voucher_id = $1;`, args.MirrorVoucherID)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to remove mirror voucher "+args.MirrorVoucherID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewTransactionError("failed to commit voucher transaction", err)
	}
	return nil
}

// FindVoucherByID retrieves a voucher with its full graph.
func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_id = $1;`

	var m models.Voucher
	err := r.Pool.QueryRow(ctx, query, voucherID).Scan(
		&m.VoucherID, &m.BookID, &m.VoucherNumber, &m.VoucherDate, &m.Type, &m.Note,
		&m.CounterPartyID, &m.Status, &m.DeletedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find voucher by ID "+voucherID, err)
	}

	voucher := mapping.ToDomainVoucher(m)

	voucher.LineItems, err = r.findLineItemsByVoucherID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	voucher.AssetLinks, err = r.findAssetLinksByVoucherID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	voucher.OriginalAssociations, voucher.ResultAssociations, err = r.findAssociationsByVoucherID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

// FindVoucherByNumber retrieves a voucher graph by its per-book number.
func (r *PgxVoucherRepository) FindVoucherByNumber(ctx context.Context, bookID string, voucherNumber int64) (*domain.Voucher, error) {
	var voucherID string
	err := r.Pool.QueryRow(ctx, `SELECT voucher_id FROM vouchers WHERE book_id = $1 AND voucher_number = $2;`, bookID, voucherNumber).Scan(&voucherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find voucher by number "+strconv.FormatInt(voucherNumber, 10), err)
	}
	return r.FindVoucherByID(ctx, voucherID)
}

func (r *PgxVoucherRepository) findLineItemsByVoucherID(ctx context.Context, voucherID string) ([]domain.LineItem, error) {
	query := `
		SELECT ` + lineItemWithAccountColumns + `
		FROM line_items li
		JOIN accounts a ON li.account_id = a.account_id
		WHERE li.voucher_id = $1
		ORDER BY li.created_at, li.line_item_id;
	`
	rows, err := r.Pool.Query(ctx, query, voucherID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items for voucher "+voucherID, err)
	}
	defer rows.Close()

	items := []models.LineItem{}
	for rows.Next() {
		var li models.LineItem
		if err := rows.Scan(
			&li.LineItemID, &li.VoucherID, &li.AccountID, &li.Amount, &li.Debit, &li.Description,
			&li.CreatedAt, &li.CreatedBy, &li.LastUpdatedAt, &li.LastUpdatedBy,
			&li.AccountCode, &li.AccountDebit, &li.AccountName,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line item row for voucher "+voucherID, err)
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line item rows for voucher "+voucherID, err)
	}
	return mapping.ToDomainLineItemSlice(items), nil
}

func (r *PgxVoucherRepository) findAssetLinksByVoucherID(ctx context.Context, voucherID string) ([]domain.AssetVoucher, error) {
	query := `
		SELECT asset_voucher_id, asset_id, voucher_id, deleted_at, created_at, created_by, last_updated_at, last_updated_by
		FROM asset_vouchers
		WHERE voucher_id = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, voucherID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query asset links for voucher "+voucherID, err)
	}
	defer rows.Close()

	var links []domain.AssetVoucher
	for rows.Next() {
		var m models.AssetVoucher
		if err := rows.Scan(
			&m.AssetVoucherID, &m.AssetID, &m.VoucherID, &m.DeletedAt,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan asset link row for voucher "+voucherID, err)
		}
		links = append(links, mapping.ToDomainAssetVoucher(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating asset link rows for voucher "+voucherID, err)
	}
	return links, nil
}

// findAssociationsByVoucherID loads every association edge touching the
// voucher, with its event and line-item pairings, split by which side the
// voucher is on. Far-side vouchers are not loaded here; graph traversal
// fetches them one voucher at a time.
func (r *PgxVoucherRepository) findAssociationsByVoucherID(ctx context.Context, voucherID string) (original []domain.VoucherAssociation, result []domain.VoucherAssociation, err error) {
	query := `
		SELECT av.association_id, av.event_id, av.original_voucher_id, av.result_voucher_id, av.deleted_at,
		       av.created_at, av.created_by, av.last_updated_at, av.last_updated_by,
		       e.event_type, e.occurred_at
		FROM associate_vouchers av
		JOIN events e ON av.event_id = e.event_id
		WHERE av.original_voucher_id = $1 OR av.result_voucher_id = $1
		ORDER BY av.created_at;
	`
	rows, err := r.Pool.Query(ctx, query, voucherID)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query associations for voucher "+voucherID, err)
	}
	defer rows.Close()

	var assocs []domain.VoucherAssociation
	assocIDs := []string{}
	for rows.Next() {
		var m models.VoucherAssociation
		var eventType string
		var occurredAt time.Time
		if err := rows.Scan(
			&m.AssociationID, &m.EventID, &m.OriginalVoucherID, &m.ResultVoucherID, &m.DeletedAt,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
			&eventType, &occurredAt,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan association row for voucher "+voucherID, err)
		}
		assoc := mapping.ToDomainVoucherAssociation(m)
		assoc.Event = &domain.Event{
			EventID:    m.EventID,
			EventType:  domain.EventType(eventType),
			OccurredAt: occurredAt,
		}
		assocs = append(assocs, assoc)
		assocIDs = append(assocIDs, assoc.AssociationID)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating association rows for voucher "+voucherID, err)
	}

	if len(assocIDs) > 0 {
		pairings, err := r.findLineItemAssociationsByVoucherAssociationIDs(ctx, assocIDs)
		if err != nil {
			return nil, nil, err
		}
		for i := range assocs {
			assocs[i].LineItemAssociations = pairings[assocs[i].AssociationID]
		}
	}

	for _, assoc := range assocs {
		if assoc.OriginalVoucherID == voucherID {
			original = append(original, assoc)
		}
		if assoc.ResultVoucherID == voucherID {
			result = append(result, assoc)
		}
	}
	return original, result, nil
}

func (r *PgxVoucherRepository) findLineItemAssociationsByVoucherAssociationIDs(ctx context.Context, assocIDs []string) (map[string][]domain.LineItemAssociation, error) {
	query := `
		SELECT association_id, voucher_association_id, original_line_item_id, result_line_item_id, amount,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM associate_line_items
		WHERE voucher_association_id = ANY($1)
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, assocIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line item associations", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.LineItemAssociation)
	for rows.Next() {
		var m models.LineItemAssociation
		if err := rows.Scan(
			&m.AssociationID, &m.VoucherAssociationID, &m.OriginalLineItemID, &m.ResultLineItemID, &m.Amount,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line item association row", err)
		}
		lia := mapping.ToDomainLineItemAssociation(m)
		out[lia.VoucherAssociationID] = append(out[lia.VoucherAssociationID], lia)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line item association rows", err)
	}
	return out, nil
}

// ListVouchersByBook retrieves a paginated list of vouchers for a book using
// token-based pagination. Mirror vouchers (result side of a live event edge)
// never show up in listings.
func (r *PgxVoucherRepository) ListVouchersByBook(ctx context.Context, bookID string, limit int, nextToken *string, includeDeleted bool) ([]domain.Voucher, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + voucherColumns + ` FROM vouchers v`
	filterClause := `WHERE book_id = $1
		AND NOT EXISTS (
			SELECT 1 FROM associate_vouchers av
			WHERE av.result_voucher_id = v.voucher_id AND av.deleted_at IS NULL
		)`
	if !includeDeleted {
		filterClause += ` AND v.deleted_at IS NULL`
	}
	orderByClause := `ORDER BY voucher_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{bookID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (voucher_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)

		query := baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query vouchers for book "+bookID, err)
	}
	defer rows.Close()

	modelVouchers := make([]models.Voucher, 0, fetchLimit)
	for rows.Next() {
		var m models.Voucher
		if err := rows.Scan(
			&m.VoucherID, &m.BookID, &m.VoucherNumber, &m.VoucherDate, &m.Type, &m.Note,
			&m.CounterPartyID, &m.Status, &m.DeletedAt,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan voucher row for book "+bookID, err)
		}
		modelVouchers = append(modelVouchers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating voucher rows for book "+bookID, err)
	}

	var nextTokenVal *string
	results := modelVouchers
	if len(modelVouchers) > limit {
		lastVoucher := modelVouchers[limit-1]
		newToken := pagination.EncodeToken(lastVoucher.VoucherDate, lastVoucher.CreatedAt)
		nextTokenVal = &newToken
		results = modelVouchers[:limit]
	}

	domainVouchers := make([]domain.Voucher, len(results))
	for i, m := range results {
		domainVouchers[i] = mapping.ToDomainVoucher(m)
	}
	return domainVouchers, nextTokenVal, nil
}

// FindLineItemsByIDs retrieves persisted line items with their accounts,
// keyed by ID. A missing ID is simply absent from the map.
func (r *PgxVoucherRepository) FindLineItemsByIDs(ctx context.Context, lineItemIDs []string) (map[string]domain.LineItem, error) {
	if len(lineItemIDs) == 0 {
		return map[string]domain.LineItem{}, nil
	}

	query := `
		SELECT ` + lineItemWithAccountColumns + `
		FROM line_items li
		JOIN accounts a ON li.account_id = a.account_id
		WHERE li.line_item_id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, lineItemIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items by IDs", err)
	}
	defer rows.Close()

	out := make(map[string]domain.LineItem, len(lineItemIDs))
	for rows.Next() {
		var li models.LineItem
		if err := rows.Scan(
			&li.LineItemID, &li.VoucherID, &li.AccountID, &li.Amount, &li.Debit, &li.Description,
			&li.CreatedAt, &li.CreatedBy, &li.LastUpdatedAt, &li.LastUpdatedBy,
			&li.AccountCode, &li.AccountDebit, &li.AccountName,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line item row during batch fetch", err)
		}
		d := mapping.ToDomainLineItem(li)
		out[d.LineItemID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line item rows during batch fetch", err)
	}
	return out, nil
}

// FindLineItemAssociationsByOriginalIDs retrieves the line-item pairings that
// already consume any of the given original line items, skipping pairings
// whose voucher edge has been tombstoned.
func (r *PgxVoucherRepository) FindLineItemAssociationsByOriginalIDs(ctx context.Context, originalLineItemIDs []string) ([]domain.LineItemAssociation, error) {
	if len(originalLineItemIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ali.association_id, ali.voucher_association_id, ali.original_line_item_id, ali.result_line_item_id, ali.amount,
		       ali.created_at, ali.created_by, ali.last_updated_at, ali.last_updated_by
		FROM associate_line_items ali
		JOIN associate_vouchers av ON ali.voucher_association_id = av.association_id
		WHERE ali.original_line_item_id = ANY($1) AND av.deleted_at IS NULL;
	`
	rows, err := r.Pool.Query(ctx, query, originalLineItemIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line item associations by original IDs", err)
	}
	defer rows.Close()

	var out []domain.LineItemAssociation
	for rows.Next() {
		var m models.LineItemAssociation
		if err := rows.Scan(
			&m.AssociationID, &m.VoucherAssociationID, &m.OriginalLineItemID, &m.ResultLineItemID, &m.Amount,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line item association row", err)
		}
		out = append(out, mapping.ToDomainLineItemAssociation(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line item association rows", err)
	}
	return out, nil
}
