package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voucherworks/voucher_ledger_app/internal/apperrors"
	"github.com/voucherworks/voucher_ledger_app/internal/core/domain"
	portsrepo "github.com/voucherworks/voucher_ledger_app/internal/core/ports/repositories"
	"github.com/voucherworks/voucher_ledger_app/internal/models"
	"github.com/voucherworks/voucher_ledger_app/internal/utils/mapping"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, book_id, code, name, debit, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID, &m.BookID, &m.Code, &m.Name, &m.Debit, &m.Description, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		m.AccountID, m.BookID, m.Code, m.Name, m.Debit, m.Description, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: account code %s already exists in book %s", apperrors.ErrDuplicate, m.Code, m.BookID)
		}
		return apperrors.NewAppError(500, "failed to save account "+m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves a single account.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account by ID "+accountID, err)
	}

	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by ID. A missing ID is
// simply absent from the map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts by IDs", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row during batch fetch", err)
		}
		out[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows during batch fetch", err)
	}
	return out, nil
}

// ListAccountsByBook retrieves all accounts of one book ordered by code.
func (r *PgxAccountRepository) ListAccountsByBook(ctx context.Context, bookID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE book_id = $1 ORDER BY code;`
	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts for book "+bookID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row for book "+bookID, err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows for book "+bookID, err)
	}
	return accounts, nil
}

// FindAccountSetting retrieves the AP/AR code designation for a book.
func (r *PgxAccountRepository) FindAccountSetting(ctx context.Context, bookID string) (*domain.AccountSetting, error) {
	query := `
		SELECT book_id, payable_codes, receivable_codes, created_at, created_by, last_updated_at, last_updated_by
		FROM account_settings
		WHERE book_id = $1;
	`
	var m models.AccountSetting
	err := r.pool.QueryRow(ctx, query, bookID).Scan(
		&m.BookID, &m.PayableCodes, &m.ReceivableCodes,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no account setting for book %s", apperrors.ErrNotFound, bookID)
		}
		return nil, apperrors.NewAppError(500, "failed to find account setting for book "+bookID, err)
	}

	setting := mapping.ToDomainAccountSetting(m)
	return &setting, nil
}

// SaveAccountSetting creates or replaces the AP/AR designation of a book.
func (r *PgxAccountRepository) SaveAccountSetting(ctx context.Context, setting domain.AccountSetting) error {
	m := mapping.ToModelAccountSetting(setting)

	query := `
		INSERT INTO account_settings (book_id, payable_codes, receivable_codes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (book_id) DO UPDATE
		SET payable_codes = EXCLUDED.payable_codes,
		    receivable_codes = EXCLUDED.receivable_codes,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.pool.Exec(ctx, query, m.BookID, m.PayableCodes, m.ReceivableCodes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save account setting for book "+m.BookID, err)
	}
	return nil
}
