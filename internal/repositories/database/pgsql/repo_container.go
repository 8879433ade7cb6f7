package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/voucherworks/voucher_ledger_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	voucherRepo := newPgxVoucherRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo: accountRepo,
		VoucherRepo: voucherRepo,
	}
}
