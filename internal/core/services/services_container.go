package services

import (
	"time"

	portsrepo "github.com/voucherworks/voucher_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/voucherworks/voucher_ledger_app/internal/core/ports/services"
	"github.com/voucherworks/voucher_ledger_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Account service first since the voucher orchestrator depends on it
	container.Account = NewAccountService(repos.AccountRepo)

	container.Netting = NewNettingService(repos.VoucherRepo, repos.AccountRepo)

	container.Voucher = NewVoucherService(
		repos.VoucherRepo,
		container.Account,
		container.Netting,
		WithRestoreWindow(time.Duration(cfg.RestoreWindowSeconds)*time.Second),
	)

	return container
}
