package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/campuscore/finance_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider builds every repository against one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo:        newPgxAccountRepository(dbPool),
		FiscalPeriodRepo:   newPgxFiscalPeriodRepository(dbPool),
		JournalRepo:        newPgxJournalRepository(dbPool),
		ArRepo:             newPgxArRepository(dbPool),
		ApRepo:             newPgxApRepository(dbPool),
		PayrollRepo:        newPgxPayrollRepository(dbPool),
		AssetRepo:          newPgxAssetRepository(dbPool),
		ReconciliationRepo: newPgxReconciliationRepository(dbPool),
		BillingRepo:        newPgxBillingRepository(dbPool),
		ReportingRepo:      newReportingRepository(dbPool),
	}
}
