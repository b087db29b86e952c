package services

import (
	portsrepo "github.com/campuscore/finance_backend/internal/core/ports/repositories"
	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
)

// NewServiceContainer wires every service against the repository provider.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account:        NewAccountService(repos.AccountRepo),
		FiscalPeriod:   NewFiscalPeriodService(repos.FiscalPeriodRepo),
		Journal:        NewJournalService(repos.JournalRepo, repos.AccountRepo, repos.FiscalPeriodRepo),
		Ar:             NewArService(repos.ArRepo, repos.AccountRepo, repos.FiscalPeriodRepo),
		Ap:             NewApService(repos.ApRepo, repos.AccountRepo, repos.FiscalPeriodRepo),
		Payroll:        NewPayrollService(repos.PayrollRepo, repos.AccountRepo, repos.FiscalPeriodRepo),
		Asset:          NewAssetService(repos.AssetRepo, repos.AccountRepo, repos.FiscalPeriodRepo),
		Reconciliation: NewReconciliationService(repos.ReconciliationRepo, repos.AccountRepo),
		Billing:        NewBillingService(repos.BillingRepo),
		Reporting:      NewReportingService(repos.ReportingRepo, repos.FiscalPeriodRepo),
	}
}
