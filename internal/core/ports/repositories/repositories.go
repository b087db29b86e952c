package repositories

// RepositoryProvider bundles every repository facade for injection into the
// service container.
type RepositoryProvider struct {
	AccountRepo        AccountRepositoryFacade
	FiscalPeriodRepo   FiscalPeriodRepositoryFacade
	JournalRepo        JournalRepositoryFacade
	ArRepo             ArRepositoryFacade
	ApRepo             ApRepositoryFacade
	PayrollRepo        PayrollRepositoryFacade
	AssetRepo          AssetRepositoryFacade
	ReconciliationRepo ReconciliationRepositoryFacade
	BillingRepo        BillingRepositoryFacade
	ReportingRepo      ReportingRepositoryFacade
}
