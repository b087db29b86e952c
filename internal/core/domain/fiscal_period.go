package domain

import "time"

// FiscalPeriodStatus indicates whether a fiscal period accepts postings.
type FiscalPeriodStatus string

const (
	PeriodOpen   FiscalPeriodStatus = "OPEN"
	PeriodClosed FiscalPeriodStatus = "CLOSED"
)

// FiscalPeriod is a bounded date range during which journal postings are
// permitted. Ranges never overlap; at most one period contains a given date.
type FiscalPeriod struct {
	PeriodID  string             `json:"periodID"`
	Name      string             `json:"name"`
	StartDate time.Time          `json:"startDate"`
	EndDate   time.Time          `json:"endDate"`
	Status    FiscalPeriodStatus `json:"status"`
	ClosedBy  *string            `json:"closedBy,omitempty"`
	ClosedAt  *time.Time         `json:"closedAt,omitempty"`
	AuditFields
}

// IsOpen reports whether the period currently accepts postings.
func (p FiscalPeriod) IsOpen() bool {
	return p.Status == PeriodOpen
}

// Contains reports whether the given date falls within the period range,
// inclusive of both boundaries. Only the calendar date is considered.
func (p FiscalPeriod) Contains(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(p.StartDate.Truncate(24*time.Hour)) && !d.After(p.EndDate.Truncate(24*time.Hour))
}
