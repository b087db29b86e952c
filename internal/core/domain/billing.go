package domain

import "github.com/shopspring/decimal"

// EnrollmentStatus tracks whether an enrollment counts toward billing.
type EnrollmentStatus string

const (
	Enrolled  EnrollmentStatus = "ENROLLED"
	Dropped   EnrollmentStatus = "DROPPED"
	Withdrawn EnrollmentStatus = "WITHDRAWN"
)

// Enrollment is a billing input: one student/subject registration for an
// academic period. CalculationRequired flags it for the next bill calculation.
type Enrollment struct {
	EnrollmentID        string           `json:"enrollmentID"`
	StudentID           string           `json:"studentID"`
	SubjectID           string           `json:"subjectID"`
	AcademicPeriodID    string           `json:"academicPeriodID"`
	Credits             int              `json:"credits"`
	Status              EnrollmentStatus `json:"status"`
	CalculationRequired bool             `json:"calculationRequired"`
}

// AcademicPeriod is the term a fee structure and enrollments belong to.
// Exactly one period may be active at a time.
type AcademicPeriod struct {
	PeriodID string `json:"periodID"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// FeeStructure defines a charge for an academic period. A structure tied to a
// subject applies only to students enrolled in that subject; a structure with
// no subject is a term-wide fee. Per-credit structures scale with total credits.
type FeeStructure struct {
	FeeStructureID   string          `json:"feeStructureID"`
	AcademicPeriodID string          `json:"academicPeriodID"`
	SubjectID        *string         `json:"subjectID,omitempty"`
	Name             string          `json:"name"`
	Amount           decimal.Decimal `json:"amount"`
	IsPerCredit      bool            `json:"isPerCredit"`
	GLAccountID      string          `json:"glAccountID"` // Revenue account for AR posting
}

// AidStatus tracks a financial aid award through disbursement.
type AidStatus string

const (
	AidPending   AidStatus = "PENDING"
	AidApproved  AidStatus = "APPROVED"
	AidDisbursed AidStatus = "DISBURSED"
	AidCanceled  AidStatus = "CANCELED"
)

// AidAward is a financial aid award against a student's charges for a period.
type AidAward struct {
	AwardID          string          `json:"awardID"`
	StudentID        string          `json:"studentID"`
	AcademicPeriodID string          `json:"academicPeriodID"`
	Source           string          `json:"source"`
	Amount           decimal.Decimal `json:"amount"`
	Status           AidStatus       `json:"status"`
}

// BillCalculation is the derived amount-due view for one student in the
// active academic period. PendingAid is netted into AmountDueNow
// optimistically; both figures are surfaced so callers can apply policy.
type BillCalculation struct {
	StudentID        string          `json:"studentID"`
	AcademicPeriodID string          `json:"academicPeriodID"`
	TotalCredits     int             `json:"totalCredits"`
	Tuition          decimal.Decimal `json:"tuition"`
	CourseFees       decimal.Decimal `json:"courseFees"`
	TermFees         decimal.Decimal `json:"termFees"`
	DisbursedAid     decimal.Decimal `json:"disbursedAid"`
	PendingAid       decimal.Decimal `json:"pendingAid"`
	TotalDue         decimal.Decimal `json:"totalDue"`
	AmountDueNow     decimal.Decimal `json:"amountDueNow"`
}
