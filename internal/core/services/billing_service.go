package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/campuscore/finance_backend/internal/core/domain"
	portsrepo "github.com/campuscore/finance_backend/internal/core/ports/repositories"
	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
)

// billingService derives a student's amount due from enrollments, fee
// structures, and aid awards for the active academic period. It reads billing
// inputs only and never touches the GL.
type billingService struct {
	BaseService
	billingRepo portsrepo.BillingRepositoryFacade
}

// NewBillingService creates a new BillingService.
func NewBillingService(billingRepo portsrepo.BillingRepositoryFacade) portssvc.BillingSvcFacade {
	return &billingService{billingRepo: billingRepo}
}

var _ portssvc.BillingSvcFacade = (*billingService)(nil)

// CalculateStudentBill computes the amount-due view for one student in the
// active academic period. Only enrollments with status ENROLLED count.
// Disbursed aid reduces totalDue; pending and approved aid is netted into
// amountDueNow only. Clears the calculationRequired flag on the enrollments
// it read.
func (s *billingService) CalculateStudentBill(ctx context.Context, studentID string) (*domain.BillCalculation, error) {
	period, err := s.billingRepo.FindActiveAcademicPeriod(ctx)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.billingRepo.FindEnrollments(ctx, studentID, period.PeriodID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load enrollments", "student_id", studentID)
		return nil, fmt.Errorf("failed to load enrollments: %w", err)
	}
	structures, err := s.billingRepo.FindFeeStructures(ctx, period.PeriodID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load fee structures", "academic_period_id", period.PeriodID)
		return nil, fmt.Errorf("failed to load fee structures: %w", err)
	}
	awards, err := s.billingRepo.FindAidAwards(ctx, studentID, period.PeriodID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load aid awards", "student_id", studentID)
		return nil, fmt.Errorf("failed to load aid awards: %w", err)
	}

	totalCredits := 0
	enrolledSubjects := make(map[string]bool)
	touchedEnrollments := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		touchedEnrollments = append(touchedEnrollments, e.EnrollmentID)
		if e.Status != domain.Enrolled {
			continue
		}
		totalCredits += e.Credits
		enrolledSubjects[e.SubjectID] = true
	}
	creditCount := decimal.NewFromInt(int64(totalCredits))

	tuition := decimal.Zero
	courseFees := decimal.Zero
	termFees := decimal.Zero
	for _, fs := range structures {
		switch {
		case fs.SubjectID == nil && fs.IsPerCredit:
			tuition = tuition.Add(fs.Amount.Mul(creditCount))
		case fs.SubjectID == nil:
			termFees = termFees.Add(fs.Amount)
		case enrolledSubjects[*fs.SubjectID] && fs.IsPerCredit:
			tuition = tuition.Add(fs.Amount.Mul(creditCount))
		case enrolledSubjects[*fs.SubjectID]:
			courseFees = courseFees.Add(fs.Amount)
		}
	}

	disbursedAid := decimal.Zero
	pendingAid := decimal.Zero
	for _, a := range awards {
		switch a.Status {
		case domain.AidDisbursed:
			disbursedAid = disbursedAid.Add(a.Amount)
		case domain.AidPending, domain.AidApproved:
			pendingAid = pendingAid.Add(a.Amount)
		}
	}

	totalDue := tuition.Add(courseFees).Add(termFees).Sub(disbursedAid)
	amountDueNow := totalDue.Sub(pendingAid)

	if len(touchedEnrollments) > 0 {
		if err := s.billingRepo.ClearCalculationRequired(ctx, touchedEnrollments); err != nil {
			// Flag reset is bookkeeping; the calculation itself is still valid.
			s.LogWarn(ctx, "Failed to clear calculation flag", "student_id", studentID, "error", err)
		}
	}

	s.LogDebug(ctx, "Student bill calculated",
		"student_id", studentID,
		"academic_period_id", period.PeriodID,
		"total_credits", totalCredits,
		"total_due", totalDue.String())

	return &domain.BillCalculation{
		StudentID:        studentID,
		AcademicPeriodID: period.PeriodID,
		TotalCredits:     totalCredits,
		Tuition:          tuition,
		CourseFees:       courseFees,
		TermFees:         termFees,
		DisbursedAid:     disbursedAid,
		PendingAid:       pendingAid,
		TotalDue:         totalDue,
		AmountDueNow:     amountDueNow,
	}, nil
}
