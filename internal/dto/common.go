package dto

import (
	"fmt"
	"time"

	"github.com/campuscore/finance_backend/internal/apperrors"
)

// DateFormat is the wire format for all calendar dates.
const DateFormat = "2006-01-02"

// ParseDate parses an ISO calendar date (YYYY-MM-DD) into a UTC time.Time.
// Returns apperrors.ErrValidation on malformed input.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateFormat, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", apperrors.ErrValidation, value)
	}
	return t, nil
}
