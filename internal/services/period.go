package services

import (
	"time"

	apperrors "famledger/internal/errors"
)

// monthLayout is the wire format for billing and budget periods.
const monthLayout = "2006-01"

// monthWindow returns the [start, end) time window of a "YYYY-MM" period.
func monthWindow(period string) (time.Time, time.Time, error) {
	start, err := time.Parse(monthLayout, period)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be in YYYY-MM format")
	}
	return start, start.AddDate(0, 1, 0), nil
}
