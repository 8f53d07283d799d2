package testutil

import (
	"errors"
	"testing"

	apperrors "famledger/internal/errors"
)

// AssertAppError fails the test unless err unwraps to an *AppError carrying
// the expected code. The stable codes (CARD_NOT_FOUND, DUPLICATE_BUDGET_PERIOD,
// ...) are the contract tests assert against, not message text.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test immediately if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
