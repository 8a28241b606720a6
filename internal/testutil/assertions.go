package testutil

import (
	"errors"
	"testing"

	"budgetwise/internal/analytics"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/money"
)

// AssertAppError checks that err is an *AppError with the expected error code.
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

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertCents compares an amount against a decimal string such as "-20.00",
// reporting both sides in currency form.
func AssertCents(t *testing.T, field string, got money.Cents, want string) {
	t.Helper()

	expected, err := money.Parse(want)
	if err != nil {
		t.Fatalf("bad expected amount %q for %s: %v", want, field, err)
	}
	if got != expected {
		t.Errorf("expected %s %s, got %s", field, expected, got)
	}
}

// AssertStatus checks a computed budget status.
func AssertStatus(t *testing.T, got, want analytics.Status) {
	t.Helper()

	if got != want {
		t.Errorf("expected budget status %q, got %q", want, got)
	}
}
