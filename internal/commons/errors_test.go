package commons

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfClassifiesDomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		kind ErrorKind
	}{
		{NotFoundError("account not found: %s", "acc-1"), KindNotFound},
		{ConflictError("account number exists"), KindConflict},
		{ValidationError("inactive account"), KindValidation},
		{InternalError("boom"), KindInternal},
		{ErrRecordNotFound, KindNotFound},
		{ErrInsufficientBalance, KindValidation},
		{errors.New("plain error"), KindInternal},
	}

	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.kind {
			t.Fatalf("KindOf(%v) = %s, want %s", tc.err, got, tc.kind)
		}
	}
}

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("withdraw: %w", ErrInsufficientBalance)
	if !IsValidation(wrapped) {
		t.Fatal("expected wrapped sentinel to keep its kind")
	}
	if !errors.Is(wrapped, ErrInsufficientBalance) {
		t.Fatal("expected errors.Is to match wrapped sentinel")
	}
}

func TestErrorResponseFromCarriesDetails(t *testing.T) {
	err := ValidationErrorWithDetails("validation failed", map[string]string{
		"amount": "amount must be greater than zero",
	})

	resp := ErrorResponseFrom[string]("validation failed", err)
	if resp.Success {
		t.Fatal("expected failure envelope")
	}
	if resp.Details["amount"] == "" {
		t.Fatalf("expected field details, got %v", resp.Details)
	}
	if len(resp.Errors) != 1 || resp.Errors[0] != "validation failed" {
		t.Fatalf("unexpected errors %v", resp.Errors)
	}
}
