package services

import (
	"errors"
	"testing"
	"time"

	"topia/internal/models"
)

func TestInsufficientBalanceErrorUnwraps(t *testing.T) {
	var err error = &InsufficientBalanceError{
		Required:  models.NewAmount(100),
		Available: models.NewAmount(40),
	}

	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("should unwrap to ErrInsufficientBalance")
	}

	var typed *InsufficientBalanceError
	if !errors.As(err, &typed) {
		t.Fatalf("errors.As should recover the typed error")
	}
	if typed.Required.Int64() != 100 || typed.Available.Int64() != 40 {
		t.Fatalf("unexpected figures %s / %s", typed.Required, typed.Available)
	}
}

func TestPurchaseLimitErrorUnwraps(t *testing.T) {
	var err error = &PurchaseLimitError{MaxPerUser: 2, CurrentCount: 2}

	if !errors.Is(err, ErrPurchaseLimit) {
		t.Fatalf("should unwrap to ErrPurchaseLimit")
	}

	var typed *PurchaseLimitError
	if !errors.As(err, &typed) || typed.MaxPerUser != 2 {
		t.Fatalf("errors.As should recover the typed error")
	}
}

func TestInsufficientQuantityErrorUnwraps(t *testing.T) {
	var err error = &InsufficientQuantityError{Required: 3, Available: 1}

	if !errors.Is(err, ErrInsufficientQuantity) {
		t.Fatalf("should unwrap to ErrInsufficientQuantity")
	}
}

func TestAlreadyClaimedErrorUnwraps(t *testing.T) {
	next := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	var err error = &AlreadyClaimedError{NextClaimAt: next}

	if !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("should unwrap to ErrAlreadyClaimed")
	}

	var typed *AlreadyClaimedError
	if !errors.As(err, &typed) || !typed.NextClaimAt.Equal(next) {
		t.Fatalf("errors.As should recover the claim time")
	}
}
