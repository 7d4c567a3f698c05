package models

import "testing"

func TestTransferFeePermille(t *testing.T) {
	settings := DefaultMarketSettings("guild-1")

	if got := settings.TransferFeePermille(CURRENCY_TOPY); got != DEFAULT_TOPY_TRANSFER_FEE_PERMILLE {
		t.Fatalf("expected topy fee %d, got %d", DEFAULT_TOPY_TRANSFER_FEE_PERMILLE, got)
	}
	if got := settings.TransferFeePermille(CURRENCY_RUBY); got != DEFAULT_RUBY_TRANSFER_FEE_PERMILLE {
		t.Fatalf("expected ruby fee %d, got %d", DEFAULT_RUBY_TRANSFER_FEE_PERMILLE, got)
	}
}

func TestTransferFeeAmounts(t *testing.T) {
	settings := DefaultMarketSettings("guild-1")

	fee := NewAmount(1000).PermilleShare(int64(settings.TransferFeePermille(CURRENCY_TOPY)))
	if fee.Int64() != 50 {
		t.Fatalf("expected topy fee 50 on 1000, got %d", fee.Int64())
	}

	fee = NewAmount(1000).PermilleShare(int64(settings.TransferFeePermille(CURRENCY_RUBY)))
	if fee.Int64() != 30 {
		t.Fatalf("expected ruby fee 30 on 1000, got %d", fee.Int64())
	}
}
