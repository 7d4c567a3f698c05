package services

import (
	"errors"
	"fmt"
	"time"

	"topia/internal/models"
)

var (
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidCurrency      = errors.New("unknown currency")
	ErrSelfTransfer         = errors.New("cannot transfer to self")
	ErrItemNotFound         = errors.New("shop item not found")
	ErrItemDisabled         = errors.New("shop item disabled")
	ErrOutOfStock           = errors.New("shop item out of stock")
	ErrTicketNotFound       = errors.New("role ticket not found")
	ErrRoleOptionNotFound   = errors.New("role option not found")
	ErrItemNotOwned         = errors.New("item not owned")
	ErrItemExpired          = errors.New("item expired")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrPurchaseLimit        = errors.New("purchase limit reached")
	ErrAlreadyClaimed       = errors.New("already claimed today")
	ErrExcludedChannel      = errors.New("channel excluded from earning")
	ErrExcludedRole         = errors.New("role excluded from earning")

	ErrPurchaseLock = errors.New("purchase locked")
	ErrExchangeLock = errors.New("exchange locked")
	ErrClaimLock    = errors.New("claim locked")
	ErrTransferLock = errors.New("transfer locked")
)

// InsufficientBalanceError carries the figures a caller needs to report the
// shortfall. Unwraps to ErrInsufficientBalance.
type InsufficientBalanceError struct {
	Required  models.Amount
	Available models.Amount
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %s, available %s", e.Required, e.Available)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

type PurchaseLimitError struct {
	MaxPerUser   int
	CurrentCount int
}

func (e *PurchaseLimitError) Error() string {
	return fmt.Sprintf("purchase limit reached: %d of %d", e.CurrentCount, e.MaxPerUser)
}

func (e *PurchaseLimitError) Unwrap() error {
	return ErrPurchaseLimit
}

type InsufficientQuantityError struct {
	Required  int
	Available int
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("insufficient quantity: required %d, available %d", e.Required, e.Available)
}

func (e *InsufficientQuantityError) Unwrap() error {
	return ErrInsufficientQuantity
}

// AlreadyClaimedError tells the caller when the next claim opens.
type AlreadyClaimedError struct {
	NextClaimAt time.Time
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("already claimed today, next claim at %s", e.NextClaimAt.Format(time.RFC3339))
}

func (e *AlreadyClaimedError) Unwrap() error {
	return ErrAlreadyClaimed
}
